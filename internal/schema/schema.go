// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package schema implements the prefix-annotated schema convention.
//
// A schema is a JSON object whose every key, at every nesting level, starts
// with one of two markers:
//
//	"# name"   the env config must provide "name"
//	"? name"   "name" may be omitted; the schema value is its default
//
// Values are placeholders and defaults. A nested object is a nested schema;
// arrays are opaque (their elements are never checked).
//
// [Normalize] strips the markers and yields the defaults tree. [Validate]
// checks an env config against the schema.
package schema

import (
	"strings"

	"github.com/MKhiriev/autoenv/internal/tree"
)

const (
	// RequiredPrefix marks a key the env config must provide.
	RequiredPrefix = "# "
	// OptionalPrefix marks a key the env config may omit.
	OptionalPrefix = "? "
)

// splitKey separates a schema key into its logical name and optional flag.
func splitKey(key string) (name string, optional bool, ok bool) {
	switch {
	case strings.HasPrefix(key, RequiredPrefix):
		return key[len(RequiredPrefix):], false, true
	case strings.HasPrefix(key, OptionalPrefix):
		return key[len(OptionalPrefix):], true, true
	default:
		return "", false, false
	}
}

// LookupKey finds the schema entry for a logical key under either prefix.
// The required variant wins when both are present.
func LookupKey(s *tree.Map, name string) (value any, optional bool, ok bool) {
	if v, found := s.Get(RequiredPrefix + name); found {
		return v, false, true
	}
	if v, found := s.Get(OptionalPrefix + name); found {
		return v, true, true
	}
	return nil, false, false
}

// Normalize strips the required/optional markers from every key of s,
// recursively, producing the tree of defaults. Values are deep-copied.
//
// It fails with a [*PrefixError] naming the first key, in document order,
// without a valid marker.
func Normalize(s *tree.Map) (*tree.Map, error) {
	return normalize(s, "")
}

func normalize(s *tree.Map, prefix string) (*tree.Map, error) {
	clean := tree.NewMap()

	var err error
	s.Range(func(key string, val any) bool {
		name, _, ok := splitKey(key)
		if !ok {
			err = &PrefixError{Path: tree.JoinPath(prefix, key)}
			return false
		}

		if nested, isMap := tree.IsMap(val); isMap {
			cleaned, nestedErr := normalize(nested, tree.JoinPath(prefix, name))
			if nestedErr != nil {
				err = nestedErr
				return false
			}
			clean.Set(name, cleaned)
			return true
		}

		clean.Set(name, tree.Clone(val))
		return true
	})
	if err != nil {
		return nil, err
	}

	return clean, nil
}
