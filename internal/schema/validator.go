// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import (
	"github.com/MKhiriev/autoenv/internal/tree"
)

// Validate checks env against the schema s in two passes:
//
//  1. every env key, at any depth, must be declared by the schema
//     ([*UnexpectedKeyError]);
//  2. every required schema key must be present in env
//     ([*MissingKeyError]) and every present key must have the schema
//     value's structural class ([*TypeMismatchError]). Primitives of
//     different kinds are compatible; arrays, objects and primitives are not.
//
// Each pass stops at its first violation, walking keys in document order.
// Optional keys absent from env are skipped; filling them in is left to
// [tree.Merge].
func Validate(s, env *tree.Map) error {
	if err := CheckUnexpectedKeys(s, env); err != nil {
		return err
	}
	return CheckMissingOrMismatched(s, env)
}

// CheckUnexpectedKeys runs the unexpected-key pass of [Validate].
func CheckUnexpectedKeys(s, env *tree.Map) error {
	return checkUnexpected(s, env, "")
}

func checkUnexpected(s, env *tree.Map, prefix string) error {
	var err error
	env.Range(func(key string, val any) bool {
		path := tree.JoinPath(prefix, key)

		schemaVal, _, ok := LookupKey(s, key)
		if !ok {
			err = &UnexpectedKeyError{Path: path}
			return false
		}

		nestedEnv, isMap := tree.IsMap(val)
		if !isMap {
			return true
		}
		// A non-object schema value declares no nested keys.
		nestedSchema, _ := tree.IsMap(schemaVal)
		if nestedErr := checkUnexpected(nestedSchema, nestedEnv, path); nestedErr != nil {
			err = nestedErr
			return false
		}
		return true
	})
	return err
}

// CheckMissingOrMismatched runs the missing-key and type pass of [Validate].
func CheckMissingOrMismatched(s, env *tree.Map) error {
	return checkMissing(s, env, "")
}

func checkMissing(s, env *tree.Map, prefix string) error {
	var err error
	s.Range(func(key string, schemaVal any) bool {
		name, optional, ok := splitKey(key)
		if !ok {
			err = &PrefixError{Path: tree.JoinPath(prefix, key)}
			return false
		}
		path := tree.JoinPath(prefix, name)

		envVal, present := env.Get(name)
		if !present {
			if optional {
				return true
			}
			err = &MissingKeyError{Path: path}
			return false
		}

		expected, found := tree.ClassOf(schemaVal), tree.ClassOf(envVal)
		if expected != found {
			err = &TypeMismatchError{Path: path, Expected: expected, Found: found}
			return false
		}

		nestedSchema, isMap := tree.IsMap(schemaVal)
		if !isMap {
			return true
		}
		nestedEnv, _ := tree.IsMap(envVal)
		if nestedErr := checkMissing(nestedSchema, nestedEnv, path); nestedErr != nil {
			err = nestedErr
			return false
		}
		return true
	})
	return err
}
