// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/autoenv/internal/tree"
)

// Sentinel errors matched with [errors.Is] against the typed errors below.
var (
	// ErrSchemaPrefix is returned when a schema key carries neither the
	// required nor the optional prefix.
	ErrSchemaPrefix = errors.New("schema key without required prefix")

	// ErrUnexpectedKey is returned when an env config declares a key the
	// schema does not know about.
	ErrUnexpectedKey = errors.New("unexpected key in env config")

	// ErrMissingRequiredKey is returned when a required schema key has no
	// value in the env config.
	ErrMissingRequiredKey = errors.New("required key missing from env config")

	// ErrTypeMismatch is returned when a value's structural classification
	// disagrees with the expected one.
	ErrTypeMismatch = errors.New("type mismatch")
)

// PrefixError reports a schema key without a valid prefix.
type PrefixError struct {
	// Path is the dotted path of the offending key, ending with the raw key.
	Path string
}

func (e *PrefixError) Error() string {
	return fmt.Sprintf("schema key %q doesn't have a required prefix (%q or %q)", e.Path, RequiredPrefix, OptionalPrefix)
}

func (e *PrefixError) Is(target error) bool {
	return target == ErrSchemaPrefix
}

// UnexpectedKeyError reports an env config key absent from the schema.
type UnexpectedKeyError struct {
	Path string
}

func (e *UnexpectedKeyError) Error() string {
	return fmt.Sprintf("unexpected key %q in current env config", e.Path)
}

func (e *UnexpectedKeyError) Is(target error) bool {
	return target == ErrUnexpectedKey
}

// MissingKeyError reports a required key missing from the env config.
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required key %q missing from current env config", e.Path)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingRequiredKey
}

// TypeMismatchError reports a value whose structural classification differs
// from the expected one.
type TypeMismatchError struct {
	Path     string
	Expected tree.Class
	Found    tree.Class
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("env config key %q must be of type %q (%q found)", e.Path, e.Expected, e.Found)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
