// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tree implements the value model shared by the schema engine, the
// config instance and the persistence writer.
//
// A tree value is always one of a closed set of Go values:
//
//	nil        null
//	bool       boolean
//	float64    number
//	string     string
//	[]any      array
//	*Map       object (ordered mapping)
//
// [KindOf] names the exact variant of a value. [ClassOf] folds the scalar
// kinds into one class and is the single comparison used wherever two values
// must have compatible types. Values coming from callers are converted into
// this set with [FromGo].
package tree

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// ErrUnsupportedValue is returned by [FromGo] when a Go value has no tree
// representation (channels, funcs, maps with non-string keys, ...).
var ErrUnsupportedValue = errors.New("unsupported tree value")

// Kind is the variant of a tree value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the classification name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// KindOf classifies v. Values outside the closed set are classified after
// conversion through [FromGo]; if that fails too the value is reported as
// [KindNull].
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case *Map:
		if v.(*Map) == nil {
			return KindNull
		}
		return KindObject
	}

	converted, err := FromGo(v)
	if err != nil {
		return KindNull
	}
	return KindOf(converted)
}

// IsMap reports whether v is a non-nil mapping and returns it.
func IsMap(v any) (*Map, bool) {
	m, ok := v.(*Map)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

// FromGo converts an arbitrary Go value into the closed tree value set.
//
// Integers and floats become float64, string-keyed maps become *Map (keys in
// sorted order, since Go maps carry no order), slices and arrays become []any.
// Pointers are dereferenced. Values already in the tree set are returned
// unchanged.
func FromGo(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, float64, string:
		return val, nil
	case *Map:
		if val == nil {
			return nil, nil
		}
		return val, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			conv, err := FromGo(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		return mapFromGo(reflect.ValueOf(val))
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			conv, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
		}
		return mapFromGo(rv)
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func mapFromGo(rv reflect.Value) (*Map, error) {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	slices.Sort(keys)

	out := NewMap()
	for _, k := range keys {
		conv, err := FromGo(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out.Set(k, conv)
	}
	return out, nil
}

// ToGo converts a tree value into plain Go values: *Map becomes
// map[string]any, arrays are converted element-wise.
func ToGo(v any) any {
	switch val := v.(type) {
	case *Map:
		if val == nil {
			return nil
		}
		out := make(map[string]any, val.Len())
		val.Range(func(k string, item any) bool {
			out[k] = ToGo(item)
			return true
		})
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToGo(item)
		}
		return out
	default:
		return val
	}
}

// Clone returns a deep copy of v. Scalars are returned as is.
func Clone(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.Clone()
	case []any:
		if val == nil {
			return []any(nil)
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	default:
		return val
	}
}

// Equal reports whether a and b are deeply equal tree values. Mapping key
// order is not significant.
func Equal(a, b any) bool {
	a, b = canonical(a), canonical(b)
	if KindOf(a) != KindOf(b) {
		return false
	}

	switch va := a.(type) {
	case *Map:
		vb := b.(*Map)
		if va.Len() != vb.Len() {
			return false
		}
		equal := true
		va.Range(func(k string, item any) bool {
			other, ok := vb.Get(k)
			if !ok || !Equal(item, other) {
				equal = false
				return false
			}
			return true
		})
		return equal
	case []any:
		vb := b.([]any)
		if len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !Equal(va[i], vb[i]) {
				return false
			}
		}
		return true
	default:
		if KindOf(a) == KindNull {
			return a == nil && b == nil
		}
		return a == b
	}
}

// canonical converts values outside the closed set, leaving tree values and
// unconvertible values untouched.
func canonical(v any) any {
	switch val := v.(type) {
	case *Map:
		if val == nil {
			return nil
		}
		return val
	case nil, bool, float64, string, []any:
		return v
	}
	conv, err := FromGo(v)
	if err != nil {
		return v
	}
	return conv
}
