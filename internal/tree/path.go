package tree

import "strings"

// PathSeparator separates segments of a dotted key. There is no escaping:
// a key containing a literal dot cannot be addressed.
const PathSeparator = "."

// SplitPath splits a dotted key into its segments.
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// JoinPath appends key to a dotted prefix.
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + PathSeparator + key
}

// Lookup resolves a dotted path. It descends one mapping level per segment
// and fails as soon as a segment is missing or the current value is not a
// mapping.
func Lookup(m *Map, path string) (any, bool) {
	var current any = m
	for _, part := range SplitPath(path) {
		cur, ok := IsMap(current)
		if !ok {
			return nil, false
		}
		next, exists := cur.Get(part)
		if !exists {
			return nil, false
		}
		current = next
	}
	return current, true
}

// LookupParent resolves a dotted path and returns the mapping holding its
// last segment together with that segment. It fails unless the full path
// resolves.
func LookupParent(m *Map, path string) (*Map, string, bool) {
	parts := SplitPath(path)
	last := parts[len(parts)-1]

	parent := m
	for _, part := range parts[:len(parts)-1] {
		next, exists := parent.Get(part)
		if !exists {
			return nil, "", false
		}
		nextMap, ok := IsMap(next)
		if !ok {
			return nil, "", false
		}
		parent = nextMap
	}

	if parent == nil || !parent.Has(last) {
		return nil, "", false
	}
	return parent, last, true
}

// SetPath stores value at a dotted path, creating intermediate mappings as
// needed. An intermediate value that is not a mapping is replaced by a new
// mapping. It returns the previous value at the path, if any.
func SetPath(m *Map, path string, value any) (any, bool) {
	parts := SplitPath(path)
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, exists := current.Get(part)
		nextMap, ok := IsMap(next)
		if !exists || !ok {
			nextMap = NewMap()
			current.Set(part, nextMap)
		}
		current = nextMap
	}

	last := parts[len(parts)-1]
	prev, existed := current.Get(last)
	current.Set(last, value)
	return prev, existed
}
