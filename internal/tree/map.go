package tree

import (
	"bytes"
	"encoding/json"
)

// Map is a string-keyed mapping that remembers insertion order. Keys decoded
// from JSON keep their document order, which is the order validation walks
// and reports violations in.
//
// A nil *Map is a valid, empty, read-only map.
type Map struct {
	keys []string
	vals map[string]any
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{vals: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. A new key is appended to the order; an existing
// key keeps its position.
func (m *Map) Set(key string, value any) {
	if m.vals == nil {
		m.vals = make(map[string]any)
	}
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Delete removes key. It reports whether the key was present.
func (m *Map) Delete(key string) bool {
	if m == nil {
		return false
	}
	if _, exists := m.vals[key]; !exists {
		return false
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy. Cloning a nil map yields an empty map.
func (m *Map) Clone() *Map {
	out := NewMap()
	m.Range(func(k string, v any) bool {
		out.Set(k, Clone(v))
		return true
	})
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of m with the decoded JSON object.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

var _ json.Marshaler = (*Map)(nil)
var _ json.Unmarshaler = (*Map)(nil)
