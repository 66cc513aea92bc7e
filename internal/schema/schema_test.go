package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/autoenv/internal/tree"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func parse(t *testing.T, doc string) *tree.Map {
	t.Helper()
	m, err := tree.Parse([]byte(doc))
	require.NoError(t, err)
	return m
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := tree.Encode(v)
	require.NoError(t, err)
	return string(b)
}

// ── Normalize ─────────────────────────────────────────────────────────────────

// TestNormalize_StripsPrefixesRecursively checks that both markers are removed
// at every level and that arrays are copied untouched.
func TestNormalize_StripsPrefixesRecursively(t *testing.T) {
	s := parse(t, `{
		"# host": "localhost",
		"? port": 8080,
		"? db": {"# user": "", "? pool": {"? size": 4}},
		"? tags": [{"# not": "a schema"}]
	}`)

	got, err := Normalize(s)
	require.NoError(t, err)

	assert.Equal(t,
		`{"host":"localhost","port":8080,"db":{"user":"","pool":{"size":4}},"tags":[{"# not":"a schema"}]}`,
		encode(t, got))
}

// TestNormalize_DoesNotShareContainers ensures the defaults tree can be
// mutated without touching the schema.
func TestNormalize_DoesNotShareContainers(t *testing.T) {
	s := parse(t, `{"? list": [1, 2], "? nested": {"? k": "v"}}`)

	got, err := Normalize(s)
	require.NoError(t, err)

	list, _ := got.Get("list")
	list.([]any)[0] = 99.0
	tree.SetPath(got, "nested.k", "changed")

	assert.Equal(t, `{"? list":[1,2],"? nested":{"? k":"v"}}`, encode(t, s))
}

func TestNormalize_EmptySchema(t *testing.T) {
	got, err := Normalize(tree.NewMap())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	got, err = Normalize(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

// TestNormalize_PrefixErrors names the exact dotted path of the bad key.
func TestNormalize_PrefixErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{"no prefix at root", `{"key": 1}`, "key"},
		{"hash without space", `{"#key": 1}`, "#key"},
		{"question without space", `{"?key": 1}`, "?key"},
		{"other marker", `{"! key": 1}`, "! key"},
		{"empty key", `{"": 1}`, ""},
		{"nested", `{"? deep": {"# key": {"supported": true}}}`, "deep.key.supported"},
		{"first in document order", `{"# ok": 1, "bad1": 2, "bad2": 3}`, "bad1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(parse(t, tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaPrefix)

			var pe *PrefixError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantPath, pe.Path)
			assert.Contains(t, err.Error(), tt.wantPath)
		})
	}
}

// ── LookupKey ─────────────────────────────────────────────────────────────────

func TestLookupKey(t *testing.T) {
	s := parse(t, `{"# req": 1, "? opt": 2, "# both": "r", "? both": "o"}`)

	v, optional, ok := LookupKey(s, "req")
	assert.True(t, ok)
	assert.False(t, optional)
	assert.Equal(t, 1.0, v)

	v, optional, ok = LookupKey(s, "opt")
	assert.True(t, ok)
	assert.True(t, optional)
	assert.Equal(t, 2.0, v)

	v, optional, ok = LookupKey(s, "both")
	assert.True(t, ok)
	assert.False(t, optional, "required variant wins")
	assert.Equal(t, "r", v)

	_, _, ok = LookupKey(s, "missing")
	assert.False(t, ok)

	_, _, ok = LookupKey(nil, "req")
	assert.False(t, ok)
}

// ── Validate ──────────────────────────────────────────────────────────────────

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		env    string
	}{
		{"all present", `{"# a": "", "? b": 0}`, `{"a": "x", "b": 2}`},
		{"optional absent", `{"# a": "", "? b": 0}`, `{"a": "x"}`},
		{"optional nested absent", `{"# a": "", "? b": {"# c": "x"}}`, `{"a": ""}`},
		{"nested present", `{"? b": {"# c": "x", "? d": true}}`, `{"b": {"c": "y"}}`},
		{"array contents not checked", `{"# list": [1]}`, `{"list": ["a", {"b": null}]}`},
		{"null matches null", `{"? n": null}`, `{"n": null}`},
		{"primitive kinds are interchangeable", `{"# a": "", "? b": false}`, `{"a": 1, "b": null}`},
		{"empty both", `{}`, `{}`},
		{"reserved key declared", `{"? _persistFile": ""}`, `{"_persistFile": "/tmp/x.json"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate(parse(t, tt.schema), parse(t, tt.env)))
		})
	}
}

// TestValidate_UnexpectedKey reports extra env keys at any depth.
func TestValidate_UnexpectedKey(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		env      string
		wantPath string
	}{
		{"root", `{"# a": ""}`, `{"a": 1, "z": 2}`, "z"},
		{"nested", `{"? b": {"# c": ""}}`, `{"b": {"c": "", "d": 1}}`, "b.d"},
		{"deep", `{"? b": {"? c": {"? d": 1}}}`, `{"b": {"c": {"e": 1}}}`, "b.c.e"},
		{"prefixed env key", `{"# a": ""}`, `{"# a": ""}`, "# a"},
		{"map where schema has scalar", `{"? a": ""}`, `{"a": {"x": 1}}`, "a.x"},
		{"first in env order", `{"# a": ""}`, `{"y": 1, "a": "", "z": 2}`, "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(parse(t, tt.schema), parse(t, tt.env))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnexpectedKey)

			var ue *UnexpectedKeyError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.wantPath, ue.Path)
		})
	}
}

// TestValidate_UnexpectedBeforeMissing verifies the unexpected-key pass runs
// first even when a required key is also absent.
func TestValidate_UnexpectedBeforeMissing(t *testing.T) {
	err := Validate(parse(t, `{"# a": "", "# b": ""}`), parse(t, `{"z": 1}`))
	assert.ErrorIs(t, err, ErrUnexpectedKey)
	assert.NotErrorIs(t, err, ErrMissingRequiredKey)
}

func TestValidate_MissingRequiredKey(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		env      string
		wantPath string
	}{
		{"root", `{"# a": ""}`, `{}`, "a"},
		{"nested", `{"? b": {"# c": "x"}}`, `{"b": {}}`, "b.c"},
		{"first in schema order", `{"# a": "", "# b": ""}`, `{}`, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(parse(t, tt.schema), parse(t, tt.env))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingRequiredKey)

			var me *MissingKeyError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.wantPath, me.Path)
			assert.Contains(t, err.Error(), tt.wantPath)
		})
	}
}

// TestValidate_TypeMismatch reports both classifications.
func TestValidate_TypeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		env      string
		wantPath string
		expected tree.Class
		found    tree.Class
	}{
		{"primitive vs array", `{"# a": ""}`, `{"a": [1]}`, "a", tree.ClassPrimitive, tree.ClassArray},
		{"array vs object", `{"# a": []}`, `{"a": {}}`, "a", tree.ClassArray, tree.ClassObject},
		{"object vs array", `{"# a": {}}`, `{"a": []}`, "a", tree.ClassObject, tree.ClassArray},
		{"object vs primitive", `{"? a": {}}`, `{"a": "x"}`, "a", tree.ClassObject, tree.ClassPrimitive},
		{"null vs object", `{"? a": null}`, `{"a": {}}`, "a", tree.ClassPrimitive, tree.ClassObject},
		{"nested", `{"? b": {"# c": "x"}}`, `{"b": {"c": [true]}}`, "b.c", tree.ClassPrimitive, tree.ClassArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(parse(t, tt.schema), parse(t, tt.env))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTypeMismatch)

			var te *TypeMismatchError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.wantPath, te.Path)
			assert.Equal(t, tt.expected, te.Expected)
			assert.Equal(t, tt.found, te.Found)
			assert.Contains(t, err.Error(), tt.expected.String())
			assert.Contains(t, err.Error(), tt.found.String())
		})
	}
}

// TestValidate_NormalizedMergeContainsBothSides checks the merge property
// over a valid schema/env pair.
func TestValidate_NormalizedMergeContainsBothSides(t *testing.T) {
	s := parse(t, `{"# a": "", "? b": {"# c": "x", "? d": [1]}}`)
	env := parse(t, `{"a": 1, "b": {"c": "y"}}`)

	require.NoError(t, Validate(s, env))

	defaults, err := Normalize(s)
	require.NoError(t, err)
	merged := tree.Merge(defaults, env)

	assert.Equal(t, `{"a":1,"b":{"c":"y","d":[1]}}`, encode(t, merged))
	assert.True(t, tree.Equal(merged, tree.Merge(merged, merged)))
}
