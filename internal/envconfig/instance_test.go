package envconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/autoenv/internal/persistence"
	"github.com/MKhiriev/autoenv/internal/schema"
	"github.com/MKhiriev/autoenv/internal/store"
	"github.com/MKhiriev/autoenv/internal/tree"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func parse(t *testing.T, doc string) *tree.Map {
	t.Helper()
	m, err := tree.Parse([]byte(doc))
	require.NoError(t, err)
	return m
}

func memSource(t *testing.T, schemaDoc, envDoc string) *store.MemorySource {
	t.Helper()
	return store.NewMemorySource(parse(t, schemaDoc), t.TempDir()).AddEnv("dev", parse(t, envDoc))
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := tree.Encode(v)
	require.NoError(t, err)
	return string(b)
}

// manualClock never fires on its own, so no background write starts after the
// first one.
type manualClock struct{}

type noopTimer struct{}

func (manualClock) AfterFunc(time.Duration, func()) persistence.Timer { return noopTimer{} }
func (noopTimer) Stop() bool                                          { return true }

// ── end-to-end ────────────────────────────────────────────────────────────────

// TestNew_MergesDefaultsWithEnv loads an env missing an optional branch and
// reads values from both the env and the defaults.
func TestNew_MergesDefaultsWithEnv(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"# a": "", "? b": {"# c": "x"}}`, `{"a": 1}`))
	require.NoError(t, err)

	assert.Equal(t, `{"a":1,"b":{"c":"x"}}`, encode(t, inst.Snapshot()))

	v, err := inst.Get("b.c")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = inst.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	assert.False(t, inst.Has("b.d"))
	assert.True(t, inst.Has("b"))
	assert.Equal(t, "dev", inst.ID())
}

func TestNew_UnexpectedKey(t *testing.T) {
	_, err := New("dev", memSource(t, `{"# a": ""}`, `{"a": 1, "z": 2}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnexpectedKey)
	assert.Contains(t, err.Error(), `"z"`)
}

func TestNew_MissingRequiredKey(t *testing.T) {
	_, err := New("dev", memSource(t, `{"# a": ""}`, `{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMissingRequiredKey)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestNew_SourceErrors(t *testing.T) {
	t.Run("schema prefix", func(t *testing.T) {
		_, err := New("dev", memSource(t, `{"a": ""}`, `{"a": ""}`))
		assert.ErrorIs(t, err, schema.ErrSchemaPrefix)
	})

	t.Run("schema missing", func(t *testing.T) {
		_, err := New("dev", store.NewMemorySource(nil, ""))
		assert.ErrorIs(t, err, store.ErrSchemaMissing)
	})

	t.Run("env missing", func(t *testing.T) {
		_, err := New("prod", memSource(t, `{"? a": ""}`, `{}`))
		assert.ErrorIs(t, err, store.ErrEnvMissing)
	})

	t.Run("config syntax", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.schema"), []byte(`{"? a": ""}`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.json"), []byte(`{"a": }`), 0o644))

		_, err := New("dev", store.NewEnvStore(dir))
		assert.ErrorIs(t, err, store.ErrConfigSyntax)
	})
}

// ── Get / GetOr ───────────────────────────────────────────────────────────────

func TestGet_KeyNotFound(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"? a": {"? b": 1}}`, `{}`))
	require.NoError(t, err)

	_, err = inst.Get("a.c")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	var ke *KeyError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, "a.c", ke.Key)
	assert.Equal(t, "dev", ke.EnvID)
	assert.Contains(t, err.Error(), `"a.c"`)
	assert.Contains(t, err.Error(), `"dev"`)

	_, err = inst.Get("a.b.deeper")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestGetOr(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"? a": 1, "? n": null}`, `{}`))
	require.NoError(t, err)

	assert.Equal(t, 1.0, inst.GetOr("a", 5))
	assert.Equal(t, 5, inst.GetOr("missing", 5))
	assert.Nil(t, inst.GetOr("n", "fallback"), "a present null is returned, not the default")
}

func TestGet_ReturnsCopy(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"? a": {"? b": [1]}}`, `{}`))
	require.NoError(t, err)

	v, err := inst.Get("a")
	require.NoError(t, err)
	m, ok := tree.IsMap(v)
	require.True(t, ok)
	m.Set("b", "changed")

	again, _ := inst.Get("a.b")
	assert.Equal(t, []any{1.0}, again)
}

// ── Set ───────────────────────────────────────────────────────────────────────

func TestSet(t *testing.T) {
	inst, err := New("dev", memSource(t,
		`{"# port": 0, "? db": {"? hosts": ["a"], "? opts": {}}}`,
		`{"port": 80}`))
	require.NoError(t, err)

	require.NoError(t, inst.Set("port", 8080))
	v, _ := inst.Get("port")
	assert.Equal(t, 8080.0, v)

	require.NoError(t, inst.Set("db.hosts", []string{"x", "y"}))
	v, _ = inst.Get("db.hosts")
	assert.Equal(t, []any{"x", "y"}, v)

	require.NoError(t, inst.Set("db.opts", map[string]any{"tls": true}))
	assert.True(t, inst.Has("db.opts.tls"))
}

func TestSet_Errors(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"# port": 0, "? db": {"? host": ""}}`, `{"port": 80}`))
	require.NoError(t, err)

	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{"array over primitive", "port", []int{8080}, schema.ErrTypeMismatch},
		{"object over scalar", "db.host", map[string]any{}, schema.ErrTypeMismatch},
		{"missing leaf", "db.user", "root", ErrKeyNotFound},
		{"missing parent", "cache.size", 1, ErrKeyNotFound},
		{"through scalar", "port.x", 1, ErrKeyNotFound},
		{"unsupported value", "port", func() {}, tree.ErrUnsupportedValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, inst.Set(tt.key, tt.value), tt.wantErr)
		})
	}

	assert.Equal(t, `{"port":80,"db":{"host":""}}`, encode(t, inst.Snapshot()), "failed sets change nothing")

	var te *schema.TypeMismatchError
	require.ErrorAs(t, inst.Set("db", []any{}), &te)
	assert.Equal(t, tree.ClassObject, te.Expected)
	assert.Equal(t, tree.ClassArray, te.Found)

	require.NoError(t, inst.Set("port", "8080"), "primitive kinds are interchangeable")
	v, _ := inst.Get("port")
	assert.Equal(t, "8080", v)
}

// ── persistence ───────────────────────────────────────────────────────────────

func TestPersist_Disabled(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"# a": 0}`, `{"a": 1}`))
	require.NoError(t, err)

	err = inst.Persist("a", 2)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	v, _ := inst.Get("a")
	assert.Equal(t, 1.0, v, "no mutation when persistence is disabled")
	assert.False(t, inst.PersistenceEnabled())
}

// TestPersist_WritesAndReloads persists a value, then verifies a fresh
// instance picks it up over the env file.
func TestPersist_WritesAndReloads(t *testing.T) {
	dir := t.TempDir()
	src := store.NewMemorySource(parse(t, `{"# a": 0, "? b": {"? c": "x"}}`), dir).
		AddEnv("dev", parse(t, `{"a": 1}`))

	inst, err := New("dev", src, WithPersistence(time.Minute), WithWriterOptions(persistence.WithClock(manualClock{})))
	require.NoError(t, err)
	require.True(t, inst.PersistenceEnabled())

	require.NoError(t, inst.Persist("b.c", "y"))
	v, _ := inst.Get("b.c")
	assert.Equal(t, "y", v)

	require.NoError(t, inst.Close(context.Background()))

	raw, err := os.ReadFile(filepath.Join(dir, "dev.persist.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":{"c":"y"}}`, string(raw))

	reloaded, err := New("dev", src, WithPersistence(time.Minute), WithWriterOptions(persistence.WithClock(manualClock{})))
	require.NoError(t, err)
	v, _ = reloaded.Get("b.c")
	assert.Equal(t, "y", v, "persisted values win over env and defaults")

	without, err := New("dev", src)
	require.NoError(t, err)
	v, _ = without.Get("b.c")
	assert.Equal(t, "x", v)
}

func TestPersist_SetErrorsSkipWriter(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"# a": 0}`, `{"a": 1}`),
		WithPersistence(time.Minute), WithWriterOptions(persistence.WithClock(manualClock{})))
	require.NoError(t, err)

	assert.ErrorIs(t, inst.Persist("a", []string{"str"}), schema.ErrTypeMismatch)
	assert.ErrorIs(t, inst.Persist("z", 1), ErrKeyNotFound)

	assert.Equal(t, 0, inst.Writer().Snapshot().Len())
}

// TestPersist_AfterClose checks a closed instance rejects Persist without
// touching memory and reports persistence as off.
func TestPersist_AfterClose(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"# a": 0}`, `{"a": 1}`),
		WithPersistence(0), WithWriterOptions(persistence.WithClock(manualClock{})))
	require.NoError(t, err)

	require.NoError(t, inst.Close(context.Background()))

	err = inst.Persist("a", 5)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	v, _ := inst.Get("a")
	assert.Equal(t, 1.0, v)
	assert.False(t, inst.PersistenceEnabled())
	assert.NoError(t, inst.Close(context.Background()), "second close is a no-op")

	require.NoError(t, inst.EnablePersistence(0, false))
	require.NoError(t, inst.Persist("a", 5))
	v, _ = inst.Get("a")
	assert.Equal(t, 5.0, v)
	require.NoError(t, inst.Close(context.Background()))
}

// TestPersist_ClosedWriterKeepsMemory closes the writer behind the
// instance's back; the live tree must not change when the update fails.
func TestPersist_ClosedWriterKeepsMemory(t *testing.T) {
	inst, err := New("dev", memSource(t, `{"# a": 0}`, `{"a": 1}`),
		WithPersistence(0), WithWriterOptions(persistence.WithClock(manualClock{})))
	require.NoError(t, err)

	require.NoError(t, inst.Writer().Close(context.Background()))

	err = inst.Persist("a", 5)
	assert.ErrorIs(t, err, persistence.ErrClosed)

	v, _ := inst.Get("a")
	assert.Equal(t, 1.0, v)
}

// TestEnablePersistence_ClosesPreviousWriter leaves a pending update in the
// first writer, switches to a second file and checks the first one got the
// pending data and no longer accepts updates.
func TestEnablePersistence_ClosesPreviousWriter(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	src := store.NewMemorySource(parse(t, `{"# a": 0, "? _persistFile": ""}`), dir).
		AddEnv("dev", parse(t, `{"a": 1, "_persistFile": "`+first+`"}`))

	inst, err := New("dev", src, WithWriterOptions(persistence.WithClock(manualClock{})))
	require.NoError(t, err)

	require.NoError(t, inst.EnablePersistence(time.Minute, false))
	old := inst.Writer()

	// the first update is written at once, the second waits for the throttle
	// window that the manual clock never closes
	require.NoError(t, inst.Persist("a", 2))
	old.Wait()
	require.NoError(t, inst.Persist("a", 3))
	require.Equal(t, persistence.PhaseThrottling, old.Status().Phase)

	require.NoError(t, inst.Set("_persistFile", second))
	require.NoError(t, inst.EnablePersistence(time.Minute, false))
	assert.NotSame(t, old, inst.Writer())
	assert.Equal(t, second, inst.Writer().Path())

	raw, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 3}`, string(raw), "pending data flushed on switch")

	_, err = old.Update("a", 4)
	assert.ErrorIs(t, err, persistence.ErrClosed)
	require.NoError(t, inst.Close(context.Background()))
}

func TestDisablePersistence_FlushesPending(t *testing.T) {
	dir := t.TempDir()
	src := store.NewMemorySource(parse(t, `{"# a": 0}`), dir).AddEnv("dev", parse(t, `{"a": 1}`))

	inst, err := New("dev", src, WithPersistence(time.Minute), WithWriterOptions(persistence.WithClock(manualClock{})))
	require.NoError(t, err)
	w := inst.Writer()

	require.NoError(t, inst.Persist("a", 2))
	w.Wait()
	require.NoError(t, inst.Persist("a", 3))

	inst.DisablePersistence()
	assert.False(t, inst.PersistenceEnabled())

	raw, err := os.ReadFile(filepath.Join(dir, "dev.persist.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 3}`, string(raw))
}

func TestEnablePersistence_OverrideMemory(t *testing.T) {
	dir := t.TempDir()
	persistFile := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(persistFile, []byte(`{"a": 5}`), 0o644))

	src := store.NewMemorySource(parse(t, `{"# a": 0, "? _persistFile": ""}`), dir).
		AddEnv("dev", parse(t, `{"a": 1, "_persistFile": "`+persistFile+`"}`))

	inst, err := New("dev", src)
	require.NoError(t, err)

	require.NoError(t, inst.EnablePersistence(time.Minute, false))
	assert.Equal(t, persistFile, inst.Writer().Path(), "reserved key selects the file")
	v, _ := inst.Get("a")
	assert.Equal(t, 1.0, v, "memory kept without override")

	require.NoError(t, inst.EnablePersistence(time.Minute, true))
	v, _ = inst.Get("a")
	assert.Equal(t, 5.0, v)

	inst.DisablePersistence()
	assert.False(t, inst.PersistenceEnabled())
	assert.Nil(t, inst.Writer())
	assert.NoError(t, inst.Flush(context.Background()))
	assert.NoError(t, inst.Close(context.Background()))

	_, err = os.Stat(persistFile)
	assert.NoError(t, err, "disabling keeps the file")
}

func TestEnablePersistence_CustomKey(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "elsewhere.json")
	src := store.NewMemorySource(parse(t, `{"? store": ""}`), dir).
		AddEnv("dev", parse(t, `{"store": "`+target+`"}`))

	inst, err := New("dev", src, WithPersistFileKey("store"))
	require.NoError(t, err)
	require.NoError(t, inst.EnablePersistence(-1, true))
	assert.Equal(t, target, inst.Writer().Path())
}

func TestEnablePersistence_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.persist.json"), []byte(`{oops`), 0o644))
	src := store.NewMemorySource(parse(t, `{"? a": 0}`), dir).AddEnv("dev", parse(t, `{}`))

	_, err := New("dev", src, WithPersistence(time.Minute))
	assert.ErrorIs(t, err, persistence.ErrCorruptFile)

	inst, err := New("dev", src)
	require.NoError(t, err)
	assert.ErrorIs(t, inst.EnablePersistence(time.Minute, true), persistence.ErrCorruptFile)
	assert.False(t, inst.PersistenceEnabled())
}
