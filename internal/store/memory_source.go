package store

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/MKhiriev/autoenv/internal/tree"
)

// MemorySource serves a schema and env trees held in memory. Trees are
// cloned on the way in and out, so callers never share state with it.
type MemorySource struct {
	mu         sync.RWMutex
	schema     *tree.Map
	envs       map[string]*tree.Map
	persistDir string
}

// NewMemorySource returns a source serving schema. A nil schema makes Schema
// fail with ErrSchemaMissing. Default persistence files are placed in
// persistDir.
func NewMemorySource(schema *tree.Map, persistDir string) *MemorySource {
	m := &MemorySource{
		envs:       make(map[string]*tree.Map),
		persistDir: persistDir,
	}
	if schema != nil {
		m.schema = schema.Clone()
	}
	return m
}

// AddEnv registers env under id, replacing any previous tree.
func (m *MemorySource) AddEnv(id string, env *tree.Map) *MemorySource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.envs[id] = env.Clone()
	return m
}

func (m *MemorySource) Schema() (*tree.Map, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.schema == nil {
		return nil, ErrSchemaMissing
	}
	return m.schema.Clone(), nil
}

func (m *MemorySource) Env(id string) (*tree.Map, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	env, ok := m.envs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEnvMissing, id)
	}
	return env.Clone(), nil
}

func (m *MemorySource) PersistPath(id string) string {
	return filepath.Join(m.persistDir, id+persistExt)
}

func (m *MemorySource) IDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.envs))
	for id := range m.envs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *MemorySource) Lookup(id, key string) (any, bool, error) {
	env, err := m.Env(id)
	if err != nil {
		return nil, false, err
	}
	v, ok := tree.Lookup(env, key)
	return v, ok, nil
}
