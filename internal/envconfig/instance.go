// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package envconfig assembles the configuration of one environment and
// exposes it through dotted keys.
//
// Construction loads the schema, strips its prefixes into a defaults tree,
// validates the env tree against the schema and merges the env over the
// defaults. The result is the live tree: Get and Has read it, Set replaces
// values in it, and Persist additionally hands the value to an eventual
// persistence writer whose file is layered over the live tree when
// persistence is enabled.
package envconfig

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/autoenv/internal/logger"
	"github.com/MKhiriev/autoenv/internal/persistence"
	"github.com/MKhiriev/autoenv/internal/schema"
	"github.com/MKhiriev/autoenv/internal/tree"
)

// DefaultPersistFileKey is the reserved key whose string value, when set in
// the live tree, overrides the persistence file path.
const DefaultPersistFileKey = "_persistFile"

// Source provides the raw schema and env trees an Instance is built from.
type Source interface {
	// Schema returns the prefixed schema tree.
	Schema() (*tree.Map, error)
	// Env returns the env tree of id.
	Env(id string) (*tree.Map, error)
	// PersistPath returns the default persistence file of id.
	PersistPath(id string) string
}

// Instance is the validated, merged configuration of one environment.
// It is safe for concurrent use.
type Instance struct {
	id             string
	src            Source
	log            *logger.Logger
	persistFileKey string
	writerOpts     []persistence.Option

	persistOnLoad   bool
	persistInterval time.Duration

	mu     sync.RWMutex
	live   *tree.Map
	writer *persistence.Writer
}

// Option configures an Instance.
type Option func(*Instance)

// WithPersistence enables persistence right after construction with the
// given minimum write interval.
func WithPersistence(interval time.Duration) Option {
	return func(i *Instance) {
		i.persistOnLoad = true
		i.persistInterval = interval
	}
}

// WithPersistFileKey changes the reserved key holding the persistence path.
func WithPersistFileKey(key string) Option {
	return func(i *Instance) {
		if key != "" {
			i.persistFileKey = key
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(i *Instance) { i.log = l }
}

// WithWriterOptions passes options to every persistence writer the instance
// creates.
func WithWriterOptions(opts ...persistence.Option) Option {
	return func(i *Instance) {
		i.writerOpts = append(i.writerOpts, opts...)
	}
}

// New builds the instance of env id from src.
//
// Any schema, env or validation failure aborts construction; there is no
// partially loaded instance.
func New(id string, src Source, opts ...Option) (*Instance, error) {
	i := &Instance{
		id:             id,
		src:            src,
		log:            logger.Nop(),
		persistFileKey: DefaultPersistFileKey,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.log = i.log.WithEnv(id)

	rawSchema, err := src.Schema()
	if err != nil {
		return nil, err
	}
	defaults, err := schema.Normalize(rawSchema)
	if err != nil {
		return nil, err
	}

	env, err := src.Env(id)
	if err != nil {
		return nil, err
	}
	if err = schema.Validate(rawSchema, env); err != nil {
		return nil, fmt.Errorf("env %q: %w", id, err)
	}

	i.live = tree.Merge(defaults, env)
	i.log.Debug().Int("keys", i.live.Len()).Msg("env config loaded")

	if i.persistOnLoad {
		if err = i.EnablePersistence(i.persistInterval, true); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// ID returns the env id the instance was loaded for.
func (i *Instance) ID() string {
	return i.id
}

// Has reports whether key fully resolves in the live tree.
func (i *Instance) Has(key string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := tree.Lookup(i.live, key)
	return ok
}

// Get returns a copy of the value at key, or a *KeyError matching
// ErrKeyNotFound.
func (i *Instance) Get(key string) (any, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	v, ok := tree.Lookup(i.live, key)
	if !ok {
		return nil, &KeyError{Key: key, EnvID: i.id}
	}
	return tree.Clone(v), nil
}

// GetOr returns the value at key, or def when key does not resolve.
func (i *Instance) GetOr(key string, def any) any {
	v, err := i.Get(key)
	if err != nil {
		return def
	}
	return v
}

// Set replaces the value at key in memory. The key must already resolve and
// value must have the same structural class as the current value. Persisted
// data is not touched.
func (i *Instance) Set(key string, value any) error {
	v, err := tree.FromGo(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.setLocked(key, v)
}

func (i *Instance) setLocked(key string, v any) error {
	parent, last, err := i.resolveLocked(key, v)
	if err != nil {
		return err
	}
	parent.Set(last, tree.Clone(v))
	return nil
}

// resolveLocked finds the object holding key and checks v may replace the
// current value. The live tree is not modified.
func (i *Instance) resolveLocked(key string, v any) (*tree.Map, string, error) {
	parent, last, ok := tree.LookupParent(i.live, key)
	if !ok {
		return nil, "", &KeyError{Key: key, EnvID: i.id}
	}

	cur, _ := parent.Get(last)
	if expected, found := tree.ClassOf(cur), tree.ClassOf(v); expected != found {
		return nil, "", &schema.TypeMismatchError{Path: key, Expected: expected, Found: found}
	}
	return parent, last, nil
}

// Persist behaves like Set and then forwards the value to the persistence
// writer. Without a writer it fails with ErrPersistenceDisabled. On any error
// the live tree is left unchanged. The disk write happens later; its outcome
// is not reported here.
func (i *Instance) Persist(key string, value any) error {
	v, err := tree.FromGo(value)
	if err != nil {
		return fmt.Errorf("persist %q: %w", key, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.writer == nil {
		return fmt.Errorf("%w on env %q", ErrPersistenceDisabled, i.id)
	}
	parent, last, err := i.resolveLocked(key, v)
	if err != nil {
		return err
	}

	changed, err := i.writer.Update(key, v)
	if err != nil {
		return fmt.Errorf("persist %q on env %q: %w", key, i.id, err)
	}
	parent.Set(last, tree.Clone(v))

	i.log.Debug().Str("key", key).Bool("changed", changed).Msg("value persisted")
	return nil
}

// EnablePersistence attaches a writer bound to the path held by the
// reserved persist-file key, or to the source's default path for this env.
// When overrideMemory is set, the persisted tree is merged over the live one.
// A negative interval selects persistence.DefaultInterval. A writer that is
// already attached is flushed and closed first.
func (i *Instance) EnablePersistence(interval time.Duration, overrideMemory bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.releaseWriterLocked()
	path := i.persistPathLocked()

	opts := slices.Clone(i.writerOpts)
	opts = append(opts,
		persistence.WithInterval(interval),
		persistence.WithLogger(i.log),
	)
	w, err := persistence.New(path, opts...)
	if err != nil {
		return err
	}

	if overrideMemory {
		i.live = tree.Merge(i.live, w.Snapshot())
	}
	i.writer = w

	i.log.Info().Str("path", path).Bool("override_memory", overrideMemory).Msg("persistence enabled")
	return nil
}

// DisablePersistence flushes and detaches the writer. The file is kept.
func (i *Instance) DisablePersistence() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if path := i.releaseWriterLocked(); path != "" {
		i.log.Info().Str("path", path).Msg("persistence disabled")
	}
}

// releaseWriterLocked closes and detaches the attached writer and returns
// its path, or "" when there was none. A failed final write is logged.
func (i *Instance) releaseWriterLocked() string {
	w := i.writer
	if w == nil {
		return ""
	}
	i.writer = nil

	if err := w.Close(context.Background()); err != nil {
		i.log.Warn().Err(err).Str("path", w.Path()).Msg("failed to close persistence writer")
	}
	return w.Path()
}

// PersistenceEnabled reports whether a writer is attached.
func (i *Instance) PersistenceEnabled() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.writer != nil
}

// Writer returns the attached writer, or nil.
func (i *Instance) Writer() *persistence.Writer {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.writer
}

// Snapshot returns a deep copy of the live tree.
func (i *Instance) Snapshot() *tree.Map {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.live.Clone()
}

// Flush writes pending persisted data now.
func (i *Instance) Flush(ctx context.Context) error {
	w := i.Writer()
	if w == nil {
		return nil
	}
	return w.Flush(ctx)
}

// Close flushes, closes and detaches the attached writer, if any. Persist
// fails with ErrPersistenceDisabled afterwards until persistence is enabled
// again.
func (i *Instance) Close(ctx context.Context) error {
	i.mu.Lock()
	w := i.writer
	i.writer = nil
	i.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close(ctx)
}

func (i *Instance) persistPathLocked() string {
	if v, ok := tree.Lookup(i.live, i.persistFileKey); ok {
		if p, isStr := v.(string); isStr && p != "" {
			return p
		}
	}
	return i.src.PersistPath(i.id)
}
