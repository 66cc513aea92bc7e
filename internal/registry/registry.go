// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package registry keeps the loaded config instances of a process.
//
// A Registry caches instances per env id and designates one of them as the
// default instance. When no id is given, the default env is discovered by
// scanning the envs for the one whose "_path" field equals the root path of
// the running program. The package-level accessors of the default instance
// (Has, Get, Set, Persist, ...) load it on first use.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/autoenv/internal/envconfig"
	"github.com/MKhiriev/autoenv/internal/logger"
	"github.com/MKhiriev/autoenv/internal/persistence"
	"github.com/MKhiriev/autoenv/internal/store"
	"github.com/MKhiriev/autoenv/internal/workers"
)

// DefaultPathKey is the env field matched against the root path during
// discovery.
const DefaultPathKey = "_path"

// ErrNoDefaultEnv is returned when discovery finds no env whose path field
// matches the root path.
var ErrNoDefaultEnv = errors.New("no env config matches the root path")

// Registry caches config instances by env id.
type Registry struct {
	src          Discoverer
	rootPath     string
	pathKey      string
	log          *logger.Logger
	instanceOpts []envconfig.Option

	mu              sync.Mutex
	cache           map[string]*envconfig.Instance
	discoveredID    string
	def             *envconfig.Instance
	persistEnabled  bool
	persistInterval time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithRootPath sets the path matched against each env's path field.
func WithRootPath(path string) Option {
	return func(r *Registry) { r.rootPath = path }
}

func WithPathKey(key string) Option {
	return func(r *Registry) {
		if key != "" {
			r.pathKey = key
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithInstanceOptions passes options to every instance the registry loads.
func WithInstanceOptions(opts ...envconfig.Option) Option {
	return func(r *Registry) {
		r.instanceOpts = append(r.instanceOpts, opts...)
	}
}

// WithPersistence makes every newly loaded instance persistent.
func WithPersistence(interval time.Duration) Option {
	return func(r *Registry) {
		r.persistEnabled = true
		r.persistInterval = interval
	}
}

// New returns an empty registry over src. Without WithRootPath the root path
// is the directory of the running executable.
func New(src Discoverer, opts ...Option) *Registry {
	r := &Registry{
		src:             src,
		pathKey:         DefaultPathKey,
		log:             logger.Nop(),
		cache:           make(map[string]*envconfig.Instance),
		persistInterval: persistence.DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rootPath == "" {
		r.rootPath = DefaultRootPath()
	}
	return r
}

// DefaultRootPath returns the directory of the running executable, or the
// working directory when it cannot be determined.
func DefaultRootPath() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	wd, _ := os.Getwd()
	return wd
}

// RootPath returns the path used for discovery.
func (r *Registry) RootPath() string {
	return r.rootPath
}

// Load returns the instance of env id. A trailing ".json" is ignored.
//
// Instances are cached per id; forceNew builds a fresh instance that is
// returned but not cached. An empty id selects the default env, discovered
// once and remembered even across forceNew loads, and shares the cached
// instance of that id; it fails with ErrNoDefaultEnv when no env matches.
// The first instance loaded becomes the default instance.
func (r *Registry) Load(id string, forceNew bool) (*envconfig.Instance, error) {
	id = strings.TrimSuffix(id, ".json")

	r.mu.Lock()
	defer r.mu.Unlock()

	if !forceNew {
		if inst, ok := r.cache[id]; ok {
			return inst, nil
		}
	}

	saveAsDefault := false
	if id == "" {
		saveAsDefault = true
		discovered, err := r.discoverLocked()
		if err != nil {
			return nil, err
		}
		id = discovered

		if inst, ok := r.cache[id]; ok && !forceNew {
			r.cache[""] = inst
			return inst, nil
		}
	}

	inst, err := envconfig.New(id, r.src, r.optionsLocked()...)
	if err != nil {
		return nil, err
	}
	r.log.Info().Str("env_id", id).Bool("force_new", forceNew).Msg("env config instance loaded")

	if saveAsDefault {
		r.cache[""] = inst
	}
	if !forceNew {
		r.cache[id] = inst
	}
	if r.def == nil {
		r.def = inst
	}
	return inst, nil
}

func (r *Registry) optionsLocked() []envconfig.Option {
	opts := append([]envconfig.Option{envconfig.WithLogger(r.log)}, r.instanceOpts...)
	if r.persistEnabled {
		opts = append(opts, envconfig.WithPersistence(r.persistInterval))
	}
	return opts
}

// DefaultID returns the id of the discovered default env.
func (r *Registry) DefaultID() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.discoverLocked()
}

func (r *Registry) discoverLocked() (string, error) {
	if r.discoveredID != "" {
		return r.discoveredID, nil
	}

	ids, err := r.src.IDs()
	if err != nil {
		return "", err
	}

	for _, id := range ids {
		v, ok, err := r.src.Lookup(id, r.pathKey)
		if errors.Is(err, store.ErrConfigSyntax) {
			r.log.Debug().Err(err).Str("env_id", id).Msg("env config ignored during discovery")
			continue
		}
		if err != nil {
			return "", err
		}
		if p, isStr := v.(string); ok && isStr && p == r.rootPath {
			r.discoveredID = id
			r.log.Debug().Str("env_id", id).Str("root_path", r.rootPath).Msg("default env discovered")
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrNoDefaultEnv, r.rootPath)
}

// Default returns the default instance, loading the discovered env when no
// instance has been loaded yet.
func (r *Registry) Default() (*envconfig.Instance, error) {
	r.mu.Lock()
	def := r.def
	r.mu.Unlock()

	if def != nil {
		return def, nil
	}
	return r.Load("", false)
}

// Has reports whether key resolves in the default instance.
func (r *Registry) Has(key string) (bool, error) {
	inst, err := r.Default()
	if err != nil {
		return false, err
	}
	return inst.Has(key), nil
}

// Get reads key from the default instance.
func (r *Registry) Get(key string) (any, error) {
	inst, err := r.Default()
	if err != nil {
		return nil, err
	}
	return inst.Get(key)
}

// GetOr reads key from the default instance, falling back to def.
func (r *Registry) GetOr(key string, def any) (any, error) {
	inst, err := r.Default()
	if err != nil {
		return nil, err
	}
	return inst.GetOr(key, def), nil
}

// Set replaces key in the default instance.
func (r *Registry) Set(key string, value any) error {
	inst, err := r.Default()
	if err != nil {
		return err
	}
	return inst.Set(key, value)
}

// Persist sets and persists key in the default instance.
func (r *Registry) Persist(key string, value any) error {
	inst, err := r.Default()
	if err != nil {
		return err
	}
	return inst.Persist(key, value)
}

// EnableDefaultPersistence makes instances loaded from now on persistent.
// With affectDefault, an already loaded default instance gets persistence
// enabled as well. A negative interval selects persistence.DefaultInterval.
func (r *Registry) EnableDefaultPersistence(interval time.Duration, affectDefault bool) error {
	r.mu.Lock()
	r.persistEnabled = true
	r.persistInterval = interval
	def := r.def
	r.mu.Unlock()

	if affectDefault && def != nil {
		return def.EnablePersistence(interval, true)
	}
	return nil
}

// DisableDefaultPersistence stops enabling persistence on new instances.
// With affectDefault, the default instance's writer is detached as well.
func (r *Registry) DisableDefaultPersistence(affectDefault bool) {
	r.mu.Lock()
	r.persistEnabled = false
	def := r.def
	r.mu.Unlock()

	if affectDefault && def != nil {
		def.DisablePersistence()
	}
}

// Close flushes and closes the writers of every cached instance concurrently.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	seen := make(map[*envconfig.Instance]struct{}, len(r.cache)+1)
	ws := workers.NewWorkers(0)
	for _, inst := range append(cachedInstances(r.cache), r.def) {
		if inst == nil {
			continue
		}
		if _, dup := seen[inst]; dup {
			continue
		}
		seen[inst] = struct{}{}
		ws.Add(workers.WorkerFunc(inst.Close))
	}
	r.mu.Unlock()

	return ws.Run(ctx)
}

func cachedInstances(cache map[string]*envconfig.Instance) []*envconfig.Instance {
	out := make([]*envconfig.Instance, 0, len(cache))
	for _, inst := range cache {
		out = append(out, inst)
	}
	return out
}
