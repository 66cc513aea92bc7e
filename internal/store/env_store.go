// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store provides the sources a config instance loads from: EnvStore
// reads a directory of JSON files, MemorySource holds trees in memory.
//
// An envs directory looks like:
//
//	envs/
//	  config.schema         prefix-annotated schema
//	  dev.json              env "dev"
//	  prod.json             env "prod"
//	  dev.persist.json      persisted overrides of "dev" (created on demand)
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MKhiriev/autoenv/internal/tree"
)

const (
	// DefaultSchemaFile is the schema file name inside the envs directory.
	DefaultSchemaFile = "config.schema"

	envExt     = ".json"
	persistExt = ".persist.json"
)

// EnvStore loads the schema and env files of one envs directory.
type EnvStore struct {
	dir        string
	schemaFile string
}

// Option configures an EnvStore.
type Option func(*EnvStore)

// WithSchemaFile overrides the schema file name.
func WithSchemaFile(name string) Option {
	return func(s *EnvStore) {
		if name != "" {
			s.schemaFile = name
		}
	}
}

func NewEnvStore(dir string, opts ...Option) *EnvStore {
	s := &EnvStore{
		dir:        dir,
		schemaFile: DefaultSchemaFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the envs directory.
func (s *EnvStore) Dir() string {
	return s.dir
}

// SchemaPath returns the location of the schema file.
func (s *EnvStore) SchemaPath() string {
	return filepath.Join(s.dir, s.schemaFile)
}

// EnvPath returns the file of env id. ".json" is appended unless id already
// ends with it, so ids with dots ("app.v2") keep their full name.
func (s *EnvStore) EnvPath(id string) string {
	if !strings.HasSuffix(id, envExt) {
		id += envExt
	}
	return filepath.Join(s.dir, id)
}

// PersistPath returns the default persistence file of env id:
// "<dir>/<id>.persist.json".
func (s *EnvStore) PersistPath(id string) string {
	name := strings.TrimSuffix(filepath.Base(id), envExt)
	return filepath.Join(s.dir, name+persistExt)
}

// Schema loads the raw, still prefixed, schema tree.
func (s *EnvStore) Schema() (*tree.Map, error) {
	path := s.SchemaPath()
	m, err := loadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: there is no %q file in %q", ErrSchemaMissing, s.schemaFile, s.dir)
	case errors.Is(err, tree.ErrSyntax), errors.Is(err, tree.ErrNotObject):
		return nil, fmt.Errorf("%w %q: %w", ErrSchemaSyntax, path, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrReadingEnvs, err)
	}
	return m, nil
}

// Env loads the env tree of id.
func (s *EnvStore) Env(id string) (*tree.Map, error) {
	path := s.EnvPath(id)
	m, err := loadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %q", ErrEnvMissing, path)
	case errors.Is(err, tree.ErrSyntax), errors.Is(err, tree.ErrNotObject):
		return nil, fmt.Errorf("%w %q: %w", ErrConfigSyntax, path, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrReadingEnvs, err)
	}
	return m, nil
}

// IDs lists the env ids of the directory in name order. Persistence files
// are not envs and are skipped.
func (s *EnvStore) IDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingEnvs, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != envExt || strings.HasSuffix(name, persistExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, envExt))
	}
	slices.Sort(ids)
	return ids, nil
}

// Lookup reads one key of the raw env file of id, without schema checks.
func (s *EnvStore) Lookup(id, key string) (any, bool, error) {
	m, err := s.Env(id)
	if err != nil {
		return nil, false, err
	}
	v, ok := tree.Lookup(m, key)
	return v, ok, nil
}

func loadFile(path string) (*tree.Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return tree.Parse(raw)
}
