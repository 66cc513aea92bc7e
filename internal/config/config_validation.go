// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/autoenv/internal/logger"
)

// validate checks that the final merged [StructuredConfig] is usable before
// the loader starts.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid* sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Envs.SchemaFile == "" || strings.ContainsRune(cfg.Envs.SchemaFile, filepath.Separator) {
		return fmt.Errorf("%w: schema file must be a bare file name, got %q", ErrInvalidEnvsConfigs, cfg.Envs.SchemaFile)
	}

	if cfg.Persistence.MinInterval < 0 {
		return fmt.Errorf("%w: negative min interval %s", ErrInvalidPersistenceConfigs, cfg.Persistence.MinInterval)
	}

	if cfg.Persistence.FileKey == "" {
		return fmt.Errorf("%w: empty file key", ErrInvalidPersistenceConfigs)
	}

	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
	}

	return nil
}

// EnvsDir returns Envs.Dir, or the default envs directory under rootPath
// when it is unset.
func (cfg *StructuredConfig) EnvsDir(rootPath string) string {
	if cfg.Envs.Dir != "" {
		return cfg.Envs.Dir
	}
	return filepath.Join(rootPath, DefaultEnvsDirName)
}
