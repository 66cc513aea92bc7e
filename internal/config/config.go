// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable read by the loader.
const EnvPrefix = "AUTOENV_"

// StructuredConfig is the top-level configuration container for the autoenv
// loader itself. It is populated by merging values from environment
// variables, command-line flags, and an optional JSON file, and finally
// completed with defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
//
// Every variable is additionally prefixed with [EnvPrefix].
type StructuredConfig struct {
	// Envs locates the schema and the env config files.
	Envs Envs `envPrefix:"ENVS_"`

	// Persistence controls the eventual persistence writers.
	Persistence Persistence `envPrefix:"PERSIST_"`

	// Log holds logger settings.
	Log Log `envPrefix:"LOG_"`

	// EnvID selects the env to work with. Empty means the env discovered
	// through the root path.
	// Env: AUTOENV_ENV
	EnvID string `env:"ENV"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the AUTOENV_CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// ShowVersion asks for the build information. Flag only.
	ShowVersion bool

	// Args are the positional command-line arguments. Flag only.
	Args []string
}

// Envs holds the location of the env config files.
type Envs struct {
	// Dir is the directory holding the schema and the env files.
	// Defaults to the "envs" directory under RootPath.
	// Env: AUTOENV_ENVS_DIR
	Dir string `env:"DIR"`

	// SchemaFile is the schema file name inside Dir.
	// Env: AUTOENV_ENVS_SCHEMA_FILE
	SchemaFile string `env:"SCHEMA_FILE"`

	// RootPath is matched against each env's "_path" field to discover the
	// default env. Empty means the directory of the running executable.
	// Env: AUTOENV_ENVS_ROOT_PATH
	RootPath string `env:"ROOT_PATH"`
}

// Persistence holds the settings of the persistence writers.
type Persistence struct {
	// Enabled attaches a writer to every loaded instance.
	// Env: AUTOENV_PERSIST_ENABLED
	Enabled bool `env:"ENABLED"`

	// MinInterval is the minimum time between two writes of the same file
	// (e.g. "2m", "500ms").
	// Env: AUTOENV_PERSIST_MIN_INTERVAL
	MinInterval time.Duration `env:"MIN_INTERVAL"`

	// FileKey is the env field overriding the persistence file path.
	// Env: AUTOENV_PERSIST_FILE_KEY
	FileKey string `env:"FILE_KEY"`

	// Indent pretty-prints persistence files.
	// Env: AUTOENV_PERSIST_INDENT
	Indent bool `env:"INDENT"`
}

// Log holds logger settings.
type Log struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...).
	// Env: AUTOENV_LOG_LEVEL
	Level string `env:"LEVEL"`
}

// GetStructuredConfig loads, merges, and validates the loader configuration
// from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
//
// Fields still unset afterwards receive their defaults.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
