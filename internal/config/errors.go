package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidEnvsConfigs indicates invalid env location settings
	// (for example, a schema file name containing a directory).
	ErrInvalidEnvsConfigs = errors.New("invalid envs configuration")
	// ErrInvalidPersistenceConfigs indicates invalid persistence settings
	// (for example, a negative write interval).
	ErrInvalidPersistenceConfigs = errors.New("invalid persistence configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)
