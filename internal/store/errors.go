package store

import "errors"

// Sentinel errors returned while loading schema and env files. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrSchemaMissing is returned when there is no schema file in the envs
	// directory.
	ErrSchemaMissing = errors.New("no schema file in envs folder")

	// ErrSchemaSyntax is returned when the schema file is not a valid JSON
	// object. It is distinct from ErrSchemaMissing.
	ErrSchemaSyntax = errors.New("syntax error in schema file")

	// ErrEnvMissing is returned when the env file for the requested id does
	// not exist.
	ErrEnvMissing = errors.New("env config file not found")

	// ErrConfigSyntax is returned when an env file is not a valid JSON
	// object. It is distinct from ErrEnvMissing.
	ErrConfigSyntax = errors.New("syntax error in env config file")
)

// ErrReadingEnvs is returned when the envs directory or one of its files
// cannot be read for a reason other than a missing file.
var ErrReadingEnvs = errors.New("error reading envs folder")
