// Package config provides configuration loading, merging, and validation
// facilities for the autoenv loader itself (where the envs live, how
// persistence behaves, how verbose logging is). It is unrelated to the env
// configs the loader serves.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (AUTOENV_*)
//  2. Command-line flags
//  3. JSON config file
//
// Defaults fill whatever is still unset. The main entry point is
// [GetStructuredConfig].
package config
