package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses the loader flags from args, which must not include the
// program name. Parsing stops at the first positional argument; it and
// everything after it end up in Args.
//
// Flags:
//
//	-d envs directory
//	-schema schema file name inside the envs directory
//	-root root path matched against each env's "_path" field
//	-env env id to use instead of the discovered one
//	-persist enable eventual persistence
//	-persist-interval minimum interval between writes (e.g., "2m", "500ms")
//	-persist-file-key env field overriding the persistence file path
//	-indent pretty-print persistence files
//	-log-level log level (debug, info, warn, error)
//	-c/-config json file path with configs
//	-version print build information and exit
func ParseFlags(args []string) (*StructuredConfig, error) {
	return parseFlags(args, io.Discard)
}

func parseFlags(args []string, output io.Writer) (*StructuredConfig, error) {
	var envsDir string
	var schemaFile string
	var rootPath string
	var envID string
	var persistEnabled bool
	var persistInterval time.Duration
	var persistFileKey string
	var indent bool
	var logLevel string
	var jsonConfigPath string
	var showVersion bool

	fs := flag.NewFlagSet("autoenv", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&envsDir, "d", "", "Envs directory")
	fs.StringVar(&schemaFile, "schema", "", "Schema file name inside the envs directory")
	fs.StringVar(&rootPath, "root", "", "Root path matched against each env's _path field")
	fs.StringVar(&envID, "env", "", "Env id (default: discovered from the root path)")
	fs.BoolVar(&persistEnabled, "persist", false, "Enable eventual persistence")
	fs.DurationVar(&persistInterval, "persist-interval", 0, "Minimum interval between writes (e.g., 2m, 500ms)")
	fs.StringVar(&persistFileKey, "persist-file-key", "", "Env field overriding the persistence file path")
	fs.BoolVar(&indent, "indent", false, "Pretty-print persistence files")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.BoolVar(&showVersion, "version", false, "Print build information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Envs: Envs{
			Dir:        envsDir,
			SchemaFile: schemaFile,
			RootPath:   rootPath,
		},
		Persistence: Persistence{
			Enabled:     persistEnabled,
			MinInterval: persistInterval,
			FileKey:     persistFileKey,
			Indent:      indent,
		},
		Log: Log{
			Level: logLevel,
		},
		EnvID:        envID,
		JSONFilePath: jsonConfigPath,
		ShowVersion:  showVersion,
		Args:         fs.Args(),
	}, nil
}

// Usage writes the flag documentation to w.
func Usage(w io.Writer) {
	_, _ = parseFlags([]string{"-h"}, w)
}
