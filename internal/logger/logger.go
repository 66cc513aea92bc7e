// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used throughout autoenv.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Components receive a *Logger through their options and default to Nop.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
// Embedding zerolog.Logger exposes the full zerolog API while allowing the
// application to add helper methods without modifying the upstream type.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a *Logger for the given role label (e.g. "cli",
// "registry") writing JSON to os.Stderr, so command output on stdout stays
// machine-readable.
//
// The logger is configured with:
//   - a "role" field set to role;
//   - a "ts" timestamp field added to every log entry;
//   - a "func" caller field that records the fully-qualified function name
//     (instead of the default file:line format) for easier log navigation.
//
// The global level is left untouched; use SetLevel to change it.
func NewLogger(role string) *Logger {
	return newLogger(os.Stderr, role)
}

// NewConsoleLogger is like NewLogger but writes human-readable lines.
func NewConsoleLogger(role string) *Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, role)
}

func newLogger(w io.Writer, role string) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name() // return function name
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// ParseLevel converts a level name ("debug", "info", "warn", ...) into a
// zerolog.Level. An empty name selects info.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
}

// SetLevel sets the global level of every Logger.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests and other contexts where logging is
// undesirable or would produce noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver. The child logger can be enriched with additional context fields
// without affecting the parent logger.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithEnv returns a child logger tagged with an "env_id" field.
func (l *Logger) WithEnv(id string) *Logger {
	return &Logger{l.With().Str("env_id", id).Logger()}
}

// WithContext stores the logger in ctx so FromContext can retrieve it.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper and returns it as a *Logger.
//
// If no logger has been attached to ctx, zerolog returns its global logger,
// so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
