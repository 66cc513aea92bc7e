// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app implements the autoenv command-line application: it wires the
// settings, the env store and the instance registry, and runs one command
// against them.
//
// All Msg* constants are human-readable strings written to the command output
// or used as log messages. Keeping them in one place ensures consistent
// wording across commands.
package app

import "errors"

const (
	// MsgValid is printed next to an env id that passed validation.
	MsgValid = "ok"

	// MsgInvalid prefixes the error of an env id that failed validation.
	MsgInvalid = "invalid"

	// MsgNoEnvs is printed by ids and validate when the envs directory holds
	// no env config.
	MsgNoEnvs = "no env configs found"

	// MsgPersisted is printed after a value has been persisted and flushed.
	MsgPersisted = "persisted"
)

// Usage errors returned by [App.Run].
var (
	// ErrNoCommand is returned when no command is given.
	ErrNoCommand = errors.New("no command given")
	// ErrUnknownCommand is returned for a command name App does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingArgument is returned when a command lacks a positional
	// argument.
	ErrMissingArgument = errors.New("missing argument")
	// ErrValidationFailed is returned by validate when at least one env is
	// invalid.
	ErrValidationFailed = errors.New("env config validation failed")
)
