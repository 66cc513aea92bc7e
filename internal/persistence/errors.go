package persistence

import "errors"

var (
	// ErrCreateFile is returned by New when the persistence file does not
	// exist and cannot be created (bad path or permissions).
	ErrCreateFile = errors.New("persistence file does not exist and could not be created")

	// ErrCorruptFile is returned by New when the existing persistence file
	// is not a valid JSON object.
	ErrCorruptFile = errors.New("syntax error in persistence file")

	// ErrReadFile is returned by New when the persistence file exists but
	// cannot be read.
	ErrReadFile = errors.New("unknown error while loading persistence file")

	// ErrWriteFile is returned by Flush and Close when the final write fails.
	ErrWriteFile = errors.New("error writing persistence file")

	// ErrClosed is returned by Update once the Writer has been closed.
	ErrClosed = errors.New("persistence writer is closed")
)
