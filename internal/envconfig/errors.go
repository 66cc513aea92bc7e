package envconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned when a dotted key does not resolve in the
	// live config tree.
	ErrKeyNotFound = errors.New("key not found")

	// ErrPersistenceDisabled is returned by Persist on an instance without
	// an attached persistence writer.
	ErrPersistenceDisabled = errors.New("persistence is not activated")
)

// KeyError reports a dotted key missing from the config of one env.
type KeyError struct {
	Key   string
	EnvID string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("can't find key %q on current env config (%q)", e.Key, e.EnvID)
}

func (e *KeyError) Is(target error) bool {
	return target == ErrKeyNotFound
}
