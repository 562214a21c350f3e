package errs

import (
	"errors"
	"fmt"
)

var (
	Err = errors.New("location store error")

	// ErrStore covers I/O and corruption failures of the underlying store.
	ErrStore = wrap("store failure")

	ErrNotFound     = wrap("record not found")
	ErrUnauthorized = wrap("secret mismatch")

	// ErrDecode is returned for malformed request payloads and stored bytes.
	ErrDecode = wrap("decode error")

	ErrSchemaVersion = wrap("incompatible store schema version")
)

func wrap(msg string) error { return fmt.Errorf("%w: %s", Err, msg) }

// Store wraps err as a store failure, keeping the original cause in the chain.
func Store(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
