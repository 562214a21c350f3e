package kv

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Store is an ordered, durable key-value table keyed by string identifiers.
// Every failure of the underlying engine is reported wrapped in errs.ErrStore.
type Store interface {
	// Put persists value under key, atomically replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Get returns the current value of key, or errs.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Scan calls fn for every entry in key order. It stops at the first error returned by fn
	// and returns that error unchanged.
	Scan(ctx context.Context, fn func(key string, value []byte) error) error

	// Modify reads the value of an existing key, passes it to fn and writes the result back,
	// all in one transaction. It returns errs.ErrNotFound when key is absent. If fn returns an
	// error nothing is written and the error is returned unchanged.
	Modify(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error

	// Close releases the underlying handle.
	Close() error
}

// Options configures Open.
type Options struct {
	Driver  string
	DataDir string
	Table   string
}

// Open creates the store selected by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case DriverBolt, "":
		return OpenBolt(opts.DataDir, opts.Table)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
