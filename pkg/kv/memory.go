package kv

import (
	"context"
	"fmt"
	"sort"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/benmeehan/location-store/pkg/errs"
)

// MemoryStore is a volatile Store for tests and ephemeral runs.
// Scan snapshots the key set when called, then reads each entry as it is produced,
// so entries removed or changed mid-scan are observed item by item.
type MemoryStore struct {
	entries cmap.ConcurrentMap[string, []byte]

	// writeMu serializes Put against Modify so that Modify is atomic.
	writeMu sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: cmap.New[[]byte]()}
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.entries.Set(key, clone(value))
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, ok := m.entries.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}
	return clone(value), nil
}

// Exists implements Store.
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return m.entries.Has(key), nil
}

// Scan implements Store.
func (m *MemoryStore) Scan(ctx context.Context, fn func(key string, value []byte) error) error {
	keys := m.entries.Keys()
	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, ok := m.entries.Get(key)
		if !ok {
			continue
		}
		if err := fn(key, clone(value)); err != nil {
			return err
		}
	}
	return nil
}

// Modify implements Store.
func (m *MemoryStore) Modify(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	current, ok := m.entries.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}

	next, err := fn(clone(current))
	if err != nil {
		return err
	}
	m.entries.Set(key, clone(next))
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	return m.entries.Count()
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
