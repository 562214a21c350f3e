package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/benmeehan/location-store/pkg/errs"
	bolt "go.etcd.io/bbolt"
)

const (
	// DefaultFileName is the database file created inside the data directory.
	DefaultFileName = "locations.db"

	openTimeout = 5 * time.Second
)

var errAbort = errors.New("modify aborted")

// BoltStore keeps one bucket of a bbolt database. Scan runs inside a single read
// transaction and therefore observes a snapshot taken when Scan is called.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (or creates) the database file in dataDir and ensures the table bucket exists.
func OpenBolt(dataDir, table string) (*BoltStore, error) {
	if table == "" || IsReservedTable(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	path := filepath.Join(dataDir, DefaultFileName)
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errs.Store("open "+path, err)
	}

	s := &BoltStore{db: db, bucket: []byte(table)}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(s.bucket); err != nil {
			return errs.Store("create bucket", err)
		}
		return checkSchema(tx)
	})
	if err != nil {
		_ = db.Close()
		if !errors.Is(err, errs.Err) {
			err = errs.Store("initialize", err)
		}
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Put implements Store.
func (s *BoltStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), value)
	})
	if err != nil {
		return errs.Store("put", err)
	}
	return nil
}

// Get implements Store.
func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// Values returned by bbolt are only valid inside the transaction.
		value = clone(tx.Bucket(s.bucket).Get([]byte(key)))
		return nil
	})
	if err != nil {
		return nil, errs.Store("get", err)
	}
	if value == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}
	return value, nil
}

// Exists implements Store.
func (s *BoltStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(s.bucket).Get([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, errs.Store("exists", err)
	}
	return found, nil
}

// Scan implements Store.
func (s *BoltStore) Scan(ctx context.Context, fn func(key string, value []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var fnErr error
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			if err := fn(string(k), clone(v)); err != nil {
				fnErr = err
				return errAbort
			}
			return nil
		})
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return errs.Store("scan", err)
	}
	return nil
}

// Modify implements Store.
func (s *BoltStore) Modify(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var fnErr error
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		current := b.Get([]byte(key))
		if current == nil {
			fnErr = fmt.Errorf("%w: %s", errs.ErrNotFound, key)
			return errAbort
		}

		next, err := fn(clone(current))
		if err != nil {
			fnErr = err
			return errAbort
		}
		return b.Put([]byte(key), next)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return errs.Store("modify", err)
	}
	return nil
}

// Close implements Store.
func (s *BoltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errs.Store("close", err)
	}
	return nil
}
