package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of the kv.Store interface
type Store struct {
	mock.Mock
}

func (m *Store) Put(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *Store) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *Store) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *Store) Scan(ctx context.Context, fn func(key string, value []byte) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *Store) Modify(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	args := m.Called(ctx, key, fn)
	return args.Error(0)
}

func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}
