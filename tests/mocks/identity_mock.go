package mocks

import (
	"github.com/benmeehan/location-store/pkg/identity"
	"github.com/stretchr/testify/mock"
)

// Generator is a mock implementation of the identity.Generator interface
type Generator struct {
	mock.Mock
}

func (m *Generator) NewID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *Generator) NewSecret() (identity.Secret, error) {
	args := m.Called()
	return identity.Secret(args.String(0)), args.Error(1)
}
