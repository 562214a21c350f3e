package identity

import (
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"
)

// Generator produces record identifiers and bearer secrets.
type Generator interface {
	NewID() (string, error)
	NewSecret() (Secret, error)
}

// Secret is a bearer token granting the right to mutate one record.
type Secret string

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s), []byte(other)) == 1
}

// String returns the raw token.
func (s Secret) String() string {
	return string(s)
}

// UUIDGenerator draws IDs and secrets independently from random version 4 UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new random record identifier.
func (g *UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate record id: %w", err)
	}
	return id.String(), nil
}

// NewSecret returns a new random secret.
func (g *UUIDGenerator) NewSecret() (Secret, error) {
	secret, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return Secret(secret.String()), nil
}
