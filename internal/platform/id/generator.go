package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque ids for request correlation and idempotency keys.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Deterministic derives a name-based (v5) UUID so the same input always
// yields the same key, e.g. one reminder per fixture, player and day.
func Deterministic(parts ...string) string {
	name := ""
	for i, p := range parts {
		if i > 0 {
			name += "|"
		}
		name += p
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
