package utils

import "github.com/google/uuid"

// UUIDGenerator produces request ids. Ids are UUIDv7, so they sort by
// creation time in the logs.
type UUIDGenerator struct {
	newV7 func() (uuid.UUID, error)
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{newV7: uuid.NewV7}
}

// Generate returns a new id. A random UUIDv4 is used when no v7 id can be
// made.
func (g *UUIDGenerator) Generate() string {
	if id, err := g.newV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
