package utils

import (
	"github.com/google/uuid"
)

// Id prefixes
const (
	ProfilePrefix = "user"
	ReadingPrefix = "reading"
)

// IDGenerator hands out identifiers that are unique without coordination.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator builds "<prefix>_<random uuid>" ids.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
