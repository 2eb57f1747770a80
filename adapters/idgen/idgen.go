// Package idgen generates the request IDs attached to try-it executions.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/monada-ai/apidocs/ports"
)

// UUID generates random v4 UUIDs, optionally prefixed.
type UUID struct {
	Prefix string
}

// New generates a new ID.
func (g UUID) New() string {
	return g.Prefix + uuid.NewString()
}

// Ensure interface compliance.
var _ ports.IDGenerator = UUID{}

// Sequential generates predictable IDs for tests.
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New generates the next sequential ID.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.counter.Add(1), 10)
}

// Ensure interface compliance.
var _ ports.IDGenerator = (*Sequential)(nil)
