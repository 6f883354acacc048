package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUIDGenerator mints random (v4) UUID session IDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator mints predictable IDs ("<prefix>-1", "<prefix>-2", ...).
// Useful for tests and reproducible demos.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Uint64
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.Prefix, g.n.Add(1))
}
