package construction

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource mints instance ids for constructed ingredients
type IDSource interface {
	NextID() string
}

// UUIDSource mints random UUIDs
type UUIDSource struct{}

// NextID returns a new random UUID string
func (UUIDSource) NextID() string {
	return uuid.NewString()
}

// Sequence mints increasing ids with an optional prefix. It is safe for
// concurrent use.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

// NextID returns the next id in the sequence, starting at 1
func (s *Sequence) NextID() string {
	return s.Prefix + strconv.FormatUint(s.n.Add(1), 10)
}
