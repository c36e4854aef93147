package crdt

import (
	"fmt"

	"github.com/swarmlab/accord"
)

// PNCounter is a counter that supports both increments and decrements. It is
// a pair of grow-only counters; the value is increments minus decrements and
// may be negative.
type PNCounter struct {
	pos *GCounter
	neg *GCounter
}

// NewPNCounter returns an empty counter owned by the given agent.
func NewPNCounter(owner accord.ID) *PNCounter {
	return &PNCounter{
		pos: NewGCounter(owner),
		neg: NewGCounter(owner),
	}
}

// Increment adds delta to the owner's positive slot. Delta must be positive.
func (c *PNCounter) Increment(delta int64) error {
	return c.pos.Increment(delta)
}

// Decrement adds delta to the owner's negative slot. Delta must be positive.
func (c *PNCounter) Decrement(delta int64) error {
	return c.neg.Increment(delta)
}

// Value returns increments minus decrements.
func (c *PNCounter) Value() int64 {
	return int64(c.pos.Value()) - int64(c.neg.Value())
}

// Merge folds other into c component-wise. The argument is not modified.
func (c *PNCounter) Merge(other *PNCounter) {
	c.pos.Merge(other.pos)
	c.neg.Merge(other.neg)
}

func (c *PNCounter) String() string {
	return fmt.Sprintf("PNCounter{ owner: %s, value: %d }", c.pos.owner, c.Value())
}
