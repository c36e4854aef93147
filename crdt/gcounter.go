package crdt

import (
	"fmt"

	"github.com/swarmlab/accord"
)

// ErrNonPositiveDelta is the error used when a counter is incremented or
// decremented by a delta that is not positive.
var ErrNonPositiveDelta = fmt.Errorf("delta must be positive")

// GCounter is a grow-only counter. Each agent increments its own slot, the
// value is the sum of all slots, and merging takes the per-agent maximum, so
// re-delivered or reordered merges cannot double count.
type GCounter struct {
	owner  accord.ID
	counts map[accord.ID]uint64
}

// NewGCounter returns an empty counter owned by the given agent.
func NewGCounter(owner accord.ID) *GCounter {
	return &GCounter{
		owner:  owner,
		counts: make(map[accord.ID]uint64),
	}
}

// Increment adds delta to the owner's slot. Delta must be positive.
func (c *GCounter) Increment(delta int64) error {
	if delta <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveDelta, delta)
	}
	c.counts[c.owner] += uint64(delta)
	return nil
}

// Value returns the sum of all per-agent slots.
func (c *GCounter) Value() uint64 {
	var sum uint64
	for _, count := range c.counts {
		sum += count
	}
	return sum
}

// Merge folds other into c, keeping the maximum slot value per agent.
// The argument is not modified.
func (c *GCounter) Merge(other *GCounter) {
	for id, count := range other.counts {
		if count > c.counts[id] {
			c.counts[id] = count
		}
	}
}

// Counts returns a copy of the per-agent slots.
func (c *GCounter) Counts() map[accord.ID]uint64 {
	counts := make(map[accord.ID]uint64, len(c.counts))
	for id, count := range c.counts {
		counts[id] = count
	}
	return counts
}

func (c *GCounter) String() string {
	return fmt.Sprintf("GCounter{ owner: %s, value: %d }", c.owner, c.Value())
}
