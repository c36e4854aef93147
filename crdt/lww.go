package crdt

import (
	"fmt"
	"time"

	"github.com/swarmlab/accord"
)

// LWWRegister is a last-writer-wins register holding a single value together
// with the wall-clock time and the id of the agent that wrote it. Merging
// keeps the write with the later timestamp; equal timestamps break the tie
// in favor of the lexicographically greater writer id, so every replica
// resolves a conflict the same way.
type LWWRegister struct {
	owner accord.ID

	value     any
	timestamp time.Time
	writer    accord.ID
}

// NewLWWRegister returns an empty register owned by the given agent.
func NewLWWRegister(owner accord.ID) *LWWRegister {
	return &LWWRegister{owner: owner}
}

// Set overwrites the register with value, the current time, and the owner as
// writer.
func (r *LWWRegister) Set(value any) {
	r.value = value
	r.timestamp = time.Now()
	r.writer = r.owner
}

// Value returns the current value, which is nil before the first set.
func (r *LWWRegister) Value() any {
	return r.value
}

// Timestamp returns the time of the write that produced the current value.
func (r *LWWRegister) Timestamp() time.Time {
	return r.timestamp
}

// Writer returns the id of the agent that wrote the current value.
func (r *LWWRegister) Writer() accord.ID {
	return r.writer
}

// Merge adopts other's value if its write orders strictly after r's.
// The argument is not modified.
func (r *LWWRegister) Merge(other *LWWRegister) {
	if wins(other, r) {
		r.value = other.value
		r.timestamp = other.timestamp
		r.writer = other.writer
	}
}

// wins reports whether a's write orders strictly after b's: later timestamp
// first, ties by greater writer id.
func wins(a, b *LWWRegister) bool {
	if !a.timestamp.Equal(b.timestamp) {
		return a.timestamp.After(b.timestamp)
	}
	return a.writer > b.writer
}

func (r *LWWRegister) String() string {
	return fmt.Sprintf("LWWRegister{ value: %v, writer: %s }", r.value, r.writer)
}
