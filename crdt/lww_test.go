package crdt

import (
	"testing"
	"time"

	"github.com/swarmlab/accord"
)

// registerAt builds a register whose current value was written at a fixed
// time, so merge ordering can be tested deterministically.
func registerAt(writer accord.ID, value any, at time.Time) *LWWRegister {
	return &LWWRegister{value: value, timestamp: at, writer: writer}
}

func TestLWWRegisterSet(t *testing.T) {
	r := NewLWWRegister("agent-1")
	if got := r.Value(); got != nil {
		t.Fatalf("Value() before first set = %v; want nil", got)
	}
	r.Set("plan-a")
	if got := r.Value(); got != "plan-a" {
		t.Errorf("Value() = %v; want plan-a", got)
	}
	if got := r.Writer(); got != "agent-1" {
		t.Errorf("Writer() = %s; want agent-1", got)
	}
	r.Set("plan-b")
	if got := r.Value(); got != "plan-b" {
		t.Errorf("Value() after second set = %v; want plan-b", got)
	}
}

func TestLWWRegisterLaterTimestampWins(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := registerAt("agent-alpha", "old", base)
	newer := registerAt("agent-beta", "new", base.Add(time.Second))

	older.Merge(newer)
	if got := older.Value(); got != "new" {
		t.Errorf("Value() = %v; want new", got)
	}

	// The older write must not displace the newer one.
	newer2 := registerAt("agent-beta", "new", base.Add(time.Second))
	older2 := registerAt("agent-alpha", "old", base)
	newer2.Merge(older2)
	if got := newer2.Value(); got != "new" {
		t.Errorf("Value() = %v; want new after merging an older write", got)
	}
}

func TestLWWRegisterTieBreaksOnWriterID(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		left      string
		right     string
		wantValue any
	}{
		{name: "gamma beats delta", left: "agent-gamma", right: "agent-delta", wantValue: "left"},
		{name: "delta beats beta", left: "agent-delta", right: "agent-beta", wantValue: "left"},
		{name: "beta loses to gamma", left: "agent-beta", right: "agent-gamma", wantValue: "right"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := registerAt(tt.left, "left", at)
			right := registerAt(tt.right, "right", at)
			left.Merge(right)
			if got := left.Value(); got != tt.wantValue {
				t.Errorf("Value() = %v; want %v", got, tt.wantValue)
			}
		})
	}
}

func TestLWWRegisterMergeOrderIndependent(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	build := func() (a, b, c *LWWRegister) {
		a = registerAt("agent-a", 1, base)
		b = registerAt("agent-b", 2, base.Add(2*time.Second))
		c = registerAt("agent-c", 3, base.Add(time.Second))
		return a, b, c
	}

	a1, b1, c1 := build()
	a1.Merge(b1)
	a1.Merge(c1)

	a2, b2, c2 := build()
	b2.Merge(c2)
	a2.Merge(b2)

	if a1.Value() != a2.Value() || a1.Writer() != a2.Writer() {
		t.Errorf("merge grouping changed outcome: (%v, %s) vs (%v, %s)",
			a1.Value(), a1.Writer(), a2.Value(), a2.Writer())
	}
	if got := a1.Value(); got != 2 {
		t.Errorf("Value() = %v; want 2 (latest write)", got)
	}
}
