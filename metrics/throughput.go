package metrics

import (
	"time"

	"github.com/swarmlab/accord"
)

// NameThroughput selects the throughput collector in Enable.
const NameThroughput = "throughput"

// Throughput counts decisions per tick interval.
type Throughput struct {
	metricsLogger Logger
	node          accord.ID

	lastTick      time.Time
	decisionCount uint64
	timeoutCount  uint64
}

// NewThroughput returns a collector that logs to metricsLogger as node.
func NewThroughput(metricsLogger Logger, node accord.ID) *Throughput {
	return &Throughput{
		metricsLogger: metricsLogger,
		node:          node,
	}
}

// Record counts a decision. Timeout outcomes are counted separately.
func (t *Throughput) Record(decision accord.Decision) {
	if decision == accord.DecisionTimeout {
		t.timeoutCount++
		return
	}
	t.decisionCount++
}

// Tick logs the decisions counted since the previous tick. The first tick
// only establishes the baseline.
func (t *Throughput) Tick(now time.Time) {
	if t.lastTick.IsZero() {
		t.lastTick = now
		return
	}
	t.metricsLogger.Log(ThroughputMeasurement{
		Event:     NewEvent(t.node, now),
		Decisions: t.decisionCount,
		Timeouts:  t.timeoutCount,
		Duration:  now.Sub(t.lastTick).Seconds(),
	})
	t.lastTick = now
	// reset counts for the next tick
	t.decisionCount = 0
	t.timeoutCount = 0
}
