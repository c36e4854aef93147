package metrics

import (
	"math"
	"time"

	"github.com/swarmlab/accord"
)

// NameDecisionLatency selects the decision latency collector in Enable.
const NameDecisionLatency = "decision-latency"

// DecisionLatency aggregates the durations of consensus decisions between
// ticks.
type DecisionLatency struct {
	metricsLogger Logger
	node          accord.ID
	wf            Welford
}

// NewDecisionLatency returns a collector that logs to metricsLogger as node.
func NewDecisionLatency(metricsLogger Logger, node accord.ID) *DecisionLatency {
	return &DecisionLatency{
		metricsLogger: metricsLogger,
		node:          node,
	}
}

// Observe adds a decision duration to the current measurement.
func (lr *DecisionLatency) Observe(latency time.Duration) {
	millis := float64(latency) / float64(time.Millisecond)
	lr.wf.Update(millis)
}

// Tick logs the current latency measurement and starts a fresh one.
func (lr *DecisionLatency) Tick(now time.Time) {
	mean, variance, count := lr.wf.Get()
	if math.IsNaN(variance) {
		// a single sample has no sample variance, and NaN does not survive
		// JSON encoding
		variance = 0
	}
	lr.metricsLogger.Log(LatencyMeasurement{
		Event:    NewEvent(lr.node, now),
		Latency:  mean,
		Variance: variance,
		Count:    count,
	})
	lr.wf.Reset()
}
