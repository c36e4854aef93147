// Package metrics collects measurements from consensus runs. Collectors
// aggregate raw observations between ticks and write the aggregates to a
// metrics logger as a JSON array, which the plotting package reads back.
package metrics

import (
	"time"

	"github.com/swarmlab/accord"
)

// Event is the part every measurement shares: the node that produced it and
// when it was taken.
type Event struct {
	Node      accord.ID `json:"node"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates a new measurement event.
func NewEvent(node accord.ID, timestamp time.Time) Event {
	return Event{Node: node, Timestamp: timestamp}
}

// StartEvent marks the beginning of a node's run. Plots use it to express
// later measurements as offsets from the start.
type StartEvent struct {
	Event Event `json:"event"`
}

// Name returns the tag under which the measurement is logged.
func (e StartEvent) Name() string { return "start" }

// GetEvent returns the shared event part.
func (e StartEvent) GetEvent() Event { return e.Event }

// DecisionEvent records the outcome of a single consensus decision.
type DecisionEvent struct {
	Event        Event           `json:"event"`
	Algorithm    string          `json:"algorithm"`
	ProposalID   string          `json:"proposal_id"`
	Decision     accord.Decision `json:"decision"`
	DurationMS   float64         `json:"duration_ms"`
	VotesFor     int             `json:"votes_for"`
	VotesAgainst int             `json:"votes_against"`
	Abstain      int             `json:"abstain"`
}

// Name returns the tag under which the measurement is logged.
func (e DecisionEvent) Name() string { return "decision" }

// GetEvent returns the shared event part.
func (e DecisionEvent) GetEvent() Event { return e.Event }

// RoundEvent records one round of an epidemic decision.
type RoundEvent struct {
	Event          Event   `json:"event"`
	ProposalID     string  `json:"proposal_id"`
	Round          int     `json:"round"`
	AgreementRatio float64 `json:"agreement_ratio"`
	Converged      bool    `json:"converged"`
}

// Name returns the tag under which the measurement is logged.
func (e RoundEvent) Name() string { return "round" }

// GetEvent returns the shared event part.
func (e RoundEvent) GetEvent() Event { return e.Event }

// LatencyMeasurement is an aggregated decision latency sample: the mean and
// sample variance, in milliseconds, of the decisions since the last tick.
type LatencyMeasurement struct {
	Event    Event   `json:"event"`
	Latency  float64 `json:"latency"`
	Variance float64 `json:"variance"`
	Count    uint64  `json:"count"`
}

// Name returns the tag under which the measurement is logged.
func (e LatencyMeasurement) Name() string { return "latency" }

// GetEvent returns the shared event part.
func (e LatencyMeasurement) GetEvent() Event { return e.Event }

// ThroughputMeasurement counts the decisions since the last tick and the
// length of the tick interval.
type ThroughputMeasurement struct {
	Event     Event   `json:"event"`
	Decisions uint64  `json:"decisions"`
	Timeouts  uint64  `json:"timeouts"`
	Duration  float64 `json:"duration"`
}

// Name returns the tag under which the measurement is logged.
func (e ThroughputMeasurement) Name() string { return "throughput" }

// GetEvent returns the shared event part.
func (e ThroughputMeasurement) GetEvent() Event { return e.Event }
