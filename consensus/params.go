package consensus

import (
	"time"

	"github.com/swarmlab/accord"
)

// Params collects the knobs understood by the registered strategy builders.
// Each builder reads the fields that apply to its strategy and ignores the
// rest. The zero value of a field means "use the default".
type Params struct {
	// NodeID identifies the local node. Used by raft and crdtvote.
	NodeID accord.ID
	// Coordinator connects the strategy to the agent group.
	Coordinator accord.Coordinator

	// Threshold is the decision threshold for quorum and crdtvote.
	Threshold float64
	// Weights are the initial per-agent weights for weighted.
	Weights map[accord.ID]float64

	// ElectionTimeout is how stale a leader heartbeat may be before raft
	// calls a new election.
	ElectionTimeout time.Duration
	// HeartbeatInterval is the pace at which a raft leader heartbeats.
	HeartbeatInterval time.Duration

	// Fanout is the number of peers each agent samples per gossip round.
	Fanout int
	// MaxRounds bounds the number of gossip rounds per decision.
	MaxRounds int
	// ConvergenceThreshold is the agreement share at which gossip stops.
	ConvergenceThreshold float64
	// Seed seeds the gossip RNG. Zero means derive from the clock.
	Seed int64
}

// Defaults for the fields of Params.
const (
	DefaultThreshold            = accord.ThresholdSupermajority
	DefaultElectionTimeout      = 500 * time.Millisecond
	DefaultHeartbeatInterval    = 100 * time.Millisecond
	DefaultFanout               = 3
	DefaultMaxRounds            = 10
	DefaultConvergenceThreshold = 0.9
)

// DefaultParams returns a Params with every knob at its default. The caller
// still has to fill in NodeID and Coordinator.
func DefaultParams() Params {
	return Params{
		Threshold:            DefaultThreshold,
		ElectionTimeout:      DefaultElectionTimeout,
		HeartbeatInterval:    DefaultHeartbeatInterval,
		Fanout:               DefaultFanout,
		MaxRounds:            DefaultMaxRounds,
		ConvergenceThreshold: DefaultConvergenceThreshold,
	}
}
