// Package consensus defines the contract that every consensus strategy
// implements, helpers for tallying ballots, and a registry through which
// strategies are constructed by name.
//
// The concrete strategies live in the subpackages quorum, weighted, raft,
// gossip, and crdtvote. Each registers a builder with this package in its
// init function, so importing a strategy package is enough to make it
// constructible by name:
//
//	import _ "github.com/swarmlab/accord/consensus/quorum"
//
//	algo, err := consensus.NewAlgorithm("quorum", consensus.Params{...})
package consensus

import (
	"time"

	"github.com/swarmlab/accord"
)

// Algorithm is the interface every consensus strategy implements.
//
// Propose submits a proposal for a group decision. The timeout is an
// advisory wall-clock budget checked between steps; when it expires the
// strategy returns a Result with the timeout decision rather than an error.
// State returns a snapshot of the strategy's observable state for
// diagnostics. Reset clears transient decision state while keeping the
// static configuration, and reports whether state was cleared.
type Algorithm interface {
	Propose(prop accord.Proposal, timeout time.Duration) (*accord.Result, error)
	State() map[string]any
	Reset() bool
}

// Decider is implemented by strategies that can evaluate a pre-collected
// ballot map directly, without a coordinator round-trip.
type Decider interface {
	Decide(votes map[accord.ID]accord.Vote, threshold float64, metadata map[string]any) (*accord.Result, error)
}
