// Package crdtvote decides proposals with grow-only tallies. Every ballot
// becomes a single-increment counter owned by the voting agent and is merged
// into a per-option accumulator, so replaying a ballot can never inflate the
// count. The approval rate of the merged totals is compared against a
// threshold.
package crdtvote

import (
	"sync"
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/crdt"
	"github.com/swarmlab/accord/logging"
)

func init() {
	consensus.RegisterAlgorithm("crdt", func(params consensus.Params) (consensus.Algorithm, error) {
		id := params.NodeID
		if id == "" {
			id = "tally"
		}
		threshold := params.Threshold
		if threshold == 0 {
			threshold = consensus.DefaultThreshold
		}
		return New(id, threshold)
	})
}

// Consensus tallies votes into grow-only counters and approves when the
// approval rate reaches the threshold.
type Consensus struct {
	mut sync.Mutex

	// modular components
	logger logging.Logger

	// configuration
	id        accord.ID
	threshold float64

	// protocol variables
	proposals *crdt.GCounter
	decisions *crdt.GCounter
}

var (
	_ consensus.Algorithm = (*Consensus)(nil)
	_ consensus.Decider   = (*Consensus)(nil)
)

// New returns a counter-backed consensus owned by id. The threshold is the
// default approval rate for proposals that do not carry their own.
func New(id accord.ID, threshold float64) (*Consensus, error) {
	if threshold < 0 || threshold > 1 {
		return nil, &accord.ConfigError{Param: "threshold", Value: threshold, Constraint: "in [0.0, 1.0]"}
	}
	return &Consensus{
		logger:    logging.New("crdtvote"),
		id:        id,
		threshold: threshold,
		proposals: crdt.NewGCounter(id),
		decisions: crdt.NewGCounter(id),
	}, nil
}

// Propose decides the ballots attached to the proposal, falling back to the
// configured threshold when the proposal does not set one.
func (c *Consensus) Propose(prop accord.Proposal, timeout time.Duration) (*accord.Result, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if len(prop.Votes) == 0 {
		return nil, &accord.PreconditionError{Op: "propose", Err: accord.ErrNoVotes}
	}
	threshold := prop.Threshold
	if threshold == 0 {
		threshold = c.threshold
	}
	result, err := c.Decide(prop.Votes, threshold, prop.Metadata)
	if err != nil {
		return nil, err
	}
	c.mut.Lock()
	inc(c.proposals, 1)
	c.mut.Unlock()
	return result, nil
}

// Decide merges one ballot counter per agent into per-option accumulators
// and approves when the approval rate among active votes reaches the
// threshold. Votes outside approve/reject count as abstentions. A round
// with no active votes has an approval rate of zero.
func (c *Consensus) Decide(votes map[accord.ID]accord.Vote, threshold float64, metadata map[string]any) (*accord.Result, error) {
	if len(votes) == 0 {
		return nil, &accord.PreconditionError{Op: "decide", Err: accord.ErrNoVotes}
	}
	if threshold < 0 || threshold > 1 {
		return nil, &accord.PreconditionError{Op: "decide", Err: accord.ErrThresholdRange}
	}

	approvals := crdt.NewGCounter(c.id)
	rejections := crdt.NewGCounter(c.id)
	for id, vote := range votes {
		switch vote {
		case accord.VoteApprove:
			approvals.Merge(ballot(id))
		case accord.VoteReject:
			rejections.Merge(ballot(id))
		}
	}

	tally := consensus.Tally{
		For:     int(approvals.Value()),
		Against: int(rejections.Value()),
	}
	tally.Abstain = len(votes) - tally.For - tally.Against

	rate := 0.0
	if tally.Active() > 0 {
		rate = float64(tally.For) / float64(tally.Active())
	}
	decision := accord.DecisionRejected
	if rate >= threshold {
		decision = accord.DecisionApproved
	}

	c.mut.Lock()
	inc(c.decisions, 1)
	c.mut.Unlock()
	c.logger.Debugf("tallied %d/%d/%d: %s (rate %.2f, threshold %.2f)",
		tally.For, tally.Against, tally.Abstain, decision, rate, threshold)

	meta := consensus.Metadata(metadata, map[string]any{
		"algorithm":     "crdt",
		"approval_rate": rate,
	})
	return consensus.NewResult(decision, tally, threshold, votes, meta), nil
}

// State reports the configured threshold and the running totals.
func (c *Consensus) State() map[string]any {
	c.mut.Lock()
	defer c.mut.Unlock()
	return map[string]any{
		"algorithm":       "crdt",
		"threshold":       c.threshold,
		"total_proposals": c.proposals.Value(),
		"total_decisions": c.decisions.Value(),
	}
}

// Reset zeroes the running totals. The identity and threshold survive.
func (c *Consensus) Reset() bool {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.proposals = crdt.NewGCounter(c.id)
	c.decisions = crdt.NewGCounter(c.id)
	return true
}

// ballot is an agent's vote as a counter replica: one increment owned by
// the agent itself, so merging the same ballot twice cannot double count.
func ballot(id accord.ID) *crdt.GCounter {
	b := crdt.NewGCounter(id)
	inc(b, 1)
	return b
}

// inc increments a grow-only counter by a delta known to be positive.
func inc(counter *crdt.GCounter, delta int64) {
	_ = counter.Increment(delta)
}
