// Package quorum implements threshold quorum voting: a proposal is approved
// when the share of approvals among the active votes reaches a configured
// threshold.
package quorum

import (
	"sync"
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/logging"
)

func init() {
	consensus.RegisterAlgorithm("quorum", func(params consensus.Params) (consensus.Algorithm, error) {
		threshold := params.Threshold
		if threshold == 0 {
			threshold = consensus.DefaultThreshold
		}
		return New(params.Coordinator, threshold)
	})
}

// The range of valid decision thresholds. Anything below a simple majority
// would let a minority approve a proposal.
const (
	MinThreshold = 0.51
	MaxThreshold = 1.0
)

// Consensus decides proposals by threshold quorum voting.
type Consensus struct {
	mut sync.Mutex

	// modular components
	coordinator accord.Coordinator
	logger      logging.Logger

	// configuration
	threshold float64

	// protocol variables
	decided int // proposals decided since the last reset
}

var _ consensus.Algorithm = (*Consensus)(nil)

// New returns a quorum strategy with the given decision threshold. The
// threshold must be in [0.51, 1.0]; out-of-range values fail construction
// rather than being clamped.
func New(coordinator accord.Coordinator, threshold float64) (*Consensus, error) {
	if threshold < MinThreshold || threshold > MaxThreshold {
		return nil, &accord.ConfigError{Param: "threshold", Value: threshold, Constraint: "in [0.51, 1.0]"}
	}
	return &Consensus{
		coordinator: coordinator,
		logger:      logging.New("quorum"),
		threshold:   threshold,
	}, nil
}

// Propose collects one vote per registered agent and approves the proposal
// if the approval share among active votes reaches the threshold. Agents
// that do not answer within the timeout count as abstaining. Zero active
// votes reject the proposal.
func (c *Consensus) Propose(prop accord.Proposal, timeout time.Duration) (*accord.Result, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if c.coordinator == nil {
		return nil, &accord.PreconditionError{Op: "propose", Err: accord.ErrNilCoordinator}
	}

	c.mut.Lock()
	ballots, err := c.coordinator.CollectVotes(prop, timeout)
	c.mut.Unlock()
	if err != nil {
		// A failed collection degrades every agent to abstain; it must not
		// abort the decision.
		c.logger.Warnf("vote collection failed for proposal %s: %v", prop.ID, err)
		ballots = nil
	}

	// Every registered agent appears in the ballot map; non-responders
	// abstain.
	votes := make(map[accord.ID]accord.Vote)
	for id := range c.coordinator.AgentRegistry() {
		votes[id] = accord.VoteAbstain
	}
	for id, vote := range ballots {
		votes[id] = vote
	}

	tally := consensus.Count(votes)
	decision := accord.DecisionRejected
	if tally.Active() > 0 && tally.ApprovalRate() >= c.threshold {
		decision = accord.DecisionApproved
	}
	c.logger.Debugf("proposal %s: %s (for: %d, against: %d, abstain: %d)",
		prop.ID, decision, tally.For, tally.Against, tally.Abstain)

	c.mut.Lock()
	c.decided++
	c.mut.Unlock()

	metadata := consensus.Metadata(prop.Metadata, map[string]any{
		"algorithm":     "quorum",
		"approval_rate": tally.ApprovalRate(),
	})
	return consensus.NewResult(decision, tally, c.threshold, votes, metadata), nil
}

// State reports the configured threshold and its preset classification.
func (c *Consensus) State() map[string]any {
	c.mut.Lock()
	defer c.mut.Unlock()
	return map[string]any{
		"algorithm":       "quorum",
		"threshold":       c.threshold,
		"threshold_class": accord.ClassifyThreshold(c.threshold),
		"decided":         c.decided,
	}
}

// Reset clears the decision counter. The threshold is static configuration
// and survives.
func (c *Consensus) Reset() bool {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.decided = 0
	return true
}
