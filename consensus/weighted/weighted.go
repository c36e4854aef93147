// Package weighted implements weighted voting: each agent's vote counts
// with a configurable weight, so domain experts can outweigh generalists.
package weighted

import (
	"strings"
	"sync"
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/logging"
)

func init() {
	consensus.RegisterAlgorithm("weighted", func(params consensus.Params) (consensus.Algorithm, error) {
		return New(params.Coordinator, params.Weights)
	})
}

// The weights granted by DomainWeights. Agents outside the weight map vote
// with DefaultWeight.
const (
	DefaultWeight      = 1.0
	ExpertWeight       = 1.5
	DomainExpertWeight = 3.0
)

// Consensus decides proposals by weighted voting.
type Consensus struct {
	mut sync.Mutex

	// modular components
	coordinator accord.Coordinator
	logger      logging.Logger

	// configuration
	initial map[accord.ID]float64

	// protocol variables
	weights map[accord.ID]float64
	decided int
}

var _ consensus.Algorithm = (*Consensus)(nil)

// New returns a weighted strategy seeded with the given weights. Agents
// missing from the map vote with weight 1.0. Every given weight must be
// positive.
func New(coordinator accord.Coordinator, weights map[accord.ID]float64) (*Consensus, error) {
	initial := make(map[accord.ID]float64, len(weights))
	for id, weight := range weights {
		if weight <= 0 {
			return nil, &accord.ConfigError{Param: "weight", Value: weight, Constraint: "positive"}
		}
		initial[id] = weight
	}
	return &Consensus{
		coordinator: coordinator,
		logger:      logging.New("weighted"),
		initial:     initial,
		weights:     copyWeights(initial),
	}, nil
}

// SetAgentWeight gives an agent's future votes the given weight, which must
// be positive.
func (c *Consensus) SetAgentWeight(id accord.ID, weight float64) error {
	if weight <= 0 {
		return &accord.ConfigError{Param: "weight", Value: weight, Constraint: "positive"}
	}
	c.mut.Lock()
	c.weights[id] = weight
	c.mut.Unlock()
	return nil
}

// Weight returns the voting weight of an agent.
func (c *Consensus) Weight(id accord.ID) float64 {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.weight(id)
}

// weight requires c.mut to be held.
func (c *Consensus) weight(id accord.ID) float64 {
	if w, ok := c.weights[id]; ok {
		return w
	}
	return DefaultWeight
}

// Propose sums the weights of the approve and reject voters and approves
// the proposal if the approving weight holds the majority. A tie or a
// ballot with no active votes rejects. Ballots attached to the proposal are
// used as-is; otherwise they are collected through the coordinator.
func (c *Consensus) Propose(prop accord.Proposal, timeout time.Duration) (*accord.Result, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if c.coordinator == nil {
		return nil, &accord.PreconditionError{Op: "propose", Err: accord.ErrNilCoordinator}
	}

	if info := c.coordinator.TopologyInfo(); info.AgentCount == 0 {
		c.logger.Warnf("proposal %s: no agents registered", prop.ID)
		metadata := consensus.Metadata(prop.Metadata, map[string]any{
			"algorithm": "weighted",
			"reason":    "no_agents",
		})
		return consensus.NewResult(accord.DecisionRejected, consensus.Tally{}, 0.5, nil, metadata), nil
	}

	ballots := prop.Votes
	if len(ballots) == 0 {
		collected, err := c.coordinator.CollectVotes(prop, timeout)
		if err != nil {
			c.logger.Warnf("vote collection failed for proposal %s: %v", prop.ID, err)
		}
		ballots = collected
	}

	var weightedFor, weightedAgainst float64
	c.mut.Lock()
	for id, vote := range ballots {
		switch vote {
		case accord.VoteApprove:
			weightedFor += c.weight(id)
		case accord.VoteReject:
			weightedAgainst += c.weight(id)
		}
	}
	c.decided++
	c.mut.Unlock()

	tally := consensus.Count(ballots)
	total := weightedFor + weightedAgainst
	decision := accord.DecisionRejected
	switch {
	case total == 0:
		// Every vote was an abstention.
	case weightedFor == weightedAgainst:
		// An exact tie is not a majority.
	case weightedFor/total >= 0.5:
		decision = accord.DecisionApproved
	}
	c.logger.Debugf("proposal %s: %s (weighted for: %.2f, against: %.2f)",
		prop.ID, decision, weightedFor, weightedAgainst)

	metadata := consensus.Metadata(prop.Metadata, map[string]any{
		"algorithm":        "weighted",
		"weighted_for":     weightedFor,
		"weighted_against": weightedAgainst,
	})
	return consensus.NewResult(decision, tally, 0.5, ballots, metadata), nil
}

// State reports the current weight map and the decision count.
func (c *Consensus) State() map[string]any {
	c.mut.Lock()
	defer c.mut.Unlock()
	return map[string]any{
		"algorithm": "weighted",
		"weights":   copyWeights(c.weights),
		"decided":   c.decided,
	}
}

// Reset restores the weights given at construction and clears the decision
// counter.
func (c *Consensus) Reset() bool {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.weights = copyWeights(c.initial)
	c.decided = 0
	return true
}

func copyWeights(weights map[accord.ID]float64) map[accord.ID]float64 {
	cp := make(map[accord.ID]float64, len(weights))
	for id, weight := range weights {
		cp[id] = weight
	}
	return cp
}

// DomainWeights assigns voting weights by expertise: agents named
// "expert-<domain>..." weigh 3.0, other "expert-" prefixed agents weigh
// 1.5, and everyone else weighs 1.0. The function is pure.
func DomainWeights(domain string, agents []accord.ID) map[accord.ID]float64 {
	weights := make(map[accord.ID]float64, len(agents))
	primary := "expert-" + domain
	for _, id := range agents {
		switch {
		case strings.HasPrefix(string(id), primary):
			weights[id] = DomainExpertWeight
		case strings.HasPrefix(string(id), "expert-"):
			weights[id] = ExpertWeight
		default:
			weights[id] = DefaultWeight
		}
	}
	return weights
}
