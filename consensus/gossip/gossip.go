// Package gossip implements epidemic vote propagation: over a bounded
// number of rounds every agent samples a few random peers and adopts the
// majority opinion of its sample, until the group agrees strongly enough or
// the round budget runs out.
package gossip

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/logging"
)

func init() {
	consensus.RegisterAlgorithm("gossip", func(params consensus.Params) (consensus.Algorithm, error) {
		cfg := Config{
			Fanout:               params.Fanout,
			MaxRounds:            params.MaxRounds,
			ConvergenceThreshold: params.ConvergenceThreshold,
			Seed:                 params.Seed,
		}
		if cfg.Fanout == 0 {
			cfg.Fanout = consensus.DefaultFanout
		}
		if cfg.MaxRounds == 0 {
			cfg.MaxRounds = consensus.DefaultMaxRounds
		}
		if cfg.ConvergenceThreshold == 0 {
			cfg.ConvergenceThreshold = consensus.DefaultConvergenceThreshold
		}
		return New(cfg)
	})
}

// Config bounds the epidemic: how many peers each agent samples per round,
// how many rounds may run, and the agreement share at which the epidemic
// stops early.
type Config struct {
	Fanout               int
	MaxRounds            int
	ConvergenceThreshold float64
	// Seed makes runs reproducible. Zero derives a seed from the clock.
	Seed int64
}

// Validate checks the config against its documented ranges. Out-of-range
// values fail rather than being clamped.
func (cfg Config) Validate() error {
	if cfg.Fanout < 1 || cfg.Fanout > 10 {
		return &accord.ConfigError{Param: "fanout", Value: cfg.Fanout, Constraint: "in [1, 10]"}
	}
	if cfg.MaxRounds < 1 || cfg.MaxRounds > 20 {
		return &accord.ConfigError{Param: "max rounds", Value: cfg.MaxRounds, Constraint: "in [1, 20]"}
	}
	if cfg.ConvergenceThreshold < 0.51 || cfg.ConvergenceThreshold > 1.0 {
		return &accord.ConfigError{Param: "convergence threshold", Value: cfg.ConvergenceThreshold, Constraint: "in [0.51, 1.0]"}
	}
	return nil
}

// Round is the observable outcome of one gossip round. The history is
// diagnostics only; it never influences the decision.
type Round struct {
	Number         int                       `json:"number"`
	Votes          map[accord.ID]accord.Vote `json:"votes"`
	AgreementRatio float64                   `json:"agreement_ratio"`
	Converged      bool                      `json:"converged"`
}

// Protocol runs epidemic decisions.
type Protocol struct {
	mut sync.Mutex

	// modular components
	logger logging.Logger

	// configuration
	cfg  Config
	seed int64

	// protocol variables
	rounds  []Round
	decided int
}

var (
	_ consensus.Algorithm = (*Protocol)(nil)
	_ consensus.Decider   = (*Protocol)(nil)
)

// New returns a gossip protocol with the given config.
func New(cfg Config) (*Protocol, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Protocol{
		logger: logging.New("gossip"),
		cfg:    cfg,
		seed:   seed,
	}, nil
}

// Propose runs the epidemic over the ballots attached to the proposal. The
// round budget, not the wall-clock timeout, bounds a gossip decision.
func (p *Protocol) Propose(prop accord.Proposal, timeout time.Duration) (*accord.Result, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if len(prop.Votes) == 0 {
		return nil, &accord.PreconditionError{Op: "propose", Err: accord.ErrNoVotes}
	}
	return p.Decide(prop.Votes, prop.Threshold, prop.Metadata)
}

// Decide spreads the given votes epidemically and returns the final
// majority. Each round every agent, in sorted id order, samples up to
// Fanout random peers from the frozen pre-round state and adopts an option
// only if it holds a strict majority of the non-abstain sample; otherwise
// it keeps its prior vote. The epidemic stops once the share of the most
// common active vote reaches the convergence threshold, or when the round
// budget is exhausted.
//
// The threshold argument is recorded on the result for observability; the
// outcome itself is the final tally's majority.
func (p *Protocol) Decide(votes map[accord.ID]accord.Vote, threshold float64, metadata map[string]any) (*accord.Result, error) {
	if len(votes) == 0 {
		return nil, &accord.PreconditionError{Op: "decide", Err: accord.ErrNoVotes}
	}
	if threshold < 0 || threshold > 1 {
		return nil, &accord.PreconditionError{Op: "decide", Err: accord.ErrThresholdRange}
	}

	p.mut.Lock()
	defer p.mut.Unlock()

	// History covers only the most recent decision.
	p.rounds = nil

	// Deriving the per-decision seed from the decision counter keeps every
	// decision of a run replayable from the base seed alone.
	rng := rand.New(rand.NewSource(p.seed + int64(p.decided)))
	p.decided++

	current := copyVotes(votes)
	ids := accord.SortedIDs(votes)

	converged := false
	roundsRun := 0
	for round := 1; round <= p.cfg.MaxRounds; round++ {
		roundsRun = round
		next := make(map[accord.ID]accord.Vote, len(current))
		for _, id := range ids {
			next[id] = p.sampleAndAdopt(id, ids, current, rng)
		}
		ratio := agreementRatio(next)
		converged = ratio >= p.cfg.ConvergenceThreshold
		p.rounds = append(p.rounds, Round{
			Number:         round,
			Votes:          copyVotes(next),
			AgreementRatio: ratio,
			Converged:      converged,
		})
		current = next
		if converged {
			break
		}
	}

	tally := consensus.Count(current)
	decision := accord.DecisionRejected
	if tally.For > tally.Against {
		decision = accord.DecisionApproved
	}
	p.logger.Debugf("epidemic settled after %d rounds: %s (converged: %t, agreement: %.2f)",
		roundsRun, decision, converged, p.rounds[len(p.rounds)-1].AgreementRatio)

	recorded := threshold
	if recorded == 0 {
		recorded = p.cfg.ConvergenceThreshold
	}
	meta := consensus.Metadata(metadata, map[string]any{
		"algorithm":       "gossip",
		"rounds":          roundsRun,
		"converged":       converged,
		"final_agreement": p.rounds[len(p.rounds)-1].AgreementRatio,
	})
	return consensus.NewResult(decision, tally, recorded, current, meta), nil
}

// sampleAndAdopt decides id's next vote from a random sample of its peers.
// The sample reads only the frozen pre-round state and the agent's own vote
// is its first element: adopting requires a strict majority of the
// non-abstain sample, anything less keeps the prior vote.
func (p *Protocol) sampleAndAdopt(id accord.ID, ids []accord.ID, current map[accord.ID]accord.Vote, rng *rand.Rand) accord.Vote {
	peers := make([]accord.ID, 0, len(ids)-1)
	for _, other := range ids {
		if other != id {
			peers = append(peers, other)
		}
	}
	rng.Shuffle(len(peers), func(i, j int) { peers[i], peers[j] = peers[j], peers[i] })
	if len(peers) > p.cfg.Fanout {
		peers = peers[:p.cfg.Fanout]
	}

	own := current[id]
	sample := make([]accord.Vote, 0, len(peers)+1)
	sample = append(sample, own)
	for _, peer := range peers {
		sample = append(sample, current[peer])
	}

	var approvals, rejections int
	for _, vote := range sample {
		switch vote {
		case accord.VoteApprove:
			approvals++
		case accord.VoteReject:
			rejections++
		}
	}
	active := approvals + rejections
	switch {
	case 2*approvals > active:
		return accord.VoteApprove
	case 2*rejections > active:
		return accord.VoteReject
	default:
		return own
	}
}

// agreementRatio is the share of the most common non-abstain vote among the
// non-abstain votes, or 0 when everyone abstains.
func agreementRatio(votes map[accord.ID]accord.Vote) float64 {
	t := consensus.Count(votes)
	if t.Active() == 0 {
		return 0
	}
	top := t.For
	if t.Against > top {
		top = t.Against
	}
	return float64(top) / float64(t.Active())
}

// RoundHistory returns the per-round snapshots of the most recent decision.
func (p *Protocol) RoundHistory() []Round {
	p.mut.Lock()
	defer p.mut.Unlock()
	return slices.Clone(p.rounds)
}

// State reports the epidemic's knobs and the extent of the last decision.
func (p *Protocol) State() map[string]any {
	p.mut.Lock()
	defer p.mut.Unlock()
	return map[string]any{
		"algorithm":             "gossip",
		"fanout":                p.cfg.Fanout,
		"max_rounds":            p.cfg.MaxRounds,
		"convergence_threshold": p.cfg.ConvergenceThreshold,
		"decided":               p.decided,
		"last_rounds":           len(p.rounds),
	}
}

// Reset drops the round history and the decision counter, which also
// restarts the seed sequence. The config survives.
func (p *Protocol) Reset() bool {
	p.mut.Lock()
	defer p.mut.Unlock()
	p.rounds = nil
	p.decided = 0
	return true
}

func copyVotes(votes map[accord.ID]accord.Vote) map[accord.ID]accord.Vote {
	cp := make(map[accord.ID]accord.Vote, len(votes))
	for id, vote := range votes {
		cp[id] = vote
	}
	return cp
}
