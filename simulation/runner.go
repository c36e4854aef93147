package simulation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/consensus/gossip"
	"github.com/swarmlab/accord/logging"
	"github.com/swarmlab/accord/metrics"

	_ "github.com/swarmlab/accord/consensus/crdtvote"
	_ "github.com/swarmlab/accord/consensus/quorum"
	_ "github.com/swarmlab/accord/consensus/raft"
	_ "github.com/swarmlab/accord/consensus/weighted"
)

// Runner drives the proposals of one scenario through a strategy, collecting
// votes from the simulated network and recording measurements as it goes.
type Runner struct {
	logger        logging.Logger
	metricsLogger metrics.Logger
	collectors    *metrics.Collectors

	scenario  Scenario
	network   *Network
	algorithm consensus.Algorithm
	limiter   *rate.Limiter
}

// NewRunner builds the simulated network and the strategy for a scenario.
// The metric names select which aggregated measurements to collect; an empty
// list disables aggregation, though decision events are always logged.
func NewRunner(scenario Scenario, metricsLogger metrics.Logger, metricNames []string) (runner *Runner, err error) {
	if err := scenario.validate(); err != nil {
		return nil, err
	}
	scenario.setDefaults()

	network := NewNetwork(scenario.NumAgents, scenario.Seed)
	for _, id := range accord.SortedIDs(map[accord.ID]struct{}(scenario.Failed)) {
		network.SetAgentState(id, accord.StateFailed)
	}
	for _, id := range accord.SortedIDs(map[accord.ID]struct{}(scenario.Busy)) {
		network.SetAgentState(id, accord.StateBusy)
	}
	if scenario.Profile != nil {
		if err := network.SetProfileAll(*scenario.Profile); err != nil {
			return nil, err
		}
	}

	algorithm, err := consensus.NewAlgorithm(scenario.Algorithm, scenario.params(network))
	if err != nil {
		return nil, err
	}

	runner = &Runner{
		logger:        logging.New("runner"),
		metricsLogger: metricsLogger,
		scenario:      scenario,
		network:       network,
		algorithm:     algorithm,
	}
	if len(metricNames) > 0 {
		runner.collectors, err = metrics.Enable(metricsLogger, runner.logger, scenario.NodeID, metricNames...)
		if err != nil {
			return nil, err
		}
	}
	if scenario.Rate > 0 {
		runner.limiter = rate.NewLimiter(rate.Limit(scenario.Rate), 1)
	}
	return runner, nil
}

// Algorithm returns the strategy instance driven by this runner.
func (r *Runner) Algorithm() consensus.Algorithm {
	return r.algorithm
}

// Network returns the simulated network backing this runner.
func (r *Runner) Network() *Network {
	return r.network
}

// heartbeater is implemented by strategies that want periodic heartbeats
// while a run is in progress.
type heartbeater interface {
	SendHeartbeat()
}

// Run pushes the scenario's proposals through the strategy one at a time and
// returns the aggregated outcome. The context cancels the run between
// proposals; decisions already made are kept in the result.
func (r *Runner) Run(ctx context.Context) (ScenarioResult, error) {
	r.metricsLogger.Log(&metrics.StartEvent{Event: metrics.NewEvent(r.scenario.NodeID, time.Now())})

	if hb, ok := r.algorithm.(heartbeater); ok && r.scenario.HeartbeatInterval > 0 {
		ticker := time.NewTicker(r.scenario.HeartbeatInterval)
		defer ticker.Stop()
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case <-ticker.C:
					hb.SendHeartbeat()
				case <-done:
					return
				}
			}
		}()
	}

	var (
		result   ScenarioResult
		gen      proposalGenerator
		lastTick = time.Now()
	)
	if r.collectors != nil {
		// establish the throughput baseline
		r.collectors.Tick(lastTick)
	}
	for i := 0; i < r.scenario.Proposals; i++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return r.finish(result), err
			}
		} else if err := ctx.Err(); err != nil {
			return r.finish(result), err
		}

		prop := gen.next()
		if votes, err := r.network.CollectVotes(prop, r.scenario.Timeout); err == nil {
			prop.Votes = votes
		}

		start := time.Now()
		decision, err := r.algorithm.Propose(prop, r.scenario.Timeout)
		if err != nil {
			return r.finish(result), fmt.Errorf("proposal %s: %w", prop.ID, err)
		}
		elapsed := time.Since(start)

		r.observe(prop, decision, elapsed)
		result.Decisions = append(result.Decisions, decision)
		switch decision.Decision {
		case accord.DecisionApproved:
			result.Approved++
		case accord.DecisionRejected:
			result.Rejected++
		case accord.DecisionTimeout:
			result.TimedOut++
		}

		if r.collectors != nil && time.Since(lastTick) >= r.scenario.TickInterval {
			r.collectors.Tick(time.Now())
			lastTick = time.Now()
		}
	}
	return r.finish(result), nil
}

// finish flushes the collectors and attaches the final strategy state and the
// captured network log to the result.
func (r *Runner) finish(result ScenarioResult) ScenarioResult {
	if r.collectors != nil {
		r.collectors.Tick(time.Now())
	}
	result.FinalState = r.algorithm.State()
	result.NetworkLog = r.network.Log()
	return result
}

func (r *Runner) observe(prop accord.Proposal, decision *accord.Result, elapsed time.Duration) {
	if r.collectors != nil {
		r.collectors.ObserveDecision(decision, elapsed)
	}
	now := time.Now()
	r.metricsLogger.Log(&metrics.DecisionEvent{
		Event:        metrics.NewEvent(r.scenario.NodeID, now),
		Algorithm:    r.scenario.Algorithm,
		ProposalID:   prop.ID,
		Decision:     decision.Decision,
		DurationMS:   float64(elapsed) / float64(time.Millisecond),
		VotesFor:     decision.VotesFor,
		VotesAgainst: decision.VotesAgainst,
		Abstain:      decision.Abstain,
	})
	if gp, ok := r.algorithm.(*gossip.Protocol); ok {
		for _, round := range gp.RoundHistory() {
			r.metricsLogger.Log(&metrics.RoundEvent{
				Event:          metrics.NewEvent(r.scenario.NodeID, now),
				ProposalID:     prop.ID,
				Round:          round.Number,
				AgreementRatio: round.AgreementRatio,
				Converged:      round.Converged,
			})
		}
	}
	r.logger.Debugf("%s: %s (for: %d, against: %d, abstain: %d) in %v",
		prop.ID, decision.Decision, decision.VotesFor, decision.VotesAgainst, decision.Abstain, elapsed)
}

// proposalGenerator hands out sequentially numbered proposals.
type proposalGenerator struct {
	nextID uint64
}

func (g *proposalGenerator) next() accord.Proposal {
	g.nextID++
	return accord.Proposal{
		ID:          fmt.Sprintf("proposal-%d", g.nextID),
		Description: fmt.Sprintf("simulated proposal %d", g.nextID),
	}
}
