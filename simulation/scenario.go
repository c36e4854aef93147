package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/metrics"
)

// AgentSet is a set of agent ids.
type AgentSet map[accord.ID]struct{}

// NewAgentSet creates a new AgentSet containing the specified ids.
func NewAgentSet(ids ...accord.ID) AgentSet {
	s := make(AgentSet)
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add adds an id to the set.
func (s AgentSet) Add(id accord.ID) {
	s[id] = struct{}{}
}

// Contains returns true if the set contains the id, false otherwise.
func (s AgentSet) Contains(id accord.ID) bool {
	_, ok := s[id]
	return ok
}

// MarshalJSON returns a JSON representation of the agent set.
func (s AgentSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(accord.SortedIDs(map[accord.ID]struct{}(s)))
}

// UnmarshalJSON restores the agent set from JSON.
func (s *AgentSet) UnmarshalJSON(data []byte) error {
	if *s == nil {
		*s = make(AgentSet)
	}
	var ids []accord.ID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	for _, id := range ids {
		s.Add(id)
	}
	return nil
}

// Scenario describes one simulated run: the agent group, the strategy, and
// the proposals to push through it. Zero-valued knobs fall back to the
// strategy defaults.
type Scenario struct {
	Algorithm string    `json:"algorithm"`
	NumAgents int       `json:"num_agents"`
	Proposals int       `json:"proposals"`
	NodeID    accord.ID `json:"node_id,omitempty"`

	// Failed agents never respond; busy agents abstain.
	Failed  AgentSet `json:"failed,omitempty"`
	Busy    AgentSet `json:"busy,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	Seed    int64    `json:"seed,omitempty"`

	Timeout           time.Duration `json:"timeout,omitempty"`
	Rate              float64       `json:"rate,omitempty"`
	TickInterval      time.Duration `json:"tick_interval,omitempty"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval,omitempty"`

	Threshold            float64               `json:"threshold,omitempty"`
	Weights              map[accord.ID]float64 `json:"weights,omitempty"`
	ElectionTimeout      time.Duration         `json:"election_timeout,omitempty"`
	Fanout               int                   `json:"fanout,omitempty"`
	MaxRounds            int                   `json:"max_rounds,omitempty"`
	ConvergenceThreshold float64               `json:"convergence_threshold,omitempty"`
}

func (s Scenario) String() string {
	return fmt.Sprintf("algorithm: %s, agents: %d (%d failed, %d busy), proposals: %d",
		s.Algorithm, s.NumAgents, len(s.Failed), len(s.Busy), s.Proposals)
}

func (s *Scenario) setDefaults() {
	if s.NodeID == "" {
		s.NodeID = "node-1"
	}
	if s.Timeout == 0 {
		s.Timeout = time.Second
	}
	if s.TickInterval == 0 {
		s.TickInterval = time.Second
	}
}

func (s Scenario) validate() error {
	if s.Algorithm == "" {
		return fmt.Errorf("scenario needs an algorithm")
	}
	if s.NumAgents < 1 {
		return fmt.Errorf("scenario needs at least one agent, got %d", s.NumAgents)
	}
	if s.Proposals < 1 {
		return fmt.Errorf("scenario needs at least one proposal, got %d", s.Proposals)
	}
	if s.Rate < 0 {
		return fmt.Errorf("scenario rate must not be negative, got %v", s.Rate)
	}
	return nil
}

// params maps the scenario knobs onto the strategy parameters.
func (s Scenario) params(network *Network) consensus.Params {
	params := consensus.DefaultParams()
	params.NodeID = s.NodeID
	params.Coordinator = network
	params.Seed = s.Seed
	if s.Threshold != 0 {
		params.Threshold = s.Threshold
	}
	if s.Weights != nil {
		params.Weights = s.Weights
	}
	if s.ElectionTimeout != 0 {
		params.ElectionTimeout = s.ElectionTimeout
	}
	if s.HeartbeatInterval != 0 {
		params.HeartbeatInterval = s.HeartbeatInterval
	}
	if s.Fanout != 0 {
		params.Fanout = s.Fanout
	}
	if s.MaxRounds != 0 {
		params.MaxRounds = s.MaxRounds
	}
	if s.ConvergenceThreshold != 0 {
		params.ConvergenceThreshold = s.ConvergenceThreshold
	}
	return params
}

// ScenarioResult contains the outcomes and logs from executing a scenario.
type ScenarioResult struct {
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	TimedOut int `json:"timed_out"`

	Decisions  []*accord.Result `json:"decisions,omitempty"`
	FinalState map[string]any   `json:"final_state,omitempty"`
	NetworkLog string           `json:"network_log,omitempty"`
}

// ExecuteScenario executes a scenario without measurement collection.
func ExecuteScenario(ctx context.Context, scenario Scenario) (ScenarioResult, error) {
	runner, err := NewRunner(scenario, metrics.NopLogger(), nil)
	if err != nil {
		return ScenarioResult{}, err
	}
	return runner.Run(ctx)
}
