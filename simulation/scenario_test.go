package simulation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/metrics"
	"github.com/swarmlab/accord/simulation"
)

func TestAgentSetJSON(t *testing.T) {
	set := simulation.NewAgentSet("agent-2", "agent-1")

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(data), `["agent-1","agent-2"]`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	var restored simulation.AgentSet
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(set, restored); diff != "" {
		t.Errorf("round trip changed the set: (-want +got)\n%s", diff)
	}
}

func TestNewRunnerRejectsBadScenarios(t *testing.T) {
	tests := []struct {
		name     string
		scenario simulation.Scenario
	}{
		{"missing algorithm", simulation.Scenario{NumAgents: 3, Proposals: 1}},
		{"no agents", simulation.Scenario{Algorithm: "quorum", Proposals: 1}},
		{"no proposals", simulation.Scenario{Algorithm: "quorum", NumAgents: 3}},
		{"negative rate", simulation.Scenario{Algorithm: "quorum", NumAgents: 3, Proposals: 1, Rate: -1}},
		{"unknown algorithm", simulation.Scenario{Algorithm: "paxos", NumAgents: 3, Proposals: 1}},
		{"empty profile", simulation.Scenario{Algorithm: "quorum", NumAgents: 3, Proposals: 1, Profile: &simulation.Profile{}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := simulation.NewRunner(test.scenario, metrics.NopLogger(), nil); err == nil {
				t.Errorf("NewRunner(%v) did not fail", test.scenario)
			}
		})
	}
}

func TestExecuteScenarioQuorum(t *testing.T) {
	approve := simulation.Profile{Approve: 1}
	reject := simulation.Profile{Reject: 1}

	tests := []struct {
		name    string
		profile *simulation.Profile
		want    accord.Decision
	}{
		{"unanimous approval", &approve, accord.DecisionApproved},
		{"unanimous rejection", &reject, accord.DecisionRejected},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := simulation.ExecuteScenario(context.Background(), simulation.Scenario{
				Algorithm: "quorum",
				NumAgents: 5,
				Proposals: 3,
				Seed:      1,
				Profile:   test.profile,
			})
			if err != nil {
				t.Fatalf("ExecuteScenario: %v", err)
			}
			if len(result.Decisions) != 3 {
				t.Fatalf("got %d decisions, want 3", len(result.Decisions))
			}
			for i, decision := range result.Decisions {
				if decision.Decision != test.want {
					t.Errorf("decision %d = %s, want %s", i, decision.Decision, test.want)
				}
			}
			if test.want == accord.DecisionApproved && result.Approved != 3 {
				t.Errorf("Approved = %d, want 3", result.Approved)
			}
			if test.want == accord.DecisionRejected && result.Rejected != 3 {
				t.Errorf("Rejected = %d, want 3", result.Rejected)
			}
			if got := result.FinalState["algorithm"]; got != "quorum" {
				t.Errorf("FinalState algorithm = %v, want quorum", got)
			}
			if got := result.FinalState["decided"]; got != 3 {
				t.Errorf("FinalState decided = %v, want 3", got)
			}
		})
	}
}

func TestExecuteScenarioRaftCommits(t *testing.T) {
	result, err := simulation.ExecuteScenario(context.Background(), simulation.Scenario{
		Algorithm: "raft",
		NumAgents: 4,
		Proposals: 2,
		Seed:      1,
	})
	if err != nil {
		t.Fatalf("ExecuteScenario: %v", err)
	}
	if result.Approved != 2 {
		t.Fatalf("Approved = %d, want 2", result.Approved)
	}
	if got := result.FinalState["leader"]; got != accord.ID("node-1") {
		t.Errorf("FinalState leader = %v, want node-1", got)
	}
	if got := result.FinalState["commit_index"]; got != 1 {
		t.Errorf("FinalState commit_index = %v, want 1", got)
	}
	if got := result.Decisions[0].VotesFor; got != 4 {
		t.Errorf("first decision acks = %d, want 4", got)
	}
}

func TestExecuteScenarioRaftWithoutMajority(t *testing.T) {
	result, err := simulation.ExecuteScenario(context.Background(), simulation.Scenario{
		Algorithm: "raft",
		NumAgents: 3,
		Proposals: 2,
		Seed:      1,
		Failed:    simulation.NewAgentSet("agent-1", "agent-2"),
	})
	if err != nil {
		t.Fatalf("ExecuteScenario: %v", err)
	}
	if result.TimedOut != 2 {
		t.Errorf("TimedOut = %d, want 2", result.TimedOut)
	}
	if got := result.FinalState["role"]; got != "follower" {
		t.Errorf("FinalState role = %v, want follower", got)
	}
}

func TestRunnerHeartbeats(t *testing.T) {
	runner, err := simulation.NewRunner(simulation.Scenario{
		Algorithm:         "raft",
		NumAgents:         3,
		Proposals:         2,
		Seed:              1,
		Rate:              50,
		HeartbeatInterval: time.Millisecond,
	}, metrics.NopLogger(), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Approved != 2 {
		t.Fatalf("Approved = %d, want 2", result.Approved)
	}
	// The first proposal elects the leader, and the second is paced 20ms
	// behind it, so the 1ms ticker has room to fire.
	if got := len(runner.Network().Broadcasts()); got < 1 {
		t.Errorf("got %d heartbeat broadcasts, want at least 1", got)
	}
}

func TestRunnerWritesMeasurements(t *testing.T) {
	var buf bytes.Buffer
	metricsLogger, err := metrics.NewJSONLogger(&buf)
	if err != nil {
		t.Fatalf("NewJSONLogger: %v", err)
	}

	runner, err := simulation.NewRunner(simulation.Scenario{
		Algorithm: "gossip",
		NumAgents: 6,
		Proposals: 1,
		Seed:      3,
		Profile:   &simulation.Profile{Approve: 1},
		Fanout:    5,
	}, metricsLogger, []string{metrics.NameDecisionLatency, metrics.NameThroughput})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Approved != 1 {
		t.Fatalf("Approved = %d, want 1", result.Approved)
	}
	if err := metricsLogger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var entries []struct {
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("measurement log is not valid JSON: %v\n%s", err, buf.String())
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.Name]++
	}
	if entries[0].Name != "start" {
		t.Errorf("first measurement is %q, want start", entries[0].Name)
	}
	if counts["decision"] != 1 {
		t.Errorf("got %d decision events, want 1", counts["decision"])
	}
	// Every agent sees the whole unanimous group, so the epidemic converges
	// in its first round.
	if counts["round"] != 1 {
		t.Errorf("got %d round events, want 1", counts["round"])
	}
	if counts["latency"] < 1 || counts["throughput"] < 1 {
		t.Errorf("aggregated measurements missing: %v", counts)
	}
}

func TestRunnerHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner, err := simulation.NewRunner(simulation.Scenario{
		Algorithm: "quorum",
		NumAgents: 3,
		Proposals: 5,
		Seed:      1,
	}, metrics.NopLogger(), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := runner.Run(ctx); err == nil {
		t.Error("Run did not report the canceled context")
	}
}
