package weighted_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus/weighted"
	"github.com/swarmlab/accord/internal/testutil"
)

func TestExpertsOutweighRegulars(t *testing.T) {
	ctrl := gomock.NewController(t)
	agents := map[accord.ID]accord.AgentInfo{
		"expert-1": {State: accord.StateActive},
		"expert-2": {State: accord.StateActive},
		"agent-1":  {State: accord.StateActive},
	}
	coordinator := testutil.CreateMockCoordinator(t, ctrl, agents)

	cs, err := weighted.New(coordinator, map[accord.ID]float64{
		"expert-1": 2.0,
		"expert-2": 2.0,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	prop := accord.Proposal{
		ID: "prop-1",
		Votes: map[accord.ID]accord.Vote{
			"expert-1": accord.VoteApprove,
			"expert-2": accord.VoteApprove,
			"agent-1":  accord.VoteReject,
		},
	}
	result, err := cs.Propose(prop, time.Second)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if result.Decision != accord.DecisionApproved {
		t.Errorf("Propose() decision = %s; want %s", result.Decision, accord.DecisionApproved)
	}
	if got := result.Metadata["weighted_for"]; got != 4.0 {
		t.Errorf("weighted_for = %v; want 4.0", got)
	}
	if got := result.Metadata["weighted_against"]; got != 1.0 {
		t.Errorf("weighted_against = %v; want 1.0", got)
	}
}

func TestTieRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(2))

	cs, err := weighted.New(coordinator, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prop := accord.Proposal{
		ID: "prop-1",
		Votes: map[accord.ID]accord.Vote{
			"agent-1": accord.VoteApprove,
			"agent-2": accord.VoteReject,
		},
	}
	result, err := cs.Propose(prop, time.Second)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if result.Decision != accord.DecisionRejected {
		t.Errorf("tie decision = %s; want %s", result.Decision, accord.DecisionRejected)
	}
}

func TestAllAbstainRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(3))

	cs, err := weighted.New(coordinator, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prop := accord.Proposal{ID: "prop-1", Votes: testutil.Ballots(0, 0, 3)}
	result, err := cs.Propose(prop, time.Second)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if result.Decision != accord.DecisionRejected {
		t.Errorf("all-abstain decision = %s; want %s", result.Decision, accord.DecisionRejected)
	}
	if result.Abstain != 3 {
		t.Errorf("abstain = %d; want 3", result.Abstain)
	}
}

func TestNoAgentsRejectsWithEmptyParticipants(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, nil)

	cs, err := weighted.New(coordinator, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := cs.Propose(accord.Proposal{ID: "prop-1"}, time.Second)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if result.Decision != accord.DecisionRejected {
		t.Errorf("decision = %s; want %s", result.Decision, accord.DecisionRejected)
	}
	if len(result.Participants) != 0 {
		t.Errorf("participants = %v; want none", result.Participants)
	}
}

func TestCollectsWhenProposalHasNoBallots(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(3))
	coordinator.
		EXPECT().
		CollectVotes(gomock.Any(), gomock.Any()).
		Return(testutil.Ballots(2, 1, 0), nil)

	cs, err := weighted.New(coordinator, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := cs.Propose(accord.Proposal{ID: "prop-1"}, time.Second)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if result.Decision != accord.DecisionApproved {
		t.Errorf("decision = %s; want %s", result.Decision, accord.DecisionApproved)
	}
}

func TestSetAgentWeight(t *testing.T) {
	cs, err := weighted.New(nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, w := range []float64{0, -1.5} {
		if err := cs.SetAgentWeight("agent-1", w); !errors.Is(err, accord.ErrInvalidConfig) {
			t.Errorf("SetAgentWeight(%v) = %v; want a ConfigError", w, err)
		}
	}
	if err := cs.SetAgentWeight("agent-1", 2.5); err != nil {
		t.Fatalf("SetAgentWeight: %v", err)
	}
	if got := cs.Weight("agent-1"); got != 2.5 {
		t.Errorf("Weight(agent-1) = %v; want 2.5", got)
	}
	if got := cs.Weight("agent-2"); got != weighted.DefaultWeight {
		t.Errorf("Weight(agent-2) = %v; want the default %v", got, weighted.DefaultWeight)
	}
}

func TestResetRestoresInitialWeights(t *testing.T) {
	cs, err := weighted.New(nil, map[accord.ID]float64{"agent-1": 2.0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := cs.SetAgentWeight("agent-2", 5.0); err != nil {
		t.Fatalf("SetAgentWeight: %v", err)
	}
	if !cs.Reset() {
		t.Error("Reset() = false; want true")
	}
	if got := cs.Weight("agent-1"); got != 2.0 {
		t.Errorf("Weight(agent-1) after reset = %v; want the construction value 2.0", got)
	}
	if got := cs.Weight("agent-2"); got != weighted.DefaultWeight {
		t.Errorf("Weight(agent-2) after reset = %v; want the default", got)
	}
}

func TestDomainWeights(t *testing.T) {
	agents := []accord.ID{"expert-security-1", "expert-ml-2", "agent-1"}
	got := weighted.DomainWeights("security", agents)
	want := map[accord.ID]float64{
		"expert-security-1": weighted.DomainExpertWeight,
		"expert-ml-2":       weighted.ExpertWeight,
		"agent-1":           weighted.DefaultWeight,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("DomainWeights() mismatch (-got +want):\n%s", diff)
	}
}
