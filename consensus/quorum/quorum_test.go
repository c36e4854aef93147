package quorum_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus/quorum"
	"github.com/swarmlab/accord/internal/testutil"
)

func TestNewValidatesThreshold(t *testing.T) {
	tests := []struct {
		threshold float64
		wantErr   bool
	}{
		{threshold: -1, wantErr: true},
		{threshold: 0, wantErr: true},
		{threshold: 0.50, wantErr: true},
		{threshold: 0.51},
		{threshold: 0.66},
		{threshold: 0.75},
		{threshold: 1.0},
		{threshold: 1.01, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("threshold=%.2f", tt.threshold), func(t *testing.T) {
			_, err := quorum.New(nil, tt.threshold)
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Fatalf("New(nil, %v) error = %v; wantErr %v", tt.threshold, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, accord.ErrInvalidConfig) {
				t.Errorf("New(nil, %v) = %v; want a ConfigError", tt.threshold, err)
			}
		})
	}
}

func TestProposeDecisions(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		approve   int
		reject    int
		abstain   int
		want      accord.Decision
	}{
		{name: "supermajority reached", threshold: 0.66, approve: 3, reject: 1, want: accord.DecisionApproved},
		{name: "strong threshold missed", threshold: 0.80, approve: 3, reject: 1, want: accord.DecisionRejected},
		{name: "unanimous reached", threshold: 1.0, approve: 4, want: accord.DecisionApproved},
		{name: "unanimous missed", threshold: 1.0, approve: 3, reject: 1, want: accord.DecisionRejected},
		{name: "all abstain rejects", threshold: 0.51, abstain: 4, want: accord.DecisionRejected},
		{name: "abstentions excluded from ratio", threshold: 0.66, approve: 2, reject: 1, abstain: 1, want: accord.DecisionApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			n := tt.approve + tt.reject + tt.abstain
			coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(n))
			coordinator.
				EXPECT().
				CollectVotes(gomock.Any(), gomock.Any()).
				Return(testutil.Ballots(tt.approve, tt.reject, tt.abstain), nil)

			cs, err := quorum.New(coordinator, tt.threshold)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			result, err := cs.Propose(accord.Proposal{ID: "prop-1"}, time.Second)
			if err != nil {
				t.Fatalf("Propose: %v", err)
			}
			if result.Decision != tt.want {
				t.Errorf("Propose() decision = %s; want %s", result.Decision, tt.want)
			}
			if result.VotesFor != tt.approve || result.VotesAgainst != tt.reject || result.Abstain != tt.abstain {
				t.Errorf("Propose() tally = %d/%d/%d; want %d/%d/%d",
					result.VotesFor, result.VotesAgainst, result.Abstain,
					tt.approve, tt.reject, tt.abstain)
			}
			if result.Threshold != tt.threshold {
				t.Errorf("Propose() threshold = %v; want %v", result.Threshold, tt.threshold)
			}
			if len(result.Participants) != n {
				t.Errorf("Propose() has %d participants; want %d", len(result.Participants), n)
			}
		})
	}
}

func TestProposeTreatsNonRespondersAsAbstain(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(4))
	// Only two of the four agents answer in time.
	coordinator.
		EXPECT().
		CollectVotes(gomock.Any(), gomock.Any()).
		Return(testutil.Ballots(2, 0, 0), nil)

	cs, err := quorum.New(coordinator, 0.51)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := cs.Propose(accord.Proposal{ID: "prop-1"}, time.Second)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if result.Decision != accord.DecisionApproved {
		t.Errorf("Propose() decision = %s; want %s", result.Decision, accord.DecisionApproved)
	}
	if result.Abstain != 2 {
		t.Errorf("Propose() abstain = %d; want 2 non-responders", result.Abstain)
	}
	if len(result.Participants) != 4 {
		t.Errorf("Propose() has %d participants; want all 4 registered agents", len(result.Participants))
	}
}

func TestProposeSurvivesCollectionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(3))
	coordinator.
		EXPECT().
		CollectVotes(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("collection backend down"))

	cs, err := quorum.New(coordinator, 0.66)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := cs.Propose(accord.Proposal{ID: "prop-1"}, time.Second)
	if err != nil {
		t.Fatalf("Propose() must degrade, not fail; got error %v", err)
	}
	if result.Decision != accord.DecisionRejected {
		t.Errorf("Propose() decision = %s; want %s", result.Decision, accord.DecisionRejected)
	}
	if result.Abstain != 3 {
		t.Errorf("Propose() abstain = %d; want 3", result.Abstain)
	}
}

func TestProposePreconditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(3))

	cs, err := quorum.New(coordinator, 0.66)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cs.Propose(accord.Proposal{}, time.Second); !errors.Is(err, accord.ErrEmptyProposalID) {
		t.Errorf("Propose(empty id) = %v; want %v", err, accord.ErrEmptyProposalID)
	}

	detached, err := quorum.New(nil, 0.66)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := detached.Propose(accord.Proposal{ID: "prop-1"}, time.Second); !errors.Is(err, accord.ErrNilCoordinator) {
		t.Errorf("Propose() without coordinator = %v; want %v", err, accord.ErrNilCoordinator)
	}
}

func TestStateAndReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	coordinator := testutil.CreateMockCoordinator(t, ctrl, testutil.Agents(3))
	coordinator.
		EXPECT().
		CollectVotes(gomock.Any(), gomock.Any()).
		AnyTimes().
		Return(testutil.Ballots(3, 0, 0), nil)

	cs, err := quorum.New(coordinator, 0.66)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	state := cs.State()
	if got := state["threshold_class"]; got != "supermajority" {
		t.Errorf("State() threshold_class = %v; want supermajority", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := cs.Propose(accord.Proposal{ID: fmt.Sprintf("prop-%d", i)}, time.Second); err != nil {
			t.Fatalf("Propose: %v", err)
		}
	}
	if got := cs.State()["decided"]; got != 2 {
		t.Errorf("State() decided = %v; want 2", got)
	}
	if !cs.Reset() {
		t.Error("Reset() = false; want true")
	}
	if got := cs.State()["decided"]; got != 0 {
		t.Errorf("State() decided after reset = %v; want 0", got)
	}
	if got := cs.State()["threshold"]; got != 0.66 {
		t.Errorf("State() threshold after reset = %v; configuration must survive", got)
	}
}
