package consensus_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/internal/testutil"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		votes map[accord.ID]accord.Vote
		want  consensus.Tally
	}{
		{
			name:  "empty",
			votes: nil,
			want:  consensus.Tally{},
		},
		{
			name:  "mixed",
			votes: testutil.Ballots(3, 2, 1),
			want:  consensus.Tally{For: 3, Against: 2, Abstain: 1},
		},
		{
			name: "unknown values abstain",
			votes: map[accord.ID]accord.Vote{
				"a1": accord.VoteApprove,
				"a2": accord.Vote("maybe"),
				"a3": accord.Vote(""),
			},
			want: consensus.Tally{For: 1, Abstain: 2},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := consensus.Count(test.votes)
			if got != test.want {
				t.Errorf("Count() = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestApprovalRate(t *testing.T) {
	tests := []struct {
		name  string
		tally consensus.Tally
		want  float64
	}{
		{name: "no active votes", tally: consensus.Tally{Abstain: 5}, want: 0},
		{name: "three to one", tally: consensus.Tally{For: 3, Against: 1}, want: 0.75},
		{name: "abstentions excluded", tally: consensus.Tally{For: 1, Against: 1, Abstain: 8}, want: 0.5},
		{name: "unanimous", tally: consensus.Tally{For: 4}, want: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.tally.ApprovalRate(); got != test.want {
				t.Errorf("ApprovalRate() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestMetadataMerge(t *testing.T) {
	prop := map[string]any{"origin": "planner", "algorithm": "stale"}
	extra := map[string]any{"algorithm": "quorum", "approval_rate": 0.75}

	got := consensus.Metadata(prop, extra)
	want := map[string]any{
		"origin":        "planner",
		"algorithm":     "quorum",
		"approval_rate": 0.75,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("metadata mismatch (-got +want):\n%s", diff)
	}
}

func TestNewResultSnapshots(t *testing.T) {
	votes := map[accord.ID]accord.Vote{
		"charlie": accord.VoteApprove,
		"alice":   accord.VoteApprove,
		"bob":     accord.VoteReject,
	}
	result := consensus.NewResult(accord.DecisionApproved, consensus.Count(votes), 0.5, votes, nil)

	wantParticipants := []accord.ID{"alice", "bob", "charlie"}
	if diff := cmp.Diff(result.Participants, wantParticipants); diff != "" {
		t.Errorf("participants mismatch (-got +want):\n%s", diff)
	}

	// Mutating the caller's map must not reach the snapshot.
	votes["alice"] = accord.VoteReject
	if got := result.VoteDetails["alice"]; got != accord.VoteApprove {
		t.Errorf("got vote %s for alice, want %s", got, accord.VoteApprove)
	}
}
