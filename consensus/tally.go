package consensus

import "github.com/swarmlab/accord"

// Tally is the outcome of counting a ballot map.
type Tally struct {
	For     int
	Against int
	Abstain int
}

// Count tallies votes. Values other than approve and reject count as
// abstentions.
func Count(votes map[accord.ID]accord.Vote) Tally {
	var t Tally
	for _, vote := range votes {
		switch vote {
		case accord.VoteApprove:
			t.For++
		case accord.VoteReject:
			t.Against++
		default:
			t.Abstain++
		}
	}
	return t
}

// Active returns the number of votes that were not abstentions.
func (t Tally) Active() int {
	return t.For + t.Against
}

// ApprovalRate returns the share of approvals among the active votes, or 0
// when every vote was an abstention.
func (t Tally) ApprovalRate() float64 {
	if t.Active() == 0 {
		return 0
	}
	return float64(t.For) / float64(t.Active())
}

// Metadata merges a proposal's opaque metadata bag with strategy
// diagnostics. Strategy keys win on collision.
func Metadata(prop map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(prop)+len(extra))
	for k, v := range prop {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// NewResult builds an immutable result snapshot. The ballot map is copied
// and the participant list is sorted, so the caller may keep mutating its
// own maps afterwards.
func NewResult(decision accord.Decision, t Tally, threshold float64, votes map[accord.ID]accord.Vote, metadata map[string]any) *accord.Result {
	details := make(map[accord.ID]accord.Vote, len(votes))
	for id, vote := range votes {
		details[id] = vote
	}
	return &accord.Result{
		Decision:     decision,
		VotesFor:     t.For,
		VotesAgainst: t.Against,
		Abstain:      t.Abstain,
		Threshold:    threshold,
		Participants: accord.SortedIDs(votes),
		VoteDetails:  details,
		Metadata:     metadata,
	}
}
