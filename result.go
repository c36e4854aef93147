package accord

import "fmt"

// Result is an immutable snapshot of a single group decision. Strategies
// build a fresh Result per call and never hand out references to their
// internal maps, so callers may retain it freely.
//
// Metadata carries strategy-specific diagnostics (leader id, rounds used,
// approval rate). Its keys are informational only; callers must not build
// logic on top of them.
type Result struct {
	Decision     Decision       `json:"decision"`
	VotesFor     int            `json:"votes_for"`
	VotesAgainst int            `json:"votes_against"`
	Abstain      int            `json:"abstain"`
	Threshold    float64        `json:"threshold"`
	Participants []ID           `json:"participants"`
	VoteDetails  map[ID]Vote    `json:"vote_details,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Approved reports whether the group approved the proposal.
func (r *Result) Approved() bool {
	return r.Decision == DecisionApproved
}

func (r *Result) String() string {
	return fmt.Sprintf("Result{ %s, for: %d, against: %d, abstain: %d }",
		r.Decision, r.VotesFor, r.VotesAgainst, r.Abstain)
}
