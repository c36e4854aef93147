package accord

// Proposal is a request for the agent group to decide on.
//
// Votes optionally carries ballots collected ahead of time. Strategies that
// evaluate pre-collected ballots (weighted, gossip, CRDT) read it; quorum and
// raft gather their own through the Coordinator. A zero Threshold means the
// strategy default applies. Metadata is an opaque diagnostics bag passed
// through to the Result; values must be JSON-serializable.
type Proposal struct {
	ID          string         `json:"id"`
	Description string         `json:"description,omitempty"`
	Votes       map[ID]Vote    `json:"votes,omitempty"`
	Threshold   float64        `json:"threshold,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Validate checks the fields every strategy requires before touching any
// state.
func (p *Proposal) Validate() error {
	if p.ID == "" {
		return &PreconditionError{Op: "propose", Err: ErrEmptyProposalID}
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return &PreconditionError{Op: "propose", Err: ErrThresholdRange}
	}
	return nil
}
