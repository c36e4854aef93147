// Package accord defines the core types and interfaces shared by the
// consensus strategies: agent identifiers, votes, decisions, proposals,
// results, and the Coordinator port through which a strategy observes and
// contacts the agent group. The strategies themselves live in the consensus
// subpackages and are selected by name through the registry in the consensus
// package.
//
// All state lives in memory. Timeouts are advisory wall-clock deadlines that
// strategies check cooperatively between steps; they surface as the
// DecisionTimeout outcome, never as errors.
package accord

import (
	"slices"
	"time"
)

// Basic types:

// ID uniquely identifies an agent.
type ID string

// Vote is a single agent's position on a proposal.
type Vote string

// The votes an agent can cast. Any other value is treated as an abstention
// when tallying.
const (
	VoteApprove Vote = "approve"
	VoteReject  Vote = "reject"
	VoteAbstain Vote = "abstain"
)

// Active reports whether the vote counts toward a tally.
func (v Vote) Active() bool {
	return v == VoteApprove || v == VoteReject
}

// Decision is the outcome of a group decision.
type Decision string

const (
	// DecisionApproved means the group accepted the proposal.
	DecisionApproved Decision = "approved"
	// DecisionRejected means the group declined the proposal.
	DecisionRejected Decision = "rejected"
	// DecisionTimeout means the deadline expired before a decision could be
	// made, for example because no leader could be elected in time.
	DecisionTimeout Decision = "timeout"
)

// AgentState describes an agent's availability.
type AgentState string

// The states an agent can be in.
const (
	StateActive AgentState = "active"
	StateBusy   AgentState = "busy"
	StateIdle   AgentState = "idle"
	StateFailed AgentState = "failed"
)

// AgentInfo is a point-in-time description of a registered agent.
type AgentInfo struct {
	State AgentState     `json:"state"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// TopologyInfo summarizes the agent group.
type TopologyInfo struct {
	AgentCount int    `json:"agent_count"`
	Type       string `json:"type"`
}

// Message is a payload broadcast to the agent group, such as a leader
// heartbeat. Payload values must be JSON-serializable.
type Message struct {
	Type    string         `json:"type"`
	From    ID             `json:"from"`
	Term    uint64         `json:"term,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// LogEntry is a single entry in a leader's log.
type LogEntry struct {
	Term        uint64    `json:"term"`
	ProposalID  string    `json:"proposal_id"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SortedIDs returns the keys of m in ascending order. Strategies use it to
// make participant lists and iteration order deterministic.
func SortedIDs[V any](m map[ID]V) []ID {
	ids := make([]ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
