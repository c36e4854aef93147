package accord

import "time"

//go:generate mockgen -destination=internal/mocks/coordinator_mock.go -package=mocks . Coordinator

// Coordinator is the port through which consensus strategies observe and
// contact the agent group. The surrounding topology layer implements it; the
// simulation package provides an in-process implementation for experiments
// and tests. Strategies never talk to agents directly, so a real network
// implementation can replace the simulated one without touching decision
// logic.
//
// Implementations must be safe for concurrent use.
type Coordinator interface {
	// TopologyInfo returns a summary of the agent group.
	TopologyInfo() TopologyInfo

	// AgentRegistry returns a snapshot of all registered agents.
	// The caller owns the returned map.
	AgentRegistry() map[ID]AgentInfo

	// AgentStatus returns the current state of a single agent.
	AgentStatus(id ID) (AgentInfo, bool)

	// Broadcast delivers msg to every agent except the sender and returns
	// the number of agents reached.
	Broadcast(from ID, msg Message) int

	// CollectVotes gathers one ballot per registered agent, waiting at most
	// timeout. Agents that do not answer in time are absent from the
	// returned map; callers treat them as abstaining.
	CollectVotes(prop Proposal, timeout time.Duration) (map[ID]Vote, error)

	// ReplicateEntry offers a log entry to the agent group, waiting at most
	// timeout, and returns the number of agents that stored it, the sender
	// included.
	ReplicateEntry(entry LogEntry, timeout time.Duration) (int, error)
}
