// Package raft implements a simplified single-leader consensus: elections
// are granted by construction when a majority of the group is reachable,
// the log lives in memory, and an entry commits once a majority of agents
// acknowledge it. There is no randomized election timeout and no
// persistence; a reset is a crash that loses everything.
package raft

import (
	"fmt"
	"sync"
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/logging"
)

func init() {
	consensus.RegisterAlgorithm("raft", func(params consensus.Params) (consensus.Algorithm, error) {
		timeout := params.ElectionTimeout
		if timeout == 0 {
			timeout = consensus.DefaultElectionTimeout
		}
		return New(params.NodeID, params.Coordinator, timeout)
	})
}

// Role is the raft role of the local node.
type Role uint8

// The roles a node moves through. A node is always in exactly one.
const (
	Follower Role = iota
	Candidate
	Leader
)

func (r Role) String() string {
	switch r {
	case Follower:
		return "follower"
	case Candidate:
		return "candidate"
	case Leader:
		return "leader"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Consensus decides proposals through leader-based log replication.
// One mutex guards the whole term/role/log state; every public method takes
// it once, so a proposer goroutine and a heartbeat ticker can share an
// instance.
type Consensus struct {
	mut sync.Mutex

	// modular components
	coordinator accord.Coordinator
	logger      logging.Logger

	// configuration
	id              accord.ID
	electionTimeout time.Duration

	// protocol variables
	term          uint64
	role          Role
	leader        accord.ID
	votedFor      accord.ID
	log           []accord.LogEntry
	commitIndex   int
	lastHeartbeat time.Time
}

var _ consensus.Algorithm = (*Consensus)(nil)

// New returns a raft strategy for the given local node. The election
// timeout bounds how stale the leader's heartbeat may get before a proposal
// triggers a new election; it must be positive.
func New(id accord.ID, coordinator accord.Coordinator, electionTimeout time.Duration) (*Consensus, error) {
	if id == "" {
		return nil, &accord.ConfigError{Param: "node id", Value: id, Constraint: "non-empty"}
	}
	if electionTimeout <= 0 {
		return nil, &accord.ConfigError{Param: "election timeout", Value: electionTimeout, Constraint: "positive"}
	}
	return &Consensus{
		coordinator:     coordinator,
		logger:          logging.New("raft"),
		id:              id,
		electionTimeout: electionTimeout,
		role:            Follower,
		commitIndex:     -1,
	}, nil
}

// ElectLeader runs a leader election and returns the elected leader, if
// any. Failing to reach a majority reverts the node to follower; the term
// increment is kept either way.
func (c *Consensus) ElectLeader() (accord.ID, bool) {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.electLeader()
}

// electLeader requires c.mut to be held.
func (c *Consensus) electLeader() (accord.ID, bool) {
	c.term++
	c.role = Candidate
	c.votedFor = c.id
	c.leader = ""

	// Votes are granted by construction; the majority must merely be
	// reachable. Failed agents are not.
	registry := c.coordinator.AgentRegistry()
	reachable := 0
	for _, info := range registry {
		if info.State != accord.StateFailed {
			reachable++
		}
	}
	if len(registry) == 0 || reachable < accord.Majority(len(registry)) {
		c.role = Follower
		c.logger.Warnf("election for term %d failed: %d of %d agents reachable",
			c.term, reachable, len(registry))
		return "", false
	}

	c.role = Leader
	c.leader = c.id
	c.lastHeartbeat = time.Now()
	c.logger.Infof("elected leader for term %d (%d of %d agents reachable)",
		c.term, reachable, len(registry))
	return c.id, true
}

// Propose appends the proposal to the leader's log and replicates it. An
// election runs first when there is no leader or the leader's heartbeat has
// gone stale; if it fails, or the deadline expires before the entry is
// replicated, the decision is a timeout. The entry commits only when a
// majority of the group acknowledges it.
func (c *Consensus) Propose(prop accord.Proposal, timeout time.Duration) (*accord.Result, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if c.coordinator == nil {
		return nil, &accord.PreconditionError{Op: "propose", Err: accord.ErrNilCoordinator}
	}

	deadline := time.Now().Add(timeout)

	c.mut.Lock()
	defer c.mut.Unlock()

	if c.leader == "" || time.Since(c.lastHeartbeat) > c.electionTimeout {
		if _, ok := c.electLeader(); !ok {
			return c.timeoutResult(prop, "no_leader"), nil
		}
	}
	if time.Now().After(deadline) {
		return c.timeoutResult(prop, "election_exhausted_deadline"), nil
	}

	entry := accord.LogEntry{
		Term:        c.term,
		ProposalID:  prop.ID,
		Description: prop.Description,
		Timestamp:   time.Now(),
	}
	c.log = append(c.log, entry)

	acks, err := c.coordinator.ReplicateEntry(entry, time.Until(deadline))
	if err != nil {
		c.logger.Warnf("replication failed for proposal %s: %v", prop.ID, err)
		acks = 0
	}
	if time.Now().After(deadline) {
		// The entry stays in the log but remains uncommitted.
		return c.timeoutResult(prop, "replication_timeout"), nil
	}

	registry := c.coordinator.AgentRegistry()
	n := len(registry)
	majority := accord.Majority(n)
	decision := accord.DecisionRejected
	reason := ""
	if acks >= majority {
		c.commitIndex = len(c.log) - 1
		decision = accord.DecisionApproved
	} else {
		reason = "insufficient_acks"
	}
	c.logger.Debugf("proposal %s: %s (term %d, acks %d/%d)", prop.ID, decision, c.term, acks, n)

	metadata := consensus.Metadata(prop.Metadata, map[string]any{
		"algorithm":    "raft",
		"term":         c.term,
		"leader":       c.leader,
		"acks":         acks,
		"majority":     majority,
		"commit_index": c.commitIndex,
	})
	if reason != "" {
		metadata["reason"] = reason
	}
	abstain := n - acks
	if abstain < 0 {
		abstain = 0
	}
	return &accord.Result{
		Decision:     decision,
		VotesFor:     acks,
		Abstain:      abstain,
		Threshold:    0.5,
		Participants: accord.SortedIDs(registry),
		Metadata:     metadata,
	}, nil
}

// timeoutResult requires c.mut to be held.
func (c *Consensus) timeoutResult(prop accord.Proposal, reason string) *accord.Result {
	c.logger.Warnf("proposal %s timed out: %s", prop.ID, reason)
	return &accord.Result{
		Decision:  accord.DecisionTimeout,
		Threshold: 0.5,
		Metadata: consensus.Metadata(prop.Metadata, map[string]any{
			"algorithm": "raft",
			"term":      c.term,
			"role":      c.role.String(),
			"reason":    reason,
		}),
	}
}

// SendHeartbeat refreshes the leader's liveness and notifies the group.
// It is a no-op unless this node leads.
func (c *Consensus) SendHeartbeat() {
	c.mut.Lock()
	defer c.mut.Unlock()

	if c.role != Leader {
		return
	}
	c.lastHeartbeat = time.Now()
	reached := c.coordinator.Broadcast(c.id, accord.Message{
		Type: "heartbeat",
		From: c.id,
		Term: c.term,
	})
	c.logger.Debugf("heartbeat for term %d reached %d agents", c.term, reached)
}

// Term returns the current term.
func (c *Consensus) Term() uint64 {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.term
}

// Role returns the role the node is currently in.
func (c *Consensus) Role() Role {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.role
}

// Leader returns the id of the current leader, or "" when there is none.
func (c *Consensus) Leader() accord.ID {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.leader
}

// CommitIndex returns the index of the last committed entry, or -1 when
// nothing has committed.
func (c *Consensus) CommitIndex() int {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.commitIndex
}

// State reports the node's term, role, leader, and log position.
func (c *Consensus) State() map[string]any {
	c.mut.Lock()
	defer c.mut.Unlock()
	return map[string]any{
		"algorithm":    "raft",
		"node_id":      c.id,
		"term":         c.term,
		"role":         c.role.String(),
		"leader":       c.leader,
		"log_length":   len(c.log),
		"commit_index": c.commitIndex,
	}
}

// Reset forces the node back to a fresh follower: term 0, empty log,
// nothing committed. It is the crash of a node without persistence.
func (c *Consensus) Reset() bool {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.term = 0
	c.role = Follower
	c.leader = ""
	c.votedFor = ""
	c.log = nil
	c.commitIndex = -1
	c.lastHeartbeat = time.Time{}
	return true
}
