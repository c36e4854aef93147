// Package simulation provides an in-process stand-in for a real agent
// group. A Network implements the accord.Coordinator port and synthesizes
// ballots from per-agent voting profiles, and a Runner drives a registered
// strategy through a scenario while collecting measurements.
package simulation

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	wr "github.com/mroth/weightedrand"
	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/logging"
)

// Profile weights an agent's voting tendencies. The zero value is invalid;
// use DefaultProfile for a plausible mix.
type Profile struct {
	Approve uint `json:"approve"`
	Reject  uint `json:"reject"`
	Abstain uint `json:"abstain"`
}

// DefaultProfile approves most of the time.
func DefaultProfile() Profile {
	return Profile{Approve: 60, Reject: 30, Abstain: 10}
}

func (p Profile) chooser() (*wr.Chooser, error) {
	return wr.NewChooser(
		wr.Choice{Item: accord.VoteApprove, Weight: p.Approve},
		wr.Choice{Item: accord.VoteReject, Weight: p.Reject},
		wr.Choice{Item: accord.VoteAbstain, Weight: p.Abstain},
	)
}

// Network simulates an agent group behind the accord.Coordinator port.
// Failed agents never respond, busy agents abstain, and the remaining
// agents vote according to their profiles. A fixed seed makes the
// synthesized ballots reproducible.
type Network struct {
	mut sync.Mutex

	logger logging.Logger
	// the destination of the logger
	log strings.Builder

	topology string
	agents   map[accord.ID]accord.AgentInfo
	choosers map[accord.ID]*wr.Chooser
	rng      *rand.Rand

	broadcasts []accord.Message
	replicated []accord.LogEntry
}

var _ accord.Coordinator = (*Network)(nil)

// NewNetwork creates a mesh of numAgents active agents with the default
// voting profile. A zero seed derives one from the clock.
func NewNetwork(numAgents int, seed int64) *Network {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n := &Network{
		topology: "mesh",
		agents:   make(map[accord.ID]accord.AgentInfo, numAgents),
		choosers: make(map[accord.ID]*wr.Chooser, numAgents),
		rng:      rand.New(rand.NewSource(seed)),
	}
	n.logger = logging.NewWithDest(&n.log, "network")
	for i := 1; i <= numAgents; i++ {
		id := accord.ID(fmt.Sprintf("agent-%d", i))
		n.agents[id] = accord.AgentInfo{State: accord.StateActive}
	}
	return n
}

// SetAgentState overrides the state of one agent. Unknown agents are added.
func (n *Network) SetAgentState(id accord.ID, state accord.AgentState) {
	n.mut.Lock()
	defer n.mut.Unlock()
	info := n.agents[id]
	info.State = state
	n.agents[id] = info
}

// SetProfile overrides the voting profile of one agent.
func (n *Network) SetProfile(id accord.ID, profile Profile) error {
	chooser, err := profile.chooser()
	if err != nil {
		return fmt.Errorf("invalid profile for %s: %w", id, err)
	}
	n.mut.Lock()
	defer n.mut.Unlock()
	n.choosers[id] = chooser
	return nil
}

// SetProfileAll overrides the voting profile of every registered agent.
func (n *Network) SetProfileAll(profile Profile) error {
	for _, id := range accord.SortedIDs(n.AgentRegistry()) {
		if err := n.SetProfile(id, profile); err != nil {
			return err
		}
	}
	return nil
}

// TopologyInfo returns a summary of the agent group.
func (n *Network) TopologyInfo() accord.TopologyInfo {
	n.mut.Lock()
	defer n.mut.Unlock()
	return accord.TopologyInfo{AgentCount: len(n.agents), Type: n.topology}
}

// AgentRegistry returns a snapshot of all registered agents.
func (n *Network) AgentRegistry() map[accord.ID]accord.AgentInfo {
	n.mut.Lock()
	defer n.mut.Unlock()
	registry := make(map[accord.ID]accord.AgentInfo, len(n.agents))
	for id, info := range n.agents {
		registry[id] = info
	}
	return registry
}

// AgentStatus returns the current state of a single agent.
func (n *Network) AgentStatus(id accord.ID) (accord.AgentInfo, bool) {
	n.mut.Lock()
	defer n.mut.Unlock()
	info, ok := n.agents[id]
	return info, ok
}

// Broadcast delivers msg to every responsive agent except the sender and
// returns the number of agents reached.
func (n *Network) Broadcast(from accord.ID, msg accord.Message) int {
	n.mut.Lock()
	defer n.mut.Unlock()
	n.broadcasts = append(n.broadcasts, msg)
	reached := 0
	for id, info := range n.agents {
		if id == from || info.State == accord.StateFailed {
			continue
		}
		reached++
	}
	n.logger.Debugf("broadcast %s from %s reached %d agents", msg.Type, from, reached)
	return reached
}

// CollectVotes synthesizes one ballot per responsive agent. Failed agents
// are absent from the returned map, busy agents abstain, and the rest vote
// according to their profiles. Ballots are drawn in sorted agent order so a
// fixed seed reproduces the same ballots.
func (n *Network) CollectVotes(prop accord.Proposal, timeout time.Duration) (map[accord.ID]accord.Vote, error) {
	n.mut.Lock()
	defer n.mut.Unlock()

	votes := make(map[accord.ID]accord.Vote, len(n.agents))
	for _, id := range accord.SortedIDs(n.agents) {
		switch n.agents[id].State {
		case accord.StateFailed:
			continue
		case accord.StateBusy:
			votes[id] = accord.VoteAbstain
		default:
			votes[id] = n.vote(id)
		}
	}
	n.logger.Debugf("collected %d ballots for %s", len(votes), prop.ID)
	return votes, nil
}

// vote draws one ballot from the agent's profile. Requires mut.
func (n *Network) vote(id accord.ID) accord.Vote {
	chooser, ok := n.choosers[id]
	if !ok {
		var err error
		chooser, err = DefaultProfile().chooser()
		if err != nil {
			// the default profile is always valid
			panic(err)
		}
		n.choosers[id] = chooser
	}
	return chooser.PickSource(n.rng).(accord.Vote)
}

// ReplicateEntry offers a log entry to the agent group. Every responsive
// agent stores it, and the sender's own copy counts.
func (n *Network) ReplicateEntry(entry accord.LogEntry, timeout time.Duration) (int, error) {
	n.mut.Lock()
	defer n.mut.Unlock()

	n.replicated = append(n.replicated, entry)
	acks := 0
	for _, info := range n.agents {
		if info.State == accord.StateFailed {
			continue
		}
		acks++
	}
	n.logger.Debugf("replicated %s to %d agents", entry.ProposalID, acks)
	return acks, nil
}

// Broadcasts returns the messages broadcast so far.
func (n *Network) Broadcasts() []accord.Message {
	n.mut.Lock()
	defer n.mut.Unlock()
	return append([]accord.Message(nil), n.broadcasts...)
}

// Replicated returns the log entries replicated so far.
func (n *Network) Replicated() []accord.LogEntry {
	n.mut.Lock()
	defer n.mut.Unlock()
	return append([]accord.LogEntry(nil), n.replicated...)
}

// Log returns what the network logged during the run.
func (n *Network) Log() string {
	n.mut.Lock()
	defer n.mut.Unlock()
	return n.log.String()
}
