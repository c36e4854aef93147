// Package testutil provides helper methods that are useful for implementing tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/internal/mocks"
)

// AgentID returns the id of the i-th test agent, counting from 1.
func AgentID(i int) accord.ID {
	return accord.ID(fmt.Sprintf("agent-%d", i))
}

// Agents returns n active agents with ids agent-1 through agent-n.
func Agents(n int) map[accord.ID]accord.AgentInfo {
	agents := make(map[accord.ID]accord.AgentInfo, n)
	for i := 1; i <= n; i++ {
		agents[AgentID(i)] = accord.AgentInfo{State: accord.StateActive}
	}
	return agents
}

// CreateMockCoordinator returns a mock Coordinator over the given agents
// with the read-only operations pre-stubbed. Expectations for CollectVotes,
// ReplicateEntry, and Broadcast are the test's responsibility.
func CreateMockCoordinator(t *testing.T, ctrl *gomock.Controller, agents map[accord.ID]accord.AgentInfo) *mocks.MockCoordinator {
	t.Helper()

	coordinator := mocks.NewMockCoordinator(ctrl)
	coordinator.
		EXPECT().
		TopologyInfo().
		AnyTimes().
		Return(accord.TopologyInfo{AgentCount: len(agents), Type: "mesh"})
	coordinator.
		EXPECT().
		AgentRegistry().
		AnyTimes().
		DoAndReturn(func() map[accord.ID]accord.AgentInfo {
			snapshot := make(map[accord.ID]accord.AgentInfo, len(agents))
			for id, info := range agents {
				snapshot[id] = info
			}
			return snapshot
		})
	coordinator.
		EXPECT().
		AgentStatus(gomock.Any()).
		AnyTimes().
		DoAndReturn(func(id accord.ID) (accord.AgentInfo, bool) {
			info, ok := agents[id]
			return info, ok
		})

	return coordinator
}

// Ballots builds a deterministic ballot map: the first agents approve, the
// next reject, and the rest abstain, with ids assigned in order.
func Ballots(approve, reject, abstain int) map[accord.ID]accord.Vote {
	votes := make(map[accord.ID]accord.Vote, approve+reject+abstain)
	n := 0
	for i := 0; i < approve; i++ {
		n++
		votes[AgentID(n)] = accord.VoteApprove
	}
	for i := 0; i < reject; i++ {
		n++
		votes[AgentID(n)] = accord.VoteReject
	}
	for i := 0; i < abstain; i++ {
		n++
		votes[AgentID(n)] = accord.VoteAbstain
	}
	return votes
}
