package plotting

import (
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/metrics"
)

// StartTimes collects the start times of each node.
type StartTimes struct {
	nodes map[accord.ID]time.Time
}

// NewStartTimes returns a new StartTimes instance.
func NewStartTimes() StartTimes {
	return StartTimes{nodes: make(map[accord.ID]time.Time)}
}

// Add adds an event.
func (s *StartTimes) Add(msg any) {
	start, ok := msg.(*metrics.StartEvent)
	if !ok {
		return
	}
	s.nodes[start.Event.Node] = start.Event.Timestamp
}

// Node returns the start time of the node with the specified id.
func (s *StartTimes) Node(id accord.ID) (t time.Time, ok bool) {
	t, ok = s.nodes[id]
	return
}

// NodeOffset returns the time offset from the node's start time.
func (s *StartTimes) NodeOffset(id accord.ID, t time.Time) (offset time.Duration, ok bool) {
	startTime, ok := s.nodes[id]
	if !ok {
		return 0, false
	}
	return t.Sub(startTime), true
}
