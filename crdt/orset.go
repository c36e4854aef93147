package crdt

import (
	"fmt"
	"slices"
	"strings"

	"github.com/swarmlab/accord"
)

// Tag uniquely identifies one add of an element: the agent that performed it
// and a sequence number local to that agent. Tags are never reused, which is
// what gives the set its add-wins behavior.
type Tag struct {
	Agent accord.ID
	Seq   uint64
}

// ORSet is an observed-remove set. Every add attaches a fresh tag to the
// element; a remove tombstones only the tags the removing replica has
// observed. A concurrent add carries a tag the remover never saw, so after
// merging the element is still present: adds win over concurrent removes.
//
// Elements are strings because they are immutable and can hold arbitrary
// bytes of any length.
type ORSet struct {
	owner   accord.ID
	nextSeq uint64

	adds       map[string]map[Tag]struct{}
	tombstones map[Tag]struct{}
}

// NewORSet returns an empty set owned by the given agent. Owner ids must be
// unique across replicas; tag uniqueness depends on it.
func NewORSet(owner accord.ID) *ORSet {
	return &ORSet{
		owner:      owner,
		adds:       make(map[string]map[Tag]struct{}),
		tombstones: make(map[Tag]struct{}),
	}
}

// Add inserts element with a fresh tag. Adding an element that is already
// present widens its tag set, which keeps it alive through removes observed
// elsewhere.
func (s *ORSet) Add(element string) {
	s.nextSeq++
	tags, ok := s.adds[element]
	if !ok {
		tags = make(map[Tag]struct{})
		s.adds[element] = tags
	}
	tags[Tag{Agent: s.owner, Seq: s.nextSeq}] = struct{}{}
}

// Remove tombstones every tag of element that this replica has observed.
// Removing an element that is not present is a no-op.
func (s *ORSet) Remove(element string) {
	for tag := range s.adds[element] {
		s.tombstones[tag] = struct{}{}
	}
}

// Contains reports whether element has at least one tag that has not been
// tombstoned.
func (s *ORSet) Contains(element string) bool {
	for tag := range s.adds[element] {
		if _, dead := s.tombstones[tag]; !dead {
			return true
		}
	}
	return false
}

// Elements returns the present elements in ascending order.
func (s *ORSet) Elements() []string {
	elements := make([]string, 0, len(s.adds))
	for element := range s.adds {
		if s.Contains(element) {
			elements = append(elements, element)
		}
	}
	slices.Sort(elements)
	return elements
}

// Merge folds other into s by unioning both the add tags and the
// tombstones. The argument is not modified.
func (s *ORSet) Merge(other *ORSet) {
	for element, tags := range other.adds {
		dst, ok := s.adds[element]
		if !ok {
			dst = make(map[Tag]struct{}, len(tags))
			s.adds[element] = dst
		}
		for tag := range tags {
			dst[tag] = struct{}{}
		}
	}
	for tag := range other.tombstones {
		s.tombstones[tag] = struct{}{}
	}
}

func (s *ORSet) String() string {
	return fmt.Sprintf("ORSet{ owner: %s, elements: [%s] }",
		s.owner, strings.Join(s.Elements(), " "))
}
