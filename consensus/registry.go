package consensus

import (
	"fmt"
	"slices"
	"sync"
)

var (
	registryMut sync.Mutex
	builders    = make(map[string]Builder)
)

// Builder constructs a strategy from params.
type Builder func(params Params) (Algorithm, error)

// RegisterAlgorithm registers a builder for a strategy with the specified
// name. It panics if the name is already taken. For example:
//
//	RegisterAlgorithm("quorum", func(params consensus.Params) (consensus.Algorithm, error) {
//		return quorum.New(params.Coordinator, params.Threshold)
//	})
func RegisterAlgorithm(name string, builder Builder) {
	registryMut.Lock()
	defer registryMut.Unlock()

	if _, ok := builders[name]; ok {
		panic(fmt.Sprintf("an algorithm with name %s already exists", name))
	}
	builders[name] = builder
}

// NewAlgorithm constructs a new instance of the strategy with the specified
// name.
func NewAlgorithm(name string, params Params) (Algorithm, error) {
	registryMut.Lock()
	builder, ok := builders[name]
	registryMut.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
	return builder(params)
}

// ListAlgorithms returns the names of the registered strategies in sorted
// order.
func ListAlgorithms() []string {
	registryMut.Lock()
	defer registryMut.Unlock()

	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
