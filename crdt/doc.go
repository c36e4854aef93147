// Package crdt implements the conflict-free replicated data types used by
// the CRDT-backed consensus strategy: a grow-only counter, a
// positive-negative counter, a last-writer-wins register, and an
// observed-remove set.
//
// Every type follows the same discipline: a single owner writes locally, and
// Merge folds another replica's state into the receiver without modifying
// the argument. Merge is commutative, associative, and idempotent, so
// replicas converge to the same state regardless of delivery order or
// duplication. Instances are not safe for concurrent use; each replica owns
// its instance and merges snapshots received from the others.
package crdt
