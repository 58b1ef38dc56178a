// Package sorter implements an in-place parallel partition-exchange sort.
//
// Each Sort call owns a worker pool for its duration. The first partition step runs on the
// caller's goroutine; any step whose left sub-range is wider than the fan-out threshold hands
// both halves to the pool as tasks, and tasks may fan out again. Sort returns once the pool
// has drained and every worker has exited.
//
// Concurrent tasks only ever touch disjoint index ranges of the slice, so the slice itself is
// never locked.
package sorter
