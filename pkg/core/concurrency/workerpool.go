package concurrency

import (
	"context"
	"log/slog"
)

// DefaultWorkers is the pool size used when none is configured
const DefaultWorkers = 4

// WorkerPool runs submitted tasks on a fixed set of worker goroutines.
// Workers start at construction and are joined by Close; there is no separate Start.
type WorkerPool interface {
	// Submit appends a task to the tail of the FIFO queue and wakes one idle worker.
	// Never blocks waiting for capacity; the queue is unbounded.
	// Safe to call from any goroutine, including from inside a running task.
	Submit(task Task) error

	// Close marks the pool as stopping, wakes every idle worker and joins them.
	// Tasks already queued, and tasks submitted by running tasks, are executed first.
	// Returns the first task failure, if any. Safe to call more than once.
	// Must not be called from inside a task.
	Close() error

	// Shutdown is Close bounded by ctx
	Shutdown(ctx context.Context) error

	// Workers returns the number of worker goroutines
	Workers() int

	// Stats returns a snapshot of pool counters
	Stats() PoolStats
}

// PoolStats provides statistics about a worker pool
type PoolStats struct {
	Workers     int   // Configured worker goroutines
	LiveWorkers int   // Workers that have not exited yet
	Queued      int   // Tasks waiting in the queue
	PeakQueued  int   // Largest queue length observed
	Submitted   int64 // Tasks accepted by Submit
	Executed    int64 // Tasks that finished, including ones that panicked
	Panicked    int64 // Tasks that panicked
	Running     bool  // False once Close has been called
}

// WorkerPoolConfig configures a WorkerPool
type WorkerPoolConfig struct {
	Workers int          // Number of worker goroutines
	Logger  *slog.Logger // Defaults to slog.Default()
}

// DefaultWorkerPoolConfig returns default worker pool configuration
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		Workers: DefaultWorkers,
	}
}
