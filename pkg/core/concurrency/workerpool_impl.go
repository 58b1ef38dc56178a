package concurrency

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// defaultWorkerPool implements WorkerPool with a mutex-guarded FIFO and a condition variable.
// The mutex protects queue, running, live, peak and taskErr; nothing else.
type defaultWorkerPool struct {
	workers int
	logger  *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   *queue.Queue
	running bool
	live    int
	peak    int
	taskErr error

	wg        sync.WaitGroup
	closeOnce sync.Once

	submitted atomic.Int64
	executed  atomic.Int64
	panicked  atomic.Int64
}

// NewWorkerPool creates a WorkerPool and starts its workers
func NewWorkerPool(config WorkerPoolConfig) WorkerPool {
	if config.Workers < 1 {
		config.Workers = DefaultWorkers
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	wp := &defaultWorkerPool{
		workers: config.Workers,
		logger:  config.Logger,
		queue:   queue.New(),
		running: true,
		live:    config.Workers,
	}
	wp.cond = sync.NewCond(&wp.mu)

	wp.wg.Add(wp.workers)
	for i := 0; i < wp.workers; i++ {
		go wp.worker(i)
	}

	wp.logger.Debug("worker pool started", "workers", wp.workers)
	return wp
}

// worker dequeues and runs tasks until the pool is stopped and the queue is drained
func (wp *defaultWorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		wp.mu.Lock()
		for wp.queue.Length() == 0 && wp.running {
			wp.cond.Wait()
		}
		// Queued work wins over the stop flag so nothing submitted is dropped.
		if wp.queue.Length() == 0 {
			wp.live--
			wp.mu.Unlock()
			return
		}
		task := wp.queue.Remove().(Task)
		wp.mu.Unlock()

		wp.execute(id, task)
	}
}

// execute runs a task outside the lock and records a panic instead of crashing the worker
func (wp *defaultWorkerPool) execute(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			wp.panicked.Add(1)
			err := &TaskPanicError{Worker: id, Value: r, Stack: debug.Stack()}
			wp.logger.Error("task panicked", "worker", id, "panic", r)

			wp.mu.Lock()
			if wp.taskErr == nil {
				wp.taskErr = err
			}
			wp.mu.Unlock()
		}
		wp.executed.Add(1)
	}()

	task()
}

// Submit implements WorkerPool interface
func (wp *defaultWorkerPool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	wp.mu.Lock()
	if !wp.running && wp.live == 0 {
		wp.mu.Unlock()
		return ErrPoolClosed
	}
	wp.queue.Add(task)
	if n := wp.queue.Length(); n > wp.peak {
		wp.peak = n
	}
	wp.submitted.Add(1)
	wp.mu.Unlock()

	wp.cond.Signal()
	return nil
}

// Close implements WorkerPool interface
func (wp *defaultWorkerPool) Close() error {
	wp.closeOnce.Do(func() {
		wp.mu.Lock()
		wp.running = false
		wp.mu.Unlock()

		// Every idle worker may be parked, so wake all of them.
		wp.cond.Broadcast()
		wp.wg.Wait()

		wp.logger.Debug("worker pool stopped",
			"executed", wp.executed.Load(),
			"panicked", wp.panicked.Load())
	})

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.taskErr
}

// Shutdown implements WorkerPool interface
func (wp *defaultWorkerPool) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- wp.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// Workers implements WorkerPool interface
func (wp *defaultWorkerPool) Workers() int {
	return wp.workers
}

// Stats implements WorkerPool interface
func (wp *defaultWorkerPool) Stats() PoolStats {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	return PoolStats{
		Workers:     wp.workers,
		LiveWorkers: wp.live,
		Queued:      wp.queue.Length(),
		PeakQueued:  wp.peak,
		Submitted:   wp.submitted.Load(),
		Executed:    wp.executed.Load(),
		Panicked:    wp.panicked.Load(),
		Running:     wp.running,
	}
}
