package concurrency

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Submit once every worker has exited
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrNilTask is returned when submitting a nil task
	ErrNilTask = errors.New("task cannot be nil")
)

// Task is a one-shot unit of work with no arguments or result.
// Inputs are captured by the closure; the pool runs each task exactly once.
type Task func()

// TaskPanicError records a task that panicked while a worker was running it
type TaskPanicError struct {
	Worker int
	Value  interface{}
	Stack  []byte
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("task panicked on worker %d: %v", e.Worker, e.Value)
}

// Unwrap exposes the panic value when the task panicked with an error
func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
