package sorter

import (
	"cmp"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fluxorio/parsort/pkg/core/concurrency"
	"github.com/fluxorio/parsort/pkg/core/failfast"
	"github.com/fluxorio/parsort/pkg/observability/prometheus"
)

const (
	// DefaultPoolSize is the worker count of the pool each Sort call creates
	DefaultPoolSize = concurrency.DefaultWorkers

	// DefaultFanoutThreshold is the left sub-range width above which both halves become pool tasks
	DefaultFanoutThreshold = 10000
)

// Config configures a Sorter
type Config struct {
	PoolSize        int                 // Worker goroutines per Sort call
	FanoutThreshold int                 // Widths above this are dispatched to the pool
	Pivot           PivotStrategy       // Pivot selection
	Logger          *slog.Logger        // Defaults to slog.Default()
	Metrics         *prometheus.Metrics // Optional; nil disables recording
}

// DefaultConfig returns the default sorter configuration
func DefaultConfig() Config {
	return Config{
		PoolSize:        DefaultPoolSize,
		FanoutThreshold: DefaultFanoutThreshold,
		Pivot:           PivotMidpoint,
	}
}

// Report describes the most recent Sort call
type Report struct {
	RunID      string
	Elements   int
	Dispatched int64
	Duration   time.Duration
	Pool       concurrency.PoolStats
}

// Sorter sorts slices in place using a per-call worker pool.
// Sort calls on one Sorter are serialised.
type Sorter[T any] struct {
	config  Config
	compare func(a, b T) int

	mu         sync.Mutex
	dispatched atomic.Int64
	last       Report
}

// New creates a Sorter for naturally ordered element types
func New[T cmp.Ordered](config Config) *Sorter[T] {
	return NewFunc(cmp.Compare[T], config)
}

// NewFunc creates a Sorter ordering elements by compare, which must return a negative number
// when a < b, zero when a == b and a positive number when a > b, and must define a total order
func NewFunc[T any](compare func(a, b T) int, config Config) *Sorter[T] {
	failfast.NotNil(compare, "compare")

	if config.PoolSize < 1 {
		config.PoolSize = DefaultPoolSize
	}
	if config.FanoutThreshold < 1 {
		config.FanoutThreshold = DefaultFanoutThreshold
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Sorter[T]{
		config:  config,
		compare: compare,
	}
}

// Sort sorts data in place in ascending order and returns once every dispatched
// sub-range has completed and the pool has shut down.
// A failure inside a pool task is fatal: Sort panics with a *failfast.Failure wrapping
// the *concurrency.TaskPanicError, after the pool has been joined.
func (s *Sorter[T]) Sort(data []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatched.Store(0)
	runID := uuid.NewString()
	logger := s.config.Logger.With("run_id", runID)
	start := time.Now()

	pool := concurrency.NewWorkerPool(concurrency.WorkerPoolConfig{
		Workers: s.config.PoolSize,
		Logger:  logger,
	})
	// Joins the pool if a comparison panics on this goroutine.
	defer func() { _ = pool.Close() }()

	s.quicksort(data, 0, len(data)-1, pool, false)
	err := pool.Close()

	report := Report{
		RunID:      runID,
		Elements:   len(data),
		Dispatched: s.dispatched.Load(),
		Duration:   time.Since(start),
		Pool:       pool.Stats(),
	}
	s.last = report
	s.record(logger, report)

	failfast.Err(err)
}

// quicksort partitions data[left..right] and either recurses in place or hands both halves to the pool.
// async is true when this call is itself running as a pool task.
func (s *Sorter[T]) quicksort(data []T, left, right int, pool concurrency.WorkerPool, async bool) {
	if left >= right {
		return
	}
	if async {
		s.dispatched.Add(1)
	}

	for left < right {
		pivot := pickPivot(s.config.Pivot, data, left, right, s.compare)
		lb, rb := partition(data, left, right, pivot, s.compare)

		if rb-left+1 > s.config.FanoutThreshold {
			s.dispatch(data, left, rb, pool)
			s.dispatch(data, lb, right, pool)
			return
		}

		// Recurse into the smaller half and loop on the larger one to bound stack depth.
		if rb-left < right-lb {
			s.quicksort(data, left, rb, pool, false)
			left = lb
		} else {
			s.quicksort(data, lb, right, pool, false)
			right = rb
		}
	}
}

func (s *Sorter[T]) dispatch(data []T, left, right int, pool concurrency.WorkerPool) {
	// Submit only fails once every worker has exited, which cannot happen while this
	// call runs on the caller before Close or inside a live worker.
	failfast.Err(pool.Submit(func() {
		s.quicksort(data, left, right, pool, true)
	}))
}

func (s *Sorter[T]) record(logger *slog.Logger, r Report) {
	logger.Debug("sort finished",
		"elements", r.Elements,
		"dispatched", r.Dispatched,
		"duration", r.Duration,
		"peak_queued", r.Pool.PeakQueued,
		"panicked", r.Pool.Panicked)

	if s.config.Metrics == nil {
		return
	}
	s.config.Metrics.RecordSort(r.Elements, r.Dispatched, r.Duration)
	s.config.Metrics.RecordPool(prometheus.PoolObservation{
		Workers:    r.Pool.Workers,
		PeakQueued: r.Pool.PeakQueued,
		Submitted:  r.Pool.Submitted,
		Executed:   r.Pool.Executed,
		Panicked:   r.Pool.Panicked,
	})
}

// DispatchedTaskCount returns how many partition steps ran as pool tasks during the most
// recent Sort. It only grows while a Sort is running and is stable once Sort returns.
func (s *Sorter[T]) DispatchedTaskCount() int64 {
	return s.dispatched.Load()
}

// LastReport returns the report of the most recent Sort call
func (s *Sorter[T]) LastReport() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
