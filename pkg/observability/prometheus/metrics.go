package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DefaultRegistry is the default Prometheus registry
	DefaultRegistry = prometheus.NewRegistry()

	// DefaultRegisterer is the default Prometheus registerer
	DefaultRegisterer = prometheus.WrapRegistererWith(prometheus.Labels{"service": "parsort"}, DefaultRegistry)

	metricsOnce sync.Once
	metrics     *Metrics
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Sort metrics
	SortsTotal           prometheus.Counter
	SortedElementsTotal  prometheus.Counter
	SortDuration         prometheus.Histogram
	DispatchedTasksTotal prometheus.Counter

	// Worker pool metrics
	PoolTasksSubmittedTotal prometheus.Counter
	PoolTasksExecutedTotal  prometheus.Counter
	PoolTaskPanicsTotal     prometheus.Counter
	PoolPeakQueueLength     prometheus.Gauge
	PoolWorkers             prometheus.Gauge
}

// PoolObservation is a snapshot of worker pool counters taken after a pool is joined
type PoolObservation struct {
	Workers    int
	PeakQueued int
	Submitted  int64
	Executed   int64
	Panicked   int64
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics(DefaultRegisterer)
	})
	return metrics
}

// NewMetrics creates a new metrics collection
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		SortsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "parsort_sorts_total",
			Help: "Total number of completed sort calls",
		}),
		SortedElementsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "parsort_sorted_elements_total",
			Help: "Total number of elements passed to sort calls",
		}),
		SortDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "parsort_sort_duration_seconds",
			Help:    "Sort call duration in seconds, including pool shutdown",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
		}),
		DispatchedTasksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "parsort_dispatched_tasks_total",
			Help: "Total number of partition steps that ran as asynchronous pool tasks",
		}),

		PoolTasksSubmittedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "parsort_pool_tasks_submitted_total",
			Help: "Total number of tasks submitted to worker pools",
		}),
		PoolTasksExecutedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "parsort_pool_tasks_executed_total",
			Help: "Total number of tasks executed by worker pools",
		}),
		PoolTaskPanicsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "parsort_pool_task_panics_total",
			Help: "Total number of tasks that panicked",
		}),
		PoolPeakQueueLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "parsort_pool_peak_queue_length",
			Help: "Largest queue length seen by the most recent worker pool",
		}),
		PoolWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "parsort_pool_workers",
			Help: "Worker goroutines in the most recent worker pool",
		}),
	}
}

// RecordSort records one completed sort call
func (m *Metrics) RecordSort(elements int, dispatched int64, duration time.Duration) {
	m.SortsTotal.Inc()
	m.SortedElementsTotal.Add(float64(elements))
	m.SortDuration.Observe(duration.Seconds())
	m.DispatchedTasksTotal.Add(float64(dispatched))
}

// RecordPool records the final counters of a joined worker pool
func (m *Metrics) RecordPool(obs PoolObservation) {
	m.PoolTasksSubmittedTotal.Add(float64(obs.Submitted))
	m.PoolTasksExecutedTotal.Add(float64(obs.Executed))
	if obs.Panicked > 0 {
		m.PoolTaskPanicsTotal.Add(float64(obs.Panicked))
	}
	m.PoolPeakQueueLength.Set(float64(obs.PeakQueued))
	m.PoolWorkers.Set(float64(obs.Workers))
}
