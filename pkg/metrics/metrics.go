// Package metrics provides Prometheus instrumentation for cycleflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cycleflow"

// Registry holds all metric instances for cycleflow components.
type Registry struct {
	// Worker Pool Metrics
	TasksSubmitted   *prometheus.CounterVec
	TasksRejected    *prometheus.CounterVec
	TasksCompleted   *prometheus.CounterVec
	TasksFailed      *prometheus.CounterVec
	TaskDuration     *prometheus.HistogramVec
	TaskQueueWait    *prometheus.HistogramVec
	WorkerPoolSize   *prometheus.GaugeVec
	WorkerPoolActive *prometheus.GaugeVec
	WorkerPoolQueued *prometheus.GaugeVec

	// Cycle Worker Metrics
	CycleRuns        *prometheus.CounterVec
	CycleFailures    *prometheus.CounterVec
	CycleRunDuration *prometheus.HistogramVec
	CycleState       *prometheus.GaugeVec
	CyclePeriod      *prometheus.GaugeVec
	CycleCommands    *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by cycleflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Worker Pool Metrics
		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_submitted_total",
				Help:      "Total number of tasks accepted into the queue",
			},
			[]string{"pool_name"},
		),

		TasksRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_rejected_total",
				Help:      "Total number of tasks that could not be enqueued",
			},
			[]string{"pool_name"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks completed successfully",
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks that returned an error or panicked",
			},
			[]string{"pool_name"},
		),

		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		TaskQueueWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "task_queue_wait_seconds",
				Help:      "Time tasks spent queued before a worker took them",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "size",
				Help:      "Current worker pool size",
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "active_workers",
				Help:      "Number of workers executing a task",
			},
			[]string{"pool_name"},
		),

		WorkerPoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "queued_tasks",
				Help:      "Number of queued tasks",
			},
			[]string{"pool_name"},
		),

		// Cycle Worker Metrics
		CycleRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cycle",
				Name:      "runs_total",
				Help:      "Total number of action runs, by trigger (tick or invoke)",
			},
			[]string{"worker_name", "trigger"},
		),

		CycleFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cycle",
				Name:      "failures_total",
				Help:      "Total number of action runs that returned an error or panicked",
			},
			[]string{"worker_name"},
		),

		CycleRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cycle",
				Name:      "run_duration_seconds",
				Help:      "Time spent executing the periodic action",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"worker_name"},
		),

		CycleState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "cycle",
				Name:      "state",
				Help:      "Lifecycle state: 0 none, 1 working, 2 stopped",
			},
			[]string{"worker_name"},
		),

		CyclePeriod: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "cycle",
				Name:      "period_seconds",
				Help:      "Configured period between ticks",
			},
			[]string{"worker_name"},
		),

		CycleCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cycle",
				Name:      "commands_total",
				Help:      "Total number of lifecycle commands handled, by command and outcome",
			},
			[]string{"worker_name", "command", "outcome"},
		),
	}
}
