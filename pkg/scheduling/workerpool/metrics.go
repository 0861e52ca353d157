package workerpool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/cycleflow/pkg/metrics"
)

// MetricsPool wraps a worker Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	registry atomic.Pointer[metrics.Registry]
}

var (
	_ Pool                   = (*MetricsPool)(nil)
	_ metrics.Instrumentable = (*MetricsPool)(nil)
)

// NewWithMetrics creates a worker pool recording into metrics.DefaultRegistry.
func NewWithMetrics(name string, workerCount, queueSize int) *MetricsPool {
	return NewWithConfigAndMetrics(Config{
		Name:        name,
		WorkerCount: workerCount,
		QueueSize:   queueSize,
	}, metrics.DefaultConfig())
}

// NewWithConfigAndMetrics creates a new worker pool with custom config and
// metrics. It panics on invalid configuration.
func NewWithConfigAndMetrics(config Config, metricsConfig metrics.Config) *MetricsPool {
	return WithMetrics(NewWithConfig(config), metricsConfig)
}

// WithMetrics decorates an existing pool.
func WithMetrics(pool Pool, metricsConfig metrics.Config) *MetricsPool {
	mp := &MetricsPool{pool: pool}
	mp.registry.Store(metricsConfig.Resolve())
	mp.updateMetrics()
	return mp
}

// updateMetrics updates the current state metrics.
func (mp *MetricsPool) updateMetrics() {
	reg := mp.registry.Load()
	if reg == nil {
		return
	}

	name := mp.pool.Name()
	reg.WorkerPoolSize.WithLabelValues(name).Set(float64(mp.pool.Size()))
	reg.WorkerPoolActive.WithLabelValues(name).Set(float64(mp.pool.ActiveWorkers()))
	reg.WorkerPoolQueued.WithLabelValues(name).Set(float64(mp.pool.QueueSize()))
}

// Start launches the wrapped pool's workers.
func (mp *MetricsPool) Start() error {
	return mp.pool.Start()
}

// Submit adds a task to the pool for execution.
func (mp *MetricsPool) Submit(task Task) error {
	return mp.SubmitWithContext(context.Background(), task)
}

// SubmitWithTimeout submits a task with a timeout for queuing.
func (mp *MetricsPool) SubmitWithTimeout(task Task, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return asTimeout(mp.SubmitWithContext(ctx, task))
}

// SubmitWithContext submits a task with a context for cancellation.
func (mp *MetricsPool) SubmitWithContext(ctx context.Context, task Task) error {
	if task == nil {
		return mp.pool.SubmitWithContext(ctx, task)
	}

	wrapped := &metricsTask{
		original:   task,
		pool:       mp,
		submitTime: time.Now(),
	}

	err := mp.pool.SubmitWithContext(ctx, wrapped)

	if reg := mp.registry.Load(); reg != nil {
		if err != nil {
			reg.TasksRejected.WithLabelValues(mp.pool.Name()).Inc()
		} else {
			reg.TasksSubmitted.WithLabelValues(mp.pool.Name()).Inc()
		}
		mp.updateMetrics()
	}

	return err
}

// metricsTask wraps a Task to collect execution metrics.
type metricsTask struct {
	original   Task
	pool       *MetricsPool
	submitTime time.Time
}

// Execute runs the original task and records metrics. Panics propagate to
// the worker after being counted.
func (mt *metricsTask) Execute(ctx context.Context) (err error) {
	start := time.Now()
	name := mt.pool.pool.Name()

	if reg := mt.pool.registry.Load(); reg != nil {
		reg.TaskQueueWait.WithLabelValues(name).Observe(start.Sub(mt.submitTime).Seconds())
	}

	panicked := true
	defer func() {
		reg := mt.pool.registry.Load()
		if reg == nil {
			return
		}

		reg.TaskDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil || panicked {
			reg.TasksFailed.WithLabelValues(name).Inc()
		} else {
			reg.TasksCompleted.WithLabelValues(name).Inc()
		}
		mt.pool.updateMetrics()
	}()

	err = mt.original.Execute(ctx)
	panicked = false
	return err
}

// Shutdown initiates graceful shutdown of the pool.
func (mp *MetricsPool) Shutdown() <-chan struct{} {
	return mp.pool.Shutdown()
}

// ShutdownWithTimeout shuts down the pool with a timeout.
func (mp *MetricsPool) ShutdownWithTimeout(timeout time.Duration) <-chan struct{} {
	return mp.pool.ShutdownWithTimeout(timeout)
}

// Name returns the pool name, used as the metrics label.
func (mp *MetricsPool) Name() string {
	return mp.pool.Name()
}

// Size returns the current number of workers.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueSize returns the current number of queued tasks.
func (mp *MetricsPool) QueueSize() int {
	queueSize := mp.pool.QueueSize()

	if reg := mp.registry.Load(); reg != nil {
		reg.WorkerPoolQueued.WithLabelValues(mp.pool.Name()).Set(float64(queueSize))
	}

	return queueSize
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (mp *MetricsPool) ActiveWorkers() int {
	activeWorkers := mp.pool.ActiveWorkers()

	if reg := mp.registry.Load(); reg != nil {
		reg.WorkerPoolActive.WithLabelValues(mp.pool.Name()).Set(float64(activeWorkers))
	}

	return activeWorkers
}

// TotalSubmitted returns the total number of tasks submitted.
func (mp *MetricsPool) TotalSubmitted() int64 {
	return mp.pool.TotalSubmitted()
}

// TotalCompleted returns the total number of tasks completed.
func (mp *MetricsPool) TotalCompleted() int64 {
	return mp.pool.TotalCompleted()
}

// TotalFailed returns the total number of tasks that failed.
func (mp *MetricsPool) TotalFailed() int64 {
	return mp.pool.TotalFailed()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	mp.registry.Store(config.Resolve())
	mp.updateMetrics()
	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.registry.Store(nil)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.registry.Load() != nil
}
