package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/cycleflow/pkg/common/validation"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
)

// DefaultName is used when Config.Name is empty.
const DefaultName = "Task Worker"

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task. The context is canceled only when the pool is
	// forced down; tasks are never canceled individually.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result describes one finished task execution.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error returned by the task, or the recovered panic
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// Worker is the name of the worker that executed the task
	Worker string
}

// Pool is a fixed set of workers draining one shared Queue.
type Pool interface {
	// Start launches every worker. It may be called once; later calls
	// return ErrAlreadyStarted.
	Start() error

	// Submit enqueues a task, blocking while a bounded queue is full.
	// A nil error means the task will be executed exactly once, even if
	// the pool is shut down before it was started.
	Submit(task Task) error

	// SubmitWithContext is Submit bounded by ctx.
	SubmitWithContext(ctx context.Context, task Task) error

	// SubmitWithTimeout is Submit bounded by timeout. An expired timeout
	// returns an error wrapping ErrTimeout.
	SubmitWithTimeout(task Task, timeout time.Duration) error

	// Shutdown stops accepting tasks, lets workers drain the queue and
	// returns a channel closed once every worker has exited.
	Shutdown() <-chan struct{}

	// ShutdownWithTimeout is Shutdown, but after timeout in-flight task
	// contexts are canceled and tasks still queued are abandoned.
	ShutdownWithTimeout(timeout time.Duration) <-chan struct{}

	// Name returns the pool name.
	Name() string

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the current number of queued tasks waiting for execution.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks accepted by the queue.
	TotalSubmitted() int64

	// TotalCompleted returns the number of tasks that returned nil.
	TotalCompleted() int64

	// TotalFailed returns the number of tasks that returned an error or panicked.
	TotalFailed() int64
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// Name prefixes worker names ("<Name> [<id>]"). Defaults to DefaultName.
	Name string

	// WorkerCount is the number of workers in the pool.
	// Must be greater than 0.
	WorkerCount int

	// QueueSize is the maximum number of tasks that can be queued.
	// If 0, the queue is unbounded.
	QueueSize int

	// Sequence supplies worker IDs. If nil, the pool numbers its workers
	// from 0.
	Sequence *lifecycle.Sequence

	// Logger receives worker lifecycle and task failure events.
	// If nil, nothing is logged.
	Logger *zerolog.Logger

	// PanicHandler is called when a task panics, after the panic has been
	// recovered and logged.
	PanicHandler func(task Task, recovered interface{})

	// OnTaskComplete is called after every task, success or failure.
	OnTaskComplete func(result Result)
}

// workerPool implements the Pool interface.
type workerPool struct {
	config Config
	name   string
	log    zerolog.Logger

	queue   *Queue
	workers []*TaskWorker
	stopChs []chan struct{}

	mu           sync.Mutex // orders Start against Shutdown
	started      atomic.Bool
	shutdownOnce sync.Once
	stopOnce     sync.Once
	done         chan struct{}
	workerWg     sync.WaitGroup

	activeWorkers  atomic.Int32
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64
	totalFailed    atomic.Int64
}

// New creates a worker pool with the specified number of workers and queue
// size. It panics on invalid arguments; use NewSafe to get an error instead.
func New(name string, workerCount, queueSize int) Pool {
	pool, err := NewSafe(name, workerCount, queueSize)
	if err != nil {
		panic(err)
	}
	return pool
}

// NewSafe creates a worker pool, validating its arguments.
func NewSafe(name string, workerCount, queueSize int) (Pool, error) {
	return NewWithConfigSafe(Config{
		Name:        name,
		WorkerCount: workerCount,
		QueueSize:   queueSize,
	})
}

// NewWithConfig creates a worker pool with the specified configuration.
// It panics on invalid configuration.
func NewWithConfig(config Config) Pool {
	pool, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return pool
}

// NewWithConfigSafe creates a worker pool with the specified configuration.
// Workers are allocated but idle until Start.
func NewWithConfigSafe(config Config) (Pool, error) {
	if err := validation.ValidatePositive("workerpool", "workerCount", config.WorkerCount); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("workerpool", "queueSize", config.QueueSize); err != nil {
		return nil, err
	}

	name := config.Name
	if name == "" {
		name = DefaultName
	}

	seq := config.Sequence
	if seq == nil {
		seq = lifecycle.NewSequence(0)
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}
	log = log.With().Str("pool", name).Logger()

	pool := &workerPool{
		config: config,
		name:   name,
		log:    log,
		queue:  NewQueue(config.QueueSize),
		done:   make(chan struct{}),
	}

	pool.workers = make([]*TaskWorker, config.WorkerCount)
	pool.stopChs = make([]chan struct{}, config.WorkerCount)
	for i := range pool.workers {
		pool.workers[i] = newTaskWorker(seq.Next(), pool)
		pool.stopChs[i] = make(chan struct{})
	}

	return pool, nil
}
