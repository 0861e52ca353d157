package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	cfcontext "github.com/vnykmshr/cycleflow/pkg/common/context"
	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
)

// TaskWorker takes tasks from its pool's queue and executes them one at a
// time on its own goroutine.
type TaskWorker struct {
	id   int
	name string
	pool *workerPool
	log  zerolog.Logger
}

var _ lifecycle.Runner = (*TaskWorker)(nil)

func newTaskWorker(id int, pool *workerPool) *TaskWorker {
	name := lifecycle.WorkerName(pool.name, id)
	return &TaskWorker{
		id:   id,
		name: name,
		pool: pool,
		log:  pool.log.With().Str("worker", name).Logger(),
	}
}

// ID returns the worker ID.
func (w *TaskWorker) ID() int {
	return w.id
}

// Name returns the worker display name.
func (w *TaskWorker) Name() string {
	return w.name
}

// Run executes tasks until stop is closed or the queue is closed and drained.
// Task failures never end the loop.
func (w *TaskWorker) Run(stop <-chan struct{}) {
	ctx, cancel := cfcontext.WithStop(context.Background(), stop)
	defer cancel()

	w.log.Debug().Msg("task worker started")
	defer w.log.Debug().Msg("task worker finished")

	for {
		task, err := w.pool.queue.Take(ctx)
		if err != nil {
			if errors.Is(err, cferrors.ErrClosed) || cfcontext.IsStopped(stop) {
				return
			}
			w.log.Warn().Err(err).Msg("failed to take task from queue")
			continue
		}
		w.execute(ctx, task)
	}
}

// execute runs a single task, containing errors and panics.
func (w *TaskWorker) execute(ctx context.Context, task Task) {
	p := w.pool
	start := time.Now()
	var err error

	p.activeWorkers.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
			w.log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("task panicked")
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(task, r)
			}
		}
		p.activeWorkers.Add(-1)

		duration := time.Since(start)
		if err != nil {
			p.totalFailed.Add(1)
			if cfcontext.IsCanceled(ctx) {
				w.log.Warn().Err(err).Dur("duration", duration).Msg("task canceled by forced shutdown")
			} else {
				w.log.Error().Err(err).Dur("duration", duration).Msg("task failed")
			}
		} else {
			p.totalCompleted.Add(1)
		}

		if p.config.OnTaskComplete != nil {
			p.config.OnTaskComplete(Result{
				Task:     task,
				Error:    err,
				Duration: duration,
				Worker:   w.name,
			})
		}
	}()

	err = task.Execute(ctx)
}
