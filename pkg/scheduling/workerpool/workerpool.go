package workerpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
)

// Start launches all workers.
func (p *workerPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.Closed() {
		return fmt.Errorf("cannot start pool %q: %w", p.name, cferrors.ErrClosed)
	}
	if !p.started.CompareAndSwap(false, true) {
		return fmt.Errorf("cannot start pool %q: %w", p.name, cferrors.ErrAlreadyStarted)
	}

	p.launchLocked()
	p.log.Info().Int("workers", len(p.workers)).Msg("worker pool started")
	return nil
}

func (p *workerPool) launchLocked() {
	p.workerWg.Add(len(p.workers))
	for i, w := range p.workers {
		go func(w *TaskWorker, stop <-chan struct{}) {
			defer p.workerWg.Done()
			w.Run(stop)
		}(w, p.stopChs[i])
	}
}

// Submit adds a task to the pool for execution.
func (p *workerPool) Submit(task Task) error {
	return p.SubmitWithContext(context.Background(), task)
}

// SubmitWithTimeout submits a task with a timeout for queuing.
func (p *workerPool) SubmitWithTimeout(task Task, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return asTimeout(p.SubmitWithContext(ctx, task))
}

// asTimeout marks an expired submit deadline as ErrTimeout.
func asTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", cferrors.ErrTimeout, err)
	}
	return err
}

// SubmitWithContext adds a task to the pool. The context bounds only the
// wait for queue space, not the task's execution.
func (p *workerPool) SubmitWithContext(ctx context.Context, task Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := p.queue.Put(ctx, task); err != nil {
		p.log.Debug().Err(err).Msg("task not enqueued")
		return fmt.Errorf("cannot submit task: %w", err)
	}

	p.totalSubmitted.Add(1)
	return nil
}

// Shutdown initiates a graceful shutdown of the pool. A pool that was
// never started launches its workers to drain the tasks it accepted.
func (p *workerPool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.queue.Close()
		if p.started.CompareAndSwap(false, true) && p.queue.Len() > 0 {
			p.launchLocked()
		}
		p.mu.Unlock()
		p.log.Info().Int("queued", p.queue.Len()).Msg("worker pool shutting down")

		go func() {
			p.workerWg.Wait()
			p.stopWorkers()
			p.log.Info().Msg("worker pool stopped")
			close(p.done)
		}()
	})

	return p.done
}

// ShutdownWithTimeout shuts down the pool, forcing workers to exit if the
// queue has not drained within timeout.
func (p *workerPool) ShutdownWithTimeout(timeout time.Duration) <-chan struct{} {
	done := p.Shutdown()

	go func() {
		select {
		case <-done:
		case <-time.After(timeout):
			p.log.Warn().Dur("timeout", timeout).Int("abandoned", p.queue.Len()).
				Msg("worker pool shutdown timed out, canceling workers")
			p.stopWorkers()
		}
	}()

	return done
}

func (p *workerPool) stopWorkers() {
	p.stopOnce.Do(func() {
		for _, ch := range p.stopChs {
			close(ch)
		}
	})
}

// Name returns the pool name.
func (p *workerPool) Name() string {
	return p.name
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return len(p.workers)
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *workerPool) QueueSize() int {
	return p.queue.Len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *workerPool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *workerPool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *workerPool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}

// TotalFailed returns the total number of tasks that failed.
func (p *workerPool) TotalFailed() int64 {
	return p.totalFailed.Load()
}
