package testutil

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAction is returned by a Recorder configured to fail.
var ErrAction = errors.New("action failed")

// Recorder is a task body that records every run. It can be told to fail,
// panic, or block until released.
type Recorder struct {
	mu      sync.Mutex
	runs    []time.Time
	running int
	maxRun  int
	fail    bool
	panic   bool
	gate    chan struct{}
	started chan struct{}
}

// NewRecorder creates a Recorder that succeeds immediately.
func NewRecorder() *Recorder {
	return &Recorder{started: make(chan struct{}, 1024)}
}

// FailWith makes every run return ErrAction.
func (r *Recorder) FailWith() *Recorder {
	r.fail = true
	return r
}

// Panicking makes every run panic.
func (r *Recorder) Panicking() *Recorder {
	r.panic = true
	return r
}

// Blocking makes every run wait until Release is called.
func (r *Recorder) Blocking() *Recorder {
	r.gate = make(chan struct{})
	return r
}

// Release unblocks current and future runs of a blocking Recorder.
func (r *Recorder) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gate != nil {
		select {
		case <-r.gate:
		default:
			close(r.gate)
		}
	}
}

// Run is the recorded body. Its signature matches workerpool.TaskFunc.
func (r *Recorder) Run(ctx context.Context) error {
	r.mu.Lock()
	r.runs = append(r.runs, time.Now())
	r.running++
	if r.running > r.maxRun {
		r.maxRun = r.running
	}
	gate := r.gate
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running--
		r.mu.Unlock()
	}()

	select {
	case r.started <- struct{}{}:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if r.panic {
		panic("recorder panic")
	}
	if r.fail {
		return ErrAction
	}
	return nil
}

// Count returns the number of runs started so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

// Runs returns the start time of every run.
func (r *Recorder) Runs() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Time, len(r.runs))
	copy(out, r.runs)
	return out
}

// Running returns the number of runs in progress.
func (r *Recorder) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// MaxConcurrent returns the highest number of simultaneous runs observed.
func (r *Recorder) MaxConcurrent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxRun
}

// Started receives once per run start, up to its buffer.
func (r *Recorder) Started() <-chan struct{} {
	return r.started
}
