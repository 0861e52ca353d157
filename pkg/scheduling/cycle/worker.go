package cycle

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
	"github.com/vnykmshr/cycleflow/pkg/common/validation"
	"github.com/vnykmshr/cycleflow/pkg/metrics"
	"github.com/vnykmshr/cycleflow/pkg/result"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/command"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
)

// DefaultName is used when no WithName option is given.
const DefaultName = "Cycle Worker"

const (
	triggerTick   = "tick"
	triggerInvoke = "invoke"
)

// Option configures a Worker.
type Option func(*options)

type options struct {
	name     string
	clock    quartz.Clock
	logger   zerolog.Logger
	registry *metrics.Registry
	sequence *lifecycle.Sequence
}

// WithName sets the worker display name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithClock sets the clock driving the schedule. Tests pass a quartz.Mock.
func WithClock(clock quartz.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger for commands and action failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records runs, failures and commands in registry.
func WithMetrics(registry *metrics.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithSequence numbers the worker from seq, making its name "<name> [<id>]".
func WithSequence(seq *lifecycle.Sequence) Option {
	return func(o *options) {
		o.sequence = seq
	}
}

// Worker runs an action at a fixed rate, controlled by lifecycle commands.
//
// A Worker starts in StateNone and does nothing until START or DURATION.
// Scheduled runs never overlap; INVOKE runs the action once on its own
// goroutine and may overlap a scheduled run.
type Worker struct {
	name    string
	action  workerpool.Task
	clock   quartz.Clock
	log     zerolog.Logger
	metrics *metrics.Registry

	mu       sync.Mutex // serializes commands
	period   time.Duration
	schedule chan struct{} // stop channel of the active schedule, nil unless WORKING
	closed   bool

	state  atomic.Int32
	execMu sync.Mutex // serializes scheduled runs
	wg     sync.WaitGroup
}

// New creates a Worker. It panics on invalid arguments; use NewSafe to get
// an error instead.
func New(period time.Duration, action workerpool.Task, opts ...Option) *Worker {
	w, err := NewSafe(period, action, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// NewSafe creates a Worker in StateNone. The action does not run until
// START or DURATION.
func NewSafe(period time.Duration, action workerpool.Task, opts ...Option) (*Worker, error) {
	if err := validation.ValidatePositiveDuration("cycle", "period", period); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotNil("cycle", "action", action); err != nil {
		return nil, err
	}

	o := options{name: DefaultName, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = DefaultName
	}
	if o.clock == nil {
		o.clock = quartz.NewReal()
	}

	name := o.name
	if o.sequence != nil {
		name = lifecycle.WorkerName(o.name, o.sequence.Next())
	}

	w := &Worker{
		name:    name,
		action:  action,
		clock:   o.clock,
		log:     o.logger.With().Str("worker", name).Logger(),
		metrics: o.registry,
		period:  period,
	}
	w.recordState(lifecycle.StateNone)
	return w, nil
}

// Name returns the worker display name.
func (w *Worker) Name() string {
	return w.name
}

// State returns the current lifecycle state without waiting for a command
// in progress.
func (w *Worker) State() lifecycle.State {
	return lifecycle.State(w.state.Load())
}

// Period returns the configured period.
func (w *Worker) Period() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.period
}

// Start begins the schedule from NONE or resumes it from STOPPED.
func (w *Worker) Start() (Response, error) {
	return w.apply(lifecycle.CommandStart, 0)
}

// Stop cancels the schedule. A run already in progress completes.
func (w *Worker) Stop() (Response, error) {
	return w.apply(lifecycle.CommandStop, 0)
}

// Invoke runs the action once, now, outside the schedule. It only has an
// effect while WORKING.
func (w *Worker) Invoke() (Response, error) {
	return w.apply(lifecycle.CommandInvoke, 0)
}

// UpdatePeriod sets a new period and (re)starts the schedule with it.
func (w *Worker) UpdatePeriod(period time.Duration) (Response, error) {
	if err := validation.ValidatePositiveDuration("cycle", "period", period); err != nil {
		return Response{Result: result.Exception, State: w.State()}, err
	}
	return w.apply(lifecycle.CommandDuration, period)
}

// Status reports the current state.
func (w *Worker) Status() (Response, error) {
	return w.apply(lifecycle.CommandStatus, 0)
}

// Handle applies a validated command.
func (w *Worker) Handle(cmd command.Command) (Response, error) {
	if cmd.Kind == lifecycle.CommandDuration {
		return w.UpdatePeriod(cmd.Period)
	}
	return w.apply(cmd.Kind, 0)
}

// HandleRequest validates req and applies it. Validation failures are
// reported in the Response with the worker's current state.
func (w *Worker) HandleRequest(req command.Request) (Response, error) {
	cmd, err := req.Validate()
	if err != nil {
		return Response{Result: command.ResultOf(err), State: w.State()}, err
	}
	return w.Handle(cmd)
}

// Shutdown cancels the schedule and waits for in-flight runs, scheduled or
// invoked, until ctx is done. Commands issued afterwards return ErrClosed.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		if w.schedule != nil {
			w.cancelLocked()
			w.setState(lifecycle.StateStopped)
		}
		w.log.Debug().Msg("cycle worker shut down")
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return cferrors.NewOperationError("cycle", "shutdown", ctx.Err()).WithContext(w.name)
	}
}

func (w *Worker) apply(kind lifecycle.Command, period time.Duration) (Response, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return Response{}, fmt.Errorf("cycle worker %q: %w", w.name, cferrors.ErrClosed)
	}

	step, err := lifecycle.Transition(w.State(), kind)
	if err != nil {
		w.log.Error().Err(err).Msg("rejected command")
		return Response{}, err
	}

	if kind == lifecycle.CommandDuration {
		w.period = period
		w.recordPeriod()
	}

	switch step.Action {
	case lifecycle.ActionSchedule:
		w.scheduleLocked()
	case lifecycle.ActionCancel:
		w.cancelLocked()
	case lifecycle.ActionReschedule:
		w.cancelLocked()
		w.scheduleLocked()
	case lifecycle.ActionInvoke:
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.run(triggerInvoke)
		}()
	}

	w.setState(step.Next)

	res := ResultFor(step.Outcome)
	if w.metrics != nil {
		w.metrics.CycleCommands.WithLabelValues(w.name, kind.String(), step.Outcome.String()).Inc()
	}
	if kind != lifecycle.CommandStatus {
		w.log.Info().
			Stringer("command", kind).
			Stringer("state", step.Next).
			Int("code", res.Code).
			Msg(res.Message)
	}
	return Response{Result: res, State: step.Next}, nil
}

func (w *Worker) scheduleLocked() {
	stop := make(chan struct{})
	w.schedule = stop
	d := &driver{worker: w, period: w.period}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		d.Run(stop)
	}()
}

func (w *Worker) cancelLocked() {
	if w.schedule != nil {
		close(w.schedule)
		w.schedule = nil
	}
}

func (w *Worker) setState(s lifecycle.State) {
	if lifecycle.State(w.state.Swap(int32(s))) != s {
		w.recordState(s)
	}
}

func (w *Worker) recordState(s lifecycle.State) {
	if w.metrics == nil {
		return
	}
	w.metrics.CycleState.WithLabelValues(w.name).Set(float64(s))
	w.metrics.CyclePeriod.WithLabelValues(w.name).Set(w.period.Seconds())
}

func (w *Worker) recordPeriod() {
	if w.metrics != nil {
		w.metrics.CyclePeriod.WithLabelValues(w.name).Set(w.period.Seconds())
	}
}

// run executes the action once, containing errors and panics.
func (w *Worker) run(trigger string) {
	start := w.clock.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
			w.log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("action panicked")
		}

		duration := w.clock.Since(start)
		switch {
		case err == nil:
		case cferrors.IsRetryable(err):
			w.log.Warn().Err(err).Str("trigger", trigger).Dur("duration", duration).Msg("action timed out")
		default:
			w.log.Error().Err(err).Str("trigger", trigger).Dur("duration", duration).Msg("action failed")
		}
		if w.metrics != nil {
			w.metrics.CycleRuns.WithLabelValues(w.name, trigger).Inc()
			w.metrics.CycleRunDuration.WithLabelValues(w.name).Observe(duration.Seconds())
			if err != nil {
				w.metrics.CycleFailures.WithLabelValues(w.name).Inc()
			}
		}
	}()

	err = w.action.Execute(context.Background())
}
