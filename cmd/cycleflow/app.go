package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/cycleflow/internal/config"
	"github.com/vnykmshr/cycleflow/pkg/metrics"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/command"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/cycle"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
)

const (
	requestStatuses = "statuses"
	requestMetrics  = "metrics"

	submitTimeout = time.Second
)

// app wires configured pools and cycle workers together.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	clock    quartz.Clock
	gatherer prometheus.Gatherer

	pools   map[string]workerpool.Pool
	order   []string
	cycles  *cycle.Pool
	beatsFn func(cycleName string) // observes heartbeats, set by tests
}

// line is one inbound JSON command.
type line struct {
	Worker string `json:"worker,omitempty"`
	command.Request
}

// reply is one outbound JSON line.
type reply struct {
	Worker   string          `json:"worker,omitempty"`
	Response *cycle.Response `json:"response,omitempty"`
	Statuses []cycle.Status  `json:"statuses,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	return newAppWithClock(cfg, log, quartz.NewReal())
}

func newAppWithClock(cfg *config.Config, log zerolog.Logger, clock quartz.Clock) (*app, error) {
	a := &app{
		cfg:      cfg,
		log:      log,
		clock:    clock,
		gatherer: prometheus.DefaultGatherer,
		pools:    make(map[string]workerpool.Pool, len(cfg.Pools)),
		cycles:   cycle.NewPool(),
	}

	var registry *metrics.Registry
	mcfg := metrics.Config{Enabled: cfg.Metrics.Enabled}
	if mcfg.Enabled {
		registry = mcfg.Resolve()
	}

	seq := lifecycle.NewSequence(0)
	for _, pc := range cfg.Pools {
		pool, err := workerpool.NewWithConfigSafe(workerpool.Config{
			Name:        pc.Name,
			WorkerCount: pc.Workers,
			QueueSize:   pc.QueueSize,
			Sequence:    seq,
			Logger:      &log,
		})
		if err != nil {
			return nil, fmt.Errorf("pool %q: %w", pc.Name, err)
		}
		if registry != nil {
			pool = workerpool.WithMetrics(pool, mcfg)
		}
		a.pools[pc.Name] = pool
		a.order = append(a.order, pc.Name)
	}

	for _, cc := range cfg.Cycles {
		period, err := cc.Interval()
		if err != nil {
			return nil, fmt.Errorf("cycle %q: %w", cc.Name, err)
		}
		opts := []cycle.Option{
			cycle.WithName(cc.Name),
			cycle.WithClock(clock),
			cycle.WithLogger(log),
		}
		if registry != nil {
			opts = append(opts, cycle.WithMetrics(registry))
		}
		w, err := cycle.NewSafe(period, a.heartbeat(cc), opts...)
		if err != nil {
			return nil, fmt.Errorf("cycle %q: %w", cc.Name, err)
		}
		a.cycles.Add(w)
	}
	return a, nil
}

// heartbeat builds the cycle action: it hands a task to the cycle's pool
// and returns once the task is queued.
func (a *app) heartbeat(cc config.CycleConfig) workerpool.Task {
	name := cc.Name
	poolName := cc.Pool
	return workerpool.TaskFunc(func(ctx context.Context) error {
		pool := a.pools[poolName]
		task := workerpool.TaskFunc(func(context.Context) error {
			a.log.Info().Str("cycle", name).Str("pool", poolName).Msg("heartbeat")
			if a.beatsFn != nil {
				a.beatsFn(name)
			}
			return nil
		})
		return pool.SubmitWithTimeout(task, submitTimeout)
	})
}

func (a *app) start() error {
	for _, name := range a.order {
		if err := a.pools[name].Start(); err != nil {
			return fmt.Errorf("pool %q: %w", name, err)
		}
	}
	for i, cc := range a.cfg.Cycles {
		if !cc.Autostart {
			continue
		}
		w := a.cycles.Workers()[i]
		if _, err := w.Start(); err != nil {
			return fmt.Errorf("cycle %q: %w", cc.Name, err)
		}
	}
	a.log.Info().Int("pools", len(a.pools)).Int("cycles", a.cycles.Len()).Msg("cycleflow started")
	return nil
}

// serve handles one command per input line until EOF or ctx is done.
func (a *app) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			a.log.Info().Msg("interrupted")
			return nil
		case text, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			if err := a.handleLine(text, enc, out); err != nil {
				return err
			}
		}
	}
}

func (a *app) handleLine(text string, enc *json.Encoder, out io.Writer) error {
	var l line
	if err := json.Unmarshal([]byte(text), &l); err != nil {
		return enc.Encode(reply{Error: fmt.Sprintf("malformed command: %v", err)})
	}

	if l.Request.Request != nil {
		switch strings.ToLower(strings.TrimSpace(*l.Request.Request)) {
		case requestStatuses:
			return enc.Encode(reply{Statuses: a.cycles.Statuses()})
		case requestMetrics:
			return a.writeMetrics(out)
		}
	}

	w, ok := a.cycles.Lookup(l.Worker)
	if !ok {
		return enc.Encode(reply{Worker: l.Worker, Error: "unknown worker"})
	}

	resp, err := w.HandleRequest(l.Request)
	r := reply{Worker: l.Worker, Response: &resp}
	if err != nil {
		var failure *command.ValidationFailure
		if !errors.As(err, &failure) {
			r.Response = nil
		}
		r.Error = err.Error()
	}
	return enc.Encode(r)
}

func (a *app) writeMetrics(out io.Writer) error {
	families, err := a.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "cycleflow_") {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

// shutdown stops every cycle worker, then drains every pool.
func (a *app) shutdown(ctx context.Context) error {
	var errs []error
	for _, w := range a.cycles.Workers() {
		if err := w.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range a.order {
		select {
		case <-a.pools[name].Shutdown():
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("pool %q: %w", name, ctx.Err()))
		}
	}
	a.log.Info().Msg("cycleflow stopped")
	return errors.Join(errs...)
}
