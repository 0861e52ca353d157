/*
Package cycleflow provides in-process scheduling primitives: periodic
workers controlled by lifecycle commands, and fixed-size worker pools.

Task Scheduling (pkg/scheduling):
  - workerpool: FIFO task queue drained by a fixed set of workers
  - cycle: Fixed-rate periodic worker with START/STOP/INVOKE/DURATION/STATUS
  - lifecycle: The NONE -> WORKING <-> STOPPED state machine
  - command: Request validation and period parsing ("30S", "5M", "2H", "3D")

Supporting packages:
  - metrics: Prometheus collectors for pools and cycle workers
  - result: Code and message pairs reported by commands
  - common: Errors, validation, logging and context helpers

Example usage:

	import (
		"github.com/vnykmshr/cycleflow/pkg/scheduling/cycle"
		"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
	)

	pool := workerpool.New("Mailer", 4, 100) // 4 workers, queue 100
	pool.Start()
	defer func() { <-pool.Shutdown() }()

	w := cycle.New(time.Minute, workerpool.TaskFunc(func(ctx context.Context) error {
		return pool.Submit(sendDigest)
	}))
	w.Start()
	defer w.Shutdown(context.Background())
*/
package cycleflow
