/*
Package scheduling groups the task execution and scheduling primitives.

  - workerpool: Fixed worker pool draining one shared FIFO queue
  - cycle: Periodic worker driven by lifecycle commands, and a status registry
  - lifecycle: Worker states, the command transition table and ID sequences
  - command: Parsing and validation of inbound command requests

Worker Pool:

	pool := workerpool.New("Indexer", 4, 100) // 4 workers, queue size 100
	if err := pool.Start(); err != nil {
		return err
	}
	defer func() { <-pool.Shutdown() }()

	pool.Submit(workerpool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	}))

Cycle Worker:

	w := cycle.New(30*time.Second, refresh, cycle.WithName("Refresher"))
	defer w.Shutdown(ctx)

	w.Start()                   // runs now, then every 30s
	w.UpdatePeriod(time.Minute) // restarts with the new period
	w.Invoke()                  // one extra run, schedule untouched
	w.Stop()                    // in-flight run completes

All components are safe for concurrent use.
*/
package scheduling
