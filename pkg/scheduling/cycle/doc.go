/*
Package cycle provides a fixed-rate periodic scheduler driven by lifecycle
commands, and a registry for reporting the status of many such workers.

A Worker wraps one action. It does nothing until it receives START or
DURATION; from then on the action runs immediately and then once per period,
measured from when the schedule began. Runs of one worker never overlap: a
run that takes longer than the period delays the next one, and any further
missed ticks are dropped.

	w := cycle.New(30*time.Second, workerpool.TaskFunc(refresh),
		cycle.WithName("Cache Refresher"),
		cycle.WithLogger(log),
	)
	defer w.Shutdown(context.Background())

	resp, _ := w.Start()                  // 210 Worker started.
	resp, _ = w.UpdatePeriod(time.Minute) // 219 Worker restarted with new duration
	resp, _ = w.Stop()                    // 213 Worker stopped.

Commands can also arrive as JSON requests:

	resp, err := w.HandleRequest(command.New("duration", "5M"))

Every command returns a Response carrying a result code and the state after
the command. Commands that do not apply to the current state, such as STOP
on a stopped worker, are reported through the Response, not as errors.

A Pool lists workers by name and state:

	pool := cycle.NewPool()
	pool.Add(w)
	for _, s := range pool.Statuses() {
		fmt.Println(s.Name, s.State)
	}
*/
package cycle
