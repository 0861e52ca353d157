/*
Package workerpool provides a fixed-size worker pool draining a shared FIFO
task queue.

A pool owns one Queue and a fixed number of TaskWorkers created at
construction. Workers stay idle until Start; tasks submitted before Start are
queued and picked up once workers run.

Basic usage:

	pool := workerpool.New("mailer", 4, 100) // 4 workers, queue size 100
	if err := pool.Start(); err != nil {
		return err
	}
	defer func() { <-pool.Shutdown() }()

	task := workerpool.TaskFunc(func(ctx context.Context) error {
		return send(ctx, msg)
	})

	if err := pool.Submit(task); err != nil {
		// not enqueued: pool closed or submit context done
	}

Guarantees:

  - Queue order is strict FIFO; tasks are never duplicated or dropped.
  - Every task accepted by Submit is executed exactly once by exactly one
    worker, as long as the pool is not forced down by ShutdownWithTimeout.
  - A task that returns an error or panics is logged and counted; the worker
    keeps running.
  - There is no priority and no cancellation of individual tasks.

Queue:

Queue can be used on its own. Put blocks while a bounded queue is full and
Take blocks while it is empty; both abort when their context is done:

	q := workerpool.NewQueue(10)
	if err := q.Put(ctx, task); err != nil {
		// not enqueued
	}
	task, err := q.Take(ctx)

Close rejects further Puts; Takes drain what is left and then return
errors.ErrClosed.

Metrics:

MetricsPool decorates any Pool with Prometheus collectors from pkg/metrics:

	pool := workerpool.NewWithConfigAndMetrics(
		workerpool.Config{Name: "mailer", WorkerCount: 4},
		metrics.Config{Enabled: true, Registry: reg},
	)

Shutdown:

Shutdown closes the queue and lets workers drain it. ShutdownWithTimeout
additionally cancels in-flight task contexts and abandons queued tasks once
the timeout passes.
*/
package workerpool
