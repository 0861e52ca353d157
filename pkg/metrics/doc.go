// Package metrics provides Prometheus instrumentation for cycleflow components.
//
// # Overview
//
// The metrics package instruments:
//   - Worker pools (submitted, rejected, completed and failed tasks, queue
//     wait, pool size, active workers, queued tasks)
//   - Cycle workers (runs by trigger, failures, run duration, lifecycle
//     state, configured period, handled commands)
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewRegistry(reg)
//
//	pool := workerpool.NewWithConfigAndMetrics(
//		workerpool.Config{Name: "mailer", WorkerCount: 4},
//		metrics.Config{Enabled: true, Registry: reg},
//	)
//	worker := cycle.New(time.Minute, action, cycle.WithMetrics(m))
//
// # Available Metrics
//
//   - cycleflow_workerpool_tasks_submitted_total
//   - cycleflow_workerpool_tasks_rejected_total
//   - cycleflow_workerpool_tasks_completed_total
//   - cycleflow_workerpool_tasks_failed_total
//   - cycleflow_workerpool_task_duration_seconds
//   - cycleflow_workerpool_task_queue_wait_seconds
//   - cycleflow_workerpool_size
//   - cycleflow_workerpool_active_workers
//   - cycleflow_workerpool_queued_tasks
//   - cycleflow_cycle_runs_total
//   - cycleflow_cycle_failures_total
//   - cycleflow_cycle_run_duration_seconds
//   - cycleflow_cycle_state
//   - cycleflow_cycle_period_seconds
//   - cycleflow_cycle_commands_total
package metrics
