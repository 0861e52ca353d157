package benchmark

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
)

func newStartedPool(b *testing.B, config workerpool.Config) workerpool.Pool {
	b.Helper()
	pool, err := workerpool.NewWithConfigSafe(config)
	if err != nil {
		b.Fatalf("failed to create pool: %v", err)
	}
	if err := pool.Start(); err != nil {
		b.Fatalf("failed to start pool: %v", err)
	}
	return pool
}

var noop = workerpool.TaskFunc(func(_ context.Context) error {
	return nil
})

// BenchmarkWorkerPoolSubmit measures task submission performance.
func BenchmarkWorkerPoolSubmit(b *testing.B) {
	for _, workers := range []int{2, 4, 8} {
		b.Run(fmt.Sprintf("%dworkers", workers), func(b *testing.B) {
			pool := newStartedPool(b, workerpool.Config{WorkerCount: workers, QueueSize: 1000})
			defer func() { <-pool.Shutdown() }()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = pool.Submit(noop)
			}
		})
	}
}

// BenchmarkWorkerPoolThroughput measures end-to-end task execution.
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	var completed atomic.Int64
	pool := newStartedPool(b, workerpool.Config{
		WorkerCount:    4,
		QueueSize:      100,
		OnTaskComplete: func(workerpool.Result) { completed.Add(1) },
	})
	defer func() { <-pool.Shutdown() }()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.Submit(noop)
	}

	for completed.Load() < int64(b.N) {
		time.Sleep(time.Microsecond)
	}
}

// BenchmarkWorkerPoolContention measures submission from many producers.
func BenchmarkWorkerPoolContention(b *testing.B) {
	for _, queue := range []int{0, 500} {
		b.Run(fmt.Sprintf("q%d", queue), func(b *testing.B) {
			pool := newStartedPool(b, workerpool.Config{WorkerCount: 8, QueueSize: queue})
			defer func() { <-pool.Shutdown() }()

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					_ = pool.Submit(noop)
				}
			})
		})
	}
}

// BenchmarkWorkerPoolWithWork measures throughput when tasks take time.
func BenchmarkWorkerPoolWithWork(b *testing.B) {
	for _, work := range []time.Duration{0, time.Microsecond, 10 * time.Microsecond} {
		b.Run(work.String(), func(b *testing.B) {
			var completed atomic.Int64
			pool := newStartedPool(b, workerpool.Config{
				WorkerCount:    4,
				QueueSize:      100,
				OnTaskComplete: func(workerpool.Result) { completed.Add(1) },
			})
			defer func() { <-pool.Shutdown() }()

			task := workerpool.TaskFunc(func(_ context.Context) error {
				if work > 0 {
					time.Sleep(work)
				}
				return nil
			})

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = pool.Submit(task)
			}
			for completed.Load() < int64(b.N) {
				time.Sleep(time.Microsecond)
			}
		})
	}
}

// BenchmarkWorkerPoolShutdown measures draining a small backlog.
func BenchmarkWorkerPoolShutdown(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		pool := newStartedPool(b, workerpool.Config{WorkerCount: 4, QueueSize: 100})
		for j := 0; j < 10; j++ {
			_ = pool.Submit(noop)
		}
		<-pool.Shutdown()
	}
}
