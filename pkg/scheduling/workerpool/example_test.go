package workerpool_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
)

func Example() {
	pool := workerpool.New("example", 3, 10)
	if err := pool.Start(); err != nil {
		fmt.Println(err)
		return
	}

	var processed int32
	for i := 0; i < 5; i++ {
		task := workerpool.TaskFunc(func(ctx context.Context) error {
			atomic.AddInt32(&processed, 1)
			return nil
		})
		if err := pool.Submit(task); err != nil {
			fmt.Println(err)
		}
	}

	<-pool.Shutdown()
	fmt.Printf("processed %d tasks\n", atomic.LoadInt32(&processed))

	// Output:
	// processed 5 tasks
}

func ExampleQueue() {
	q := workerpool.NewQueue(0)
	ctx := context.Background()

	for _, name := range []string{"first", "second"} {
		name := name
		_ = q.Put(ctx, workerpool.TaskFunc(func(context.Context) error {
			fmt.Println(name)
			return nil
		}))
	}
	q.Close()

	for {
		task, err := q.Take(ctx)
		if err != nil {
			break
		}
		_ = task.Execute(ctx)
	}

	// Output:
	// first
	// second
}
