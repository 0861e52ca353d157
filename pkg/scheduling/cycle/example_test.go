package cycle_test

import (
	"context"
	"fmt"
	"time"

	"github.com/vnykmshr/cycleflow/pkg/scheduling/command"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/cycle"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/workerpool"
)

func Example() {
	w := cycle.New(time.Hour, workerpool.TaskFunc(func(context.Context) error {
		return nil
	}), cycle.WithName("Reporter"))
	defer w.Shutdown(context.Background())

	resp, _ := w.Start()
	fmt.Println(resp)
	resp, _ = w.Start()
	fmt.Println(resp)
	resp, _ = w.UpdatePeriod(30 * time.Minute)
	fmt.Println(resp)
	resp, _ = w.Stop()
	fmt.Println(resp)

	// Output:
	// 210: Worker started.
	// 212: Worker already started.
	// 219: Worker restarted with new duration
	// 213: Worker stopped.
}

func ExampleWorker_HandleRequest() {
	w := cycle.New(time.Hour, workerpool.TaskFunc(func(context.Context) error {
		return nil
	}))
	defer w.Shutdown(context.Background())

	resp, _ := w.HandleRequest(command.New("duration", "5M"))
	fmt.Println(resp.Code, resp.State, w.Period())

	resp, err := w.HandleRequest(command.New("duration", "5W"))
	fmt.Println(resp.Code, err != nil)

	// Output:
	// 218 WORKING 5m0s
	// -203 true
}

func ExamplePool() {
	pool := cycle.NewPool()
	for _, name := range []string{"Sync", "Cleanup"} {
		w := cycle.New(time.Hour, workerpool.TaskFunc(func(context.Context) error {
			return nil
		}), cycle.WithName(name))
		defer w.Shutdown(context.Background())
		pool.Add(w)
	}

	w, _ := pool.Lookup("Sync")
	_, _ = w.Start()

	for _, s := range pool.Statuses() {
		fmt.Println(s.Name, s.State)
	}

	// Output:
	// Sync WORKING
	// Cleanup NONE
}
