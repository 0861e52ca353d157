package lifecycle

import (
	"fmt"
	"sync/atomic"
)

// Runner is a long-lived unit of work that executes until stop is closed.
// Run blocks; callers start it on its own goroutine.
type Runner interface {
	Run(stop <-chan struct{})
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(stop <-chan struct{})

// Run implements Runner.
func (f RunnerFunc) Run(stop <-chan struct{}) {
	f(stop)
}

// Sequence hands out increasing worker IDs. It is scoped to whoever
// constructs it; share one Sequence between pools to get unique IDs
// across them. The zero value starts at 0.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a Sequence whose first ID is start.
func NewSequence(start int) *Sequence {
	s := &Sequence{}
	s.next.Store(int64(start))
	return s
}

// Next returns the next ID.
func (s *Sequence) Next() int {
	return int(s.next.Add(1) - 1)
}

// WorkerName formats a worker display name as "base [id]".
func WorkerName(base string, id int) string {
	return fmt.Sprintf("%s [%d]", base, id)
}
