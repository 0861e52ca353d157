package workerpool

import (
	"context"
	"fmt"
	"sync"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
)

// Queue is a FIFO of tasks shared by many producers and many consumers.
// A capacity of 0 means unbounded.
type Queue struct {
	mu       sync.Mutex
	items    []Task
	head     int
	capacity int
	closed   bool

	// Closed and replaced on every state change waiters care about.
	notEmpty chan struct{}
	notFull  chan struct{}
}

// NewQueue creates a queue holding at most capacity tasks, or any number
// of tasks when capacity is 0.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{
		capacity: capacity,
		notEmpty: make(chan struct{}),
		notFull:  make(chan struct{}),
	}
}

// Put appends task to the tail, blocking while the queue is full. It fails
// if ctx is done before space frees up or the queue is closed; a failed Put
// did not enqueue the task.
func (q *Queue) Put(ctx context.Context, task Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("queue put canceled: %w", err)
	}

	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return cferrors.ErrClosed
		}
		if q.capacity == 0 || q.lenLocked() < q.capacity {
			q.items = append(q.items, task)
			broadcast(&q.notEmpty)
			q.mu.Unlock()
			return nil
		}
		wait := q.notFull
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return fmt.Errorf("queue put canceled: %w", ctx.Err())
		}
	}
}

// Take removes and returns the head, blocking while the queue is empty.
// After Close, remaining tasks are still returned; once drained Take
// returns ErrClosed. A canceled ctx means no task was obtained.
func (q *Queue) Take(ctx context.Context) (Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("queue take canceled: %w", err)
	}

	for {
		q.mu.Lock()
		if q.lenLocked() > 0 {
			task := q.items[q.head]
			q.items[q.head] = nil
			q.head++
			q.compactLocked()
			if q.capacity > 0 {
				broadcast(&q.notFull)
			}
			q.mu.Unlock()
			return task, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, cferrors.ErrClosed
		}
		wait := q.notEmpty
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, fmt.Errorf("queue take canceled: %w", ctx.Err())
		}
	}
}

// Close stops accepting tasks and wakes every blocked caller. It is safe to
// call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	broadcast(&q.notEmpty)
	broadcast(&q.notFull)
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// Cap returns the capacity, 0 for unbounded.
func (q *Queue) Cap() int {
	return q.capacity
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) lenLocked() int {
	return len(q.items) - q.head
}

// compactLocked reclaims the consumed prefix of items.
func (q *Queue) compactLocked() {
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= 64 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		for i := n; i < len(q.items); i++ {
			q.items[i] = nil
		}
		q.items = q.items[:n]
		q.head = 0
	}
}

func broadcast(ch *chan struct{}) {
	close(*ch)
	*ch = make(chan struct{})
}
