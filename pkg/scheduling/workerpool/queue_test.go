package workerpool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/cycleflow/internal/testutil"
	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
)

// idTask is a task identifiable by value.
type idTask int

func (idTask) Execute(context.Context) error { return nil }

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	for i := 0; i < 200; i++ {
		require.NoError(t, q.Put(ctx, idTask(i)))
	}
	assert.Equal(t, 200, q.Len())

	for i := 0; i < 200; i++ {
		task, err := q.Take(ctx)
		require.NoError(t, err)
		assert.Equal(t, idTask(i), task)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_InterleavedFIFO(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	next := 0
	for round := 0; round < 50; round++ {
		for i := 0; i < 3; i++ {
			require.NoError(t, q.Put(ctx, idTask(round*3+i)))
		}
		for i := 0; i < 2; i++ {
			task, err := q.Take(ctx)
			require.NoError(t, err)
			assert.Equal(t, idTask(next), task)
			next++
		}
	}
	assert.Equal(t, 50, q.Len())
}

func TestQueue_TakeBlocksUntilPut(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	got := make(chan Task, 1)
	go func() {
		task, err := q.Take(ctx)
		if err == nil {
			got <- task
		}
	}()

	select {
	case <-got:
		t.Fatal("Take returned before Put")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, q.Put(ctx, idTask(7)))

	select {
	case task := <-got:
		assert.Equal(t, idTask(7), task)
	case <-ctx.Done():
		t.Fatal("Take did not return after Put")
	}
}

func TestQueue_BoundedPutBlocks(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	require.NoError(t, q.Put(ctx, idTask(1)))

	putDone := make(chan error, 1)
	go func() { putDone <- q.Put(ctx, idTask(2)) }()

	select {
	case <-putDone:
		t.Fatal("Put on a full queue returned early")
	case <-time.After(20 * time.Millisecond):
	}

	task, err := q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, idTask(1), task)

	require.NoError(t, <-putDone)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, q.Cap())
}

func TestQueue_PutCanceled(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Put(context.Background(), idTask(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := q.Put(ctx, idTask(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, q.Len(), "failed Put must not enqueue")
}

func TestQueue_PreCanceled(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, q.Put(ctx, idTask(1)), context.Canceled)
	assert.Equal(t, 0, q.Len())

	_, err := q.Take(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_TakeCanceled(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	task, err := q.Take(ctx)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_NilTask(t *testing.T) {
	q := NewQueue(0)
	assert.Error(t, q.Put(context.Background(), nil))
}

func TestQueue_CloseDrainsThenFails(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	require.NoError(t, q.Put(ctx, idTask(1)))
	require.NoError(t, q.Put(ctx, idTask(2)))
	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.ErrorIs(t, q.Put(ctx, idTask(3)), cferrors.ErrClosed)

	for _, want := range []idTask{1, 2} {
		task, err := q.Take(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, task)
	}

	_, err := q.Take(ctx)
	assert.ErrorIs(t, err, cferrors.ErrClosed)
}

func TestQueue_CloseWakesBlocked(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	takeErr := make(chan error, 1)
	empty := NewQueue(0)
	go func() {
		_, err := empty.Take(ctx)
		takeErr <- err
	}()

	require.NoError(t, q.Put(ctx, idTask(1)))
	putErr := make(chan error, 1)
	go func() { putErr <- q.Put(ctx, idTask(2)) }()

	time.Sleep(10 * time.Millisecond)
	empty.Close()
	q.Close()

	assert.ErrorIs(t, <-takeErr, cferrors.ErrClosed)
	assert.ErrorIs(t, <-putErr, cferrors.ErrClosed)
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := NewQueue(8)
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	const producers, perProducer = 4, 250

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(p int) {
			defer pwg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Put(ctx, idTask(p*perProducer+i)); err != nil {
					t.Errorf("put: %v", err)
					return
				}
			}
		}(p)
	}

	var mu sync.Mutex
	seen := make(map[idTask]int)
	var cwg sync.WaitGroup
	for c := 0; c < 3; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				task, err := q.Take(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[task.(idTask)]++
				mu.Unlock()
			}
		}()
	}

	pwg.Wait()
	q.Close()
	cwg.Wait()

	assert.Len(t, seen, producers*perProducer)
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %d taken %d times", id, n)
	}
}
