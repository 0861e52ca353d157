package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), TestTimeout)
}

// NewMockClock creates a quartz mock clock bound to t.
func NewMockClock(t testing.TB) *quartz.Mock {
	t.Helper()
	return quartz.NewMock(t)
}

// WaitFor polls cond until it returns true or TestTimeout passes.
func WaitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(TestTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// WaitClosed fails the test if ch is not closed within TestTimeout.
func WaitClosed(t *testing.T, what string, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(TestTimeout):
		t.Fatalf("timed out waiting for %s", what)
	}
}
