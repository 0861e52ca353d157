package cycle

import (
	"sync"

	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
)

// Status is one entry of a Pool snapshot.
type Status struct {
	Name  string          `json:"name"`
	State lifecycle.State `json:"state"`
}

// Pool is a registry of cycle workers used for aggregate status reports.
// It does not own the workers: starting, stopping and shutting them down
// stays with the caller.
type Pool struct {
	mu      sync.RWMutex
	workers []*Worker
}

// NewPool creates an empty Pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add registers w. Registering the same worker twice lists it twice.
func (p *Pool) Add(w *Worker) {
	if w == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.workers = append(p.workers, w)
}

// Statuses returns the name and state of every worker in registration
// order. Each state is read independently, so the snapshot is not atomic
// across workers.
func (p *Pool) Statuses() []Status {
	workers := p.Workers()
	out := make([]Status, 0, len(workers))
	for _, w := range workers {
		out = append(out, Status{Name: w.Name(), State: w.State()})
	}
	return out
}

// Workers returns the registered workers in registration order.
func (p *Pool) Workers() []*Worker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Worker, len(p.workers))
	copy(out, p.workers)
	return out
}

// Lookup returns the first registered worker named name.
func (p *Pool) Lookup(name string) (*Worker, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, w := range p.workers {
		if w.name == name {
			return w, true
		}
	}
	return nil, false
}

// Len returns the number of registered workers.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.workers)
}
