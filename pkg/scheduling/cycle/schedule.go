package cycle

import (
	"time"

	cfcontext "github.com/vnykmshr/cycleflow/pkg/common/context"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
)

// driver runs one schedule of a Worker: an immediate run, then one run per
// period measured from the schedule start.
type driver struct {
	worker *Worker
	period time.Duration
}

var _ lifecycle.Runner = (*driver)(nil)

// Run blocks until stop is closed. The ticker holds at most one pending
// tick, so a run that overruns the period is followed by a single run
// rather than a burst.
func (d *driver) Run(stop <-chan struct{}) {
	ticker := d.worker.clock.NewTicker(d.period, "cycle", "schedule")
	defer ticker.Stop()

	d.tick(stop)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.tick(stop)
		}
	}
}

func (d *driver) tick(stop <-chan struct{}) {
	d.worker.execMu.Lock()
	defer d.worker.execMu.Unlock()

	// A schedule canceled while waiting on a previous run never fires.
	if cfcontext.IsStopped(stop) {
		return
	}
	d.worker.run(triggerTick)
}
