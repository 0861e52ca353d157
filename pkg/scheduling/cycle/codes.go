package cycle

import (
	"github.com/vnykmshr/cycleflow/pkg/result"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
)

// Results reported by worker commands.
var (
	WorkerStarted           = result.Declare(210, "Worker started.")
	WorkerHasNotStarted     = result.Declare(211, "Worker not started yet.")
	WorkerAlreadyStarted    = result.Declare(212, "Worker already started.")
	WorkerStopped           = result.Declare(213, "Worker stopped.")
	WorkerRestarted         = result.Declare(214, "Worker restarted.")
	WorkerAlreadyStopped    = result.Declare(215, "Worker already stopped.")
	WorkerInvoked           = result.Declare(216, "Worker invoked.")
	WorkerCannotInvoke      = result.Declare(217, "Worker cannot Invoke, already stopped.")
	WorkerStartedDuration   = result.Declare(218, "Worker started with new duration")
	WorkerRestartedDuration = result.Declare(219, "Worker restarted with new duration")
	WorkerStatusNone        = result.Declare(220, "Worker is currently uninitialized.")
	WorkerStatusWorking     = result.Declare(221, "Worker is currently working.")
	WorkerStatusStopped     = result.Declare(223, "Worker is currently stopped.")
)

var outcomeResults = map[lifecycle.Outcome]result.Result{
	lifecycle.OutcomeStarted:               WorkerStarted,
	lifecycle.OutcomeNotStarted:            WorkerHasNotStarted,
	lifecycle.OutcomeAlreadyStarted:        WorkerAlreadyStarted,
	lifecycle.OutcomeStopped:               WorkerStopped,
	lifecycle.OutcomeRestarted:             WorkerRestarted,
	lifecycle.OutcomeAlreadyStopped:        WorkerAlreadyStopped,
	lifecycle.OutcomeInvoked:               WorkerInvoked,
	lifecycle.OutcomeCannotInvoke:          WorkerCannotInvoke,
	lifecycle.OutcomeStartedWithDuration:   WorkerStartedDuration,
	lifecycle.OutcomeRestartedWithDuration: WorkerRestartedDuration,
	lifecycle.OutcomeStatusNone:            WorkerStatusNone,
	lifecycle.OutcomeStatusWorking:         WorkerStatusWorking,
	lifecycle.OutcomeStatusStopped:         WorkerStatusStopped,
}

// ResultFor returns the result reported for an outcome.
func ResultFor(o lifecycle.Outcome) result.Result {
	if r, ok := outcomeResults[o]; ok {
		return r
	}
	return result.Undeclared
}

// Response is what a command reports back to its caller.
type Response struct {
	result.Result
	State lifecycle.State `json:"state"`
}
