package lifecycle

import (
	"fmt"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
)

// Outcome distinguishes every result a command can produce.
type Outcome int

const (
	OutcomeStarted Outcome = iota + 1
	OutcomeNotStarted
	OutcomeAlreadyStarted
	OutcomeStopped
	OutcomeRestarted
	OutcomeAlreadyStopped
	OutcomeInvoked
	OutcomeCannotInvoke
	OutcomeStartedWithDuration
	OutcomeRestartedWithDuration
	OutcomeStatusNone
	OutcomeStatusWorking
	OutcomeStatusStopped
)

var outcomeNames = map[Outcome]string{
	OutcomeStarted:               "started",
	OutcomeNotStarted:            "not started",
	OutcomeAlreadyStarted:        "already started",
	OutcomeStopped:               "stopped",
	OutcomeRestarted:             "restarted",
	OutcomeAlreadyStopped:        "already stopped",
	OutcomeInvoked:               "invoked",
	OutcomeCannotInvoke:          "cannot invoke",
	OutcomeStartedWithDuration:   "started with new duration",
	OutcomeRestartedWithDuration: "restarted with new duration",
	OutcomeStatusNone:            "status none",
	OutcomeStatusWorking:         "status working",
	OutcomeStatusStopped:         "status stopped",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Action is the side effect a caller performs on its schedule for a Step.
type Action int

const (
	// ActionNone leaves the schedule untouched.
	ActionNone Action = iota
	// ActionSchedule creates a new schedule.
	ActionSchedule
	// ActionCancel cancels the active schedule.
	ActionCancel
	// ActionReschedule cancels the active schedule and creates a new one.
	ActionReschedule
	// ActionInvoke runs the action once outside the schedule.
	ActionInvoke
)

// Step is the result of applying a Command to a State.
type Step struct {
	Next    State
	Outcome Outcome
	Action  Action
}

// Transition applies cmd to state. Unknown commands and states return an
// error wrapping ErrInvalidCommand and no Step.
func Transition(state State, cmd Command) (Step, error) {
	switch state {
	case StateNone, StateWorking, StateStopped:
	default:
		return Step{}, fmt.Errorf("%w: unknown state %v", cferrors.ErrInvalidCommand, state)
	}

	switch cmd {
	case CommandStart:
		switch state {
		case StateNone:
			return Step{StateWorking, OutcomeStarted, ActionSchedule}, nil
		case StateWorking:
			return Step{StateWorking, OutcomeAlreadyStarted, ActionNone}, nil
		default:
			return Step{StateWorking, OutcomeRestarted, ActionSchedule}, nil
		}

	case CommandStop:
		switch state {
		case StateNone:
			return Step{StateNone, OutcomeNotStarted, ActionNone}, nil
		case StateWorking:
			return Step{StateStopped, OutcomeStopped, ActionCancel}, nil
		default:
			return Step{StateStopped, OutcomeAlreadyStopped, ActionNone}, nil
		}

	case CommandInvoke:
		switch state {
		case StateNone:
			return Step{StateNone, OutcomeNotStarted, ActionNone}, nil
		case StateWorking:
			return Step{StateWorking, OutcomeInvoked, ActionInvoke}, nil
		default:
			return Step{StateStopped, OutcomeCannotInvoke, ActionNone}, nil
		}

	case CommandDuration:
		switch state {
		case StateNone:
			return Step{StateWorking, OutcomeStartedWithDuration, ActionSchedule}, nil
		case StateWorking:
			return Step{StateWorking, OutcomeRestartedWithDuration, ActionReschedule}, nil
		default:
			return Step{StateWorking, OutcomeRestartedWithDuration, ActionSchedule}, nil
		}

	case CommandStatus:
		switch state {
		case StateNone:
			return Step{StateNone, OutcomeStatusNone, ActionNone}, nil
		case StateWorking:
			return Step{StateWorking, OutcomeStatusWorking, ActionNone}, nil
		default:
			return Step{StateStopped, OutcomeStatusStopped, ActionNone}, nil
		}
	}

	return Step{}, fmt.Errorf("%w: %v", cferrors.ErrInvalidCommand, cmd)
}
