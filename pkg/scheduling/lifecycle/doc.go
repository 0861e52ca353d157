/*
Package lifecycle defines the NONE -> WORKING <-> STOPPED state machine shared
by cycleflow schedulers, the commands that drive it, and the Runner capability
implemented by long-lived worker loops.

Transition is a pure function: it tells the caller which state to move to,
which outcome to report, and which side effect to perform on its schedule.
Callers own the side effect and must hold whatever lock guards their state
while applying a Step.

	step, err := lifecycle.Transition(w.state, lifecycle.CommandStop)
	if err != nil {
		return err
	}
	if step.Action == lifecycle.ActionCancel {
		w.cancelSchedule()
	}
	w.state = step.Next

NONE is only ever the initial state. STOPPED is resumable; there is no
terminal state.
*/
package lifecycle
