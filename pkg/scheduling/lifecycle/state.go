package lifecycle

import (
	"fmt"
	"strings"
)

// State is the lifecycle status of a scheduler.
type State int32

const (
	// StateNone is the initial state, before the first START or DURATION.
	StateNone State = iota
	// StateWorking means a schedule is active.
	StateWorking
	// StateStopped means the schedule was cancelled; it can be resumed.
	StateStopped
)

// String returns the upper-case name used in status reports.
func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateWorking:
		return "WORKING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "NONE":
		*s = StateNone
	case "WORKING":
		*s = StateWorking
	case "STOPPED":
		*s = StateStopped
	default:
		return fmt.Errorf("unknown worker state %q", text)
	}
	return nil
}

// Command is a lifecycle request against a scheduler.
type Command int

const (
	CommandStart Command = iota + 1
	CommandStop
	CommandInvoke
	CommandDuration
	CommandStatus
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "START"
	case CommandStop:
		return "STOP"
	case CommandInvoke:
		return "INVOKE"
	case CommandDuration:
		return "DURATION"
	case CommandStatus:
		return "STATUS"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ParseCommand maps a case-insensitive command name to a Command.
func ParseCommand(name string) (Command, bool) {
	switch strings.ToLower(name) {
	case "start":
		return CommandStart, true
	case "stop":
		return CommandStop, true
	case "invoke":
		return CommandInvoke, true
	case "duration":
		return CommandDuration, true
	case "status":
		return CommandStatus, true
	default:
		return 0, false
	}
}
