package appointment

import (
	"strings"

	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
)

// ===============================
// Appointment State
// ===============================

type State string

const (
	StatePending   State = "PENDING"
	StateConfirmed State = "CONFIRMED"
	StateCanceled  State = "CANCELED"
	StateCompleted State = "COMPLETED"
)

var states = []State{StatePending, StateConfirmed, StateCanceled, StateCompleted}

// ParseState accepts any casing of the four known states.
func ParseState(s string) (State, error) {
	candidate := State(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range states {
		if st == candidate {
			return st, nil
		}
	}
	return "", httperr.ErrValidation("invalid_state_filter")
}

func InitialState() State {
	return StatePending
}

func (s State) Terminal() bool {
	switch s {
	case StateCanceled, StateCompleted:
		return true
	default:
		return false
	}
}

// ===============================
// Transitions
// ===============================

// CanConfirm reports whether confirming from current changes anything.
// CONFIRMED is an idempotent no-op; CANCELED and COMPLETED are rejected.
func CanConfirm(current State) (bool, error) {
	switch current {
	case StatePending:
		return true, nil
	case StateConfirmed:
		return false, nil
	case StateCanceled, StateCompleted:
		return false, httperr.ErrInvalidState("invalid_state")
	default:
		return false, httperr.ErrInvalidState("unknown_state")
	}
}

// CanCancel reports whether canceling from current changes anything.
// CANCELED is an idempotent no-op; COMPLETED is rejected.
func CanCancel(current State) (bool, error) {
	switch current {
	case StatePending, StateConfirmed:
		return true, nil
	case StateCanceled:
		return false, nil
	case StateCompleted:
		return false, httperr.ErrInvalidState("invalid_state")
	default:
		return false, httperr.ErrInvalidState("unknown_state")
	}
}
