package audit

import "fmt"

// UnitState is the auditor-facing toggle state of one unit during a session.
// The UI cycles it with repeated taps; Advance is the single transition
// function so the cycle order lives in exactly one place.
type UnitState string

const (
	StatePending  UnitState = "pending"
	StateFound    UnitState = "found"
	StateNotFound UnitState = "not-found"
)

// Advance moves to the next state in the cycle
// pending -> found -> not-found -> pending.
func (s UnitState) Advance() UnitState {
	switch s {
	case StatePending:
		return StateFound
	case StateFound:
		return StateNotFound
	default:
		return StatePending
	}
}

// Terminal reports whether the state is valid for saving: a pending unit has
// not been reviewed and cannot complete a session.
func (s UnitState) Terminal() bool {
	return s == StateFound || s == StateNotFound
}

func ParseUnitState(raw string) (UnitState, error) {
	switch UnitState(raw) {
	case StatePending, StateFound, StateNotFound:
		return UnitState(raw), nil
	default:
		return "", fmt.Errorf("unknown audit state %q", raw)
	}
}
