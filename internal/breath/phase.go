// Package breath runs the breathing timer: a cyclic phase state machine that
// advances one second per tick
package breath

import "github.com/ayoisaiah/zenbreath/internal/pattern"

// Phase is a state of the breathing timer.
type Phase int

const (
	Idle Phase = iota
	Inhale
	HoldIn
	Exhale
	HoldOut
)

var phaseNames = [...]string{
	Idle:    "IDLE",
	Inhale:  "INHALE",
	HoldIn:  "HOLD_IN",
	Exhale:  "EXHALE",
	HoldOut: "HOLD_OUT",
}

var instructions = [...]string{
	Idle:    "Press Start",
	Inhale:  "Inhale",
	HoldIn:  "Hold",
	Exhale:  "Exhale",
	HoldOut: "Hold",
}

func (p Phase) String() string {
	if p < Idle || p > HoldOut {
		return "UNKNOWN"
	}

	return phaseNames[p]
}

// Instruction is the short prompt shown to the user during the phase.
func (p Phase) Instruction() string {
	if p < Idle || p > HoldOut {
		return ""
	}

	return instructions[p]
}

// Expanded reports whether the lungs are full during the phase. It drives
// the size of the breathing circle.
func (p Phase) Expanded() bool {
	return p == Inhale || p == HoldIn
}

// Duration returns the number of seconds the phase lasts under phases.
func (p Phase) Duration(phases pattern.Phases) int {
	switch p {
	case Inhale:
		return phases.Inhale
	case HoldIn:
		return phases.HoldIn
	case Exhale:
		return phases.Exhale
	case HoldOut:
		return phases.HoldOut
	case Idle:
		return 0
	}

	return 0
}

// Next returns the phase that follows current. Holds with a zero duration
// are skipped. Idle only leads into Inhale; the machine never returns to
// Idle on its own.
func Next(current Phase, phases pattern.Phases) Phase {
	switch current {
	case Idle:
		return Inhale
	case Inhale:
		if phases.HoldIn > 0 {
			return HoldIn
		}

		return Exhale
	case HoldIn:
		return Exhale
	case Exhale:
		if phases.HoldOut > 0 {
			return HoldOut
		}

		return Inhale
	case HoldOut:
		return Inhale
	}

	return Idle
}
