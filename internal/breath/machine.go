package breath

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayoisaiah/zenbreath/internal/haptics"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
)

// ErrRunning is returned by Start when a run is already in progress.
var ErrRunning = errors.New("breathing timer is already running")

// EventKind describes what a tick did.
type EventKind int

const (
	// EventIdle means the tick arrived while the timer was stopped
	EventIdle EventKind = iota
	// EventCountdown means the current phase lost one second
	EventCountdown
	// EventPhaseChange means the timer moved into a new phase
	EventPhaseChange
)

// Event is the result of a single tick.
type Event struct {
	Kind      EventKind
	Phase     Phase
	Previous  Phase
	Remaining int
	Cycles    int
}

// State is a consistent snapshot of the timer.
type State struct {
	Pattern   pattern.Pattern
	Phase     Phase
	Remaining int
	Cycles    int
}

// Active reports whether a run is in progress.
func (s State) Active() bool {
	return s.Phase != Idle
}

// Progress returns how much of the current phase has elapsed, between 0
// and 1.
func (s State) Progress() float64 {
	total := s.Phase.Duration(s.Pattern.Phases)
	if total == 0 {
		return 0
	}

	return float64(total-s.Remaining) / float64(total)
}

// Machine is the breathing timer. All methods are safe for concurrent use;
// the pattern used for duration lookups is swapped under the same lock
// that tick processing holds.
type Machine struct {
	haptic    haptics.Haptics
	pattern   pattern.Pattern
	phase     Phase
	remaining int
	cycles    int
	mu        sync.Mutex
}

// New returns an idle timer for p. A nil h disables feedback.
func New(p pattern.Pattern, h haptics.Haptics) *Machine {
	if h == nil {
		h = haptics.Nop{}
	}

	return &Machine{
		haptic:  h,
		pattern: p,
	}
}

// Start begins a run at Inhale with the current pattern.
func (m *Machine) Start() error {
	m.mu.Lock()

	if m.phase != Idle {
		m.mu.Unlock()
		return ErrRunning
	}

	m.enter(Next(Idle, m.pattern.Phases))
	m.cycles = 0

	m.mu.Unlock()

	m.haptic.Impact(haptics.Medium)

	return nil
}

// Stop ends the run. It is safe to call on an idle timer.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.phase = Idle
	m.remaining = 0
}

// Tick advances the timer by one second.
func (m *Machine) Tick() Event {
	m.mu.Lock()

	if m.phase == Idle {
		m.mu.Unlock()
		return Event{Kind: EventIdle}
	}

	if m.remaining > 1 {
		m.remaining--

		ev := m.event(EventCountdown, m.phase)
		m.mu.Unlock()

		return ev
	}

	previous := m.phase

	m.enter(Next(previous, m.pattern.Phases))

	if m.phase == Inhale {
		m.cycles++
	}

	ev := m.event(EventPhaseChange, previous)
	m.mu.Unlock()

	m.haptic.Impact(haptics.Light)

	return ev
}

// ChangePattern swaps the active pattern. A run in progress is stopped and
// stopped is true; the caller may Start again with the new pattern.
func (m *Machine) ChangePattern(p pattern.Pattern) (stopped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stopped = m.phase != Idle

	m.pattern = p
	m.phase = Idle
	m.remaining = 0

	return stopped
}

// State returns a snapshot of the timer.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return State{
		Pattern:   m.pattern,
		Phase:     m.phase,
		Remaining: m.remaining,
		Cycles:    m.cycles,
	}
}

// Run ticks the machine for every value received on ticks and passes the
// resulting events to fn. It returns when ctx is done, ticks is closed, or
// the machine has been stopped.
func (m *Machine) Run(
	ctx context.Context,
	ticks <-chan time.Time,
	fn func(Event),
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}

			ev := m.Tick()
			if ev.Kind == EventIdle {
				return nil
			}

			if fn != nil {
				fn(ev)
			}
		}
	}
}

// enter moves into phase and loads its duration. Callers hold m.mu.
func (m *Machine) enter(phase Phase) {
	m.phase = phase
	m.remaining = phase.Duration(m.pattern.Phases)
}

func (m *Machine) event(kind EventKind, previous Phase) Event {
	return Event{
		Kind:      kind,
		Phase:     m.phase,
		Previous:  previous,
		Remaining: m.remaining,
		Cycles:    m.cycles,
	}
}
