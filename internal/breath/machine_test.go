package breath

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/zenbreath/internal/haptics"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
)

var (
	box = pattern.Pattern{
		ID:     "box",
		Name:   "Box Breathing",
		Phases: pattern.Phases{Inhale: 4, HoldIn: 4, Exhale: 4, HoldOut: 4},
	}

	basic = pattern.Pattern{
		ID:     "basic",
		Name:   "Basic",
		Phases: pattern.Phases{Inhale: 4, Exhale: 4},
	}

	sleep = pattern.Pattern{
		ID:     "relax",
		Name:   "4-7-8 Sleep",
		Phases: pattern.Phases{Inhale: 4, HoldIn: 7, Exhale: 8},
	}
)

// segment is a phase and the number of ticks the machine spent in it.
type segment struct {
	Phase Phase
	Ticks int
}

// segments starts m and ticks it n times, returning the sequence of phases
// entered together with how many ticks each lasted. The final segment may be
// incomplete.
func segments(t *testing.T, m *Machine, n int) []segment {
	t.Helper()

	require.NoError(t, m.Start())

	out := []segment{{Phase: m.State().Phase}}

	for i := 0; i < n; i++ {
		out[len(out)-1].Ticks++

		ev := m.Tick()
		if ev.Kind == EventPhaseChange {
			out = append(out, segment{Phase: ev.Phase})
		}
	}

	return out
}

func TestNextTable(t *testing.T) {
	cases := []struct {
		Name    string
		Phases  pattern.Phases
		Current Phase
		Want    Phase
	}{
		{"idle starts inhale", box.Phases, Idle, Inhale},
		{"inhale to hold in", box.Phases, Inhale, HoldIn},
		{"inhale skips empty hold", basic.Phases, Inhale, Exhale},
		{"hold in to exhale", box.Phases, HoldIn, Exhale},
		{"exhale to hold out", box.Phases, Exhale, HoldOut},
		{"exhale skips empty hold", sleep.Phases, Exhale, Inhale},
		{"hold out to inhale", box.Phases, HoldOut, Inhale},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, Next(tc.Current, tc.Phases))
		})
	}
}

func TestBoxSequence(t *testing.T) {
	m := New(box, nil)

	got := segments(t, m, 16*2+1)

	want := []segment{
		{Inhale, 4}, {HoldIn, 4}, {Exhale, 4}, {HoldOut, 4},
		{Inhale, 4}, {HoldIn, 4}, {Exhale, 4}, {HoldOut, 4},
		{Inhale, 1},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, m.State().Cycles)
}

func TestTwoPhasePattern(t *testing.T) {
	for _, inhale := range []int{1, 3, 5} {
		p := pattern.Pattern{
			ID:     "two",
			Name:   "Two",
			Phases: pattern.Phases{Inhale: inhale, Exhale: inhale + 2},
		}

		got := segments(t, New(p, nil), 3*(2*inhale+2))

		for i, s := range got[:len(got)-1] {
			want := Inhale
			wantTicks := inhale

			if i%2 == 1 {
				want = Exhale
				wantTicks = inhale + 2
			}

			assert.Equal(t, want, s.Phase, "segment %d", i)
			assert.Equal(t, wantTicks, s.Ticks, "segment %d", i)
		}
	}
}

func TestZeroHoldsMatchTwoFieldPattern(t *testing.T) {
	explicit := pattern.Pattern{
		ID:     "explicit",
		Name:   "Explicit",
		Phases: pattern.Phases{Inhale: 4, HoldIn: 0, Exhale: 6, HoldOut: 0},
	}
	implicit := pattern.Pattern{
		ID:     "implicit",
		Name:   "Implicit",
		Phases: pattern.Phases{Inhale: 4, Exhale: 6},
	}

	a := segments(t, New(explicit, nil), 50)
	b := segments(t, New(implicit, nil), 50)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("sequences differ (-explicit +implicit):\n%s", diff)
	}
}

func TestCountdownReachesOneBeforeTransition(t *testing.T) {
	m := New(sleep, nil)
	require.NoError(t, m.Start())

	var remaining []int

	for i := 0; i < 4; i++ {
		remaining = append(remaining, m.State().Remaining)
		m.Tick()
	}

	assert.Equal(t, []int{4, 3, 2, 1}, remaining)

	s := m.State()
	assert.Equal(t, HoldIn, s.Phase)
	assert.Equal(t, 7, s.Remaining)
}

func TestStartRequiresIdle(t *testing.T) {
	m := New(box, nil)

	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.Start(), ErrRunning)
}

func TestStop(t *testing.T) {
	m := New(box, nil)

	segments(t, m, 6)

	m.Stop()

	once := m.State()
	assert.Equal(t, Idle, once.Phase)
	assert.Equal(t, 0, once.Remaining)

	m.Stop()
	assert.Equal(t, once, m.State())

	ev := m.Tick()
	assert.Equal(t, EventIdle, ev.Kind)
	assert.Equal(t, once, m.State())
}

func TestRestartUsesSwappedPattern(t *testing.T) {
	m := New(box, nil)
	segments(t, m, 5)

	stopped := m.ChangePattern(sleep)
	assert.True(t, stopped)
	assert.Equal(t, Idle, m.State().Phase)

	require.NoError(t, m.Start())
	m.Tick()
	m.Tick()
	m.Tick()
	m.Tick()

	s := m.State()
	assert.Equal(t, HoldIn, s.Phase)
	assert.Equal(t, sleep.Phases.HoldIn, s.Remaining)
	assert.Equal(t, "relax", s.Pattern.ID)

	assert.False(t, New(box, nil).ChangePattern(basic))
}

func TestHaptics(t *testing.T) {
	rec := &haptics.Recorder{}
	m := New(basic, rec)

	require.NoError(t, m.Start())

	for i := 0; i < 8; i++ {
		m.Tick()
	}

	want := []haptics.Intensity{haptics.Medium, haptics.Light, haptics.Light}
	assert.Equal(t, want, rec.Impacts())
}

func TestProgress(t *testing.T) {
	m := New(basic, nil)
	require.NoError(t, m.Start())

	assert.InDelta(t, 0, m.State().Progress(), 0.001)

	m.Tick()
	m.Tick()

	assert.InDelta(t, 0.5, m.State().Progress(), 0.001)
	assert.Equal(t, float64(0), State{}.Progress())
}

func TestConcurrentPatternSwap(t *testing.T) {
	m := New(box, nil)
	require.NoError(t, m.Start())

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := 0; i < 500; i++ {
			m.Tick()
		}
	}()

	go func() {
		defer wg.Done()

		for i := 0; i < 100; i++ {
			if i%2 == 0 {
				m.ChangePattern(sleep)
			} else {
				m.ChangePattern(box)
			}

			_ = m.Start()
		}
	}()

	wg.Wait()

	s := m.State()
	if s.Phase != Idle {
		assert.LessOrEqual(t, s.Remaining, s.Phase.Duration(s.Pattern.Phases))
		assert.Positive(t, s.Remaining)
	}
}

func TestRun(t *testing.T) {
	m := New(basic, nil)
	require.NoError(t, m.Start())

	ticks := make(chan time.Time)

	var events []Event

	done := make(chan error, 1)

	go func() {
		done <- m.Run(context.Background(), ticks, func(ev Event) {
			events = append(events, ev)
		})
	}()

	for i := 0; i < 5; i++ {
		ticks <- time.Now()
	}

	close(ticks)
	require.NoError(t, <-done)

	require.Len(t, events, 5)
	assert.Equal(t, EventPhaseChange, events[3].Kind)
	assert.Equal(t, Exhale, events[3].Phase)
	assert.Equal(t, Inhale, events[3].Previous)
}

func TestRunStopsWithContext(t *testing.T) {
	m := New(basic, nil)
	require.NoError(t, m.Start())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, make(chan time.Time), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPhaseText(t *testing.T) {
	assert.Equal(t, "HOLD_OUT", HoldOut.String())
	assert.Equal(t, "Hold", HoldIn.Instruction())
	assert.Equal(t, "Press Start", Idle.Instruction())
	assert.Equal(t, "UNKNOWN", Phase(42).String())
	assert.True(t, HoldIn.Expanded())
	assert.False(t, Exhale.Expanded())
}
