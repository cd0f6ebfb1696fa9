package timer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/zenbreath/internal/breath"
	"github.com/ayoisaiah/zenbreath/internal/ui"
)

// Plain runs the breathing timer without a full screen interface, one line
// per phase with a countdown that rewrites itself.
type Plain struct {
	w          io.Writer
	machine    *breath.Machine
	sessionCmd string
}

// NewPlain returns a line-oriented runner for machine writing to w.
func NewPlain(w io.Writer, machine *breath.Machine, sessionCmd string) *Plain {
	return &Plain{
		w:          w,
		machine:    machine,
		sessionCmd: sessionCmd,
	}
}

// printPattern writes the details of the current pattern.
func (p *Plain) printPattern() {
	pat := p.machine.State().Pattern

	fmt.Fprintf(
		p.w,
		"%s %s\n",
		ui.Green("["+pat.Name+"]"),
		ui.Highlight(patternSummary(&pat)),
	)
}

func phaseLabel(phase breath.Phase) string {
	text := fmt.Sprintf("%-8s", phase.Instruction())

	switch phase {
	case breath.Inhale:
		return ui.Green(text)
	case breath.HoldIn:
		return ui.Cyan(text)
	case breath.Exhale:
		return ui.Blue(text)
	case breath.HoldOut:
		return ui.Magenta(text)
	case breath.Idle:
	}

	return text
}

// countdown prints the seconds left in the current phase.
func (p *Plain) countdown(phase breath.Phase, remaining int) {
	fmt.Fprintf(
		p.w,
		"\r%s %s",
		phaseLabel(phase),
		pterm.Yellow(fmt.Sprintf("%02d", remaining)),
	)
}

// Run starts a run and advances it on every value received from ticks.
// It returns when ctx is done or ticks is closed, then runs the session
// command.
func (p *Plain) Run(ctx context.Context, ticks <-chan time.Time) error {
	err := p.machine.Start()
	if err != nil {
		return err
	}

	p.printPattern()

	state := p.machine.State()
	p.countdown(state.Phase, state.Remaining)

	err = p.machine.Run(ctx, ticks, func(ev breath.Event) {
		if ev.Kind == breath.EventPhaseChange {
			fmt.Fprintln(p.w)
		}

		p.countdown(ev.Phase, ev.Remaining)
	})

	state = p.machine.State()
	p.machine.Stop()

	fmt.Fprintf(p.w, "\nRun finished after %s\n", cycles(state.Cycles))

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return runSessionCmd(p.sessionCmd)
}

// RunEverySecond is Run driven by a one second ticker.
func (p *Plain) RunEverySecond(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	return p.Run(ctx, ticker.C)
}
