package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/zenbreath/internal/advice"
	"github.com/ayoisaiah/zenbreath/internal/breath"
	"github.com/ayoisaiah/zenbreath/internal/purchase"
	"github.com/ayoisaiah/zenbreath/internal/session"
)

type (
	// tickMsg belongs to the run it was scheduled for
	tickMsg struct {
		id int
	}

	adviceMsg struct {
		advice advice.Advice
	}

	purchaseMsg struct {
		result purchase.Result
		title  string
	}

	sessionCmdMsg struct {
		err error
	}
)

// tick schedules the next second of the current run.
func (t *Timer) tick() tea.Cmd {
	id := t.runID

	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// start begins a run with the current pattern. Ticks scheduled for an
// earlier run are ignored from now on.
func (t *Timer) start() tea.Cmd {
	err := t.machine.Start()
	if err != nil {
		t.status = err.Error()
		return nil
	}

	t.runID++
	t.status = ""

	slog.Debug(
		"run started",
		slog.String("pattern", t.machine.State().Pattern.ID),
		slog.Int("run", t.runID),
	)

	return t.tick()
}

// stop ends the current run and executes the session command.
func (t *Timer) stop() tea.Cmd {
	state := t.machine.State()

	t.machine.Stop()
	t.runID++

	t.status = "Run finished after " + cycles(state.Cycles)

	slog.Debug(
		"run stopped",
		slog.String("pattern", state.Pattern.ID),
		slog.Int("cycles", state.Cycles),
	)

	return t.execSessionCmd()
}

// invalidate drops pending ticks after the machine was stopped behind the
// timer's back, which happens when the selected pattern changes.
func (t *Timer) invalidate() {
	if !t.machine.State().Active() {
		t.runID++
	}
}

func (t *Timer) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.id != t.runID {
		return t, nil
	}

	ev := t.machine.Tick()
	if ev.Kind == breath.EventIdle {
		return t, nil
	}

	if ev.Kind == breath.EventPhaseChange {
		slog.Debug(
			"phase changed",
			slog.String("from", ev.Previous.String()),
			slog.String("to", ev.Phase.String()),
			slog.Int("cycles", ev.Cycles),
		)
	}

	return t, t.tick()
}

// selectPattern makes the highlighted pattern current, or opens its unlock
// prompt when it is locked.
func (t *Timer) selectPattern() tea.Cmd {
	all := t.controller.Catalog().All()
	if t.cursor < 0 || t.cursor >= len(all) {
		return nil
	}

	p := all[t.cursor]

	prompt, err := t.controller.RequestUnlock(p.ID)
	if err != nil {
		t.status = err.Error()
		return nil
	}

	if prompt != nil {
		t.status = ""
		return nil
	}

	t.invalidate()
	t.screen = runScreen
	t.status = p.Name + " selected"

	return nil
}

// purchase starts paying for the open prompt. The returned command blocks
// until the gateway reports an outcome.
func (t *Timer) purchase() tea.Cmd {
	prompt := t.controller.Prompt()
	if prompt == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(t.ctx)
	t.cancelPurchase = cancel
	t.status = "Waiting for payment…"

	controller := t.controller
	req := *prompt

	return func() tea.Msg {
		defer cancel()

		return purchaseMsg{
			result: controller.Purchase(ctx, req.PatternID),
			title:  req.Title,
		}
	}
}

func (t *Timer) handlePurchase(msg purchaseMsg) (tea.Model, tea.Cmd) {
	res := msg.result

	if !errors.Is(res.Err(), session.ErrPurchaseInProgress) {
		t.cancelPurchase = nil
	}

	switch res.Kind() {
	case purchase.KindPaid:
		t.invalidate()
		t.screen = runScreen
		t.status = msg.title + " is now unlocked"
	case purchase.KindCancelled:
		t.controller.ClosePrompt()
		t.status = "Payment for " + msg.title + " was not completed"
	case purchase.KindFailed, purchase.KindRejected:
		t.status = res.Err().Error()
	}

	return t, nil
}

// abortPurchase cancels the purchase in flight, if any.
func (t *Timer) abortPurchase() {
	if t.cancelPurchase != nil {
		t.cancelPurchase()
	}
}

func (t *Timer) execSessionCmd() tea.Cmd {
	if t.sessionCmd == "" {
		return nil
	}

	cmdLine := t.sessionCmd

	return func() tea.Msg {
		return sessionCmdMsg{err: runSessionCmd(cmdLine)}
	}
}

// runSessionCmd executes the specified command.
func runSessionCmd(sessionCmd string) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return errParseSessionCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	err = exec.Command(name, args...).Run()
	if err != nil {
		return errRunSessionCmd.Fmt(sessionCmd).Wrap(err)
	}

	return nil
}

func cycles(n int) string {
	if n == 1 {
		return "1 cycle"
	}

	return fmt.Sprintf("%d cycles", n)
}
