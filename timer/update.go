package timer

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
)

// handlePaymentSheet answers the simulated payment dialog.
func (t *Timer) handlePaymentSheet(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.yes), key.Matches(msg, defaultKeymap.enter):
		t.payment.answer(true)
	case key.Matches(msg, defaultKeymap.no):
		t.payment.answer(false)
	default:
		return t, nil
	}

	t.payment = nil

	return t, t.bridge.listen()
}

// handlePrompt handles the unlock dialog of a locked pattern.
func (t *Timer) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if t.controller.Purchasing() {
		if key.Matches(msg, defaultKeymap.no) {
			t.abortPurchase()
		}

		return t, nil
	}

	switch {
	case key.Matches(msg, defaultKeymap.yes), key.Matches(msg, defaultKeymap.enter):
		return t, t.purchase()
	case key.Matches(msg, defaultKeymap.no):
		t.controller.ClosePrompt()
		t.status = ""
	}

	return t, nil
}

func (t *Timer) handlePatternList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(msg, defaultKeymap.down):
		if t.cursor < t.controller.Catalog().Len()-1 {
			t.cursor++
		}
	case key.Matches(msg, defaultKeymap.enter):
		return t, t.selectPattern()
	case key.Matches(msg, defaultKeymap.esc), key.Matches(msg, defaultKeymap.patterns):
		t.screen = runScreen
	}

	return t, nil
}

func (t *Timer) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, defaultKeymap.quit) {
		if t.payment != nil {
			t.payment.answer(false)
			t.payment = nil
		}

		t.abortPurchase()
		t.machine.Stop()

		return t, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	if t.payment != nil {
		return t.handlePaymentSheet(msg)
	}

	if t.controller.Prompt() != nil {
		return t.handlePrompt(msg)
	}

	if t.screen == patternScreen {
		return t.handlePatternList(msg)
	}

	switch {
	case key.Matches(msg, defaultKeymap.togglePlay):
		if t.machine.State().Active() {
			return t, t.stop()
		}

		return t, t.start()

	case key.Matches(msg, defaultKeymap.patterns):
		t.cursor = t.indexOf(t.controller.Current().ID)
		t.screen = patternScreen
	}

	return t, nil
}

func (t *Timer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	slog.Debug(spew.Sdump(msg))

	switch msg := msg.(type) {
	case tickMsg:
		return t.handleTick(msg)

	case adviceMsg:
		t.advice = msg.advice

		return t, nil

	case purchaseMsg:
		return t.handlePurchase(msg)

	case confirmMsg:
		t.payment = &paymentSheet{
			req:   msg.req,
			reply: msg.reply,
		}

		return t, nil

	case sessionCmdMsg:
		if msg.err != nil {
			slog.Error("session command failed", slog.Any("error", msg.err))

			t.status = msg.err.Error()
		}

		return t, nil

	case tea.KeyMsg:
		return t.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		t.progress.Width = msg.Width - padding*2 - 4
		if t.progress.Width > maxWidth {
			t.progress.Width = maxWidth
		}

		t.help.Width = msg.Width

		return t, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		var (
			progressModel tea.Model
			cmd           tea.Cmd
		)

		progressModel, cmd = t.progress.Update(msg)
		t.progress, _ = progressModel.(progress.Model)

		return t, cmd
	}

	return t, nil
}
