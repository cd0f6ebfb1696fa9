// Package timer renders a breathing run in the terminal. It drives the
// breathing machine once per second, lists the catalog and walks the user
// through the unlock prompt of premium patterns
package timer

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayoisaiah/zenbreath/internal/advice"
	"github.com/ayoisaiah/zenbreath/internal/breath"
	"github.com/ayoisaiah/zenbreath/internal/session"
)

const (
	padding  = 2
	maxWidth = 60
)

type screen int

const (
	runScreen screen = iota
	patternScreen
)

// Option configures a Timer.
type Option func(*Timer)

// WithAdvisor sets the source of the quote shown under the timer.
func WithAdvisor(a advice.Advisor) Option {
	return func(t *Timer) {
		t.advisor = a
	}
}

// WithBridge routes payment confirmations of the simulated gateway through
// the timer's own dialog.
func WithBridge(b *Bridge) Option {
	return func(t *Timer) {
		t.bridge = b
	}
}

// WithSessionCmd sets the command executed every time a run is stopped.
func WithSessionCmd(cmd string) Option {
	return func(t *Timer) {
		t.sessionCmd = cmd
	}
}

// WithDarkTheme switches to the palette for dark terminals.
func WithDarkTheme(dark bool) Option {
	return func(t *Timer) {
		t.style = newStyles(dark)
	}
}

// WithContext sets the parent context of every purchase started from the
// timer.
func WithContext(ctx context.Context) Option {
	return func(t *Timer) {
		t.ctx = ctx
	}
}

// Timer is the bubbletea model of the interactive client.
type Timer struct {
	ctx            context.Context
	advisor        advice.Advisor
	controller     *session.Controller
	machine        *breath.Machine
	bridge         *Bridge
	payment        *paymentSheet
	cancelPurchase context.CancelFunc
	style          *styles
	advice         advice.Advice
	sessionCmd     string
	status         string
	help           help.Model
	progress       progress.Model
	runID          int
	cursor         int
	screen         screen
}

// New returns the interactive client for a session. The machine must be
// the one the controller's select hook updates.
func New(
	controller *session.Controller,
	machine *breath.Machine,
	opts ...Option,
) *Timer {
	t := &Timer{
		ctx:        context.Background(),
		controller: controller,
		machine:    machine,
		style:      newStyles(true),
		help:       help.New(),
		progress:   progress.New(progress.WithDefaultGradient()),
		advice:     advice.Offline,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.cursor = t.indexOf(controller.Current().ID)

	return t
}

func (t *Timer) Init() tea.Cmd {
	cmds := []tea.Cmd{t.fetchAdvice()}

	if t.bridge != nil {
		cmds = append(cmds, t.bridge.listen())
	}

	return tea.Batch(cmds...)
}

func (t *Timer) fetchAdvice() tea.Cmd {
	ctx := t.ctx
	a := t.advisor

	return func() tea.Msg {
		return adviceMsg{advice: advice.Fetch(ctx, a)}
	}
}

// indexOf returns the position of the pattern with id in the catalog, or 0.
func (t *Timer) indexOf(id string) int {
	for i, p := range t.controller.Catalog().All() {
		if p.ID == id {
			return i
		}
	}

	return 0
}
