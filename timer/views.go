package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/zenbreath/internal/purchase"
	"github.com/ayoisaiah/zenbreath/internal/timeutil"
)

func (t *Timer) runView() string {
	var s strings.Builder

	state := t.machine.State()
	p := state.Pattern

	s.WriteString(t.style.title.Render(p.Name))
	s.WriteString(" " + t.style.hint.Render(patternSummary(&p)))
	s.WriteString("\n\n")

	badge := t.style.phases[state.Phase.String()]
	s.WriteString(badge.Render(state.Phase.String()))
	s.WriteString(t.style.main.Render(state.Phase.Instruction()))
	s.WriteString("\n\n")

	s.WriteString(t.style.orb.Render(orb(state)))
	s.WriteString("\n\n")

	if state.Active() {
		s.WriteString(t.style.main.Render(timeutil.Clock(state.Remaining)))
		s.WriteString(" " + t.style.hint.Render(fmt.Sprintf("cycle %d", state.Cycles+1)))
		s.WriteString("\n\n")
		s.WriteString(t.progress.ViewAs(state.Progress()))
		s.WriteString("\n\n")
	}

	if t.advice.Text != "" {
		s.WriteString(t.style.secondary.Render("“" + t.advice.Text + "”"))
		s.WriteString("\n")
	}

	s.WriteString(t.statusView())
	s.WriteString("\n\n" + t.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.patterns,
		defaultKeymap.quit,
	}))

	return s.String()
}

func (t *Timer) patternView() string {
	var s strings.Builder

	s.WriteString(t.style.title.Render("Breathing patterns"))
	s.WriteString("\n\n")

	current := t.controller.Current().ID

	for i, p := range t.controller.Catalog().All() {
		marker := "  "
		if i == t.cursor {
			marker = t.style.cursor.Render("> ")
		}

		name := p.Name
		if p.ID == current {
			name += " •"
		}

		line := fmt.Sprintf("%-24s %s", name, t.style.hint.Render(patternSummary(&p)))

		if !t.controller.Playable(p.ID) {
			line += " " + t.style.locked.Render("🔒 "+priceTag(&p))
		}

		if i == t.cursor {
			line = t.style.main.Render(line)
		}

		s.WriteString(marker + line + "\n")
	}

	s.WriteString(t.statusView())
	s.WriteString("\n\n" + t.help.ShortHelpView([]key.Binding{
		defaultKeymap.up,
		defaultKeymap.down,
		defaultKeymap.enter,
		defaultKeymap.esc,
		defaultKeymap.quit,
	}))

	return s.String()
}

// buttons renders a pair of dialog buttons, the first one highlighted.
func (t *Timer) buttons(yes, no string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		t.style.primary.Render("[Y] "+yes),
		"  ",
		t.style.button.Render("[N] "+no),
	)
}

func (t *Timer) promptView(req *purchase.Request) string {
	var s strings.Builder

	s.WriteString(t.style.title.Render("Unlock " + req.Title))
	s.WriteString("\n\n")

	if req.Description != "" {
		s.WriteString(t.style.secondary.Render(req.Description))
		s.WriteString("\n\n")
	}

	s.WriteString(t.style.main.Render(fmt.Sprintf("Price: ⭐ %d", req.Amount)))
	s.WriteString("\n\n")

	if t.controller.Purchasing() {
		s.WriteString(t.style.status.Render("Waiting for payment…"))
		s.WriteString("\n\n" + t.style.hint.Render("esc to abandon"))

		return t.style.dialog.Render(s.String())
	}

	s.WriteString(t.buttons("Unlock", "Not now"))

	if t.status != "" {
		s.WriteString("\n\n" + t.style.status.Render(t.status))
	}

	return t.style.dialog.Render(s.String())
}

func (t *Timer) paymentView() string {
	var s strings.Builder

	req := t.payment.req

	s.WriteString(t.style.title.Render("Confirm payment"))
	s.WriteString("\n\n")
	s.WriteString(t.style.secondary.Render(
		fmt.Sprintf("Pay ⭐ %d to unlock %s?", req.Amount, req.Title),
	))
	s.WriteString("\n")
	s.WriteString(t.style.hint.Render("Test mode: no real payment is made"))
	s.WriteString("\n\n")
	s.WriteString(t.buttons("Pay", "Cancel"))

	return t.style.dialog.Render(s.String())
}

func (t *Timer) statusView() string {
	if t.status == "" {
		return ""
	}

	return "\n" + t.style.status.Render(t.status)
}

func (t *Timer) View() string {
	var view string

	switch {
	case t.payment != nil:
		view = t.paymentView()
	case t.controller.Prompt() != nil:
		view = t.promptView(t.controller.Prompt())
	case t.screen == patternScreen:
		view = t.patternView()
	default:
		view = t.runView()
	}

	return t.style.base.Render(view)
}
