package timer

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type keymap struct {
	togglePlay key.Binding
	patterns   key.Binding
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	esc        key.Binding
	yes        key.Binding
	no         key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys(" ", "s"),
		key.WithHelp("space", "start/stop"),
	),
	patterns: key.NewBinding(
		key.WithKeys("p", "tab"),
		key.WithHelp("p", "patterns"),
	),
	up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	no: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type styles struct {
	base      lipgloss.Style
	title     lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	orb       lipgloss.Style
	locked    lipgloss.Style
	cursor    lipgloss.Style
	status    lipgloss.Style
	dialog    lipgloss.Style
	button    lipgloss.Style
	primary   lipgloss.Style
	phases    map[string]lipgloss.Style
}

func newStyles(dark bool) *styles {
	accent := lipgloss.Color("#2E7D32")
	muted := lipgloss.Color("#5C6B73")
	text := lipgloss.Color("#101F38")

	if dark {
		accent = lipgloss.Color("#8BC34A")
		muted = lipgloss.Color("#9AA5B1")
		text = lipgloss.Color("#F2F2F2")
	}

	phase := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			MarginRight(1).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(c))
	}

	return &styles{
		base:      lipgloss.NewStyle().Padding(1, padding),
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		main:      lipgloss.NewStyle().Bold(true).Foreground(text),
		secondary: lipgloss.NewStyle().Foreground(text),
		hint:      lipgloss.NewStyle().Foreground(muted),
		orb:       lipgloss.NewStyle().Foreground(accent),
		locked:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		status:    lipgloss.NewStyle().Italic(true).Foreground(muted),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2).
			Width(maxWidth - 10),
		button: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(text),
		primary: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent),
		phases: map[string]lipgloss.Style{
			"IDLE":     phase("#5C6B73"),
			"INHALE":   phase("#43A047"),
			"HOLD_IN":  phase("#00897B"),
			"EXHALE":   phase("#1E88E5"),
			"HOLD_OUT": phase("#5E35B1"),
		},
	}
}
