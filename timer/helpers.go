package timer

import (
	"fmt"
	"strings"

	"github.com/ayoisaiah/zenbreath/internal/breath"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
	"github.com/ayoisaiah/zenbreath/internal/timeutil"
)

const orbSize = 9

// orbWidth returns how many dots the breathing orb has in state. It grows
// while inhaling, stays full while holding in, shrinks while exhaling and
// stays small otherwise.
func orbWidth(state breath.State) int {
	grown := timeutil.Round(state.Progress() * float64(orbSize-1))

	switch state.Phase {
	case breath.Inhale:
		return 1 + grown
	case breath.HoldIn:
		return orbSize
	case breath.Exhale:
		return orbSize - grown
	case breath.Idle, breath.HoldOut:
	}

	return 1
}

func orb(state breath.State) string {
	n := orbWidth(state)
	pad := orbSize - n

	return strings.Repeat(" ", pad) +
		strings.TrimSpace(strings.Repeat("● ", n)) +
		strings.Repeat(" ", pad)
}

// priceTag renders the price of p in Telegram Stars.
func priceTag(p *pattern.Pattern) string {
	return fmt.Sprintf("⭐ %d", p.Amount())
}

// patternSummary describes the rhythm of p, e.g. "4-4-4-4 · 16s cycle".
func patternSummary(p *pattern.Pattern) string {
	return fmt.Sprintf(
		"%s · %s cycle",
		p.Phases.String(),
		timeutil.Short(p.Phases.Cycle()),
	)
}
