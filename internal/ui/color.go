// Package ui holds the terminal colours and tables shared by the plain
// output of zenbreath
package ui

import (
	"github.com/pterm/pterm"
)

// DarkTheme selects the light variants of each colour, which read better on
// dark terminals.
var DarkTheme bool

func pick(light, dark pterm.Color, a any) string {
	if DarkTheme {
		return dark.Sprint(a)
	}

	return light.Sprint(a)
}

func Green(a any) string {
	return pick(pterm.FgGreen, pterm.FgLightGreen, a)
}

func Cyan(a any) string {
	return pick(pterm.FgCyan, pterm.FgLightCyan, a)
}

func Magenta(a any) string {
	return pick(pterm.FgMagenta, pterm.FgLightMagenta, a)
}

func Blue(a any) string {
	return pick(pterm.FgBlue, pterm.FgLightBlue, a)
}

func Yellow(a any) string {
	return pick(pterm.FgYellow, pterm.FgLightYellow, a)
}

func Red(a any) string {
	return pick(pterm.FgRed, pterm.FgLightRed, a)
}

// Highlight makes a stands out from the surrounding text.
func Highlight(a any) string {
	return pick(pterm.FgBlack, pterm.FgLightWhite, a)
}
