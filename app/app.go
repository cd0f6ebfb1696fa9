// Package app wires the zenbreath command-line interface
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/zenbreath/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the zenbreath app instance.
func Get() *cli.App {
	clientFlags := []cli.Flag{
		patternFlag,
		plainFlag,
		noColorFlag,
		debugFlag,
		disableHapticsFlag,
		paymentFlag,
		endpointFlag,
		sessionCmdFlag,
	}

	return &cli.App{
		Name: "zenbreath",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		zenbreath is a guided breathing timer for the command-line. Free
		patterns are always available; premium patterns are unlocked with
		Telegram Stars for the rest of the session.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "patterns",
				Usage:  "List the breathing patterns and their prices",
				Flags:  []cli.Flag{jsonFlag},
				Action: patternsAction,
			},
			{
				Name:      "unlock",
				Usage:     "Buy a premium pattern and start a run with it",
				ArgsUsage: "<pattern>",
				Flags:     clientFlags,
				Action:    unlockAction,
			},
			{
				Name:   "advice",
				Usage:  "Print a short breathing advice for today",
				Action: adviceAction,
			},
			{
				Name: "serve",
				Usage: `
				Run the invoice server that creates Telegram Stars invoices and
				receives the Bot API webhook. Configured through the environment`,
				Action: serveAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags:  clientFlags,
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}
}
