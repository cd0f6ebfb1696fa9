package app

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/zenbreath/internal/config"
)

var (
	patternFlag = &cli.StringFlag{
		Name:    "pattern",
		Aliases: []string{"p"},
		Usage:   "Breathing pattern to start with (see 'zenbreath patterns')",
	}

	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Print a line-oriented countdown instead of the full screen interface",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Write debug messages to the log file",
	}

	disableHapticsFlag = &cli.BoolFlag{
		Name:    "disable-haptics",
		Aliases: []string{"d"},
		Usage:   "Disable the tones and desktop notifications that stand in for haptic feedback",
	}

	paymentFlag = &cli.StringFlag{
		Name:  "payment",
		Usage: "Payment gateway: '" + string(config.PaymentSimulated) + "' or '" + string(config.PaymentInvoice) + "'",
	}

	endpointFlag = &cli.StringFlag{
		Name:  "endpoint",
		Usage: "Base URL of the invoice server used by the invoice gateway",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each breathing run",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}
)
