package config

import (
	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Pattern        string
	Payment        string
	Endpoint       string
	SessionCmd     string
	Plain          bool
	Debug          bool
	DisableHaptics bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
// Flags that were not set leave the file configuration untouched.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Pattern:        ctx.String("pattern"),
			Payment:        ctx.String("payment"),
			Endpoint:       ctx.String("endpoint"),
			SessionCmd:     ctx.String("session-cmd"),
			Plain:          ctx.Bool("plain"),
			Debug:          ctx.Bool("debug"),
			DisableHaptics: ctx.Bool("disable-haptics"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if opts.Pattern != "" {
		c.Settings.Pattern = opts.Pattern
	}

	if opts.Payment != "" {
		c.Payment.Mode = PaymentMode(opts.Payment)
	}

	if opts.Endpoint != "" {
		c.Payment.Endpoint = opts.Endpoint
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	if opts.DisableHaptics {
		c.Haptics.Tones = false
		c.Haptics.Notifications = false
	}

	if opts.Debug {
		c.Settings.LogLevel = "debug"
	}

	c.CLI.Plain = opts.Plain
	c.CLI.Debug = opts.Debug
}
