package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/ayoisaiah/zenbreath/internal/pattern"
)

const asciiLogo = `
 _____                _                    _   _
|__  /___ _ __  _ __ | |__  _ __ ___  __ _| |_| |__
  / // _ \ '_ \| '_ \| '_ \| '__/ _ \/ _' | __| '_ \
 / /|  __/ | | | |_) | |_) | | |  __/ (_| | |_| | | |
/____\___|_| |_|_.__/|_.__/|_|  \___|\__,_|\__|_| |_|`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	Pattern string
	Payment PaymentMode
}

// WithPromptConfig returns an Option that asks for the main settings when
// no config file exists at configPath yet.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{
		Pattern: "basic",
		Payment: PaymentSimulated,
	}

	catalog, err := pattern.Default()
	if err != nil {
		return opts, err
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure zenbreath for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'zenbreath edit-config' to change any settings.`, " ").
		Render()

	var patternOpts []huh.Option[string]

	for _, id := range catalog.FreeIDs() {
		p, _ := catalog.Get(id)

		patternOpts = append(
			patternOpts,
			huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Phases), id).
				Selected(id == opts.Pattern),
		)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default breathing pattern").
				Options(patternOpts...).
				Value(&opts.Pattern),
		),
		huh.NewGroup(
			huh.NewSelect[PaymentMode]().
				Title("How should premium patterns be unlocked?").
				Options(
					huh.NewOption("Test mode (no real payment)", PaymentSimulated).
						Selected(true),
					huh.NewOption("Telegram Stars via the invoice server", PaymentInvoice),
				).
				Value(&opts.Payment),
		),
	)

	err = form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Settings.Pattern = opts.Pattern
	c.Payment.Mode = opts.Payment
}
