// Package config loads zenbreath settings from the config file and the
// command line
package config

import (
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings
	Config struct {
		Settings SettingsConfig `mapstructure:"settings"`
		Payment  PaymentConfig  `mapstructure:"payment"`
		Advice   AdviceConfig   `mapstructure:"advice"`
		Display  DisplayConfig  `mapstructure:"display"`
		Haptics  HapticsConfig  `mapstructure:"haptics"`
		CLI      CLIConfig      `mapstructure:"-"`
	}

	// SettingsConfig holds general settings
	SettingsConfig struct {
		Pattern  string `mapstructure:"pattern"`
		Cmd      string `mapstructure:"cmd"`
		LogLevel string `mapstructure:"log_level"`
	}

	// PaymentConfig selects and configures the payment gateway
	PaymentConfig struct {
		Mode         PaymentMode   `mapstructure:"mode"`
		Endpoint     string        `mapstructure:"endpoint"`
		InitData     string        `mapstructure:"init_data"`
		PollInterval time.Duration `mapstructure:"poll_interval"`
	}

	// AdviceConfig holds settings for the daily advice
	AdviceConfig struct {
		Model   string `mapstructure:"model"`
		APIKey  string `mapstructure:"api_key"`
		Enabled bool   `mapstructure:"enabled"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
	}

	// HapticsConfig toggles the desktop stand-ins for haptic feedback
	HapticsConfig struct {
		Tones         bool `mapstructure:"tones"`
		Notifications bool `mapstructure:"notifications"`
	}

	// CLIConfig holds options that only exist for one invocation
	CLIConfig struct {
		Plain bool
		Debug bool
	}

	// Option is a function that modifies Config
	Option func(*Config) error

	// PaymentMode names a payment gateway
	PaymentMode string
)

const Version = "v0.3.0"

const (
	// PaymentSimulated settles purchases through a local confirmation
	PaymentSimulated PaymentMode = "simulated"
	// PaymentInvoice pays through the invoice server and Telegram Stars
	PaymentInvoice PaymentMode = "invoice"
)

// InitDataEnv holds Telegram WebApp init data when it is not in the config
// file.
const InitDataEnv = "ZENBREATH_INIT_DATA"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}
