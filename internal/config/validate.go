package config

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ayoisaiah/zenbreath/internal/pattern"
)

var (
	minPollInterval = 500 * time.Millisecond
	maxPollInterval = 1 * time.Minute
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validatePattern(); err != nil {
		return err
	}

	if err := c.validatePayment(); err != nil {
		return err
	}

	_, err := c.LogLevel()

	return err
}

func (c *Config) validatePattern() error {
	catalog, err := pattern.Default()
	if err != nil {
		return err
	}

	if _, ok := catalog.Get(c.Settings.Pattern); !ok {
		return errUnknownPattern.Fmt(c.Settings.Pattern)
	}

	return nil
}

func (c *Config) validatePayment() error {
	switch c.Payment.Mode {
	case PaymentSimulated:
		return nil
	case PaymentInvoice:
	default:
		return errInvalidPaymentMode.Fmt(
			PaymentSimulated,
			PaymentInvoice,
			c.Payment.Mode,
		)
	}

	if strings.TrimSpace(c.Payment.Endpoint) == "" {
		return errMissingEndpoint.Fmt(c.Payment.Mode)
	}

	u, err := url.Parse(c.Payment.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidEndpoint.Fmt(c.Payment.Endpoint)
	}

	if c.Payment.PollInterval < minPollInterval ||
		c.Payment.PollInterval > maxPollInterval {
		return errInvalidPollInterval.Fmt(minPollInterval, maxPollInterval)
	}

	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return level, errInvalidLogLevel.Fmt(c.Settings.LogLevel)
	}

	return level, nil
}
