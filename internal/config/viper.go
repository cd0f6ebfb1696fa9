package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/zenbreath/internal/advice"
)

const (
	keyPattern              = "settings.pattern"
	keySessionCmd           = "settings.cmd"
	keyLogLevel             = "settings.log_level"
	keyPaymentMode          = "payment.mode"
	keyPaymentEndpoint      = "payment.endpoint"
	keyPaymentPollInterval  = "payment.poll_interval"
	keyPaymentInitData      = "payment.init_data"
	keyAdviceEnabled        = "advice.enabled"
	keyAdviceModel          = "advice.model"
	keyAdviceAPIKey         = "advice.api_key"
	keyDarkTheme            = "display.dark_theme"
	keyHapticsTones         = "haptics.tones"
	keyHapticsNotifications = "haptics.notifications"
)

// WithViperConfig returns an Option that loads configuration from the file
// at configPath. The defaults are written to it if it does not exist.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults. Values already chosen through
// the first-run prompt replace the built-in defaults.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyPattern, "basic")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyPaymentMode, string(PaymentSimulated))
	v.SetDefault(keyPaymentEndpoint, "http://localhost:8080")
	v.SetDefault(keyPaymentPollInterval, "2s")
	v.SetDefault(keyPaymentInitData, "")
	v.SetDefault(keyAdviceEnabled, false)
	v.SetDefault(keyAdviceModel, advice.DefaultModel)
	v.SetDefault(keyAdviceAPIKey, "")
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyHapticsTones, true)
	v.SetDefault(keyHapticsNotifications, true)

	if c.Settings.Pattern != "" {
		v.SetDefault(keyPattern, c.Settings.Pattern)
	}

	if c.Payment.Mode != "" {
		v.SetDefault(keyPaymentMode, string(c.Payment.Mode))
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	if c.Payment.InitData == "" {
		c.Payment.InitData = strings.TrimSpace(os.Getenv(InitDataEnv))
	}

	if c.Advice.APIKey == "" {
		c.Advice.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}

	return nil
}
