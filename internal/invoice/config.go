package invoice

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment so the bot token never has to be
// written to the yaml config file.
type Config struct {
	BotToken       string        `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
	Addr           string        `env:"ZENBREATH_ADDR"                     envDefault:":8080"`
	WebhookSecret  string        `env:"ZENBREATH_WEBHOOK_SECRET"`
	DBPath         string        `env:"ZENBREATH_DB_PATH"`
	BotAPIURL      string        `env:"ZENBREATH_BOT_API_URL"              envDefault:"https://api.telegram.org"`
	InvoiceTTL     time.Duration `env:"ZENBREATH_INVOICE_TTL"              envDefault:"15m"`
	InitDataMaxAge time.Duration `env:"ZENBREATH_INIT_DATA_MAX_AGE"        envDefault:"24h"`
	VerifyInitData bool          `env:"ZENBREATH_VERIFY_INIT_DATA"         envDefault:"false"`
}

// LoadConfig parses the server configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
