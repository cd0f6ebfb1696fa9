package config_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/zenbreath/internal/config"
	"github.com/ayoisaiah/zenbreath/internal/testutil"
)

type TestCase struct {
	Want       *config.Config
	Name       string
	GoldenFile string
	Snapshot   []byte `json:"-"`
}

func (t TestCase) Output() (out []byte, name string) {
	return t.Snapshot, t.GoldenFile
}

func clearEnv(t *testing.T) {
	t.Helper()

	t.Setenv(config.InitDataEnv, "")
	t.Setenv("GEMINI_API_KEY", "")
}

// defaultConfig returns a new Config instance with default values.
func defaultConfig() *config.Config {
	return &config.Config{
		Settings: config.SettingsConfig{
			Pattern:  "basic",
			Cmd:      "",
			LogLevel: "info",
		},
		Payment: config.PaymentConfig{
			Mode:         config.PaymentSimulated,
			Endpoint:     "http://localhost:8080",
			PollInterval: 2 * time.Second,
		},
		Advice: config.AdviceConfig{
			Model: "gemini-2.5-flash",
		},
		Display: config.DisplayConfig{
			DarkTheme: true,
		},
		Haptics: config.HapticsConfig{
			Tones:         true,
			Notifications: true,
		},
	}
}

func TestViperWriteConfig(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	tc := TestCase{
		Name:       "write default config to file",
		GoldenFile: "defaults",
		Want:       defaultConfig(),
	}

	cfg, err := config.New(
		config.WithViperConfig(configPath),
	)
	if err != nil {
		t.Fatal(err)
	}

	tc.Snapshot, err = os.ReadFile(configPath)
	if err != nil {
		t.Fatal("failed to read config", err)
	}

	testutil.CompareGoldenFile(t, tc)

	assert.Equal(t, tc.Want, cfg)
}

func TestViperReadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.InitDataEnv, "query_id=AAH&hash=abc")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	err := testutil.CopyFile("testdata/modified_config.golden", configPath)
	if err != nil {
		t.Fatal(err)
	}

	want := &config.Config{
		Settings: config.SettingsConfig{
			Pattern:  "calm",
			Cmd:      `notify-send "breathing done"`,
			LogLevel: "debug",
		},
		Payment: config.PaymentConfig{
			Mode:         config.PaymentInvoice,
			Endpoint:     "https://zen.example.com",
			InitData:     "query_id=AAH&hash=abc",
			PollInterval: 5 * time.Second,
		},
		Advice: config.AdviceConfig{
			Model:   "gemini-2.5-flash",
			Enabled: true,
		},
		Display: config.DisplayConfig{
			DarkTheme: false,
		},
		Haptics: config.HapticsConfig{
			Tones:         true,
			Notifications: false,
		},
	}

	cfg, err := config.New(
		config.WithViperConfig(configPath),
	)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, want, cfg)
}

func cliContext(t *testing.T, flags map[string]string, bools ...string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("zenbreath", flag.ContinueOnError)

	for k, v := range flags {
		_ = set.String(k, "", "")
		require.NoError(t, set.Set(k, v))
	}

	for _, k := range bools {
		_ = set.Bool(k, false, "")
		require.NoError(t, set.Set(k, "true"))
	}

	return cli.NewContext(&cli.App{}, set, nil)
}

func TestCLIConfigOverrides(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yml")

	ctx := cliContext(t, map[string]string{
		"pattern":     "triangle",
		"payment":     "invoice",
		"endpoint":    "https://pay.example.com",
		"session-cmd": "echo done",
	}, "plain", "debug", "disable-haptics")

	cfg, err := config.New(
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)
	require.NoError(t, err)

	want := defaultConfig()
	want.Settings.Pattern = "triangle"
	want.Settings.Cmd = "echo done"
	want.Settings.LogLevel = "debug"
	want.Payment.Mode = config.PaymentInvoice
	want.Payment.Endpoint = "https://pay.example.com"
	want.Haptics = config.HapticsConfig{}
	want.CLI = config.CLIConfig{Plain: true, Debug: true}

	assert.Equal(t, want, cfg)
}

func TestCLIConfigKeepsFileValues(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := config.New(
		config.WithViperConfig(configPath),
		config.WithCLIConfig(cliContext(t, nil)),
	)
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		modify func(c *config.Config)
		name   string
		valid  bool
	}{
		{
			name:   "defaults",
			modify: func(*config.Config) {},
			valid:  true,
		},
		{
			name: "premium default pattern",
			modify: func(c *config.Config) {
				c.Settings.Pattern = "box"
			},
			valid: true,
		},
		{
			name: "unknown pattern",
			modify: func(c *config.Config) {
				c.Settings.Pattern = "hyperventilate"
			},
		},
		{
			name: "unknown payment mode",
			modify: func(c *config.Config) {
				c.Payment.Mode = "paypal"
			},
		},
		{
			name: "invoice mode without endpoint",
			modify: func(c *config.Config) {
				c.Payment.Mode = config.PaymentInvoice
				c.Payment.Endpoint = ""
			},
		},
		{
			name: "invoice mode with a non-http endpoint",
			modify: func(c *config.Config) {
				c.Payment.Mode = config.PaymentInvoice
				c.Payment.Endpoint = "ftp://example.com"
			},
		},
		{
			name: "poll interval too short",
			modify: func(c *config.Config) {
				c.Payment.Mode = config.PaymentInvoice
				c.Payment.PollInterval = time.Millisecond
			},
		},
		{
			name: "invoice mode",
			modify: func(c *config.Config) {
				c.Payment.Mode = config.PaymentInvoice
			},
			valid: true,
		},
		{
			name: "bad log level",
			modify: func(c *config.Config) {
				c.Settings.LogLevel = "loud"
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	cfg := defaultConfig()
	cfg.Settings.LogLevel = "warn"

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())
}
