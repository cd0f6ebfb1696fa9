package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/zenbreath/internal/advice"
	"github.com/ayoisaiah/zenbreath/internal/apperr"
	"github.com/ayoisaiah/zenbreath/internal/breath"
	"github.com/ayoisaiah/zenbreath/internal/config"
	"github.com/ayoisaiah/zenbreath/internal/gateway"
	"github.com/ayoisaiah/zenbreath/internal/haptics"
	"github.com/ayoisaiah/zenbreath/internal/host"
	"github.com/ayoisaiah/zenbreath/internal/invoice"
	"github.com/ayoisaiah/zenbreath/internal/osutil"
	"github.com/ayoisaiah/zenbreath/internal/pathutil"
	"github.com/ayoisaiah/zenbreath/internal/pattern"
	"github.com/ayoisaiah/zenbreath/internal/purchase"
	"github.com/ayoisaiah/zenbreath/internal/session"
	"github.com/ayoisaiah/zenbreath/internal/timeutil"
	"github.com/ayoisaiah/zenbreath/internal/ui"
	"github.com/ayoisaiah/zenbreath/store"
	"github.com/ayoisaiah/zenbreath/timer"
)

const (
	appName              = "zenbreath"
	envUpdateNotifier    = "ZENBREATH_UPDATE_NOTIFIER"
	envNoColor           = "NO_COLOR"
	envZenbreathNoColor  = "ZENBREATH_NO_COLOR"
	logMaxSizeMegabytes  = 10
	logMaxBackups        = 3
	logMaxAgeDays        = 28
	releasesURL          = "https://github.com/ayoisaiah/zenbreath/releases"
	updateCheckTimeout   = 10 * time.Second
	defaultEditorUnix    = "nano"
	defaultEditorWindows = "C:\\Windows\\system32\\notepad.exe"
)

var errMissingPattern = &apperr.Error{
	Message: "missing pattern: usage is 'zenbreath unlock <pattern>'",
}

// logFile is the rotating log writer of the current invocation.
var logFile *lumberjack.Logger

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// checkForUpdates alerts the user if there is
// an updated version of zenbreath from the one currently installed.
func checkForUpdates(app *cli.App) {
	spinner, _ := pterm.DefaultSpinner.Start("Checking for updates...")
	c := http.Client{Timeout: updateCheckTimeout}

	resp, err := c.Get(releasesURL + "/latest")
	if err != nil {
		spinner.Fail("HTTP Error: Failed to check for update")
		return
	}

	defer resp.Body.Close()

	var version string

	_, err = fmt.Sscanf(
		resp.Request.URL.String(),
		releasesURL+"/tag/%s",
		&version,
	)
	if err != nil {
		spinner.Fail("Failed to get latest version")
		return
	}

	if version == app.Version {
		text := pterm.Sprintf(
			"Congratulations, you are using the latest version of %s",
			app.Name,
		)
		spinner.Success(text)

		return
	}

	_ = spinner.Stop()

	pterm.Warning.Prefix = pterm.Prefix{
		Text:  "UPDATE AVAILABLE",
		Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
	}
	pterm.Warning.Printfln(
		"A new release of zenbreath is available: %s at %s",
		version,
		resp.Request.URL.String(),
	)
}

// setupLogging sends structured logs to the rotating log file and to any
// extra writers.
func setupLogging(level slog.Level, extra ...io.Writer) {
	logFile = &lumberjack.Logger{
		Filename:   pathutil.LogFilePath(),
		MaxSize:    logMaxSizeMegabytes,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}

	var w io.Writer = logFile
	if len(extra) > 0 {
		w = io.MultiWriter(append([]io.Writer{logFile}, extra...)...)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

// loadConfig reads the config file, asking for the main settings on first
// run, applies the command-line overrides and sets up logging.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	configPath := pathutil.ConfigFilePath()

	cfg, err := config.New(
		config.WithPromptConfig(configPath),
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	setupLogging(level)

	ui.DarkTheme = cfg.Display.DarkTheme

	slog.Debug(
		"config loaded",
		slog.String("path", configPath),
		slog.String("pattern", cfg.Settings.Pattern),
		slog.String("payment", string(cfg.Payment.Mode)),
	)

	return cfg, nil
}

func newHaptics(cfg *config.Config) haptics.Haptics {
	if !cfg.Haptics.Tones && !cfg.Haptics.Notifications {
		return haptics.Nop{}
	}

	return haptics.NewDesktop(appName, cfg.Haptics.Tones, cfg.Haptics.Notifications)
}

// newGateway returns the payment gateway selected in cfg and the host
// session it needs. confirm settles simulated payments; open presents
// invoice links.
func newGateway(
	cfg *config.Config,
	confirm gateway.ConfirmFunc,
	open gateway.Opener,
) (purchase.Gateway, host.Session) {
	if cfg.Payment.Mode == config.PaymentInvoice {
		gw := gateway.NewInvoice(
			cfg.Payment.Endpoint,
			gateway.WithPollInterval(cfg.Payment.PollInterval),
			gateway.WithOpener(open),
		)

		return gw, host.NewTelegram(cfg.Payment.InitData)
	}

	return gateway.NewSimulated(confirm, gateway.DefaultDelay), host.Local{}
}

// newSession starts a session over the built-in catalog. The returned
// machine follows every change of the selected pattern.
func newSession(
	cfg *config.Config,
	h haptics.Haptics,
	gw purchase.Gateway,
	hs host.Session,
) (*session.Controller, *breath.Machine, error) {
	catalog, err := pattern.Default()
	if err != nil {
		return nil, nil, err
	}

	var machine *breath.Machine

	controller := session.New(
		catalog,
		purchase.NewFlow(gw, hs, h),
		session.WithInitial(cfg.Settings.Pattern),
		session.WithSelectHook(func(p pattern.Pattern) {
			machine.ChangePattern(p)
		}),
	)

	machine = breath.New(controller.Current(), h)

	return controller, machine, nil
}

func newAdvisor(ctx context.Context, cfg *config.Config) advice.Advisor {
	if !cfg.Advice.Enabled {
		return nil
	}

	a, err := advice.NewGenAI(ctx, cfg.Advice.APIKey, cfg.Advice.Model)
	if err != nil {
		slog.Warn("advice is unavailable", slog.Any("error", err))
		return nil
	}

	return a
}

func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// printPatterns writes the catalog as a table or as JSON.
func printPatterns(w io.Writer, catalog *pattern.Catalog, asJSON bool) error {
	patterns := catalog.All()

	if asJSON {
		b, err := json.MarshalIndent(patterns, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(b))

		return err
	}

	tableBody := [][]string{
		{"ID", "NAME", "RHYTHM", "CYCLE", "PRICE"},
	}

	for i := range patterns {
		p := &patterns[i]

		price := ui.Green("free")
		if p.Premium {
			price = ui.Yellow(fmt.Sprintf("⭐ %d", p.Amount()))
		}

		tableBody = append(tableBody, []string{
			p.ID,
			p.Name,
			p.Phases.String(),
			timeutil.Short(p.Phases.Cycle()),
			price,
		})
	}

	return ui.PrintTable(tableBody, w)
}

// patternsAction handles the patterns command which prints the catalog.
func patternsAction(ctx *cli.Context) error {
	catalog, err := pattern.Default()
	if err != nil {
		return err
	}

	return printPatterns(config.Stdout, catalog, ctx.Bool("json"))
}

// unlock asks the user to confirm the open prompt and pays for it. It
// reports whether the pattern was unlocked.
func unlock(
	ctx context.Context,
	cfg *config.Config,
	controller *session.Controller,
	prompt *purchase.Request,
) (bool, error) {
	approved := true

	err := huh.NewConfirm().
		Title(fmt.Sprintf("Unlock %s for ⭐ %d?", prompt.Title, prompt.Amount)).
		Description(prompt.Description).
		Affirmative("Unlock").
		Negative("Not now").
		Value(&approved).
		Run()
	if err != nil {
		return false, err
	}

	if !approved {
		controller.ClosePrompt()
		pterm.Info.Println("Nothing was charged")

		return false, nil
	}

	var spinner *pterm.SpinnerPrinter

	// the simulated gateway prompts on the same terminal
	if cfg.Payment.Mode == config.PaymentInvoice {
		spinner, _ = pterm.DefaultSpinner.Start("Waiting for payment...")
	}

	res := controller.Purchase(ctx, prompt.PatternID)

	if spinner != nil {
		_ = spinner.Stop()
	}

	switch res.Kind() {
	case purchase.KindPaid:
		pterm.Success.Printfln("%s is now unlocked", prompt.Title)
		return true, nil
	case purchase.KindCancelled:
		pterm.Warning.Printfln("Payment for %s was not completed", prompt.Title)
		return false, nil
	case purchase.KindFailed, purchase.KindRejected:
	}

	return false, res.Err()
}

// unlockAction handles the unlock command. The pattern is bought and a plain
// run starts with it, since entitlements end with the process.
func unlockAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return errMissingPattern
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	gw, hs := newGateway(cfg, gateway.PromptConfirm, gateway.Browser(config.Stdout))

	controller, machine, err := newSession(cfg, newHaptics(cfg), gw, hs)
	if err != nil {
		return err
	}

	runCtx, stop := interruptible(ctx.Context)
	defer stop()

	prompt, err := controller.RequestUnlock(id)
	if err != nil {
		return err
	}

	if prompt == nil {
		pterm.Info.Printfln("%s is free to play", controller.Current().Name)
	} else {
		unlocked, err := unlock(runCtx, cfg, controller, prompt)
		if err != nil || !unlocked {
			return err
		}
	}

	return timer.NewPlain(config.Stdout, machine, cfg.Settings.Cmd).
		RunEverySecond(runCtx)
}

// adviceAction prints a short advice from the configured advisor, or a
// built-in one.
func adviceAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	adv := advice.Fetch(ctx.Context, newAdvisor(ctx.Context, cfg))

	fmt.Fprintf(
		config.Stdout,
		"%s\n%s\n",
		ui.Green("“"+adv.Text+"”"),
		ui.Highlight("("+adv.Mood+")"),
	)

	return nil
}

// serveAction handles the serve command which runs the invoice server until
// it is interrupted.
func serveAction(ctx *cli.Context) error {
	cfg, err := invoice.LoadConfig()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if ctx.Bool("debug") {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	setupLogging(level, config.Stderr)

	dbPath := firstNonEmptyString(cfg.DBPath, pathutil.DBFilePath())

	db, err := store.NewClient(dbPath)
	if err != nil {
		return err
	}

	defer db.Close()

	bot := invoice.NewBotAPI(cfg.BotToken, cfg.BotAPIURL)

	runCtx, stop := interruptible(ctx.Context)
	defer stop()

	pterm.Info.Printfln("Invoice server listening on %s", cfg.Addr)

	return invoice.NewServer(cfg, db, bot).Run(runCtx)
}

// editConfigAction handles the edit-config command which opens the zenbreath
// config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := defaultEditorUnix

	if runtime.GOOS == osutil.Windows {
		defaultEditor = defaultEditorWindows
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// defaultAction starts the full screen breathing timer, or the plain
// countdown with --plain.
func defaultAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	h := newHaptics(cfg)

	if cfg.CLI.Plain {
		gw, hs := newGateway(cfg, gateway.PromptConfirm, gateway.Browser(config.Stdout))

		_, machine, err := newSession(cfg, h, gw, hs)
		if err != nil {
			return err
		}

		runCtx, stop := interruptible(ctx.Context)
		defer stop()

		return timer.NewPlain(config.Stdout, machine, cfg.Settings.Cmd).
			RunEverySecond(runCtx)
	}

	bridge := timer.NewBridge()

	// the invoice link cannot be printed over the full screen interface
	gw, hs := newGateway(cfg, bridge.Confirm, gateway.Browser(io.Discard))

	controller, machine, err := newSession(cfg, h, gw, hs)
	if err != nil {
		return err
	}

	opts := []timer.Option{
		timer.WithAdvisor(newAdvisor(ctx.Context, cfg)),
		timer.WithSessionCmd(cfg.Settings.Cmd),
		timer.WithDarkTheme(cfg.Display.DarkTheme),
		timer.WithContext(ctx.Context),
	}

	if cfg.Payment.Mode == config.PaymentSimulated {
		opts = append(opts, timer.WithBridge(bridge))
	}

	p := tea.NewProgram(timer.New(controller, machine, opts...))

	_, err = p.Run()

	return err
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf("%s/%s\n", releasesURL, c.App.Version)

		if _, found := os.LookupEnv(envUpdateNotifier); found {
			checkForUpdates(c.App)
		}
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if ZENBREATH_NO_COLOR is set
	if _, exists := os.LookupEnv(envZenbreathNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return pathutil.Initialize()
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting zenbreath")

	if logFile != nil {
		return logFile.Close()
	}

	return nil
}
