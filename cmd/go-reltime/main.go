package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/zalando/go-keyring"

	reltime "github.com/tartampluch/go-reltime"
	"github.com/tartampluch/go-reltime/internal/config"
	"github.com/tartampluch/go-reltime/internal/server"
	"github.com/tartampluch/go-reltime/internal/source"
	"github.com/tartampluch/go-reltime/internal/ui"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	sourcePath := flag.String(config.FlagSource, "", config.FlagDescSource)
	lang := flag.String(config.FlagLanguage, config.DefaultLanguage, config.FlagDescLanguage)
	port := flag.String(config.FlagPort, config.DefaultPort, config.FlagDescPort)
	user := flag.String(config.FlagUser, "", config.FlagDescUser)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// Structured logging (slog) is configured early to capture startup issues.
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, *sourcePath, *user, *lang, *port); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires dependencies, loads the watch source and starts the UI loop.
func run(ctx context.Context, sourcePath, user, lang, port string) error {
	a := app.NewWithID(config.AppID)

	var srv *server.StatusServer
	if port != "" {
		srv = server.NewStatusServer(port)
	}

	entries, err := loadEntries(ctx, sourcePath, user)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSourceLoad, err)
	}

	gui := ui.NewRelTimeApp(a, ctx, srv, reltime.Default(), lang)

	// Blocks until the main window closes or the context is cancelled.
	gui.Run(entries)
	return nil
}

// loadEntries resolves the watch source. Without -source a handful of demo
// entries shows the widget off.
func loadEntries(ctx context.Context, sourcePath, user string) ([]source.Entry, error) {
	if sourcePath == "" {
		slog.Info(config.MsgDemoEntries, config.LogKeyComponent, config.CompMain)
		return demoEntries(), nil
	}

	pass := ""
	if user != "" {
		if p, err := keyring.Get(config.KeyringService, user); err == nil {
			pass = p
		} else {
			slog.Debug(config.ErrKeyringLookup,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		}
	}

	loader := &source.Loader{
		Clock:   reltime.RealClock{},
		Fetcher: source.NewHTTPFetcher(),
	}
	return loader.Load(ctx, sourcePath, user, pass)
}

// demoEntries returns a small spread of offsets across the refresh tiers.
func demoEntries() []source.Entry {
	now := time.Now()
	return []source.Entry{
		{UID: "demo-launch", Name: "Launched", When: now.Add(-42 * time.Second)},
		{UID: "demo-standup", Name: "Standup", When: now.Add(12 * time.Minute)},
		{UID: "demo-review", Name: "Review", When: now.Add(3 * time.Hour)},
		{UID: "demo-release", Name: "Release", When: now.Add(9 * 24 * time.Hour)},
	}
}

// printVersion outputs the build information to stdout and exits.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	// 1. Always write to Stdout.
	writers = append(writers, os.Stdout)

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Restricted permissions (700) for the app's cache directory.
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
