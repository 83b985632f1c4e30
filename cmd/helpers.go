package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
	"github.com/ziadkadry99/draftdesk/internal/config"
	"github.com/ziadkadry99/draftdesk/internal/logging"
	"github.com/ziadkadry99/draftdesk/internal/ui"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `draftdesk init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.Setup(level, os.Stderr)
}

func confirmer() ui.Confirmer {
	if assumeYes {
		return ui.Auto{Answer: true}
	}
	return ui.Terminal{}
}

func prompter() ui.Prompter {
	if assumeYes {
		return ui.Auto{Answer: true}
	}
	return ui.Terminal{}
}

// appOptions are extra collaborators for openApp.
type appOptions struct {
	hydrate  bool
	revealer ui.Revealer
}

// openApp builds the application from the config file. With hydrate set the
// draft is loaded from the backend first.
func openApp(ctx context.Context, opts appOptions) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, app.Options{
		Logger:    newLogger(cfg),
		Notifier:  ui.NewTerminalNotifier(os.Stdout),
		Confirmer: confirmer(),
		Prompter:  prompter(),
		Revealer:  opts.revealer,
	})
	if err != nil {
		return nil, err
	}
	if opts.hydrate {
		if err := a.Hydrate(ctx); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}
	return a, nil
}

// withApp runs fn against a hydrated App and flushes pending edits before
// returning.
func withApp(fn func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, appOptions{hydrate: true})
		if err != nil {
			return err
		}
		runErr := fn(ctx, cmd, a, args)
		if closeErr := a.Close(context.WithoutCancel(ctx)); closeErr != nil && runErr == nil {
			runErr = closeErr
		}
		return runErr
	}
}

// textArg returns args joined by spaces, or standard input when the only
// argument is "-".
func textArg(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return strings.Join(args, " "), nil
}

// applicabilityBar draws a 20-cell bar for a 0-100 score.
func applicabilityBar(pct int) string {
	pct = max(0, min(100, pct))
	filled := pct / 5
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 20-filled) + "]"
}

func onOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
