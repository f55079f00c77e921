// Package commands implements the CLI commands for overture.
package commands

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/overture/internal/client/all"
	"github.com/thoreinstein/overture/internal/config"
	"github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/internal/logging"
)

// version is overridden at build time via ldflags.
// Default to a development version for local builds.
var version = "0.1.0"

// clientFlag holds the value of the -c/--client flag.
var clientFlag []string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// registry holds the client adapters; constructed once at startup.
var registry = all.Registry()

// settings holds the loaded tool settings.
var settings *config.Settings

// settingsLoadErr holds any error that occurred during settings loading.
var settingsLoadErr error

func init() {
	cobra.OnInitialize(initSettings)

	rootCmd.PersistentFlags().StringSliceVarP(&clientFlag, "client", "c", nil,
		"target client(s): claude-code, cursor, vscode, ... (default: all enabled)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("overture version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initSettings() {
	config.Init()
	settings, settingsLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "overture",
	Short: "Sync MCP server definitions across AI assistant clients",
	Long: `overture keeps MCP server launch definitions in sync across AI
assistant clients: Claude Code, Claude Desktop, Cursor, VS Code,
Gemini CLI, and Codex CLI.

Define each server once, in ~/.config/overture/servers.yaml or a
project-local .overture.yaml, and overture rewrites every client's
native config format while leaving the rest of those files untouched.

Use the --client flag to target specific clients, or omit it to target
every client enabled in the configuration.`,
	Example: `  # Preview what a sync would change
  overture sync --dry-run

  # Sync every enabled client
  overture sync

  # Sync one client against a project config
  overture sync --client cursor --project .

  # Show which clients are installed
  overture status`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateClientFlag(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("OVERTURE_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1
				case "2":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile == "" && settings != nil {
		logFile = settings.Log.File
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateClientFlag checks that all specified clients are registered.
func validateClientFlag(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if settingsLoadErr != nil {
		return errors.NewConfigError(settingsLoadErr)
	}

	for _, name := range clientFlag {
		if _, err := registry.Lookup(name); err != nil {
			return errors.NewUserError(err,
				"Run 'overture clients' to see the supported clients")
		}
	}

	return nil
}

// currentPlatform returns the GOOS-style platform name for this process.
func currentPlatform() string {
	return runtime.GOOS
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
