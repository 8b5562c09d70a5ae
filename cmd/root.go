// Package cmd provides the CLI commands for the tomato application.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/xvierd/tomato/internal/adapters/plain"
	"github.com/xvierd/tomato/internal/adapters/tui"
	"github.com/xvierd/tomato/internal/ports"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath      string
	backendFlag string
	debugMode   bool

	plainMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tomato",
	Short: "tomato - a focus and break timer for the terminal",
	Long: `tomato alternates focus and break intervals in a full-screen terminal view.

Run "tomato" with no arguments to open the timer. Keys:
  space/s start or pause   r reset        e edit time     + add 5 min
  n switch now             m switch mode  k skip break    o sound
  ,  settings              ? help         q quit

When stdout is not a terminal, or with "tomato run --plain", a line-based
timer reads the same keys one per line from stdin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTimer,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the timer",
	Long:  `Open the timer. With --plain the line-based timer is used even on a terminal.`,
	Args:  cobra.NoArgs,
	RunE:  runTimer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tomato %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the preference store (default: ~/.tomato/tomato.db)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Preference store backend: sqlite, toml, memory")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write debug logs to ~/.tomato/debug.log (or set TOMATO_DEBUG)")

	runCmd.Flags().BoolVar(&plainMode, "plain", false, "Use the line-based timer")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("tomato\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runTimer opens the full-screen timer, or the line-based one when asked
// for or when stdout is not a terminal.
func runTimer(cmd *cobra.Command, args []string) error {
	ctx, stop := setupSignalHandler()
	defer stop()

	var timer ports.Timer
	if plainMode || !term.IsTerminal(os.Stdout.Fd()) {
		timer = plain.New(app.prefs, app.config, app.notifier, os.Stdin, os.Stdout)
	} else {
		var opts []tui.TimerOption
		if path := app.store.Path(); path != "" {
			// SQLite in WAL mode writes to the -wal file first.
			opts = append(opts, tui.WithWatchPath(path, "-wal"))
		}
		timer = tui.NewTimer(app.prefs, app.config, app.notifier, opts...)
	}

	if err := timer.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("timer error: %w", err)
	}
	return nil
}

// withContext is shared by commands that only need cancellation.
func withContext(fn func(ctx context.Context) error) error {
	ctx, stop := setupSignalHandler()
	defer stop()
	return fn(ctx)
}
