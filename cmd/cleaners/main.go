package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"robot-cleaners/internal/logging"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cleaners",
		Short: "Robot cleaners - agent-based grid cleaning simulation",
		Long: `cleaners runs a grid world where cleaning robots wander at random and
remove the trash they step on. Runs end when the grid is clean or the
time budget is spent.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newTUICmd(),
		newServeCmd(),
		newSweepCmd(),
	)
	return rootCmd
}

// newLogger builds the command logger writing to w.
func newLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.NewLogger(level, w)
}
