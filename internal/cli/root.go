package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "claudebar",
	Short: "Usage summaries for Claude Code telemetry",
	Long: `claudebar aggregates Claude Code OTLP telemetry into cost and token
summaries over a rolling session, the current anchored week, and per-hour
buckets for the last 24 hours.

Telemetry is read either from local OTLP-JSON export files or from a
Prometheus-compatible query API, selected with CLAUDEBAR_BACKEND.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
