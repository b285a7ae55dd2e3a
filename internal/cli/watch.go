package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously aggregate telemetry on a timer",
	Long: `Run refresh passes at the configured interval, recording each result
to local history. A pass that is still running when the next tick fires is
not duplicated; the tick is skipped.`,
	RunE: runWatch,
}

var watchVerbose bool

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Enable debug logging")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(watchVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	a, err := newApp(ctx, logger, true)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	logger.Info("watching telemetry",
		zap.String("backend", a.cfg.Backend),
		zap.Duration("interval", a.cfg.RefreshInterval))

	refresh := func() {
		snap, err := a.engine.Refresh(ctx)
		if err != nil {
			logger.Warn("refresh failed, keeping previous summary", zap.Error(err))
			return
		}
		logger.Info("refreshed",
			zap.Float64("session_cost_usd", snap.Session.TotalCostUSD),
			zap.Int64("session_tokens", snap.Session.TotalTokens()),
			zap.Float64("weekly_cost_usd", snap.Weekly.TotalCostUSD),
			zap.Int("hourly_buckets", len(snap.Hourly)))
	}

	refresh()
	ticker := time.NewTicker(a.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
