package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seojun-park/claudebar/internal/domain"
	"github.com/seojun-park/claudebar/internal/engine"
	"github.com/seojun-park/claudebar/internal/util"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show session and weekly usage",
	Long: `Aggregate telemetry once and print the rolling session window and the
current anchored week.`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, zap.NewNop(), false)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	snap, err := a.engine.Refresh(ctx)
	if err != nil {
		var unreachable *domain.UnreachableError
		if errors.As(err, &unreachable) {
			return fmt.Errorf("cannot connect to the query backend (%s); is the collector running?", unreachable.Endpoint)
		}
		return err
	}

	printSnapshot(snap, a.cfg.SessionMaxRequests)
	return nil
}

func printSnapshot(snap *engine.Snapshot, maxRequests int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Session (since %s)\n", snap.SessionStart.Local().Format("15:04"))
	printSummaryRows(w, &snap.Session)
	if maxRequests > 0 {
		pct := float64(snap.Session.APIRequestCount) / float64(maxRequests) * 100
		fmt.Fprintf(w, "  limit used:\t%.0f%% of %d requests\n", pct, maxRequests)
	}

	fmt.Fprintf(w, "\nWeek (%s – %s)\n",
		snap.Week.Start.Format("Jan 2 15:04"), snap.Week.End.Format("Jan 2 15:04"))
	printSummaryRows(w, &snap.Weekly)
}

func printSummaryRows(w *tabwriter.Writer, s *domain.UsageSummary) {
	fmt.Fprintf(w, "  cost:\t%s\n", util.FormatCost(s.TotalCostUSD))
	fmt.Fprintf(w, "  tokens:\t%s in / %s out\n",
		util.FormatTokens(s.InputTokens), util.FormatTokens(s.OutputTokens))
	if s.CacheReadTokens > 0 || s.CacheCreationTokens > 0 {
		fmt.Fprintf(w, "  cache:\t%s read / %s written\n",
			util.FormatTokens(s.CacheReadTokens), util.FormatTokens(s.CacheCreationTokens))
	}
	fmt.Fprintf(w, "  sessions:\t%d\n", s.SessionCount)
	fmt.Fprintf(w, "  prompts:\t%d\n", s.PromptCount)
	fmt.Fprintf(w, "  api requests:\t%d\n", s.APIRequestCount)
	if s.ActiveTimeSeconds > 0 {
		fmt.Fprintf(w, "  active:\t%s\n", util.FormatDuration(time.Duration(s.ActiveTimeSeconds)*time.Second))
	}
	if s.LastUpdated != nil {
		fmt.Fprintf(w, "  updated:\t%s\n", s.LastUpdated.Local().Format("15:04:05"))
	}
}
