package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seojun-park/claudebar/internal/domain"
	"github.com/seojun-park/claudebar/internal/util"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent refresh pass results",
	RunE:  runHistory,
}

var (
	historyWindow string
	historyLimit  int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyWindow, "window", domain.WindowSession, "Window to list (session or weekly)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if historyWindow != domain.WindowSession && historyWindow != domain.WindowWeekly {
		return fmt.Errorf("invalid window %q (valid: %s, %s)",
			historyWindow, domain.WindowSession, domain.WindowWeekly)
	}

	a, err := newApp(ctx, zap.NewNop(), false)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	entries, err := a.history.Recent(ctx, historyWindow, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history recorded yet. Run 'claudebar watch' or 'claudebar summary' first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "RECORDED\tCOST\tTOKENS IN\tTOKENS OUT\tPROMPTS\tAPI REQS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			e.RecordedAt.Local().Format("Jan 2 15:04:05"),
			util.FormatCost(e.TotalCostUSD),
			util.FormatTokens(e.InputTokens), util.FormatTokens(e.OutputTokens),
			e.PromptCount, e.APIRequestCount)
	}
	return nil
}
