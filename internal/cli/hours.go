package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show per-hour usage for the last 24 hours",
	RunE:  runHours,
}

func init() {
	rootCmd.AddCommand(hoursCmd)
}

func runHours(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, zap.NewNop(), false)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	snap, err := a.engine.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(snap.Hourly) == 0 {
		fmt.Println("No usage recorded in the last 24 hours.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "HOUR\tCOST\tTOKENS IN\tTOKENS OUT\tPROMPTS\tAPI REQS")
	for _, b := range snap.Hourly {
		fmt.Fprintf(w, "%s\t$%.4f\t%d\t%d\t%d\t%d\n",
			b.HourStart.Local().Format("Jan 2 15:00"),
			b.TotalCostUSD, b.InputTokens, b.OutputTokens, b.PromptCount, b.APIRequestCount)
	}
	return nil
}
