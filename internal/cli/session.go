package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and control the rolling session window",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current session window",
	RunE:  runSessionShow,
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a fresh session now",
	RunE:  runSessionReset,
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <RFC3339 time>",
	Short: "Move the session start to a past time",
	Long: `Move the session start to a past time, e.g. when a session actually
began before claudebar was running.

The time must not be in the future and must fall within the configured
maximum session age.

Examples:
  claudebar session set 2026-08-25T09:00:00+09:00`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionSet,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	sessionCmd.AddCommand(sessionSetCmd)
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, zap.NewNop(), false)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	state, err := a.sessions.Current(ctx)
	if err != nil {
		return err
	}
	effective, err := a.sessions.EffectiveStart(ctx)
	if err != nil {
		return err
	}

	if state.StartedAt.IsZero() {
		fmt.Println("No session recorded yet.")
	} else {
		fmt.Printf("Session %s started %s\n", state.ID, state.StartedAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("Effective window start: %s (max age %s)\n",
		effective.Local().Format(time.RFC3339), a.sessions.MaxAge())
	return nil
}

func runSessionReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, zap.NewNop(), false)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	state, err := a.engine.ResetSession(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Session reset. New session %s started %s\n",
		state.ID, state.StartedAt.Local().Format(time.RFC3339))
	return nil
}

func runSessionSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	start, err := time.Parse(time.RFC3339, args[0])
	if err != nil {
		return fmt.Errorf("parsing time: %w", err)
	}

	a, err := newApp(ctx, zap.NewNop(), false)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	state, err := a.engine.SetSessionStart(ctx, start)
	if err != nil {
		return err
	}
	fmt.Printf("Session start moved to %s (session %s)\n",
		state.StartedAt.Local().Format(time.RFC3339), state.ID)
	return nil
}
