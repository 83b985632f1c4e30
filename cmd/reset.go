package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a new session: clears the conversation and every section",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		ok, err := a.Confirmer.Confirm("Start a new session? Unsaved sections will be cleared")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
			return nil
		}
		if err := a.NewSession(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "New session started")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
