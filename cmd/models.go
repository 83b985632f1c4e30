package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List and select the backend's LLM",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available models",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		models, err := a.Client.ListModels(ctx)
		if err != nil {
			return err
		}
		cur, err := a.Client.CurrentModel(ctx)
		if err != nil {
			return err
		}
		for _, m := range models {
			mark := " "
			if m.Provider == cur.Provider && m.Name == cur.Version {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s %s\n", mark, m.Provider, m.Name)
		}
		return nil
	}),
}

var modelsCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the selected model",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		cur, err := a.Client.CurrentModel(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cur.Provider, cur.Version)
		return nil
	}),
}

var modelsSelectCmd = &cobra.Command{
	Use:   "select <provider> <model>",
	Short: "Select a model; clears the conversation",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		if err := a.SelectModel(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Model changed to %s %s\n", args[0], args[1])
		return nil
	}),
}

func init() {
	modelsCmd.AddCommand(modelsListCmd, modelsCurrentCmd, modelsSelectCmd)
	rootCmd.AddCommand(modelsCmd)
}
