package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/api"
	"github.com/ziadkadry99/draftdesk/internal/app"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Browse and select prompts from the backend's prompt library",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts grouped by category",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		prompts, err := a.Client.ListPrompts(ctx)
		if err != nil {
			return err
		}
		selected := a.Session.State().PromptID
		byCategory := make(map[string][]api.Prompt)
		for _, p := range prompts {
			byCategory[p.Category] = append(byCategory[p.Category], p)
		}
		categories := make([]string, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		out := cmd.OutOrStdout()
		for _, c := range categories {
			fmt.Fprintf(out, "%s\n", c)
			for _, p := range byCategory[c] {
				mark := " "
				if p.ID == selected {
					mark = "*"
				}
				fmt.Fprintf(out, " %s %-24s %s", mark, p.ID, p.Name)
				if p.TargetSection != "" {
					fmt.Fprintf(out, " → %s", p.TargetSection)
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	}),
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a prompt's text",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		p, err := a.Client.GetPrompt(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n%s\n", p.Name, p.PromptText)
		if p.TargetSection != "" {
			fmt.Fprintf(out, "\nTarget section: %s\n", p.TargetSection)
		}
		return nil
	}),
}

var promptsSelectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Select the prompt sent with chat turns (no id clears it)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		p, err := a.SelectPrompt(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Prompt selection cleared")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", p.Name)
		return nil
	}),
}

func init() {
	promptsCmd.AddCommand(promptsListCmd, promptsShowCmd, promptsSelectCmd)
	rootCmd.AddCommand(promptsCmd)
}
