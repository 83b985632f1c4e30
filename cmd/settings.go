package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change session settings",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		st := a.Session.State()
		mode := "append"
		if !st.AppendMode {
			mode = "overwrite"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "model:            %s %s\n", st.Provider, st.Model)
		fmt.Fprintf(out, "load mode:        %s\n", mode)
		fmt.Fprintf(out, "include sections: %t\n", st.IncludeSections)
		if st.PromptID != "" {
			fmt.Fprintf(out, "prompt:           %s → %s\n", st.PromptID, st.PromptTarget)
		}
		return nil
	}),
}

var settingsAppendCmd = &cobra.Command{
	Use:   "append <on|off>",
	Short: "Append responses to sections (on) or overwrite them (off)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		on, err := onOff(args[0])
		if err != nil {
			return err
		}
		return a.Session.SetAppendMode(ctx, on)
	}),
}

var settingsIncludeCmd = &cobra.Command{
	Use:   "include <on|off>",
	Short: "Send non-empty sections as context with chat messages",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		on, err := onOff(args[0])
		if err != nil {
			return err
		}
		return a.Session.SetIncludeSections(ctx, on)
	}),
}

func init() {
	settingsCmd.AddCommand(settingsAppendCmd, settingsIncludeCmd)
	rootCmd.AddCommand(settingsCmd)
}
