package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
	"github.com/ziadkadry99/draftdesk/internal/versions"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Save, list, load and delete named versions of the draft",
}

var versionsSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the current draft as a version (asks for a name, default AS-<timestamp>)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		saved, err := a.SaveVersion(ctx, firstArg(args))
		if errors.Is(err, versions.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Save cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Version %s saved successfully\n", saved)
		return nil
	}),
}

var versionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved versions, newest first",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		out := cmd.OutOrStdout()
		n := 0
		for info, err := range a.Versions.List(ctx) {
			if err != nil {
				return fmt.Errorf("failed to load versions list: %w", err)
			}
			n++
			if info.Timestamp.IsZero() {
				fmt.Fprintln(out, info.Name)
				continue
			}
			fmt.Fprintf(out, "%-28s %s\n", info.Name, info.Timestamp.Local().Format("2006-01-02 15:04:05"))
		}
		if n == 0 {
			fmt.Fprintln(out, "No versions found")
		}
		return nil
	}),
}

var versionsLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Load a saved version into the draft",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		report, err := a.Versions.Load(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Version %s loaded successfully (%d sections)\n", report.Name, len(report.Applied))
		if len(report.Skipped) > 0 {
			fmt.Fprintf(out, "Skipped: %s\n", strings.Join(report.Skipped, ", "))
		}
		return nil
	}),
}

var versionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved version (asks for confirmation)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		err := a.Versions.Delete(ctx, args[0], a.Confirmer)
		if errors.Is(err, versions.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Version %s deleted successfully\n", args[0])
		return nil
	}),
}

func init() {
	versionsCmd.AddCommand(versionsSaveCmd, versionsListCmd, versionsLoadCmd, versionsDeleteCmd)
	rootCmd.AddCommand(versionsCmd)
}
