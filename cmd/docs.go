package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage uploaded documents and view required documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		docs, err := a.Client.ListDocuments(ctx)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents uploaded")
			return nil
		}
		for _, d := range docs {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	}),
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an uploaded document (asks for confirmation)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		ok, err := a.Confirmer.Confirm(fmt.Sprintf("Delete %s", args[0]))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
			return nil
		}
		if err := a.Client.DeleteDocument(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	}),
}

var docsRequiredCmd = &cobra.Command{
	Use:   "required",
	Short: "Show which supporting documents the current draft needs",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		docs, err := a.RefreshRequired(ctx)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No required documents")
			return nil
		}
		for _, d := range docs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %3d%%  %s\n", applicabilityBar(d.Applicability), d.Applicability, d.Name)
		}
		return nil
	}),
}

func init() {
	docsCmd.AddCommand(docsListCmd, docsDeleteCmd, docsRequiredCmd)
	rootCmd.AddCommand(docsCmd)
}
