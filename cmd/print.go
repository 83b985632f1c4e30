package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Download the backend's printable rendering of the draft",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		path, n, err := a.Print(ctx, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, n)
		return nil
	}),
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the draft locally as HTML or Markdown",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		withChat, _ := cmd.Flags().GetBool("chat")
		out, _ := cmd.Flags().GetString("output")
		format = strings.ToLower(format)
		if out == "" {
			out = filepath.Join(a.Config.OutputDir, "draft."+format)
		}
		if err := a.Export(ctx, out, format, withChat); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", out)
		return nil
	}),
}

func init() {
	printCmd.Flags().StringP("output", "o", "", "output file (default <output_dir>/"+app.DefaultPrintFile+")")
	exportCmd.Flags().StringP("output", "o", "", "output file (default <output_dir>/draft.<format>)")
	exportCmd.Flags().String("format", app.FormatHTML, "html or md")
	exportCmd.Flags().Bool("chat", false, "include the conversation")
	rootCmd.AddCommand(printCmd, exportCmd)
}
