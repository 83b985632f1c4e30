package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
)

var sectionsCmd = &cobra.Command{
	Use:     "sections",
	Aliases: []string{"section"},
	Short:   "Read and edit document sections",
}

var sectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections with their length",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		printSectionList(cmd.OutOrStdout(), a)
		return nil
	}),
}

var sectionsShowCmd = &cobra.Command{
	Use:   "show <section>",
	Short: "Print a section",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		title := strings.Join(args, " ")
		content, err := a.Store.Get(title)
		if err != nil {
			return err
		}
		printSection(cmd, title, content)
		return nil
	}),
}

var sectionsSetCmd = &cobra.Command{
	Use:   "set <section> <text...|->",
	Short: "Replace a section's content",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		text, err := textArg(cmd.InOrStdin(), args[1:])
		if err != nil {
			return err
		}
		return a.Store.SetContent(args[0], text)
	}),
}

var sectionsAppendCmd = &cobra.Command{
	Use:   "append <section> <text...|->",
	Short: "Append to a section, separated by a blank line",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		text, err := textArg(cmd.InOrStdin(), args[1:])
		if err != nil {
			return err
		}
		return a.Store.Append(args[0], text, true)
	}),
}

var sectionsToggleCmd = &cobra.Command{
	Use:   "toggle <section>",
	Short: "Collapse or expand a section panel",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		title := strings.Join(args, " ")
		collapsed, err := a.ToggleCollapsed(ctx, title)
		if err != nil {
			return err
		}
		if collapsed {
			fmt.Fprintf(cmd.OutOrStdout(), "▸ %s collapsed\n", title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "▾ %s expanded\n", title)
		}
		return nil
	}),
}

// printSectionList prints one line per section. A trailing * marks edits
// not yet sent to the backend.
func printSectionList(out io.Writer, a *app.App) {
	for _, sec := range a.Sections() {
		marker := "▾"
		if sec.Collapsed {
			marker = "▸"
		}
		unsaved := ""
		if sec.Unsaved {
			unsaved = " *"
		}
		fmt.Fprintf(out, "%s %-32s %6d chars%s\n", marker, sec.Title, sec.Chars, unsaved)
	}
}

func printSection(cmd *cobra.Command, title, content string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "▾ %s\n%s\n", title, strings.Repeat("─", len([]rune(title))+2))
	if strings.TrimSpace(content) == "" {
		fmt.Fprintln(out, "(empty)")
		return
	}
	fmt.Fprintln(out, content)
}

func init() {
	sectionsCmd.AddCommand(sectionsListCmd, sectionsShowCmd, sectionsSetCmd, sectionsAppendCmd, sectionsToggleCmd)
	rootCmd.AddCommand(sectionsCmd)
}
