package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
	"github.com/ziadkadry99/draftdesk/internal/chat"
	"github.com/ziadkadry99/draftdesk/internal/transcript"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the drafting assistant",
}

var chatSendCmd = &cobra.Command{
	Use:   "send <message...>",
	Short: "Send a message, optionally loading the response into a section",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		if cmd.Flags().Changed("prompt") {
			id, _ := cmd.Flags().GetString("prompt")
			if _, err := a.SelectPrompt(ctx, id); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("include-sections") {
			on, _ := cmd.Flags().GetBool("include-sections")
			if err := a.Session.SetIncludeSections(ctx, on); err != nil {
				return err
			}
		}

		message, err := textArg(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		reply, err := a.Chat.Send(ctx, message)
		if err != nil {
			return err
		}
		printReply(cmd, reply)

		load, _ := cmd.Flags().GetBool("load")
		to, _ := cmd.Flags().GetString("to")
		if !load && to == "" {
			return nil
		}
		target, err := a.Chat.LoadLast(ctx, to, chat.LoadSessionMode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded response into %s\n", target)
		return nil
	}),
}

var chatLoadCmd = &cobra.Command{
	Use:   "load [section]",
	Short: "Load the last response into a section (default: the suggested one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		mode := chat.LoadSessionMode
		if cmd.Flags().Changed("overwrite") {
			mode = chat.LoadAppend
			if overwrite, _ := cmd.Flags().GetBool("overwrite"); overwrite {
				mode = chat.LoadOverwrite
			}
		}
		target, err := a.Chat.LoadLast(ctx, strings.Join(args, " "), mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded response into %s\n", target)
		return nil
	}),
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the conversation",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		msgs, err := a.Transcript.List(ctx)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No messages yet.")
			return nil
		}
		for _, m := range msgs {
			printMessage(cmd, m)
		}
		return nil
	}),
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the conversation without touching the draft",
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		return a.Transcript.Clear(ctx)
	}),
}

func printReply(cmd *cobra.Command, reply *chat.Reply) {
	printMessage(cmd, *reply.Message)
	out := cmd.OutOrStdout()
	if reply.Offer.Primary != "" {
		fmt.Fprintf(out, "Suggested section: %s\n", reply.Offer.Primary)
	}
	fmt.Fprintf(out, "Load into: %s\n", strings.Join(reply.Offer.Targets(), " | "))
}

func printMessage(cmd *cobra.Command, m transcript.Message) {
	out := cmd.OutOrStdout()
	label := map[transcript.Role]string{
		transcript.RoleUser:      "You",
		transcript.RoleAssistant: "Assistant",
		transcript.RoleSystem:    "System",
		transcript.RoleError:     "Error",
	}[m.Role]
	fmt.Fprintf(out, "%s:\n%s\n\n", label, m.Content)
}

func init() {
	chatSendCmd.Flags().String("prompt", "", "prompt id to send with the message (empty clears the selection)")
	chatSendCmd.Flags().Bool("include-sections", false, "send non-empty section contents as context")
	chatSendCmd.Flags().Bool("load", false, "load the response into the offered section")
	chatSendCmd.Flags().String("to", "", "load the response into this section")
	chatLoadCmd.Flags().Bool("overwrite", false, "replace the section instead of appending, for this load only")

	chatCmd.AddCommand(chatSendCmd, chatLoadCmd, chatHistoryCmd, chatClearCmd)
	rootCmd.AddCommand(chatCmd)
}
