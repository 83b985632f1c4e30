package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
	"github.com/ziadkadry99/draftdesk/internal/chat"
	"github.com/ziadkadry99/draftdesk/internal/ui"
	"github.com/ziadkadry99/draftdesk/internal/versions"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive drafting session",
	Long: `Starts an interactive session. Plain lines are sent to the assistant;
lines starting with / are commands. Type /help for the list.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	var a *app.App
	reveal := ui.RevealFunc(func(title string) {
		content, err := a.Store.Get(title)
		if err == nil {
			printSection(cmd, title, content)
		}
	})

	a, err := openApp(ctx, appOptions{hydrate: true, revealer: reveal})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	if _, err := a.RefreshRequired(ctx); err != nil {
		ui.Warn(a.Notifier, "Could not load required documents: %v", err)
	}

	h := ui.NewHandlers(a.Notifier, a.Logger)
	registerShellHandlers(h, a, out)

	fmt.Fprintf(out, "draftdesk %s connected to %s. Type /help for commands, /quit to leave.\n", Version, a.Config.BackendURL)
	for {
		prompt := promptui.Prompt{Label: shellLabel(a)}
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		ev, rest, quit := parseShellLine(line)
		if quit {
			return nil
		}
		if ev == "" {
			continue
		}
		_ = h.Dispatch(ctx, ev, rest)
	}
}

func shellLabel(a *app.App) string {
	st := a.Session.State()
	mode := "append"
	if !st.AppendMode {
		mode = "overwrite"
	}
	if st.PromptID != "" {
		return fmt.Sprintf("%s [%s]", st.PromptID, mode)
	}
	return fmt.Sprintf("draftdesk [%s]", mode)
}

// parseShellLine maps a line to an event. Lines without a leading slash are
// chat messages.
func parseShellLine(line string) (ui.Event, []string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, false
	}
	if !strings.HasPrefix(line, "/") {
		return ui.EventSendMessage, []string{line}, false
	}
	name, rest, _ := strings.Cut(line[1:], " ")
	if name == "quit" || name == "exit" {
		return "", nil, true
	}
	var args []string
	if rest = strings.TrimSpace(rest); rest != "" {
		args = []string{rest}
	}
	return ui.Event(name), args, false
}

// sectionAndText splits "Title = text".
func sectionAndText(args []string) (string, string, error) {
	if len(args) == 0 {
		return "", "", errors.New("usage: <section> = <text>")
	}
	title, text, ok := strings.Cut(args[0], "=")
	if !ok {
		return "", "", errors.New("usage: <section> = <text>")
	}
	return strings.TrimSpace(title), strings.TrimSpace(text), nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func registerShellHandlers(h *ui.Handlers, a *app.App, out io.Writer) {
	h.Register(ui.EventSendMessage, "<message>  send a message (plain lines do the same)", func(ctx context.Context, args []string) error {
		reply, err := a.Chat.Send(ctx, firstArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n\n", reply.Message.Content)
		fmt.Fprintf(out, "/load to put this into %s\n", strings.Join(reply.Offer.Targets(), " or /load "))
		return nil
	})
	h.Register(ui.EventLoadResponse, "[section]  load the last response into a section", func(ctx context.Context, args []string) error {
		target, err := a.Chat.LoadLast(ctx, firstArg(args), chat.LoadSessionMode)
		if err != nil {
			return err
		}
		ui.Success(a.Notifier, "Content loaded into %s", target)
		return nil
	})
	h.Register(ui.EventToggleAppend, "  toggle append/overwrite", func(ctx context.Context, args []string) error {
		on := !a.Session.State().AppendMode
		if err := a.Session.SetAppendMode(ctx, on); err != nil {
			return err
		}
		if on {
			ui.Info(a.Notifier, "Responses will be appended")
		} else {
			ui.Info(a.Notifier, "Responses will overwrite the section")
		}
		return nil
	})
	h.Register(ui.EventSelectPrompt, "[id]  select a prompt; no id clears it", func(ctx context.Context, args []string) error {
		p, err := a.SelectPrompt(ctx, firstArg(args))
		if err != nil {
			return err
		}
		if p != nil {
			ui.Info(a.Notifier, "Selected %s", p.Name)
		}
		return nil
	})
	h.Register(ui.EventListSections, "  list sections", func(ctx context.Context, args []string) error {
		printSectionList(out, a)
		return nil
	})
	h.Register(ui.EventShowSection, "<section>  print a section", func(ctx context.Context, args []string) error {
		title := firstArg(args)
		content, err := a.Store.Get(title)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "▾ %s\n%s\n", title, content)
		return nil
	})
	h.Register(ui.EventEditSection, "<section> = <text>  replace a section", func(ctx context.Context, args []string) error {
		title, text, err := sectionAndText(args)
		if err != nil {
			return err
		}
		return a.Store.SetContent(title, text)
	})
	h.Register(ui.EventAppendSection, "<section> = <text>  append to a section", func(ctx context.Context, args []string) error {
		title, text, err := sectionAndText(args)
		if err != nil {
			return err
		}
		return a.Store.Append(title, text, true)
	})
	h.Register(ui.EventCollapse, "<section>  collapse or expand a section", func(ctx context.Context, args []string) error {
		_, err := a.ToggleCollapsed(ctx, firstArg(args))
		return err
	})
	h.Register(ui.EventSaveVersion, "[name]  save a version", func(ctx context.Context, args []string) error {
		saved, err := a.SaveVersion(ctx, firstArg(args))
		if errors.Is(err, versions.ErrCancelled) {
			ui.Info(a.Notifier, "Save cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		ui.Success(a.Notifier, "Version %s saved successfully", saved)
		return nil
	})
	h.Register(ui.EventListVersions, "  list versions", func(ctx context.Context, args []string) error {
		n := 0
		for info, err := range a.Versions.List(ctx) {
			if err != nil {
				return fmt.Errorf("failed to load versions list: %w", err)
			}
			n++
			fmt.Fprintln(out, info.Name)
		}
		if n == 0 {
			fmt.Fprintln(out, "No versions found")
		}
		return nil
	})
	h.Register(ui.EventLoadVersion, "<name>  load a version", func(ctx context.Context, args []string) error {
		report, err := a.Versions.Load(ctx, firstArg(args))
		if err != nil {
			return err
		}
		ui.Success(a.Notifier, "Version %s loaded successfully", report.Name)
		return nil
	})
	h.Register(ui.EventDeleteVersion, "<name>  delete a version", func(ctx context.Context, args []string) error {
		name := firstArg(args)
		err := a.Versions.Delete(ctx, name, a.Confirmer)
		if errors.Is(err, versions.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		ui.Success(a.Notifier, "Version %s deleted successfully", name)
		return nil
	})
	h.Register(ui.EventRequiredDocs, "  show required documents", func(ctx context.Context, args []string) error {
		docs, err := a.RefreshRequired(ctx)
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintf(out, "%s %3d%%  %s\n", applicabilityBar(d.Applicability), d.Applicability, d.Name)
		}
		return nil
	})
	h.Register(ui.EventPrint, "[path]  download the printable document", func(ctx context.Context, args []string) error {
		path, n, err := a.Print(ctx, firstArg(args))
		if err != nil {
			return err
		}
		ui.Success(a.Notifier, "Wrote %s (%d bytes)", path, n)
		return nil
	})
	h.Register(ui.EventNewSession, "  start a new session", func(ctx context.Context, args []string) error {
		ok, err := a.Confirmer.Confirm("Start a new session? Unsaved sections will be cleared")
		if err != nil || !ok {
			return err
		}
		if err := a.NewSession(ctx); err != nil {
			return err
		}
		ui.Success(a.Notifier, "New session started")
		return nil
	})
	h.Register(ui.EventClearChat, "  clear the conversation", func(ctx context.Context, args []string) error {
		return a.Transcript.Clear(ctx)
	})
	h.Register(ui.EventSelectModel, "<provider> <model>  switch model (clears the conversation)", func(ctx context.Context, args []string) error {
		fields := strings.Fields(firstArg(args))
		if len(fields) != 2 {
			return errors.New("usage: /model <provider> <model>")
		}
		if err := a.SelectModel(ctx, fields[0], fields[1]); err != nil {
			return err
		}
		ui.Success(a.Notifier, "Model changed to %s %s", fields[0], fields[1])
		return nil
	})
	h.Register(ui.EventHelp, "  this help", func(ctx context.Context, args []string) error {
		for _, line := range h.Usage() {
			fmt.Fprintf(out, "/%s\n", line)
		}
		fmt.Fprintln(out, "/quit")
		return nil
	})
}
