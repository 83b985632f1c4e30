// Package app builds draftdesk's components from configuration and wires
// them together. One App is constructed per process and passed by
// reference to every command.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/api"
	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/chat"
	"github.com/ziadkadry99/draftdesk/internal/config"
	"github.com/ziadkadry99/draftdesk/internal/db"
	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/logging"
	"github.com/ziadkadry99/draftdesk/internal/persister"
	"github.com/ziadkadry99/draftdesk/internal/render"
	"github.com/ziadkadry99/draftdesk/internal/router"
	"github.com/ziadkadry99/draftdesk/internal/session"
	"github.com/ziadkadry99/draftdesk/internal/transcript"
	"github.com/ziadkadry99/draftdesk/internal/ui"
	"github.com/ziadkadry99/draftdesk/internal/versions"
)

// DefaultPrintFile is where Print writes when no path is given.
const DefaultPrintFile = "acquisition_strategy.pdf"

// Options supplies the collaborators that differ between the terminal and
// tests. Zero values get terminal defaults.
type Options struct {
	Logger    zerolog.Logger
	Notifier  ui.Notifier
	Confirmer ui.Confirmer
	Prompter  ui.Prompter
	Revealer  ui.Revealer
	// DB overrides opening Config.StatePath.
	DB *db.DB
	// Client overrides the HTTP client built from Config.
	Client *api.Client
}

// App owns one instance of every component.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Notifier   ui.Notifier
	Confirmer  ui.Confirmer
	Prompter   ui.Prompter
	Client     *api.Client
	DB         *db.DB
	Store      *document.Store
	Persister  *persister.Persister
	Router     *router.Router
	Versions   *versions.Manager
	Session    *session.Session
	Transcript *transcript.Store
	Chat       *chat.Service
	Renderer   *render.Renderer

	title    string
	revealer ui.Revealer

	mu       sync.Mutex
	required []api.RequiredDocument
}

// New constructs the application. It does not contact the backend; call
// Hydrate for that.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    opts.Logger,
		Notifier:  opts.Notifier,
		Confirmer: opts.Confirmer,
		Prompter:  opts.Prompter,
		revealer:  opts.Revealer,
		Client:    opts.Client,
		DB:        opts.DB,
	}
	if a.Notifier == nil {
		a.Notifier = ui.NewTerminalNotifier(os.Stdout)
	}
	if a.Confirmer == nil {
		a.Confirmer = ui.Terminal{}
	}
	if a.Prompter == nil {
		a.Prompter = ui.Terminal{}
	}
	if a.Client == nil {
		a.Client = api.New(cfg.BackendURL, cfg.Timeout(), api.WithLogger(logging.Component(a.Logger, "api")))
	}
	if a.DB == nil {
		database, err := db.Open(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("opening state database: %w", err)
		}
		a.DB = database
	}

	sess, err := session.Load(ctx, db.NewKV(a.DB), session.State{
		Provider:        string(cfg.Provider),
		Model:           cfg.Model,
		AppendMode:      cfg.AppendDefault,
		IncludeSections: cfg.IncludeSections,
	})
	if err != nil {
		a.DB.Close()
		return nil, err
	}
	a.Session = sess

	a.Store = document.NewStore(
		document.NewTemplate(cfg.Sections, config.ScratchPad),
		logging.Component(a.Logger, "store"),
	)
	a.Persister = persister.New(a.Client, a.Store,
		persister.WithDelay(cfg.Debounce()),
		persister.WithNotifier(a.Notifier),
		persister.WithLogger(logging.Component(a.Logger, "persister")),
		persister.WithContext(ctx),
		persister.WithAfterSave(func(ctx context.Context, _ string) {
			if _, err := a.RefreshRequired(ctx); err != nil {
				a.Logger.Warn().Err(err).Msg("refreshing required documents")
			}
		}),
	)
	a.Store.OnChange(a.Persister.Schedule)

	a.Router = router.New(a.Store, ui.RevealFunc(a.reveal), logging.Component(a.Logger, "router"))
	a.Versions = versions.New(a.Client, a.Store,
		versions.WithNotifier(a.Notifier),
		versions.WithLogger(logging.Component(a.Logger, "versions")),
	)
	a.Transcript = transcript.NewStore(a.DB)
	a.Chat = chat.NewService(a.Client, a.Store, a.Transcript, a.Router, a.Session, logging.Component(a.Logger, "chat"))

	if a.Renderer, err = render.New(); err != nil {
		a.DB.Close()
		return nil, err
	}
	return a, nil
}

// Hydrate loads the backend's copy of the draft into the store.
func (a *App) Hydrate(ctx context.Context) error {
	doc, err := a.Client.GetDocument(ctx)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	a.title = doc.Title
	for _, title := range a.Store.Hydrate(doc.Sections) {
		a.Logger.Warn().Str("section", title).Msg("backend section not in template")
	}
	return nil
}

// Title is the document title reported by the backend.
func (a *App) Title() string {
	if a.title == "" {
		return "Acquisition Strategy"
	}
	return a.title
}

// reveal expands a section's panel and hands it to the UI.
func (a *App) reveal(title string) {
	if a.Session.Collapsed(title) {
		if err := a.Session.SetCollapsed(context.Background(), title, false); err != nil {
			a.Logger.Warn().Err(err).Str("section", title).Msg("expanding section")
		}
	}
	if a.revealer != nil {
		a.revealer.Reveal(title)
	}
}

// RefreshRequired fetches the required-documents view and caches it.
func (a *App) RefreshRequired(ctx context.Context) ([]api.RequiredDocument, error) {
	docs, err := a.Client.RequiredDocuments(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.required = docs
	a.mu.Unlock()
	return docs, nil
}

// RequiredDocuments returns the last fetched required-documents view.
func (a *App) RequiredDocuments() []api.RequiredDocument {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]api.RequiredDocument(nil), a.required...)
}

// SectionStatus describes one section for listings.
type SectionStatus struct {
	Title     string
	Chars     int
	Collapsed bool
	// Unsaved is set while an edit waits for its debounce timer.
	Unsaved bool
}

// Sections reports every section in template order.
func (a *App) Sections() []SectionStatus {
	pending := a.Persister.Pending()
	var out []SectionStatus
	for _, sec := range a.Store.GetAll().Sections {
		out = append(out, SectionStatus{
			Title:     sec.Title,
			Chars:     len(sec.Content),
			Collapsed: a.Session.Collapsed(sec.Title),
			Unsaved:   slices.Contains(pending, sec.Title),
		})
	}
	return out
}

// ToggleCollapsed flips a section's collapsed flag and returns the new value.
func (a *App) ToggleCollapsed(ctx context.Context, title string) (bool, error) {
	if !a.Store.Has(title) {
		return false, &apperr.UnknownSectionError{Title: title}
	}
	collapsed := !a.Session.Collapsed(title)
	if err := a.Session.SetCollapsed(ctx, title, collapsed); err != nil {
		return false, err
	}
	return collapsed, nil
}

// SaveVersion sends pending edits and saves the draft as a version. With an
// empty name the user is asked for one, defaulting to a timestamped name;
// declining returns versions.ErrCancelled.
func (a *App) SaveVersion(ctx context.Context, name string) (string, error) {
	if name == "" {
		value, ok, err := a.Prompter.Prompt("Enter filename for this version", versions.DefaultName(time.Now()))
		if err != nil {
			return "", err
		}
		if !ok {
			return "", versions.ErrCancelled
		}
		name = value
	}
	if err := a.Persister.Flush(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("flushing before version save")
	}
	// Populate the listing so duplicates are caught before the request.
	for _, err := range a.Versions.List(ctx) {
		if err != nil {
			return "", err
		}
	}
	return a.Versions.Save(ctx, name)
}

// SelectPrompt makes id the prompt sent with chat turns. An empty id clears
// the selection.
func (a *App) SelectPrompt(ctx context.Context, id string) (*api.Prompt, error) {
	if id == "" {
		return nil, a.Session.SelectPrompt(ctx, "", "")
	}
	p, err := a.Client.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := a.Session.SelectPrompt(ctx, id, p.TargetSection); err != nil {
		return nil, err
	}
	return p, nil
}

// SelectModel switches the backend model. The transcript is cleared since
// the conversation belonged to the previous model.
func (a *App) SelectModel(ctx context.Context, provider, model string) error {
	if err := a.Client.SelectModel(ctx, provider, model); err != nil {
		return err
	}
	if err := a.Session.SetModel(ctx, provider, model); err != nil {
		return err
	}
	return a.Transcript.Clear(ctx)
}

// NewSession clears the backend session, the transcript and every section.
// Unsent edits are dropped.
func (a *App) NewSession(ctx context.Context) error {
	if err := a.Client.ClearSession(ctx); err != nil {
		return err
	}
	a.Persister.Discard()
	a.Store.Reset()
	if err := a.Transcript.Clear(ctx); err != nil {
		return err
	}
	a.Logger.Info().Msg("session reset")
	return nil
}

// Print sends pending edits, then downloads the backend's rendering of the
// draft to path, or to OutputDir/DefaultPrintFile when path is empty.
func (a *App) Print(ctx context.Context, path string) (string, int64, error) {
	if err := a.Persister.Flush(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("flushing before print")
	}
	if path == "" {
		path = filepath.Join(a.Config.OutputDir, DefaultPrintFile)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", 0, fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating %s: %w", path, err)
	}
	n, err := a.Client.PrintDocument(ctx, a.Store.GetAll().Map(), f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	return path, n, nil
}

// Export formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "md"
)

// Export writes the draft, and the transcript when withChat is set, to path
// as HTML or Markdown.
func (a *App) Export(ctx context.Context, path, format string, withChat bool) error {
	if format != FormatHTML && format != FormatMarkdown {
		return fmt.Errorf("unknown export format %q", format)
	}
	var msgs []transcript.Message
	if withChat {
		var err error
		if msgs, err = a.Transcript.List(ctx); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	snap := a.Store.GetAll()
	if format == FormatHTML {
		return a.Renderer.HTML(f, render.Page{Title: a.Title(), Snapshot: snap, Transcript: msgs, GeneratedAt: snap.Timestamp})
	}
	if err := render.Markdown(f, a.Title(), snap, false); err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if _, err := f.WriteString("---\n\n"); err != nil {
		return err
	}
	return render.TranscriptMarkdown(f, msgs)
}

// Close sends pending edits and closes the state database.
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout()+time.Second)
	defer cancel()
	flushErr := a.Persister.Flush(ctx)
	return errors.Join(flushErr, a.DB.Close())
}
