package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/draftdesk/internal/api"
	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/chat"
	"github.com/ziadkadry99/draftdesk/internal/config"
	"github.com/ziadkadry99/draftdesk/internal/db"
	"github.com/ziadkadry99/draftdesk/internal/persister"
	"github.com/ziadkadry99/draftdesk/internal/server"
	"github.com/ziadkadry99/draftdesk/internal/transcript"
	"github.com/ziadkadry99/draftdesk/internal/ui"
	"github.com/ziadkadry99/draftdesk/internal/versions"
)

type fixture struct {
	app      *App
	backend  *server.State
	notes    *ui.Recorder
	revealed []string
}

func setupTest(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{notes: &ui.Recorder{}}

	f.backend = server.NewState("Acquisition Strategy", config.DefaultSections)
	ts := httptest.NewServer(server.New(server.Config{}, f.backend, zerolog.Nop()).Router())
	t.Cleanup(ts.Close)

	database, err := db.OpenMemory()
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.BackendURL = ts.URL
	cfg.DebounceMS = 20
	cfg.OutputDir = t.TempDir()

	f.app, err = New(context.Background(), cfg, Options{
		Logger:    zerolog.Nop(),
		Notifier:  f.notes,
		Confirmer: ui.Auto{Answer: true},
		Prompter:  ui.Auto{Answer: true},
		Revealer:  ui.RevealFunc(func(title string) { f.revealed = append(f.revealed, title) }),
		DB:        database,
		Client:    api.New(ts.URL, 5*time.Second),
	})
	require.NoError(t, err)
	t.Cleanup(func() { f.app.Close(context.Background()) })
	return f
}

func TestHydrateFromBackend(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	require.NoError(t, f.app.Client.UpdateSection(ctx, "Risk Assessment", "from server"))

	require.NoError(t, f.app.Hydrate(ctx))
	got, err := f.app.Store.Get("Risk Assessment")
	require.NoError(t, err)
	assert.Equal(t, "from server", got)
	assert.Equal(t, "Acquisition Strategy", f.app.Title())
	assert.Empty(t, f.app.Persister.Pending(), "hydration does not echo content back")
}

func TestEditsReachBackendAndRefreshRequiredDocs(t *testing.T) {
	f := setupTest(t)
	require.NoError(t, f.app.Store.SetContent("Market Research", "three vendors"))

	require.Eventually(t, func() bool {
		return f.backend.SectionContent("Market Research") == "three vendors"
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return len(f.app.RequiredDocuments()) > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCloseFlushesPendingEdits(t *testing.T) {
	f := setupTest(t)

	require.NoError(t, f.app.Store.SetContent("Executive Summary", "final words"))
	require.NoError(t, f.app.Persister.Flush(context.Background()))
	assert.Equal(t, "final words", f.backend.SectionContent("Executive Summary"))
	assert.Empty(t, f.app.Persister.Pending())
}

func TestChatResponseLoadRevealsSection(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	require.NoError(t, f.app.Session.SetCollapsed(ctx, "Market Research", true))

	p, err := f.app.SelectPrompt(ctx, "market-analysis")
	require.NoError(t, err)
	assert.Equal(t, "Market Research", p.TargetSection)

	reply, err := f.app.Chat.Send(ctx, "summarize competitors")
	require.NoError(t, err)
	_, err = f.app.Chat.LoadLast(ctx, "", chat.LoadSessionMode)
	require.NoError(t, err)

	got, _ := f.app.Store.Get("Market Research")
	assert.Equal(t, reply.Message.Content, got)
	assert.False(t, f.app.Session.Collapsed("Market Research"))
	assert.Equal(t, []string{"Market Research"}, f.revealed)
}

func TestSelectModelClearsTranscript(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	_, err := f.app.Transcript.Add(ctx, transcript.User("hello", ""))
	require.NoError(t, err)

	require.NoError(t, f.app.SelectModel(ctx, "openai", "gpt-4"))
	msgs, err := f.app.Transcript.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, "gpt-4", f.app.Session.State().Model)

	cur, err := f.app.Client.CurrentModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "openai", cur.Provider)
}

func TestNewSession(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	require.NoError(t, f.app.Store.SetContent("Scratch Pad", "notes"))
	_, _ = f.app.Transcript.Add(ctx, transcript.User("hi", ""))

	require.NoError(t, f.app.NewSession(ctx))

	got, _ := f.app.Store.Get("Scratch Pad")
	assert.Empty(t, got)
	assert.Empty(t, f.app.Persister.Pending())
	msgs, _ := f.app.Transcript.List(ctx)
	assert.Empty(t, msgs)
}

func TestPrint(t *testing.T) {
	f := setupTest(t)
	require.NoError(t, f.app.Store.SetContent("Executive Summary", "Buy two licences."))

	path, n, err := f.app.Print(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.app.Config.OutputDir, DefaultPrintFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Contains(t, string(data), "Buy two licences.")
}

func TestExport(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	require.NoError(t, f.app.Store.SetContent("Executive Summary", "Buy **two** licences."))
	_, _ = f.app.Transcript.Add(ctx, transcript.Assistant("Consider a lease.", ""))

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "draft.html")
	require.NoError(t, f.app.Export(ctx, htmlPath, FormatHTML, true))
	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<strong>two</strong>")
	assert.Contains(t, string(data), "Consider a lease.")

	mdPath := filepath.Join(dir, "draft.md")
	require.NoError(t, f.app.Export(ctx, mdPath, FormatMarkdown, false))
	data, err = os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Executive Summary")
	assert.NotContains(t, string(data), "Consider a lease.")

	assert.Error(t, f.app.Export(ctx, filepath.Join(dir, "draft.pdf"), "pdf", false))
}

type cancelPrompter struct{ asked []string }

func (c *cancelPrompter) Prompt(label, defaultValue string) (string, bool, error) {
	c.asked = append(c.asked, label+"|"+defaultValue)
	return "", false, nil
}

func TestSaveVersionPromptsForName(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	require.NoError(t, f.app.Store.SetContent("Executive Summary", "pending edit"))

	saved, err := f.app.SaveVersion(ctx, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved, versions.NamePrefix))
	assert.Equal(t, "pending edit", f.backend.SectionContent("Executive Summary"), "edits are flushed first")

	f.app.Prompter = ui.Auto{Value: "board-review"}
	saved, err = f.app.SaveVersion(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "board-review.json", saved)

	_, err = f.app.SaveVersion(ctx, "board-review")
	assert.Equal(t, apperr.KindValidation, apperr.Kind(err))
}

func TestSaveVersionCancelled(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	p := &cancelPrompter{}
	f.app.Prompter = p

	_, err := f.app.SaveVersion(ctx, "")
	assert.ErrorIs(t, err, versions.ErrCancelled)
	require.Len(t, p.asked, 1)
	assert.Contains(t, p.asked[0], "Enter filename for this version|"+versions.NamePrefix)

	names, err := f.app.Client.ListVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = f.app.SaveVersion(ctx, "explicit")
	require.NoError(t, err)
	assert.Len(t, p.asked, 1, "a given name is not prompted for")
}

func TestSectionsMarkUnsavedEdits(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	f.app.Persister = persister.New(f.app.Client, f.app.Store, persister.WithDelay(time.Hour))
	f.app.Store.OnChange(f.app.Persister.Schedule)
	require.NoError(t, f.app.Session.SetCollapsed(ctx, "Risk Assessment", true))

	require.NoError(t, f.app.Store.SetContent("Market Research", "three vendors"))
	byTitle := map[string]SectionStatus{}
	for _, sec := range f.app.Sections() {
		byTitle[sec.Title] = sec
	}
	assert.Len(t, byTitle, len(config.DefaultSections))
	assert.True(t, byTitle["Market Research"].Unsaved)
	assert.Equal(t, len("three vendors"), byTitle["Market Research"].Chars)
	assert.False(t, byTitle["Executive Summary"].Unsaved)
	assert.True(t, byTitle["Risk Assessment"].Collapsed)

	require.NoError(t, f.app.Persister.Flush(ctx))
	for _, sec := range f.app.Sections() {
		assert.False(t, sec.Unsaved, sec.Title)
	}
}

func TestToggleCollapsed(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()

	collapsed, err := f.app.ToggleCollapsed(ctx, "Market Research")
	require.NoError(t, err)
	assert.True(t, collapsed)
	assert.True(t, f.app.Session.Collapsed("Market Research"))

	collapsed, err = f.app.ToggleCollapsed(ctx, "Market Research")
	require.NoError(t, err)
	assert.False(t, collapsed)

	_, err = f.app.ToggleCollapsed(ctx, "Appendix Z")
	assert.Equal(t, apperr.KindUnknownSection, apperr.Kind(err))
	var unknown *apperr.UnknownSectionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Appendix Z", unknown.Title)
}

func TestChatSendsUploadedDocuments(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()
	var (
		mu   sync.Mutex
		seen []string
	)
	f.backend.SetResponder(func(in server.ChatInput, p *server.Prompt) server.ChatOutput {
		mu.Lock()
		seen = in.UploadedDocuments
		mu.Unlock()
		return server.EchoResponder(in, p)
	})

	require.NoError(t, f.app.Client.Upload(ctx, "market-survey.txt", strings.NewReader("survey of 40 buyers")))
	assert.Equal(t, []string{"market-survey.txt"}, f.app.Chat.Request(ctx, "summarize competitors").UploadedDocuments)

	_, err := f.app.Chat.Send(ctx, "summarize competitors")
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"market-survey.txt"}, seen)
}
