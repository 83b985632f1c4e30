package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/server"
)

var testTitles = []string{"Executive Summary", "Market Research", "Risk Assessment", "Scratch Pad"}

func setupTest(t *testing.T) (*Client, *server.State) {
	t.Helper()
	state := server.NewState("Acquisition Strategy", testTitles)
	srv := server.New(server.Config{}, state, zerolog.Nop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return New(ts.URL, 5*time.Second), state
}

func TestListAndGetPrompts(t *testing.T) {
	c, _ := setupTest(t)
	ctx := context.Background()

	prompts, err := c.ListPrompts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, prompts)

	p, err := c.GetPrompt(ctx, "market-analysis")
	require.NoError(t, err)
	assert.Equal(t, "Market Analysis", p.Name)
	assert.Equal(t, "Market Research", p.TargetSection)

	_, err = c.GetPrompt(ctx, "missing")
	assert.Equal(t, apperr.KindBackend, apperr.Kind(err))
	assert.True(t, apperr.IsStatus(err, http.StatusNotFound))
}

func TestChat(t *testing.T) {
	c, _ := setupTest(t)
	ctx := context.Background()

	resp, err := c.Chat(ctx, ChatRequest{Message: "summarize competitors", PromptID: "market-analysis"})
	require.NoError(t, err)
	assert.Equal(t, "Market Research", resp.Suggested())

	_, err = c.Chat(ctx, ChatRequest{Message: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.Kind(err))
}

func TestChatErrorPayloadWithOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"API temporarily unavailable"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).Chat(context.Background(), ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindBackend, apperr.Kind(err))
	assert.Contains(t, err.Error(), "API temporarily unavailable")
}

func TestNon2xxWithoutPayloadIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).ListVersions(context.Background())
	assert.Equal(t, apperr.KindNetwork, apperr.Kind(err))
	assert.True(t, apperr.IsStatus(err, http.StatusBadGateway))
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := New(url, time.Second).ClearSession(context.Background())
	assert.Equal(t, apperr.KindNetwork, apperr.Kind(err))
}

func TestUpdateSectionAndGetDocument(t *testing.T) {
	c, state := setupTest(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateSection(ctx, "Risk Assessment", "schedule risk"))
	assert.Equal(t, "schedule risk", state.SectionContent("Risk Assessment"))

	doc, err := c.GetDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acquisition Strategy", doc.Title)
	require.Len(t, doc.Sections, len(testTitles))
	assert.Equal(t, "schedule risk", doc.Sections[2].Content)

	err = c.UpdateSection(ctx, "Unknown", "x")
	assert.True(t, apperr.IsStatus(err, http.StatusNotFound))
}

func TestVersionEndpoints(t *testing.T) {
	c, _ := setupTest(t)
	ctx := context.Background()

	versions, err := c.ListVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, versions)

	saved, err := c.SaveVersion(ctx, "AS-20241201-172159", []document.Section{
		{Title: "Executive Summary", Content: "summary"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AS-20241201-172159.json", saved)

	data, err := c.LoadVersion(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, []document.Section{{Title: "Executive Summary", Content: "summary"}}, data.Sections)

	require.NoError(t, c.DeleteVersion(ctx, saved))
	err = c.DeleteVersion(ctx, saved)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Version not found")
}

func TestLoadVersionMissingSections(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"old.json"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).LoadVersion(context.Background(), "old.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing sections array")
}

func TestUploadListDeleteDocuments(t *testing.T) {
	c, state := setupTest(t)
	ctx := context.Background()

	require.NoError(t, c.Upload(ctx, "market-survey.txt", strings.NewReader("vendor list")))
	assert.Equal(t, []string{"market-survey.txt"}, state.DocumentNames())

	docs, err := c.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"market-survey.txt"}, docs)

	require.NoError(t, c.DeleteDocument(ctx, "market-survey.txt"))
	err = c.DeleteDocument(ctx, "market-survey.txt")
	assert.True(t, apperr.IsStatus(err, http.StatusNotFound))

	err = c.Upload(ctx, "", strings.NewReader(""))
	assert.Equal(t, apperr.KindValidation, apperr.Kind(err))
}

func TestPrintDocument(t *testing.T) {
	c, _ := setupTest(t)

	var buf bytes.Buffer
	n, err := c.PrintDocument(context.Background(), map[string]string{
		"Market Research": "three vendors",
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "Market Research")
	assert.Contains(t, buf.String(), "three vendors")
}

func TestModels(t *testing.T) {
	c, _ := setupTest(t)
	ctx := context.Background()

	models, err := c.ListModels(ctx)
	require.NoError(t, err)
	assert.Len(t, models, 4)

	require.NoError(t, c.SelectModel(ctx, "google", "gemini-pro"))
	cur, err := c.CurrentModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, CurrentModel{Provider: "google", Version: "gemini-pro"}, *cur)

	err = c.SelectModel(ctx, "", "")
	assert.Equal(t, apperr.KindValidation, apperr.Kind(err))
}

func TestRequiredDocuments(t *testing.T) {
	c, _ := setupTest(t)
	docs, err := c.RequiredDocuments(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	for _, d := range docs {
		assert.GreaterOrEqual(t, d.Applicability, 0)
		assert.LessOrEqual(t, d.Applicability, 100)
	}
}
