package persister

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/ui"
)

const testDelay = 40 * time.Millisecond

type saveCall struct {
	section string
	content string
}

type fakeSaver struct {
	mu    sync.Mutex
	calls []saveCall
	err   error
}

func (f *fakeSaver) UpdateSection(_ context.Context, section, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, saveCall{section, content})
	return f.err
}

func (f *fakeSaver) Calls() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]saveCall(nil), f.calls...)
}

func (f *fakeSaver) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func setupTest(t *testing.T, opts ...Option) (*document.Store, *Persister, *fakeSaver, *ui.Recorder) {
	t.Helper()
	store := document.NewStore(
		document.NewTemplate([]string{"Executive Summary", "Market Research", "Scratch Pad"}, "Scratch Pad"),
		zerolog.Nop(),
	)
	saver := &fakeSaver{}
	rec := &ui.Recorder{}
	opts = append([]Option{WithDelay(testDelay), WithNotifier(rec)}, opts...)
	p := New(saver, store, opts...)
	store.OnChange(p.Schedule)
	return store, p, saver, rec
}

func TestRapidEditsCoalesceIntoOneSave(t *testing.T) {
	store, p, saver, _ := setupTest(t)

	for _, text := range []string{"d", "dr", "dra", "draf", "draft"} {
		require.NoError(t, store.SetContent("Market Research", text))
	}
	assert.Equal(t, []string{"Market Research"}, p.Pending())

	require.Eventually(t, func() bool { return len(saver.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)

	assert.Equal(t, []saveCall{{"Market Research", "draft"}}, saver.Calls())
	assert.Empty(t, p.Pending())
}

func TestSectionsHaveIndependentTimers(t *testing.T) {
	store, _, saver, _ := setupTest(t)

	require.NoError(t, store.SetContent("Executive Summary", "summary"))
	require.NoError(t, store.SetContent("Market Research", "vendors"))
	require.NoError(t, store.SetContent("Executive Summary", "summary v2"))

	require.Eventually(t, func() bool { return len(saver.Calls()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)

	assert.ElementsMatch(t, []saveCall{
		{"Executive Summary", "summary v2"},
		{"Market Research", "vendors"},
	}, saver.Calls())
}

func TestEditsAfterWindowSaveAgain(t *testing.T) {
	store, _, saver, _ := setupTest(t)

	require.NoError(t, store.SetContent("Scratch Pad", "one"))
	require.Eventually(t, func() bool { return len(saver.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.SetContent("Scratch Pad", "two"))
	require.Eventually(t, func() bool { return len(saver.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, "two", saver.Calls()[1].content)
}

func TestFailedSaveIsSurfacedAndDoesNotBlock(t *testing.T) {
	store, _, saver, rec := setupTest(t)
	saver.setErr(errors.New("HTTP error! status: 500"))

	require.NoError(t, store.SetContent("Market Research", "first"))
	require.Eventually(t, func() bool { return rec.Count(ui.LevelError) == 1 }, time.Second, 5*time.Millisecond)

	saver.setErr(nil)
	require.NoError(t, store.SetContent("Market Research", "second"))
	require.Eventually(t, func() bool { return len(saver.Calls()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "second", saver.Calls()[1].content)
	assert.Contains(t, rec.All()[0].Message, "Market Research")
}

func TestFlushSavesPendingImmediately(t *testing.T) {
	var after []string
	var mu sync.Mutex
	store, p, saver, _ := setupTest(t,
		WithDelay(time.Hour),
		WithAfterSave(func(_ context.Context, title string) {
			mu.Lock()
			after = append(after, title)
			mu.Unlock()
		}),
	)

	require.NoError(t, store.SetContent("Executive Summary", "a"))
	require.NoError(t, store.SetContent("Market Research", "b"))
	require.NoError(t, p.Flush(context.Background()))

	assert.Equal(t, []saveCall{
		{"Executive Summary", "a"},
		{"Market Research", "b"},
	}, saver.Calls())
	assert.Empty(t, p.Pending())
	mu.Lock()
	assert.Equal(t, []string{"Executive Summary", "Market Research"}, after)
	mu.Unlock()
}

func TestFlushReportsErrors(t *testing.T) {
	store, p, saver, _ := setupTest(t, WithDelay(time.Hour))
	saver.setErr(errors.New("offline"))

	require.NoError(t, store.SetContent("Scratch Pad", "notes"))
	err := p.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestTimerAfterFlushIsNoop(t *testing.T) {
	store, p, saver, _ := setupTest(t)

	require.NoError(t, store.SetContent("Scratch Pad", "notes"))
	require.NoError(t, p.Flush(context.Background()))
	time.Sleep(3 * testDelay)

	assert.Len(t, saver.Calls(), 1)
}

func TestDiscardDropsPendingSaves(t *testing.T) {
	store, p, saver, _ := setupTest(t)

	require.NoError(t, store.SetContent("Market Research", "stale"))
	p.Discard()
	time.Sleep(3 * testDelay)

	assert.Empty(t, saver.Calls())
	assert.Empty(t, p.Pending())
}

type blockingSaver struct {
	started chan string
	release chan struct{}

	mu    sync.Mutex
	saved []string
}

func (b *blockingSaver) UpdateSection(_ context.Context, section, _ string) error {
	b.started <- section
	<-b.release
	b.mu.Lock()
	b.saved = append(b.saved, section)
	b.mu.Unlock()
	return nil
}

func TestFlushWaitsForTimerSaveInFlight(t *testing.T) {
	store := document.NewStore(
		document.NewTemplate([]string{"Executive Summary", "Scratch Pad"}, "Scratch Pad"),
		zerolog.Nop(),
	)
	saver := &blockingSaver{started: make(chan string, 1), release: make(chan struct{})}
	p := New(saver, store, WithDelay(testDelay))
	store.OnChange(p.Schedule)

	require.NoError(t, store.SetContent("Executive Summary", "draft"))
	select {
	case <-saver.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timer save never started")
	}

	flushed := make(chan error, 1)
	go func() { flushed <- p.Flush(context.Background()) }()

	select {
	case <-flushed:
		t.Fatal("flush returned while a save was in flight")
	case <-time.After(3 * testDelay):
	}

	close(saver.release)
	select {
	case err := <-flushed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("flush never returned")
	}
	saver.mu.Lock()
	defer saver.mu.Unlock()
	assert.Equal(t, []string{"Executive Summary"}, saver.saved)
}

func TestConcurrentEditsAndFlushes(t *testing.T) {
	store, p, saver, _ := setupTest(t)
	titles := []string{"Executive Summary", "Market Research", "Scratch Pad"}

	var wg sync.WaitGroup
	for i := range 30 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SetContent(titles[i%len(titles)], "edit")
		}()
		go func() {
			defer wg.Done()
			_ = p.Flush(context.Background())
		}()
	}
	wg.Wait()

	require.NoError(t, p.Flush(context.Background()))
	assert.Empty(t, p.Pending())
	assert.NotEmpty(t, saver.Calls())
}
