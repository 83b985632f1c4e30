package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/draftdesk/internal/apperr"
)

func TestTerminalNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalNotifier(&buf)
	Success(n, "Version %q deleted successfully", "v1.json")
	Error(n, "Failed to load versions list: %s", "HTTP error! status: 500")

	assert.Equal(t,
		"✔ Version \"v1.json\" deleted successfully\n✘ Failed to load versions list: HTTP error! status: 500\n",
		buf.String())
}

func TestHandlersDispatch(t *testing.T) {
	rec := &Recorder{}
	h := NewHandlers(rec, zerolog.Nop())

	var got []string
	h.Register(EventShowSection, "<section>", func(_ context.Context, args []string) error {
		got = args
		return nil
	})

	require.NoError(t, h.Dispatch(context.Background(), EventShowSection, []string{"Market Research"}))
	assert.Equal(t, []string{"Market Research"}, got)
	assert.Empty(t, rec.All())
}

func TestHandlersErrorsAreSurfacedNotFatal(t *testing.T) {
	rec := &Recorder{}
	h := NewHandlers(rec, zerolog.Nop())
	h.Register(EventEditSection, "", func(context.Context, []string) error {
		return &apperr.UnknownSectionError{Title: "Appendix"}
	})

	err := h.Dispatch(context.Background(), EventEditSection, nil)
	assert.Equal(t, apperr.KindUnknownSection, apperr.Kind(err))
	assert.Equal(t, 1, rec.Count(LevelError))
	err = h.Dispatch(context.Background(), EventEditSection, nil)
	assert.Equal(t, apperr.KindUnknownSection, apperr.Kind(err), "trigger must be re-enabled after failure")

	err = h.Dispatch(context.Background(), "bogus", nil)
	assert.ErrorIs(t, err, ErrUnknownEvent)
	assert.Equal(t, 1, rec.Count(LevelWarning))
}

func TestBusyRejectsReentry(t *testing.T) {
	b := NewBusy()
	err := b.Run("save", func() error {
		return b.Run("save", func() error { return nil })
	})
	assert.ErrorIs(t, err, ErrBusy)
	assert.NoError(t, b.Run("save", func() error { return nil }))
	assert.NoError(t, b.Run("print", func() error { return nil }))
}

func TestBusyReleasesOnPanic(t *testing.T) {
	b := NewBusy()
	func() {
		defer func() { _ = recover() }()
		_ = b.Run("print", func() error { panic("boom") })
	}()
	assert.NoError(t, b.Run("print", func() error { return nil }))
}

func TestAutoAnswers(t *testing.T) {
	ok, err := Auto{Answer: true}.Confirm("Delete?")
	require.NoError(t, err)
	assert.True(t, ok)

	v, ok, err := Auto{}.Prompt("Name", "AS-20240101-000000")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AS-20240101-000000", v)

	v, _, _ = Auto{Value: "final"}.Prompt("Name", "default")
	assert.Equal(t, "final", v)
}
