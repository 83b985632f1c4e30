package router

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/ui"
)

var testTitles = []string{"Executive Summary", "Market Research", "Risk Assessment", "Scratch Pad"}

func setupTest(t *testing.T) (*Router, *document.Store, *[]string) {
	t.Helper()
	store := document.NewStore(document.NewTemplate(testTitles, "Scratch Pad"), zerolog.Nop())
	var revealed []string
	r := New(store, ui.RevealFunc(func(title string) { revealed = append(revealed, title) }), zerolog.Nop())
	return r, store, &revealed
}

func TestResolve(t *testing.T) {
	r, _, _ := setupTest(t)

	tests := []struct {
		name      string
		suggested string
		want      Offer
	}{
		{"known section", "Market Research", Offer{Primary: "Market Research", ScratchPad: "Scratch Pad"}},
		{"no suggestion", "", Offer{ScratchPad: "Scratch Pad"}},
		{"unknown section", "Competitor Matrix", Offer{ScratchPad: "Scratch Pad"}},
		{"case differs", "market research", Offer{ScratchPad: "Scratch Pad"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.suggested))
		})
	}
}

func TestOfferTargets(t *testing.T) {
	assert.Equal(t, []string{"Market Research", "Scratch Pad"}, Offer{Primary: "Market Research", ScratchPad: "Scratch Pad"}.Targets())
	assert.Equal(t, []string{"Scratch Pad"}, Offer{ScratchPad: "Scratch Pad"}.Targets())
	assert.Equal(t, []string{"Scratch Pad"}, Offer{Primary: "Scratch Pad", ScratchPad: "Scratch Pad"}.Targets())
	assert.Equal(t, "Scratch Pad", Offer{ScratchPad: "Scratch Pad"}.Default())
}

func TestMarketAnalysisScenario(t *testing.T) {
	r, store, revealed := setupTest(t)
	response := "Three competitors dominate the segment: A, B and C."

	offer := r.Resolve("Market Research")
	require.Equal(t, "Market Research", offer.Primary)
	require.NoError(t, r.Confirm(context.Background(), response, offer.Primary, true))

	got, err := store.Get("Market Research")
	require.NoError(t, err)
	assert.Equal(t, response, got)
	assert.Equal(t, []string{"Market Research"}, *revealed)
}

func TestConfirmModes(t *testing.T) {
	r, store, _ := setupTest(t)
	ctx := context.Background()
	require.NoError(t, store.SetContent("Risk Assessment", "existing"))

	require.NoError(t, r.Confirm(ctx, "more", "Risk Assessment", true))
	got, _ := store.Get("Risk Assessment")
	assert.Equal(t, "existing\n\nmore", got)

	require.NoError(t, r.Confirm(ctx, "only", "Risk Assessment", false))
	got, _ = store.Get("Risk Assessment")
	assert.Equal(t, "only", got)
}

func TestConfirmMissingSection(t *testing.T) {
	r, store, revealed := setupTest(t)
	err := r.Confirm(context.Background(), "text", "Appendix Z", true)

	assert.Equal(t, apperr.KindSectionNotFound, apperr.Kind(err))
	assert.Equal(t, `Section "Appendix Z" not found`, err.Error())
	assert.Empty(t, *revealed)
	for _, sec := range store.GetAll().Sections {
		assert.Empty(t, sec.Content)
	}
}
