// Package router decides which document section an assistant response is
// written into and performs the write once the user confirms it.
package router

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/ui"
)

// Offer lists the destinations available for one response. Primary is empty
// when the backend suggested nothing usable; ScratchPad is always set.
type Offer struct {
	Primary    string
	ScratchPad string
}

// Targets returns the offered titles, primary first.
func (o Offer) Targets() []string {
	if o.Primary == "" || o.Primary == o.ScratchPad {
		return []string{o.ScratchPad}
	}
	return []string{o.Primary, o.ScratchPad}
}

// Default is the title a confirmation without an explicit choice writes to.
func (o Offer) Default() string {
	if o.Primary != "" {
		return o.Primary
	}
	return o.ScratchPad
}

// Router maps responses to sections of a Store.
type Router struct {
	store    *document.Store
	revealer ui.Revealer
	logger   zerolog.Logger
}

// New creates a router writing into store. revealer may be nil.
func New(store *document.Store, revealer ui.Revealer, logger zerolog.Logger) *Router {
	return &Router{store: store, revealer: revealer, logger: logger}
}

// Resolve builds the offer for a suggested section. Only an exact title match
// of the suggestion is offered as primary.
func (r *Router) Resolve(suggested string) Offer {
	tmpl := r.store.Template()
	offer := Offer{ScratchPad: tmpl.ScratchPad()}
	suggested = strings.TrimSpace(suggested)
	if suggested != "" && tmpl.Has(suggested) {
		offer.Primary = suggested
	} else if suggested != "" {
		r.logger.Debug().Str("suggested", suggested).Msg("suggested section not in template")
	}
	return offer
}

// Confirm writes text into target using appendMode as toggled at the moment
// of confirmation, then reveals the section. A target that is no longer in
// the template yields SectionNotFoundError and leaves the store untouched.
func (r *Router) Confirm(_ context.Context, text, target string, appendMode bool) error {
	err := r.store.Append(target, text, appendMode)
	var unknown *apperr.UnknownSectionError
	if errors.As(err, &unknown) {
		return &apperr.SectionNotFoundError{Title: target}
	}
	if err != nil {
		return err
	}

	r.logger.Info().Str("section", target).Bool("append", appendMode).Int("chars", len(text)).Msg("response loaded into section")
	if r.revealer != nil {
		r.revealer.Reveal(target)
	}
	return nil
}
