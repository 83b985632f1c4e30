package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/apperr"
)

// Event names a user action the UI layer can dispatch.
type Event string

const (
	EventSendMessage   Event = "send"
	EventEditSection   Event = "set"
	EventAppendSection Event = "append"
	EventShowSection   Event = "show"
	EventListSections  Event = "sections"
	EventLoadResponse  Event = "load"
	EventToggleAppend  Event = "mode"
	EventSelectPrompt  Event = "prompt"
	EventSaveVersion   Event = "save"
	EventListVersions  Event = "versions"
	EventLoadVersion   Event = "restore"
	EventDeleteVersion Event = "delete"
	EventRequiredDocs  Event = "required"
	EventPrint         Event = "print"
	EventNewSession    Event = "reset"
	EventClearChat     Event = "clear"
	EventSelectModel   Event = "model"
	EventCollapse      Event = "collapse"
	EventHelp          Event = "help"
)

// Handler reacts to one dispatched event.
type Handler func(ctx context.Context, args []string) error

type registration struct {
	handler Handler
	usage   string
}

// Handlers maps events to handler functions. Dispatch never lets a handler
// error escape as fatal: every error is logged and surfaced, and the
// triggering event is re-enabled before Dispatch returns.
type Handlers struct {
	mu       sync.Mutex
	byEvent  map[Event]registration
	notifier Notifier
	logger   zerolog.Logger
	busy     *Busy
}

// NewHandlers creates an empty registry.
func NewHandlers(notifier Notifier, logger zerolog.Logger) *Handlers {
	return &Handlers{
		byEvent:  make(map[Event]registration),
		notifier: notifier,
		logger:   logger,
		busy:     NewBusy(),
	}
}

// Register binds h to ev, replacing any previous handler.
func (h *Handlers) Register(ev Event, usage string, handler Handler) {
	h.mu.Lock()
	h.byEvent[ev] = registration{handler: handler, usage: usage}
	h.mu.Unlock()
}

// ErrUnknownEvent is returned by Dispatch for unregistered events.
var ErrUnknownEvent = errors.New("unknown command")

// Dispatch runs the handler for ev.
func (h *Handlers) Dispatch(ctx context.Context, ev Event, args []string) error {
	h.mu.Lock()
	reg, ok := h.byEvent[ev]
	h.mu.Unlock()
	if !ok {
		Warn(h.notifier, "%s: %s", ErrUnknownEvent, ev)
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev)
	}

	err := h.busy.Run(string(ev), func() error { return reg.handler(ctx, args) })
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(ev)).Str("kind", string(apperr.Kind(err))).Msg("handler failed")
		Error(h.notifier, "%v", err)
	}
	return err
}

// Usage returns "event usage" lines sorted by event name.
func (h *Handlers) Usage() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	lines := make([]string, 0, len(h.byEvent))
	for ev, reg := range h.byEvent {
		lines = append(lines, fmt.Sprintf("%-10s %s", ev, reg.usage))
	}
	sort.Strings(lines)
	return lines
}
