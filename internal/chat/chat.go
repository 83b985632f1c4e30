// Package chat runs chat turns against the backend and keeps the
// transcript and the section router in step with them.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/api"
	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/router"
	"github.com/ziadkadry99/draftdesk/internal/session"
	"github.com/ziadkadry99/draftdesk/internal/transcript"
)

// Backend sends a chat turn and lists the documents it can consult.
type Backend interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	ListDocuments(ctx context.Context) ([]string, error)
}

// LoadMode selects how LoadLast writes into its target.
type LoadMode int

const (
	// LoadSessionMode follows the session's append toggle.
	LoadSessionMode LoadMode = iota
	LoadAppend
	LoadOverwrite
)

func (m LoadMode) appendTo(st session.State) bool {
	switch m {
	case LoadAppend:
		return true
	case LoadOverwrite:
		return false
	default:
		return st.AppendMode
	}
}

// Transcript records and reads back chat messages.
type Transcript interface {
	Add(ctx context.Context, msg transcript.Message) (*transcript.Message, error)
	LastAssistant(ctx context.Context) (*transcript.Message, bool, error)
}

// Reply is the outcome of a successful turn.
type Reply struct {
	Message *transcript.Message
	Offer   router.Offer
}

// Service runs chat turns.
type Service struct {
	backend    Backend
	store      *document.Store
	transcript Transcript
	router     *router.Router
	session    *session.Session
	logger     zerolog.Logger
}

// NewService wires a chat service.
func NewService(backend Backend, store *document.Store, tr Transcript, r *router.Router, sess *session.Session, logger zerolog.Logger) *Service {
	return &Service{
		backend:    backend,
		store:      store,
		transcript: tr,
		router:     r,
		session:    sess,
		logger:     logger,
	}
}

// Request builds the chat request for message from the current session, the
// draft and the backend's uploaded documents. A failed document listing is
// logged and the turn goes out without it.
func (s *Service) Request(ctx context.Context, message string) api.ChatRequest {
	st := s.session.State()
	req := api.ChatRequest{
		Message:         message,
		Provider:        st.Provider,
		Model:           st.Model,
		PromptID:        st.PromptID,
		TargetSection:   st.PromptTarget,
		IncludeSections: st.IncludeSections,
	}
	if st.IncludeSections {
		req.CurrentContent = s.store.GetAll().NonEmpty()
	}
	docs, err := s.backend.ListDocuments(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("listing uploaded documents")
	} else if len(docs) > 0 {
		req.UploadedDocuments = docs
	}
	return req
}

// Send runs one turn. The user message is recorded before the request; the
// assistant reply, or an error message, after it. A failed turn returns the
// error and leaves the transcript usable.
func (s *Service) Send(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validation("", "Please enter a message")
	}

	req := s.Request(ctx, message)
	if _, err := s.transcript.Add(ctx, transcript.User(message, req.PromptID)); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("prompt", req.PromptID).Bool("include_sections", req.IncludeSections).Int("sections", len(req.CurrentContent)).Int("documents", len(req.UploadedDocuments)).Msg("sending chat turn")
	resp, err := s.backend.Chat(ctx, req)
	if err != nil {
		if _, recErr := s.transcript.Add(ctx, transcript.Error(err)); recErr != nil {
			s.logger.Error().Err(recErr).Msg("recording chat error")
		}
		return nil, err
	}

	suggested := resp.Suggested()
	msg, err := s.transcript.Add(ctx, transcript.Assistant(resp.Response, suggested))
	if err != nil {
		return nil, err
	}
	offer := s.router.Resolve(suggested)
	if offer.Primary != "" {
		ask := fmt.Sprintf("Would you like to update the %q section with this response?", offer.Primary)
		if _, err := s.transcript.Add(ctx, transcript.System(ask)); err != nil {
			s.logger.Error().Err(err).Msg("recording load suggestion")
		}
	}
	return &Reply{Message: msg, Offer: offer}, nil
}

// LoadLast writes the most recent assistant response into target, or into
// the offered default when target is empty. With LoadSessionMode the append
// toggle is read from the session at this moment; the other modes leave the
// session untouched.
func (s *Service) LoadLast(ctx context.Context, target string, mode LoadMode) (string, error) {
	last, ok, err := s.transcript.LastAssistant(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.Validation("", "There is no response to load")
	}
	if target == "" {
		target = s.router.Resolve(last.SuggestedSection).Default()
	}
	if err := s.router.Confirm(ctx, last.Content, target, mode.appendTo(s.session.State())); err != nil {
		return "", fmt.Errorf("loading response: %w", err)
	}
	return target, nil
}
