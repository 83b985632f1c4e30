// Package session holds the per-user UI state that outlives a single
// command: chosen model, append/include toggles, selected prompt and which
// panels are collapsed.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"sync"
)

// KV is the persistence the session is written through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const (
	keyProvider        = "provider"
	keyModel           = "model"
	keyAppendMode      = "append_mode"
	keyIncludeSections = "include_sections"
	keyPromptID        = "prompt_id"
	keyPromptTarget    = "prompt_target"
	keyCollapsed       = "collapsed_panels"
)

// State is a copy of the session values.
type State struct {
	Provider        string
	Model           string
	AppendMode      bool
	IncludeSections bool
	PromptID        string
	PromptTarget    string
	Collapsed       map[string]bool
}

// Session is the live, persisted session state. Every setter writes
// through to the KV before updating memory.
type Session struct {
	kv KV

	mu    sync.Mutex
	state State
}

// Load reads the session from kv. Keys that were never written keep the
// values from defaults.
func Load(ctx context.Context, kv KV, defaults State) (*Session, error) {
	st := defaults
	st.Collapsed = maps.Clone(defaults.Collapsed)
	if st.Collapsed == nil {
		st.Collapsed = make(map[string]bool)
	}

	strs := map[string]*string{
		keyProvider:     &st.Provider,
		keyModel:        &st.Model,
		keyPromptID:     &st.PromptID,
		keyPromptTarget: &st.PromptTarget,
	}
	for key, dst := range strs {
		v, ok, err := kv.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("loading session: %w", err)
		}
		if ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		keyAppendMode:      &st.AppendMode,
		keyIncludeSections: &st.IncludeSections,
	}
	for key, dst := range bools {
		v, ok, err := kv.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("loading session: %w", err)
		}
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("loading session: %s: %w", key, err)
		}
		*dst = b
	}

	raw, ok, err := kv.Get(ctx, keyCollapsed)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &st.Collapsed); err != nil {
			return nil, fmt.Errorf("loading session: collapsed panels: %w", err)
		}
	}

	return &Session{kv: kv, state: st}, nil
}

// State returns a copy of the current values.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Collapsed = maps.Clone(s.state.Collapsed)
	return st
}

// SetModel records the selected provider and model.
func (s *Session) SetModel(ctx context.Context, provider, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, keyProvider, provider); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyModel, model); err != nil {
		return err
	}
	s.state.Provider, s.state.Model = provider, model
	return nil
}

// SetAppendMode sets the append/overwrite toggle.
func (s *Session) SetAppendMode(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, keyAppendMode, strconv.FormatBool(on)); err != nil {
		return err
	}
	s.state.AppendMode = on
	return nil
}

// SetIncludeSections sets whether section contents accompany chat turns.
func (s *Session) SetIncludeSections(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, keyIncludeSections, strconv.FormatBool(on)); err != nil {
		return err
	}
	s.state.IncludeSections = on
	return nil
}

// SelectPrompt records the selected prompt and its target section. An empty
// id clears the selection.
func (s *Session) SelectPrompt(ctx context.Context, id, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		target = ""
	}
	if err := s.kv.Set(ctx, keyPromptID, id); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyPromptTarget, target); err != nil {
		return err
	}
	s.state.PromptID, s.state.PromptTarget = id, target
	return nil
}

// SetCollapsed records whether a panel is collapsed.
func (s *Session) SetCollapsed(ctx context.Context, panel string, collapsed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := maps.Clone(s.state.Collapsed)
	if collapsed {
		next[panel] = true
	} else {
		delete(next, panel)
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyCollapsed, string(raw)); err != nil {
		return err
	}
	s.state.Collapsed = next
	return nil
}

// Collapsed reports whether panel is collapsed.
func (s *Session) Collapsed(panel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Collapsed[panel]
}
