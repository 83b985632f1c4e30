package server

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Section mirrors the wire shape of a document section.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Prompt mirrors the wire shape of a prompt.
type Prompt struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	Prompt        string `json:"prompt"`
	TargetSection string `json:"targetSection,omitempty"`
}

// Model mirrors the wire shape of a selectable model.
type Model struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// ChatInput is what the stub's responder sees for each chat turn.
type ChatInput struct {
	Message         string            `json:"message"`
	Provider        string            `json:"provider,omitempty"`
	PromptID        string            `json:"promptId,omitempty"`
	TargetSection   string            `json:"targetSection,omitempty"`
	IncludeSections bool              `json:"includeSections"`
	CurrentContent  map[string]string `json:"currentContent,omitempty"`

	UploadedDocuments []string `json:"uploadedDocuments,omitempty"`
}

// ChatOutput is the responder's answer.
type ChatOutput struct {
	Response         string `json:"response"`
	TargetSection    string `json:"targetSection,omitempty"`
	SuggestedSection string `json:"suggestedSection,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Responder produces the assistant's answer to a chat turn.
type Responder func(in ChatInput, prompt *Prompt) ChatOutput

type versionRecord struct {
	name     string
	seq      int
	savedAt  time.Time
	sections []Section
}

// State is the stub backend's in-memory store.
type State struct {
	mu        sync.Mutex
	title     string
	titles    []string
	sections  map[string]string
	versions  map[string]*versionRecord
	seq       int
	documents map[string][]byte
	prompts   []Prompt
	models    []Model
	current   Model
	responder Responder
	now       func() time.Time

	updates map[string][]string
}

// NewState creates a state for a document with the given section titles.
func NewState(title string, titles []string) *State {
	return &State{
		title:     title,
		titles:    slices.Clone(titles),
		sections:  make(map[string]string),
		versions:  make(map[string]*versionRecord),
		documents: make(map[string][]byte),
		prompts:   DefaultPrompts(),
		models:    DefaultModels(),
		current:   Model{Provider: "claude", Name: "claude-3-sonnet-20240229"},
		responder: EchoResponder,
		now:       time.Now,
		updates:   make(map[string][]string),
	}
}

// DefaultPrompts is the prompt repository served when none is configured.
func DefaultPrompts() []Prompt {
	return []Prompt{
		{ID: "default", Name: "Default Prompt", Category: "General",
			Description: "General acquisition strategy assistance",
			Prompt:      "You are an expert assistant helping draft an acquisition strategy."},
		{ID: "market-analysis", Name: "Market Analysis", Category: "Research",
			Prompt:        "Analyse the market and summarise relevant competitors and vendors.",
			TargetSection: "Market Research"},
		{ID: "risk-review", Name: "Risk Review", Category: "Risk",
			Prompt:        "Identify cost, schedule and performance risks.",
			TargetSection: "Risk Assessment"},
		{ID: "exec-summary", Name: "Executive Summary", Category: "Summary",
			Prompt:        "Write a concise executive summary of the current draft.",
			TargetSection: "Executive Summary"},
	}
}

// DefaultModels lists the models the stub offers.
func DefaultModels() []Model {
	return []Model{
		{Provider: "claude", Name: "claude-3-sonnet-20240229"},
		{Provider: "openai", Name: "gpt-4-turbo-preview"},
		{Provider: "google", Name: "gemini-pro"},
		{Provider: "meta", Name: "llama-2-70b-chat"},
	}
}

// EchoResponder answers with a canned reply and routes it to the executed
// prompt's target section, or to the requested target section.
func EchoResponder(in ChatInput, prompt *Prompt) ChatOutput {
	out := ChatOutput{
		Response: fmt.Sprintf("Draft response to: %s", in.Message),
	}
	if len(in.UploadedDocuments) > 0 {
		out.Response += fmt.Sprintf(" (consulted %s)", strings.Join(in.UploadedDocuments, ", "))
	}
	switch {
	case prompt != nil && prompt.TargetSection != "":
		out.TargetSection = prompt.TargetSection
	case in.TargetSection != "":
		out.TargetSection = in.TargetSection
	}
	return out
}

// SetResponder replaces the chat responder.
func (s *State) SetResponder(r Responder) {
	s.mu.Lock()
	s.responder = r
	s.mu.Unlock()
}

// SetClock replaces the clock used to timestamp versions.
func (s *State) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Updates returns the contents received by /update_section for a section,
// in arrival order.
func (s *State) Updates(section string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.updates[section])
}

// SectionContent returns the stored content of a section.
func (s *State) SectionContent(section string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections[section]
}

// DocumentNames returns the uploaded document names, sorted.
func (s *State) DocumentNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentNamesLocked()
}

func (s *State) documentNamesLocked() []string {
	names := make([]string, 0, len(s.documents))
	for name := range s.documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *State) hasTitle(title string) bool {
	return slices.Contains(s.titles, title)
}

func (s *State) findPrompt(id string) *Prompt {
	for i := range s.prompts {
		if s.prompts[i].ID == id {
			p := s.prompts[i]
			return &p
		}
	}
	return nil
}

// versionFileName applies the backend's ".json" naming rule.
func versionFileName(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name
}

func newUploadID() string { return uuid.New().String() }
