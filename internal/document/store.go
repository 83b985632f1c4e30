package document

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/apperr"
)

// Separator is placed between existing content and appended text.
const Separator = "\n\n"

// ChangeFunc is called with the title of every section that was written.
type ChangeFunc func(title string)

// Store holds the current content of every section in the template. It is
// the single owner of draft content; writes notify the registered
// ChangeFunc outside the lock.
type Store struct {
	mu       sync.RWMutex
	tmpl     *Template
	content  map[string]string
	onChange ChangeFunc
	now      func() time.Time
	logger   zerolog.Logger
}

// NewStore creates an empty store for the template.
func NewStore(tmpl *Template, logger zerolog.Logger) *Store {
	return &Store{
		tmpl:    tmpl,
		content: make(map[string]string, tmpl.Len()),
		now:     time.Now,
		logger:  logger,
	}
}

// OnChange registers the write callback, replacing any previous one.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Template returns the current template.
func (s *Store) Template() *Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tmpl
}

// Has reports whether title is a section of the current template.
func (s *Store) Has(title string) bool {
	return s.Template().Has(title)
}

// Get returns the content of a section.
func (s *Store) Get(title string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.tmpl.Has(title) {
		return "", &apperr.UnknownSectionError{Title: title}
	}
	return s.content[title], nil
}

// SetContent replaces the content of a section.
func (s *Store) SetContent(title, text string) error {
	s.mu.Lock()
	if !s.tmpl.Has(title) {
		s.mu.Unlock()
		s.logger.Warn().Str("section", title).Msg("rejected write to unknown section")
		return &apperr.UnknownSectionError{Title: title}
	}
	s.content[title] = text
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(title)
	}
	return nil
}

// Append writes text into a section. In append mode, non-empty existing
// content is joined to text with a blank line and empty text is a no-op.
// With appendMode false the content is replaced.
func (s *Store) Append(title, text string, appendMode bool) error {
	if !appendMode {
		return s.SetContent(title, text)
	}

	s.mu.Lock()
	if !s.tmpl.Has(title) {
		s.mu.Unlock()
		s.logger.Warn().Str("section", title).Msg("rejected append to unknown section")
		return &apperr.UnknownSectionError{Title: title}
	}
	if text == "" {
		s.mu.Unlock()
		return nil
	}
	existing := s.content[title]
	if strings.TrimSpace(existing) == "" {
		s.content[title] = text
	} else {
		s.content[title] = existing + Separator + text
	}
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(title)
	}
	return nil
}

// GetAll returns every template section, in template order, with the
// current timestamp.
func (s *Store) GetAll() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Sections:  make([]Section, 0, s.tmpl.Len()),
		Timestamp: s.now().UTC(),
	}
	for _, title := range s.tmpl.titles {
		snap.Sections = append(snap.Sections, Section{Title: title, Content: s.content[title]})
	}
	return snap
}

// Hydrate loads content fetched from the backend without notifying the
// change callback. Titles outside the template are returned as skipped.
func (s *Store) Hydrate(sections []Section) (skipped []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range sections {
		if !s.tmpl.Has(sec.Title) {
			skipped = append(skipped, sec.Title)
			continue
		}
		s.content[sec.Title] = sec.Content
	}
	return skipped
}

// Reset clears the content of every section.
func (s *Store) Reset() {
	s.mu.Lock()
	s.content = make(map[string]string, s.tmpl.Len())
	s.mu.Unlock()
}
