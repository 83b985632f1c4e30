package document

import (
	"strings"
	"time"
)

// Section is a named, editable region of the drafted document.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Snapshot is an ordered capture of all sections at a point in time.
type Snapshot struct {
	Sections  []Section `json:"sections"`
	Timestamp time.Time `json:"timestamp"`
}

// Map returns the snapshot keyed by title.
func (s Snapshot) Map() map[string]string {
	m := make(map[string]string, len(s.Sections))
	for _, sec := range s.Sections {
		m[sec.Title] = sec.Content
	}
	return m
}

// NonEmpty returns title -> content for sections with non-blank content.
func (s Snapshot) NonEmpty() map[string]string {
	m := make(map[string]string)
	for _, sec := range s.Sections {
		if trimmed := strings.TrimSpace(sec.Content); trimmed != "" {
			m[sec.Title] = trimmed
		}
	}
	return m
}
