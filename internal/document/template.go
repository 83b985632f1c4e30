package document

import "slices"

// Template is the ordered set of canonical section titles for a document.
type Template struct {
	titles     []string
	index      map[string]int
	scratchPad string
}

// NewTemplate builds a template from ordered titles. Duplicate titles keep
// their first position. scratchPad names the fallback destination for chat
// responses; if it is not among the titles, the last title is used.
func NewTemplate(titles []string, scratchPad string) *Template {
	t := &Template{index: make(map[string]int, len(titles))}
	for _, title := range titles {
		if _, dup := t.index[title]; dup || title == "" {
			continue
		}
		t.index[title] = len(t.titles)
		t.titles = append(t.titles, title)
	}
	switch {
	case t.Has(scratchPad):
		t.scratchPad = scratchPad
	case len(t.titles) > 0:
		t.scratchPad = t.titles[len(t.titles)-1]
	}
	return t
}

// Titles returns a copy of the ordered titles.
func (t *Template) Titles() []string { return slices.Clone(t.titles) }

// Has reports whether title is part of the template.
func (t *Template) Has(title string) bool {
	_, ok := t.index[title]
	return ok
}

// ScratchPad returns the fallback section title.
func (t *Template) ScratchPad() string { return t.scratchPad }

// Len returns the number of sections.
func (t *Template) Len() int { return len(t.titles) }
