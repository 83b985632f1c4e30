// Package render turns the draft and the chat transcript into Markdown and
// standalone HTML pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/transcript"
)

// Renderer converts Markdown to HTML pages.
type Renderer struct {
	md   goldmark.Markdown
	page *template.Template
}

// New creates a renderer with GFM and syntax highlighting.
func New() (*Renderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Renderer{md: md, page: page}, nil
}

// Markdown writes the draft as Markdown. Empty sections are omitted unless
// includeEmpty is set.
func Markdown(w io.Writer, title string, snap document.Snapshot, includeEmpty bool) error {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	for _, sec := range snap.Sections {
		content := strings.TrimSpace(sec.Content)
		if content == "" && !includeEmpty {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", sec.Title)
		if content != "" {
			b.WriteString(content)
			b.WriteString("\n\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// TranscriptMarkdown writes the conversation as Markdown.
func TranscriptMarkdown(w io.Writer, msgs []transcript.Message) error {
	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "### %s", roleLabel(m.Role))
		if m.SuggestedSection != "" {
			fmt.Fprintf(&b, " → %s", m.SuggestedSection)
		}
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteString("\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Fragment converts Markdown to an HTML fragment.
func (r *Renderer) Fragment(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Page is the input to HTML.
type Page struct {
	Title       string
	Snapshot    document.Snapshot
	Transcript  []transcript.Message
	GeneratedAt time.Time
}

type pageData struct {
	Title       string
	GeneratedAt string
	Draft       template.HTML
	Chat        template.HTML
	HasChat     bool
}

// HTML writes a standalone page with the draft and, when present, the
// transcript.
func (r *Renderer) HTML(w io.Writer, p Page) error {
	var md bytes.Buffer
	if err := Markdown(&md, "", p.Snapshot, false); err != nil {
		return err
	}
	draft, err := r.Fragment(md.String())
	if err != nil {
		return err
	}

	data := pageData{
		Title:       p.Title,
		GeneratedAt: p.GeneratedAt.UTC().Format(time.RFC1123),
		Draft:       draft,
	}
	if len(p.Transcript) > 0 {
		md.Reset()
		if err := TranscriptMarkdown(&md, p.Transcript); err != nil {
			return err
		}
		if data.Chat, err = r.Fragment(md.String()); err != nil {
			return err
		}
		data.HasChat = true
	}

	if err := r.page.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func roleLabel(role transcript.Role) string {
	switch role {
	case transcript.RoleUser:
		return "You"
	case transcript.RoleAssistant:
		return "Assistant"
	case transcript.RoleError:
		return "Error"
	}
	return "System"
}
