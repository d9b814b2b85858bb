package doctree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docoutline/internal/token"
	"golang.org/x/net/html"
)

// ErrEmptyHeading is returned when a section is created without heading text.
var ErrEmptyHeading = errors.New("section heading cannot be empty")

// Outline is the root of an assembled document.
type Outline struct {
	Title    string     `json:"title"`              // Document title (from metadata or filename)
	Preamble string     `json:"preamble,omitempty"` // Content before the first tiered heading
	Sections []*Section `json:"sections"`           // Top-level sections
	Headings []Heading  `json:"headings"`           // Every completed heading, in document order
}

// Heading is a flat record of one completed heading, kept for diagnostics.
type Heading struct {
	Text string `json:"text"`
	Tier int    `json:"tier"` // 0 when the heading resolved to no tier
	Page int    `json:"page"`
}

// Section is a recursive outline node. Every subsection has a strictly
// greater tier than its parent.
type Section struct {
	Heading      string        `json:"heading"`
	HeadingWords []token.Token `json:"-"` // Source tokens of the heading
	Tier         int           `json:"tier"`
	Content      string        `json:"content,omitempty"`
	Page         int           `json:"page,omitempty"`
	Subsections  []*Section    `json:"subsections,omitempty"`
}

// NewSection creates a leaf section.
func NewSection(heading string, tier int) (*Section, error) {
	if strings.TrimSpace(heading) == "" {
		return nil, ErrEmptyHeading
	}
	return &Section{Heading: heading, Tier: tier}, nil
}

// AddSubsection inserts n below s and reports whether s accepted it. s refuses
// sections of equal or lower tier. Otherwise n goes to the deepest section on
// the right spine that will take it.
func (s *Section) AddSubsection(n *Section) bool {
	if n.Tier <= s.Tier {
		return false
	}
	if len(s.Subsections) == 0 || !s.Subsections[len(s.Subsections)-1].AddSubsection(n) {
		s.Subsections = append(s.Subsections, n)
	}
	return true
}

// LastSubsection walks the right spine to the most recently opened section.
func (s *Section) LastSubsection() *Section {
	if len(s.Subsections) == 0 {
		return s
	}
	return s.Subsections[len(s.Subsections)-1].LastSubsection()
}

// AppendContent adds text to the section body on a new line.
func (s *Section) AppendContent(text string) {
	if text == "" {
		return
	}
	if s.Content != "" {
		s.Content += "\n"
	}
	s.Content += text
}

// Text renders the section on its own, without subsections.
func (s *Section) Text() string {
	return fmt.Sprintf("<h%d>%s</h%d>\n\n%s\n\n", s.Tier, html.EscapeString(s.Heading), s.Tier, html.EscapeString(s.Content))
}

// Render emits the section and its subsections depth-first in document order.
func (s *Section) Render() string {
	var sb strings.Builder
	s.render(&sb)
	return sb.String()
}

func (s *Section) render(sb *strings.Builder) {
	sb.WriteString(s.Text())
	for _, sub := range s.Subsections {
		sub.render(sb)
	}
}

// Walk visits s and its subsections depth-first. Breadcrumb holds the
// headings of the ancestors and the section itself.
func (s *Section) Walk(fn func(sec *Section, breadcrumb []string)) {
	s.walk(nil, fn)
}

func (s *Section) walk(parents []string, fn func(*Section, []string)) {
	bc := make([]string, 0, len(parents)+1)
	bc = append(bc, parents...)
	bc = append(bc, s.Heading)
	fn(s, bc)
	for _, sub := range s.Subsections {
		sub.walk(bc, fn)
	}
}

// Walk visits every section of the outline depth-first.
func (o *Outline) Walk(fn func(sec *Section, breadcrumb []string)) {
	for _, s := range o.Sections {
		s.Walk(fn)
	}
}

// Render emits the preamble followed by every section.
func (o *Outline) Render() string {
	var sb strings.Builder
	if o.Preamble != "" {
		sb.WriteString(html.EscapeString(o.Preamble))
		sb.WriteString("\n\n")
	}
	for _, s := range o.Sections {
		s.render(&sb)
	}
	return sb.String()
}

// Chunk is a sized text segment with structural context, ready for
// downstream token-budgeted processing.
type Chunk struct {
	Text       string   `json:"text"`       // Chunk text content
	Index      int      `json:"index"`      // Sequence number within document
	Breadcrumb []string `json:"breadcrumb"` // Heading hierarchy, e.g. ["TITLE I", "Sec. 101"]
	Tier       int      `json:"tier"`
	Tokens     int      `json:"tokens"`
	Page       int      `json:"page,omitempty"`
}
