// Package render writes an assembled outline in the supported output formats.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Renderer writes an outline in one output format.
type Renderer interface {
	Render(w io.Writer, o *doctree.Outline) error
	ContentType() string
}

var renderers = map[string]Renderer{
	"tagged":   Tagged{},
	"markdown": Markdown{},
	"html":     HTML{},
	"docx":     DOCX{},
	"json":     JSON{},
	"headings": Headings{},
	"tree":     Tree{},
}

// ForFormat returns the renderer registered under name.
func ForFormat(name string) (Renderer, error) {
	r, ok := renderers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
	return r, nil
}

// Formats lists the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tagged writes the canonical <hN> rendering.
type Tagged struct{}

func (Tagged) ContentType() string { return "text/html; charset=utf-8" }

func (Tagged) Render(w io.Writer, o *doctree.Outline) error {
	_, err := io.WriteString(w, o.Render())
	return err
}

// Headings writes one indented line per completed heading. Untiered
// headings are marked with a dash.
type Headings struct{}

func (Headings) ContentType() string { return "text/plain; charset=utf-8" }

func (Headings) Render(w io.Writer, o *doctree.Outline) error {
	for _, h := range o.Headings {
		var line string
		if h.Tier == 0 {
			line = fmt.Sprintf("- %s (p. %d)\n", h.Text, h.Page)
		} else {
			line = fmt.Sprintf("%s%d %s (p. %d)\n", strings.Repeat("  ", h.Tier-1), h.Tier, h.Text, h.Page)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
