package render

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// maxMarkdownLevel is the deepest ATX heading; deeper tiers are clamped.
const maxMarkdownLevel = 6

// markdownInline are characters escaped wherever they occur in extracted text.
const markdownInline = "\\`*_[]<#"

// markdownLeading open a block when they start a line.
const markdownLeading = "-+>=~|"

var orderedMarker = regexp.MustCompile(`^\d{1,9}([.)])`)

// escapeMarkdown makes an extracted line render as literal text.
func escapeMarkdown(line string) string {
	var sb strings.Builder
	for _, r := range line {
		if strings.ContainsRune(markdownInline, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if m := orderedMarker.FindStringSubmatchIndex(out); m != nil {
		return out[:m[2]] + "\\" + out[m[2]:]
	}
	if out != "" && strings.ContainsRune(markdownLeading, rune(out[0])) {
		return "\\" + out
	}
	return out
}

// Markdown writes ATX headings with the section text as paragraphs.
type Markdown struct{}

func (Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

func (Markdown) Render(w io.Writer, o *doctree.Outline) error {
	_, err := w.Write(markdown(o))
	return err
}

func markdown(o *doctree.Outline) []byte {
	var buf bytes.Buffer
	if o.Preamble != "" {
		writeParagraphs(&buf, o.Preamble)
	}
	o.Walk(func(sec *doctree.Section, _ []string) {
		level := min(max(sec.Tier, 1), maxMarkdownLevel)
		fmt.Fprintf(&buf, "%s %s\n\n", strings.Repeat("#", level), escapeMarkdown(sec.Heading))
		writeParagraphs(&buf, sec.Content)
	})
	return buf.Bytes()
}

// writeParagraphs keeps every extracted line as its own paragraph.
func writeParagraphs(buf *bytes.Buffer, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			buf.WriteString(escapeMarkdown(line))
			buf.WriteString("\n\n")
		}
	}
}

// HTML converts the Markdown rendering into a standalone HTML page.
type HTML struct{}

func (HTML) ContentType() string { return "text/html; charset=utf-8" }

func (HTML) Render(w io.Writer, o *doctree.Outline) error {
	var body bytes.Buffer
	if err := goldmark.Convert(markdown(o), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(o.Title), body.String())
	return err
}
