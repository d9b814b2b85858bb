package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/net/html"
)

// ReadTagged parses tagged output back into an outline. Sections nest by
// tier the same way the assembler nests them; text between headings becomes
// the content of the most recently opened section.
func ReadTagged(r io.Reader, title string) (*doctree.Outline, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse tagged outline: %w", err)
	}

	out := &doctree.Outline{Title: title}
	var preamble []string

	appendText := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		if len(out.Sections) == 0 {
			preamble = append(preamble, t)
			return
		}
		out.Sections[len(out.Sections)-1].LastSubsection().AppendContent(t)
	}

	var walk func(*html.Node) error
	walk = func(n *html.Node) error {
		switch n.Type {
		case html.TextNode:
			appendText(n.Data)
			return nil
		case html.ElementNode:
			if tier := headingTier(n.Data); tier > 0 {
				sec, err := doctree.NewSection(textContent(n), tier)
				if err != nil {
					return fmt.Errorf("%s: %w", n.Data, err)
				}
				if len(out.Sections) == 0 || !out.Sections[len(out.Sections)-1].AddSubsection(sec) {
					out.Sections = append(out.Sections, sec)
				}
				out.Headings = append(out.Headings, doctree.Heading{Text: sec.Heading, Tier: tier})
				return nil
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}
	if err := walk(body); err != nil {
		return nil, err
	}
	out.Preamble = strings.Join(preamble, "\n")
	return out, nil
}

// headingTier maps h1, h2, ... to their tier. Tiers deeper than six are
// written as h7, h8 and so on, which the parser keeps as plain elements.
func headingTier(tag string) int {
	if len(tag) < 2 || tag[0] != 'h' {
		return 0
	}
	n, err := strconv.Atoi(tag[1:])
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
