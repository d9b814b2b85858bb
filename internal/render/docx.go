package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

// Heading sizes in half-points, by tier. Deeper tiers reuse the last entry.
var docxHeadingSizes = []int{36, 32, 28, 26, 24, 22}

const docxBodySize = "22"

// DOCX writes a Word document with bold, size-graded headings.
type DOCX struct{}

func (DOCX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (DOCX) Render(w io.Writer, o *doctree.Outline) error {
	doc := docx.New().WithDefaultTheme()
	if o.Title != "" {
		doc.AddParagraph().AddText(o.Title).Size("40").Bold()
	}
	addBody(doc, o.Preamble)
	o.Walk(func(sec *doctree.Section, _ []string) {
		doc.AddParagraph().AddText(sec.Heading).Size(docxHeadingSize(sec.Tier)).Bold()
		addBody(doc, sec.Content)
	})
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func addBody(doc *docx.Docx, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			doc.AddParagraph().AddText(line).Size(docxBodySize)
		}
	}
}

func docxHeadingSize(tier int) string {
	i := min(max(tier, 1), len(docxHeadingSizes)) - 1
	return strconv.Itoa(docxHeadingSizes[i])
}
