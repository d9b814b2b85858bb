package parser

import (
	"math"
	"strings"
	"unicode"

	"github.com/dgallion1/docoutline/internal/token"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	// baselineDrift is the largest vertical move between glyphs of one word.
	baselineDrift = 1.0
	// wordGapRatio is the horizontal gap, relative to font size, that
	// separates two words when the PDF omits explicit spaces.
	wordGapRatio = 0.25
)

// groupWords merges the glyphs of a page into words in content-stream order.
// Glyph coordinates are bottom-up; tokens are converted to top-down.
func groupWords(glyphs []pdflib.Text, pageHeight float64) []token.Token {
	var (
		words []token.Token
		cur   *token.Token
		prev  pdflib.Text
	)
	flush := func() {
		if cur != nil && cur.Text != "" {
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}
		if cur != nil && breaksWord(prev, g) {
			flush()
		}
		bottom := pageHeight - g.Y
		if cur == nil {
			cur = &token.Token{Font: g.Font, Bottom: bottom, X0: g.X}
		}
		for _, r := range g.S {
			cur.Chars = append(cur.Chars, token.Char{Text: string(r), Size: g.FontSize, Top: bottom - g.FontSize})
		}
		cur.Text += g.S
		cur.X1 = g.X + g.W
		prev = g
	}
	flush()
	return words
}

func breaksWord(prev, g pdflib.Text) bool {
	if g.Font != prev.Font {
		return true
	}
	if math.Abs(g.Y-prev.Y) > baselineDrift {
		return true
	}
	gap := g.X - (prev.X + prev.W)
	return gap > wordGapRatio*g.FontSize || gap < -g.FontSize
}
