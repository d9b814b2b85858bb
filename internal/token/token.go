package token

import "strings"

// Char is a single rendered character of a word.
type Char struct {
	Text string  `json:"text"`
	Size float64 `json:"size"` // Rendered font size in points
	Top  float64 `json:"top"`  // Top edge, measured from the top of the page
}

// Token is one extracted word with its typographic attributes.
// Coordinates are top-down: Bottom grows towards the foot of the page.
type Token struct {
	Text   string  `json:"text"`
	Font   string  `json:"fontname"`
	Bottom float64 `json:"bottom"` // Baseline; tokens on one line share it
	X0     float64 `json:"x0"`
	X1     float64 `json:"x1"`
	Chars  []Char  `json:"chars"`
}

// Center returns the horizontal midpoint of the word.
func (t Token) Center() float64 {
	return (t.X0 + t.X1) / 2.0
}

// Page is the ordered token stream of one page.
type Page struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Tokens []Token `json:"tokens"`
}

// Document is the full token stream handed over by an extractor.
type Document struct {
	Title string `json:"title,omitempty"`
	Pages []Page `json:"pages"`
}

// TokenCount returns the number of tokens across all pages.
func (d *Document) TokenCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Tokens)
	}
	return n
}

// Join concatenates token text, starting a new line whenever the baseline moves.
func Join(tokens []Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			if SameLine(tokens[i-1], t) {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte('\n')
			}
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// LineTolerance is the maximum baseline drift for two tokens to share a line.
const LineTolerance = 2.0

// SameLine reports whether two tokens sit on the same baseline.
func SameLine(a, b Token) bool {
	d := a.Bottom - b.Bottom
	if d < 0 {
		d = -d
	}
	return d < LineTolerance
}
