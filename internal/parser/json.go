package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/docoutline/internal/token"
)

// JSONParser reads a token dump produced by an external extractor:
// {"title": ..., "pages": [{"number", "width", "height", "tokens": [...]}]}.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*token.Document, error) {
	var doc token.Document
	// Extractor dumps carry extra per-word attributes; unknown fields are ignored.
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode token dump: %w", err)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("token dump %s has no pages", filename)
	}
	for i := range doc.Pages {
		pg := &doc.Pages[i]
		if pg.Number == 0 {
			pg.Number = i + 1
		}
		if pg.Width <= 0 {
			return nil, fmt.Errorf("page %d: width must be positive", pg.Number)
		}
		for j, t := range pg.Tokens {
			if t.Text == "" || len(t.Chars) == 0 {
				return nil, fmt.Errorf("page %d token %d: text and chars are required", pg.Number, j)
			}
		}
	}
	if doc.Title == "" {
		doc.Title = titleFromFilename(filename)
	}
	return &doc, nil
}
