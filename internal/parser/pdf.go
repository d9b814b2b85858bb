package parser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/docoutline/internal/token"
	pdflib "github.com/ledongthuc/pdf"
)

// Page size used when a page carries no MediaBox (US Letter).
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// ErrMalformedContent wraps a failure to decode a page's content stream.
var ErrMalformedContent = errors.New("malformed content stream")

// PDFParser extracts positioned words from a PDF's text layer.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*token.Document, error) {
	// ledongthuc/pdf requires a ReaderAt+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &token.Document{Title: titleFromFilename(filename)}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		width, height := pageSize(page)
		toks, err := pageTokens(page, height)
		if err != nil {
			return nil, fmt.Errorf("pdf %s page %d: %w", filename, i, err)
		}
		doc.Pages = append(doc.Pages, token.Page{
			Number: i,
			Width:  width,
			Height: height,
			Tokens: toks,
		})
	}
	if doc.TokenCount() == 0 {
		return nil, fmt.Errorf("pdf %s has no text layer", filename)
	}
	return doc, nil
}

// pageTokens reads a page's glyphs. The pdf library panics on malformed
// content streams, so the panic is turned into an error here.
func pageTokens(page pdflib.Page, height float64) (toks []token.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedContent, r)
		}
	}()
	return groupWords(page.Content().Text, height), nil
}

// pageSize reads the MediaBox, which may be inherited from an ancestor
// page-tree node.
func pageSize(p pdflib.Page) (width, height float64) {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			return box.Index(2).Float64() - box.Index(0).Float64(),
				box.Index(3).Float64() - box.Index(1).Float64()
		}
	}
	return defaultPageWidth, defaultPageHeight
}
