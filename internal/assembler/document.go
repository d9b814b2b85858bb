package assembler

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/heading"
	"github.com/dgallion1/docoutline/internal/token"
	"github.com/dgallion1/docoutline/internal/typography"
)

// LineSkipTolerance is the baseline window routed straight to content once a
// line has been rejected as a heading.
const LineSkipTolerance = 2.0

// ErrClosed is returned when tokens arrive after Close.
var ErrClosed = errors.New("document is closed")

// Document drives heading accumulators over a token stream and assembles the
// resulting outline. A Document is single-use and not safe for concurrent use;
// separate documents share nothing but the read-only catalog.
type Document struct {
	catalog *typography.Catalog
	log     *slog.Logger

	pageWidth float64
	page      int

	current   *heading.Accumulator
	skipping  bool
	lineSkip  float64
	content   []token.Token
	preamble  []token.Token
	headings  []doctree.Heading
	sections  []*doctree.Section
	tokens    int
	closed    bool
	failedErr error
}

// New creates an empty document classified against catalog.
func New(catalog *typography.Catalog, log *slog.Logger) *Document {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Document{catalog: catalog, log: log}
}

// AddPage feeds a whole page. The line-skip watermark never carries across pages.
func (d *Document) AddPage(p token.Page) error {
	d.skipping = false
	d.pageWidth = p.Width
	d.page = p.Number
	for _, t := range p.Tokens {
		if err := d.AddToken(t); err != nil {
			return fmt.Errorf("page %d: %w", p.Number, err)
		}
	}
	return nil
}

// SetPageWidth sets the width used by accumulators created from now on.
func (d *Document) SetPageWidth(w float64) {
	d.pageWidth = w
}

// AddToken feeds one token in reading order. Tokens that a decision hands
// back (the trigger of a completed or rejected run, or words past a suspect
// boundary) are replayed from a queue against fresh accumulators.
func (d *Document) AddToken(t token.Token) error {
	if d.failedErr != nil {
		return d.failedErr
	}
	if d.closed {
		return ErrClosed
	}
	d.tokens++
	return d.run([]token.Token{t})
}

func (d *Document) run(queue []token.Token) error {
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		followups, err := d.step(next)
		if err != nil {
			d.failedErr = err
			return err
		}
		if len(followups) > 0 {
			queue = append(followups, queue...)
		}
	}
	return nil
}

func (d *Document) step(t token.Token) ([]token.Token, error) {
	if d.skipping {
		if math.Abs(t.Bottom-d.lineSkip) < LineSkipTolerance {
			d.content = append(d.content, t)
			return nil, nil
		}
		d.skipping = false
	}

	if d.current == nil {
		d.current = heading.New(d.catalog, d.pageWidth)
	}
	acc := d.current
	res, err := acc.Add(t)
	if err != nil {
		return nil, fmt.Errorf("add %q: %w", t.Text, err)
	}

	switch res.Outcome {
	case heading.Completed:
		d.current = nil
		if err := d.completeHeading(acc); err != nil {
			return nil, err
		}
		return followups(acc.Replay(), res.Leftover), nil

	case heading.Rejected:
		d.current = nil
		words := acc.Words()
		if len(words) > 0 {
			d.log.Debug("run rejected", "words", len(words), "text", token.Join(words))
			d.skipUntilNextLine(words[len(words)-1].Bottom)
			d.content = append(d.content, words...)
			return followups(nil, res.Leftover), nil
		}
		d.skipUntilNextLine(t.Bottom)
		d.content = append(d.content, t)
		return nil, nil
	}

	// Consumed or ignored: nothing to route.
	return nil, nil
}

func followups(replay []token.Token, leftover *token.Token) []token.Token {
	if leftover != nil {
		replay = append(replay, *leftover)
	}
	return replay
}

func (d *Document) skipUntilNextLine(bottom float64) {
	d.skipping = true
	d.lineSkip = bottom
}

// completeHeading files a finished heading: buffered content goes to the
// section it followed, then the heading opens a new section at its tier.
// Untiered headings are kept as content.
func (d *Document) completeHeading(acc *heading.Accumulator) error {
	tier, err := acc.Tier()
	if err != nil {
		return err
	}
	text := acc.Text()
	d.headings = append(d.headings, doctree.Heading{Text: text, Tier: tier, Page: d.page})
	d.log.Debug("heading complete", "text", text, "tier", tier, "casing", acc.Casing(), "page", d.page)

	open := d.openSection()
	d.flushContent(open)

	if tier == heading.NoTier {
		if open != nil {
			open.AppendContent(text)
		} else {
			for _, w := range acc.Confirmed() {
				d.preamble = append(d.preamble, w.Token)
			}
		}
		return nil
	}

	sec, err := doctree.NewSection(text, tier)
	if err != nil {
		return err
	}
	sec.Page = d.page
	for _, w := range acc.Confirmed() {
		sec.HeadingWords = append(sec.HeadingWords, w.Token)
	}
	if len(d.sections) == 0 || !d.sections[len(d.sections)-1].AddSubsection(sec) {
		d.sections = append(d.sections, sec)
	}
	return nil
}

// openSection is the most recently opened section, or nil before the first.
func (d *Document) openSection() *doctree.Section {
	if len(d.sections) == 0 {
		return nil
	}
	return d.sections[len(d.sections)-1].LastSubsection()
}

func (d *Document) flushContent(into *doctree.Section) {
	if len(d.content) == 0 {
		return
	}
	if into == nil {
		d.preamble = append(d.preamble, d.content...)
	} else {
		into.AppendContent(token.Join(d.content))
	}
	d.content = nil
}

// Close finishes any open run and flushes buffered content. The document
// accepts no tokens afterwards.
func (d *Document) Close() error {
	if d.failedErr != nil {
		return d.failedErr
	}
	if d.closed {
		return nil
	}
	for d.current != nil {
		acc := d.current
		d.current = nil
		var pending []token.Token
		if res := acc.Finish(); res.Outcome == heading.Completed {
			if err := d.completeHeading(acc); err != nil {
				d.failedErr = err
				return err
			}
			pending = acc.Replay()
		} else {
			d.content = append(d.content, acc.Words()...)
		}
		d.skipping = false
		if err := d.run(pending); err != nil {
			return err
		}
	}
	d.flushContent(d.openSection())
	d.closed = true
	d.log.Debug("document closed", "tokens", d.tokens, "headings", len(d.headings), "sections", len(d.sections))
	return nil
}

// Sections returns the top-level sections assembled so far.
func (d *Document) Sections() []*doctree.Section {
	return d.sections
}

// Headings returns every completed heading in document order.
func (d *Document) Headings() []doctree.Heading {
	return d.headings
}

// Outline packages the assembled sections. Call Close first to include
// trailing content.
func (d *Document) Outline(title string) *doctree.Outline {
	return &doctree.Outline{
		Title:    title,
		Preamble: token.Join(d.preamble),
		Sections: d.sections,
		Headings: d.headings,
	}
}

// Build runs a whole token document through a fresh Document.
func Build(catalog *typography.Catalog, doc *token.Document, log *slog.Logger) (*doctree.Outline, error) {
	d := New(catalog, log)
	for _, p := range doc.Pages {
		if err := d.AddPage(p); err != nil {
			return nil, err
		}
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return d.Outline(doc.Title), nil
}
