package heading

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dgallion1/docoutline/internal/token"
	"github.com/dgallion1/docoutline/internal/typography"
)

// PositionTolerance is how far from mid-page a lone numeral may sit and
// still be read as a page number.
const PositionTolerance = 5.0

// NoTier is the tier of runs that are not structural headings.
const NoTier = 0

var (
	// ErrTerminalState is returned by Add once the accumulator has decided.
	ErrTerminalState = errors.New("heading accumulator in terminal state")
	// ErrTierUnavailable is returned by Tier before the accumulator has decided.
	ErrTierUnavailable = errors.New("tier is only defined for a decided accumulator")
)

// Status is the accumulator's position in the classification state machine.
type Status int

const (
	StatusUndetermined Status = iota
	StatusHeading
	StatusHeadingComplete
	StatusNotHeading
)

func (s Status) String() string {
	switch s {
	case StatusUndetermined:
		return "undetermined"
	case StatusHeading:
		return "heading"
	case StatusHeadingComplete:
		return "heading_complete"
	case StatusNotHeading:
		return "not_heading"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether no further tokens can be added.
func (s Status) Terminal() bool {
	return s == StatusHeadingComplete || s == StatusNotHeading
}

// Outcome says what Add did with a token.
type Outcome int

const (
	// Consumed: the token joined the run.
	Consumed Outcome = iota
	// Ignored: the token was filtered out (page number, line number, file path).
	Ignored
	// Completed: the run is a finished heading.
	Completed
	// Rejected: the run is not a heading.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Consumed:
		return "consumed"
	case Ignored:
		return "ignored"
	case Completed:
		return "completed"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is returned by Add. Leftover holds the triggering token when the
// accumulator decided without taking it; the caller must route it onward.
type Result struct {
	Outcome  Outcome
	Leftover *token.Token
}

// Accumulator collects the words of one heading candidate. It is not safe
// for concurrent use; one instance serves one attempt and is then dropped.
type Accumulator struct {
	catalog *typography.Catalog
	width   float64

	words   []typography.Word
	status  Status
	casing  typography.Casing
	suspect int
}

// New creates an accumulator for a page of the given width.
func New(catalog *typography.Catalog, pageWidth float64) *Accumulator {
	return &Accumulator{
		catalog: catalog,
		width:   pageWidth,
		status:  StatusUndetermined,
		casing:  typography.CasingUnknown,
		suspect: -1,
	}
}

func (a *Accumulator) Status() Status            { return a.status }
func (a *Accumulator) Casing() typography.Casing { return a.casing }
func (a *Accumulator) Len() int                  { return len(a.words) }

// Words returns every accumulated token, including any past a suspect boundary.
func (a *Accumulator) Words() []token.Token {
	out := make([]token.Token, len(a.words))
	for i, w := range a.words {
		out[i] = w.Token
	}
	return out
}

// Confirmed returns the words that belong to this heading, excluding words
// after a suspect boundary.
func (a *Accumulator) Confirmed() []typography.Word {
	if a.suspect >= 0 {
		return a.words[:a.suspect]
	}
	return a.words
}

// Replay returns the words after the suspect boundary. They start a second
// heading and must be fed, in order, to a fresh accumulator.
func (a *Accumulator) Replay() []token.Token {
	if a.suspect < 0 {
		return nil
	}
	out := make([]token.Token, 0, len(a.words)-a.suspect)
	for _, w := range a.words[a.suspect:] {
		out = append(out, w.Token)
	}
	return out
}

// Text joins the confirmed words with single spaces.
func (a *Accumulator) Text() string {
	confirmed := a.Confirmed()
	parts := make([]string, len(confirmed))
	for i, w := range confirmed {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Tier resolves the heading's nesting tier. Enumerated runs and rejected runs
// have NoTier. Calling Tier before a decision is a caller bug.
func (a *Accumulator) Tier() (int, error) {
	switch a.status {
	case StatusNotHeading:
		return NoTier, nil
	case StatusHeadingComplete:
	default:
		return NoTier, fmt.Errorf("%w: status %s", ErrTierUnavailable, a.status)
	}
	confirmed := a.Confirmed()
	if len(confirmed) == 0 || confirmed[0].IsEnumeration() {
		return NoTier, nil
	}
	return a.catalog.Tier(confirmed), nil
}

// Add offers the next token in reading order. The first token offered to a
// new accumulator is assumed to open a line.
func (a *Accumulator) Add(t token.Token) (Result, error) {
	if a.status.Terminal() {
		return Result{}, fmt.Errorf("%w: %s", ErrTerminalState, a.status)
	}

	w := typography.NewWord(t)
	if a.ignorable(w) {
		return Result{Outcome: Ignored}, nil
	}

	switch {
	case a.status == StatusHeading:
		return a.addToHeading(w), nil
	case len(a.words) == 0:
		return a.addFirst(w), nil
	default:
		return a.addToUndetermined(w), nil
	}
}

// Finish closes the accumulator at the end of input. An open heading is
// completed; an undecided run is rejected.
func (a *Accumulator) Finish() Result {
	switch a.status {
	case StatusHeading:
		a.status = StatusHeadingComplete
		return Result{Outcome: Completed}
	case StatusUndetermined:
		a.status = StatusNotHeading
		return Result{Outcome: Rejected}
	case StatusHeadingComplete:
		return Result{Outcome: Completed}
	default:
		return Result{Outcome: Rejected}
	}
}

func (a *Accumulator) addFirst(w typography.Word) Result {
	cat := a.catalog
	switch {
	case w.IsPunctuation() || w.StartsWithForbidden():
		return a.reject(w)

	case cat.IsBodyContent(w):
		switch {
		case w.Casing == typography.CasingAllCaps || w.Casing == typography.CasingUnknown ||
			w.IsEnumeration() || w.IsNumber() || w.IsAcronym():
			// Could still open an all-caps or small-caps heading.
			return a.accept(w)
		case w.Casing == typography.CasingSmallCaps:
			a.promote(typography.CasingSmallCaps)
			return a.accept(w)
		default:
			// Only normal-cased prose reaches here, with or without punctuation.
			a.casing = typography.CasingNormal
			return a.reject(w)
		}

	case cat.IsHeading(w):
		if w.Casing == typography.CasingNormal || w.Casing == typography.CasingSmallCaps {
			a.casing = w.Casing
		}
		a.status = StatusHeading
		return a.accept(w)

	case cat.IsPossibleHeading(w):
		return a.accept(w)

	default:
		return a.reject(w)
	}
}

func (a *Accumulator) addToUndetermined(w typography.Word) Result {
	last := a.words[len(a.words)-1]

	if w.IsEnumeration() {
		// Enumerations open a run; they never continue one.
		return a.reject(w)
	}

	if w.SameLineAs(last) {
		switch {
		case a.catalog.IsProse(w):
			a.casing = typography.CasingNormal
			return a.reject(w)
		case a.matches(w):
			res := a.accept(w)
			if a.countAllCaps() >= 2 {
				a.promote(typography.CasingAllCaps)
			} else if w.Casing == typography.CasingSmallCaps {
				a.promote(typography.CasingSmallCaps)
			}
			return res
		case a.matches(w, typography.CasingSmallCaps):
			a.promote(typography.CasingSmallCaps)
			return a.accept(w)
		default:
			a.casing = typography.CasingNormal
			return a.reject(w)
		}
	}

	if len(a.words) == 1 && a.words[0].IsEnumeration() {
		return a.reject(w)
	}
	if a.matches(w) && w.Casing == typography.CasingAllCaps {
		// All-caps headings may wrap onto the next line.
		a.promote(typography.CasingAllCaps)
		return a.accept(w)
	}

	a.casing = typography.CasingAllCaps
	return a.complete(w)
}

func (a *Accumulator) addToHeading(w typography.Word) Result {
	last := a.words[len(a.words)-1]
	newLine := !w.SameLineAs(last)

	if w.IsPunctuation() && a.catalog.HasBodyFontAndSize(w) {
		return a.complete(w)
	}
	if !a.matches(w) || (newLine && w.IsEnumeration()) {
		return a.complete(w)
	}

	if newLine && a.casing == typography.CasingSmallCaps &&
		w.Casing == typography.CasingAllCaps && typography.SameSize(w.Size, a.reducedSize()) {
		// A line set entirely in reduced capitals may be the start of the
		// next small-caps heading rather than a continuation.
		if a.suspect < 0 {
			a.suspect = len(a.words)
			return a.accept(w)
		}
		a.words = append(a.words, w)
		a.status = StatusHeadingComplete
		return Result{Outcome: Completed}
	}

	a.suspect = -1
	if a.casing == typography.CasingUnknown && w.Casing != typography.CasingUnknown {
		a.casing = w.Casing
	}
	return a.accept(w)
}

func (a *Accumulator) ignorable(w typography.Word) bool {
	return a.isPageNumber(w) || w.IsFilePath() || a.catalog.IsIgnorable(w)
}

func (a *Accumulator) isPageNumber(w typography.Word) bool {
	if !w.IsNumber() {
		return false
	}
	if len(a.words) > 0 && w.SameLineAs(a.words[len(a.words)-1]) {
		return false
	}
	return math.Abs(w.Center()-a.width/2.0) < PositionTolerance
}

// matches compares a word against the first accumulated word. All-caps and
// unknown casings always pass; while the run's casing is undecided any casing
// and size passes, and small-caps runs tolerate size differences.
func (a *Accumulator) matches(w typography.Word, extra ...typography.Casing) bool {
	allowed := []typography.Casing{typography.CasingAllCaps, typography.CasingUnknown}
	allowed = append(allowed, extra...)
	if a.casing != typography.CasingUnknown {
		allowed = append(allowed, a.casing)
	} else {
		allowed = append(allowed, typography.CasingNormal, typography.CasingSmallCaps)
	}
	sizeDiff := a.casing == typography.CasingSmallCaps || a.casing == typography.CasingUnknown
	return a.words[0].Match(w.Characteristics, typography.Tolerance{Casings: allowed, SizeDiff: sizeDiff})
}

func (a *Accumulator) countAllCaps() int {
	n := 0
	for _, w := range a.words {
		if w.Casing == typography.CasingAllCaps {
			n++
		}
	}
	return n
}

// reducedSize is the size of the lowered capitals of the run's first
// small-caps word.
func (a *Accumulator) reducedSize() float64 {
	for _, w := range a.words {
		if w.Casing == typography.CasingSmallCaps {
			return w.ReducedSize()
		}
	}
	return a.words[0].Size
}

func (a *Accumulator) promote(c typography.Casing) {
	a.status = StatusHeading
	a.casing = c
}

func (a *Accumulator) accept(w typography.Word) Result {
	a.words = append(a.words, w)
	return Result{Outcome: Consumed}
}

func (a *Accumulator) reject(w typography.Word) Result {
	a.status = StatusNotHeading
	t := w.Token
	return Result{Outcome: Rejected, Leftover: &t}
}

func (a *Accumulator) complete(w typography.Word) Result {
	a.status = StatusHeadingComplete
	t := w.Token
	return Result{Outcome: Completed, Leftover: &t}
}
