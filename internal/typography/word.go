package typography

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/token"
)

// forbiddenLeading lists glyphs that never open a heading.
const forbiddenLeading = "‘"

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	numberRe     = regexp.MustCompile(`^\d+$`)
	enumParenRe  = regexp.MustCompile(`^\(([a-zA-Z]|\d+)\)$`)
	enumRomanRe  = regexp.MustCompile(`^\([iIvVxXlLcCdDmM]+\)$`)
	enumDottedRe = regexp.MustCompile(`^([a-zA-Z]|\d+)\.$`)
	filePathRe   = regexp.MustCompile(`^[A-Za-z]:\\(?:[^\\/:*?"<>|\r\n]+\\)*[^\\/:*?"<>|\r\n]*$`)
)

// Word is a token together with its derived signature.
type Word struct {
	token.Token
	Characteristics
}

// NewWord classifies a token. The token itself is never modified.
func NewWord(t token.Token) Word {
	size := 0.0
	if len(t.Chars) > 0 {
		size = t.Chars[0].Size
	}
	return Word{
		Token: t,
		Characteristics: Characteristics{
			Font:   t.Font,
			Size:   size,
			Casing: ClassifyCasing(t),
		},
	}
}

// SameLineAs reports whether both words share a baseline.
func (w Word) SameLineAs(other Word) bool {
	return token.SameLine(w.Token, other.Token)
}

// IsPunctuation is true for a lone non-alphanumeric glyph.
func (w Word) IsPunctuation() bool {
	if utf8.RuneCountInString(w.Text) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(w.Text)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func (w Word) IsNumber() bool {
	return numberRe.MatchString(w.Text)
}

func (w Word) IsAcronym() bool {
	return acronymRe.MatchString(w.Text)
}

// IsEnumeration matches list markers such as (a), (3), (iv), a. and 3.
func (w Word) IsEnumeration() bool {
	return enumParenRe.MatchString(w.Text) ||
		enumRomanRe.MatchString(w.Text) ||
		enumDottedRe.MatchString(w.Text)
}

func (w Word) IsFilePath() bool {
	return filePathRe.MatchString(w.Text)
}

func (w Word) StartsWithForbidden() bool {
	r, _ := utf8.DecodeRuneInString(w.Text)
	return strings.ContainsRune(forbiddenLeading, r)
}

func (w Word) HasLowercase() bool {
	return strings.IndexFunc(w.Text, unicode.IsLower) >= 0
}

func (w Word) HasPunctuation() bool {
	return strings.ContainsAny(w.Text, asciiPunctuation)
}

// ReducedSize is the size of the smaller letters of a small-caps word,
// or the word size when all letters share one size.
func (w Word) ReducedSize() float64 {
	size := w.Size
	for _, ch := range w.Chars {
		if ch.Size < size {
			size = ch.Size
		}
	}
	return size
}
