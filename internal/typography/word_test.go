package typography

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/token"
	"github.com/stretchr/testify/require"
)

func word(text string, lead, rest float64) Word {
	return NewWord(token.Token{Text: text, Font: "F", Bottom: 100, Chars: chars(text, lead, rest)})
}

func TestNewWord(t *testing.T) {
	w := word("HELLO", 14, 11)
	require.Equal(t, 14.0, w.Size)
	require.Equal(t, "F", w.Characteristics.Font)
	require.Equal(t, CasingSmallCaps, w.Casing)
	require.Equal(t, 11.0, w.ReducedSize())

	empty := NewWord(token.Token{Text: ""})
	require.Zero(t, empty.Size)
}

func TestWordPredicates(t *testing.T) {
	tests := []struct {
		text                               string
		punct, number, acronym, enum, path bool
	}{
		{text: ".", punct: true},
		{text: "§", punct: true},
		{text: "a"},
		{text: "42", number: true},
		{text: "U.S.", acronym: true},
		{text: "(a)", enum: true},
		{text: "(12)", enum: true},
		{text: "(iv)", enum: true},
		{text: "b.", enum: true},
		{text: "3.", enum: true},
		{text: "(foo)"},
		{text: `C:\docs\file.xml`, path: true},
		{text: `L:\v7\12.xml`, path: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			w := word(tt.text, 14, 14)
			require.Equal(t, tt.punct, w.IsPunctuation(), "punctuation")
			require.Equal(t, tt.number, w.IsNumber(), "number")
			require.Equal(t, tt.acronym, w.IsAcronym(), "acronym")
			require.Equal(t, tt.enum, w.IsEnumeration(), "enumeration")
			require.Equal(t, tt.path, w.IsFilePath(), "file path")
		})
	}
}

func TestWordText(t *testing.T) {
	require.True(t, word("‘Tis", 14, 14).StartsWithForbidden())
	require.False(t, word("Tis", 14, 14).StartsWithForbidden())
	require.True(t, word("ABc", 14, 14).HasLowercase())
	require.False(t, word("ABC", 14, 14).HasLowercase())
	require.True(t, word("(foo)", 14, 14).HasPunctuation())
	require.False(t, word("foo", 14, 14).HasPunctuation())
}

func TestSameLineAs(t *testing.T) {
	a := word("A", 14, 14)
	b := a
	b.Bottom = 101.5
	require.True(t, a.SameLineAs(b))
	b.Bottom = 103
	require.False(t, a.SameLineAs(b))
}
