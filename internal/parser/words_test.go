package parser

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

func glyphs(font string, size, x, y float64, s string) []pdflib.Text {
	var out []pdflib.Text
	for _, r := range s {
		out = append(out, pdflib.Text{Font: font, FontSize: size, X: x, Y: y, W: size * 0.5, S: string(r)})
		x += size * 0.5
	}
	return out
}

func TestGroupWords_SplitsOnSpaces(t *testing.T) {
	in := glyphs("Body", 10, 72, 700, "Hello world")
	words := groupWords(in, 792)

	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Text != "Hello" || words[1].Text != "world" {
		t.Errorf("unexpected words %q %q", words[0].Text, words[1].Text)
	}
	if words[0].Bottom != 92 {
		t.Errorf("expected top-down bottom 92, got %v", words[0].Bottom)
	}
	if words[0].X0 != 72 || words[0].X1 != 97 {
		t.Errorf("expected x 72..97, got %v..%v", words[0].X0, words[0].X1)
	}
	if len(words[0].Chars) != 5 || words[0].Chars[0].Size != 10 {
		t.Errorf("expected 5 chars of size 10, got %+v", words[0].Chars)
	}
}

func TestGroupWords_FontChangeSplits(t *testing.T) {
	in := append(glyphs("Bold", 14, 72, 700, "SEC."), glyphs("Body", 14, 100, 700, "101")...)
	words := groupWords(in, 792)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Font != "Bold" || words[1].Font != "Body" {
		t.Errorf("unexpected fonts %q %q", words[0].Font, words[1].Font)
	}
}

func TestGroupWords_SmallCapsStayTogether(t *testing.T) {
	in := append(glyphs("Body", 14, 72, 700, "G"), glyphs("Body", 11, 79, 700, "ENERAL")...)
	words := groupWords(in, 792)
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	w := words[0]
	if w.Text != "GENERAL" {
		t.Errorf("expected GENERAL, got %q", w.Text)
	}
	if w.Chars[0].Size != 14 || w.Chars[1].Size != 11 {
		t.Errorf("expected lead size 14 then 11, got %v and %v", w.Chars[0].Size, w.Chars[1].Size)
	}
}

func TestGroupWords_GapAndBaselineSplit(t *testing.T) {
	in := glyphs("Body", 10, 72, 700, "ab")
	in = append(in, glyphs("Body", 10, 120, 700, "cd")...) // wide gap
	in = append(in, glyphs("Body", 10, 72, 688, "ef")...)  // next line
	words := groupWords(in, 792)
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[2].Bottom != 104 {
		t.Errorf("expected next line at 104, got %v", words[2].Bottom)
	}
}

func TestGroupWords_Empty(t *testing.T) {
	if words := groupWords(nil, 792); len(words) != 0 {
		t.Errorf("expected no words, got %d", len(words))
	}
}
