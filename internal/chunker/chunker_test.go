package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func section(heading string, tier int, content string) *doctree.Section {
	return &doctree.Section{Heading: heading, Tier: tier, Content: content}
}

func TestChunkOutline_SmallOutlineFitsOneChunk(t *testing.T) {
	o := &doctree.Outline{
		Title:    "Small",
		Sections: []*doctree.Section{section("SECTION", 1, strings.Repeat("word ", 200))},
	}

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
	chunks := ChunkOutline(o, cfg, Heuristic{})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].Tier != 1 {
		t.Errorf("expected tier 1, got %d", chunks[0].Tier)
	}
	if chunks[0].Tokens != EstimateTokens(chunks[0].Text) {
		t.Errorf("expected token count %d, got %d", EstimateTokens(chunks[0].Text), chunks[0].Tokens)
	}
}

func TestChunkOutline_LargeSectionRequiresSplitting(t *testing.T) {
	// ~3000 words -> ~3990 tokens at 1.33 tokens/word, one sentence per line.
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog.\n", 300)
	o := &doctree.Outline{Sections: []*doctree.Section{section("BIG", 1, largeText)}}

	cfg := Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunk:     10,
	}
	chunks := ChunkOutline(o, cfg, Heuristic{})

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		// Allow 2x the target as a generous ceiling.
		if c.Tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, c.Tokens, cfg.ChunkSize)
		}
	}
}

func TestChunkOutline_LongLineSplitsBySentence(t *testing.T) {
	long := strings.Repeat("Every word counts here. ", 400)
	o := &doctree.Outline{Sections: []*doctree.Section{section("LONG", 1, long)}}
	chunks := ChunkOutline(o, Config{ChunkSize: 300, ChunkOverlap: 20, MinChunk: 5}, Heuristic{})
	if len(chunks) < 2 {
		t.Fatalf("expected sentence splitting, got %d chunks", len(chunks))
	}
}

func TestChunkOutline_BreadcrumbPropagation(t *testing.T) {
	chapter := section("CHAPTER 1", 1, "")
	chapter.Subsections = []*doctree.Section{section("SECTION 1.1", 2, strings.Repeat("content ", 200))}
	o := &doctree.Outline{Sections: []*doctree.Section{chapter}}

	chunks := ChunkOutline(o, Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10}, Heuristic{})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	bc := chunks[0].Breadcrumb
	want := []string{"CHAPTER 1", "SECTION 1.1"}
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}

func TestChunkOutline_BreadcrumbIsolation(t *testing.T) {
	o := &doctree.Outline{Sections: []*doctree.Section{
		section("A", 1, strings.Repeat("alpha ", 200)),
		section("B", 1, strings.Repeat("beta ", 200)),
	}}

	chunks := ChunkOutline(o, Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10}, Heuristic{})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Breadcrumb) != 1 || chunks[0].Breadcrumb[0] != "A" {
		t.Errorf("chunk 0 breadcrumb: expected [A], got %v", chunks[0].Breadcrumb)
	}
	if len(chunks[1].Breadcrumb) != 1 || chunks[1].Breadcrumb[0] != "B" {
		t.Errorf("chunk 1 breadcrumb: expected [B], got %v", chunks[1].Breadcrumb)
	}
}

func TestChunkOutline_PreambleFirst(t *testing.T) {
	o := &doctree.Outline{
		Preamble: strings.Repeat("enacted ", 50),
		Sections: []*doctree.Section{section("A", 1, strings.Repeat("alpha ", 50))},
	}
	chunks := ChunkOutline(o, Config{MinChunk: 10}, nil)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Breadcrumb != nil || chunks[0].Tier != 0 {
		t.Errorf("expected preamble chunk without breadcrumb, got %v tier %d", chunks[0].Breadcrumb, chunks[0].Tier)
	}
}

func TestChunkOutline_MinChunkFiltering(t *testing.T) {
	o := &doctree.Outline{Sections: []*doctree.Section{section("SHORT", 1, "Hi")}}
	chunks := ChunkOutline(o, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 100}, Heuristic{})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestChunkOutline_Empty(t *testing.T) {
	chunks := ChunkOutline(&doctree.Outline{Title: "Empty"}, DefaultConfig(), Heuristic{})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestChunkOutline_DefaultConfigFallback(t *testing.T) {
	// Zero-value config should be replaced with defaults.
	o := &doctree.Outline{Sections: []*doctree.Section{section("A", 1, strings.Repeat("word ", 200))}}
	if chunks := ChunkOutline(o, Config{}, Heuristic{}); len(chunks) < 1 {
		t.Errorf("expected at least 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 for empty text, got %d", got)
	}
	if got := EstimateTokens("a"); got != 1 {
		t.Errorf("expected 1 for a single word, got %d", got)
	}
	if got := EstimateTokens("one two three"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestCounterFor_EmptyModelUsesEstimate(t *testing.T) {
	if _, ok := CounterFor("", nil).(Heuristic); !ok {
		t.Error("expected heuristic counter for empty model")
	}
}

// wordWeight counts every word as a fixed number of tokens.
type wordWeight int

func (w wordWeight) Count(text string) int { return len(strings.Fields(text)) * int(w) }

func TestGetOverlapText_UsesCounter(t *testing.T) {
	text := "one two three four five six seven eight"

	// Ten tokens per word leaves room for two words in twenty tokens, where
	// the word-based estimate would allow fifteen.
	if got := getOverlapText(text, 20, wordWeight(10)); got != "seven eight" {
		t.Errorf("expected %q, got %q", "seven eight", got)
	}
	if got := getOverlapText(text, 9, wordWeight(10)); got != "" {
		t.Errorf("expected no overlap when one word exceeds the budget, got %q", got)
	}
	if got := getOverlapText(text, 80, wordWeight(10)); got != "" {
		t.Errorf("expected no overlap when the whole text fits, got %q", got)
	}
}

func TestChunkOutline_OverlapMeasuredByCounter(t *testing.T) {
	lines := make([]string, 6)
	for i := range lines {
		lines[i] = strings.Repeat(string(rune('a'+i))+" ", 5)
	}
	o := &doctree.Outline{Sections: []*doctree.Section{section("S", 1, strings.Join(lines, "\n"))}}

	// Five words per line at ten tokens each: two lines per chunk, overlap of three words.
	chunks := ChunkOutline(o, Config{ChunkSize: 100, ChunkOverlap: 30, MinChunk: 1}, wordWeight(10))
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[1].Text, "b b b\n") {
		t.Errorf("expected second chunk to open with a three-word overlap, got %q", chunks[1].Text)
	}
	for _, c := range chunks {
		if c.Tokens != wordWeight(10).Count(c.Text) {
			t.Errorf("chunk %d: tokens %d not measured by counter", c.Index, c.Tokens)
		}
	}
}
