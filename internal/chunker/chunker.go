package chunker

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

// ChunkOutline walks an outline and produces structure-aware chunks. The
// preamble, when present, is chunked first with an empty breadcrumb.
func ChunkOutline(o *doctree.Outline, cfg Config, counter Counter) []doctree.Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}
	if counter == nil {
		counter = Heuristic{}
	}

	c := &collector{cfg: cfg, counter: counter}
	c.add(o.Preamble, nil, 0, 0)
	o.Walk(func(sec *doctree.Section, breadcrumb []string) {
		c.add(sec.Content, breadcrumb, sec.Tier, sec.Page)
	})
	return c.chunks
}

type collector struct {
	cfg     Config
	counter Counter
	chunks  []doctree.Chunk
}

func (c *collector) add(text string, breadcrumb []string, tier, page int) {
	if text == "" {
		return
	}
	parts := []string{text}
	if c.counter.Count(text) > c.cfg.ChunkSize {
		parts = splitText(text, c.cfg.ChunkSize, c.cfg.ChunkOverlap, c.counter)
	}
	for _, part := range parts {
		tokens := c.counter.Count(part)
		if tokens < c.cfg.MinChunk {
			continue
		}
		c.chunks = append(c.chunks, doctree.Chunk{
			Text:       part,
			Index:      len(c.chunks),
			Breadcrumb: copyBreadcrumb(breadcrumb),
			Tier:       tier,
			Tokens:     tokens,
			Page:       page,
		})
	}
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int, counter Counter) []string {
	// Split by extracted lines first.
	paragraphs := splitByLines(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := counter.Count(para)

		// If a single paragraph exceeds the target, split it further.
		if paraTokens > targetTokens {
			// Flush current buffer.
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			// Split the large paragraph by sentences.
			subParts := splitBySentences(para, targetTokens, overlapTokens, counter)
			result = append(result, subParts...)
			continue
		}

		// Would adding this paragraph exceed the target?
		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			// Start next chunk with overlap from end of current.
			overlap := getOverlapText(current.String(), overlapTokens, counter)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = counter.Count(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitByLines splits section content into its extracted lines.
func splitByLines(text string) []string {
	parts := strings.Split(text, "\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int, counter Counter) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := counter.Count(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens, counter)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = counter.Count(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText returns the longest run of trailing words that fits in
// targetTokens as measured by counter. It is empty when nothing fits or when
// the whole text would fit.
func getOverlapText(text string, targetTokens int, counter Counter) string {
	words := strings.Fields(text)
	if targetTokens <= 0 || len(words) == 0 {
		return ""
	}
	start := len(words)
	for start > 0 && counter.Count(strings.Join(words[start-1:], " ")) <= targetTokens {
		start--
	}
	if start == len(words) || start == 0 {
		return ""
	}
	return strings.Join(words[start:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
