package chunker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter measures text in model tokens.
type Counter interface {
	Count(text string) int
}

// EstimateTokens gives a rough token count from the word count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 0.75 words per token for English text.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// Heuristic counts with EstimateTokens. It needs no vocabulary download.
type Heuristic struct{}

func (Heuristic) Count(text string) int { return EstimateTokens(text) }

// Tiktoken counts with a BPE vocabulary.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads the encoding used by model. The vocabulary is fetched
// on first use and cached by the library.
func NewTiktoken(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load encoding for %s: %w", model, err)
	}
	return &Tiktoken{enc: enc}, nil
}

func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// CounterFor returns a tiktoken counter for model, or the heuristic when
// model is empty or its encoding cannot be loaded.
func CounterFor(model string, log *slog.Logger) Counter {
	if model == "" {
		return Heuristic{}
	}
	tk, err := NewTiktoken(model)
	if err != nil {
		if log != nil {
			log.Warn("token counter unavailable, using estimate", "model", model, "error", err)
		}
		return Heuristic{}
	}
	return tk
}
