// Package tokens estimates prompt token counts before a completion call.
package tokens

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/theirongolddev/codeassist/internal/model"
)

const (
	fallbackEncoding = "o200k_base"
	// Per-message framing and reply priming, as counted for chat formats.
	tokensPerMessage = 3
	tokensPerReply   = 3
	// Rough runes-per-token used when no encoding can be loaded.
	approxRunesPerToken = 4
)

// Counter counts tokens with the model's BPE encoding when one is
// available and falls back to a character-based approximation.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter returns a counter for modelID. Unknown models use o200k_base.
// If no encoding can be loaded the counter approximates.
func NewCounter(modelID string) *Counter {
	enc, err := tiktoken.EncodingForModel(modelID)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return &Counter{}
		}
	}
	return &Counter{enc: enc}
}

// Exact reports whether counts come from a real encoding.
func (c *Counter) Exact() bool {
	return c.enc != nil
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc == nil {
		n := utf8.RuneCountInString(text)
		return (n + approxRunesPerToken - 1) / approxRunesPerToken
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountMessages estimates the input tokens of a message list, including
// per-message framing.
func (c *Counter) CountMessages(msgs []model.Message) int {
	if len(msgs) == 0 {
		return 0
	}
	total := tokensPerReply
	for _, m := range msgs {
		total += tokensPerMessage + c.Count(string(m.Role)) + c.Count(m.Content)
	}
	return total
}
