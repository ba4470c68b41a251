// Package tokens provides deterministic token counting and truncation for
// length checks and context minimization.
package tokens

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the BPE encoding used for exact counts.
const encodingName = "cl100k_base"

// approxBytesPerToken is the fallback ratio when the BPE encoding is
// unavailable (for example, offline environments).
const approxBytesPerToken = 4

// Counter counts and truncates text by token count. Counts are exact when
// the tiktoken encoding could be loaded and a byte-proportional estimate
// otherwise; both are deterministic and monotonic with text length.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter creates a Counter, loading the BPE encoding on a best-effort
// basis.
func NewCounter() *Counter {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	return (len(text) + approxBytesPerToken - 1) / approxBytesPerToken
}

// Truncate returns text cut down to at most maxTokens tokens. Text already
// within the limit is returned unchanged.
func (c *Counter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if c.enc != nil {
		ids := c.enc.Encode(text, nil, nil)
		if len(ids) <= maxTokens {
			return text
		}
		return c.enc.Decode(ids[:maxTokens])
	}

	limit := maxTokens * approxBytesPerToken
	if len(text) <= limit {
		return text
	}
	// Back off to a rune boundary so the cut never splits a multi-byte rune.
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
