// Package tokenizer estimates how many model tokens a transcript uses.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/miosa/osa-chat/client"
)

// DefaultEncoding is the BPE used by current chat models.
const DefaultEncoding = "cl100k_base"

// perMessage approximates the role and separator tokens around each message.
const perMessage = 4

// Counter counts tokens. A nil Counter, or one without an encoding, falls
// back to Estimate.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// Load prepares the named encoding. The first call may download the BPE
// ranks, so run it off the UI goroutine.
func Load(encoding string) (*Counter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &Counter{enc: enc}, nil
}

// Exact reports whether counts come from a real encoding.
func (c *Counter) Exact() bool {
	return c != nil && c.enc != nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if !c.Exact() {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountMessages returns the token count of a whole transcript.
func (c *Counter) CountMessages(msgs []client.Message) int {
	if len(msgs) == 0 {
		return 0
	}
	total := 0
	for _, m := range msgs {
		total += perMessage + c.Count(m.Content)
	}
	return total
}

// Estimate is the rough four-characters-per-token rule.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}
