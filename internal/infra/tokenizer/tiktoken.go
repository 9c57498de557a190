package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts BPE tokens with a tiktoken encoding. Gemini uses a
// different tokenizer, so the count is an estimate used for input budgets.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding, e.g. "cl100k_base".
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	name := strings.TrimSpace(encoding)
	if name == "" {
		name = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", name, err)
	}
	return &TiktokenCounter{encoding: enc}, nil
}

// Count returns the number of tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// WordCounter approximates tokens by whitespace separated words. It is the
// fallback when no tiktoken encoding can be loaded.
type WordCounter struct{}

// Count returns the number of whitespace separated words in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}
