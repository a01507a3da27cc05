package services

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE used to measure document size before a call
const DefaultEncoding = "cl100k_base"

// Tokenizer converts between text and model tokens
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// TiktokenTokenizer is a Tokenizer backed by tiktoken-go
type TiktokenTokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding. The first call may download the BPE ranks.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encoding, err)
	}
	return &TiktokenTokenizer{encoding: tke}, nil
}

func (t *TiktokenTokenizer) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

func (t *TiktokenTokenizer) Decode(tokens []int) string {
	return t.encoding.Decode(tokens)
}

// truncateTokens keeps the first limit tokens of text.
// It reports the original token count and whether anything was cut.
func truncateTokens(tokenizer Tokenizer, text string, limit int) (string, int, bool) {
	tokens := tokenizer.Encode(text)
	if limit <= 0 || len(tokens) <= limit {
		return text, len(tokens), false
	}
	return tokenizer.Decode(tokens[:limit]), len(tokens), true
}
