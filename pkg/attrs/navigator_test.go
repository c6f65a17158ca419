package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// blockquoteTokens is "> a" as a block token stream.
func blockquoteTokens() []*md.Token {
	return []*md.Token{
		{Type: "blockquote_open", Nesting: md.Opening, Level: 0},
		{Type: "paragraph_open", Nesting: md.Opening, Level: 1},
		{Type: "inline", Nesting: md.SelfClosing, Level: 2},
		{Type: "paragraph_close", Nesting: md.Closing, Level: 1},
		{Type: "blockquote_close", Nesting: md.Closing, Level: 0},
		{Type: "hr", Nesting: md.SelfClosing, Level: 0},
	}
}

func TestMatchingOpeningToken(t *testing.T) {
	tokens := blockquoteTokens()
	tokens = append(tokens, &md.Token{Type: "softbreak"}, &md.Token{Type: "em_close", Nesting: md.Closing, Level: 7})

	tests := []struct {
		name     string
		index    int
		expected *md.Token
	}{
		{name: "paragraph close", index: 3, expected: tokens[1]},
		{name: "blockquote close", index: 4, expected: tokens[0]},
		{name: "self closing returns itself", index: 5, expected: tokens[5]},
		{name: "softbreak has no owner", index: 6, expected: nil},
		{name: "unmatched closing", index: 7, expected: nil},
		{name: "out of range", index: 99, expected: nil},
		{name: "negative index", index: -1, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchingOpeningToken(tokens, tt.index)
			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}
			assert.Same(t, tt.expected, result)
		})
	}
}

func TestMatchingOpeningToken_SameLevelOnly(t *testing.T) {
	tokens := []*md.Token{
		{Type: "em_open", Nesting: md.Opening, Level: 0},
		{Type: "em_open", Nesting: md.Opening, Level: 1},
		{Type: "em_close", Nesting: md.Closing, Level: 1},
		{Type: "em_close", Nesting: md.Closing, Level: 0},
	}
	assert.Same(t, tokens[1], MatchingOpeningToken(tokens, 2))
	assert.Same(t, tokens[0], MatchingOpeningToken(tokens, 3))
}

func TestClosingRunOwner(t *testing.T) {
	tokens := blockquoteTokens()
	assert.Same(t, tokens[0], closingRunOwner(tokens, 2))

	tokens = tokens[:4]
	assert.Same(t, tokens[1], closingRunOwner(tokens, 2))

	assert.Nil(t, closingRunOwner(tokens, 3))
}
