package attrs

import (
	"strings"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// MatchingOpeningToken returns the token that owns attributes for
// tokens[i]: nil for a softbreak, the token itself when it is self-closing,
// and otherwise the nearest earlier opening mate at the same level. It
// returns nil when i is out of range or no mate exists.
func MatchingOpeningToken(tokens []*md.Token, i int) *md.Token {
	if i < 0 || i >= len(tokens) {
		return nil
	}
	tok := tokens[i]
	if tok.Type == "softbreak" {
		return nil
	}
	if tok.Nesting == md.SelfClosing {
		return tok
	}

	level := tok.Level
	typ := strings.Replace(tok.Type, "_close", "_open", 1)
	for ; i >= 0; i-- {
		if tokens[i].Type == typ && tokens[i].Level == level {
			return tokens[i]
		}
	}
	return nil
}

// closingRunOwner skips the run of closing tokens that follows tokens[i] and
// returns the opening mate of the outermost one.
func closingRunOwner(tokens []*md.Token, i int) *md.Token {
	ii := i + 1
	for ii+1 < len(tokens) && tokens[ii+1].Nesting == md.Closing {
		ii++
	}
	return MatchingOpeningToken(tokens, ii)
}
