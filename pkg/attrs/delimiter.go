package attrs

import (
	"fmt"
	"regexp"
	"strings"
)

// Position anchors a marker within a text fragment.
type Position int

const (
	// Start requires the marker to begin the fragment.
	Start Position = iota + 1
	// End requires the marker to end the fragment.
	End
	// Only requires the fragment to be exactly one marker.
	Only
)

func (p Position) String() string {
	switch p {
	case Start:
		return "start"
	case End:
		return "end"
	case Only:
		return "only"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// HasMarkerAt returns a predicate reporting whether a fragment carries a
// well-formed marker at where. It panics when where is not one of Start, End
// or Only.
func HasMarkerAt(where Position, opts Options) func(string) bool {
	switch where {
	case Start, End, Only:
	default:
		panic(&ConfigError{Msg: fmt.Sprintf("marker position not set (got %s), expected start, end or only", where)})
	}

	opts = opts.withDefaults()
	left, right := opts.LeftDelimiter, opts.RightDelimiter
	minLength := len(left) + 1 + len(right)
	rightMinShift := minLength - len(right)

	validLength := func(marker string) bool {
		if len(marker) > len(left) && (marker[len(left)] == classChar || marker[len(left)] == idChar) {
			return len(marker) >= minLength+1
		}
		return len(marker) >= minLength
	}

	return func(s string) bool {
		if len(s) < minLength {
			return false
		}

		var start, end int
		switch where {
		case Start:
			if !strings.HasPrefix(s, left) {
				return false
			}
			start = 0
			end = indexFrom(s, right, rightMinShift)
			if end < 0 {
				return false
			}
			if next := end + len(right); next < len(s) && strings.IndexByte(right, s[next]) >= 0 {
				return false
			}
		case End:
			start = strings.LastIndex(s, left)
			if start < 0 {
				return false
			}
			end = indexFrom(s, right, start+rightMinShift)
			if end != len(s)-len(right) {
				return false
			}
		case Only:
			if !strings.HasPrefix(s, left) || !strings.HasSuffix(s, right) {
				return false
			}
			start, end = 0, len(s)-len(right)
		}

		return validLength(s[start : end+len(right)])
	}
}

// indexFrom is strings.Index starting at byte offset from.
func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return from + i
}

// quoteClass escapes s for use inside a regexp character class.
func quoteClass(s string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(s), "-", `\-`)
}

// markerSuffixPattern matches a trailing marker and one separator before it.
func markerSuffixPattern(opts Options) *regexp.Regexp {
	left, right := opts.LeftDelimiter, opts.RightDelimiter
	return regexp.MustCompile(`[ \n]?` + regexp.QuoteMeta(left) +
		`[^` + quoteClass(left+right) + `]+` + regexp.QuoteMeta(right) + `$`)
}

// hrPattern matches a thematic break run directly followed by a marker.
func hrPattern(opts Options) *regexp.Regexp {
	return regexp.MustCompile(`^ {0,3}[-*_]{3,} ?` + regexp.QuoteMeta(opts.LeftDelimiter) +
		`[^` + quoteClass(opts.RightDelimiter) + `]`)
}

// removeMarker cuts a trailing marker from s, if there is one.
func removeMarker(s string, suffix *regexp.Regexp) string {
	if loc := suffix.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}
