package attrs

import (
	"strings"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

const (
	pairSeparator = ' '
	keySeparator  = '='
	classChar     = '.'
	idChar        = '#'
)

// disallowedKeyChars never become part of an attribute key.
const disallowedKeyChars = "\t\n\f />\"'="

// ParseMarker parses the marker whose left delimiter begins at start and
// returns its attributes in source order. An unterminated marker yields the
// attributes read before the text ran out.
func ParseMarker(text string, start int, opts Options) []md.Attr {
	opts = opts.withDefaults()
	right := opts.RightDelimiter

	var attrs []md.Attr
	var key, value strings.Builder
	parsingKey := true
	insideQuotes := false

	for i := start + len(opts.LeftDelimiter); i < len(text); i++ {
		if strings.HasPrefix(text[i:], right) {
			if key.Len() > 0 {
				attrs = append(attrs, md.Attr{Key: key.String(), Value: value.String()})
			}
			break
		}

		c := text[i]
		switch {
		case c == keySeparator && parsingKey:
			parsingKey = false

		case c == classChar && key.Len() == 0:
			if i+1 < len(text) && text[i+1] == classChar {
				key.WriteString("css-module")
				i++
			} else {
				key.WriteString("class")
			}
			parsingKey = false

		case c == idChar && key.Len() == 0:
			key.WriteString("id")
			parsingKey = false

		case c == '"' && value.Len() == 0:
			insideQuotes = true

		case c == '"' && insideQuotes:
			insideQuotes = false

		case c == pairSeparator && !insideQuotes:
			if key.Len() == 0 {
				continue
			}
			attrs = append(attrs, md.Attr{Key: key.String(), Value: value.String()})
			key.Reset()
			value.Reset()
			parsingKey = true

		case parsingKey:
			if strings.IndexByte(disallowedKeyChars, c) < 0 {
				key.WriteByte(c)
			}

		default:
			value.WriteByte(c)
		}
	}

	if len(opts.AllowedAttributes) == 0 {
		return attrs
	}
	filtered := attrs[:0]
	for _, a := range attrs {
		if opts.allowed(a.Key) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
