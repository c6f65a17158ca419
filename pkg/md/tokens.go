// tokens.go defines the flat token stream shared by frontends, core rules and the renderer.
package md

// Nesting tells whether a token opens, closes or stands alone.
type Nesting int

const (
	Closing     Nesting = -1 // paragraph_close, em_close, ...
	SelfClosing Nesting = 0  // text, image, fence, hr, inline, ...
	Opening     Nesting = 1  // paragraph_open, em_open, ...
)

// Attr is a single HTML attribute. The list on a token is ordered and may
// carry repeated keys.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Token represents one entry of a parsed document's depth-first token stream.
type Token struct {
	Type     string   `json:"type"`               // "paragraph_open", "inline", "text", ...
	Tag      string   `json:"tag,omitempty"`      // HTML tag name ("p", "em", "code")
	Attrs    []Attr   `json:"attrs,omitempty"`    // HTML attributes
	Nesting  Nesting  `json:"nesting"`            // +1 opening, 0 self-closing, -1 closing
	Level    int      `json:"level"`              // equal for a token and its structural mate
	Children []*Token `json:"children,omitempty"` // set for "inline" and "image" tokens only
	Content  string   `json:"content,omitempty"`  // text content or raw inline source
	Info     string   `json:"info,omitempty"`     // fence info string, ordered list item number
	Markup   string   `json:"markup,omitempty"`   // source marker ("*", "```", "-")
	Block    bool     `json:"block"`              // true for block-level tokens
	Hidden   bool     `json:"hidden,omitempty"`   // paragraphs inside tight lists

	// inline defers child construction until the inline rule runs.
	inline func() []*Token
}

// AttrIndex returns the index of the first attribute named name, or -1.
func (t *Token) AttrIndex(name string) int {
	for i, a := range t.Attrs {
		if a.Key == name {
			return i
		}
	}
	return -1
}

// AttrGet returns the value of the first attribute named name.
func (t *Token) AttrGet(name string) (string, bool) {
	if i := t.AttrIndex(name); i >= 0 {
		return t.Attrs[i].Value, true
	}
	return "", false
}

// AttrPush appends an attribute, even if one with the same key exists.
func (t *Token) AttrPush(a Attr) {
	t.Attrs = append(t.Attrs, a)
}

// AttrSet overwrites the first attribute named name, or appends it.
func (t *Token) AttrSet(name, value string) {
	if i := t.AttrIndex(name); i >= 0 {
		t.Attrs[i].Value = value
		return
	}
	t.AttrPush(Attr{Key: name, Value: value})
}

// AttrJoin appends value to the attribute named name separated by a space,
// creating the attribute when missing. Used for class-like attributes.
func (t *Token) AttrJoin(name, value string) {
	if i := t.AttrIndex(name); i >= 0 {
		t.Attrs[i].Value += " " + value
		return
	}
	t.AttrPush(Attr{Key: name, Value: value})
}

// tokenList builds a token stream, stamping levels the way markdown-it does:
// closing tokens step the level down before being stamped, opening tokens
// step it up afterwards.
type tokenList struct {
	tokens []*Token
	level  int
}

func (l *tokenList) push(typ, tag string, nesting Nesting) *Token {
	if nesting < 0 {
		l.level--
	}
	tok := &Token{
		Type:    typ,
		Tag:     tag,
		Nesting: nesting,
		Level:   l.level,
	}
	if nesting > 0 {
		l.level++
	}
	l.tokens = append(l.tokens, tok)
	return tok
}

func (l *tokenList) pushBlock(typ, tag string, nesting Nesting) *Token {
	tok := l.push(typ, tag, nesting)
	tok.Block = true
	return tok
}

// pushText appends content to a trailing text token, or starts a new one.
func (l *tokenList) pushText(content string) {
	if n := len(l.tokens); n > 0 && l.tokens[n-1].Type == "text" {
		l.tokens[n-1].Content += content
		return
	}
	tok := l.push("text", "", SelfClosing)
	tok.Content = content
}

// last returns the most recently pushed token, or nil.
func (l *tokenList) last() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return l.tokens[len(l.tokens)-1]
}
