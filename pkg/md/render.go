// render.go renders token streams to HTML.
package md

import (
	"strings"
)

// renderRule renders the token at idx and everything it owns.
type renderRule func(r *Renderer, tokens []*Token, idx int, sb *strings.Builder)

// Renderer turns a token stream into HTML. Output matches markdown-it's
// default renderer with xhtmlOut and breaks disabled.
type Renderer struct {
	// LangPrefix is prepended to the fence language in the code class.
	LangPrefix string

	rules map[string]renderRule
}

// NewRenderer creates a renderer with the default rules.
func NewRenderer() *Renderer {
	return &Renderer{
		LangPrefix: "language-",
		rules: map[string]renderRule{
			"code_inline": renderCodeInline,
			"code_block":  renderCodeBlock,
			"fence":       renderFence,
			"image":       renderImage,
			"hardbreak":   renderHardbreak,
			"softbreak":   renderSoftbreak,
			"text":        renderText,
			"html_block":  renderHTML,
			"html_inline": renderHTML,
		},
	}
}

// Render renders a block-level token stream.
func (r *Renderer) Render(tokens []*Token) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if tok.Type == "inline" {
			r.renderInline(tok.Children, &sb)
			continue
		}
		if rule, ok := r.rules[tok.Type]; ok {
			rule(r, tokens, i, &sb)
			continue
		}
		r.renderToken(tokens, i, &sb)
	}
	return sb.String()
}

func (r *Renderer) renderInline(tokens []*Token, sb *strings.Builder) {
	for i, tok := range tokens {
		if rule, ok := r.rules[tok.Type]; ok {
			rule(r, tokens, i, sb)
			continue
		}
		r.renderToken(tokens, i, sb)
	}
}

// renderToken renders a plain opening, closing or self-closing tag.
func (r *Renderer) renderToken(tokens []*Token, idx int, sb *strings.Builder) {
	tok := tokens[idx]
	if tok.Hidden {
		return
	}

	// Insert a newline between hidden paragraph and subsequent opening block tag
	if tok.Block && tok.Nesting != Closing && idx > 0 && tokens[idx-1].Hidden {
		sb.WriteString("\n")
	}

	if tok.Nesting == Closing {
		sb.WriteString("</")
	} else {
		sb.WriteString("<")
	}
	sb.WriteString(tok.Tag)
	renderAttrs(tok.Attrs, sb)

	needLf := false
	if tok.Block {
		needLf = true
		if tok.Nesting == Opening && idx+1 < len(tokens) {
			next := tokens[idx+1]
			if next.Type == "inline" || next.Hidden {
				needLf = false
			} else if next.Nesting == Closing && next.Tag == tok.Tag {
				needLf = false
			}
		}
	}
	if needLf {
		sb.WriteString(">\n")
	} else {
		sb.WriteString(">")
	}
}

func renderAttrs(attrs []Attr, sb *strings.Builder) {
	for _, a := range attrs {
		sb.WriteString(" ")
		sb.WriteString(escapeHTML(a.Key))
		sb.WriteString(`="`)
		sb.WriteString(escapeHTML(a.Value))
		sb.WriteString(`"`)
	}
}

func renderCodeInline(_ *Renderer, tokens []*Token, idx int, sb *strings.Builder) {
	tok := tokens[idx]
	sb.WriteString("<code")
	renderAttrs(tok.Attrs, sb)
	sb.WriteString(">")
	sb.WriteString(escapeHTML(tok.Content))
	sb.WriteString("</code>")
}

func renderCodeBlock(_ *Renderer, tokens []*Token, idx int, sb *strings.Builder) {
	tok := tokens[idx]
	sb.WriteString("<pre")
	renderAttrs(tok.Attrs, sb)
	sb.WriteString("><code>")
	sb.WriteString(escapeHTML(tok.Content))
	sb.WriteString("</code></pre>\n")
}

func renderFence(r *Renderer, tokens []*Token, idx int, sb *strings.Builder) {
	tok := tokens[idx]
	info := strings.TrimSpace(string(unescapeText([]byte(tok.Info))))

	attrs := tok.Attrs
	if info != "" {
		langName := strings.Fields(info)[0]
		attrs = make([]Attr, len(tok.Attrs))
		copy(attrs, tok.Attrs)
		class := r.LangPrefix + langName
		if i := tok.AttrIndex("class"); i >= 0 {
			attrs[i].Value += " " + class
		} else {
			attrs = append(attrs, Attr{Key: "class", Value: class})
		}
	}

	sb.WriteString("<pre><code")
	renderAttrs(attrs, sb)
	sb.WriteString(">")
	sb.WriteString(escapeHTML(tok.Content))
	sb.WriteString("</code></pre>\n")
}

func renderImage(r *Renderer, tokens []*Token, idx int, sb *strings.Builder) {
	tok := tokens[idx]
	tok.AttrSet("alt", renderInlineAsText(tok.Children))
	r.renderToken(tokens, idx, sb)
}

func renderHardbreak(_ *Renderer, _ []*Token, _ int, sb *strings.Builder) {
	sb.WriteString("<br>\n")
}

func renderSoftbreak(_ *Renderer, _ []*Token, _ int, sb *strings.Builder) {
	sb.WriteString("\n")
}

func renderText(_ *Renderer, tokens []*Token, idx int, sb *strings.Builder) {
	sb.WriteString(escapeHTML(tokens[idx].Content))
}

func renderHTML(_ *Renderer, tokens []*Token, idx int, sb *strings.Builder) {
	sb.WriteString(tokens[idx].Content)
}

// renderInlineAsText flattens inline tokens to plain text, used for alt text.
func renderInlineAsText(tokens []*Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		switch tok.Type {
		case "text", "html_inline", "html_block":
			sb.WriteString(tok.Content)
		case "image":
			sb.WriteString(renderInlineAsText(tok.Children))
		case "softbreak", "hardbreak":
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// escapeHTML escapes special HTML characters in a string.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
