package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Attrs(t *testing.T) {
	tokens := []*Token{
		{Type: "paragraph_open", Tag: "p", Nesting: Opening, Block: true, Attrs: []Attr{{Key: "data-x", Value: `a"b`}}},
		{Type: "inline", Nesting: SelfClosing, Block: true, Level: 1, Children: []*Token{
			{Type: "text", Content: "x < y"},
		}},
		{Type: "paragraph_close", Tag: "p", Nesting: Closing, Block: true},
	}

	assert.Equal(t, "<p data-x=\"a&quot;b\">x &lt; y</p>\n", NewRenderer().Render(tokens))
}

func TestRender_Fence(t *testing.T) {
	tests := []struct {
		name     string
		token    *Token
		expected string
	}{
		{
			name:     "no info",
			token:    &Token{Type: "fence", Content: "a\n"},
			expected: "<pre><code>a\n</code></pre>\n",
		},
		{
			name:     "language only",
			token:    &Token{Type: "fence", Info: "python", Content: "a\n"},
			expected: "<pre><code class=\"language-python\">a\n</code></pre>\n",
		},
		{
			name:     "class attribute without language",
			token:    &Token{Type: "fence", Attrs: []Attr{{Key: "class", Value: "python"}}, Content: "a\n"},
			expected: "<pre><code class=\"python\">a\n</code></pre>\n",
		},
		{
			name:     "class merged with language",
			token:    &Token{Type: "fence", Info: "js extra", Attrs: []Attr{{Key: "class", Value: "x"}}, Content: "<b>\n"},
			expected: "<pre><code class=\"x language-js\">&lt;b&gt;\n</code></pre>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewRenderer().Render([]*Token{tt.token}))
			// rendering never mutates the fence's own attributes
			assert.NotContains(t, tt.token.Attrs, Attr{Key: "class", Value: "x language-js"})
		})
	}
}

func TestRender_HiddenParagraph(t *testing.T) {
	tokens := []*Token{
		{Type: "list_item_open", Tag: "li", Nesting: Opening, Block: true},
		{Type: "paragraph_open", Tag: "p", Nesting: Opening, Block: true, Hidden: true},
		{Type: "inline", Block: true, Children: []*Token{{Type: "text", Content: "a"}}},
		{Type: "paragraph_close", Tag: "p", Nesting: Closing, Block: true, Hidden: true},
		{Type: "bullet_list_open", Tag: "ul", Nesting: Opening, Block: true},
		{Type: "bullet_list_close", Tag: "ul", Nesting: Closing, Block: true},
		{Type: "list_item_close", Tag: "li", Nesting: Closing, Block: true},
	}

	assert.Equal(t, "<li>a\n<ul></ul>\n</li>\n", NewRenderer().Render(tokens))
}

func TestRender_Inline(t *testing.T) {
	children := []*Token{
		{Type: "text", Content: "a"},
		{Type: "softbreak"},
		{Type: "code_inline", Content: "<x>", Attrs: []Attr{{Key: "class", Value: "k"}}},
		{Type: "hardbreak"},
		{Type: "html_inline", Content: "<span>"},
		{Type: "image", Tag: "img", Attrs: []Attr{{Key: "src", Value: "i.png"}, {Key: "alt", Value: ""}}, Children: []*Token{
			{Type: "text", Content: "alt"},
			{Type: "softbreak"},
			{Type: "text", Content: "text"},
		}},
	}
	tokens := []*Token{{Type: "inline", Block: true, Children: children}}

	expected := "a\n<code class=\"k\">&lt;x&gt;</code><br>\n<span><img src=\"i.png\" alt=\"alt\ntext\">"
	assert.Equal(t, expected, NewRenderer().Render(tokens))
}

func TestRenderInlineAsText(t *testing.T) {
	tokens := []*Token{
		{Type: "text", Content: "a "},
		{Type: "em_open"},
		{Type: "text", Content: "b"},
		{Type: "em_close"},
		{Type: "image", Children: []*Token{{Type: "text", Content: "c"}}},
		{Type: "code_inline", Content: "skipped"},
	}
	assert.Equal(t, "a bc", renderInlineAsText(tokens))
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "plain", escapeHTML("plain"))
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;&amp;'", escapeHTML(`<a href="x">&'`))
}
