package attrs

import (
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

func newProcessor(t *testing.T, opts Options, mdOpts ...md.Option) *md.Processor {
	t.Helper()
	p := md.New(mdOpts...)
	plugin, err := New(opts)
	require.NoError(t, err)
	require.NoError(t, p.Use(plugin))
	return p
}

func render(t *testing.T, src string, opts Options, mdOpts ...md.Option) string {
	t.Helper()
	out, err := newProcessor(t, opts, mdOpts...).Convert([]byte(src))
	require.NoError(t, err)
	return out
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "emphasis",
			input:    "asdf *asd*{.c} khg",
			expected: "<p>asdf <em class=\"c\">asd</em> khg</p>\n",
		},
		{
			name:     "heading and paragraph",
			input:    "# header {.style-me}\nparagraph {data-toggle=modal}",
			expected: "<h1 class=\"style-me\">header</h1>\n<p data-toggle=\"modal\">paragraph</p>\n",
		},
		{
			name:     "fence info marker only",
			input:    "``` {.python}\nprint()\n```",
			expected: "<pre><code class=\"python\">print()\n</code></pre>\n",
		},
		{
			name:     "fence language and marker",
			input:    "```js {.x data-line=2}\nlet a\n```",
			expected: "<pre><code class=\"x language-js\" data-line=\"2\">let a\n</code></pre>\n",
		},
		{
			name:     "empty marker stays literal",
			input:    "text {}",
			expected: "<p>text {}</p>\n",
		},
		{
			name:     "short shorthand stays literal",
			input:    "text {.}",
			expected: "<p>text {.}</p>\n",
		},
		{
			name:     "several attributes",
			input:    "text {.a #b key=val}",
			expected: "<p class=\"a\" id=\"b\" key=\"val\">text</p>\n",
		},
		{
			name:     "classes join",
			input:    "text {.a .b}",
			expected: "<p class=\"a b\">text</p>\n",
		},
		{
			name:     "css module",
			input:    "text {..mod .a}",
			expected: "<p css-module=\"mod\" class=\"a\">text</p>\n",
		},
		{
			name:     "quoted value",
			input:    `text {title="a b"}`,
			expected: "<p title=\"a b\">text</p>\n",
		},
		{
			name:     "several markers after one span",
			input:    "*a*{.x}{.y}",
			expected: "<p><em class=\"x y\">a</em></p>\n",
		},
		{
			name:     "inline code",
			input:    "`code`{.c} after",
			expected: "<p><code class=\"c\">code</code> after</p>\n",
		},
		{
			name:     "inline code marker consumes text",
			input:    "`code`{.c}",
			expected: "<p><code class=\"c\">code</code></p>\n",
		},
		{
			name:     "image",
			input:    "![alt](img.png){.c}",
			expected: "<p><img src=\"img.png\" alt=\"alt\" class=\"c\"></p>\n",
		},
		{
			name:     "link",
			input:    "[x](http://a.b){target=_blank}",
			expected: "<p><a href=\"http://a.b\" target=\"_blank\">x</a></p>\n",
		},
		{
			name:     "blockquote owns trailing marker",
			input:    "> quote {.q}",
			expected: "<blockquote class=\"q\">\n<p>quote</p>\n</blockquote>\n",
		},
		{
			name:     "softbreak then marker",
			input:    "paragraph\n{.c}",
			expected: "<p class=\"c\">paragraph</p>\n",
		},
		{
			name:     "list item end",
			input:    "- item {.li}\n- two",
			expected: "<ul>\n<li class=\"li\">item</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name:     "list softbreak",
			input:    "- item\n{.red}",
			expected: "<ul class=\"red\">\n<li>item</li>\n</ul>\n",
		},
		{
			name:     "list double softbreak",
			input:    "- item\n\n{.list}",
			expected: "<ul class=\"list\">\n<li>item</li>\n</ul>\n",
		},
		{
			name:     "table",
			input:    "| A |\n|---|\n| 1 |\n\n{.tbl}",
			expected: "<table class=\"tbl\">\n<thead>\n<tr>\n<th>A</th>\n</tr>\n</thead>\n<tbody>\n<tr>\n<td>1</td>\n</tr>\n</tbody>\n</table>\n",
		},
		{
			name:     "horizontal rule",
			input:    "--- {.x}",
			expected: "<hr class=\"x\">\n",
		},
		{
			name:     "marker ending inline code is literal",
			input:    "see `a {.c}`",
			expected: "<p>see <code>a {.c}</code></p>\n",
		},
		{
			name:     "escaped values",
			input:    `text {title="a&b"}`,
			expected: "<p title=\"a&amp;b\">text</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render(t, tt.input, Options{}))
		})
	}
}

func TestProcess_Blackfriday(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "emphasis",
			input:    "asdf *asd*{.c} khg",
			expected: "<p>asdf <em class=\"c\">asd</em> khg</p>\n",
		},
		{
			name:     "heading",
			input:    "# header {.style-me}",
			expected: "<h1 class=\"style-me\">header</h1>\n",
		},
		{
			name:     "paragraph",
			input:    "paragraph {data-toggle=modal}",
			expected: "<p data-toggle=\"modal\">paragraph</p>\n",
		},
		{
			name:     "fence with only a marker",
			input:    "```{.python}\nq\n```",
			expected: "<pre><code class=\"python\">q\n</code></pre>\n",
		},
		{
			name:     "fence with language and marker",
			input:    "```py {.x}\nq\n```",
			expected: "<pre><code class=\"x language-py\">q\n</code></pre>\n",
		},
		{
			name:     "tilde fence",
			input:    "~~~ {#snippet}\nq\n~~~",
			expected: "<pre><code id=\"snippet\">q\n</code></pre>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bf := render(t, tt.input, Options{}, md.WithFrontend(md.Blackfriday{}))
			assert.Equal(t, tt.expected, bf)
			assert.Equal(t, render(t, tt.input, Options{}), bf, "goldmark and blackfriday disagree")
		})
	}
}

func TestProcess_BlackfridayFenceCustomDelimiters(t *testing.T) {
	opts := Options{LeftDelimiter: "{{", RightDelimiter: "}}"}
	out := render(t, "```go {{.x}}\nq\n```", opts, md.WithFrontend(md.Blackfriday{}))
	assert.Equal(t, "<pre><code class=\"x language-go\">q\n</code></pre>\n", out)
}

func TestProcess_CustomDelimiters(t *testing.T) {
	opts := Options{LeftDelimiter: "{{", RightDelimiter: "}}"}

	assert.Equal(t, "<p>asdf <em class=\"c\">asd</em> khg</p>\n", render(t, "asdf *asd*{{.c}} khg", opts))
	assert.Equal(t, "<h1 id=\"top\">title</h1>\n", render(t, "# title {{#top}}", opts))
	assert.Equal(t, "<p>single {.c}</p>\n", render(t, "single {.c}", opts))
}

func TestProcess_AllowedAttributes(t *testing.T) {
	opts := Options{AllowedAttributes: []AllowedAttribute{
		{Name: "id"},
		{Pattern: regexp.MustCompile(`^data-`)},
	}}

	assert.Equal(t, "<p id=\"i\" data-x=\"1\">text</p>\n", render(t, "text {.c #i data-x=1 onclick=x}", opts))
}

func TestProcess_Ignore(t *testing.T) {
	ignore, err := CompileIgnore(`token.type == "inline" and "skip" in token.content`, nil)
	require.NoError(t, err)

	out := render(t, "skip me {.a}\n\nkeep me {.b}", Options{Ignore: ignore})
	assert.Equal(t, "<p>skip me {.a}</p>\n<p class=\"b\">keep me</p>\n", out)
}

func TestProcess_Idempotent(t *testing.T) {
	plugin, err := New(Options{})
	require.NoError(t, err)
	p := md.New()
	require.NoError(t, p.Use(plugin))

	src := "# h {#x}\n\n- a {.b}\n- c\n{.d}\n\n*e*{.f} g {.h}"
	tokens, err := p.Parse([]byte(src))
	require.NoError(t, err)
	first := p.Render(tokens)

	require.NoError(t, plugin.Process(&md.State{Src: []byte(src), Tokens: tokens}))
	assert.Equal(t, first, p.Render(tokens))
}

func TestProcess_LogsFirings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	render(t, "text {.c}", Options{Logger: logger})
	assert.Contains(t, buf.String(), `pattern="end of block"`)
	assert.Contains(t, buf.String(), "index=1")
}

func TestProcess_NilOwnerStillStripsMarker(t *testing.T) {
	plugin, err := New(Options{})
	require.NoError(t, err)

	// a list item inline with no enclosing list open token
	tokens := []*md.Token{
		{Type: "list_item_open", Tag: "li", Nesting: md.Opening, Block: true},
		{Type: "paragraph_open", Tag: "p", Nesting: md.Opening, Block: true, Level: 1},
		{Type: "inline", Block: true, Level: 2, Children: []*md.Token{
			{Type: "text", Content: "item"},
			{Type: "softbreak", Tag: "br"},
			{Type: "text", Content: "{.red}"},
		}},
		{Type: "paragraph_close", Tag: "p", Nesting: md.Closing, Block: true, Level: 1},
		{Type: "list_item_close", Tag: "li", Nesting: md.Closing, Block: true},
	}

	require.NoError(t, plugin.Process(&md.State{Tokens: tokens}))
	require.Len(t, tokens[2].Children, 1)
	assert.Equal(t, "item", tokens[2].Children[0].Content)
	for _, tok := range tokens {
		assert.Empty(t, tok.Attrs)
	}
}

func TestProcess_TableMarkerAtStreamEnd(t *testing.T) {
	plugin, err := New(Options{})
	require.NoError(t, err)

	// a stream cut off before the trailing paragraph_close
	tokens := []*md.Token{
		{Type: "table_open", Tag: "table", Nesting: md.Opening, Block: true},
		{Type: "table_close", Tag: "table", Nesting: md.Closing, Block: true},
		{Type: "paragraph_open", Tag: "p", Nesting: md.Opening, Block: true},
		{Type: "inline", Content: "{.tbl}", Block: true, Level: 1, Children: []*md.Token{
			{Type: "text", Content: "{.tbl}"},
		}},
	}
	s := &md.State{Tokens: tokens}

	require.NotPanics(t, func() {
		require.NoError(t, plugin.Process(s))
	})
	require.Len(t, s.Tokens, 2)
	assert.Equal(t, "table_close", s.Tokens[1].Type)
	class, ok := s.Tokens[0].AttrGet("class")
	require.True(t, ok)
	assert.Equal(t, "tbl", class)
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{LeftDelimiter: "{ "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attrs options")
	assert.Contains(t, err.Error(), "left delimiter")
}

func TestRegister(t *testing.T) {
	p := newProcessor(t, Options{})
	assert.Equal(t, []string{"block", "inline", RuleName}, p.Core().Names())
}
