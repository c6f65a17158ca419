package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskFenceInfo(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		infos    map[string]string
	}{
		{
			name:     "no fences",
			input:    "text {.a}\n",
			expected: "text {.a}\n",
			infos:    map[string]string{},
		},
		{
			name:     "brace info",
			input:    "```{.python}\nq\n```\n",
			expected: "```mdattrs-fence-info-0\nq\n```\n",
			infos:    map[string]string{"mdattrs-fence-info-0": "{.python}"},
		},
		{
			name:     "indent and crlf kept",
			input:    "  ~~~ js {.x}\r\nq\r\n  ~~~\r\n",
			expected: "  ~~~mdattrs-fence-info-0\r\nq\r\n  ~~~\r\n",
			infos:    map[string]string{"mdattrs-fence-info-0": "js {.x}"},
		},
		{
			name:     "fence lines inside code are untouched",
			input:    "````md\n```go {.x}\n```\n````\n```{.y}\nz\n```",
			expected: "````mdattrs-fence-info-0\n```go {.x}\n```\n````\n```mdattrs-fence-info-1\nz\n```",
			infos:    map[string]string{"mdattrs-fence-info-0": "md", "mdattrs-fence-info-1": "{.y}"},
		},
		{
			name:     "bare fence",
			input:    "```\n```{.x}\n```\n",
			expected: "```\n```{.x}\n```\n",
			infos:    map[string]string{},
		},
		{
			name:     "backtick in info is inline code",
			input:    "```a`b```\n",
			expected: "```a`b```\n",
			infos:    map[string]string{},
		},
		{
			name:     "indented code is not a fence",
			input:    "    ```{.x}\n",
			expected: "    ```{.x}\n",
			infos:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, infos := maskFenceInfo([]byte(tt.input))
			assert.Equal(t, tt.expected, string(out))
			assert.Equal(t, tt.infos, infos)
		})
	}
}

func TestBlackfriday_FenceInfoFromSource(t *testing.T) {
	tokens, err := New(WithFrontend(Blackfriday{})).Parse([]byte("```py {.x}\nq\n```\n\n> ```{.y}\n> z\n> ```\n"))
	require.NoError(t, err)

	var infos []string
	for _, tok := range tokens {
		if tok.Type == "fence" {
			infos = append(infos, tok.Info)
		}
	}
	// the quoted fence is nested, so blackfriday's own brace reading applies
	assert.Equal(t, []string{"py {.x}", ".y"}, infos)
}
