package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdattrs/internal/config"
	"github.com/open-cli-collective/mdattrs/internal/pipeline"
)

func newTestOptions(t *testing.T, stdin string) (*renderOptions, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	for _, v := range []string{"MDATTRS_LEFT_DELIMITER", "MDATTRS_RIGHT_DELIMITER",
		"MDATTRS_ALLOWED_ATTRIBUTES", "MDATTRS_IGNORE", "MDATTRS_PARSER"} {
		t.Setenv(v, "")
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &renderOptions{
		globals: pipeline.Globals{ConfigPath: filepath.Join(t.TempDir(), "config.yml")},
		stdin:   strings.NewReader(stdin),
		stdout:  stdout,
		stderr:  stderr,
	}, stdout, stderr
}

func TestRunRender(t *testing.T) {
	tests := []struct {
		name     string
		settings pipeline.Settings
		input    string
		expected string
	}{
		{
			name:     "paragraph",
			input:    "text {.red}\n",
			expected: "<p class=\"red\">text</p>\n",
		},
		{
			name:     "inline emphasis",
			input:    "some *emphasised*{.x} text\n",
			expected: "<p>some <em class=\"x\">emphasised</em> text</p>\n",
		},
		{
			name:     "no attrs",
			settings: pipeline.Settings{NoAttrs: true},
			input:    "text {.red}\n",
			expected: "<p>text {.red}</p>\n",
		},
		{
			name:     "blackfriday",
			settings: pipeline.Settings{Parser: "blackfriday"},
			input:    "# Title {#top}\n",
			expected: "<h1 id=\"top\">Title</h1>\n",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, stdout, _ := newTestOptions(t, tt.input)
			opts.settings = tt.settings

			require.NoError(t, runRender("", opts))
			assert.Equal(t, tt.expected, stdout.String())
		})
	}
}

func TestRunRender_FileToFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	output := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(input, []byte("text {#p}\n"), 0644))
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0644))

	opts, stdout, stderr := newTestOptions(t, "")
	opts.out = output

	require.NoError(t, runRender(input, opts))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "wrote output")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<p id=\"p\">text</p>\n", string(data))
}

func TestRunRender_ConfigFile(t *testing.T) {
	opts, stdout, _ := newTestOptions(t, "text ((.red))\n")
	require.NoError(t, (&config.Config{LeftDelimiter: "((", RightDelimiter: "))"}).Save(opts.globals.ConfigPath))

	require.NoError(t, runRender("", opts))
	assert.Equal(t, "<p class=\"red\">text</p>\n", stdout.String())
}

func TestRunRender_DebugLogs(t *testing.T) {
	opts, _, stderr := newTestOptions(t, "text {.red}\n")
	opts.globals.Debug = true

	require.NoError(t, runRender("", opts))
	assert.Contains(t, stderr.String(), "applying attribute marker")
	assert.Contains(t, stderr.String(), "pattern=\"end of block\"")
}

func TestRunRender_Errors(t *testing.T) {
	t.Run("missing input file", func(t *testing.T) {
		opts, _, _ := newTestOptions(t, "")
		err := runRender(filepath.Join(t.TempDir(), "missing.md"), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read input")
	})

	t.Run("unknown parser", func(t *testing.T) {
		opts, _, _ := newTestOptions(t, "x")
		opts.settings.Parser = "commonmark"
		err := runRender("", opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown parser")
	})
}

func TestNewCmdRender(t *testing.T) {
	cmd := NewCmdRender()
	assert.Equal(t, "render [file]", cmd.Use)
	for _, name := range []string{"out", "left-delimiter", "right-delimiter", "allow", "ignore", "parser", "no-attrs"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "O", cmd.Flags().Lookup("out").Shorthand)
}
