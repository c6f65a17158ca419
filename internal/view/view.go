// Package view provides output formatting for mdattrs commands.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// Format represents an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ValidFormats returns the accepted --output values.
func ValidFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatPlain)}
}

// ValidateFormat checks an --output value. Empty selects the default.
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	for _, f := range ValidFormats() {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q: must be one of %s", format, strings.Join(ValidFormats(), ", "))
}

// Renderer renders data in a specific format.
type Renderer struct {
	format  Format
	writer  io.Writer
	noColor bool
}

// NewRenderer creates a new renderer with the specified format.
func NewRenderer(format Format, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	return &Renderer{
		format:  format,
		writer:  os.Stdout,
		noColor: noColor,
	}
}

// SetWriter sets the output writer.
func (r *Renderer) SetWriter(w io.Writer) {
	r.writer = w
}

// RenderTable renders data as a table. Plain drops the header row and
// separates columns with tabs. JSON callers use RenderJSON instead.
func (r *Renderer) RenderTable(headers []string, rows [][]string) {
	if r.format == FormatPlain {
		r.renderTableAsPlain(headers, rows)
		return
	}

	// Print header
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(r.writer, "  ")
		}
		fmt.Fprint(r.writer, h)
	}
	fmt.Fprintln(r.writer)

	// Print rows
	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(r.writer, "  ")
			}
			fmt.Fprint(r.writer, val)
		}
		fmt.Fprintln(r.writer)
	}
}

func (r *Renderer) renderTableAsPlain(headers []string, rows [][]string) {
	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(r.writer, "\t")
			}
			fmt.Fprint(r.writer, val)
		}
		fmt.Fprintln(r.writer)
	}
}

// RenderJSON renders an object as JSON.
func (r *Renderer) RenderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.writer, string(data))
	return nil
}

// keyWidth aligns the values of consecutive key-value lines.
const keyWidth = 20

// RenderKeyValue renders a key-value pair.
func (r *Renderer) RenderKeyValue(key, value string) {
	if r.format == FormatJSON {
		fmt.Fprintf(r.writer, `{"%s": "%s"}`+"\n", key, value)
		return
	}
	bold := color.New(color.Bold)
	bold.Fprintf(r.writer, "%-*s", keyWidth, key+":")
	fmt.Fprintln(r.writer, value)
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintln(r.writer, "✓ "+msg)
}

// Error prints an error message.
func (r *Renderer) Error(msg string) {
	red := color.New(color.FgRed)
	red.Fprintln(r.writer, "✗ "+msg)
}

// tokenHeaders are the columns of a token dump.
var tokenHeaders = []string{"INDEX", "TYPE", "TAG", "LEVEL", "CONTENT", "ATTRS"}

// RenderTokens dumps a token stream. JSON keeps the full nested structure;
// table and plain list one row per token with children indented under
// their parent.
func (r *Renderer) RenderTokens(tokens []*md.Token) error {
	if r.format == FormatJSON {
		if tokens == nil {
			tokens = []*md.Token{}
		}
		return r.RenderJSON(tokens)
	}

	var rows [][]string
	for i, tok := range tokens {
		rows = append(rows, r.tokenRow(strconv.Itoa(i), "", tok))
		for j, child := range tok.Children {
			rows = append(rows, r.tokenRow(fmt.Sprintf("%d.%d", i, j), "  ", child))
		}
	}
	r.RenderTable(tokenHeaders, rows)
	return nil
}

func (r *Renderer) tokenRow(index, indent string, tok *md.Token) []string {
	typ := indent + tok.Type
	if r.format == FormatTable {
		switch tok.Nesting {
		case md.Opening:
			typ = color.GreenString(typ)
		case md.Closing:
			typ = color.RedString(typ)
		}
	}

	content := tok.Content
	if tok.Info != "" {
		content = tok.Info
	}
	content = strings.ReplaceAll(content, "\n", `\n`)

	return []string{
		index,
		typ,
		tok.Tag,
		strconv.Itoa(tok.Level),
		Truncate(content, 40),
		FormatAttrs(tok.Attrs),
	}
}

// FormatAttrs renders attributes as space separated key="value" pairs.
func FormatAttrs(attrs []md.Attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Key+"="+strconv.Quote(a.Value))
	}
	return strings.Join(parts, " ")
}

// Truncate truncates a string to the specified length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
