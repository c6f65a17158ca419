package md

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// gmParser is a goldmark instance with the GFM table and strikethrough
// extensions. Heading attributes stay disabled so curly markers remain text.
var gmParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// Goldmark is the default frontend.
type Goldmark struct{}

// Name implements Frontend.
func (Goldmark) Name() string { return "goldmark" }

// Parse implements Frontend. Inline tokens are returned with their children
// pending; the inline core rule materializes them.
func (Goldmark) Parse(src []byte) []*Token {
	doc := gmParser.Parser().Parse(text.NewReader(src))

	b := &gmBuilder{source: src}
	b.convertChildren(doc)
	return b.out.tokens
}

// gmBuilder holds state during AST conversion.
type gmBuilder struct {
	source []byte
	out    tokenList
}

// convertChildren converts all block children of an AST node.
func (b *gmBuilder) convertChildren(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		b.convertNode(child)
	}
}

// convertNode converts a single block node.
func (b *gmBuilder) convertNode(n ast.Node) {
	switch node := n.(type) {
	case *ast.Paragraph:
		b.convertParagraph(node, false)
	case *ast.TextBlock:
		// goldmark turns the paragraphs of tight list items into text blocks
		b.convertParagraph(node, true)
	case *ast.Heading:
		b.convertHeading(node)
	case *ast.List:
		b.convertList(node)
	case *ast.Blockquote:
		open := b.out.pushBlock("blockquote_open", "blockquote", Opening)
		open.Markup = ">"
		b.convertChildren(node)
		closing := b.out.pushBlock("blockquote_close", "blockquote", Closing)
		closing.Markup = ">"
	case *ast.FencedCodeBlock:
		tok := b.out.pushBlock("fence", "code", SelfClosing)
		tok.Markup = "```"
		if node.Info != nil {
			tok.Info = string(node.Info.Segment.Value(b.source))
		}
		tok.Content = b.rawLines(node)
	case *ast.CodeBlock:
		tok := b.out.pushBlock("code_block", "code", SelfClosing)
		tok.Content = b.rawLines(node)
	case *ast.ThematicBreak:
		tok := b.out.pushBlock("hr", "hr", SelfClosing)
		tok.Markup = "---"
	case *ast.HTMLBlock:
		tok := b.out.pushBlock("html_block", "", SelfClosing)
		tok.Content = b.rawLines(node)
		if node.HasClosure() {
			tok.Content += string(node.ClosureLine.Value(b.source))
		}
	case *extast.Table:
		b.convertTable(node)
	default:
		if n.HasChildren() {
			b.convertChildren(n)
		}
	}
}

func (b *gmBuilder) convertParagraph(n ast.Node, hidden bool) {
	open := b.out.pushBlock("paragraph_open", "p", Opening)
	open.Hidden = hidden
	b.pushInline(n)
	closing := b.out.pushBlock("paragraph_close", "p", Closing)
	closing.Hidden = hidden
}

func (b *gmBuilder) convertHeading(n *ast.Heading) {
	tag := "h" + strconv.Itoa(n.Level)
	markup := strings.Repeat("#", n.Level)

	open := b.out.pushBlock("heading_open", tag, Opening)
	open.Markup = markup
	b.pushInline(n)
	closing := b.out.pushBlock("heading_close", tag, Closing)
	closing.Markup = markup
}

func (b *gmBuilder) convertList(n *ast.List) {
	typ, tag := "bullet_list", "ul"
	if n.IsOrdered() {
		typ, tag = "ordered_list", "ol"
	}
	markup := string(n.Marker)

	open := b.out.pushBlock(typ+"_open", tag, Opening)
	open.Markup = markup
	if n.IsOrdered() && n.Start != 1 {
		open.AttrSet("start", strconv.Itoa(n.Start))
	}

	number := n.Start
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item := b.out.pushBlock("list_item_open", "li", Opening)
		item.Markup = markup
		if n.IsOrdered() {
			item.Info = strconv.Itoa(number)
			number++
		}
		b.convertChildren(child)
		closing := b.out.pushBlock("list_item_close", "li", Closing)
		closing.Markup = markup
	}

	closing := b.out.pushBlock(typ+"_close", tag, Closing)
	closing.Markup = markup
}

func (b *gmBuilder) convertTable(n *extast.Table) {
	b.out.pushBlock("table_open", "table", Opening)

	inBody := false
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			b.out.pushBlock("thead_open", "thead", Opening)
			b.convertTableRow(row, "th")
			b.out.pushBlock("thead_close", "thead", Closing)
		case *extast.TableRow:
			if !inBody {
				b.out.pushBlock("tbody_open", "tbody", Opening)
				inBody = true
			}
			b.convertTableRow(row, "td")
		}
	}
	if inBody {
		b.out.pushBlock("tbody_close", "tbody", Closing)
	}

	b.out.pushBlock("table_close", "table", Closing)
}

func (b *gmBuilder) convertTableRow(n ast.Node, cellTag string) {
	b.out.pushBlock("tr_open", "tr", Opening)
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*extast.TableCell)
		if !ok {
			continue
		}
		open := b.out.pushBlock(cellTag+"_open", cellTag, Opening)
		if cell.Alignment != extast.AlignNone {
			open.AttrSet("style", "text-align:"+cell.Alignment.String())
		}
		b.pushInline(cell)
		b.out.pushBlock(cellTag+"_close", cellTag, Closing)
	}
	b.out.pushBlock("tr_close", "tr", Closing)
}

// pushInline emits the inline token for a leaf block. Its children are
// built when the inline rule runs.
func (b *gmBuilder) pushInline(n ast.Node) {
	tok := b.out.pushBlock("inline", "", SelfClosing)
	tok.Content = strings.TrimSpace(b.rawLines(n))
	tok.inline = func() []*Token {
		var children tokenList
		b.convertInlineChildren(n, &children)
		return children.tokens
	}
}

// rawLines joins the source lines of a block node.
func (b *gmBuilder) rawLines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(b.source))
	}
	return sb.String()
}

// convertInlineChildren converts all inline children of an AST node.
func (b *gmBuilder) convertInlineChildren(n ast.Node, out *tokenList) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		b.convertInline(child, out)
	}
}

// convertInline converts an inline AST node to token(s).
func (b *gmBuilder) convertInline(n ast.Node, out *tokenList) {
	switch node := n.(type) {
	case *ast.Text:
		value := node.Segment.Value(b.source)
		if !node.IsRaw() {
			value = unescapeText(value)
		}
		s := string(value)
		if node.SoftLineBreak() || node.HardLineBreak() {
			s = strings.TrimRight(s, " \t")
		}
		if s != "" {
			out.pushText(s)
		}
		switch {
		case node.HardLineBreak():
			out.push("hardbreak", "br", SelfClosing)
		case node.SoftLineBreak():
			out.push("softbreak", "br", SelfClosing)
		}

	case *ast.String:
		if len(node.Value) > 0 {
			out.pushText(string(node.Value))
		}

	case *ast.CodeSpan:
		tok := out.push("code_inline", "code", SelfClosing)
		tok.Markup = "`"
		tok.Content = b.codeSpanText(node)

	case *ast.Emphasis:
		typ, markup := "em", "*"
		if node.Level == 2 {
			typ, markup = "strong", "**"
		}
		open := out.push(typ+"_open", typ, Opening)
		open.Markup = markup
		b.convertInlineChildren(node, out)
		closing := out.push(typ+"_close", typ, Closing)
		closing.Markup = markup

	case *extast.Strikethrough:
		open := out.push("s_open", "s", Opening)
		open.Markup = "~~"
		b.convertInlineChildren(node, out)
		closing := out.push("s_close", "s", Closing)
		closing.Markup = "~~"

	case *ast.Link:
		open := out.push("link_open", "a", Opening)
		open.AttrSet("href", string(node.Destination))
		if len(node.Title) > 0 {
			open.AttrSet("title", string(node.Title))
		}
		b.convertInlineChildren(node, out)
		out.push("link_close", "a", Closing)

	case *ast.AutoLink:
		label := string(node.Label(b.source))
		href := string(node.URL(b.source))
		if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		open := out.push("link_open", "a", Opening)
		open.AttrSet("href", href)
		open.Markup = "autolink"
		open.Info = "auto"
		out.pushText(label)
		closing := out.push("link_close", "a", Closing)
		closing.Markup = "autolink"
		closing.Info = "auto"

	case *ast.Image:
		tok := out.push("image", "img", SelfClosing)
		tok.AttrSet("src", string(node.Destination))
		tok.AttrSet("alt", "")
		if len(node.Title) > 0 {
			tok.AttrSet("title", string(node.Title))
		}
		var alt tokenList
		b.convertInlineChildren(node, &alt)
		tok.Children = alt.tokens
		if tok.Children == nil {
			tok.Children = []*Token{}
		}
		tok.Content = renderInlineAsText(tok.Children)

	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			segment := node.Segments.At(i)
			sb.Write(segment.Value(b.source))
		}
		tok := out.push("html_inline", "", SelfClosing)
		tok.Content = sb.String()

	default:
		// For unknown inline types, recurse into children
		b.convertInlineChildren(n, out)
	}
}

// codeSpanText joins the text of a code span, turning line endings into spaces.
func (b *gmBuilder) codeSpanText(n *ast.CodeSpan) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			value := c.Segment.Value(b.source)
			if bytes.HasSuffix(value, []byte("\n")) {
				sb.Write(value[:len(value)-1])
				sb.WriteByte(' ')
			} else {
				sb.Write(value)
			}
		case *ast.String:
			sb.Write(c.Value)
		}
	}
	return sb.String()
}

// unescapeText resolves backslash escapes and character references.
func unescapeText(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
