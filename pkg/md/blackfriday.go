package md

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/russross/blackfriday"
)

// bfExtensions mirrors blackfriday's common set without HeadingIDs, which
// would consume trailing {#id} markers itself.
const bfExtensions = blackfriday.NoIntraEmphasis |
	blackfriday.Tables |
	blackfriday.FencedCode |
	blackfriday.Autolink |
	blackfriday.Strikethrough |
	blackfriday.SpaceHeadings |
	blackfriday.BackslashLineBreak

// Blackfriday is an alternate frontend built on the blackfriday v2 AST.
//
// blackfriday keeps no raw source on block nodes, so the Content of inline
// tokens is rebuilt from their children. Fence info strings of top-level
// fences are taken from the source; fences nested in lists or blockquotes
// keep blackfriday's reading of the info string.
type Blackfriday struct{}

// Name implements Frontend.
func (Blackfriday) Name() string { return "blackfriday" }

// Parse implements Frontend.
func (Blackfriday) Parse(src []byte) []*Token {
	src, infos := maskFenceInfo(src)
	doc := blackfriday.New(blackfriday.WithExtensions(bfExtensions)).Parse(src)

	b := &bfBuilder{fenceInfo: infos}
	b.convertChildren(doc)
	return b.out.tokens
}

type bfBuilder struct {
	out       tokenList
	fenceInfo map[string]string
}

// fenceInfoKey prefixes the placeholder words maskFenceInfo writes.
const fenceInfoKey = "mdattrs-fence-info-"

var fenceLineRe = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})(.*)$")

// maskFenceInfo replaces the info string of every top-level fence opening
// line with a single placeholder word and returns the raw strings by
// placeholder. blackfriday strips {braces} from info strings and rejects
// fences whose info holds more than one word, so both would lose markers.
// A fence closes on a line with exactly its opening marker, as in
// blackfriday.
func maskFenceInfo(src []byte) ([]byte, map[string]string) {
	lines := strings.SplitAfter(string(src), "\n")
	infos := make(map[string]string)

	var marker string
	for i, line := range lines {
		body := strings.TrimRight(line, "\r\n")
		m := fenceLineRe.FindStringSubmatch(body)

		if marker != "" {
			if m != nil && m[2] == marker && strings.TrimSpace(m[3]) == "" {
				marker = ""
			}
			continue
		}
		if m == nil {
			continue
		}

		info := strings.TrimSpace(m[3])
		if m[2][0] == '`' && strings.Contains(info, "`") {
			continue
		}
		marker = m[2]
		if info == "" {
			continue
		}

		key := fenceInfoKey + strconv.Itoa(len(infos))
		infos[key] = info
		lines[i] = m[1] + m[2] + key + line[len(body):]
	}

	return []byte(strings.Join(lines, "")), infos
}

func (b *bfBuilder) convertChildren(n *blackfriday.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		b.convertNode(child)
	}
}

func (b *bfBuilder) convertNode(n *blackfriday.Node) {
	switch n.Type {
	case blackfriday.Paragraph:
		hidden := false
		if item := n.Parent; item != nil && item.Type == blackfriday.Item {
			if list := item.Parent; list != nil && list.Type == blackfriday.List {
				hidden = list.Tight
			}
		}
		open := b.out.pushBlock("paragraph_open", "p", Opening)
		open.Hidden = hidden
		b.pushInline(n)
		closing := b.out.pushBlock("paragraph_close", "p", Closing)
		closing.Hidden = hidden

	case blackfriday.Heading:
		tag := "h" + strconv.Itoa(n.Level)
		markup := strings.Repeat("#", n.Level)
		open := b.out.pushBlock("heading_open", tag, Opening)
		open.Markup = markup
		b.pushInline(n)
		closing := b.out.pushBlock("heading_close", tag, Closing)
		closing.Markup = markup

	case blackfriday.BlockQuote:
		b.out.pushBlock("blockquote_open", "blockquote", Opening)
		b.convertChildren(n)
		b.out.pushBlock("blockquote_close", "blockquote", Closing)

	case blackfriday.List:
		b.convertList(n)

	case blackfriday.CodeBlock:
		if n.IsFenced {
			tok := b.out.pushBlock("fence", "code", SelfClosing)
			tok.Markup = strings.Repeat(string(n.FenceChar), n.FenceLength)
			tok.Info = string(n.Info)
			if raw, ok := b.fenceInfo[tok.Info]; ok {
				tok.Info = raw
			}
			tok.Content = string(n.Literal)
		} else {
			tok := b.out.pushBlock("code_block", "code", SelfClosing)
			tok.Content = string(n.Literal)
		}

	case blackfriday.HorizontalRule:
		tok := b.out.pushBlock("hr", "hr", SelfClosing)
		tok.Markup = "---"

	case blackfriday.HTMLBlock:
		tok := b.out.pushBlock("html_block", "", SelfClosing)
		tok.Content = string(n.Literal) + "\n"

	case blackfriday.Table:
		b.out.pushBlock("table_open", "table", Opening)
		b.convertChildren(n)
		b.out.pushBlock("table_close", "table", Closing)

	case blackfriday.TableHead:
		b.out.pushBlock("thead_open", "thead", Opening)
		b.convertChildren(n)
		b.out.pushBlock("thead_close", "thead", Closing)

	case blackfriday.TableBody:
		b.out.pushBlock("tbody_open", "tbody", Opening)
		b.convertChildren(n)
		b.out.pushBlock("tbody_close", "tbody", Closing)

	case blackfriday.TableRow:
		b.out.pushBlock("tr_open", "tr", Opening)
		b.convertChildren(n)
		b.out.pushBlock("tr_close", "tr", Closing)

	case blackfriday.TableCell:
		tag := "td"
		if n.IsHeader {
			tag = "th"
		}
		open := b.out.pushBlock(tag+"_open", tag, Opening)
		switch n.Align {
		case blackfriday.TableAlignmentLeft:
			open.AttrSet("style", "text-align:left")
		case blackfriday.TableAlignmentRight:
			open.AttrSet("style", "text-align:right")
		case blackfriday.TableAlignmentCenter:
			open.AttrSet("style", "text-align:center")
		}
		b.pushInline(n)
		b.out.pushBlock(tag+"_close", tag, Closing)

	default:
		b.convertChildren(n)
	}
}

func (b *bfBuilder) convertList(n *blackfriday.Node) {
	ordered := n.ListFlags&blackfriday.ListTypeOrdered != 0
	typ, tag := "bullet_list", "ul"
	markup := string(n.BulletChar)
	if ordered {
		typ, tag = "ordered_list", "ol"
		markup = string(n.Delimiter)
	}

	b.out.pushBlock(typ+"_open", tag, Opening).Markup = markup

	number := 1
	for item := n.FirstChild; item != nil; item = item.Next {
		open := b.out.pushBlock("list_item_open", "li", Opening)
		open.Markup = markup
		if ordered {
			open.Info = strconv.Itoa(number)
			number++
		}
		b.convertChildren(item)
		b.out.pushBlock("list_item_close", "li", Closing).Markup = markup
	}

	b.out.pushBlock(typ+"_close", tag, Closing).Markup = markup
}

func (b *bfBuilder) pushInline(n *blackfriday.Node) {
	tok := b.out.pushBlock("inline", "", SelfClosing)
	tok.Content = strings.TrimSpace(bfSource(n))
	tok.inline = func() []*Token {
		var children tokenList
		b.convertInlineChildren(n, &children)
		return trimTrailingBreaks(children.tokens)
	}
}

// trimTrailingBreaks drops the line endings blackfriday leaves at the end of
// list item text.
func trimTrailingBreaks(tokens []*Token) []*Token {
	for len(tokens) > 0 && tokens[len(tokens)-1].Type == "softbreak" {
		tokens = tokens[:len(tokens)-1]
	}
	if n := len(tokens); n > 0 && tokens[n-1].Type == "text" {
		tokens[n-1].Content = strings.TrimRight(tokens[n-1].Content, " \t")
	}
	return tokens
}

func (b *bfBuilder) convertInlineChildren(n *blackfriday.Node, out *tokenList) {
	for child := n.FirstChild; child != nil; child = child.Next {
		b.convertInline(child, out)
	}
}

func (b *bfBuilder) convertInline(n *blackfriday.Node, out *tokenList) {
	switch n.Type {
	case blackfriday.Text:
		// soft line breaks stay inside blackfriday text literals
		lines := strings.Split(string(n.Literal), "\n")
		for i, line := range lines {
			if i < len(lines)-1 {
				line = strings.TrimRight(line, " \t")
			}
			if line != "" {
				out.pushText(line)
			}
			if i < len(lines)-1 {
				out.push("softbreak", "br", SelfClosing)
			}
		}

	case blackfriday.Softbreak:
		out.push("softbreak", "br", SelfClosing)

	case blackfriday.Hardbreak:
		out.push("hardbreak", "br", SelfClosing)

	case blackfriday.Code:
		tok := out.push("code_inline", "code", SelfClosing)
		tok.Markup = "`"
		tok.Content = string(n.Literal)

	case blackfriday.Emph, blackfriday.Strong, blackfriday.Del:
		typ, markup := "em", "*"
		switch n.Type {
		case blackfriday.Strong:
			typ, markup = "strong", "**"
		case blackfriday.Del:
			typ, markup = "s", "~~"
		}
		out.push(typ+"_open", typ, Opening).Markup = markup
		b.convertInlineChildren(n, out)
		out.push(typ+"_close", typ, Closing).Markup = markup

	case blackfriday.Link:
		open := out.push("link_open", "a", Opening)
		open.AttrSet("href", string(n.Destination))
		if len(n.Title) > 0 {
			open.AttrSet("title", string(n.Title))
		}
		b.convertInlineChildren(n, out)
		out.push("link_close", "a", Closing)

	case blackfriday.Image:
		tok := out.push("image", "img", SelfClosing)
		tok.AttrSet("src", string(n.Destination))
		tok.AttrSet("alt", "")
		if len(n.Title) > 0 {
			tok.AttrSet("title", string(n.Title))
		}
		var alt tokenList
		b.convertInlineChildren(n, &alt)
		tok.Children = alt.tokens
		if tok.Children == nil {
			tok.Children = []*Token{}
		}
		tok.Content = renderInlineAsText(tok.Children)

	case blackfriday.HTMLSpan:
		out.push("html_inline", "", SelfClosing).Content = string(n.Literal)

	default:
		b.convertInlineChildren(n, out)
	}
}

// bfSource approximates the markdown source of an inline run.
func bfSource(n *blackfriday.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.Next {
		switch child.Type {
		case blackfriday.Text, blackfriday.HTMLSpan:
			sb.Write(child.Literal)
		case blackfriday.Code:
			sb.WriteString("`" + string(child.Literal) + "`")
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			sb.WriteString("\n")
		case blackfriday.Emph:
			sb.WriteString("*" + bfSource(child) + "*")
		case blackfriday.Strong:
			sb.WriteString("**" + bfSource(child) + "**")
		case blackfriday.Del:
			sb.WriteString("~~" + bfSource(child) + "~~")
		case blackfriday.Link:
			sb.WriteString("[" + bfSource(child) + "](" + string(child.Destination) + ")")
		case blackfriday.Image:
			sb.WriteString("![" + bfSource(child) + "](" + string(child.Destination) + ")")
		default:
			sb.WriteString(bfSource(child))
		}
	}
	return sb.String()
}
