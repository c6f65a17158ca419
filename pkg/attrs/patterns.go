package attrs

import (
	"slices"
	"strings"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// pattern pairs token tests with the mutation applied when they all hold.
type pattern struct {
	name  string
	tests []Test
	// retry reconsiders the same pattern at the same index after it fires,
	// since one text fragment may hold markers for several spans.
	retry     bool
	transform func(s *md.State, i, j int)
}

// patterns builds the catalog in the order it is tried at every index.
func (p *Plugin) patterns() []pattern {
	opts := p.opts
	left, right := opts.LeftDelimiter, opts.RightDelimiter

	atStart := stringFunc(HasMarkerAt(Start, opts))
	atEnd := stringFunc(HasMarkerAt(End, opts))
	only := stringFunc(HasMarkerAt(Only, opts))
	suffix := markerSuffixPattern(opts)
	hr := hrPattern(opts)

	singleChild := Func(func(v any) bool {
		children, ok := v.([]*md.Token)
		return ok && len(children) == 1
	})

	// trimEnd cuts the trailing marker from a child's text and the space
	// left in front of it.
	trimEnd := func(tok *md.Token) {
		trimmed := tok.Content[:strings.LastIndex(tok.Content, left)]
		tok.Content = strings.TrimSuffix(trimmed, " ")
	}

	return []pattern{
		{
			name: "fenced code blocks",
			tests: []Test{
				{Checks: []Check{is(FieldBlock, true), satisfies(FieldInfo, atEnd)}},
			},
			transform: func(s *md.State, i, _ int) {
				tok := s.Tokens[i]
				start := strings.LastIndex(tok.Info, left)
				AddAttrs(ParseMarker(tok.Info, start, opts), tok)
				tok.Info = removeMarker(tok.Info, suffix)
			},
		},
		{
			name:  "inline nesting 0",
			retry: true,
			tests: []Test{
				{
					Checks: []Check{is(FieldType, "inline")},
					Children: []Test{
						{Shift: -1, Checks: []Check{satisfies(FieldType, stringFunc(func(typ string) bool {
							return typ == "image" || typ == "code_inline"
						}))}},
						{Checks: []Check{is(FieldType, "text"), satisfies(FieldContent, atStart)}},
					},
				},
			},
			transform: func(s *md.State, i, j int) {
				children := s.Tokens[i].Children
				tok := children[j]
				endChar := strings.Index(tok.Content, right)
				AddAttrs(ParseMarker(tok.Content, 0, opts), children[j-1])
				if len(tok.Content) == endChar+len(right) {
					s.Tokens[i].Children = slices.Delete(children, j, j+1)
				} else {
					tok.Content = tok.Content[endChar+len(right):]
				}
			},
		},
		{
			name: "tables",
			tests: []Test{
				{Checks: []Check{is(FieldType, "table_close")}},
				{Shift: 1, Checks: []Check{is(FieldType, "paragraph_open")}},
				{Shift: 2, Checks: []Check{is(FieldType, "inline"), satisfies(FieldContent, only)}},
			},
			transform: func(s *md.State, i, _ int) {
				attrs := ParseMarker(s.Tokens[i+2].Content, 0, opts)
				AddAttrs(attrs, MatchingOpeningToken(s.Tokens, i))
				// the paragraph_close is not part of the match and may be missing
				s.Tokens = slices.Delete(s.Tokens, i+1, min(i+4, len(s.Tokens)))
			},
		},
		{
			name:  "inline attributes",
			retry: true,
			tests: []Test{
				{
					Checks: []Check{is(FieldType, "inline")},
					Children: []Test{
						{Shift: -1, Checks: []Check{is(FieldNesting, md.Closing)}},
						{Checks: []Check{is(FieldType, "text"), satisfies(FieldContent, atStart)}},
					},
				},
			},
			transform: func(s *md.State, i, j int) {
				children := s.Tokens[i].Children
				tok := children[j]
				AddAttrs(ParseMarker(tok.Content, 0, opts), MatchingOpeningToken(children, j-1))
				tok.Content = tok.Content[strings.Index(tok.Content, right)+len(right):]
			},
		},
		{
			name: "list softbreak",
			tests: []Test{
				{Shift: -2, Checks: []Check{is(FieldType, "list_item_open")}},
				{
					Checks: []Check{is(FieldType, "inline")},
					Children: []Test{
						{Absolute: true, Position: -2, Checks: []Check{is(FieldType, "softbreak")}},
						{Absolute: true, Position: -1, Checks: []Check{is(FieldType, "text"), satisfies(FieldContent, only)}},
					},
				},
			},
			transform: func(s *md.State, i, j int) {
				children := s.Tokens[i].Children
				attrs := ParseMarker(children[j].Content, 0, opts)
				ii := i - 2
				for ii-1 >= 0 && s.Tokens[ii-1].Type != "ordered_list_open" && s.Tokens[ii-1].Type != "bullet_list_open" {
					ii--
				}
				if ii-1 >= 0 {
					AddAttrs(attrs, s.Tokens[ii-1])
				}
				s.Tokens[i].Children = children[:len(children)-2]
			},
		},
		{
			name: "list double softbreak",
			tests: []Test{
				{Checks: []Check{satisfies(FieldType, stringFunc(func(typ string) bool {
					return typ == "bullet_list_close" || typ == "ordered_list_close"
				}))}},
				{Shift: 1, Checks: []Check{is(FieldType, "paragraph_open")}},
				{Shift: 2, Checks: []Check{
					is(FieldType, "inline"),
					satisfies(FieldContent, only),
					satisfies(FieldChildren, singleChild),
				}},
				{Shift: 3, Checks: []Check{is(FieldType, "paragraph_close")}},
			},
			transform: func(s *md.State, i, _ int) {
				attrs := ParseMarker(s.Tokens[i+2].Content, 0, opts)
				AddAttrs(attrs, MatchingOpeningToken(s.Tokens, i))
				s.Tokens = slices.Delete(s.Tokens, i+1, min(i+4, len(s.Tokens)))
			},
		},
		{
			name: "list item end",
			tests: []Test{
				{Shift: -2, Checks: []Check{is(FieldType, "list_item_open")}},
				{
					Checks: []Check{is(FieldType, "inline")},
					Children: []Test{
						{Absolute: true, Position: -1, Checks: []Check{is(FieldType, "text"), satisfies(FieldContent, atEnd)}},
					},
				},
			},
			transform: func(s *md.State, i, j int) {
				tok := s.Tokens[i].Children[j]
				AddAttrs(ParseMarker(tok.Content, strings.LastIndex(tok.Content, left), opts), s.Tokens[i-2])
				trimEnd(tok)
			},
		},
		{
			name: "softbreak then curly in start",
			tests: []Test{
				{
					Checks: []Check{is(FieldType, "inline")},
					Children: []Test{
						{Absolute: true, Position: -2, Checks: []Check{is(FieldType, "softbreak")}},
						{Absolute: true, Position: -1, Checks: []Check{is(FieldType, "text"), satisfies(FieldContent, only)}},
					},
				},
			},
			transform: func(s *md.State, i, j int) {
				children := s.Tokens[i].Children
				attrs := ParseMarker(children[j].Content, 0, opts)
				AddAttrs(attrs, closingRunOwner(s.Tokens, i))
				s.Tokens[i].Children = children[:len(children)-2]
			},
		},
		{
			name: "horizontal rule",
			tests: []Test{
				{Checks: []Check{is(FieldType, "paragraph_open")}},
				{Shift: 1, Checks: []Check{
					is(FieldType, "inline"),
					satisfies(FieldChildren, singleChild),
					satisfies(FieldContent, stringFunc(hr.MatchString)),
				}},
				{Shift: 2, Checks: []Check{is(FieldType, "paragraph_close")}},
			},
			transform: func(s *md.State, i, _ int) {
				tok := s.Tokens[i]
				content := s.Tokens[i+1].Content
				tok.Type = "hr"
				tok.Tag = "hr"
				tok.Nesting = md.SelfClosing
				tok.Hidden = false
				tok.Attrs = ParseMarker(content, strings.LastIndex(content, left), opts)
				tok.Markup = content
				s.Tokens = slices.Delete(s.Tokens, i+1, i+3)
			},
		},
		{
			name: "end of block",
			tests: []Test{
				{
					Checks: []Check{is(FieldType, "inline")},
					Children: []Test{
						{Absolute: true, Position: -1, Checks: []Check{
							satisfies(FieldContent, atEnd),
							satisfies(FieldType, stringFunc(func(typ string) bool { return typ != "code_inline" })),
						}},
					},
				},
			},
			transform: func(s *md.State, i, j int) {
				tok := s.Tokens[i].Children[j]
				AddAttrs(ParseMarker(tok.Content, strings.LastIndex(tok.Content, left), opts), closingRunOwner(s.Tokens, i))
				trimEnd(tok)
			},
		},
	}
}
