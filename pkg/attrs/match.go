package attrs

import (
	"fmt"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// ConfigError reports a malformed pattern. It is raised with panic because
// document content can never cause it.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "attrs: " + e.Msg
}

// Token fields a Check can read.
const (
	FieldType     = "type"
	FieldNesting  = "nesting"
	FieldContent  = "content"
	FieldInfo     = "info"
	FieldBlock    = "block"
	FieldChildren = "children"
)

// Predicate is one of Equals, Func or AllOf.
type Predicate interface {
	predicate()
}

// Equals requires the field to equal a string, int or bool literal.
type Equals struct {
	Value any
}

// Func requires the function to report true for the field value.
type Func func(v any) bool

// AllOf requires every function to report true.
type AllOf []Func

func (Equals) predicate() {}
func (Func) predicate()   {}
func (AllOf) predicate()  {}

// Check applies a predicate to one token field.
type Check struct {
	Field     string
	Predicate Predicate
}

// Test describes the token expected at one position. The anchor is the base
// index plus Shift, or Position when Absolute is set; a negative Position
// counts from the end. Children, when set, is matched against the anchor's
// children.
type Test struct {
	Shift    int
	Position int
	Absolute bool
	Checks   []Check
	Children []Test
}

// noChild marks a match that resolved no child index.
const noChild = -1

// matcher evaluates tests against a token stream.
type matcher struct {
	ignore func(*md.Token) bool
}

// test reports whether t holds at base index i. The second result is the
// child index resolved by t's child tests, or noChild.
func (m matcher) test(tokens []*md.Token, i int, t Test) (bool, int) {
	idx := i + t.Shift
	if t.Absolute {
		idx = t.Position
		if idx < 0 {
			idx += len(tokens)
		}
	}
	if idx < 0 || idx >= len(tokens) {
		return false, noChild
	}

	tok := tokens[idx]
	if m.ignore != nil && m.ignore(tok) {
		return false, noChild
	}

	for _, c := range t.Checks {
		v, ok := fieldValue(tok, c.Field)
		if !ok || !evaluate(c, v) {
			return false, noChild
		}
	}

	if len(t.Children) == 0 {
		return true, noChild
	}
	if len(tok.Children) == 0 {
		return false, noChild
	}
	j := m.matchChildren(tok.Children, t.Children)
	return j != noChild, j
}

// matchChildren evaluates child tests in place when every one is absolute,
// otherwise scans for the first child index satisfying all of them.
func (m matcher) matchChildren(children []*md.Token, tests []Test) int {
	allAbsolute := true
	for _, t := range tests {
		if !t.Absolute {
			allAbsolute = false
			break
		}
	}

	if allAbsolute {
		for _, t := range tests {
			if ok, _ := m.test(children, 0, t); !ok {
				return noChild
			}
		}
		j := tests[len(tests)-1].Position
		if j < 0 {
			j += len(children)
		}
		return j
	}

	for j := range children {
		if m.testAll(children, j, tests) {
			return j
		}
	}
	return noChild
}

func (m matcher) testAll(tokens []*md.Token, i int, tests []Test) bool {
	for _, t := range tests {
		if ok, _ := m.test(tokens, i, t); !ok {
			return false
		}
	}
	return true
}

// fieldValue reads a token field. Children is absent on tokens without them.
func fieldValue(tok *md.Token, field string) (any, bool) {
	switch field {
	case FieldType:
		return tok.Type, true
	case FieldNesting:
		return int(tok.Nesting), true
	case FieldContent:
		return tok.Content, true
	case FieldInfo:
		return tok.Info, true
	case FieldBlock:
		return tok.Block, true
	case FieldChildren:
		if tok.Children == nil {
			return nil, false
		}
		return tok.Children, true
	default:
		panic(&ConfigError{Msg: fmt.Sprintf("unknown token field %q in pattern test", field)})
	}
}

func evaluate(c Check, v any) bool {
	switch p := c.Predicate.(type) {
	case Equals:
		return literal(c.Field, p.Value) == v
	case Func:
		if p == nil {
			break
		}
		return p(v)
	case AllOf:
		if len(p) == 0 {
			break
		}
		for _, f := range p {
			if f == nil {
				panic(&ConfigError{Msg: fmt.Sprintf("nil function in AllOf test (field: %s)", c.Field)})
			}
			if !f(v) {
				return false
			}
		}
		return true
	}
	panic(&ConfigError{Msg: fmt.Sprintf("unknown type of pattern test (field: %s); expected Equals, Func or AllOf", c.Field)})
}

// literal normalizes an Equals operand to the type fieldValue returns.
func literal(field string, v any) any {
	switch x := v.(type) {
	case string, bool, int:
		return x
	case md.Nesting:
		return int(x)
	default:
		panic(&ConfigError{Msg: fmt.Sprintf("unsupported literal %T in pattern test (field: %s)", v, field)})
	}
}

// stringFunc adapts a string predicate to Func.
func stringFunc(f func(string) bool) Func {
	return func(v any) bool {
		s, ok := v.(string)
		return ok && f(s)
	}
}

// is builds an Equals check.
func is(field string, v any) Check {
	return Check{Field: field, Predicate: Equals{Value: v}}
}

// satisfies builds a Func check.
func satisfies(field string, f Func) Check {
	return Check{Field: field, Predicate: f}
}
