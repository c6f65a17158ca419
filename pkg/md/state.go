// state.go defines the per-document state and the ordered chain of core rules run over it.
package md

import (
	"fmt"
)

// State carries one document through the core rule chain. It is owned by a
// single Parse call and must not be shared.
type State struct {
	Src    []byte
	Tokens []*Token
}

// RuleFunc mutates the token stream of a State in place.
type RuleFunc func(s *State) error

type rule struct {
	name string
	fn   RuleFunc
}

// Ruler is an ordered, named list of core rules.
type Ruler struct {
	rules []rule
}

// Push appends a rule to the end of the chain.
func (r *Ruler) Push(name string, fn RuleFunc) {
	r.rules = append(r.rules, rule{name: name, fn: fn})
}

// After inserts a rule directly after the rule named after.
func (r *Ruler) After(after, name string, fn RuleFunc) error {
	i := r.find(after)
	if i < 0 {
		return fmt.Errorf("core rule not found: %s", after)
	}
	r.insert(i+1, rule{name: name, fn: fn})
	return nil
}

// Before inserts a rule directly before the rule named before.
func (r *Ruler) Before(before, name string, fn RuleFunc) error {
	i := r.find(before)
	if i < 0 {
		return fmt.Errorf("core rule not found: %s", before)
	}
	r.insert(i, rule{name: name, fn: fn})
	return nil
}

// Names returns rule names in execution order.
func (r *Ruler) Names() []string {
	names := make([]string, len(r.rules))
	for i, rl := range r.rules {
		names[i] = rl.name
	}
	return names
}

// Process runs every rule in order, stopping at the first error.
func (r *Ruler) Process(s *State) error {
	for _, rl := range r.rules {
		if err := rl.fn(s); err != nil {
			return fmt.Errorf("core rule %s: %w", rl.name, err)
		}
	}
	return nil
}

func (r *Ruler) find(name string) int {
	for i, rl := range r.rules {
		if rl.name == name {
			return i
		}
	}
	return -1
}

func (r *Ruler) insert(i int, rl rule) {
	r.rules = append(r.rules, rule{})
	copy(r.rules[i+1:], r.rules[i:])
	r.rules[i] = rl
}

// expandInline materializes the children of every inline token.
func expandInline(s *State) error {
	for _, tok := range s.Tokens {
		if tok.inline == nil {
			continue
		}
		tok.Children = tok.inline()
		if tok.Children == nil {
			tok.Children = []*Token{}
		}
		tok.inline = nil
	}
	return nil
}
