// Package md parses markdown into a flat token stream, runs an ordered chain
// of core rules over it and renders the result to HTML.
package md

import (
	"fmt"
)

// Frontend parses markdown source into block tokens. Inline tokens may defer
// their children until the inline rule runs.
type Frontend interface {
	Name() string
	Parse(src []byte) []*Token
}

// Plugin installs rules into a Processor.
type Plugin interface {
	Register(p *Processor) error
}

// Option configures a Processor.
type Option func(*Processor)

// WithFrontend selects the parser used by the block rule.
func WithFrontend(f Frontend) Option {
	return func(p *Processor) {
		p.frontend = f
	}
}

// Processor holds a frontend, the core rule chain and a renderer. It is safe
// for concurrent use once all plugins are registered.
type Processor struct {
	frontend Frontend
	core     Ruler
	renderer *Renderer
}

// New creates a Processor with the built-in "block" and "inline" rules.
func New(opts ...Option) *Processor {
	p := &Processor{
		frontend: Goldmark{},
		renderer: NewRenderer(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.core.Push("block", func(s *State) error {
		s.Tokens = p.frontend.Parse(s.Src)
		return nil
	})
	p.core.Push("inline", expandInline)
	return p
}

// FrontendByName returns the frontend registered under name. An empty name
// selects goldmark.
func FrontendByName(name string) (Frontend, error) {
	switch name {
	case "", "goldmark":
		return Goldmark{}, nil
	case "blackfriday":
		return Blackfriday{}, nil
	default:
		return nil, fmt.Errorf("unknown parser: %s (expected goldmark or blackfriday)", name)
	}
}

// Frontend returns the configured frontend.
func (p *Processor) Frontend() Frontend {
	return p.frontend
}

// Core returns the core rule chain for plugins to extend.
func (p *Processor) Core() *Ruler {
	return &p.core
}

// Use registers a plugin.
func (p *Processor) Use(plugin Plugin) error {
	if err := plugin.Register(p); err != nil {
		return fmt.Errorf("failed to register plugin: %w", err)
	}
	return nil
}

// Parse runs every core rule over src and returns the resulting tokens.
func (p *Processor) Parse(src []byte) ([]*Token, error) {
	s := &State{Src: src}
	if err := p.core.Process(s); err != nil {
		return nil, err
	}
	return s.Tokens, nil
}

// Render renders tokens to HTML.
func (p *Processor) Render(tokens []*Token) string {
	return p.renderer.Render(tokens)
}

// Convert parses markdown and renders it to HTML.
func (p *Processor) Convert(src []byte) (string, error) {
	if len(src) == 0 {
		return "", nil
	}

	tokens, err := p.Parse(src)
	if err != nil {
		return "", err
	}
	return p.Render(tokens), nil
}
