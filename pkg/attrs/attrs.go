// Package attrs adds curly attribute markers such as {.class #id key=val} to a
// markdown token stream. Markers are parsed, removed from the visible text and
// attached to the token that owns them.
package attrs

import (
	"fmt"
	"log/slog"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// RuleName is the core rule the plugin installs after "inline".
const RuleName = "curly_attributes"

// Plugin applies attribute markers. It is immutable after New and may be
// shared between processors.
type Plugin struct {
	opts    Options
	logger  *slog.Logger
	matcher matcher
	catalog []pattern
}

// New validates opts and builds the pattern catalog.
func New(opts Options) (*Plugin, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid attrs options: %w", err)
	}

	p := &Plugin{opts: opts.withDefaults()}
	p.logger = p.opts.Logger
	p.matcher = matcher{ignore: p.opts.Ignore}
	p.catalog = p.patterns()
	return p, nil
}

// Register implements md.Plugin.
func (p *Plugin) Register(proc *md.Processor) error {
	return proc.Core().After("inline", RuleName, p.Process)
}

// Process applies every pattern at every index of s.Tokens, mutating the
// stream in place.
func (p *Plugin) Process(s *md.State) error {
	for i := 0; i < len(s.Tokens); i++ {
		for k := 0; k < len(p.catalog); k++ {
			pat := p.catalog[k]
			matched, j := p.match(s.Tokens, i, pat)
			if !matched {
				continue
			}

			p.logger.Debug("applying attribute marker",
				"pattern", pat.name,
				"index", i,
				"child", j,
			)
			pat.transform(s, i, j)
			if pat.retry {
				k--
			}
		}
	}
	return nil
}

// match reports whether every test of pat holds at i, along with the last
// child index any of them resolved.
func (p *Plugin) match(tokens []*md.Token, i int, pat pattern) (bool, int) {
	j := noChild
	for _, t := range pat.tests {
		ok, jj := p.matcher.test(tokens, i, t)
		if jj != noChild {
			j = jj
		}
		if !ok {
			return false, noChild
		}
	}
	return true, j
}
