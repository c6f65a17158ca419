package attrs

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// Default delimiters.
const (
	DefaultLeftDelimiter  = "{"
	DefaultRightDelimiter = "}"
)

// AllowedAttribute whitelists attribute keys by exact name or by pattern.
type AllowedAttribute struct {
	Name    string
	Pattern *regexp.Regexp
}

// Allows reports whether key passes this entry.
func (a AllowedAttribute) Allows(key string) bool {
	if a.Pattern != nil {
		return a.Pattern.MatchString(key)
	}
	return a.Name == key
}

// ParseAllowedAttribute turns "name" or "/regex/" into an AllowedAttribute.
func ParseAllowedAttribute(s string) (AllowedAttribute, error) {
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return AllowedAttribute{}, fmt.Errorf("invalid allowed attribute pattern %q: %w", s, err)
		}
		return AllowedAttribute{Pattern: re}, nil
	}
	return AllowedAttribute{Name: s}, nil
}

// Options configures marker recognition. The zero value uses {} delimiters,
// allows every attribute and ignores nothing.
type Options struct {
	LeftDelimiter     string
	RightDelimiter    string
	AllowedAttributes []AllowedAttribute
	Ignore            func(*md.Token) bool
	Logger            *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.LeftDelimiter == "" {
		o.LeftDelimiter = DefaultLeftDelimiter
	}
	if o.RightDelimiter == "" {
		o.RightDelimiter = DefaultRightDelimiter
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Validate checks that markers can be recognized with these options.
func (o Options) Validate() error {
	o = o.withDefaults()

	var errs []error
	if strings.ContainsAny(o.LeftDelimiter, " \n") {
		errs = append(errs, fmt.Errorf("left delimiter %q contains whitespace", o.LeftDelimiter))
	}
	if strings.ContainsAny(o.RightDelimiter, " \n") {
		errs = append(errs, fmt.Errorf("right delimiter %q contains whitespace", o.RightDelimiter))
	}
	for i, a := range o.AllowedAttributes {
		if a.Name == "" && a.Pattern == nil {
			errs = append(errs, fmt.Errorf("allowed attribute %d is empty", i))
		}
	}
	return errors.Join(errs...)
}

func (o Options) allowed(key string) bool {
	if len(o.AllowedAttributes) == 0 {
		return true
	}
	for _, a := range o.AllowedAttributes {
		if a.Allows(key) {
			return true
		}
	}
	return false
}
