// Package pipeline turns configuration and command-line flags into a ready
// md.Processor, and handles command input and output.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/config"
	"github.com/open-cli-collective/mdattrs/pkg/attrs"
	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// Settings are the knobs shared by every command that processes markdown.
type Settings struct {
	LeftDelimiter     string
	RightDelimiter    string
	AllowedAttributes []string
	Ignore            string
	Parser            string
	NoAttrs           bool
}

// BindFlags registers the pipeline flags of cmd into s.
func BindFlags(cmd *cobra.Command, s *Settings) {
	cmd.Flags().StringVar(&s.LeftDelimiter, "left-delimiter", "", "opening marker delimiter (default \"{\")")
	cmd.Flags().StringVar(&s.RightDelimiter, "right-delimiter", "", "closing marker delimiter (default \"}\")")
	cmd.Flags().StringArrayVar(&s.AllowedAttributes, "allow", nil, "allowed attribute name or /regex/ (repeatable)")
	cmd.Flags().StringVar(&s.Ignore, "ignore", "", "starlark expression over token; matching tokens are skipped")
	cmd.Flags().StringVar(&s.Parser, "parser", "", "markdown parser: goldmark, blackfriday")
	cmd.Flags().BoolVar(&s.NoAttrs, "no-attrs", false, "disable attribute processing")
}

// FromConfig returns the settings stored in cfg.
func FromConfig(cfg *config.Config) Settings {
	return Settings{
		LeftDelimiter:     cfg.LeftDelimiter,
		RightDelimiter:    cfg.RightDelimiter,
		AllowedAttributes: cfg.AllowedAttributes,
		Ignore:            cfg.Ignore,
		Parser:            cfg.Parser,
	}
}

// Override returns s with every non-empty field of o applied on top.
func (s Settings) Override(o Settings) Settings {
	if o.LeftDelimiter != "" {
		s.LeftDelimiter = o.LeftDelimiter
	}
	if o.RightDelimiter != "" {
		s.RightDelimiter = o.RightDelimiter
	}
	if len(o.AllowedAttributes) > 0 {
		s.AllowedAttributes = o.AllowedAttributes
	}
	if o.Ignore != "" {
		s.Ignore = o.Ignore
	}
	if o.Parser != "" {
		s.Parser = o.Parser
	}
	if o.NoAttrs {
		s.NoAttrs = true
	}
	return s
}

// AttrsOptions compiles s into plugin options.
func (s Settings) AttrsOptions(logger *slog.Logger) (attrs.Options, error) {
	opts := attrs.Options{
		LeftDelimiter:  s.LeftDelimiter,
		RightDelimiter: s.RightDelimiter,
		Logger:         logger,
	}

	for _, entry := range s.AllowedAttributes {
		allowed, err := attrs.ParseAllowedAttribute(entry)
		if err != nil {
			return attrs.Options{}, err
		}
		opts.AllowedAttributes = append(opts.AllowedAttributes, allowed)
	}

	if s.Ignore != "" {
		ignore, err := attrs.CompileIgnore(s.Ignore, logger)
		if err != nil {
			return attrs.Options{}, err
		}
		opts.Ignore = ignore
	}

	return opts, nil
}

// Build creates a processor for s. The attribute plugin runs after the
// inline rule unless s.NoAttrs is set.
func Build(s Settings, logger *slog.Logger) (*md.Processor, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	frontend, err := md.FrontendByName(s.Parser)
	if err != nil {
		return nil, err
	}
	proc := md.New(md.WithFrontend(frontend))

	if s.NoAttrs {
		return proc, nil
	}

	opts, err := s.AttrsOptions(logger)
	if err != nil {
		return nil, err
	}
	plugin, err := attrs.New(opts)
	if err != nil {
		return nil, err
	}
	if err := proc.Use(plugin); err != nil {
		return nil, err
	}

	logger.Debug("pipeline ready", "parser", frontend.Name(), "left", opts.LeftDelimiter, "right", opts.RightDelimiter)
	return proc, nil
}

// LoadConfig loads the config file at path, or the default path when empty,
// applies environment overrides and validates the result.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'mdattrs config test' to check it)", err)
	}
	return cfg, nil
}

// Setup loads configuration, overlays flags and builds the processor.
func Setup(configPath string, flags Settings, logger *slog.Logger) (*md.Processor, *config.Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	proc, err := Build(FromConfig(cfg).Override(flags), logger)
	if err != nil {
		return nil, nil, err
	}
	return proc, cfg, nil
}

// ReadInput reads the file at path, or stdin when path is empty or "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return nil, errors.New("no input: pass a file or pipe markdown on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// WriteOutput writes data to stdout, or atomically replaces the file at path.
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
