// Package config provides configuration management for mdattrs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/google/renameio"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/mdattrs/pkg/attrs"
)

// Config holds the mdattrs configuration.
type Config struct {
	LeftDelimiter     string   `yaml:"left_delimiter,omitempty" json:"left_delimiter,omitempty"`
	RightDelimiter    string   `yaml:"right_delimiter,omitempty" json:"right_delimiter,omitempty"`
	AllowedAttributes []string `yaml:"allowed_attributes,omitempty" json:"allowed_attributes,omitempty"`
	Ignore            string   `yaml:"ignore,omitempty" json:"ignore,omitempty"`
	Parser            string   `yaml:"parser,omitempty" json:"parser,omitempty"`
	OutputFormat      string   `yaml:"output_format,omitempty" json:"output_format,omitempty"`
}

// cueSchema constrains .cue config files. It is closed, so unknown fields
// are rejected.
const cueSchema = `
left_delimiter?:     string & !=""
right_delimiter?:    string & !=""
allowed_attributes?: [...string]
ignore?:             string
parser?:             "goldmark" | "blackfriday"
output_format?:      "table" | "json" | "plain"
`

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.LeftDelimiter, " \n") {
		return errors.New("left_delimiter must not contain whitespace")
	}
	if strings.ContainsAny(c.RightDelimiter, " \n") {
		return errors.New("right_delimiter must not contain whitespace")
	}

	switch c.Parser {
	case "", "goldmark", "blackfriday":
	default:
		return fmt.Errorf("parser must be goldmark or blackfriday, got %q", c.Parser)
	}

	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return fmt.Errorf("output_format must be table, json or plain, got %q", c.OutputFormat)
	}

	for _, entry := range c.AllowedAttributes {
		if entry == "" {
			return errors.New("allowed_attributes must not contain empty entries")
		}
		if _, err := attrs.ParseAllowedAttribute(entry); err != nil {
			return err
		}
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("MDATTRS_LEFT_DELIMITER"); v != "" {
		c.LeftDelimiter = v
	}
	if v := os.Getenv("MDATTRS_RIGHT_DELIMITER"); v != "" {
		c.RightDelimiter = v
	}
	if v := os.Getenv("MDATTRS_ALLOWED_ATTRIBUTES"); v != "" {
		c.AllowedAttributes = splitList(v)
	}
	if v := os.Getenv("MDATTRS_IGNORE"); v != "" {
		c.Ignore = v
	}
	if v := os.Getenv("MDATTRS_PARSER"); v != "" {
		c.Parser = v
	}
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mdattrs", "config.yml")
	}

	// Fall back to ~/.config/mdattrs/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mdattrs", "config.yml")
	}

	return filepath.Join(home, ".config", "mdattrs", "config.yml")
}

// Save writes the configuration to the specified path, as CUE when the path
// ends in .cue and as YAML otherwise.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isCUE(path) {
		v := cuecontext.New().Encode(c)
		if err := v.Err(); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data, err = format.Node(v.Syntax())
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isCUE(path) {
		return loadCUE(path, data)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

func loadCUE(path string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString("close({" + cueSchema + "})")
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}

func isCUE(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cue")
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
