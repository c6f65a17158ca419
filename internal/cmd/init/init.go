// Package init provides the init command for mdattrs.
package init

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/config"
	"github.com/open-cli-collective/mdattrs/internal/pipeline"
)

type initOptions struct {
	configPath     string
	leftDelimiter  string
	rightDelimiter string
	parser         string
	allow          []string
	noPrompt       bool
	force          bool
	stdout         io.Writer
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize mdattrs configuration",
		Long: `Initialize the mdattrs configuration file.

This command will guide you through choosing the marker delimiters,
the markdown parser and the attributes markers may set. The configuration
will be saved to ~/.config/mdattrs/config.yml.`,
		Example: `  # Interactive setup
  mdattrs init

  # Scripted setup with double-brace markers
  mdattrs init --no-prompt --left-delimiter '{{' --right-delimiter '}}'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.stdout = cmd.OutOrStdout()
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.leftDelimiter, "left-delimiter", "", "Opening marker delimiter (default \"{\")")
	cmd.Flags().StringVar(&opts.rightDelimiter, "right-delimiter", "", "Closing marker delimiter (default \"}\")")
	cmd.Flags().StringVar(&opts.parser, "parser", "", "Markdown parser: goldmark, blackfriday")
	cmd.Flags().StringArrayVar(&opts.allow, "allow", nil, "Allowed attribute name or /regex/ (repeatable)")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Write the configuration without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	out := opts.stdout
	if out == nil {
		out = os.Stdout
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noPrompt {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		LeftDelimiter:     opts.leftDelimiter,
		RightDelimiter:    opts.rightDelimiter,
		Parser:            opts.parser,
		AllowedAttributes: opts.allow,
	}

	if !opts.noPrompt {
		if err := prompt(cfg); err != nil {
			return err
		}
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Fprint(out, "Verifying settings... ")
	if err := verifySettings(cfg); err != nil {
		fmt.Fprintln(out, "failed!")
		return fmt.Errorf("settings verification failed: %w", err)
	}
	fmt.Fprintln(out, "success!")

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  mdattrs render README.md")
	fmt.Fprintln(out, "  mdattrs tokens README.md")

	return nil
}

func prompt(cfg *config.Config) error {
	if cfg.LeftDelimiter == "" {
		cfg.LeftDelimiter = "{"
	}
	if cfg.RightDelimiter == "" {
		cfg.RightDelimiter = "}"
	}
	if cfg.Parser == "" {
		cfg.Parser = "goldmark"
	}
	allow := strings.Join(cfg.AllowedAttributes, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Left delimiter").
				Description("Opens an attribute marker").
				Value(&cfg.LeftDelimiter).
				Validate(validateDelimiter),

			huh.NewInput().
				Title("Right delimiter").
				Description("Closes an attribute marker").
				Value(&cfg.RightDelimiter).
				Validate(validateDelimiter),

			huh.NewSelect[string]().
				Title("Markdown parser").
				Options(
					huh.NewOption("goldmark", "goldmark"),
					huh.NewOption("blackfriday", "blackfriday"),
				).
				Value(&cfg.Parser),

			huh.NewInput().
				Title("Allowed attributes (optional)").
				Description("Comma separated names or /regex/; empty allows everything").
				Placeholder("id, class, /^data-/").
				Value(&allow),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.AllowedAttributes = nil
	for _, entry := range strings.Split(allow, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			cfg.AllowedAttributes = append(cfg.AllowedAttributes, entry)
		}
	}
	return nil
}

func validateDelimiter(s string) error {
	if s == "" {
		return fmt.Errorf("delimiter is required")
	}
	if strings.ContainsAny(s, " \n") {
		return fmt.Errorf("delimiter must not contain whitespace")
	}
	return nil
}

// verifySettings renders a sample document with cfg and checks that the
// marker was consumed.
func verifySettings(cfg *config.Config) error {
	settings := pipeline.FromConfig(cfg)
	proc, err := pipeline.Build(settings, nil)
	if err != nil {
		return err
	}

	left, right := cfg.LeftDelimiter, cfg.RightDelimiter
	if left == "" {
		left = "{"
	}
	if right == "" {
		right = "}"
	}
	sample := "sample " + left + "#mdattrs-check" + right + "\n"

	html, err := proc.Convert([]byte(sample))
	if err != nil {
		return err
	}
	if strings.Contains(html, left+"#mdattrs-check") {
		return fmt.Errorf("sample marker %s#mdattrs-check%s was not recognized", left, right)
	}
	return nil
}
