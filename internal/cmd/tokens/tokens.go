// Package tokens provides the tokens command.
package tokens

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/pipeline"
	"github.com/open-cli-collective/mdattrs/internal/view"
)

type tokensOptions struct {
	settings      pipeline.Settings
	globals       pipeline.Globals
	outputChanged bool
	stdin         io.Reader
	stdout        io.Writer
	stderr        io.Writer
}

// NewCmdTokens creates the tokens command.
func NewCmdTokens() *cobra.Command {
	opts := &tokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Show the processed token stream",
		Long: `Parse markdown, apply attribute markers and print the resulting token
stream. Inline children are listed under their parent.

Reads from stdin when no file is given.`,
		Example: `  # Table view
  mdattrs tokens README.md

  # Full structure as JSON
  echo '*a*{.x}' | mdattrs tokens -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.globals = pipeline.GlobalsFrom(cmd)
			opts.outputChanged = cmd.Flags().Changed("output")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()

			var input string
			if len(args) > 0 {
				input = args[0]
			}
			return runTokens(input, opts)
		},
	}

	pipeline.BindFlags(cmd, &opts.settings)

	return cmd
}

func runTokens(input string, opts *tokensOptions) error {
	logger := opts.globals.Logger(opts.stderr)

	proc, cfg, err := pipeline.Setup(opts.globals.ConfigPath, opts.settings, logger)
	if err != nil {
		return err
	}

	// The config file only picks the format when --output was not given.
	format := opts.globals.Output
	if !opts.outputChanged && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}
	if format == "" {
		format = string(view.FormatTable)
	}
	if err := view.ValidateFormat(format); err != nil {
		return err
	}

	src, err := pipeline.ReadInput(input, opts.stdin)
	if err != nil {
		return err
	}

	tokens, err := proc.Parse(src)
	if err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}

	renderer := view.NewRenderer(view.Format(format), opts.globals.NoColor)
	renderer.SetWriter(opts.stdout)
	return renderer.RenderTokens(tokens)
}
