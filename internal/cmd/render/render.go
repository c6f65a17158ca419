// Package render provides the render command.
package render

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/pipeline"
)

type renderOptions struct {
	settings pipeline.Settings
	out      string
	globals  pipeline.Globals
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown to HTML",
		Long: `Render markdown to HTML, applying curly attribute markers such as
{.class #id key=value} to the elements they follow.

Reads from stdin when no file is given.`,
		Example: `  # Render a file
  mdattrs render README.md

  # Write the result atomically
  mdattrs render README.md -O README.html

  # Double-brace markers, only ids and data attributes
  mdattrs render --left-delimiter '{{' --right-delimiter '}}' --allow id --allow '/^data-/' < doc.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.globals = pipeline.GlobalsFrom(cmd)
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()

			var input string
			if len(args) > 0 {
				input = args[0]
			}
			return runRender(input, opts)
		},
	}

	pipeline.BindFlags(cmd, &opts.settings)
	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "Write HTML to this file instead of stdout")

	return cmd
}

func runRender(input string, opts *renderOptions) error {
	logger := opts.globals.Logger(opts.stderr)

	proc, _, err := pipeline.Setup(opts.globals.ConfigPath, opts.settings, logger)
	if err != nil {
		return err
	}

	src, err := pipeline.ReadInput(input, opts.stdin)
	if err != nil {
		return err
	}

	html, err := proc.Convert(src)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	if err := pipeline.WriteOutput(opts.out, []byte(html), opts.stdout); err != nil {
		return err
	}
	if opts.out != "" {
		logger.Info("wrote output", "path", opts.out, "bytes", len(html))
	}
	return nil
}
