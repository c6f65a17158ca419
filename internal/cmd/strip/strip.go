// Package strip provides the strip command.
package strip

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/pipeline"
	"github.com/open-cli-collective/mdattrs/pkg/md"
)

type stripOptions struct {
	settings pipeline.Settings
	out      string
	globals  pipeline.Globals
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// NewCmdStrip creates the strip command.
func NewCmdStrip() *cobra.Command {
	opts := &stripOptions{}

	cmd := &cobra.Command{
		Use:   "strip [file]",
		Short: "Remove attribute markers from markdown",
		Long: `Process markdown and write it back as markdown with every recognized
attribute marker removed. Text that only looks like a marker is kept.

Reads from stdin when no file is given.`,
		Example: `  # Print the cleaned document
  mdattrs strip README.md

  # Clean in place
  mdattrs strip README.md -O README.md`,
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
			return runStrip(input, opts)
		},
	}

	pipeline.BindFlags(cmd, &opts.settings)
	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "Write markdown to this file instead of stdout")

	return cmd
}

func runStrip(input string, opts *stripOptions) error {
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

	markdown, err := md.ToMarkdown(html)
	if err != nil {
		return fmt.Errorf("failed to convert to markdown: %w", err)
	}
	if markdown != "" {
		markdown += "\n"
	}

	return pipeline.WriteOutput(opts.out, []byte(markdown), opts.stdout)
}
