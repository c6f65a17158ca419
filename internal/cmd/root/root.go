// Package root provides the root command for the mdattrs CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/cmd/completion"
	"github.com/open-cli-collective/mdattrs/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/mdattrs/internal/cmd/init"
	"github.com/open-cli-collective/mdattrs/internal/cmd/render"
	"github.com/open-cli-collective/mdattrs/internal/cmd/strip"
	"github.com/open-cli-collective/mdattrs/internal/cmd/tokens"
	"github.com/open-cli-collective/mdattrs/internal/version"
)

// NewCmdRoot creates the root command for mdattrs.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdattrs",
		Short: "Add classes, ids and attributes to markdown with {curly} markers",
		Long: `mdattrs renders markdown to HTML and applies curly attribute markers
written after elements:

  # Title {#intro .lead}
  some *emphasis*{.red} text

It can also dump the processed token stream and strip markers from
markdown files.

Get started by running: mdattrs init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/mdattrs/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().Bool("debug", false, "log every applied marker to stderr")
	cmd.PersistentFlags().Bool("log-journal", false, "also send logs to the systemd journal")

	// Set version template
	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(tokens.NewCmdTokens())
	cmd.AddCommand(strip.NewCmdStrip())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	completion.RegisterFlagValues(cmd)
	for _, sub := range cmd.Commands() {
		completion.RegisterFlagValues(sub)
	}

	return cmd
}
