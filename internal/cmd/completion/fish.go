package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdFish creates the fish completion command.
func NewCmdFish() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate fish completion script for mdattrs.

To load completions in your current shell session:

  mdattrs completion fish | source

To load completions for every new session:

  mdattrs completion fish > ~/.config/fish/completions/mdattrs.fish`,
		Example: `  # Load in current session
  mdattrs completion fish | source

  # Install permanently
  mdattrs completion fish > ~/.config/fish/completions/mdattrs.fish`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}
