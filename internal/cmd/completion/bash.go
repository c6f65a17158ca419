package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdBash creates the bash completion command.
func NewCmdBash() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate bash completion script for mdattrs.

To load completions in your current shell session:

  source <(mdattrs completion bash)

To load completions for every new session:

  # Linux
  mdattrs completion bash > /etc/bash_completion.d/mdattrs

  # macOS (requires bash-completion)
  mdattrs completion bash > $(brew --prefix)/etc/bash_completion.d/mdattrs`,
		Example: `  # Load in current session
  source <(mdattrs completion bash)

  # Install permanently (Linux)
  mdattrs completion bash | sudo tee /etc/bash_completion.d/mdattrs > /dev/null

  # Install permanently (macOS with Homebrew)
  mdattrs completion bash > $(brew --prefix)/etc/bash_completion.d/mdattrs`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}
