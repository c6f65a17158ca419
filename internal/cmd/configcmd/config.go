// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/config"
)

// envVars lists the environment overrides in field order.
var envVars = []string{
	"MDATTRS_LEFT_DELIMITER",
	"MDATTRS_RIGHT_DELIMITER",
	"MDATTRS_ALLOWED_ATTRIBUTES",
	"MDATTRS_IGNORE",
	"MDATTRS_PARSER",
}

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mdattrs configuration",
		Long:  `Commands for viewing, testing, and clearing mdattrs configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}
