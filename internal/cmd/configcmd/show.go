package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/config"
	"github.com/open-cli-collective/mdattrs/internal/view"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current mdattrs configuration with source indicators.`,
		Example: `  # Show current config
  mdattrs config show

  # As JSON
  mdattrs config show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			output, _ := cmd.Flags().GetString("output")
			return runShow(configPath(cmd), output, noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath, output string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if output == string(view.FormatJSON) {
		renderer := view.NewRenderer(view.FormatJSON, noColor)
		renderer.SetWriter(w)
		return renderer.RenderJSON(cfg)
	}

	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(w)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		if value == "" {
			renderer.RenderKeyValue(label, dim.Sprint("-"))
			return
		}

		// Determine source
		source := "config"
		if v := os.Getenv(envVar); v != "" {
			source = envVar
		} else if fileValue != value {
			source = "-"
		}

		renderer.RenderKeyValue(label, value+dim.Sprintf("  (source: %s)", source))
	}

	printField("Left delimiter", cfg.LeftDelimiter, fileCfg.LeftDelimiter, "MDATTRS_LEFT_DELIMITER")
	printField("Right delimiter", cfg.RightDelimiter, fileCfg.RightDelimiter, "MDATTRS_RIGHT_DELIMITER")
	printField("Allowed attributes", strings.Join(cfg.AllowedAttributes, ", "),
		strings.Join(fileCfg.AllowedAttributes, ", "), "MDATTRS_ALLOWED_ATTRIBUTES")
	printField("Ignore", cfg.Ignore, fileCfg.Ignore, "MDATTRS_IGNORE")
	printField("Parser", cfg.Parser, fileCfg.Parser, "MDATTRS_PARSER")
	printField("Output format", cfg.OutputFormat, fileCfg.OutputFormat, "")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
