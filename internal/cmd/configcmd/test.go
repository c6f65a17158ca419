package configcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/config"
	"github.com/open-cli-collective/mdattrs/internal/pipeline"
	"github.com/open-cli-collective/mdattrs/internal/view"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configuration by rendering a sample",
		Long: `Validate the current configuration, compile its allowed attributes and
ignore expression, and render a sample document through the pipeline.`,
		Example: `  # Test configuration
  mdattrs config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runTest(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(configPath string, noColor bool, w io.Writer) error {
	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(w)

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		renderer.Error("Config could not be loaded: " + err.Error())
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		renderer.Error("Config is invalid: " + err.Error())
		fmt.Fprintln(w, "\nCheck your settings with: mdattrs config show")
		fmt.Fprintln(w, "Reconfigure with: mdattrs init")
		return fmt.Errorf("invalid config: %w", err)
	}
	renderer.Success("Config is valid")

	settings := pipeline.FromConfig(cfg)
	proc, err := pipeline.Build(settings, nil)
	if err != nil {
		renderer.Error("Pipeline could not be built: " + err.Error())
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	renderer.Success(fmt.Sprintf("Pipeline built (parser: %s)", proc.Frontend().Name()))

	left, right := settings.LeftDelimiter, settings.RightDelimiter
	if left == "" {
		left = "{"
	}
	if right == "" {
		right = "}"
	}
	sample := "# Sample " + left + ".title" + right + "\n"

	html, err := proc.Convert([]byte(sample))
	if err != nil {
		renderer.Error("Sample failed to render: " + err.Error())
		return fmt.Errorf("failed to render sample: %w", err)
	}
	if strings.Contains(html, left+".title") {
		renderer.Error("Sample marker was not recognized")
		return fmt.Errorf("sample marker %s.title%s was not recognized", left, right)
	}
	renderer.Success("Sample marker applied")
	fmt.Fprintf(w, "\n%s", html)

	return nil
}
