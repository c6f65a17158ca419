package pipeline

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdattrs/internal/logs"
)

// Globals are the persistent flags of the root command.
type Globals struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Debug      bool
	LogJournal bool
}

// GlobalsFrom reads the persistent flags visible to cmd. Missing flags keep
// their zero value.
func GlobalsFrom(cmd *cobra.Command) Globals {
	var g Globals
	g.ConfigPath, _ = cmd.Flags().GetString("config")
	g.Output, _ = cmd.Flags().GetString("output")
	g.NoColor, _ = cmd.Flags().GetBool("no-color")
	g.Debug, _ = cmd.Flags().GetBool("debug")
	g.LogJournal, _ = cmd.Flags().GetBool("log-journal")
	return g
}

// Logger builds the command logger writing to w.
func (g Globals) Logger(w io.Writer) *slog.Logger {
	return logs.New(logs.Options{
		Writer:  w,
		Debug:   g.Debug,
		Journal: g.LogJournal,
	})
}
