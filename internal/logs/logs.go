// Package logs builds the process logger.
package logs

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options configures New.
type Options struct {
	// Writer receives human readable log lines, usually stderr.
	Writer io.Writer
	// Debug lowers the level from info to debug.
	Debug bool
	// Journal additionally sends records to the systemd journal.
	Journal bool
}

// newJournalHandler is replaced in tests.
var newJournalHandler = func(level slog.Leveler) (slog.Handler, error) {
	return slogjournal.NewHandler(&slogjournal.Options{
		Level: level,
		ReplaceGroup: func(key string) string {
			return toJournalKey(key)
		},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = toJournalKey(a.Key)
			return a
		},
	})
}

// New returns a logger writing text lines to opts.Writer and, when asked, to
// the journal. A journal that cannot be opened is reported as a warning.
func New(opts Options) *slog.Logger {
	level := new(slog.LevelVar)
	if opts.Debug {
		level.Set(slog.LevelDebug)
	}

	var handlers []slog.Handler
	terminalHandler := slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{
		Level: level,
	})
	handlers = append(handlers, terminalHandler)

	if opts.Journal {
		journalHandler, err := newJournalHandler(level)
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// toJournalKey maps an attribute key to a valid journal field name.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}
