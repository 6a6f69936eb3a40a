// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// New returns a logger writing to w at the given level. format is
// "json" for one JSON object per line; anything else is console output.
func New(w io.Writer, level, format string) *log.Logger {
	lvl := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if level == "" {
		lvl = log.InfoLevel
	}

	var writer log.Writer
	if strings.EqualFold(format, "json") {
		writer = &log.IOWriter{Writer: w}
	} else {
		color := false
		if f, ok := w.(*os.File); ok {
			color = log.IsTerminal(f.Fd())
		}
		writer = &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    color,
			QuoteString:    true,
			EndWithMessage: true,
		}
	}

	return &log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer:     writer,
	}
}

// Setup installs a stderr logger as log.DefaultLogger. quiet raises the
// level to warnings so progress chatter stays off the terminal.
func Setup(level, format string, quiet bool) {
	if quiet && !strings.EqualFold(level, "debug") {
		level = "warn"
	}
	log.DefaultLogger = *New(os.Stderr, level, format)
}
