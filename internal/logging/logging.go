// Package logging configures the shared application logger. The TUI owns
// stderr, so log output goes to a file named by TERMDECK_LOG; without it,
// logging is discarded.
package logging

import (
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger.
var Logger = newLogger()

func newLogger() *clog.Logger {
	var out io.Writer = io.Discard
	level := clog.WarnLevel

	if path := os.Getenv("TERMDECK_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			out = f
			level = clog.DebugLevel
		}
	}

	return clog.NewWithOptions(out, clog.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}
