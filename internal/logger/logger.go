// Package logger builds the charm loggers the binary hands to its
// subsystems. Everything logs to stderr so stdout stays clean for the
// wire protocol.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Default returns a plain stderr logger carrying prefix. The global log
// level is captured at construction, so build these after flag handling
// has set it.
func Default(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:     log.GetLevel(),
		Prefix:    prefix,
		Formatter: log.TextFormatter,
	})
}

// NewWithConfig returns a stderr logger with every knob exposed, for the
// few spots that want caller info or a different formatter.
func NewWithConfig(prefix string, level log.Level, caller, timestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportCaller:    caller,
		ReportTimestamp: timestamp,
		Formatter:       formatter,
	})
}
