package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// StderrLogFile sends logs to stderr instead of a file
const StderrLogFile = "-"

// NewLogger builds the application logger from LogFile and LogLevel.
// The TUI owns stdout, so logs go to an append-only file by default.
// The returned close func releases the file, if any.
func (c Config) NewLogger() (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	var (
		w       io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	switch c.LogFile {
	case "":
	case StderrLogFile:
		w = os.Stderr
	default:
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "covidwatch",
		Level:           level,
	})
	return logger, closeFn, nil
}
