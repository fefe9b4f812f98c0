// Package logging builds the structured loggers shared by the numbering
// pipeline and its command.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at info level.
func New(w io.Writer) *log.Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger writing to w at the given level.
func NewWithLevel(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}

// Discard returns a logger that drops all output.
func Discard() *log.Logger {
	return NewWithLevel(io.Discard, log.FatalLevel)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// ParseLevel parses a level name such as "debug" or "warn"; the empty string
// means info.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return level, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
