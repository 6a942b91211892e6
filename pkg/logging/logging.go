// Package logging defines the minimal logger contract shared by the engine
// packages. *log.Logger satisfies it.
package logging

import (
	"io"
	"log"
)

// Logger receives diagnostic messages for failures the engine recovers from.
type Logger interface {
	Printf(format string, args ...any)
}

// Default returns the standard library's default logger.
func Default() Logger {
	return log.Default()
}

// Discard returns a logger that drops every message.
func Discard() Logger {
	return log.New(io.Discard, "", 0)
}

// OrDefault returns l, or Default when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}
