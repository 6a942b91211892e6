package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnsupportedField is returned for a field type the renderer has no
	// prompt for.
	ErrUnsupportedField = errors.New("tui: unsupported field type")
)
