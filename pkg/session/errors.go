package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

var (
	// ErrNoStructure is returned by operations that need an installed form.
	ErrNoStructure = errors.New("session: no form structure installed")
	// ErrUnknownField is returned when an update names a field the active
	// structure does not contain.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrValidationFailed matches every *ValidationError.
	ErrValidationFailed = errors.New("session: validation failed")
	// ErrSubmissionFailed wraps submitter failures.
	ErrSubmissionFailed = errors.New("session: submission failed")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session: closed")
)

// ValidationError carries the per-field messages that blocked a submission.
type ValidationError struct {
	Errors model.ErrorMap
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(ids, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
