package session

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// Submit validates the active form and, when it passes, hands it to the
// submitter. Validation failures return a *ValidationError. Submitter
// failures wrap ErrSubmissionFailed. In both cases the draft slot is kept; a
// successful submission clears it.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.RLock()
	if !s.installed {
		s.mu.RUnlock()
		return ErrNoStructure
	}
	structure := s.structure.Clone()
	values := s.values.Clone()
	s.mu.RUnlock()

	if errs := validation.Validate(structure, values); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	if s.submitter == nil {
		return fmt.Errorf("%w: no submitter configured", ErrSubmissionFailed)
	}

	sub := model.Submission{FormID: structure.ID, FormType: structure.Type, Values: values}
	if err := s.submitter.Submit(ctx, sub); err != nil {
		s.logger.Printf("session: submit %s: %v", structure.ID, err)
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			s.logger.Printf("session: clear draft after submit: %v", err)
		}
	}
	return nil
}
