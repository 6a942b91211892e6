package formengine

import (
	"context"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/session"
)

// FormStructure aliases the canonical form description.
type FormStructure = model.FormStructure

// Values aliases the field value map.
type Values = model.Values

// ErrorMap aliases the validation result map.
type ErrorMap = model.ErrorMap

// Session aliases the interactive form session.
type Session = session.Session

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// WithCatalogue points the orchestrator at a catalogue read through the
// default loader. Relative locations are files; http(s) locations are fetched
// with the supplied loader options.
func WithCatalogue(src schema.Source, options ...schema.LoaderOption) orchestrator.Option {
	return orchestrator.WithSchemaSource(orchestrator.NewLoaderSource(NewLoader(options...), src))
}

// OpenForm builds an orchestrator from options and opens a session for
// formType. It is the simplest entry point for callers that just want a live
// form.
func OpenForm(ctx context.Context, formType string, options ...orchestrator.Option) (*Session, error) {
	return orchestrator.New(options...).Open(ctx, formType)
}
