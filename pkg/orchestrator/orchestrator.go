package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formengine/pkg/draft"
	"github.com/goliatone/go-formengine/pkg/logging"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/normalize"
	"github.com/goliatone/go-formengine/pkg/options"
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/session"
)

// ErrSchemaUnavailable reports that no schema could be obtained for a form
// type. Structure recovers from it with the default form.
var ErrSchemaUnavailable = errors.New("orchestrator: schema unavailable")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSchemaSource injects the catalogue source.
func WithSchemaSource(src SchemaSource) Option {
	return func(o *Orchestrator) {
		o.source = src
	}
}

// WithNormalizer injects a custom normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(o *Orchestrator) {
		o.normalizer = n
	}
}

// WithDraftStore sets the draft slot used by opened sessions.
func WithDraftStore(store draft.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithFetcher sets the dependent option fetcher used by opened sessions.
func WithFetcher(f options.Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = f
	}
}

// WithSubmitter sets the submission sink used by opened sessions.
func WithSubmitter(sub session.Submitter) Option {
	return func(o *Orchestrator) {
		o.submitter = sub
	}
}

// WithLogger routes recovered failures to l. Opened sessions share it.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithAutosaveInterval overrides the session autosave interval.
func WithAutosaveInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.autosave = d
	}
}

// WithSessionOptions appends raw session options applied after the ones
// derived from the orchestrator configuration.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *Orchestrator) {
		o.sessionOptions = append(o.sessionOptions, opts...)
	}
}

// Orchestrator resolves form types to structures and opens sessions over
// them.
type Orchestrator struct {
	source         SchemaSource
	normalizer     *normalize.Normalizer
	store          draft.Store
	fetcher        options.Fetcher
	submitter      session.Submitter
	logger         logging.Logger
	autosave       time.Duration
	sessionOptions []session.Option
}

// New constructs an Orchestrator applying any provided options. Missing
// collaborators are left empty: without a schema source every form type
// resolves to the default form.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.normalizer == nil {
		o.normalizer = normalize.New()
	}
	o.logger = logging.OrDefault(o.logger)
	return o
}

// Lookup fetches and normalizes the form published for formType. Failures
// wrap ErrSchemaUnavailable.
func (o *Orchestrator) Lookup(ctx context.Context, formType string) (model.FormStructure, error) {
	if o.source == nil {
		return model.FormStructure{}, fmt.Errorf("%w: no schema source configured", ErrSchemaUnavailable)
	}
	formID, ok := schema.FormIDFor(formType)
	if !ok {
		return model.FormStructure{}, fmt.Errorf("%w: unknown form type %q", ErrSchemaUnavailable, formType)
	}

	catalogue, err := o.source.Catalogue(ctx)
	if err != nil {
		return model.FormStructure{}, fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	form, ok := catalogue.Lookup(formID)
	if !ok {
		return model.FormStructure{}, fmt.Errorf("%w: form %q not published", ErrSchemaUnavailable, formID)
	}
	return o.normalizer.Normalize(form, formType), nil
}

// Structure resolves formType, falling back to the default form on any
// failure. It never returns an empty structure.
func (o *Orchestrator) Structure(ctx context.Context, formType string) model.FormStructure {
	structure, err := o.Lookup(ctx, formType)
	if err != nil {
		o.logger.Printf("orchestrator: %s: using default form: %v", formType, err)
		return normalize.Default(formType)
	}
	return structure
}

// NewSession builds an empty session wired with the orchestrator's
// collaborators.
func (o *Orchestrator) NewSession() *session.Session {
	opts := []session.Option{session.WithLogger(o.logger)}
	if o.fetcher != nil {
		opts = append(opts, session.WithFetcher(o.fetcher))
	}
	if o.store != nil {
		opts = append(opts, session.WithDraftStore(o.store))
	}
	if o.submitter != nil {
		opts = append(opts, session.WithSubmitter(o.submitter))
	}
	if o.autosave != 0 {
		opts = append(opts, session.WithAutosaveInterval(o.autosave))
	}
	opts = append(opts, o.sessionOptions...)
	return session.New(opts...)
}

// Open builds a session for formType, installs its structure, and restores a
// matching draft when one exists.
func (o *Orchestrator) Open(ctx context.Context, formType string) (*session.Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	sess := o.NewSession()
	if err := o.Switch(ctx, sess, formType); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// Switch installs the structure for formType into sess, superseding whatever
// it held, then attempts a draft restore. Restore failures are logged.
func (o *Orchestrator) Switch(ctx context.Context, sess *session.Session, formType string) error {
	if sess == nil {
		return errors.New("orchestrator: session is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	structure := o.Structure(ctx, formType)
	if err := sess.Install(structure); err != nil {
		return fmt.Errorf("orchestrator: install %s: %w", structure.ID, err)
	}

	restored, err := sess.LoadDraft(ctx)
	if err != nil {
		o.logger.Printf("orchestrator: restore draft for %s: %v", structure.ID, err)
		return nil
	}
	if restored {
		o.logger.Printf("orchestrator: restored draft for %s", structure.ID)
	}
	return nil
}
