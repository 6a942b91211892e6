// Package session owns a single active form: its structure, the value store,
// dependent option resolution, draft persistence and submission.
//
// All state sits behind one lock. Readers receive copies, so a caller never
// observes a structure halfway through an option rewrite. Value writes happen
// under the lock before any dependent lookup is dispatched.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-formengine/pkg/draft"
	"github.com/goliatone/go-formengine/pkg/logging"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/options"
	"github.com/goliatone/go-formengine/pkg/validation"
	"github.com/goliatone/go-formengine/pkg/visibility"
)

// DefaultAutosaveInterval is used when no interval is configured.
const DefaultAutosaveInterval = 30 * time.Second

// Submitter delivers a completed form.
type Submitter interface {
	Submit(ctx context.Context, sub model.Submission) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, sub model.Submission) error

// Submit calls the underlying function.
func (fn SubmitterFunc) Submit(ctx context.Context, sub model.Submission) error {
	return fn(ctx, sub)
}

// ChangeFunc observes structure rewrites caused by dependent lookups.
type ChangeFunc func(structure model.FormStructure)

// Option customises a Session.
type Option func(*Session)

// WithResolver sets the dependent option resolver.
func WithResolver(r *options.Resolver) Option {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithFetcher builds a resolver around f using the session logger.
func WithFetcher(f options.Fetcher) Option {
	return func(s *Session) {
		s.fetcher = f
	}
}

// WithDraftStore sets the draft slot backend.
func WithDraftStore(store draft.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithSubmitter sets the submission sink.
func WithSubmitter(sub Submitter) Option {
	return func(s *Session) {
		s.submitter = sub
	}
}

// WithLogger routes recovered failures to l.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithAutosaveInterval overrides DefaultAutosaveInterval. A negative
// interval disables autosave.
func WithAutosaveInterval(d time.Duration) Option {
	return func(s *Session) {
		s.autosaveInterval = d
	}
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	structure model.FormStructure
	installed bool
	values    model.Values
	epoch     uint64
	closed    bool
	onChange  []ChangeFunc

	resolver         *options.Resolver
	fetcher          options.Fetcher
	store            draft.Store
	submitter        Submitter
	logger           logging.Logger
	autosaveInterval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup

	autosaveMu   sync.Mutex
	autosaveStop chan struct{}
	autosaveDone chan struct{}
}

// New constructs an empty session. Call Install before updating values.
func New(opts ...Option) *Session {
	s := &Session{values: model.Values{}}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	if s.resolver == nil && s.fetcher != nil {
		s.resolver = options.NewResolver(s.fetcher, options.WithLogger(s.logger))
	}
	if s.autosaveInterval == 0 {
		s.autosaveInterval = DefaultAutosaveInterval
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Install replaces the active structure and resets every reachable field to
// the empty string. Any running autosave loop is stopped first and a new one
// started for the new structure. Lookups still in flight for the previous
// structure are discarded when they return.
func (s *Session) Install(structure model.FormStructure) error {
	s.stopAutosave()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.structure = structure.Clone()
	s.values = s.structure.EmptyValues()
	s.installed = true
	s.epoch++
	s.mu.Unlock()

	s.startAutosave()
	return nil
}

// Update records value for fieldID, then dispatches one lookup per field
// whose dynamic options depend on fieldID. It does not wait for them.
func (s *Session) Update(fieldID string, value any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.installed {
		s.mu.Unlock()
		return ErrNoStructure
	}
	if !s.structure.HasField(fieldID) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	s.values[fieldID] = value
	dependents := s.structure.Dependents(fieldID)
	epoch := s.epoch
	if s.resolver != nil {
		s.pending.Add(len(dependents))
	}
	s.mu.Unlock()

	if s.resolver == nil {
		return nil
	}
	for _, dep := range dependents {
		go s.resolveDependent(epoch, dep, fieldID, value)
	}
	return nil
}

func (s *Session) resolveDependent(epoch uint64, field model.Field, triggerID string, value any) {
	defer s.pending.Done()

	opts := s.resolver.Resolve(s.ctx, field, triggerID, value)

	s.mu.Lock()
	if s.closed || s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.structure = s.structure.WithFieldOptions(field.ID, opts)
	s.values[field.ID] = ""
	snapshot := s.structure.Clone()
	hooks := append([]ChangeFunc(nil), s.onChange...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(snapshot)
	}
}

// Wait blocks until every dispatched lookup has finished.
func (s *Session) Wait() {
	s.pending.Wait()
}

// OnChange registers fn to run after a lookup rewrites the structure.
func (s *Session) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Structure returns a copy of the active structure.
func (s *Session) Structure() (model.FormStructure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.installed {
		return model.FormStructure{}, false
	}
	return s.structure.Clone(), true
}

// Values returns a copy of the value store.
func (s *Session) Values() model.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Value returns the stored value for id.
func (s *Session) Value(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[id]
	return v, ok
}

// VisibleSections lists the sections currently shown, each carrying only its
// visible fields.
func (s *Session) VisibleSections() []model.Section {
	structure, values := s.snapshot()
	return visibility.Sections(structure, values)
}

// Validate runs the validation engine over the current snapshot.
func (s *Session) Validate() model.ErrorMap {
	structure, values := s.snapshot()
	return validation.Validate(structure, values)
}

// Close stops autosave, cancels in-flight lookups and waits for them. It is
// safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.stopAutosave()
	s.pending.Wait()
	return nil
}

func (s *Session) snapshot() (model.FormStructure, model.Values) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.structure.Clone(), s.values.Clone()
}
