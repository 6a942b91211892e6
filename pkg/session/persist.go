package session

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formengine/pkg/draft"
)

// SaveDraft overwrites the draft slot with the current form identity and
// values. Without an installed structure or a store it does nothing.
func (s *Session) SaveDraft(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.mu.RLock()
	if !s.installed {
		s.mu.RUnlock()
		return nil
	}
	d := draft.Draft{
		FormID:   s.structure.ID,
		FormType: s.structure.Type,
		Values:   s.values.Clone(),
	}
	s.mu.RUnlock()

	return draft.Save(ctx, s.store, d)
}

// LoadDraft restores values from the slot when it holds a draft for the
// active form. It reports whether values were replaced. An empty slot, a
// corrupt payload, or a draft for a different form leaves the values and the
// slot untouched. Only store I/O failures are returned.
func (s *Session) LoadDraft(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	s.mu.RLock()
	installed := s.installed
	s.mu.RUnlock()
	if !installed {
		return false, nil
	}

	d, err := draft.Load(ctx, s.store)
	switch {
	case errors.Is(err, draft.ErrNotFound):
		return false, nil
	case errors.Is(err, draft.ErrCorrupt):
		s.logger.Printf("session: ignoring draft: %v", err)
		return false, nil
	case err != nil:
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.installed || d.FormID != s.structure.ID {
		return false, nil
	}
	s.values = d.Values.Clone()
	return true, nil
}

// Autosaving reports whether the periodic draft loop is running.
func (s *Session) Autosaving() bool {
	s.autosaveMu.Lock()
	defer s.autosaveMu.Unlock()
	return s.autosaveStop != nil
}

func (s *Session) startAutosave() {
	if s.store == nil || s.autosaveInterval <= 0 {
		return
	}
	s.autosaveMu.Lock()
	defer s.autosaveMu.Unlock()
	if s.autosaveStop != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	s.autosaveStop = stop
	s.autosaveDone = done

	go func(interval time.Duration) {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.SaveDraft(s.ctx); err != nil && s.ctx.Err() == nil {
					s.logger.Printf("session: autosave: %v", err)
				}
			}
		}
	}(s.autosaveInterval)
}

func (s *Session) stopAutosave() {
	s.autosaveMu.Lock()
	stop, done := s.autosaveStop, s.autosaveDone
	s.autosaveStop, s.autosaveDone = nil, nil
	s.autosaveMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
