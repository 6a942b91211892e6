// Package draft persists in-progress form values to a single storage slot.
//
// There is exactly one slot regardless of form type. A Draft records the form
// identity it was taken from; the session applies it only when that identity
// matches the active structure, and leaves a mismatched draft in place.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/model"
)

// SlotName is the fixed key the draft is stored under.
const SlotName = "formDraft"

var (
	// ErrNotFound reports an empty slot.
	ErrNotFound = errors.New("draft: not found")
	// ErrCorrupt reports a payload that cannot be decoded.
	ErrCorrupt = errors.New("draft: corrupt payload")
)

// Draft is the persisted snapshot of a form session.
type Draft struct {
	FormID   string       `json:"formId"`
	FormType string       `json:"formType"`
	Values   model.Values `json:"values"`
}

// Store is a single-slot persistence backend. Read returns ErrNotFound when
// the slot is empty. Write overwrites unconditionally.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
	Clear(ctx context.Context) error
}

// Encode serialises a draft to JSON.
func Encode(d Draft) ([]byte, error) {
	if d.Values == nil {
		d.Values = model.Values{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("draft: encode: %w", err)
	}
	return data, nil
}

// Decode parses a stored payload. Any failure wraps ErrCorrupt.
func Decode(payload []byte) (Draft, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Draft{}, fmt.Errorf("%w: not a json object", ErrCorrupt)
	}
	var d Draft
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if d.Values == nil {
		d.Values = model.Values{}
	}
	return d, nil
}

// Save encodes d and writes it to store.
func Save(ctx context.Context, store Store, d Draft) error {
	if store == nil {
		return errors.New("draft: store is nil")
	}
	data, err := Encode(d)
	if err != nil {
		return err
	}
	if err := store.Write(ctx, data); err != nil {
		return fmt.Errorf("draft: write: %w", err)
	}
	return nil
}

// Load reads and decodes the slot. It returns ErrNotFound for an empty slot
// and an error wrapping ErrCorrupt for an unreadable payload.
func Load(ctx context.Context, store Store) (Draft, error) {
	if store == nil {
		return Draft{}, errors.New("draft: store is nil")
	}
	data, err := store.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, fmt.Errorf("draft: read: %w", err)
	}
	return Decode(data)
}
