package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCatalogue is returned when a document does not hold a list of
// forms.
var ErrInvalidCatalogue = errors.New("schema: catalogue must be a list of forms")

// Document wraps a raw schema payload and where it came from.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document, rejecting empty payloads.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Catalogue decodes the payload as a list of forms. Payloads that are valid
// JSON but not a list return ErrInvalidCatalogue.
func (d Document) Catalogue() (Catalogue, error) {
	return DecodeCatalogue(d.raw)
}

// DecodeCatalogue decodes a forms list payload. Each entry is decoded on its
// own and loosely typed keys are coerced, so a malformed form never hides the
// others. Entries that are not objects are skipped.
func DecodeCatalogue(raw []byte) (Catalogue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: raw document is empty")
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("schema: decode catalogue: invalid json")
	}
	if trimmed[0] != '[' {
		return nil, ErrInvalidCatalogue
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("schema: decode catalogue: %w", err)
	}
	forms := make(Catalogue, 0, len(entries))
	for _, entry := range entries {
		if !isObject(entry) {
			continue
		}
		var form RawForm
		if err := json.Unmarshal(entry, &form); err != nil {
			continue
		}
		forms = append(forms, form)
	}
	return forms, nil
}
