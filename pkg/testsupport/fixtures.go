package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/schema"
)

// LoadDocument reads a fixture and builds a schema.Document using a file
// source. Testing helpers fail the test on error to keep callers concise.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (schema.Document, error) {
	if path == "" {
		return schema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadCatalogue decodes a forms fixture into a catalogue.
func MustLoadCatalogue(t *testing.T, path string) schema.Catalogue {
	t.Helper()

	doc := LoadDocument(t, path)
	catalogue, err := doc.Catalogue()
	if err != nil {
		t.Fatalf("decode catalogue: %v", err)
	}
	return catalogue
}

// MustLoadForm returns the raw form with the given id from a forms fixture.
func MustLoadForm(t *testing.T, path, formID string) schema.RawForm {
	t.Helper()

	form, ok := MustLoadCatalogue(t, path).Lookup(formID)
	if !ok {
		t.Fatalf("form %q not in %s", formID, path)
	}
	return form
}

// MustLoadStructure loads a JSON golden file into a FormStructure.
func MustLoadStructure(t *testing.T, path string) model.FormStructure {
	t.Helper()

	var out model.FormStructure
	if err := json.Unmarshal(MustReadGolden(t, path), &out); err != nil {
		t.Fatalf("unmarshal structure: %v", err)
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
