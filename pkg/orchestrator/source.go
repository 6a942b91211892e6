package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/schema"
)

// SchemaSource supplies the catalogue of raw forms. *client.Client satisfies
// it.
type SchemaSource interface {
	Catalogue(ctx context.Context) (schema.Catalogue, error)
}

// SchemaSourceFunc adapts a function into a SchemaSource.
type SchemaSourceFunc func(ctx context.Context) (schema.Catalogue, error)

// Catalogue calls the underlying function.
func (fn SchemaSourceFunc) Catalogue(ctx context.Context) (schema.Catalogue, error) {
	return fn(ctx)
}

// LoaderSource reads the catalogue through a schema.Loader, so a local file,
// an embedded fs.FS, or a plain URL can stand in for the forms API.
type LoaderSource struct {
	loader schema.Loader
	source schema.Source
}

// NewLoaderSource returns a SchemaSource loading src with loader.
func NewLoaderSource(loader schema.Loader, src schema.Source) *LoaderSource {
	return &LoaderSource{loader: loader, source: src}
}

var _ SchemaSource = (*LoaderSource)(nil)

// Catalogue loads and decodes the document.
func (l *LoaderSource) Catalogue(ctx context.Context) (schema.Catalogue, error) {
	if l == nil || l.loader == nil {
		return nil, errors.New("orchestrator: loader is nil")
	}
	doc, err := l.loader.Load(ctx, l.source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load catalogue: %w", err)
	}
	return doc.Catalogue()
}
