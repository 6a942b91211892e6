package formengine

import (
	internalLoader "github.com/goliatone/go-formengine/internal/loader"
	"github.com/goliatone/go-formengine/pkg/schema"
)

// NewLoader constructs a schema loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
