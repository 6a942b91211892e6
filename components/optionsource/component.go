package optionsource

import (
	"net/http"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Component is one dependent-option route and its catalogue slice.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns a net/http handler for option queries.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes mounts the component under basePath on mux and returns the
// field wiring for it.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (model.DynamicOptions, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}

// DynamicOptions returns the field configuration that points a dependent
// field at this route when mounted under basePath.
func (c *Component) DynamicOptions(basePath string) model.DynamicOptions {
	return dynamicOptions(basePath, c.Options())
}
