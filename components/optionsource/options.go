package optionsource

import (
	"net/http"
	"strings"
)

// Shape selects the response envelope.
type Shape string

const (
	// ShapeData wraps the list as {"data": [...]}.
	ShapeData Shape = "data"
	// ShapeList returns a bare JSON array of strings.
	ShapeList Shape = "list"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	Param        string
	LimitParam   string
	DefaultLimit int
	MaxLimit     int
	Shape        Shape
	// FoldCase matches parameter values case-insensitively.
	FoldCase bool
	Guard    GuardFunc

	Entries map[string][]string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    "/api/options",
		Param:        "value",
		LimitParam:   "limit",
		DefaultLimit: 100,
		MaxLimit:     500,
		Shape:        ShapeData,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 100
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 500
	}
	if opts.Shape == "" {
		opts.Shape = ShapeData
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/options"
	}
	if strings.TrimSpace(opts.Param) == "" {
		opts.Param = "value"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	opts.Entries = cloneEntries(opts.Entries)
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithParam names the query parameter carrying the controlling field's value.
// It matches the dependsOn id of the fields served by the route.
func WithParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Param = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithShape(shape Shape) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Shape = shape
	}
}

func WithFoldCase(fold bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FoldCase = fold
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithEntries sets the catalogue: controlling value → option values.
func WithEntries(entries map[string][]string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Entries = cloneEntries(entries)
	}
}

func cloneEntries(entries map[string][]string) map[string][]string {
	if entries == nil {
		return nil
	}
	out := make(map[string][]string, len(entries))
	for key, values := range entries {
		out[key] = append([]string{}, values...)
	}
	return out
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
