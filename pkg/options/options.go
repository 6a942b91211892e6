package options

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-formengine/pkg/logging"
	"github.com/goliatone/go-formengine/pkg/model"
)

// ErrFetchFailed wraps every error raised while fetching dependent options.
var ErrFetchFailed = errors.New("options: fetch failed")

// Request describes a single dependent-option lookup.
type Request struct {
	Endpoint string
	Method   string
	Params   map[string]string
}

// Fetcher retrieves an option list for a request.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]model.Option, error)
}

// FetcherFunc adapts a function into a Fetcher.
type FetcherFunc func(ctx context.Context, req Request) ([]model.Option, error)

// Fetch calls the underlying function.
func (fn FetcherFunc) Fetch(ctx context.Context, req Request) ([]model.Option, error) {
	return fn(ctx, req)
}

// Resolver turns a field's dynamicOptions configuration into an option list.
type Resolver struct {
	fetcher Fetcher
	logger  logging.Logger
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithLogger routes fetch failures to l.
func WithLogger(l logging.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver constructs a Resolver around fetcher.
func NewResolver(fetcher Fetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{fetcher: fetcher}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	r.logger = logging.OrDefault(r.logger)
	return r
}

// RequestFor builds the lookup request for field after triggerID changed to
// value. The method defaults to GET.
func RequestFor(field model.Field, triggerID string, value any) (Request, bool) {
	if field.DynamicOptions == nil {
		return Request{}, false
	}
	method := strings.ToUpper(strings.TrimSpace(field.DynamicOptions.Method))
	if method == "" {
		method = http.MethodGet
	}
	return Request{
		Endpoint: field.DynamicOptions.Endpoint,
		Method:   method,
		Params:   map[string]string{triggerID: model.Stringify(value)},
	}, true
}

// Resolve fetches the options for field. It always returns a non-nil list;
// any failure is logged and yields an empty one.
func (r *Resolver) Resolve(ctx context.Context, field model.Field, triggerID string, value any) []model.Option {
	req, ok := RequestFor(field, triggerID, value)
	if !ok {
		return []model.Option{}
	}
	if r == nil || r.fetcher == nil {
		return []model.Option{}
	}

	opts, err := r.fetcher.Fetch(ctx, req)
	if err != nil {
		r.logger.Printf("options: resolve %s from %s %s: %v", field.ID, req.Method, req.Endpoint, err)
		return []model.Option{}
	}
	if opts == nil {
		return []model.Option{}
	}
	return opts
}
