package optionsource

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Mux is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the endpoint path of the route under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	return mountPath(basePath, NewOptions(fns...).RoutePath)
}

// RegisterRoutes mounts the route under basePath on mux and returns the
// dynamicOptions block a dependent field uses to reach it.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (model.DynamicOptions, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions is RegisterRoutes with a pre-built Options value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (model.DynamicOptions, error) {
	if mux == nil {
		return model.DynamicOptions{}, errors.New("optionsource: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	wiring := dynamicOptions(basePath, opts)
	mux.Handle(wiring.Endpoint, HandlerWithOptions(opts))
	return wiring, nil
}

func dynamicOptions(basePath string, opts Options) model.DynamicOptions {
	return model.DynamicOptions{
		DependsOn: opts.Param,
		Endpoint:  mountPath(basePath, opts.RoutePath),
		Method:    http.MethodGet,
	}
}

func mountPath(basePath, routePath string) string {
	return path.Join("/", strings.TrimSpace(basePath), strings.TrimSpace(routePath))
}
