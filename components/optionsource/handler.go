package optionsource

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ErrUnauthorized makes a guard answer 401. Any other guard error answers
// 403.
var ErrUnauthorized = errors.New("optionsource: unauthorized")

type dataEnvelope struct {
	Data []model.Option `json:"data"`
}

// Handler builds the dependent-option endpoint with default options plus any
// overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the endpoint from a pre-constructed Options value.
// Defaults are re-applied so a zero Options is usable.
//
// The trigger parameter carries the controlling field's current value as the
// resolver sends it. A request without the parameter is a wiring mistake and
// answers 400; an empty or unknown value answers an empty list.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				code := http.StatusForbidden
				if errors.Is(err, ErrUnauthorized) {
					code = http.StatusUnauthorized
				}
				http.Error(w, http.StatusText(code), code)
				return
			}
		}

		query := r.URL.Query()
		if !query.Has(opts.Param) {
			http.Error(w, "missing "+opts.Param+" parameter", http.StatusBadRequest)
			return
		}
		limit, _ := strconv.Atoi(query.Get(opts.LimitParam))
		options := LookupOptions(opts.Entries, query.Get(opts.Param), limit, opts)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if id := r.Header.Get("X-Request-ID"); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewEncoder(w).Encode(body(opts.Shape, options))
	})
}

// body renders options in the envelope the resolver expects for shape.
func body(shape Shape, options []model.Option) any {
	if shape == ShapeList {
		values := make([]string, 0, len(options))
		for _, opt := range options {
			values = append(values, opt.Value)
		}
		return values
	}
	if options == nil {
		options = []model.Option{}
	}
	return dataEnvelope{Data: options}
}
