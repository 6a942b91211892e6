package optionsource

import (
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Lookup returns the values listed for the trigger value, in catalogue order,
// truncated to the clamped limit.
func Lookup(entries map[string][]string, trigger string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 || trigger == "" {
		return nil
	}

	values, ok := entries[trigger]
	if !ok && opts.FoldCase {
		for candidate, list := range entries {
			if strings.EqualFold(candidate, trigger) {
				values, ok = list, true
				break
			}
		}
	}
	if !ok || len(values) == 0 {
		return nil
	}
	if len(values) > limit {
		values = values[:limit]
	}
	return append([]string{}, values...)
}

// LookupOptions is Lookup mapped to option pairs whose label is the value.
func LookupOptions(entries map[string][]string, trigger string, limit int, opts Options) []model.Option {
	values := Lookup(entries, trigger, limit, opts)
	if len(values) == 0 {
		return nil
	}
	out := make([]model.Option, 0, len(values))
	for _, value := range values {
		out = append(out, model.Option{Label: value, Value: value})
	}
	return out
}
