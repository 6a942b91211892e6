// Package visibility decides whether a field or section is currently shown.
// Predicates are single-field equality checks evaluated fresh against a value
// snapshot on every call; nothing is cached, and values of hidden fields stay
// in the store untouched.
package visibility

import (
	"encoding/json"
	"math"

	"github.com/goliatone/go-formengine/pkg/model"
)

// IsVisible reports whether an element gated by p is displayed. A nil
// predicate is always visible. Otherwise the stored value must strictly equal
// the predicate value. A missing key only matches a predicate declared
// without a value.
func IsVisible(p *model.Predicate, values model.Values) bool {
	if p == nil {
		return true
	}
	current, ok := values[p.Field]
	if p.ValueUnset {
		return !ok
	}
	if !ok {
		return false
	}
	return Equal(current, p.Value)
}

// Equal compares two untyped values without coercion across kinds. Numbers are
// compared numerically whatever their Go type, since decoded JSON always
// yields float64. NaN never equals anything.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if af, ok := number(a); ok {
		bf, ok := number(b)
		if !ok || math.IsNaN(af) || math.IsNaN(bf) {
			return false
		}
		return af == bf
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Sections returns the sections currently displayed, each holding only its
// visible fields. The input structure is not modified.
func Sections(structure model.FormStructure, values model.Values) []model.Section {
	var out []model.Section
	for _, section := range structure.Sections {
		if !IsVisible(section.DependsOn, values) {
			continue
		}
		visible := section
		visible.Fields = Fields(section.Fields, values)
		out = append(out, visible)
	}
	return out
}

// Fields filters fields down to those currently displayed, preserving order.
func Fields(fields []model.Field, values model.Values) []model.Field {
	out := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		if IsVisible(field.DependsOn, values) {
			out = append(out, field)
		}
	}
	return out
}
