// Package validation evaluates the declarative per-field rules of a form
// structure against a value snapshot. Validation is advisory; it mirrors what
// the browser client enforced and is not a security boundary.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/visibility"
)

// Validate checks every visible field and returns the resulting error map.
// Hidden sections and fields are skipped entirely. The map is built from
// scratch on each call.
func Validate(structure model.FormStructure, values model.Values) model.ErrorMap {
	errs := make(model.ErrorMap)
	for _, section := range structure.Sections {
		if !visibility.IsVisible(section.DependsOn, values) {
			continue
		}
		for _, field := range section.Fields {
			if !visibility.IsVisible(field.DependsOn, values) {
				continue
			}
			if msg, ok := ValidateField(field, values[field.ID]); !ok {
				errs[field.ID] = msg
			}
		}
	}
	return errs
}

// ValidateField runs the rule chain for a single value regardless of
// visibility. Checks run in a fixed order and a later failing check replaces
// the message of an earlier one: pattern, then numeric bounds, then length.
func ValidateField(field model.Field, value any) (string, bool) {
	if field.Required && isBlank(value) {
		return field.Label + " is required", false
	}
	if !field.Required && isFalsy(value) {
		return "", true
	}

	msg := ""
	rules := field.Validation

	if rules.Pattern != "" {
		re, err := regexp.Compile(rules.Pattern)
		if err != nil || !re.MatchString(model.Stringify(value)) {
			msg = field.Label + " format is invalid"
		}
	}

	if field.Type == model.FieldTypeNumber && !isEmptyString(value) {
		n := toNumber(value)
		if rules.Min != nil && n < *rules.Min {
			msg = fmt.Sprintf("%s must be at least %s", field.Label, model.FormatNumber(*rules.Min))
		}
		if rules.Max != nil && n > *rules.Max {
			msg = fmt.Sprintf("%s must be at most %s", field.Label, model.FormatNumber(*rules.Max))
		}
	}

	if s, ok := value.(string); ok {
		length := utf16Len(s)
		if rules.MinLength != nil && length < *rules.MinLength {
			msg = fmt.Sprintf("%s must be at least %d characters", field.Label, *rules.MinLength)
		}
		if rules.MaxLength != nil && length > *rules.MaxLength {
			msg = fmt.Sprintf("%s must be at most %d characters", field.Label, *rules.MaxLength)
		}
	}

	if msg != "" {
		return msg, false
	}
	return "", true
}

func isBlank(value any) bool {
	return value == nil || isEmptyString(value)
}

func isEmptyString(value any) bool {
	s, ok := value.(string)
	return ok && s == ""
}

// isFalsy follows browser truthiness for the scalar kinds a form can hold.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0 || math.IsNaN(v)
	case float32:
		return v == 0 || math.IsNaN(float64(v))
	case int:
		return v == 0
	case int64:
		return v == 0
	default:
		return false
	}
}

// toNumber converts a value the way a browser's Number() would for the
// shapes forms produce. Unparsable input yields NaN, which fails no bound.
func toNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseNumber(v)
	default:
		return math.NaN()
	}
}

func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.ContainsAny(lower, "_xpinfa") {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
