package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The forms API is not trusted to send well-typed schemas. The decoders below
// accept any JSON value for every key: scalars are coerced the way a browser
// would read them and shapes that cannot be used are dropped, so one odd field
// never fails the surrounding form.

// UnmarshalJSON implements json.Unmarshaler. Non-object input yields an empty
// form.
func (f *RawForm) UnmarshalJSON(data []byte) error {
	*f = RawForm{}
	obj, ok := object(data)
	if !ok {
		return nil
	}
	f.FormID = text(obj["formId"])
	f.Title = text(obj["title"])
	f.Fields = rawFields(obj["fields"])
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *RawField) UnmarshalJSON(data []byte) error {
	*f = RawField{}
	obj, ok := object(data)
	if !ok {
		return nil
	}
	f.ID = text(obj["id"])
	f.Label = text(obj["label"])
	f.Type = text(obj["type"])
	f.Required = truthy(obj["required"])
	f.Placeholder = text(obj["placeholder"])
	f.Description = text(obj["description"])
	f.Fields = rawFields(obj["fields"])

	if raw, ok := obj["options"]; ok && isList(raw) {
		var opts RawOptions
		if err := json.Unmarshal(raw, &opts); err == nil {
			f.Options = &opts
		}
	}
	if raw, ok := obj["visibility"]; ok && isObject(raw) {
		var vis RawVisibility
		if err := json.Unmarshal(raw, &vis); err == nil {
			f.Visibility = &vis
		}
	}
	if raw, ok := obj["validation"]; ok && isObject(raw) {
		var rules RawValidation
		if err := json.Unmarshal(raw, &rules); err == nil {
			f.Validation = &rules
		}
	}
	if raw, ok := obj["dynamicOptions"]; ok && isObject(raw) {
		var dyn RawDynamicOptions
		if err := json.Unmarshal(raw, &dyn); err == nil {
			f.DynamicOptions = &dyn
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A missing value key sets
// ValueUnset, which is distinct from an explicit null.
func (v *RawVisibility) UnmarshalJSON(data []byte) error {
	*v = RawVisibility{}
	obj, ok := object(data)
	if !ok {
		return nil
	}
	v.DependsOn = text(obj["dependsOn"])
	v.Condition = text(obj["condition"])
	raw, ok := obj["value"]
	if !ok {
		v.ValueUnset = true
		return nil
	}
	var value any
	if err := json.Unmarshal(raw, &value); err == nil {
		v.Value = value
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Bounds given as numeric strings
// are parsed; bounds that are not numbers are dropped. Length bounds must be
// whole numbers.
func (v *RawValidation) UnmarshalJSON(data []byte) error {
	*v = RawValidation{}
	obj, ok := object(data)
	if !ok {
		return nil
	}
	v.Pattern = text(obj["pattern"])
	v.Min = bound(obj["min"])
	v.Max = bound(obj["max"])
	v.MinLength = length(obj["minLength"])
	v.MaxLength = length(obj["maxLength"])
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *RawDynamicOptions) UnmarshalJSON(data []byte) error {
	*d = RawDynamicOptions{}
	obj, ok := object(data)
	if !ok {
		return nil
	}
	d.DependsOn = text(obj["dependsOn"])
	d.Endpoint = text(obj["endpoint"])
	d.Method = text(obj["method"])
	return nil
}

// rawFields decodes a list of field objects. Entries that are not objects
// are skipped; a non-list yields nil.
func rawFields(raw json.RawMessage) []RawField {
	if !isList(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]RawField, 0, len(items))
	for _, item := range items {
		if !isObject(item) {
			continue
		}
		var field RawField
		if err := json.Unmarshal(item, &field); err != nil {
			continue
		}
		out = append(out, field)
	}
	return out
}

func object(data []byte) (map[string]json.RawMessage, bool) {
	if !isObject(data) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isList(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// text reads a scalar as a string. Objects, lists, and null read as empty.
func text(raw json.RawMessage) string {
	if isObject(raw) || isList(raw) {
		return ""
	}
	return scalarString(raw)
}

// truthy applies browser truthiness to a scalar.
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return false
	}
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return true
	}
}

func number(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}
	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func bound(raw json.RawMessage) *float64 {
	n, ok := number(raw)
	if !ok {
		return nil
	}
	return &n
}

func length(raw json.RawMessage) *int {
	n, ok := number(raw)
	if !ok || n != math.Trunc(n) || n < 0 || n > math.MaxInt32 {
		return nil
	}
	i := int(n)
	return &i
}
