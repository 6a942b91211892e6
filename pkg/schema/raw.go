package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FieldTypeGroup marks a raw field whose nested fields form their own section.
const FieldTypeGroup = "group"

// RawForm is a single entry of the schema catalogue served by the forms API.
type RawForm struct {
	FormID string     `json:"formId"`
	Title  string     `json:"title"`
	Fields []RawField `json:"fields"`
}

// RawField mirrors the loosely typed field description delivered by the
// server. Options may arrive as a bare string list or as label/value pairs;
// RawOptions records which.
type RawField struct {
	ID             string             `json:"id"`
	Label          string             `json:"label"`
	Type           string             `json:"type"`
	Required       bool               `json:"required,omitempty"`
	Options        *RawOptions        `json:"options,omitempty"`
	Visibility     *RawVisibility     `json:"visibility,omitempty"`
	Validation     *RawValidation     `json:"validation,omitempty"`
	DynamicOptions *RawDynamicOptions `json:"dynamicOptions,omitempty"`
	Fields         []RawField         `json:"fields,omitempty"`
	Placeholder    string             `json:"placeholder,omitempty"`
	Description    string             `json:"description,omitempty"`
}

// IsGroup reports whether the field is a group container.
func (f RawField) IsGroup() bool {
	return f.Type == FieldTypeGroup
}

// RawVisibility is the raw conditional display block. ValueUnset records that
// the block carried no value key at all.
type RawVisibility struct {
	DependsOn  string `json:"dependsOn"`
	Condition  string `json:"condition,omitempty"`
	Value      any    `json:"value"`
	ValueUnset bool   `json:"-"`
}

// RawValidation carries declarative field rules. Nil bounds are absent or
// unusable.
type RawValidation struct {
	Pattern   string   `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
}

// RawDynamicOptions names the remote source for a dependent option list.
type RawDynamicOptions struct {
	DependsOn string `json:"dependsOn"`
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
}

// OptionShape identifies the physical shape options arrived in.
type OptionShape int

const (
	// OptionShapePairs is a list of {label, value} objects.
	OptionShapePairs OptionShape = iota
	// OptionShapeStrings is a bare list of strings.
	OptionShapeStrings
)

// RawPair is a label/value entry as sent by the server.
type RawPair struct {
	Label string
	Value string
}

// RawOptions decodes both option shapes. Shape is decided by the first
// element, matching how the forms API has always been consumed: a leading
// string means every element is treated as a string.
type RawOptions struct {
	Shape   OptionShape
	Strings []string
	Pairs   []RawPair
}

// StringOptions builds a RawOptions value in the bare string shape.
func StringOptions(values ...string) *RawOptions {
	return &RawOptions{Shape: OptionShapeStrings, Strings: append([]string{}, values...)}
}

// PairOptions builds a RawOptions value in the label/value shape.
func PairOptions(pairs ...RawPair) *RawOptions {
	return &RawOptions{Shape: OptionShapePairs, Pairs: append([]RawPair{}, pairs...)}
}

// UnmarshalJSON implements json.Unmarshaler. Input that is not a list decodes
// to empty options.
func (o *RawOptions) UnmarshalJSON(data []byte) error {
	*o = RawOptions{}
	if !isList(data) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	if len(items) > 0 && isJSONString(items[0]) {
		o.Shape = OptionShapeStrings
		o.Strings = make([]string, 0, len(items))
		for _, item := range items {
			o.Strings = append(o.Strings, scalarString(item))
		}
		return nil
	}

	o.Shape = OptionShapePairs
	o.Pairs = make([]RawPair, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			text := scalarString(item)
			o.Pairs = append(o.Pairs, RawPair{Label: text, Value: text})
			continue
		}
		o.Pairs = append(o.Pairs, RawPair{
			Label: scalarString(obj["label"]),
			Value: scalarString(obj["value"]),
		})
	}
	return nil
}

// MarshalJSON writes the options back in the shape they arrived in.
func (o RawOptions) MarshalJSON() ([]byte, error) {
	if o.Shape == OptionShapeStrings {
		if o.Strings == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(o.Strings)
	}
	type pair struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}
	out := make([]pair, 0, len(o.Pairs))
	for _, p := range o.Pairs {
		out = append(out, pair{Label: p.Label, Value: p.Value})
	}
	return json.Marshal(out)
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// scalarString renders a JSON scalar the way a browser would stringify it.
func scalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return string(trimmed)
	}
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return string(trimmed)
	}
}
