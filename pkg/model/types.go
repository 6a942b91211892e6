package model

// FieldType is the closed set of input kinds the engine understands. Raw type
// strings outside this set resolve to FieldTypeUnknown; the original string is
// preserved on Field.RawType.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeSwitch   FieldType = "switch"
	FieldTypeUnknown  FieldType = "unknown"
)

// FieldTypes lists the recognised field types in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeTel,
		FieldTypeNumber,
		FieldTypeTextarea,
		FieldTypeDate,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeSwitch,
	}
}

// ParseFieldType maps a raw type string onto the enumeration. Matching is
// exact; anything unrecognised yields FieldTypeUnknown.
func ParseFieldType(raw string) FieldType {
	for _, candidate := range FieldTypes() {
		if string(candidate) == raw {
			return candidate
		}
	}
	return FieldTypeUnknown
}

// Known reports whether the type is one of the recognised variants.
func (t FieldType) Known() bool {
	return t != FieldTypeUnknown && ParseFieldType(string(t)) == t
}

// Option is a single selectable entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Predicate gates visibility on a single field equality check. Condition is
// carried from the raw schema for diagnostics only; evaluation is always
// equality. ValueUnset marks a predicate declared without a value, which only
// matches a field that has no stored value either.
type Predicate struct {
	Field      string `json:"field"`
	Value      any    `json:"value"`
	Condition  string `json:"-"`
	ValueUnset bool   `json:"-"`
}

// Validation holds the declarative per-field rules. Nil pointers mean the rule
// is absent.
type Validation struct {
	Pattern   string   `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
}

// Empty reports whether no rule is configured.
func (v Validation) Empty() bool {
	return v.Pattern == "" && v.Min == nil && v.Max == nil && v.MinLength == nil && v.MaxLength == nil
}

// DynamicOptions describes where a field fetches its options from when the
// field it depends on changes.
type DynamicOptions struct {
	DependsOn string `json:"dependsOn"`
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
}

// Field is a canonical form input.
type Field struct {
	ID             string          `json:"id"`
	Type           FieldType       `json:"type"`
	RawType        string          `json:"rawType,omitempty"`
	Label          string          `json:"label"`
	Required       bool            `json:"required"`
	Options        []Option        `json:"options,omitempty"`
	DependsOn      *Predicate      `json:"dependsOn,omitempty"`
	Validation     Validation      `json:"validation"`
	DynamicOptions *DynamicOptions `json:"dynamicOptions,omitempty"`
	Placeholder    string          `json:"placeholder,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// Section groups fields under a title.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Fields    []Field    `json:"fields"`
	DependsOn *Predicate `json:"dependsOn,omitempty"`
}

// FormStructure is the canonical, render-agnostic form description.
type FormStructure struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	Sections []Section `json:"sections"`
}

// Values maps field ids to their current value. Values are untyped: string,
// float64, bool, or nil.
type Values map[string]any

// ErrorMap maps field ids to a human readable validation message. An empty map
// means the form is valid.
type ErrorMap map[string]string

// Submission is the body posted to the submission sink.
type Submission struct {
	FormID   string `json:"formId"`
	FormType string `json:"formType"`
	Values   Values `json:"values"`
}
