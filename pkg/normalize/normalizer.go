package normalize

import (
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/schema"
)

const (
	// GeneralSectionID is the reserved id for the section collecting
	// ungrouped fields.
	GeneralSectionID = "general"
	// GeneralSectionTitle is the title given to the synthesized section.
	GeneralSectionTitle = "General Information"
)

// Sanitizer cleans display text coming from the schema. *bluemonday.Policy
// satisfies it.
type Sanitizer interface {
	Sanitize(string) string
}

// Option customises a Normalizer.
type Option func(*Normalizer)

// WithSanitizer runs labels, titles, placeholders, and descriptions through
// the sanitizer. Ids, option values, and validation rules are never touched.
func WithSanitizer(s Sanitizer) Option {
	return func(n *Normalizer) {
		n.sanitizer = s
	}
}

// Normalizer transforms raw forms into canonical structures.
type Normalizer struct {
	sanitizer Sanitizer
}

// New constructs a Normalizer. Without options text passes through verbatim.
func New(options ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(n)
	}
	return n
}

// Normalize converts a raw form using the default Normalizer.
func Normalize(form schema.RawForm, requestedType string) model.FormStructure {
	return New().Normalize(form, requestedType)
}

// Normalize converts form into a canonical structure tagged with
// requestedType.
func (n *Normalizer) Normalize(form schema.RawForm, requestedType string) model.FormStructure {
	structure := model.FormStructure{
		ID:       form.FormID,
		Title:    n.text(form.Title),
		Type:     requestedType,
		Sections: []model.Section{},
	}

	for _, raw := range form.Fields {
		if raw.IsGroup() {
			if i := sectionIndex(structure.Sections, raw.ID); i >= 0 {
				section := &structure.Sections[i]
				section.Fields = append(section.Fields, n.fields(raw.Fields)...)
				continue
			}
			structure.Sections = append(structure.Sections, model.Section{
				ID:        raw.ID,
				Title:     n.text(raw.Label),
				Fields:    n.fields(raw.Fields),
				DependsOn: predicate(raw.Visibility),
			})
			continue
		}

		general := sectionIndex(structure.Sections, GeneralSectionID)
		if general < 0 {
			structure.Sections = append(structure.Sections, model.Section{
				ID:     GeneralSectionID,
				Title:  GeneralSectionTitle,
				Fields: []model.Field{},
			})
			general = len(structure.Sections) - 1
		}
		section := &structure.Sections[general]
		section.Fields = append(section.Fields, n.field(raw))
	}

	return structure
}

func (n *Normalizer) fields(raws []schema.RawField) []model.Field {
	out := make([]model.Field, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.field(raw))
	}
	return out
}

func (n *Normalizer) field(raw schema.RawField) model.Field {
	field := model.Field{
		ID:          raw.ID,
		Type:        model.ParseFieldType(raw.Type),
		Label:       n.text(raw.Label),
		Required:    raw.Required,
		Options:     options(raw.Options),
		DependsOn:   predicate(raw.Visibility),
		Placeholder: n.text(raw.Placeholder),
		Description: n.text(raw.Description),
	}
	if !field.Type.Known() {
		field.RawType = raw.Type
	}
	if raw.Validation != nil {
		field.Validation = model.Validation{
			Pattern:   raw.Validation.Pattern,
			Min:       raw.Validation.Min,
			Max:       raw.Validation.Max,
			MinLength: raw.Validation.MinLength,
			MaxLength: raw.Validation.MaxLength,
		}.Clone()
	}
	if raw.DynamicOptions != nil {
		field.DynamicOptions = &model.DynamicOptions{
			DependsOn: raw.DynamicOptions.DependsOn,
			Endpoint:  raw.DynamicOptions.Endpoint,
			Method:    raw.DynamicOptions.Method,
		}
	}
	return field
}

func options(raw *schema.RawOptions) []model.Option {
	if raw == nil {
		return nil
	}
	if raw.Shape == schema.OptionShapeStrings {
		out := make([]model.Option, 0, len(raw.Strings))
		for _, value := range raw.Strings {
			out = append(out, model.Option{Label: value, Value: value})
		}
		return out
	}
	out := make([]model.Option, 0, len(raw.Pairs))
	for _, pair := range raw.Pairs {
		out = append(out, model.Option{Label: pair.Label, Value: pair.Value})
	}
	return out
}

// predicate drops the condition operator from evaluation; only equality is
// ever applied downstream.
func predicate(raw *schema.RawVisibility) *model.Predicate {
	if raw == nil {
		return nil
	}
	return &model.Predicate{
		Field:      raw.DependsOn,
		Value:      raw.Value,
		Condition:  strings.TrimSpace(raw.Condition),
		ValueUnset: raw.ValueUnset,
	}
}

func (n *Normalizer) text(value string) string {
	if n == nil || n.sanitizer == nil || value == "" {
		return value
	}
	return n.sanitizer.Sanitize(value)
}

// sectionIndex returns the position of the section with id, or -1.
func sectionIndex(sections []model.Section, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}
