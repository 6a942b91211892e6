package model

// Fields returns every field reachable in the structure, in section order.
func (s FormStructure) Fields() []Field {
	var out []Field
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// FieldIDs returns the ids of every reachable field, in section order.
func (s FormStructure) FieldIDs() []string {
	var ids []string
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			ids = append(ids, field.ID)
		}
	}
	return ids
}

// Field looks up a field by id across all sections.
func (s FormStructure) Field(id string) (Field, bool) {
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// HasField reports whether a field with the given id exists.
func (s FormStructure) HasField(id string) bool {
	_, ok := s.Field(id)
	return ok
}

// Dependents returns the fields whose dynamic options are driven by fieldID.
func (s FormStructure) Dependents(fieldID string) []Field {
	var out []Field
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.DynamicOptions != nil && field.DynamicOptions.DependsOn == fieldID {
				out = append(out, field)
			}
		}
	}
	return out
}

// EmptyValues returns a fresh value map with every reachable field set to the
// empty string.
func (s FormStructure) EmptyValues() Values {
	values := make(Values)
	for _, id := range s.FieldIDs() {
		values[id] = ""
	}
	return values
}

// WithFieldOptions returns a copy of the structure where the field identified
// by id carries the supplied options. The receiver is left untouched and the
// copy shares no slices with it. Unknown ids return an unchanged copy.
func (s FormStructure) WithFieldOptions(id string, options []Option) FormStructure {
	out := s.Clone()
	for si := range out.Sections {
		for fi := range out.Sections[si].Fields {
			if out.Sections[si].Fields[fi].ID == id {
				out.Sections[si].Fields[fi].Options = cloneOptions(options)
			}
		}
	}
	return out
}

// Clone deep copies the structure.
func (s FormStructure) Clone() FormStructure {
	out := s
	if s.Sections == nil {
		return out
	}
	out.Sections = make([]Section, len(s.Sections))
	for i, section := range s.Sections {
		out.Sections[i] = section.Clone()
	}
	return out
}

// Clone deep copies the section.
func (s Section) Clone() Section {
	out := s
	out.DependsOn = s.DependsOn.Clone()
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
		for i, field := range s.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Clone deep copies the field.
func (f Field) Clone() Field {
	out := f
	out.Options = cloneOptions(f.Options)
	out.DependsOn = f.DependsOn.Clone()
	out.Validation = f.Validation.Clone()
	if f.DynamicOptions != nil {
		dyn := *f.DynamicOptions
		out.DynamicOptions = &dyn
	}
	return out
}

// Clone copies the predicate. Nil stays nil.
func (p *Predicate) Clone() *Predicate {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// Clone copies the rule set so pointer bounds are not shared.
func (v Validation) Clone() Validation {
	out := v
	if v.Min != nil {
		min := *v.Min
		out.Min = &min
	}
	if v.Max != nil {
		max := *v.Max
		out.Max = &max
	}
	if v.MinLength != nil {
		n := *v.MinLength
		out.MinLength = &n
	}
	if v.MaxLength != nil {
		n := *v.MaxLength
		out.MaxLength = &n
	}
	return out
}

// Clone returns a shallow copy of the value map. Values are scalars so a
// shallow copy is sufficient.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

func cloneOptions(options []Option) []Option {
	if options == nil {
		return nil
	}
	return append([]Option{}, options...)
}
