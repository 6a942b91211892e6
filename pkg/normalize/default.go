package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formengine/pkg/model"
)

// DefaultSectionID is the id of the single section in the fallback form.
const DefaultSectionID = "personal_info"

// Default returns the minimal structure used when no schema is available for
// requestedType. The result always carries one section of required fields.
func Default(requestedType string) model.FormStructure {
	return model.FormStructure{
		ID:    requestedType + "_insurance_application",
		Title: capitalize(requestedType) + " Insurance Application",
		Type:  requestedType,
		Sections: []model.Section{
			{
				ID:    DefaultSectionID,
				Title: "Personal Information",
				Fields: []model.Field{
					{ID: "first_name", Type: model.FieldTypeText, Label: "First Name", Required: true},
					{ID: "last_name", Type: model.FieldTypeText, Label: "Last Name", Required: true},
					{ID: "email", Type: model.FieldTypeEmail, Label: "Email Address", Required: true},
					{ID: "phone", Type: model.FieldTypeTel, Label: "Phone Number", Required: true},
				},
			},
		},
	}
}

func capitalize(value string) string {
	if value == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(value)
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(first))
	b.WriteString(value[size:])
	return b.String()
}
