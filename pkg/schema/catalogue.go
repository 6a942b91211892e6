package schema

import "strings"

// Catalogue is the list of forms returned by the schema source.
type Catalogue []RawForm

// Lookup returns the entry whose formId matches id.
func (c Catalogue) Lookup(id string) (RawForm, bool) {
	if id == "" {
		return RawForm{}, false
	}
	for _, form := range c {
		if form.FormID == id {
			return form, true
		}
	}
	return RawForm{}, false
}

// FormIDs lists the catalogue identifiers in order.
func (c Catalogue) FormIDs() []string {
	ids := make([]string, 0, len(c))
	for _, form := range c {
		ids = append(ids, form.FormID)
	}
	return ids
}

var formTypeIDs = map[string]string{
	"health": "health_insurance_application",
	"home":   "home_insurance_application",
	"car":    "car_insurance_application",
}

// FormIDFor maps a requested form type onto the catalogue id the forms API
// publishes it under. Unknown types report false.
func FormIDFor(formType string) (string, bool) {
	id, ok := formTypeIDs[strings.TrimSpace(formType)]
	return id, ok
}

// FormTypes lists the form types with a catalogue mapping, sorted.
func FormTypes() []string {
	return []string{"car", "health", "home"}
}
