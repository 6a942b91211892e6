package normalize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/normalize"
	"github.com/goliatone/go-formengine/pkg/schema"
)

func loadForm(t *testing.T, id string) schema.RawForm {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "forms.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	catalogue, err := schema.DecodeCatalogue(data)
	if err != nil {
		t.Fatalf("decode catalogue: %v", err)
	}
	form, ok := catalogue.Lookup(id)
	if !ok {
		t.Fatalf("form %q not in fixture", id)
	}
	return form
}

func floatPtr(v float64) *float64 { return &v }

func TestNormalize_Fixture(t *testing.T) {
	form := loadForm(t, "health_insurance_application")

	got := normalize.Normalize(form, "health")

	want := model.FormStructure{
		ID:    "health_insurance_application",
		Title: "Health Insurance Application",
		Type:  "health",
		Sections: []model.Section{
			{
				ID:    normalize.GeneralSectionID,
				Title: normalize.GeneralSectionTitle,
				Fields: []model.Field{
					{ID: "full_name", Type: model.FieldTypeText, Label: "Full Name", Required: true, Placeholder: "Jane Doe"},
					{ID: "state", Type: model.FieldTypeSelect, Label: "State", Options: []model.Option{{Label: "CA", Value: "CA"}, {Label: "NY", Value: "NY"}}},
					{
						ID:    "city",
						Type:  model.FieldTypeSelect,
						Label: "City",
						DynamicOptions: &model.DynamicOptions{
							DependsOn: "state",
							Endpoint:  "/api/cities",
							Method:    "GET",
						},
					},
				},
			},
			{
				ID:    "coverage",
				Title: "Coverage Details",
				Fields: []model.Field{
					{ID: "plan", Type: model.FieldTypeSelect, Label: "Plan", Required: true, Options: []model.Option{{Label: "Basic", Value: "Basic"}, {Label: "Premium", Value: "Premium"}}},
					{ID: "smoker", Type: model.FieldTypeRadio, Label: "Smoker", Options: []model.Option{{Label: "Yes", Value: "yes"}, {Label: "No", Value: "no"}}},
					{
						ID:         "packs",
						Type:       model.FieldTypeNumber,
						Label:      "Packs per day",
						DependsOn:  &model.Predicate{Field: "smoker", Value: "yes", Condition: "equals"},
						Validation: model.Validation{Min: floatPtr(1), Max: floatPtr(10)},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized structure mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_StringOptionsBecomePairs(t *testing.T) {
	values := []string{"a", "b", "c"}
	form := schema.RawForm{
		FormID: "f",
		Fields: []schema.RawField{{ID: "x", Type: "select", Label: "X", Options: schema.StringOptions(values...)}},
	}

	got := normalize.Normalize(form, "health").Sections[0].Fields[0].Options

	want := make([]model.Option, 0, len(values))
	for _, v := range values {
		want = append(want, model.Option{Label: v, Value: v})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_PairOptionsPassThrough(t *testing.T) {
	pairs := []schema.RawPair{{Label: "One", Value: "1"}, {Label: "Two", Value: "2"}}
	form := schema.RawForm{
		FormID: "f",
		Fields: []schema.RawField{{ID: "x", Type: "radio", Label: "X", Options: schema.PairOptions(pairs...)}},
	}

	got := normalize.Normalize(form, "home").Sections[0].Fields[0].Options

	want := []model.Option{{Label: "One", Value: "1"}, {Label: "Two", Value: "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_SectionSynthesis(t *testing.T) {
	form := schema.RawForm{
		FormID: "f",
		Fields: []schema.RawField{
			{ID: "a", Type: "text", Label: "A"},
			{ID: "grp", Type: schema.FieldTypeGroup, Label: "Group", Fields: []schema.RawField{{ID: "c", Type: "text", Label: "C"}}},
			{ID: "b", Type: "text", Label: "B"},
		},
	}

	got := normalize.Normalize(form, "car")

	if len(got.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got.Sections))
	}
	general := got.Sections[0]
	if general.ID != normalize.GeneralSectionID {
		t.Fatalf("expected general section first, got %q", general.ID)
	}
	var ids []string
	for _, f := range general.Fields {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Fatalf("general section fields mismatch (-want +got):\n%s", diff)
	}
	if got.Sections[1].ID != "grp" || got.Sections[1].Title != "Group" {
		t.Fatalf("unexpected group section %#v", got.Sections[1])
	}
}

func TestNormalize_GeneralSectionPositionedAtFirstUngroupedField(t *testing.T) {
	form := schema.RawForm{
		FormID: "f",
		Fields: []schema.RawField{
			{ID: "grp", Type: schema.FieldTypeGroup, Label: "Group"},
			{ID: "a", Type: "text", Label: "A"},
		},
	}

	got := normalize.Normalize(form, "car")
	if len(got.Sections) != 2 || got.Sections[1].ID != normalize.GeneralSectionID {
		t.Fatalf("expected general section second, got %#v", got.Sections)
	}
}

func TestNormalize_GroupNamedGeneralCollectsUngroupedFields(t *testing.T) {
	form := schema.RawForm{
		FormID: "f",
		Fields: []schema.RawField{
			{ID: normalize.GeneralSectionID, Type: schema.FieldTypeGroup, Label: "About you", Fields: []schema.RawField{{ID: "a", Type: "text", Label: "A"}}},
			{ID: "b", Type: "text", Label: "B"},
			{ID: "grp", Type: schema.FieldTypeGroup, Label: "Group", Fields: []schema.RawField{{ID: "c", Type: "text", Label: "C"}}},
			{ID: "grp", Type: schema.FieldTypeGroup, Label: "Again", Fields: []schema.RawField{{ID: "d", Type: "text", Label: "D"}}},
		},
	}

	got := normalize.Normalize(form, "car")

	var layout [][]string
	for _, section := range got.Sections {
		ids := []string{section.ID}
		for _, f := range section.Fields {
			ids = append(ids, f.ID)
		}
		layout = append(layout, ids)
	}
	want := [][]string{{"general", "a", "b"}, {"grp", "c", "d"}}
	if diff := cmp.Diff(want, layout); diff != "" {
		t.Fatalf("section layout mismatch (-want +got):\n%s", diff)
	}
	if got.Sections[0].Title != "About you" {
		t.Fatalf("expected group title to be kept, got %q", got.Sections[0].Title)
	}
}

func TestNormalize_GroupVisibilityGatesSection(t *testing.T) {
	form := schema.RawForm{
		FormID: "f",
		Fields: []schema.RawField{
			{ID: "owner", Type: "switch", Label: "Owner"},
			{
				ID:         "property",
				Type:       schema.FieldTypeGroup,
				Label:      "Property",
				Visibility: &schema.RawVisibility{DependsOn: "owner", Condition: "equals", Value: true},
				Fields:     []schema.RawField{{ID: "sqft", Type: "number", Label: "Square feet"}},
			},
		},
	}

	got := normalize.Normalize(form, "home")
	want := &model.Predicate{Field: "owner", Value: true, Condition: "equals"}
	if diff := cmp.Diff(want, got.Sections[1].DependsOn); diff != "" {
		t.Fatalf("section predicate mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_UnknownTypeFallsBack(t *testing.T) {
	form := schema.RawForm{
		FormID: "f",
		Fields: []schema.RawField{{ID: "sig", Type: "signature", Label: "Signature"}},
	}

	field := normalize.Normalize(form, "car").Sections[0].Fields[0]
	if field.Type != model.FieldTypeUnknown {
		t.Fatalf("expected unknown type, got %q", field.Type)
	}
	if field.RawType != "signature" {
		t.Fatalf("expected raw type preserved, got %q", field.RawType)
	}
}

func TestNormalize_Sanitizer(t *testing.T) {
	form := schema.RawForm{
		FormID: "f",
		Title:  "<b>Quote</b>",
		Fields: []schema.RawField{{ID: "x", Type: "text", Label: "Name <script>alert(1)</script>", Description: "Tom &amp; Jerry"}},
	}

	got := normalize.New(normalize.WithSanitizer(normalize.StripMarkup())).Normalize(form, "home")

	if got.Title != "Quote" {
		t.Fatalf("title = %q, want %q", got.Title, "Quote")
	}
	field := got.Sections[0].Fields[0]
	if field.Label != "Name " {
		t.Fatalf("label = %q, want %q", field.Label, "Name ")
	}
	if field.Description != "Tom & Jerry" {
		t.Fatalf("description = %q, want %q", field.Description, "Tom & Jerry")
	}
	if field.ID != "x" {
		t.Fatalf("id must not be sanitized, got %q", field.ID)
	}
}

func TestDefault_AlwaysHasRequiredFields(t *testing.T) {
	for _, formType := range []string{"health", "pet", ""} {
		got := normalize.Default(formType)
		if len(got.Sections) == 0 {
			t.Fatalf("%q: expected at least one section", formType)
		}
		required := 0
		for _, f := range got.Fields() {
			if f.Required {
				required++
			}
		}
		if required == 0 {
			t.Fatalf("%q: expected required fields", formType)
		}
		if len(got.EmptyValues()) == 0 {
			t.Fatalf("%q: expected non-empty initial values", formType)
		}
		if got.Type != formType {
			t.Fatalf("type = %q, want %q", got.Type, formType)
		}
	}

	pet := normalize.Default("pet")
	if pet.ID != "pet_insurance_application" || pet.Title != "Pet Insurance Application" {
		t.Fatalf("unexpected default identity %q / %q", pet.ID, pet.Title)
	}
	if diff := cmp.Diff([]string{"first_name", "last_name", "email", "phone"}, pet.FieldIDs()); diff != "" {
		t.Fatalf("default field ids mismatch (-want +got):\n%s", diff)
	}
}
