// Package tui is a terminal presentation wrapper over a form session. It
// prompts for every visible field in order, re-evaluating visibility after
// each answer, and never submits on its own.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

const noneOption = "(none)"

// Form is the slice of a session the renderer drives. *session.Session
// satisfies it.
type Form interface {
	VisibleSections() []model.Section
	Value(id string) (any, bool)
	Values() model.Values
	Update(fieldID string, value any) error
	Validate() model.ErrorMap
	Wait()
}

// Renderer prompts for form values in a terminal.
type Renderer struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme: Theme{
			SectionPrefix: "== ",
			ErrorPrefix:   "! ",
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = surveyDriver{}
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Encode.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs Fill and encodes the collected values. Callers that already
// hold a value snapshot use Encode instead.
func (r *Renderer) Render(ctx context.Context, form Form) ([]byte, error) {
	values, err := r.Fill(ctx, form)
	if err != nil {
		return nil, err
	}
	return r.Encode(values)
}

// Encode serializes values in the configured output format without
// prompting.
func (r *Renderer) Encode(values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

// Fill prompts until every visible field holds a valid value and returns the
// final value snapshot. Fields revealed by a later answer are prompted when
// they appear.
func (r *Renderer) Fill(ctx context.Context, form Form) (model.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if form == nil {
		return nil, errors.New("tui: form is nil")
	}

	asked := make(map[string]bool)
	announced := make(map[string]bool)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		section, field, ok := nextField(form.VisibleSections(), asked)
		if !ok {
			break
		}
		if !announced[section.ID] {
			announced[section.ID] = true
			if err := r.notify(r.theme.SectionPrefix + section.Title); err != nil {
				return nil, err
			}
		}
		asked[field.ID] = true
		if err := r.promptField(ctx, form, field); err != nil {
			return nil, err
		}
	}

	for {
		errs := form.Validate()
		if len(errs) == 0 {
			return form.Values(), nil
		}
		fields := failing(form.VisibleSections(), errs)
		if len(fields) == 0 {
			return nil, fmt.Errorf("tui: %d validation errors on fields that are not visible", len(errs))
		}
		for _, field := range fields {
			if err := r.notify(r.theme.ErrorPrefix + errs[field.ID]); err != nil {
				return nil, err
			}
			if err := r.promptField(ctx, form, field); err != nil {
				return nil, err
			}
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, form Form, field model.Field) error {
	current, _ := form.Value(field.ID)
	for {
		value, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if msg, ok := validation.ValidateField(field, value); !ok {
			if err := r.notify(r.theme.ErrorPrefix + msg); err != nil {
				return err
			}
			current = value
			continue
		}
		if err := form.Update(field.ID, value); err != nil {
			return err
		}
		form.Wait()
		return nil
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, current any) (any, error) {
	label := displayLabel(field)
	help := displayHelp(field)

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeTel,
		model.FieldTypeNumber, model.FieldTypeDate, model.FieldTypeUnknown:
		return r.driver.Input(ctx, InputConfig{Message: label, Default: defaultString(current), Help: help})
	case model.FieldTypeTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: defaultString(current), Help: help})
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return r.choose(ctx, field, label, help, current)
	case model.FieldTypeCheckbox, model.FieldTypeSwitch:
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current == true, Help: help})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedField, field.Type)
}

// choose falls back to free text when a field has no options yet, which
// happens for dependent fields whose lookup came back empty.
func (r *Renderer) choose(ctx context.Context, field model.Field, label, help string, current any) (any, error) {
	if len(field.Options) == 0 {
		return r.driver.Input(ctx, InputConfig{Message: label, Default: defaultString(current), Help: help})
	}

	labels := make([]string, 0, len(field.Options)+1)
	values := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		labels = append(labels, noneOption)
		values = append(values, "")
	}
	for _, opt := range field.Options {
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      labels,
		DefaultIndex: indexOf(values, defaultString(current)),
		Help:         help,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(values) {
		return nil, fmt.Errorf("tui: selection %d out of range for %s", idx, field.ID)
	}
	return values[idx], nil
}

func nextField(sections []model.Section, asked map[string]bool) (model.Section, model.Field, bool) {
	for _, section := range sections {
		for _, field := range section.Fields {
			if !asked[field.ID] {
				return section, field, true
			}
		}
	}
	return model.Section{}, model.Field{}, false
}

func failing(sections []model.Section, errs model.ErrorMap) []model.Field {
	var out []model.Field
	for _, section := range sections {
		for _, field := range section.Fields {
			if _, ok := errs[field.ID]; ok {
				out = append(out, field)
			}
		}
	}
	return out
}

// notify prints a section banner or a validation message between prompts.
func (r *Renderer) notify(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}

func displayLabel(field model.Field) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func displayHelp(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	if field.Placeholder != "" {
		return "e.g. " + field.Placeholder
	}
	return ""
}

func defaultString(value any) string {
	if value == nil || value == "" {
		return ""
	}
	return model.Stringify(value)
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func flattenForm(values model.Values) string {
	flattened := url.Values{}
	for key, value := range values {
		flattened.Set(key, model.Stringify(value))
	}
	return flattened.Encode()
}

func prettyPrint(values model.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, model.Stringify(values[key]))
	}
	return b.String()
}
