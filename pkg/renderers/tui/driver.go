package tui

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a free-text answer for text-like fields and for
// choice fields that have no options yet.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// ConfirmConfig configures a checkbox or switch answer.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a select or radio answer. DefaultIndex is -1 when
// the stored value matches no option.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// TextAreaConfig configures a textarea answer.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver collects one answer per call. The renderer owns the field
// order, validation and all other terminal output.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
}

// surveyDriver answers prompts on the process terminal.
type surveyDriver struct{}

func (surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	err := askOne(ctx, &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, &answer)
	return answer, err
}

func (surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := askOne(ctx, &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, &answer)
	return answer, err
}

func (surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.DefaultIndex
	}
	var answer int
	err := askOne(ctx, prompt, &answer)
	return answer, err
}

func (surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var answer string
	err := askOne(ctx, &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, &answer)
	return answer, err
}

// askOne maps Ctrl+C to ErrAborted so the caller can keep a draft.
func askOne(ctx context.Context, prompt survey.Prompt, answer any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := survey.AskOne(prompt, answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}
