package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formsubmit/pkg/form"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("formsubmit: aborted by user")

// InputConfig configures a single-line prompt.
type InputConfig struct {
	Message   string
	Help      string
	Validator func(string) error
}

// PromptDriver abstracts the terminal so collection logic can be tested
// without one.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	TextArea(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, message string) (bool, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct{}

func newSurveyDriver() PromptDriver {
	return &surveyDriver{}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
	}
	if err := survey.AskOne(prompt, &out, askOptions(cfg.Validator)...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{
		Message: cfg.Message,
		Help:    cfg.Help,
	}
	if err := survey.AskOne(prompt, &out, askOptions(cfg.Validator)...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(os.Stdout, msg)
	return err
}

func askOptions(validator func(string) error) []survey.AskOpt {
	if validator == nil {
		return nil
	}
	return []survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
		value, _ := ans.(string)
		return validator(value)
	})}
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// collectValues prompts for every field in description order, enforcing the
// same required and shape rules the pipeline will re-check.
func collectValues(ctx context.Context, driver PromptDriver, fields []form.FieldSpec) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		cfg := InputConfig{
			Message:   field.Label,
			Validator: fieldValidator(field),
		}
		if field.Required {
			cfg.Help = "required"
		}

		var (
			value string
			err   error
		)
		if field.Kind == form.FieldKindTextarea {
			value, err = driver.TextArea(ctx, cfg)
		} else {
			value, err = driver.Input(ctx, cfg)
		}
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

func fieldValidator(field form.FieldSpec) func(string) error {
	return func(value string) error {
		if errs := form.Validate(map[string]string{field.Name: value}, []form.FieldSpec{field}); len(errs) > 0 {
			return errors.New(errs[0].Message)
		}
		return nil
	}
}
