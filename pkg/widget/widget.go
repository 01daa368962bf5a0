package widget

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/internal/template"
	"github.com/goliatone/go-formsubmit/pkg/attachment"
	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/submit"
)

// DefaultHoneypotField is the name of the hidden trap input rendered into
// every form. Bots that fill it are dropped before any network traffic.
const DefaultHoneypotField = "wtc_website"

// DefaultSuccessText is shown when the description carries none.
const DefaultSuccessText = "Thank you. Your submission has been received."

// Widget renders one form and funnels its submissions through the pipeline.
type Widget struct {
	pipeline *submit.Pipeline
	engine   *template.Engine
	log      zerolog.Logger
	honeypot string
}

// Option customises a Widget.
type Option func(*settings)

type settings struct {
	templates fs.FS
	log       zerolog.Logger
	honeypot  string
}

// WithTemplates replaces the embedded template bundle.
func WithTemplates(files fs.FS) Option {
	return func(s *settings) {
		if files != nil {
			s.templates = files
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithHoneypotField renames the hidden trap input.
func WithHoneypotField(name string) Option {
	return func(s *settings) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.honeypot = trimmed
		}
	}
}

// New constructs a Widget over an existing pipeline.
func New(pipeline *submit.Pipeline, options ...Option) (*Widget, error) {
	if pipeline == nil {
		return nil, errors.New("widget: pipeline is required")
	}

	cfg := &settings{
		templates: TemplatesFS(),
		log:       zerolog.Nop(),
		honeypot:  DefaultHoneypotField,
	}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	engine, err := template.New(cfg.templates)
	if err != nil {
		return nil, err
	}

	return &Widget{
		pipeline: pipeline,
		engine:   engine,
		log:      cfg.log.With().Str("component", "widget").Logger(),
		honeypot: cfg.honeypot,
	}, nil
}

// Pipeline exposes the shared submission pipeline for host wiring.
func (w *Widget) Pipeline() *submit.Pipeline { return w.pipeline }

// RenderHTML renders the form markup for the current description and fires
// the OnLoad hook. Server-supplied display text is sanitized on the way out.
func (w *Widget) RenderHTML(out ...io.Writer) (string, error) {
	desc := w.pipeline.Description()

	fields := make([]map[string]any, 0, len(desc.Fields))
	for _, field := range desc.Fields {
		fields = append(fields, map[string]any{
			"name":       field.Name,
			"label":      sanitizeDisplayText(field.Label),
			"kind":       string(field.Kind),
			"required":   field.Required,
			"input_type": inputType(field.Kind),
		})
	}

	rendered, err := w.engine.Render("form", map[string]any{
		"id":              desc.ID,
		"name":            desc.Name,
		"title":           sanitizeDisplayText(desc.Title),
		"intro":           sanitizeDisplayText(desc.Intro),
		"fields":          fields,
		"file_upload":     desc.FileUpload.Enabled,
		"honeypot":        w.honeypot,
		"captcha":         desc.CaptchaRequired(),
		"site_key":        desc.Captcha.SiteKey,
		"captcha_variant": string(desc.Captcha.Variant),
	}, out...)
	if err != nil {
		return "", err
	}

	w.pipeline.NotifyLoaded()
	return rendered, nil
}

// RenderSuccess renders the post-submission confirmation, including any
// attachment warning carried by the result.
func (w *Widget) RenderSuccess(result *submit.Result, out ...io.Writer) (string, error) {
	text := sanitizeDisplayText(w.pipeline.Description().SuccessText)
	if text == "" {
		text = DefaultSuccessText
	}
	return w.engine.Render("success", map[string]any{
		"success_text":  text,
		"record_number": result.RecordNumber,
		"warning":       result.Warning,
	}, out...)
}

// Submit runs one submission from the rendered markup. A filled honeypot is
// dropped silently: the caller sees a success so automated senders learn
// nothing, and no network traffic happens.
func (w *Widget) Submit(ctx context.Context, values map[string]string, file *attachment.File) (*submit.Result, error) {
	if strings.TrimSpace(values[w.honeypot]) != "" {
		w.log.Debug().Str("form", w.pipeline.Description().Name).Msg("honeypot tripped, dropping submission")
		return &submit.Result{State: submit.StateSucceeded}, nil
	}

	cleaned := make(map[string]string, len(values))
	for name, value := range values {
		if name == w.honeypot {
			continue
		}
		cleaned[name] = value
	}
	return w.pipeline.Submit(ctx, cleaned, file)
}

// ResultMessage maps a terminal result onto the host-page message for iframe
// embeddings.
func (w *Widget) ResultMessage(result *submit.Result) Message {
	if result.Succeeded() {
		return Success(result.RecordNumber)
	}
	return Failure(result.Message)
}

func inputType(kind form.FieldKind) string {
	switch kind {
	case form.FieldKindEmail:
		return "email"
	case form.FieldKindPhone:
		return "tel"
	default:
		return "text"
	}
}
