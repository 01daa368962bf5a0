package formsubmit

import (
	"context"

	"github.com/goliatone/go-formsubmit/internal/httpclient"
	"github.com/goliatone/go-formsubmit/internal/imaging"
	"github.com/goliatone/go-formsubmit/pkg/attachment"
	"github.com/goliatone/go-formsubmit/pkg/backend"
	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/submit"
	"github.com/goliatone/go-formsubmit/pkg/widget"
)

// Description aliases the declarative form description fetched from the
// backend; exported via the root package for convenience.
type Description = form.Description

// FieldSpec describes one orderable form field.
type FieldSpec = form.FieldSpec

// File is a candidate attachment.
type File = attachment.File

// Hooks are the host-facing submission callbacks.
type Hooks = submit.Hooks

// Result is the terminal outcome of one submission attempt.
type Result = submit.Result

// NewClient constructs the HTTP backend client for callers that manage their
// own pipelines.
func NewClient(baseURL string) (backend.Client, error) {
	return httpclient.New(baseURL)
}

// Form couples a fetched description with its submission pipeline. It is the
// simplest entry point for callers that just want to load and submit.
type Form struct {
	client   backend.Client
	pipeline *submit.Pipeline
}

// Load fetches the named form from the backend and wires a ready-to-use
// pipeline around it, including the built-in image compressor.
func Load(ctx context.Context, baseURL, formName string, options ...submit.Option) (*Form, error) {
	client, err := httpclient.New(baseURL)
	if err != nil {
		return nil, err
	}
	desc, err := client.FetchForm(ctx, formName)
	if err != nil {
		return nil, err
	}
	return Connect(client, desc, options...), nil
}

// Connect wires a pipeline around a pre-fetched description and an existing
// transport, for callers that customise either.
func Connect(client backend.Client, desc *form.Description, options ...submit.Option) *Form {
	opts := make([]submit.Option, 0, len(options)+1)
	opts = append(opts, submit.WithOptimizer(attachment.NewOptimizer(imaging.New())))
	opts = append(opts, options...)
	return &Form{
		client:   client,
		pipeline: submit.New(client, desc, opts...),
	}
}

// Description returns the current form description.
func (f *Form) Description() *form.Description {
	return f.pipeline.Description()
}

// Pipeline exposes the underlying submission pipeline.
func (f *Form) Pipeline() *submit.Pipeline {
	return f.pipeline
}

// NotifyLoaded fires the OnLoad hook once the host's rendering is ready.
func (f *Form) NotifyLoaded() {
	f.pipeline.NotifyLoaded()
}

// Submit runs one submission attempt with the collected values and optional
// attachment.
func (f *Form) Submit(ctx context.Context, values map[string]string, file *attachment.File) (*submit.Result, error) {
	return f.pipeline.Submit(ctx, values, file)
}

// Widget builds the embeddable HTML front end over this form's pipeline.
func (f *Form) Widget(options ...widget.Option) (*widget.Widget, error) {
	return widget.New(f.pipeline, options...)
}
