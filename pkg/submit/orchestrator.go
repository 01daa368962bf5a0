package submit

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/attachment"
	"github.com/goliatone/go-formsubmit/pkg/backend"
	"github.com/goliatone/go-formsubmit/pkg/captcha"
	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/transfer"
)

// ErrSubmissionInFlight rejects a Submit call while a previous attempt on the
// same pipeline has not reached a terminal state. Front ends disable their
// submit control for the duration; this guard backs that up.
var ErrSubmissionInFlight = errors.New("submit: a submission is already in flight")

// Hooks are the host-facing callbacks. Each fires at most once per terminal
// outcome per submission attempt.
type Hooks struct {
	OnLoad    func(desc *form.Description)
	OnSuccess func(recordNumber string)
	OnError   func(message string)
}

// Result is the terminal outcome of one submission attempt.
type Result struct {
	State        State
	RecordNumber string
	// Warning is set on success when the attachment did not complete. The
	// record exists regardless.
	Warning string
	// FieldErrors carry local validation failures for display.
	FieldErrors []form.FieldError
	Failure     FailureKind
	Message     string
}

// Succeeded reports whether the record was created.
func (r *Result) Succeeded() bool { return r.State == StateSucceeded }

// attempt is the transient per-click state. Created fresh on every Submit and
// never reused across attempts.
type attempt struct {
	values  map[string]string
	file    *attachment.File
	token   string
	retried bool
}

// Pipeline is the one stateful object per form: it owns the current
// description (and its nonce) and runs submission attempts through the state
// machine. Construct once per form instance and share between front ends by
// composition.
type Pipeline struct {
	client    backend.Client
	provider  captcha.Provider
	optimizer *attachment.Optimizer
	uploader  *transfer.Uploader
	poller    *transfer.Poller
	hooks     Hooks
	log       zerolog.Logger

	mu     sync.Mutex
	desc   *form.Description
	state  State
	active bool
}

// New constructs a Pipeline for the fetched description. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(client backend.Client, desc *form.Description, options ...Option) *Pipeline {
	p := &Pipeline{
		client:   client,
		provider: captcha.Disabled{},
		desc:     desc,
		state:    StateIdle,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.optimizer == nil {
		p.optimizer = attachment.NewOptimizer(nil)
	}
	if p.uploader == nil {
		p.uploader = transfer.NewUploader(client)
	}
	if p.poller == nil {
		p.poller = transfer.NewPoller(client)
	}
	return p
}

// Description returns the current form description. The value is immutable;
// a nonce refresh replaces it wholesale.
func (p *Pipeline) Description() *form.Description {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desc
}

// State returns the current stage of the in-flight attempt, or the terminal
// state of the last one.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// NotifyLoaded fires the OnLoad hook. Front ends call it once their form is
// ready for input.
func (p *Pipeline) NotifyLoaded() {
	if p.hooks.OnLoad != nil {
		p.hooks.OnLoad(p.Description())
	}
}

// Submit runs one submission attempt. The returned Result is always non-nil
// for terminal outcomes; the error return is reserved for attempts that
// could not run at all (a previous attempt still in flight, or context
// cancellation mid-flow).
func (p *Pipeline) Submit(ctx context.Context, values map[string]string, file *attachment.File) (*Result, error) {
	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	p.active = true
	desc := p.desc
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.active = false
		p.mu.Unlock()
	}()

	att := &attempt{values: values, file: file}
	result, err := p.run(ctx, desc, att)
	if err != nil {
		return nil, err
	}

	switch result.State {
	case StateSucceeded:
		if p.hooks.OnSuccess != nil {
			p.hooks.OnSuccess(result.RecordNumber)
		}
	case StateFailed:
		if p.hooks.OnError != nil {
			p.hooks.OnError(result.Message)
		}
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, desc *form.Description, att *attempt) (*Result, error) {
	p.setState(StateValidating)
	if errs := form.Validate(att.values, desc.Fields); len(errs) > 0 {
		return p.fail(FailureValidation, form.ErrorSummary(errs), errs), nil
	}

	p.setState(StateAcquiringCaptcha)
	if desc.CaptchaRequired() {
		token, err := p.provider.Token(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.provider.Reset()
			return p.fail(FailureCaptcha, captchaMessage(err), nil), nil
		}
		att.token = token
	}

	var (
		payload attachment.File
		plan    transfer.Plan
	)
	if att.file != nil {
		p.setState(StateProcessingFile)
		class := attachment.Classify(*att.file)
		if err := attachment.CheckSize(*att.file, class); err != nil {
			return p.fail(FailureFile, err.Error(), nil), nil
		}
		payload = p.optimizer.Optimize(ctx, *att.file)
		plan = transfer.PlanFor(payload.Size())
	}

	p.setState(StateSubmitting)
	resp, err := p.submitWithNonceRetry(ctx, desc, att, payload, plan)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return p.failedSubmission(ctx, desc, err), nil
	}

	result := &Result{State: StateSucceeded, RecordNumber: resp.CaseNumber}
	if att.file != nil && plan.Chunked {
		warning, err := p.transferAttachment(ctx, resp, payload, plan)
		if err != nil {
			return nil, err
		}
		result.Warning = warning
	}

	p.setState(StateSucceeded)
	return result, nil
}

// submitWithNonceRetry performs the initial record submission, transparently
// refreshing the description and resubmitting exactly once when the backend
// reports the recoverable anti-replay failure. A second nonce failure within
// the same user action is surfaced like any other backend error.
func (p *Pipeline) submitWithNonceRetry(ctx context.Context, desc *form.Description, att *attempt, payload attachment.File, plan transfer.Plan) (*backend.SubmitResponse, error) {
	for {
		req := backend.SubmitRequest{
			FormID:       desc.ID,
			Nonce:        desc.Nonce,
			FieldValues:  att.values,
			CaptchaToken: att.token,
		}
		if att.file != nil {
			req.FileName = payload.Name
			if !plan.Chunked {
				req.FileContent = base64.StdEncoding.EncodeToString(payload.Data)
			}
		}

		resp, err := p.client.Submit(ctx, req)
		if err == nil && !resp.Success {
			err = backend.NewAPIError("", resp.Error, 0)
		}
		if err == nil {
			return resp, nil
		}

		if backend.IsNonceExpired(err) && !att.retried {
			att.retried = true
			p.log.Info().Str("form", desc.Name).Msg("nonce expired, refreshing description for one silent retry")
			fresh, fetchErr := p.client.FetchForm(ctx, desc.Name)
			if fetchErr != nil {
				return nil, fetchErr
			}
			p.replaceDescription(fresh)
			desc = fresh
			continue
		}
		return nil, err
	}
}

// failedSubmission handles terminal submission failures: the CAPTCHA is
// reset and the nonce refreshed so the user can retry manually, then the
// failure is surfaced.
func (p *Pipeline) failedSubmission(ctx context.Context, desc *form.Description, err error) *Result {
	p.provider.Reset()
	p.refreshDescription(ctx, desc.Name)

	if apiErr, ok := backend.AsAPIError(err); ok {
		message := apiErr.Message
		if message == "" {
			message = MessageGenericError
		}
		p.log.Warn().Str("form", desc.Name).Str("code", string(apiErr.Code)).Msg("backend rejected submission")
		return p.fail(FailureBackend, message, nil)
	}

	p.log.Warn().Err(err).Str("form", desc.Name).Msg("submission failed without a response")
	return p.fail(FailureNetwork, MessageNetworkError, nil)
}

// transferAttachment streams the payload and waits for assembly. Failures
// here never demote the submission: the record exists, so the caller gets a
// success with a warning attached.
func (p *Pipeline) transferAttachment(ctx context.Context, resp *backend.SubmitResponse, payload attachment.File, plan transfer.Plan) (string, error) {
	if resp.CaseID == "" {
		p.log.Warn().Msg("backend accepted a chunked submission without a case id")
		return WarningUploadFailed, nil
	}

	p.setState(StateUploading)
	desc := p.Description()
	session := transfer.NewSession(resp.CaseID, desc.ID, payload.Name, plan)

	outcome, err := p.uploader.Upload(ctx, session, payload.Data)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.log.Warn().Err(err).Str("case", resp.CaseID).Msg("chunk upload failed after record creation")
		return WarningUploadFailed, nil
	}
	if outcome == transfer.OutcomeComplete {
		return "", nil
	}

	p.setState(StateAssembling)
	status, err := p.poller.Poll(ctx, session)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.log.Warn().Err(err).Str("case", resp.CaseID).Msg("assembly failed after record creation")
		return WarningAssemblyFailed, nil
	}
	switch status {
	case transfer.PollComplete:
		return "", nil
	case transfer.PollTimedOut:
		return WarningAssemblyDelayed, nil
	default:
		return WarningAssemblyFailed, nil
	}
}

func (p *Pipeline) refreshDescription(ctx context.Context, name string) {
	fresh, err := p.client.FetchForm(ctx, name)
	if err != nil {
		p.log.Debug().Err(err).Str("form", name).Msg("nonce refresh failed, keeping stale description")
		return
	}
	p.replaceDescription(fresh)
}

func (p *Pipeline) replaceDescription(desc *form.Description) {
	p.mu.Lock()
	p.desc = desc
	p.mu.Unlock()
}

func (p *Pipeline) setState(state State) {
	p.mu.Lock()
	prev := p.state
	p.state = state
	p.mu.Unlock()
	p.log.Debug().Str("from", string(prev)).Str("to", string(state)).Msg("state transition")
}

func (p *Pipeline) fail(kind FailureKind, message string, fieldErrs []form.FieldError) *Result {
	p.setState(StateFailed)
	return &Result{
		State:       StateFailed,
		Failure:     kind,
		Message:     message,
		FieldErrors: fieldErrs,
	}
}

func captchaMessage(err error) string {
	if errors.Is(err, captcha.ErrNotCompleted) {
		return MessageCaptchaIncomplete
	}
	return MessageCaptchaFailed
}
