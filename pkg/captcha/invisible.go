package captcha

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formsubmit/pkg/form"
)

// Challenger triggers the provider's invisible challenge. The token does not
// come back from Execute: the provider delivers it asynchronously through
// Deliver or Fail on the owning Invisible provider.
type Challenger interface {
	Execute(ctx context.Context) error
}

// ChallengerFunc adapts a function to the Challenger interface.
type ChallengerFunc func(ctx context.Context) error

func (f ChallengerFunc) Execute(ctx context.Context) error { return f(ctx) }

type invisibleOutcome struct {
	token string
	err   error
}

// Invisible acquires tokens by programmatically triggering a challenge and
// suspending until the provider's callback delivers the result. Only one
// acquisition may be in flight at a time; a second concurrent Token call
// fails with ErrAcquisitionInFlight instead of triggering a second challenge.
type Invisible struct {
	challenger Challenger

	mu      sync.Mutex
	pending chan invisibleOutcome
}

// NewInvisible constructs the provider around the host's challenge trigger.
func NewInvisible(challenger Challenger) *Invisible {
	return &Invisible{challenger: challenger}
}

func (p *Invisible) Variant() form.CaptchaVariant { return form.CaptchaInvisible }

func (p *Invisible) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.pending != nil {
		p.mu.Unlock()
		return "", ErrAcquisitionInFlight
	}
	ch := make(chan invisibleOutcome, 1)
	p.pending = ch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.pending == ch {
			p.pending = nil
		}
		p.mu.Unlock()
	}()

	if p.challenger == nil {
		return "", ErrUnavailable
	}
	if err := p.challenger.Execute(ctx); err != nil {
		return "", fmt.Errorf("captcha: trigger challenge: %w", err)
	}

	select {
	case out := <-ch:
		if out.err != nil {
			return "", out.err
		}
		if out.token == "" {
			return "", ErrUnavailable
		}
		return out.token, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Deliver hands the provider callback's token to the suspended Token call.
// Tokens delivered while no acquisition is in flight are dropped.
func (p *Invisible) Deliver(token string) {
	p.dispatch(invisibleOutcome{token: token})
}

// Fail reports a provider error to the suspended Token call.
func (p *Invisible) Fail(err error) {
	if err == nil {
		err = ErrUnavailable
	}
	p.dispatch(invisibleOutcome{err: err})
}

func (p *Invisible) dispatch(out invisibleOutcome) {
	p.mu.Lock()
	ch := p.pending
	p.pending = nil
	p.mu.Unlock()
	if ch == nil {
		return
	}
	ch <- out
}

// Reset abandons any pending acquisition so a failed submission can retry.
func (p *Invisible) Reset() {
	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()
}
