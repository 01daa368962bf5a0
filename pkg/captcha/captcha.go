// Package captcha abstracts the three CAPTCHA interaction modes behind one
// token-acquisition contract. Checkbox providers read the response of a
// widget the host has already rendered, invisible providers trigger a
// challenge and suspend until the provider's callback delivers a token, and
// score providers mint a fresh token per call for a fixed action label. The
// package also owns the process-wide callback registry that keeps multiple
// widget instances on one page from clobbering the provider's shared global
// callback namespace.
package captcha

import (
	"context"
	"errors"

	"github.com/goliatone/go-formsubmit/pkg/form"
)

// DefaultAction is the action label score-based tokens are scoped to.
const DefaultAction = "submit"

var (
	// ErrNotCompleted means the checkbox widget has no response yet. The
	// caller should re-prompt the user rather than retry automatically.
	ErrNotCompleted = errors.New("captcha: verification not completed")

	// ErrUnavailable means the provider could not produce a token at all.
	ErrUnavailable = errors.New("captcha: provider unavailable")

	// ErrAcquisitionInFlight guards against concurrent invisible challenges.
	ErrAcquisitionInFlight = errors.New("captcha: token acquisition already in flight")
)

// Provider acquires tokens for one CAPTCHA variant. Token blocks until a
// token is available, the provider errors, or ctx is done. Reset clears any
// prior response so a failed submission can retry within the same session;
// it is a no-op for variants that mint per-call tokens.
type Provider interface {
	Variant() form.CaptchaVariant
	Token(ctx context.Context) (string, error)
	Reset()
}

// Disabled is the provider used when a form has CAPTCHA turned off. It is
// the only provider permitted to return an empty token.
type Disabled struct{}

func (Disabled) Variant() form.CaptchaVariant { return "" }

func (Disabled) Token(context.Context) (string, error) { return "", nil }

func (Disabled) Reset() {}
