package captcha

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formsubmit/pkg/form"
)

// Executor requests a fresh score-based token scoped to an action label.
type Executor interface {
	Execute(ctx context.Context, action string) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, action string) (string, error)

func (f ExecutorFunc) Execute(ctx context.Context, action string) (string, error) {
	return f(ctx, action)
}

// Score acquires a fresh token from the provider on every call. There is no
// visible widget and nothing to reset between attempts.
type Score struct {
	exec   Executor
	action string
}

// NewScore constructs the provider. An empty action falls back to
// DefaultAction.
func NewScore(exec Executor, action string) *Score {
	if strings.TrimSpace(action) == "" {
		action = DefaultAction
	}
	return &Score{exec: exec, action: action}
}

func (p *Score) Variant() form.CaptchaVariant { return form.CaptchaScore }

func (p *Score) Token(ctx context.Context) (string, error) {
	if p.exec == nil {
		return "", ErrUnavailable
	}
	token, err := p.exec.Execute(ctx, p.action)
	if err != nil {
		return "", fmt.Errorf("captcha: execute %q: %w", p.action, err)
	}
	if token == "" {
		return "", ErrUnavailable
	}
	return token, nil
}

// Reset is a no-op: score tokens are minted per call.
func (p *Score) Reset() {}
