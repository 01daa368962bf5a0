package captcha

import (
	"context"
	"sync"

	"github.com/goliatone/go-formsubmit/pkg/form"
)

// ResponseStore holds the current response of a rendered checkbox widget.
// The host integration sets the value when the provider's success callback
// fires and the provider clears it on reset or expiry. Safe for concurrent
// use.
type ResponseStore struct {
	mu       sync.Mutex
	response string
}

// Set records the widget's current response token.
func (s *ResponseStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = token
}

// Value returns the current response, empty when the user has not completed
// the widget.
func (s *ResponseStore) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response
}

// Clear discards the current response.
func (s *ResponseStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = ""
}

// Checkbox reads tokens from a widget rendered once at load. Token is
// synchronous: an empty response is the user's problem to fix, not a
// condition to retry, so it surfaces ErrNotCompleted immediately.
type Checkbox struct {
	store *ResponseStore
}

// NewCheckbox wraps the given store. A nil store gets a fresh one so the
// zero-configuration path still works.
func NewCheckbox(store *ResponseStore) *Checkbox {
	if store == nil {
		store = &ResponseStore{}
	}
	return &Checkbox{store: store}
}

// Store exposes the underlying response store for host wiring.
func (c *Checkbox) Store() *ResponseStore { return c.store }

func (c *Checkbox) Variant() form.CaptchaVariant { return form.CaptchaCheckbox }

func (c *Checkbox) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token := c.store.Value()
	if token == "" {
		return "", ErrNotCompleted
	}
	return token, nil
}

// Reset clears the widget's prior response so the same page load can retry
// after a failed submission.
func (c *Checkbox) Reset() {
	c.store.Clear()
}
