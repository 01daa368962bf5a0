package captcha

import (
	"errors"
	"sync"
)

// Purpose keys a shared callback slot in the provider's global namespace.
type Purpose string

const (
	// PurposeOnload fires when the provider script finishes loading.
	PurposeOnload Purpose = "onload"
	// PurposeSuccess fires when a widget delivers a response token.
	PurposeSuccess Purpose = "success"
)

// Callback receives the value dispatched for a purpose (for example, the
// response token for PurposeSuccess).
type Callback func(value string)

// Registry is a refcounted table of shared provider callbacks. The CAPTCHA
// provider exposes a single global callback namespace per page, so multiple
// widget instances must share one installed callback per purpose instead of
// installing their own and clobbering each other. The first Register for a
// purpose installs the callback; later registrations share it by reference
// and only bump the count. Unregister releases one reference and removes the
// slot when the count reaches zero.
type Registry struct {
	mu    sync.Mutex
	slots map[Purpose]*registrySlot
}

type registrySlot struct {
	fn   Callback
	refs int
}

// NewRegistry creates an empty registry. Most callers use the package-level
// Register/Unregister, which share one process-wide instance.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[Purpose]*registrySlot)}
}

// Register installs fn for the purpose, or joins the existing installation.
// It returns the callback actually installed so callers can detect sharing.
func (r *Registry) Register(purpose Purpose, fn Callback) (Callback, error) {
	if purpose == "" {
		return nil, errors.New("captcha: registry purpose is required")
	}
	if fn == nil {
		return nil, errors.New("captcha: registry callback is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slot, ok := r.slots[purpose]; ok {
		slot.refs++
		return slot.fn, nil
	}
	r.slots[purpose] = &registrySlot{fn: fn, refs: 1}
	return fn, nil
}

// Unregister releases one reference for the purpose. The callback is removed
// only when the last reference goes away.
func (r *Registry) Unregister(purpose Purpose) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[purpose]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs <= 0 {
		delete(r.slots, purpose)
	}
}

// Dispatch invokes the installed callback for the purpose, if any.
func (r *Registry) Dispatch(purpose Purpose, value string) {
	r.mu.Lock()
	slot, ok := r.slots[purpose]
	var fn Callback
	if ok {
		fn = slot.fn
	}
	r.mu.Unlock()

	if fn != nil {
		fn(value)
	}
}

// Installed reports whether a callback is currently registered for purpose.
func (r *Registry) Installed(purpose Purpose) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.slots[purpose]
	return ok
}

var defaultRegistry = NewRegistry()

// Register installs fn in the process-wide registry.
func Register(purpose Purpose, fn Callback) (Callback, error) {
	return defaultRegistry.Register(purpose, fn)
}

// Unregister releases one process-wide reference for the purpose.
func Unregister(purpose Purpose) {
	defaultRegistry.Unregister(purpose)
}

// Dispatch invokes the process-wide callback for the purpose.
func Dispatch(purpose Purpose, value string) {
	defaultRegistry.Dispatch(purpose, value)
}
