package submit

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/attachment"
	"github.com/goliatone/go-formsubmit/pkg/captcha"
	"github.com/goliatone/go-formsubmit/pkg/transfer"
)

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithCaptcha installs the CAPTCHA provider matching the form's variant. The
// default provider only suits forms with CAPTCHA disabled.
func WithCaptcha(provider captcha.Provider) Option {
	return func(p *Pipeline) {
		if provider != nil {
			p.provider = provider
		}
	}
}

// WithOptimizer replaces the attachment optimizer.
func WithOptimizer(optimizer *attachment.Optimizer) Option {
	return func(p *Pipeline) {
		if optimizer != nil {
			p.optimizer = optimizer
		}
	}
}

// WithUploader replaces the chunk uploader.
func WithUploader(uploader *transfer.Uploader) Option {
	return func(p *Pipeline) {
		if uploader != nil {
			p.uploader = uploader
		}
	}
}

// WithPoller replaces the assembly poller.
func WithPoller(poller *transfer.Poller) Option {
	return func(p *Pipeline) {
		if poller != nil {
			p.poller = poller
		}
	}
}

// WithHooks registers the host callbacks. Each hook fires at most once per
// terminal outcome per submission attempt.
func WithHooks(hooks Hooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}
