package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/backend"
)

// Polling schedule: 2 s, 3 s, then 5 s repeating, with a hard ceiling of
// 60 s cumulative wait independent of any single request's timeout.
var pollSchedule = []time.Duration{2 * time.Second, 3 * time.Second, 5 * time.Second}

// MaxPollWait is the cumulative wait ceiling for one assembly.
const MaxPollWait = 60 * time.Second

// PollStatus is the terminal state of an assembly wait.
type PollStatus string

const (
	// PollComplete means the file was assembled and stored.
	PollComplete PollStatus = "complete"
	// PollTimedOut is a soft success: the record exists and the backend is
	// still assembling the attachment; the user is told so rather than shown
	// a hard failure.
	PollTimedOut PollStatus = "timed_out"
	// PollFailed means the backend reported assembly failure.
	PollFailed PollStatus = "failed"
)

// Poller waits for server-side asynchronous reassembly of a chunked upload
// with a bounded, backoff-scheduled polling loop.
type Poller struct {
	client backend.Client
	log    zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// PollerOption customises a Poller.
type PollerOption func(*Poller)

// WithPollerLogger attaches a logger; the default discards everything.
func WithPollerLogger(log zerolog.Logger) PollerOption {
	return func(p *Poller) { p.log = log }
}

// WithSleeper replaces the delay function, letting tests observe the
// schedule without real waiting.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) PollerOption {
	return func(p *Poller) { p.sleep = fn }
}

// NewPoller constructs a Poller over the backend client.
func NewPoller(client backend.Client, options ...PollerOption) *Poller {
	p := &Poller{
		client: client,
		log:    zerolog.Nop(),
		sleep:  sleepContext,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poll waits for the assembly tracked by session.UploadKey. Network failures
// while polling count as still-processing and consume schedule like any
// other attempt; only an explicit error status from the backend is terminal.
// Hitting the ceiling returns PollTimedOut, never an error.
func (p *Poller) Poll(ctx context.Context, session *Session) (PollStatus, error) {
	if session == nil || session.UploadKey == "" {
		return "", fmt.Errorf("transfer: poll requires a session with an upload key")
	}

	log := p.log.With().
		Str("session", session.ID).
		Str("case", session.CaseID).
		Logger()

	var waited time.Duration
	for attempt := 0; ; attempt++ {
		if waited >= MaxPollWait {
			log.Warn().Dur("waited", waited).Msg("assembly still processing at the polling ceiling")
			return PollTimedOut, nil
		}

		delay := pollSchedule[len(pollSchedule)-1]
		if attempt < len(pollSchedule) {
			delay = pollSchedule[attempt]
		}
		if err := p.sleep(ctx, delay); err != nil {
			return "", err
		}
		waited += delay

		resp, err := p.client.UploadStatus(ctx, backend.StatusRequest{
			CaseID:    session.CaseID,
			UploadKey: session.UploadKey,
			FileName:  session.FileName,
			FormID:    session.FormID,
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			// Transient poll failures are retried against the same ceiling.
			log.Debug().Err(err).Int("attempt", attempt).Msg("status poll failed, retrying")
			continue
		}

		switch resp.Status {
		case backend.StatusComplete:
			log.Info().Dur("waited", waited).Msg("assembly complete")
			return PollComplete, nil
		case backend.StatusError:
			return PollFailed, backend.NewAPIError("", resp.Error, 0)
		default:
			log.Debug().Int("attempt", attempt).Dur("waited", waited).Msg("assembly still processing")
		}
	}
}
