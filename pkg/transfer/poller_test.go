package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/backend"
)

// statusScript serves scripted status responses in order, repeating the last.
type statusScript struct {
	backend.Client

	responses []func() (*backend.StatusResponse, error)
	calls     int
}

func (s *statusScript) UploadStatus(_ context.Context, _ backend.StatusRequest) (*backend.StatusResponse, error) {
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	return s.responses[idx]()
}

func always(status string) []func() (*backend.StatusResponse, error) {
	return []func() (*backend.StatusResponse, error){
		func() (*backend.StatusResponse, error) {
			return &backend.StatusResponse{Status: status}, nil
		},
	}
}

func pollerUnderTest(client backend.Client, delays *[]time.Duration) *Poller {
	return NewPoller(client, WithSleeper(func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}))
}

func testSession() *Session {
	return &Session{ID: "s-1", CaseID: "case-1", FormID: "contact", FileName: "photo.jpg", UploadKey: "key-1"}
}

func TestPoll_CompleteOnSecondAttempt(t *testing.T) {
	script := &statusScript{responses: []func() (*backend.StatusResponse, error){
		func() (*backend.StatusResponse, error) {
			return &backend.StatusResponse{Status: backend.StatusProcessing}, nil
		},
		func() (*backend.StatusResponse, error) {
			return &backend.StatusResponse{Status: backend.StatusComplete}, nil
		},
	}}

	var delays []time.Duration
	status, err := pollerUnderTest(script, &delays).Poll(context.Background(), testSession())
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if status != PollComplete {
		t.Fatalf("status = %s", status)
	}
	want := []time.Duration{2 * time.Second, 3 * time.Second}
	if diff := cmp.Diff(want, delays); diff != "" {
		t.Fatalf("delays (-want +got):\n%s", diff)
	}
}

func TestPoll_AlwaysProcessingStopsAtCeiling(t *testing.T) {
	script := &statusScript{responses: always(backend.StatusProcessing)}

	var delays []time.Duration
	status, err := pollerUnderTest(script, &delays).Poll(context.Background(), testSession())
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if status != PollTimedOut {
		t.Fatalf("status = %s, want timed_out", status)
	}

	// 2s + 3s + eleven 5s polls wait exactly the 60s ceiling.
	want := []time.Duration{2 * time.Second, 3 * time.Second}
	for i := 0; i < 11; i++ {
		want = append(want, 5*time.Second)
	}
	if diff := cmp.Diff(want, delays); diff != "" {
		t.Fatalf("delay schedule (-want +got):\n%s", diff)
	}

	var total time.Duration
	for _, d := range delays {
		total += d
	}
	if total != MaxPollWait {
		t.Fatalf("cumulative wait = %s, want %s", total, MaxPollWait)
	}
}

func TestPoll_NetworkErrorsCountAsStillProcessing(t *testing.T) {
	script := &statusScript{responses: []func() (*backend.StatusResponse, error){
		func() (*backend.StatusResponse, error) { return nil, errors.New("connection reset") },
		func() (*backend.StatusResponse, error) { return nil, errors.New("connection reset") },
		func() (*backend.StatusResponse, error) {
			return &backend.StatusResponse{Status: backend.StatusComplete}, nil
		},
	}}

	var delays []time.Duration
	status, err := pollerUnderTest(script, &delays).Poll(context.Background(), testSession())
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if status != PollComplete {
		t.Fatalf("status = %s", status)
	}
	if len(delays) != 3 {
		t.Fatalf("attempts = %d, want 3", len(delays))
	}
}

func TestPoll_BackendErrorStatusIsTerminal(t *testing.T) {
	script := &statusScript{responses: []func() (*backend.StatusResponse, error){
		func() (*backend.StatusResponse, error) {
			return &backend.StatusResponse{Status: backend.StatusError, Error: "assembly corrupt"}, nil
		},
	}}

	var delays []time.Duration
	status, err := pollerUnderTest(script, &delays).Poll(context.Background(), testSession())
	if status != PollFailed {
		t.Fatalf("status = %s, want failed", status)
	}
	if _, ok := backend.AsAPIError(err); !ok {
		t.Fatalf("err = %v, want APIError", err)
	}
}

func TestPoll_ContextCancellationStopsPolling(t *testing.T) {
	script := &statusScript{responses: always(backend.StatusProcessing)}
	ctx, cancel := context.WithCancel(context.Background())

	poller := NewPoller(script, WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	if _, err := poller.Poll(ctx, testSession()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPoll_RequiresUploadKey(t *testing.T) {
	poller := NewPoller(&statusScript{responses: always(backend.StatusProcessing)})
	if _, err := poller.Poll(context.Background(), &Session{ID: "s", CaseID: "c"}); err == nil {
		t.Fatal("expected error for missing upload key")
	}
}
