// Package httpclient implements backend.Client over the REST-style JSON
// endpoints of the submission backend. Construction helpers live in the
// top-level formsubmit package.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/backend"
	"github.com/goliatone/go-formsubmit/pkg/form"
)

// DefaultTimeout bounds a single request. Chunk uploads over slow links are
// the sizing case, so it is deliberately generous; the assembly poller's
// cumulative ceiling is independent of it.
const DefaultTimeout = 120 * time.Second

// Client talks to one backend base URL.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

var _ backend.Client = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport. The client is cloned so
// the caller's instance is never mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.http = &clone
		}
	}
}

// WithTimeout replaces the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New constructs a Client for the given base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpclient: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("httpclient: base url %q must be absolute", baseURL)
	}

	c := &Client{
		base: base,
		http: &http.Client{Timeout: DefaultTimeout},
		log:  zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// FetchForm retrieves the declarative description, including a fresh nonce.
func (c *Client) FetchForm(ctx context.Context, name string) (*form.Description, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("httpclient: form name is required")
	}

	var desc form.Description
	if err := c.get(ctx, "/form/"+url.PathEscape(name), &desc); err != nil {
		return nil, err
	}
	if desc.Name == "" {
		desc.Name = name
	}
	return &desc, nil
}

// Submit creates the record.
func (c *Client) Submit(ctx context.Context, req backend.SubmitRequest) (*backend.SubmitResponse, error) {
	var resp backend.SubmitResponse
	if err := c.post(ctx, "/submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadChunk delivers one slice of the attachment.
func (c *Client) UploadChunk(ctx context.Context, req backend.ChunkRequest) (*backend.ChunkResponse, error) {
	var resp backend.ChunkResponse
	if err := c.post(ctx, "/upload-chunk", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadStatus asks whether a queued assembly has finished.
func (c *Client) UploadStatus(ctx context.Context, req backend.StatusRequest) (*backend.StatusResponse, error) {
	var resp backend.StatusResponse
	if err := c.post(ctx, "/upload-status", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return fmt.Errorf("httpclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("httpclient: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("httpclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// errorEnvelope is the shape backends use for structured failures. Code is
// optional; older deployments only set the message.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// do executes the request and decodes the body. Transport failures pass
// through untouched so callers can distinguish no-response conditions from
// structured rejections; non-2xx statuses become *backend.APIError.
func (c *Client) do(req *http.Request, out any) error {
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("path", req.URL.Path).Msg("request failed without a response")
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read response: %w", err)
	}

	c.log.Debug().
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		_ = json.Unmarshal(data, &envelope)
		message := envelope.Error
		if message == "" {
			message = resp.Status
		}
		return backend.NewAPIError(backend.ErrorCode(envelope.Code), message, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}
