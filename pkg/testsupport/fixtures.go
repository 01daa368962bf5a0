// Package testsupport provides fixture form descriptions and a scriptable
// in-process backend so pipeline and front-end tests can exercise full
// submission flows without a network.
package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formsubmit/pkg/backend"
	"github.com/goliatone/go-formsubmit/pkg/form"
)

// SampleDescription returns a small contact form with CAPTCHA disabled and
// file upload enabled. Tests mutate the copy freely.
func SampleDescription() *form.Description {
	return &form.Description{
		ID:    "frm-contact",
		Name:  "contact",
		Title: "Contact us",
		Fields: []form.FieldSpec{
			{Name: "name", Label: "Full name", Kind: form.FieldKindText, Required: true},
			{Name: "email", Label: "Email", Kind: form.FieldKindEmail, Required: true},
			{Name: "message", Label: "Message", Kind: form.FieldKindTextarea, Required: true},
		},
		FileUpload: form.FileUploadConfig{Enabled: true, MaxBytes: 25 << 20},
		Nonce:      "nonce-1",
	}
}

// ValidValues returns field values that satisfy SampleDescription.
func ValidValues() map[string]string {
	return map[string]string{
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"message": "The engine weaves algebraic patterns.",
	}
}

// FakeBackend is a scriptable backend.Client. Every fetch issues a fresh
// nonce; intermediate chunk responses hand out an upload key that the final
// chunk either completes inline or parks as asynchronous assembly. The zero
// value is not usable: construct with NewFakeBackend.
type FakeBackend struct {
	mu sync.Mutex

	desc         *form.Description
	nonceCounter int
	currentNonce string

	// NonceFailures rejects that many submissions with a nonce_expired error
	// before accepting, regardless of the nonce sent.
	NonceFailures int
	// SubmitErr forces every submission to fail with this error.
	SubmitErr error
	// RejectSubmit forces a structured rejection on every submission.
	RejectSubmit *backend.APIError
	// ChunkErr forces every chunk upload to fail with this error.
	ChunkErr error
	// CaseNumber is returned on accepted submissions. CaseID is included only
	// when the request announced a file without inline content, matching the
	// chunked-upload contract; clear it to simulate a backend that forgot to
	// open an upload session.
	CaseNumber string
	CaseID     string
	// AssembleInline makes the final chunk complete synchronously instead of
	// parking the upload in asynchronous assembly.
	AssembleInline bool
	// StatusSequence scripts upload-status responses in order, repeating the
	// final entry. Empty means immediately complete.
	StatusSequence []string

	FetchCalls  int
	SubmitCalls []backend.SubmitRequest
	ChunkCalls  []backend.ChunkRequest
	StatusCalls int
}

// NewFakeBackend serves the given description. A nil description falls back
// to SampleDescription.
func NewFakeBackend(desc *form.Description) *FakeBackend {
	if desc == nil {
		desc = SampleDescription()
	}
	return &FakeBackend{
		desc:       desc,
		CaseNumber: "CASE-1001",
		CaseID:     "case-1001",
	}
}

var _ backend.Client = (*FakeBackend)(nil)

// FetchForm returns a copy of the description carrying a freshly issued
// nonce, mirroring the real backend's replay protection.
func (f *FakeBackend) FetchForm(_ context.Context, name string) (*form.Description, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.FetchCalls++
	if name != f.desc.Name {
		return nil, backend.NewAPIError(backend.CodeNotFound, fmt.Sprintf("form %q not found", name), 404)
	}
	f.nonceCounter++
	f.currentNonce = fmt.Sprintf("nonce-%d", f.nonceCounter)

	out := *f.desc
	out.Nonce = f.currentNonce
	return &out, nil
}

// LastNonce returns the nonce issued by the most recent fetch.
func (f *FakeBackend) LastNonce() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentNonce
}

func (f *FakeBackend) Submit(_ context.Context, req backend.SubmitRequest) (*backend.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SubmitCalls = append(f.SubmitCalls, req)
	if f.SubmitErr != nil {
		return nil, f.SubmitErr
	}
	if f.RejectSubmit != nil {
		return nil, f.RejectSubmit
	}
	if f.NonceFailures > 0 {
		f.NonceFailures--
		return nil, backend.NewAPIError(backend.CodeNonceExpired, "security token is invalid or has expired", 400)
	}

	resp := &backend.SubmitResponse{Success: true, CaseNumber: f.CaseNumber}
	if req.FileName != "" && req.FileContent == "" {
		resp.CaseID = f.CaseID
	}
	return resp, nil
}

func (f *FakeBackend) UploadChunk(_ context.Context, req backend.ChunkRequest) (*backend.ChunkResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ChunkCalls = append(f.ChunkCalls, req)
	if f.ChunkErr != nil {
		return nil, f.ChunkErr
	}
	if req.ChunkIndex < req.TotalChunks-1 {
		return &backend.ChunkResponse{Success: true, UploadKey: "upload-key"}, nil
	}
	if f.AssembleInline {
		return &backend.ChunkResponse{Success: true, Complete: true}, nil
	}
	return &backend.ChunkResponse{Success: true, Processing: true, UploadKey: "upload-key"}, nil
}

func (f *FakeBackend) UploadStatus(_ context.Context, _ backend.StatusRequest) (*backend.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.StatusCalls
	f.StatusCalls++
	if len(f.StatusSequence) == 0 {
		return &backend.StatusResponse{Status: backend.StatusComplete}, nil
	}
	if idx >= len(f.StatusSequence) {
		idx = len(f.StatusSequence) - 1
	}
	status := f.StatusSequence[idx]
	resp := &backend.StatusResponse{Status: status}
	if status == backend.StatusError {
		resp.Error = "assembly failed"
	}
	return resp, nil
}
