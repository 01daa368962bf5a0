package backend

import (
	"context"

	"github.com/goliatone/go-formsubmit/pkg/form"
)

// SubmitRequest creates the record. FileContent carries the whole attachment
// base64-encoded and is only set when the transfer plan is a single request;
// chunked uploads submit the record file-less first and stream the payload
// afterwards against the returned case id.
type SubmitRequest struct {
	FormID       string            `json:"formId"`
	Nonce        string            `json:"nonce"`
	FieldValues  map[string]string `json:"fieldValues"`
	FileName     string            `json:"fileName,omitempty"`
	FileContent  string            `json:"fileContent,omitempty"`
	CaptchaToken string            `json:"captchaToken,omitempty"`
}

// SubmitResponse reports the created record. CaseID is present only when a
// chunked upload is expected to follow.
type SubmitResponse struct {
	Success    bool   `json:"success"`
	CaseNumber string `json:"caseNumber,omitempty"`
	CaseID     string `json:"caseId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ChunkRequest delivers one bounded slice of the attachment. ChunkIndex is
// zero-based and strictly increasing; TotalChunks is announced on every call
// so the backend can detect a complete set. UploadKey echoes the key issued
// by the previous chunk response, empty on the first chunk.
type ChunkRequest struct {
	CaseID      string `json:"caseId"`
	FileName    string `json:"fileName"`
	ChunkData   string `json:"chunkData"`
	ChunkIndex  int    `json:"chunkIndex"`
	TotalChunks int    `json:"totalChunks"`
	UploadKey   string `json:"uploadKey,omitempty"`
	FormID      string `json:"formId"`
}

// ChunkResponse reports per-chunk progress. Exactly one of Complete and
// Processing may be set on the final chunk: Complete means the file was
// assembled inline, Processing means assembly was queued and the caller
// should poll with the returned UploadKey.
type ChunkResponse struct {
	Success    bool   `json:"success"`
	Complete   bool   `json:"complete,omitempty"`
	Processing bool   `json:"processing,omitempty"`
	UploadKey  string `json:"uploadKey,omitempty"`
	Error      string `json:"error,omitempty"`
}

// UploadStatus values returned by the assembly status endpoint.
const (
	StatusComplete   = "complete"
	StatusProcessing = "processing"
	StatusError      = "error"
)

// StatusRequest asks whether a queued assembly has finished.
type StatusRequest struct {
	CaseID    string `json:"caseId"`
	UploadKey string `json:"uploadKey"`
	FileName  string `json:"fileName"`
	FormID    string `json:"formId"`
}

// StatusResponse carries one of the UploadStatus values.
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Client is the transport used by every pipeline component that talks to the
// backend. Implementations must be safe for sequential reuse across
// submission attempts; FetchForm is an idempotent read and may be called
// repeatedly to obtain a fresh nonce.
type Client interface {
	FetchForm(ctx context.Context, name string) (*form.Description, error)
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
	UploadChunk(ctx context.Context, req ChunkRequest) (*ChunkResponse, error)
	UploadStatus(ctx context.Context, req StatusRequest) (*StatusResponse, error)
}
