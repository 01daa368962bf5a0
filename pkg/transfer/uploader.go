package transfer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/backend"
)

// Outcome is the terminal state of a chunked upload.
type Outcome string

const (
	// OutcomeComplete means the backend assembled the file inline.
	OutcomeComplete Outcome = "complete"
	// OutcomeProcessing means assembly was queued; poll with the session's
	// UploadKey.
	OutcomeProcessing Outcome = "processing"
)

// Uploader streams a payload as an ordered sequence of bounded chunks.
// Chunks are sent strictly sequentially, never in parallel: peak memory stays
// bounded and the backend can rely on in-order arrival.
type Uploader struct {
	client     backend.Client
	log        zerolog.Logger
	onProgress func(sent, total int)
}

// UploaderOption customises an Uploader.
type UploaderOption func(*Uploader)

// WithUploaderLogger attaches a logger; the default discards everything.
func WithUploaderLogger(log zerolog.Logger) UploaderOption {
	return func(u *Uploader) { u.log = log }
}

// WithChunkProgress reports after each delivered chunk for UI feedback.
func WithChunkProgress(fn func(sent, total int)) UploaderOption {
	return func(u *Uploader) { u.onProgress = fn }
}

// NewUploader constructs an Uploader over the backend client.
func NewUploader(client backend.Client, options ...UploaderOption) *Uploader {
	u := &Uploader{
		client: client,
		log:    zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// Upload delivers the payload chunk by chunk, indices 0..TotalChunks-1 with
// no gaps or repeats. The final chunk's response decides the outcome: the
// backend either assembled the file inline (OutcomeComplete) or queued
// asynchronous assembly (OutcomeProcessing, tracked by session.UploadKey).
// A failure here is terminal for the upload but not for the record, which
// already exists from the file-less submission.
func (u *Uploader) Upload(ctx context.Context, session *Session, data []byte) (Outcome, error) {
	if session == nil {
		return "", fmt.Errorf("transfer: session is required")
	}
	if session.TotalChunks <= 0 {
		return "", fmt.Errorf("transfer: session has no chunks planned")
	}

	log := u.log.With().
		Str("session", session.ID).
		Str("case", session.CaseID).
		Int("total_chunks", session.TotalChunks).
		Logger()

	for index := 0; index < session.TotalChunks; index++ {
		start := index * ChunkSize
		end := start + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		if start >= len(data) {
			return "", fmt.Errorf("transfer: chunk %d has no payload (size %d)", index, len(data))
		}

		resp, err := u.client.UploadChunk(ctx, backend.ChunkRequest{
			CaseID:      session.CaseID,
			FileName:    session.FileName,
			ChunkData:   base64.StdEncoding.EncodeToString(data[start:end]),
			ChunkIndex:  index,
			TotalChunks: session.TotalChunks,
			UploadKey:   session.UploadKey,
			FormID:      session.FormID,
		})
		if err != nil {
			return "", fmt.Errorf("transfer: chunk %d/%d: %w", index, session.TotalChunks, err)
		}
		if !resp.Success {
			return "", fmt.Errorf("transfer: chunk %d/%d rejected: %w", index, session.TotalChunks,
				backend.NewAPIError("", resp.Error, 0))
		}
		if resp.UploadKey != "" {
			session.UploadKey = resp.UploadKey
		}

		log.Debug().Int("chunk", index).Msg("chunk delivered")
		if u.onProgress != nil {
			u.onProgress(index+1, session.TotalChunks)
		}

		switch {
		case resp.Complete:
			if index != session.TotalChunks-1 {
				return "", fmt.Errorf("transfer: backend reported completion at chunk %d of %d", index, session.TotalChunks)
			}
			log.Info().Msg("upload assembled inline")
			return OutcomeComplete, nil
		case resp.Processing:
			if session.UploadKey == "" {
				return "", fmt.Errorf("transfer: backend queued assembly without an upload key")
			}
			log.Info().Str("upload_key", session.UploadKey).Msg("upload queued for assembly")
			return OutcomeProcessing, nil
		}
	}

	return "", fmt.Errorf("transfer: all %d chunks sent but backend signalled neither completion nor processing", session.TotalChunks)
}
