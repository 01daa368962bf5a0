package transfer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/backend"
	"github.com/goliatone/go-formsubmit/pkg/form"
)

// chunkRecorder scripts per-chunk responses and records every request.
type chunkRecorder struct {
	backend.Client

	requests []backend.ChunkRequest
	respond  func(req backend.ChunkRequest) (*backend.ChunkResponse, error)
}

func (c *chunkRecorder) UploadChunk(_ context.Context, req backend.ChunkRequest) (*backend.ChunkResponse, error) {
	c.requests = append(c.requests, req)
	return c.respond(req)
}

func (c *chunkRecorder) FetchForm(context.Context, string) (*form.Description, error) {
	return nil, errors.New("not implemented")
}

func payloadOf(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestUpload_SequentialIndicesNoGapsNoRepeats(t *testing.T) {
	data := payloadOf(2*ChunkSize + 1234)
	rec := &chunkRecorder{}
	rec.respond = func(req backend.ChunkRequest) (*backend.ChunkResponse, error) {
		if req.ChunkIndex == req.TotalChunks-1 {
			return &backend.ChunkResponse{Success: true, Complete: true}, nil
		}
		return &backend.ChunkResponse{Success: true, UploadKey: "key-1"}, nil
	}

	session := NewSession("case-1", "contact", "photo.jpg", PlanFor(int64(len(data))))
	outcome, err := NewUploader(rec).Upload(context.Background(), session, data)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if outcome != OutcomeComplete {
		t.Fatalf("outcome = %s", outcome)
	}

	var gotIndices []int
	for _, req := range rec.requests {
		gotIndices = append(gotIndices, req.ChunkIndex)
		if req.TotalChunks != 3 {
			t.Fatalf("totalChunks = %d, want 3", req.TotalChunks)
		}
	}
	if diff := cmp.Diff([]int{0, 1, 2}, gotIndices); diff != "" {
		t.Fatalf("chunk indices (-want +got):\n%s", diff)
	}

	// The reassembled payload must match the original byte for byte.
	var rebuilt []byte
	for _, req := range rec.requests {
		part, err := base64.StdEncoding.DecodeString(req.ChunkData)
		if err != nil {
			t.Fatalf("decode chunk %d: %v", req.ChunkIndex, err)
		}
		rebuilt = append(rebuilt, part...)
	}
	if !bytes.Equal(rebuilt, data) {
		t.Fatal("reassembled payload differs from original")
	}
}

func TestUpload_CarriesServerIssuedUploadKeyForward(t *testing.T) {
	data := payloadOf(2*ChunkSize + 10)
	rec := &chunkRecorder{}
	rec.respond = func(req backend.ChunkRequest) (*backend.ChunkResponse, error) {
		switch req.ChunkIndex {
		case 0:
			if req.UploadKey != "" {
				t.Fatalf("first chunk carried key %q", req.UploadKey)
			}
			return &backend.ChunkResponse{Success: true, UploadKey: "issued-key"}, nil
		default:
			if req.UploadKey != "issued-key" {
				t.Fatalf("chunk %d carried key %q, want issued-key", req.ChunkIndex, req.UploadKey)
			}
			if req.ChunkIndex == req.TotalChunks-1 {
				return &backend.ChunkResponse{Success: true, Processing: true, UploadKey: "issued-key"}, nil
			}
			return &backend.ChunkResponse{Success: true, UploadKey: "issued-key"}, nil
		}
	}

	session := NewSession("case-1", "contact", "photo.jpg", PlanFor(int64(len(data))))
	outcome, err := NewUploader(rec).Upload(context.Background(), session, data)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if outcome != OutcomeProcessing {
		t.Fatalf("outcome = %s, want processing", outcome)
	}
	if session.UploadKey != "issued-key" {
		t.Fatalf("session key = %q", session.UploadKey)
	}
}

func TestUpload_ChunkRejectionIsTerminal(t *testing.T) {
	data := payloadOf(3 * ChunkSize)
	rec := &chunkRecorder{}
	rec.respond = func(req backend.ChunkRequest) (*backend.ChunkResponse, error) {
		if req.ChunkIndex == 1 {
			return &backend.ChunkResponse{Success: false, Error: "storage full"}, nil
		}
		return &backend.ChunkResponse{Success: true}, nil
	}

	session := NewSession("case-1", "contact", "big.bin", PlanFor(int64(len(data))))
	_, err := NewUploader(rec).Upload(context.Background(), session, data)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rec.requests) != 2 {
		t.Fatalf("uploader sent %d chunks after rejection, want 2", len(rec.requests))
	}
}

func TestUpload_NetworkErrorIsTerminal(t *testing.T) {
	data := payloadOf(2 * ChunkSize)
	netErr := errors.New("connection reset")
	rec := &chunkRecorder{}
	rec.respond = func(req backend.ChunkRequest) (*backend.ChunkResponse, error) {
		return nil, netErr
	}

	session := NewSession("case-1", "contact", "big.bin", PlanFor(int64(len(data))))
	if _, err := NewUploader(rec).Upload(context.Background(), session, data); !errors.Is(err, netErr) {
		t.Fatalf("err = %v, want wrapped %v", err, netErr)
	}
}

func TestUpload_ProgressReportsEveryChunk(t *testing.T) {
	data := payloadOf(3*ChunkSize - 5)
	rec := &chunkRecorder{}
	rec.respond = func(req backend.ChunkRequest) (*backend.ChunkResponse, error) {
		if req.ChunkIndex == req.TotalChunks-1 {
			return &backend.ChunkResponse{Success: true, Complete: true}, nil
		}
		return &backend.ChunkResponse{Success: true}, nil
	}

	var progress [][2]int
	uploader := NewUploader(rec, WithChunkProgress(func(sent, total int) {
		progress = append(progress, [2]int{sent, total})
	}))

	session := NewSession("case-1", "contact", "big.bin", PlanFor(int64(len(data))))
	if _, err := uploader.Upload(context.Background(), session, data); err != nil {
		t.Fatalf("upload: %v", err)
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if diff := cmp.Diff(want, progress); diff != "" {
		t.Fatalf("progress (-want +got):\n%s", diff)
	}
}
