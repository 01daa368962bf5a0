// Package transfer moves an attachment to the backend under its small
// per-request limit. Payloads at or under the chunk size travel inline with
// the record submission; anything larger is streamed afterwards as a strictly
// sequential series of bounded chunks, with server-side assembly tracked by a
// bounded polling loop.
package transfer

// ChunkSize is the raw per-request payload bound in bytes. It doubles as the
// single-request threshold: payloads at or under it are sent inline.
const ChunkSize = 750_000

// Plan decides how an attachment travels.
type Plan struct {
	Chunked     bool
	TotalChunks int
}

// PlanFor returns the transfer plan for a payload of the given size. Sizes at
// or below ChunkSize go as one inline request; larger payloads are split into
// ceil(size/ChunkSize) chunks sent against the record created by a file-less
// submission.
func PlanFor(size int64) Plan {
	if size <= ChunkSize {
		return Plan{}
	}
	return Plan{
		Chunked:     true,
		TotalChunks: int((size + ChunkSize - 1) / ChunkSize),
	}
}
