package transfer

import "github.com/google/uuid"

// Session is the transient state of one chunked upload. It exists from the
// first chunk until completion or terminal failure and is never reused.
type Session struct {
	// ID identifies this upload attempt in logs.
	ID string
	// CaseID is the record created by the initial file-less submission.
	CaseID string
	// FormID scopes the upload server-side.
	FormID string
	// FileName names the attachment being assembled.
	FileName string
	// TotalChunks is announced to the backend on every chunk.
	TotalChunks int
	// UploadKey is issued by the backend and echoed on subsequent calls.
	UploadKey string
}

// NewSession starts a session for the given record and plan.
func NewSession(caseID, formID, fileName string, plan Plan) *Session {
	return &Session{
		ID:          uuid.NewString(),
		CaseID:      caseID,
		FormID:      formID,
		FileName:    fileName,
		TotalChunks: plan.TotalChunks,
	}
}
