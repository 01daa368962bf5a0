package submit

// State identifies a stage of the submission state machine.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateAcquiringCaptcha State = "acquiring_captcha"
	StateProcessingFile   State = "processing_file"
	StateSubmitting       State = "submitting"
	StateUploading        State = "uploading"
	StateAssembling       State = "assembling"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// FailureKind classifies a terminal failure for the caller.
type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureFile       FailureKind = "file"
	FailureCaptcha    FailureKind = "captcha"
	FailureBackend    FailureKind = "backend"
	FailureNetwork    FailureKind = "network"
)

// User-facing messages for failures the backend cannot phrase itself.
const (
	MessageCaptchaIncomplete = "Please complete the verification challenge before submitting."
	MessageCaptchaFailed     = "Verification is unavailable right now. Please try again."
	MessageNetworkError      = "We couldn't reach the server. Please check your connection and try again."
	MessageGenericError      = "Something went wrong while submitting the form. Please try again."
)

// Warnings attached to a successful submission whose attachment did not make
// it all the way. The record always survives these.
const (
	WarningUploadFailed    = "Your submission was received, but the attachment could not be uploaded."
	WarningAssemblyFailed  = "Your submission was received, but the attachment could not be processed."
	WarningAssemblyDelayed = "Your submission was received. The attachment is still being processed."
)
