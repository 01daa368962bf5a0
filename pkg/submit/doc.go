// Package submit composes validation, CAPTCHA token acquisition, attachment
// processing, and transport into the end-to-end submission pipeline. One
// Pipeline instance serves one form; each call to Submit runs a fresh
// attempt through the state machine
//
//	Validating → AcquiringCaptcha → ProcessingFile? → Submitting →
//	(Uploading → Assembling)? → Succeeded | Failed
//
// with at most one attempt in flight at a time. Both front ends — the
// self-rendering widget and callers that connect the pipeline to an existing
// form — hold a Pipeline by composition.
package submit
