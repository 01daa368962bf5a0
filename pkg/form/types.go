package form

import "strings"

// FieldKind is the simplified enum of input kinds a form field can take.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTextarea FieldKind = "textarea"
	FieldKindEmail    FieldKind = "email"
	FieldKindPhone    FieldKind = "phone"
)

// CaptchaVariant names one of the three provider interaction modes. The
// variant decides the token-acquisition timing: checkbox tokens are read from
// an already-rendered widget, invisible tokens arrive through a triggered
// challenge callback, and score tokens are minted fresh on every call.
type CaptchaVariant string

const (
	CaptchaCheckbox  CaptchaVariant = "checkbox"
	CaptchaInvisible CaptchaVariant = "invisible"
	CaptchaScore     CaptchaVariant = "score"
)

// FieldSpec describes a single input inside a form. Name targets the backend
// record field, Label is display text, and Required participates in local
// validation.
type FieldSpec struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
}

// CaptchaConfig carries the CAPTCHA settings issued with a form description.
// SiteKey is the provider's public key for the embedding site.
type CaptchaConfig struct {
	Enabled bool           `json:"enabled"`
	Variant CaptchaVariant `json:"variant,omitempty"`
	SiteKey string         `json:"siteKey,omitempty"`
}

// FileUploadConfig enables the optional attachment slot. MaxBytes is the
// backend-advertised ceiling; the local attachment gate applies its own
// stricter policy constants on top.
type FileUploadConfig struct {
	Enabled  bool  `json:"enabled"`
	MaxBytes int64 `json:"maxBytes,omitempty"`
}

// Description is the declarative form document served by the backend. It is
// treated as immutable once fetched; a refresh supersedes the whole value and
// discards the previous nonce.
type Description struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Intro       string           `json:"description,omitempty"`
	Fields      []FieldSpec      `json:"fields"`
	FileUpload  FileUploadConfig `json:"fileUpload"`
	Captcha     CaptchaConfig    `json:"captcha"`
	Nonce       string           `json:"nonce"`
	SuccessText string           `json:"successText,omitempty"`
}

// Field returns the FieldSpec with the given name, or false when the
// description does not carry it.
func (d *Description) Field(name string) (FieldSpec, bool) {
	for _, spec := range d.Fields {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// CaptchaRequired reports whether a token must accompany submissions of this
// form.
func (d *Description) CaptchaRequired() bool {
	return d.Captcha.Enabled && strings.TrimSpace(d.Captcha.SiteKey) != ""
}
