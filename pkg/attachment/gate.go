// Package attachment classifies candidate file attachments, enforces the
// local size policy, and conditionally recompresses oversized images before
// transfer. The size ceilings here are client policy constants, deliberately
// independent of whatever limit the form description advertises.
package attachment

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Class buckets a candidate attachment for policy decisions.
type Class string

const (
	ClassImage       Class = "image"
	ClassDocument    Class = "document"
	ClassUnsupported Class = "unsupported"
)

// Size ceilings applied by CheckSize. Images get a generous pre-compression
// ceiling because the optimizer shrinks them before transfer; everything else
// is capped at what a handful of chunked requests can carry comfortably.
const (
	MaxImageBytes    = 25 << 20 // 25 MiB, before compression
	MaxDocumentBytes = 4 << 20  // 4 MiB
)

// File is a candidate attachment held in memory for the duration of one
// submission attempt.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Size returns the payload length in bytes.
func (f File) Size() int64 { return int64(len(f.Data)) }

// TooLargeError reports a file over the ceiling for its class.
type TooLargeError struct {
	Class Class
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("attachment: %s of %d bytes exceeds the %d byte limit", e.Class, e.Size, e.Limit)
}

// UnsupportedTypeError reports a file the gate refuses regardless of size.
type UnsupportedTypeError struct {
	Name string
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("attachment: unsupported file type %q (%s)", e.Name, e.MIME)
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".heic": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".m4v": {}, ".wmv": {},
}

// Classify buckets the file by declared MIME type, falling back to the
// filename extension when the type is absent or the generic octet-stream.
// Any video type is unsupported regardless of size.
func Classify(file File) Class {
	mime := strings.ToLower(strings.TrimSpace(file.MIME))
	switch {
	case strings.HasPrefix(mime, "video/"):
		return ClassUnsupported
	case strings.HasPrefix(mime, "image/"):
		return ClassImage
	case mime != "" && mime != "application/octet-stream":
		return ClassDocument
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	if _, ok := videoExtensions[ext]; ok {
		return ClassUnsupported
	}
	if _, ok := imageExtensions[ext]; ok {
		return ClassImage
	}
	return ClassDocument
}

// CheckSize enforces the per-class ceiling. Unsupported classes fail with
// UnsupportedTypeError before any size comparison.
func CheckSize(file File, class Class) error {
	switch class {
	case ClassImage:
		if file.Size() > MaxImageBytes {
			return &TooLargeError{Class: class, Size: file.Size(), Limit: MaxImageBytes}
		}
	case ClassDocument:
		if file.Size() > MaxDocumentBytes {
			return &TooLargeError{Class: class, Size: file.Size(), Limit: MaxDocumentBytes}
		}
	default:
		return &UnsupportedTypeError{Name: file.Name, MIME: file.MIME}
	}
	return nil
}
