package attachment

import (
	"context"

	"github.com/rs/zerolog"
)

// Compression policy defaults. MaxDimension bounds the decoded image so
// pathological inputs cannot exhaust memory on constrained devices.
const (
	TargetBytes   = 700_000
	MaxDimension  = 1920
	StartQuality  = 80
	OutputMIME    = "image/jpeg"
	OutputFileExt = ".jpg"
)

// CompressOptions instructs a Compressor. Re-encoding must strip EXIF
// metadata and force the broadly compatible JPEG output format.
type CompressOptions struct {
	TargetBytes  int
	MaxDimension int
	Quality      int
	OnProgress   func(percent int)
}

// Compressor shrinks an image toward the target size. Implementations return
// the recompressed file; the default JPEG compressor lives in
// internal/imaging.
type Compressor interface {
	Compress(ctx context.Context, file File, opts CompressOptions) (File, error)
}

// Optimizer conditionally recompresses oversized images. Non-images and
// images already at or under the target pass through untouched, and a
// compression failure degrades gracefully to the original file rather than
// failing the submission.
type Optimizer struct {
	compressor Compressor
	log        zerolog.Logger
	onProgress func(percent int)
}

// OptimizerOption customises an Optimizer.
type OptimizerOption func(*Optimizer)

// WithOptimizerLogger attaches a logger; the default discards everything.
func WithOptimizerLogger(log zerolog.Logger) OptimizerOption {
	return func(o *Optimizer) { o.log = log }
}

// WithProgress surfaces compression progress as a percentage for UI feedback.
func WithProgress(fn func(percent int)) OptimizerOption {
	return func(o *Optimizer) { o.onProgress = fn }
}

// NewOptimizer wraps the given compressor. A nil compressor turns Optimize
// into a pass-through.
func NewOptimizer(compressor Compressor, options ...OptimizerOption) *Optimizer {
	o := &Optimizer{
		compressor: compressor,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Optimize returns the file to transfer: the original when no compression is
// needed or possible, otherwise the recompressed copy.
func (o *Optimizer) Optimize(ctx context.Context, file File) File {
	if o.compressor == nil || Classify(file) != ClassImage || file.Size() <= TargetBytes {
		return file
	}

	out, err := o.compressor.Compress(ctx, file, CompressOptions{
		TargetBytes:  TargetBytes,
		MaxDimension: MaxDimension,
		Quality:      StartQuality,
		OnProgress:   o.onProgress,
	})
	if err != nil {
		o.log.Warn().Err(err).Str("file", file.Name).Msg("image compression failed, sending original")
		return file
	}

	o.log.Debug().
		Str("file", file.Name).
		Int64("original_bytes", file.Size()).
		Int64("compressed_bytes", out.Size()).
		Msg("image recompressed")
	return out
}
