// Package imaging provides the default attachment.Compressor: a JPEG
// re-encoder that scales oversized images down and walks quality toward the
// requested byte target. Re-encoding drops EXIF metadata as a side effect.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/goliatone/go-formsubmit/pkg/attachment"
)

// Quality descent floor and step. Below the floor artifacts dominate and the
// payload is sent as-is at the floor quality.
const (
	minQuality   = 40
	qualityStep  = 10
	defaultCap   = 1920
	defaultGoal  = 700_000
	defaultStart = 80
)

// Compressor is the stdlib-backed JPEG recompressor.
type Compressor struct {
	log zerolog.Logger
}

var _ attachment.Compressor = (*Compressor)(nil)

// Option customises a Compressor.
type Option func(*Compressor)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Compressor) { c.log = log }
}

// New constructs a Compressor.
func New(options ...Option) *Compressor {
	c := &Compressor{log: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Compress decodes the image, scales it to fit opts.MaxDimension, and
// re-encodes as JPEG stepping quality down until the payload fits
// opts.TargetBytes or the quality floor is reached. The result is always
// JPEG regardless of input format.
func (c *Compressor) Compress(ctx context.Context, file attachment.File, opts attachment.CompressOptions) (attachment.File, error) {
	if err := ctx.Err(); err != nil {
		return attachment.File{}, err
	}

	src, format, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return attachment.File{}, fmt.Errorf("imaging: decode %s: %w", file.Name, err)
	}

	maxDim := opts.MaxDimension
	if maxDim <= 0 {
		maxDim = defaultCap
	}
	target := opts.TargetBytes
	if target <= 0 {
		target = defaultGoal
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = defaultStart
	}

	scaled := scaleToFit(src, maxDim)
	report(opts.OnProgress, 25)

	steps := 1 + (quality-minQuality)/qualityStep
	var buf bytes.Buffer
	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return attachment.File{}, err
		}

		buf.Reset()
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
			return attachment.File{}, fmt.Errorf("imaging: encode %s: %w", file.Name, err)
		}
		report(opts.OnProgress, 25+(step+1)*70/steps)

		if buf.Len() <= target || quality-qualityStep < minQuality {
			break
		}
		quality -= qualityStep
	}

	c.log.Debug().
		Str("file", file.Name).
		Str("format", format).
		Int("quality", quality).
		Int("in", len(file.Data)).
		Int("out", buf.Len()).
		Msg("image recompressed")
	report(opts.OnProgress, 100)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return attachment.File{
		Name: jpegName(file.Name),
		MIME: attachment.OutputMIME,
		Data: out,
	}, nil
}

// scaleToFit shrinks the image so neither side exceeds maxDim, preserving
// aspect ratio. Images already within bounds are returned untouched; the
// scaler never upsizes.
func scaleToFit(src image.Image, maxDim int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	outW, outH := w, h
	if w >= h {
		outW = maxDim
		outH = h * maxDim / w
	} else {
		outH = maxDim
		outW = w * maxDim / h
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func jpegName(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name + attachment.OutputFileExt
}

func report(fn func(percent int), percent int) {
	if fn == nil {
		return
	}
	if percent > 100 {
		percent = 100
	}
	fn(percent)
}
