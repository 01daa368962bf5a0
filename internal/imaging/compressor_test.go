package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/goliatone/go-formsubmit/pkg/attachment"
)

func renderPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x ^ y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestCompress_ScalesOversizedImages(t *testing.T) {
	file := attachment.File{Name: "photo.png", MIME: "image/png", Data: renderPNG(t, 400, 100)}

	out, err := New().Compress(context.Background(), file, attachment.CompressOptions{
		TargetBytes:  1 << 20,
		MaxDimension: 200,
		Quality:      80,
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("output format = %q, want jpeg", format)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 50 {
		t.Fatalf("output bounds = %dx%d, want 200x50", bounds.Dx(), bounds.Dy())
	}
	if out.Name != "photo.jpg" || out.MIME != "image/jpeg" {
		t.Fatalf("output identity = %q %q, want photo.jpg image/jpeg", out.Name, out.MIME)
	}
}

func TestCompress_KeepsSmallDimensions(t *testing.T) {
	file := attachment.File{Name: "icon.png", MIME: "image/png", Data: renderPNG(t, 64, 64)}

	out, err := New().Compress(context.Background(), file, attachment.CompressOptions{
		TargetBytes:  1 << 20,
		MaxDimension: 1920,
		Quality:      80,
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("bounds changed to %v, scaler must never upsize or shrink in-bounds images", img.Bounds())
	}
}

func TestCompress_QualityDescendsTowardTarget(t *testing.T) {
	file := attachment.File{Name: "noise.png", MIME: "image/png", Data: renderPNG(t, 512, 512)}

	// Encode once at the starting quality to know the undershoot baseline.
	img, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	var baseline bytes.Buffer
	if err := jpeg.Encode(&baseline, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode baseline: %v", err)
	}

	// A target below the baseline forces at least one quality step down.
	out, err := New().Compress(context.Background(), file, attachment.CompressOptions{
		TargetBytes:  baseline.Len() / 2,
		MaxDimension: 1920,
		Quality:      80,
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(out.Data) >= baseline.Len() {
		t.Fatalf("output %d bytes did not descend below the quality-80 baseline %d", len(out.Data), baseline.Len())
	}
}

func TestCompress_ProgressReachesCompletion(t *testing.T) {
	file := attachment.File{Name: "photo.png", MIME: "image/png", Data: renderPNG(t, 128, 128)}

	var percents []int
	_, err := New().Compress(context.Background(), file, attachment.CompressOptions{
		TargetBytes:  1 << 20,
		MaxDimension: 1920,
		Quality:      80,
		OnProgress:   func(p int) { percents = append(percents, p) },
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("progress = %v, want a final report of 100", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress went backwards: %v", percents)
		}
	}
}

func TestCompress_RejectsNonImages(t *testing.T) {
	file := attachment.File{Name: "notes.txt", MIME: "text/plain", Data: []byte("hello")}

	if _, err := New().Compress(context.Background(), file, attachment.CompressOptions{}); err == nil {
		t.Fatal("expected a decode error for non-image data")
	}
}
