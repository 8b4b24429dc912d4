package eft

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/veduco/EFTSuite-Public/codec"
	"github.com/veduco/EFTSuite-Public/format"
)

// ExtractedImage describes one image written to disk by ExtractImages.
type ExtractedImage struct {
	Position    int
	Path        string
	PreviewPath string // empty when no preview could be produced
	Width       int
	Height      int
	CGA         string // declared value, kept as metadata
}

// ExtractImages writes each image payload into outdir as fp_<position>.<ext>,
// choosing the extension from the reconciled format (header magic wins over
// the declared CGA). A PNG preview is attempted alongside: raw planes and
// JPEG payloads decode in-process, WSQ goes through the adapter (no WSQ
// preview when adapter is nil), and PNG payloads are previews already.
//
// Preview failures are skipped silently; extraction itself only fails on
// I/O errors.
func (f *File) ExtractImages(ctx context.Context, outdir string, adapter codec.Adapter) ([]ExtractedImage, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var out []ExtractedImage
	for _, view := range f.ImageRecords() {
		imageFormat := view.ReconciledFormat()
		position := view.Position()

		path := filepath.Join(outdir, fmt.Sprintf("fp_%d.%s", position, imageFormat.Ext()))
		if err := os.WriteFile(path, view.Image, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}

		width, _ := strconv.Atoi(view.GetString(6))
		height, _ := strconv.Atoi(view.GetString(7))

		extracted := ExtractedImage{
			Position: position,
			Path:     path,
			Width:    width,
			Height:   height,
			CGA:      view.DeclaredCGA(),
		}

		if preview := f.writePreview(ctx, outdir, view, imageFormat, width, height, adapter); preview != "" {
			extracted.PreviewPath = preview
		}

		out = append(out, extracted)
	}

	return out, nil
}

// writePreview produces fp_<position>.png when a decode path exists.
func (f *File) writePreview(
	ctx context.Context,
	outdir string,
	view *View,
	imageFormat format.ImageFormat,
	width, height int,
	adapter codec.Adapter,
) string {
	position := view.Position()
	previewPath := filepath.Join(outdir, fmt.Sprintf("fp_%d.png", position))

	var img image.Image
	switch imageFormat {
	case format.ImagePNG:
		// The payload already is the preview format; the extracted file
		// doubles as the preview.
		return previewPath
	case format.ImageRaw:
		img = grayImage(view.Image, width, height)
	case format.ImageJPEG:
		decoded, err := jpeg.Decode(bytes.NewReader(view.Image))
		if err == nil {
			img = decoded
		}
	case format.ImageWSQ:
		if adapter == nil {
			return ""
		}
		raw, w, h, _, err := adapter.DecodeWSQ(ctx, view.Image)
		if err != nil {
			return ""
		}
		if w == 0 || h == 0 {
			w, h = width, height
		}
		img = grayImage(raw, w, h)
	default:
		return ""
	}

	if img == nil {
		return ""
	}

	file, err := os.Create(previewPath)
	if err != nil {
		return ""
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		os.Remove(previewPath)
		return ""
	}

	return previewPath
}

// grayImage wraps a raw plane as an image, or nil when the geometry does
// not match the buffer.
func grayImage(raw []byte, width, height int) image.Image {
	if width <= 0 || height <= 0 || len(raw) != width*height {
		return nil
	}

	return &image.Gray{
		Pix:    raw,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
}
