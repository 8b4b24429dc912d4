// Package imaging defines the image asset model handed to the encoder:
// raw 8-bit grayscale pixel buffers with capture metadata, per-finger
// segmentation for slaps, and the canonical Type-4 pixel geometry.
package imaging

import (
	"fmt"

	"github.com/veduco/EFTSuite-Public/errs"
)

const (
	// DefaultPPI is the nominal capture resolution.
	DefaultPPI = 500
	// MinConformantPPI is the lowest resolution accepted without a warning.
	MinConformantPPI = 490
	// DefaultBitDepth is bits per pixel for grayscale capture.
	DefaultBitDepth = 8

	// NFIQ quality-block identifiers for NFIQv1.
	QualityOrgID = "15"
	QualityAlgID = "14205"

	// QualityUnscored is carried when NFIQ scoring failed or was skipped.
	QualityUnscored = 255
)

// Segment is one finger located inside a slap image: its position code, the
// bounding box in source pixel coordinates, and its NFIQ score.
type Segment struct {
	Position int // finger position 1-12
	X1       int // left
	X2       int // right
	Y1       int // top
	Y2       int // bottom
	Quality  int // NFIQ 1-5, QualityUnscored on failure, 0 when not yet scored
}

// QualityPosition returns the position code used in quality subfields.
// Plain thumbs 11/12 report under standard positions 1/6.
func (s Segment) QualityPosition() int {
	switch s.Position {
	case 11:
		return 1
	case 12:
		return 6
	default:
		return s.Position
	}
}

// Asset is one grayscale fingerprint image to be encoded, owned by a single
// operation. Pixels is row-major, 8-bit, Width*Height bytes.
type Asset struct {
	Pixels   []byte
	Width    int
	Height   int
	PPI      int
	BitDepth int
	Position int // finger position code 1-15
	Segments []Segment
}

// NewAsset creates an asset with default resolution and bit depth.
func NewAsset(pixels []byte, width, height, position int) *Asset {
	return &Asset{
		Pixels:   pixels,
		Width:    width,
		Height:   height,
		PPI:      DefaultPPI,
		BitDepth: DefaultBitDepth,
		Position: position,
	}
}

// Validate checks the asset invariants the encoder depends on.
func (a *Asset) Validate() error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("%w: image dimensions %dx%d for position %d", errs.ErrInvalidInput, a.Width, a.Height, a.Position)
	}
	if len(a.Pixels) != a.Width*a.Height {
		return fmt.Errorf("%w: pixel buffer is %d bytes, want %d for %dx%d",
			errs.ErrInvalidInput, len(a.Pixels), a.Width*a.Height, a.Width, a.Height)
	}
	if a.Position < 1 || a.Position > 15 {
		return fmt.Errorf("%w: finger position %d out of range", errs.ErrInvalidInput, a.Position)
	}

	return nil
}

// Conformant reports whether the capture resolution meets the transmission
// minimum. Non-conformant assets are still encoded; callers log a warning.
func (a *Asset) Conformant() bool {
	return a.PPI >= MinConformantPPI
}

// CropSegment copies the segment's bounding box out of the plane for
// per-finger quality scoring. The box is clamped to the image bounds; an
// empty intersection yields a zero width or height.
func (a *Asset) CropSegment(seg Segment) (pixels []byte, width, height int) {
	x1, y1 := max(seg.X1, 0), max(seg.Y1, 0)
	x2, y2 := min(seg.X2, a.Width), min(seg.Y2, a.Height)
	if x2 <= x1 || y2 <= y1 {
		return nil, 0, 0
	}

	width, height = x2-x1, y2-y1
	pixels = make([]byte, 0, width*height)
	for y := y1; y < y2; y++ {
		row := a.Pixels[y*a.Width:]
		pixels = append(pixels, row[x1:x2]...)
	}

	return pixels, width, height
}
