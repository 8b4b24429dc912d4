package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// CanonicalType4Size returns the pixel geometry a Type-4 record requires for
// the given finger position. ok is false for positions with no canonical
// geometry (the thumbs slap, position 15, is never emitted as Type-4).
func CanonicalType4Size(position int) (width, height int, ok bool) {
	switch {
	case position >= 1 && position <= 10:
		return 800, 750, true
	case position == 11 || position == 12:
		return 400, 572, true
	case position == 13 || position == 14:
		return 1600, 1000, true
	default:
		return 0, 0, false
	}
}

// NormalizeType4 returns an asset matching the canonical Type-4 geometry for
// its position, scaling with an averaging filter when the source disagrees.
// Assets that already match (or have no canonical geometry) are returned
// unchanged; otherwise a new asset is returned and the source is untouched.
func (a *Asset) NormalizeType4() *Asset {
	width, height, ok := CanonicalType4Size(a.Position)
	if !ok || (a.Width == width && a.Height == height) {
		return a
	}

	resized := *a
	resized.Pixels = scaleGray(a.Pixels, a.Width, a.Height, width, height)
	resized.Width = width
	resized.Height = height

	return &resized
}

// scaleGray scales a row-major 8-bit grayscale plane to dstW x dstH.
// BiLinear averages source pixels, the closest match to an area filter for
// the downscales canonical geometry normally implies.
func scaleGray(pixels []byte, srcW, srcH, dstW, dstH int) []byte {
	src := &image.Gray{
		Pix:    pixels,
		Stride: srcW,
		Rect:   image.Rect(0, 0, srcW, srcH),
	}
	dst := image.NewGray(image.Rect(0, 0, dstW, dstH))

	draw.BiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)

	return dst.Pix
}
