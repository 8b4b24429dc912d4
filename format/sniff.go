package format

import "bytes"

// ImageFormat identifies the actual payload format detected from magic bytes,
// independent of the CGA value a record declares.
type ImageFormat uint8

const (
	ImageRaw  ImageFormat = iota // no recognizable header; treated as raw pixels
	ImageWSQ                     // FF A0 start-of-image marker
	ImageJPEG                    // FF D8 start-of-image marker
	ImageJP2                     // signature box, or "jP  " brand at offset 4
	ImagePNG                     // 89 50 4E 47 0D 0A 1A 0A
)

var (
	wsqMagic  = []byte{0xFF, 0xA0}
	jpegMagic = []byte{0xFF, 0xD8}
	jp2Magic  = []byte{0x00, 0x00, 0x00, 0x0C}
	jp2Brand  = []byte("jP  ")
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// DetectImageFormat sniffs the payload's magic bytes. When the detected
// format disagrees with a record's declared CGA, the detected format wins;
// the declared value is kept only as metadata.
func DetectImageFormat(data []byte) ImageFormat {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return ImagePNG
	case bytes.HasPrefix(data, jp2Magic), len(data) >= 8 && bytes.Equal(data[4:8], jp2Brand):
		return ImageJP2
	case bytes.HasPrefix(data, wsqMagic):
		return ImageWSQ
	case bytes.HasPrefix(data, jpegMagic):
		return ImageJPEG
	default:
		return ImageRaw
	}
}

func (f ImageFormat) String() string {
	switch f {
	case ImageWSQ:
		return "WSQ"
	case ImageJPEG:
		return "JPEG"
	case ImageJP2:
		return "JP2"
	case ImagePNG:
		return "PNG"
	default:
		return "Raw"
	}
}

// Ext returns the file extension used when extracting an image payload.
func (f ImageFormat) Ext() string {
	switch f {
	case ImageWSQ:
		return "wsq"
	case ImageJPEG:
		return "jpg"
	case ImageJP2:
		return "jp2"
	case ImagePNG:
		return "png"
	default:
		return "raw"
	}
}

// CGA returns the Type-4 header code matching the detected format.
func (f ImageFormat) CGA() CompressionAlgorithm {
	switch f {
	case ImageWSQ:
		return CGAWSQ
	case ImageJPEG:
		return CGAJPEGBaseline
	case ImageJP2:
		return CGAJP2
	case ImagePNG:
		return CGAPNG
	default:
		return CGANone
	}
}
