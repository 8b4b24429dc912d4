package record

import (
	"fmt"

	"github.com/veduco/EFTSuite-Public/endian"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
)

// Type4HeaderSize is the fixed binary header preceding the image data.
const Type4HeaderSize = 18

// fgpFill pads the unused FGP slots of the 6-byte position array.
const fgpFill = 0xFF

// Type4 is the high-resolution grayscale fingerprint record. Unlike the
// tagged records it is pure binary: an 18-byte big-endian header followed by
// the image payload, which may contain any byte values including the
// separator codes.
type Type4 struct {
	Idc        int
	Impression format.Impression
	Position   int // primary finger position, FGP[0]
	ScanRes    int // ISR, 0 = native
	Width      int // HLL
	Height     int // VLL
	CGA        format.CompressionAlgorithm
	Data       []byte // owned image payload
}

// NewType4 creates a binary fingerprint record for the given position; the
// impression type is derived from it (rolled for 1-10, plain otherwise).
func NewType4(idc, position, width, height int, cga format.CompressionAlgorithm, data []byte) *Type4 {
	return &Type4{
		Idc:        idc,
		Impression: format.ImpressionFor(position),
		Position:   position,
		Width:      width,
		Height:     height,
		CGA:        cga,
		Data:       data,
	}
}

func (t *Type4) Type() format.RecordType { return format.TypeHighResGray }

func (t *Type4) IDC() int { return t.Idc }

// DeclaredLength is always 18 + len(data); no iteration is needed because
// the length field is fixed-width binary.
func (t *Type4) DeclaredLength() (int, error) {
	return Type4HeaderSize + len(t.Data), nil
}

// Serialize packs the big-endian header and appends the image payload:
//
//	4B LEN, 1B IDC, 1B IMP, 6B FGP, 1B ISR, 2B HLL, 2B VLL, 1B CGA, DATA
func (t *Type4) Serialize() ([]byte, error) {
	engine := endian.GetBigEndianEngine()

	out := make([]byte, 0, Type4HeaderSize+len(t.Data))
	out = engine.AppendUint32(out, uint32(Type4HeaderSize+len(t.Data)))
	out = append(out, byte(t.Idc), byte(t.Impression))
	out = append(out, byte(t.Position), fgpFill, fgpFill, fgpFill, fgpFill, fgpFill)
	out = append(out, byte(t.ScanRes))
	out = engine.AppendUint16(out, uint16(t.Width))
	out = engine.AppendUint16(out, uint16(t.Height))
	out = append(out, byte(t.CGA))
	out = append(out, t.Data...)

	return out, nil
}

// ParseType4 unpacks a complete binary record claimed by the parser. data
// must span exactly the record (header plus payload). The payload slice
// references data; callers that outlive the source buffer must copy it.
func ParseType4(data []byte) (*Type4, error) {
	if len(data) < Type4HeaderSize {
		return nil, fmt.Errorf("%w: truncated binary header (%d bytes)", errs.ErrParseFailure, len(data))
	}

	// The parser frames the record from the declared length before calling
	// here, clipping at EOF within the accepted tolerance, so the header is
	// not re-checked against len(data).
	engine := endian.GetBigEndianEngine()

	return &Type4{
		Idc:        int(data[4]),
		Impression: format.Impression(data[5]),
		Position:   int(data[6]),
		ScanRes:    int(data[12]),
		Width:      int(engine.Uint16(data[13:15])),
		Height:     int(engine.Uint16(data[15:17])),
		CGA:        format.CompressionAlgorithm(data[17]),
		Data:       data[Type4HeaderSize:],
	}, nil
}
