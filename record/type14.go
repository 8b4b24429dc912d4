package record

import (
	"strconv"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/imaging"
)

// Fixed Type-14 field values for FD-258 style transmissions.
const (
	DefaultScaleUnits = "1"    // 14.008 SLC, pixels per inch
	DefaultPixelScale = "2400" // 14.009/14.010 THPS/TVPS
	DefaultBitsPerPel = "8"    // 14.012 BPX
)

// Type14 is the variable-resolution tagged fingerprint record. The image
// payload travels under 14.999 and may legally contain separator bytes; the
// tagged serializer writes it verbatim.
type Type14 struct {
	Idc         int
	Impression  format.Impression
	Source      string // 14.004 SRC, originating agency
	CaptureDate string // 14.005 FCD, YYYYMMDD
	Width       int    // 14.006 HLL
	Height      int    // 14.007 VLL
	ScaleUnits  string // 14.008 SLC
	HPS         string // 14.009 THPS
	VPS         string // 14.010 TVPS
	CGA         format.CompressionAlgorithm // 14.011, serialized textually
	BitDepth    string // 14.012 BPX
	Position    int    // 14.013 FGP
	Segments    []imaging.Segment
	Image       []byte // owned payload, 14.999

	// LengthIters overrides the length-solver budget; 0 means default.
	LengthIters int
}

// NewType14 creates a tagged fingerprint record for a slap or plain
// impression at the given position.
func NewType14(idc, position int, captureDate string) *Type14 {
	return &Type14{
		Idc:         idc,
		Impression:  format.ImpressionFor(position),
		Source:      DefaultORI,
		CaptureDate: captureDate,
		ScaleUnits:  DefaultScaleUnits,
		HPS:         DefaultPixelScale,
		VPS:         DefaultPixelScale,
		BitDepth:    DefaultBitsPerPel,
		Position:    position,
	}
}

func (t *Type14) Type() format.RecordType { return format.TypeVariableRes }

func (t *Type14) IDC() int { return t.Idc }

// segmentPositions builds 14.021: per segment n<US>x1<US>x2<US>y1<US>y2,
// segments separated by RS.
func (t *Type14) segmentPositions() []byte {
	var out []byte
	for i, seg := range t.Segments {
		if i > 0 {
			out = append(out, encoding.RS)
		}
		out = appendItems(out,
			strconv.Itoa(seg.Position),
			strconv.Itoa(seg.X1), strconv.Itoa(seg.X2),
			strconv.Itoa(seg.Y1), strconv.Itoa(seg.Y2))
	}

	return out
}

// segmentQuality builds 14.023/14.024: per segment n<US>score<US>org<US>alg,
// with plain thumbs reporting under standard positions.
func (t *Type14) segmentQuality() []byte {
	var out []byte
	for i, seg := range t.Segments {
		if i > 0 {
			out = append(out, encoding.RS)
		}
		score := seg.Quality
		if score == 0 {
			score = imaging.QualityUnscored
		}
		out = appendItems(out,
			strconv.Itoa(seg.QualityPosition()),
			strconv.Itoa(score),
			imaging.QualityOrgID,
			imaging.QualityAlgID)
	}

	return out
}

func appendItems(dst []byte, items ...string) []byte {
	for i, item := range items {
		if i > 0 {
			dst = append(dst, encoding.US)
		}
		dst = append(dst, item...)
	}

	return dst
}

func (t *Type14) fieldMap(lengthValue string) *encoding.FieldMap {
	m := encoding.NewFieldMap()
	m.SetString(encoding.NewTag(14, 1), lengthValue)
	m.SetString(encoding.NewTag(14, 2), strconv.Itoa(t.Idc))
	m.SetString(encoding.NewTag(14, 3), strconv.Itoa(int(t.Impression)))
	m.SetString(encoding.NewTag(14, 4), t.Source)
	m.SetString(encoding.NewTag(14, 5), t.CaptureDate)
	m.SetString(encoding.NewTag(14, 6), strconv.Itoa(t.Width))
	m.SetString(encoding.NewTag(14, 7), strconv.Itoa(t.Height))
	m.SetString(encoding.NewTag(14, 8), t.ScaleUnits)
	m.SetString(encoding.NewTag(14, 9), t.HPS)
	m.SetString(encoding.NewTag(14, 10), t.VPS)
	m.SetString(encoding.NewTag(14, 11), t.CGA.Text())
	m.SetString(encoding.NewTag(14, 12), t.BitDepth)
	m.SetString(encoding.NewTag(14, 13), strconv.Itoa(t.Position))
	if len(t.Segments) > 0 {
		m.Set(encoding.NewTag(14, 21), t.segmentPositions())
		m.Set(encoding.NewTag(14, 23), t.segmentQuality())
		m.Set(encoding.NewTag(14, 24), t.segmentQuality())
	}
	m.Set(encoding.NewTag(14, 999), t.Image)

	return m
}

// Serialize produces the record bytes with the 001 length field resolved.
// The image payload is written once per solver round; rounds are bounded so
// the cost stays at a handful of copies.
func (t *Type14) Serialize() ([]byte, error) {
	data, _, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return data, err
}

// DeclaredLength returns the solved 14.001 value.
func (t *Type14) DeclaredLength() (int, error) {
	_, size, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return size, err
}
