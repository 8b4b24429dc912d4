// Package format defines the enumerated types shared across the EFT codec:
// record types, compression algorithm identifiers, finger positions,
// impression types, and generation modes.
package format

type (
	RecordType           uint8
	CompressionAlgorithm uint8
	Impression           uint8
	Mode                 uint8
)

const (
	TypeTransaction RecordType = 1  // TypeTransaction is the Type-1 transaction header.
	TypeDescriptive RecordType = 2  // TypeDescriptive is the Type-2 biographic text record.
	TypeHighResGray RecordType = 4  // TypeHighResGray is the binary Type-4 fingerprint record.
	TypeVariableRes RecordType = 14 // TypeVariableRes is the tagged Type-14 fingerprint record.
)

// CGA codes carried in the Type-4 header byte. Type-14 carries the textual
// form instead (see CompressionAlgorithm.Text).
const (
	CGANone         CompressionAlgorithm = 0
	CGAWSQ          CompressionAlgorithm = 1
	CGAJPEGBaseline CompressionAlgorithm = 2
	CGAJPEGLossless CompressionAlgorithm = 3
	CGAJP2          CompressionAlgorithm = 4
	CGAPNG          CompressionAlgorithm = 5
)

const (
	// ImpressionPlain marks plain (flat) impressions, positions 11-15.
	ImpressionPlain Impression = 0
	// ImpressionRolled marks rolled impressions, positions 1-10.
	ImpressionRolled Impression = 1
)

const (
	// ModeATF emits Type-14 records for slap positions 13/14/15.
	ModeATF Mode = iota
	// ModeRolled emits binary Type-4 records for positions 1-14.
	ModeRolled
)

func (t RecordType) String() string {
	switch t {
	case TypeTransaction:
		return "Type-1"
	case TypeDescriptive:
		return "Type-2"
	case TypeHighResGray:
		return "Type-4"
	case TypeVariableRes:
		return "Type-14"
	default:
		return "Unknown"
	}
}

func (c CompressionAlgorithm) String() string {
	switch c {
	case CGANone:
		return "None"
	case CGAWSQ:
		return "WSQ"
	case CGAJPEGBaseline:
		return "JPEG-baseline"
	case CGAJPEGLossless:
		return "JPEG-lossless"
	case CGAJP2:
		return "JP2"
	case CGAPNG:
		return "PNG"
	default:
		return "Unknown"
	}
}

// Text returns the textual CGA tag used in Type-14 field 14.011.
func (c CompressionAlgorithm) Text() string {
	switch c {
	case CGANone:
		return "NONE"
	case CGAWSQ:
		return "WSQ20"
	case CGAJPEGBaseline:
		return "JPEGB"
	case CGAJPEGLossless:
		return "JPEGL"
	case CGAJP2:
		return "JP2"
	case CGAPNG:
		return "PNG"
	default:
		return "NONE"
	}
}

// ParseCGAText maps a Type-14 14.011 value (or a stringified Type-4 code)
// back to a CompressionAlgorithm. Unknown values map to CGANone.
func ParseCGAText(s string) CompressionAlgorithm {
	switch s {
	case "1", "WSQ", "WSQ20":
		return CGAWSQ
	case "2", "JPEGB":
		return CGAJPEGBaseline
	case "3", "JPEGL":
		return CGAJPEGLossless
	case "4", "JP2":
		return CGAJP2
	case "5", "PNG":
		return CGAPNG
	default:
		return CGANone
	}
}

func (m Mode) String() string {
	switch m {
	case ModeATF:
		return "ATF"
	case ModeRolled:
		return "ROLLED"
	default:
		return "Unknown"
	}
}

// ImpressionFor derives the impression type from a finger position:
// rolled for 1-10, plain otherwise.
func ImpressionFor(position int) Impression {
	if position >= 1 && position <= 10 {
		return ImpressionRolled
	}

	return ImpressionPlain
}

// IsRolledPosition reports whether position is a rolled finger (1-10).
func IsRolledPosition(position int) bool {
	return position >= 1 && position <= 10
}

// IsPlainThumb reports whether position is a plain thumb (11 or 12).
func IsPlainThumb(position int) bool {
	return position == 11 || position == 12
}

// IsSlapPosition reports whether position is a slap impression (13-15).
func IsSlapPosition(position int) bool {
	return position >= 13 && position <= 15
}

// SlapFingers returns the finger positions a slap of the given position may
// legally contain: right slap 13 holds 2-5, left slap 14 holds 7-10, the
// thumbs slap 15 holds 1, 6, 11, 12. Other positions return nil.
func SlapFingers(position int) []int {
	switch position {
	case 13:
		return []int{2, 3, 4, 5}
	case 14:
		return []int{7, 8, 9, 10}
	case 15:
		return []int{1, 6, 11, 12}
	default:
		return nil
	}
}
