package compress

import "fmt"

// Kind identifies a lossless scratch-store codec.
type Kind uint8

const (
	KindNone Kind = 0x1 // KindNone stores planes verbatim.
	KindZstd Kind = 0x2 // KindZstd is Zstandard, the store default.
	KindS2   Kind = 0x3 // KindS2 is S2 (Snappy-compatible), fastest.
	KindLZ4  Kind = 0x4 // KindLZ4 is LZ4 block compression.
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindZstd:
		return "Zstd"
	case KindS2:
		return "S2"
	case KindLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Compressor compresses a scratch-store plane.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//     (except KindNone, which returns the input as-is)
//   - Input slice is not modified
//   - Internal encoder state may be pooled for reuse
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a scratch-store plane.
//
// The input must have been produced by the matching Compressor; corrupted or
// mismatched data returns an error.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. All implementations in this package are
// safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

// Stats records the outcome of one store write, for logging.
type Stats struct {
	Kind           Kind
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns compressed size over original size (0 when the original is
// empty; values below 1.0 indicate savings).
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

var builtinCodecs = map[Kind]Codec{
	KindNone: NewNoOpCompressor(),
	KindZstd: NewZstdCompressor(),
	KindS2:   NewS2Compressor(),
	KindLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified kind.
func GetCodec(kind Kind) (Codec, error) {
	if codec, ok := builtinCodecs[kind]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression kind: %s", kind)
}
