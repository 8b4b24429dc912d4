package compress

// ZstdCompressor is the default scratch-store codec. Grayscale fingerprint
// planes carry long flat background runs and compress well at the default
// level; decompression cost is paid once per ladder retry.
//
// Two backends exist: a pure-Go implementation (klauspost/compress, the
// default) and a cgo implementation (valyala/gozstd) selected with the
// gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
