//go:build gozstd

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses the plane using the cgo Zstandard backend.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress restores a plane using the cgo Zstandard backend.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
