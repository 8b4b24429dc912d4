// Package hash provides content identifiers for image buffers.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given byte content. The orchestrator keys
// its per-bitrate encode cache on it, and the scratch store uses it to name
// stored assets.
func ID(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// StringID computes the xxHash64 of the given string.
func StringID(data string) uint64 {
	return xxhash.Sum64String(data)
}
