// Package compress provides the lossless codecs used by the scratch asset
// store. Raw fingerprint buffers are 8-bit grayscale planes that run from a
// few hundred KiB (plain thumbs) to several MiB (slaps); operations persist
// them compressed between ladder retries rather than keeping every plane
// resident.
//
// These codecs are internal storage plumbing and are unrelated to the CGA
// image compression carried inside an EFT file; WSQ and JP2 encoding happens
// in the codec package through the external adapter.
package compress
