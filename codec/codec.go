// Package codec defines the narrow adapter through which the core reaches
// the external image codecs: WSQ encode/decode, JP2 encode, NFIQ quality
// scoring, and post-assembly validation.
//
// The real backend (NBIS) is a process-exec shim; the core depends only on
// the Adapter interface, and a deterministic Stub stands in for tests and
// environments without the NBIS binaries.
package codec

import "context"

// Adapter is the capability set the encoder and orchestrator depend on.
//
// Failure semantics: encode and decode errors are recoverable inside the
// compression ladder (the orchestrator moves to the next bitrate); Validate
// failures are warnings, never fatal.
type Adapter interface {
	// EncodeWSQ compresses a raw 8-bit grayscale plane at the given bitrate
	// (bits per pixel; 0.75 is the FBI minimum, 3.5 near-lossless).
	EncodeWSQ(ctx context.Context, raw []byte, width, height, bitDepth, ppi int, bitrate float64) ([]byte, error)

	// DecodeWSQ decompresses a WSQ payload back to raw pixels. Width,
	// height, and bit depth are recovered from the codec output when the
	// backend reports them; zero values mean the caller must supply
	// dimensions from record metadata.
	DecodeWSQ(ctx context.Context, data []byte) (raw []byte, width, height, bitDepth int, err error)

	// EncodeJP2 compresses a PNG-encoded image at the given ratio. Optional;
	// backends without a JP2 encoder return an ErrCodecFailure-wrapped error.
	EncodeJP2(ctx context.Context, png []byte, ratio int) ([]byte, error)

	// ScoreNFIQ returns the NFIQ quality score (1 best, 5 worst) for a raw
	// grayscale fingerprint plane. On error the caller records the sentinel
	// 255.
	ScoreNFIQ(ctx context.Context, raw []byte, width, height, ppi int) (int, error)

	// Validate runs a structural check over an assembled file. ok=false with
	// a message is a warning; a missing validator reports ok=true with a
	// message noting the skip.
	Validate(ctx context.Context, file []byte) (ok bool, message string)
}
