package codec

import (
	"context"
	"fmt"

	"github.com/veduco/EFTSuite-Public/errs"
)

// Stub is a deterministic in-process Adapter for tests and environments
// without the NBIS binaries.
//
// EncodeWSQ produces a synthetic payload carrying the WSQ magic bytes and
// sized at bitrate bits per pixel, so the compression ladder behaves
// realistically: raw 8-bit planes shrink to bitrate/8 of their size, and
// descending bitrates yield strictly smaller files.
type Stub struct {
	// Quality is the score ScoreNFIQ reports (default 3).
	Quality int
	// FailBitrates makes EncodeWSQ fail for the listed bitrates, to
	// exercise the ladder's skip-on-error path.
	FailBitrates map[float64]bool
}

var _ Adapter = (*Stub)(nil)

// NewStub creates a stub adapter with mid-scale quality.
func NewStub() *Stub {
	return &Stub{Quality: 3}
}

// EncodeWSQ synthesizes a payload of round(pixels*bitrate/8)+2 bytes: the WSQ
// magic followed by bytes cycled from the source plane, so identical inputs
// yield identical outputs.
func (s *Stub) EncodeWSQ(_ context.Context, raw []byte, width, height, _ int, _ int, bitrate float64) ([]byte, error) {
	if s.FailBitrates[bitrate] {
		return nil, fmt.Errorf("%w: stub configured to fail at bitrate %.2f", errs.ErrCodecFailure, bitrate)
	}
	if width <= 0 || height <= 0 || len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty plane", errs.ErrCodecFailure)
	}

	pixels := width * height
	size := int(float64(pixels)*bitrate/8.0 + 0.5)
	if size < 1 {
		size = 1
	}

	out := make([]byte, 2+size)
	out[0], out[1] = 0xFF, 0xA0
	for i := range size {
		out[2+i] = raw[i%len(raw)]
	}

	return out, nil
}

// DecodeWSQ is not supported by the stub; previews degrade gracefully.
func (s *Stub) DecodeWSQ(context.Context, []byte) ([]byte, int, int, int, error) {
	return nil, 0, 0, 0, fmt.Errorf("%w: stub has no WSQ decoder", errs.ErrCodecFailure)
}

// EncodeJP2 is not supported by the stub.
func (s *Stub) EncodeJP2(context.Context, []byte, int) ([]byte, error) {
	return nil, fmt.Errorf("%w: stub has no JP2 encoder", errs.ErrCodecFailure)
}

// ScoreNFIQ reports the configured quality.
func (s *Stub) ScoreNFIQ(context.Context, []byte, int, int, int) (int, error) {
	if s.Quality == 0 {
		return 3, nil
	}

	return s.Quality, nil
}

// Validate accepts every file.
func (s *Stub) Validate(context.Context, []byte) (bool, string) {
	return true, "stub validator"
}
