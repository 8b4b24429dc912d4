// Package eftsuite reads, writes, and round-trips Electronic Fingerprint
// Transmission (EFT) files conforming to the ANSI/NIST-ITL tagged-field
// standard used by ATF/CJIS fingerprint submissions.
//
// # Core Features
//
//   - Byte-exact assembly of Type-1/Type-2/Type-4/Type-14 records, with the
//     self-referential length fields resolved by fixed-point iteration
//   - A streaming parser that disambiguates tagged records from
//     length-prefixed binary records and tolerates separator bytes inside
//     image payloads
//   - A size-adaptive compression ladder (uncompressed, then WSQ at
//     descending bitrates) driven against a hard byte ceiling
//   - A narrow adapter to the external NBIS codecs (cwsq/dwsq/nfiq/chkan2k)
//     with a deterministic stub for tests
//   - Image extraction with magic-byte format reconciliation and optional
//     PNG previews
//
// # Basic Usage
//
// Encoding a transmission:
//
//	enc, _ := eftsuite.NewEncoder(
//	    eft.WithMode(format.ModeATF),
//	    eft.WithCodec(codec.NewStub()),
//	)
//	result, err := enc.Encode(ctx, eft.Biographic{
//	    "2.018": "Doe, Jane",
//	    "2.022": "1990-01-01",
//	    "2.016": "123456789",
//	}, assets)
//
// Parsing one back:
//
//	file, err := eftsuite.Parse(result.Data)
//	fmt.Print(file.Dump())
//	file.ExtractImages(ctx, outdir, adapter)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the eft
// package, which holds the encoder, parser, and compression orchestrator.
// The record, encoding, codec, imaging, and scratch packages expose the
// lower layers for fine-grained control.
package eftsuite

import (
	"time"

	"github.com/veduco/EFTSuite-Public/eft"
	"github.com/veduco/EFTSuite-Public/logging"
	"github.com/veduco/EFTSuite-Public/scratch"
)

// NewEncoder creates an EFT encoder. See eft.EncoderOption for the available
// options; defaults are ATF mode, the standard ~11.2 MiB ceiling, and the
// NBIS codec adapter.
func NewEncoder(opts ...eft.EncoderOption) (*eft.Encoder, error) {
	return eft.NewEncoder(opts...)
}

// NewParser creates an EFT parser.
func NewParser(opts ...eft.ParserOption) (*eft.Parser, error) {
	return eft.NewParser(opts...)
}

// Parse decodes a complete EFT file into its record views.
func Parse(data []byte) (*eft.File, error) {
	return eft.Parse(data)
}

// SweepScratch removes per-operation scratch directories older than maxAge
// under the default scratch root. Run it from the process's single
// background sweeper.
func SweepScratch(maxAge time.Duration, logger *logging.Logger) (int, error) {
	return scratch.Sweep(eft.DefaultScratchRoot, maxAge, logger)
}
