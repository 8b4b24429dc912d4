package eft

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/veduco/EFTSuite-Public/codec"
	"github.com/veduco/EFTSuite-Public/compress"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/internal/options"
	"github.com/veduco/EFTSuite-Public/logging"
)

const (
	// DefaultSizeCeiling is the hard byte ceiling (~11.2 MiB) the
	// transmission endpoint accepts.
	DefaultSizeCeiling = 11744051

	// DefaultScratchRoot holds the per-operation scratch directories.
	DefaultScratchRoot = "/tmp/eftsuite"
)

// DefaultBitrateLadder is the WSQ ladder, high quality first; 0.75 is the
// FBI minimum.
var DefaultBitrateLadder = []float64{3.5, 3.0, 2.5, 2.0, 1.5, 1.0, 0.75}

// Clock supplies the operation timestamp as "YYYYMMDD:HHMMSS". Injectable
// for deterministic encoding.
type Clock func() string

// defaultClock backs off one day: the transmission endpoint works on GMT and
// rejects dates at or past the current day.
func defaultClock() string {
	return time.Now().AddDate(0, 0, -1).Format("20060102:150405")
}

// Encoder builds EFT files. Create with NewEncoder; a single Encoder may run
// any number of sequential operations, but is not safe for concurrent use.
type Encoder struct {
	mode        format.Mode
	sizeCeiling int
	ladder      []float64
	lengthIters int
	bypassSSN   bool
	clock       Clock
	rng         *rand.Rand
	adapter     codec.Adapter
	logger      *logging.Logger
	scratchRoot string
	storeKind   compress.Kind
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// NewEncoder creates an encoder with the given options. Defaults: ATF mode,
// the standard size ceiling and bitrate ladder, the NBIS codec adapter, and
// a discarding logger.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{
		mode:        format.ModeATF,
		sizeCeiling: DefaultSizeCeiling,
		ladder:      DefaultBitrateLadder,
		clock:       defaultClock,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logging.DefaultLogger(),
		scratchRoot: DefaultScratchRoot,
		storeKind:   compress.KindZstd,
	}

	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// WithMode selects ATF (Type-14, slap positions) or ROLLED (Type-4,
// positions 1-14) generation.
func WithMode(mode format.Mode) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.mode = mode
	})
}

// WithSizeCeiling overrides the hard byte ceiling.
func WithSizeCeiling(ceiling int) EncoderOption {
	return options.New(func(e *Encoder) error {
		if ceiling <= 0 {
			return fmt.Errorf("%w: size ceiling must be positive, got %d", errs.ErrInvalidInput, ceiling)
		}
		e.sizeCeiling = ceiling

		return nil
	})
}

// WithBitrateLadder overrides the WSQ bitrates tried after the uncompressed
// attempt, in order.
func WithBitrateLadder(ladder []float64) EncoderOption {
	return options.New(func(e *Encoder) error {
		if len(ladder) == 0 {
			return fmt.Errorf("%w: bitrate ladder is empty", errs.ErrInvalidInput)
		}
		for _, rate := range ladder {
			if rate <= 0 {
				return fmt.Errorf("%w: bitrate %v is not positive", errs.ErrInvalidInput, rate)
			}
		}
		e.ladder = append([]float64(nil), ladder...)

		return nil
	})
}

// WithLengthSolverIters overrides the tagged-record length solver budget.
func WithLengthSolverIters(iters int) EncoderOption {
	return options.New(func(e *Encoder) error {
		if iters <= 0 {
			return fmt.Errorf("%w: solver iterations must be positive, got %d", errs.ErrInvalidInput, iters)
		}
		e.lengthIters = iters

		return nil
	})
}

// WithBypassSSN permits an empty SSN in the Type-2 record.
func WithBypassSSN(bypass bool) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.bypassSSN = bypass
	})
}

// WithClock injects the time source.
func WithClock(clock Clock) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.clock = clock
	})
}

// WithRand injects the RNG used for the TCN sequence number.
func WithRand(rng *rand.Rand) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.rng = rng
	})
}

// WithCodec injects the external codec adapter. Without it the encoder
// creates an NBIS shim rooted in the operation's scratch directory.
func WithCodec(adapter codec.Adapter) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.adapter = adapter
	})
}

// WithLogger injects the logger.
func WithLogger(logger *logging.Logger) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.logger = logger
	})
}

// WithScratchRoot overrides where per-operation scratch directories live.
func WithScratchRoot(root string) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.scratchRoot = root
	})
}

// WithStoreCompression selects the lossless codec for the scratch plane
// store.
func WithStoreCompression(kind compress.Kind) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.storeKind = kind
	})
}
