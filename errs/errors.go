// Package errs defines the sentinel errors shared across the EFT codec.
//
// Errors are grouped by kind rather than by concrete type. Call sites wrap
// them with fmt.Errorf("%w: ...") to add context, and callers discriminate
// with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidInput indicates a biographic value or image asset that the
	// encoder cannot auto-correct (empty name, zero dimensions, malformed
	// field value).
	ErrInvalidInput = errors.New("invalid input")

	// ErrLengthUnstable indicates the record length solver did not reach a
	// fixed point within its iteration budget.
	ErrLengthUnstable = errors.New("unstable record length")

	// ErrCodecFailure indicates an external encoder or decoder returned a
	// non-zero status or produced no output.
	ErrCodecFailure = errors.New("codec failure")

	// ErrSizeBudgetExceeded indicates the bitrate ladder was exhausted and the
	// smallest produced file still exceeds the size ceiling. The orchestrator
	// reports it as a warning alongside the smallest file; it is not fatal.
	ErrSizeBudgetExceeded = errors.New("size budget exceeded")

	// ErrParseFailure indicates an unrecoverable decoder state: bad tag shape,
	// impossible declared length, or a truncated binary header.
	ErrParseFailure = errors.New("parse failure")

	// ErrValidation indicates the post-assembly validator rejected the file.
	// The file is still returned; the error travels on the warning channel.
	ErrValidation = errors.New("validation failed")

	// ErrCancelled indicates the operation was cancelled at a checkpoint.
	ErrCancelled = errors.New("operation cancelled")
)
