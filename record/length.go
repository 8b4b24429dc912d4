package record

import (
	"fmt"
	"strconv"

	"github.com/veduco/EFTSuite-Public/errs"
)

// DefaultLengthIters caps the fixed-point iteration. The length value is
// monotonically non-decreasing in digit count and bounded by a few digit
// widths, so realistic records converge within 4 rounds; the fifth is
// safety margin.
const DefaultLengthIters = 5

// SolveLength resolves the self-referential 001 length field of a tagged
// record. build must serialize the full record with the candidate length
// value in place; the iteration stops when the serialized size equals the
// candidate.
//
// maxIters <= 0 selects DefaultLengthIters. If no fixed point is found the
// record fails to serialize with ErrLengthUnstable.
func SolveLength(build func(lengthValue string) []byte, maxIters int) ([]byte, int, error) {
	if maxIters <= 0 {
		maxIters = DefaultLengthIters
	}

	candidate := "1"
	for range maxIters {
		data := build(candidate)
		size := len(data)
		if strconv.Itoa(size) == candidate {
			return data, size, nil
		}
		candidate = strconv.Itoa(size)
	}

	return nil, 0, fmt.Errorf("%w: no fixed point within %d iterations", errs.ErrLengthUnstable, maxIters)
}
