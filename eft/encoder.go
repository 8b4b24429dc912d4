package eft

import (
	"context"
	"fmt"
	"strings"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/internal/pool"
	"github.com/veduco/EFTSuite-Public/record"
)

// Biographic carries the Type-2 input as "2.NNN" keys. Unknown keys are
// preserved into the record untouched; known keys pass through the
// normalization rules before serialization.
type Biographic map[string]string

// Keys with dedicated handling during Type-2 construction.
const (
	keyName   = "2.018"
	keySSN    = "2.016"
	keyDOB    = "2.022"
	keyHeight = "2.027"
	keyWeight = "2.029"
	keyReason = "2.037"
)

// buildType2 normalizes the biographic input into a Type-2 record.
func (e *Encoder) buildType2(bio Biographic, date string) (*record.Type2, error) {
	t2 := record.NewType2()
	t2.LengthIters = e.lengthIters

	t2.Name = record.CanonicalName(bio[keyName])
	if t2.Name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrInvalidInput)
	}

	dob, err := record.NormalizeDOB(bio[keyDOB])
	if err != nil {
		return nil, err
	}
	t2.DOB = dob

	t2.SSN = record.NormalizeSSN(bio[keySSN])
	if t2.SSN == "" && !e.bypassSSN {
		return nil, fmt.Errorf("%w: SSN must be 9 digits (or bypassed)", errs.ErrInvalidInput)
	}

	t2.Height = record.HeightField(bio[keyHeight])
	t2.Weight = record.WeightField(bio[keyWeight])

	t2.Reason = bio[keyReason]
	if t2.Reason == "" {
		t2.Reason = "Firearms"
	}
	t2.DateFP = date

	t2.Alias = bio["2.019"]
	t2.POB = bio["2.020"]
	t2.CTZ = bio["2.021"]
	t2.Sex = bio["2.024"]
	t2.Race = bio["2.025"]
	t2.Eye = bio["2.031"]
	t2.Hair = bio["2.032"]
	t2.Residence = bio["2.041"]
	t2.AMP = bio["2.084"]

	for key, value := range bio {
		if value == "" || !strings.HasPrefix(key, "2.") {
			continue
		}
		tag, err := encoding.ParseTag(key)
		if err != nil || knownType2Key(key) {
			continue
		}
		if t2.Extra == nil {
			t2.Extra = encoding.NewFieldMap()
		}
		t2.Extra.SetString(tag, value)
	}

	if err := t2.Validate(); err != nil {
		return nil, err
	}

	return t2, nil
}

func knownType2Key(key string) bool {
	switch key {
	case "2.001", "2.002", "2.005", keySSN, keyName, "2.019", "2.020", "2.021",
		keyDOB, "2.024", "2.025", keyHeight, keyWeight, "2.031", "2.032",
		keyReason, "2.038", "2.041", "2.073", "2.084":
		return true
	default:
		return false
	}
}

// buildTCN derives the transaction control number <YYMMDD>-<initials>-<NN>.
func (e *Encoder) buildTCN(date, canonicalName string) string {
	short := date
	if len(short) == 8 {
		short = short[2:]
	}
	seq := 1 + e.rng.Intn(99)

	return fmt.Sprintf("%s-%s-%02d", short, record.Initials(canonicalName), seq)
}

// resolutionField renders a PPI as pixels per millimeter for 1.011/1.012,
// e.g. 500 PPI -> "19.69".
func resolutionField(ppi int) string {
	return fmt.Sprintf("%05.2f", float64(ppi)/25.4)
}

// assembleFile emits the transaction: header bytes followed by each child
// record's bytes, in insertion order, with nothing before or after.
func assembleFile(ctx context.Context, t1 *record.Type1) ([]byte, error) {
	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	headerBytes, err := t1.Serialize()
	if err != nil {
		return nil, err
	}
	buf.MustWrite(headerBytes)

	for _, child := range t1.Children() {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: while serializing %s", errs.ErrCancelled, child.Type())
		}

		childBytes, err := child.Serialize()
		if err != nil {
			return nil, err
		}
		buf.MustWrite(childBytes)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// selectPositions filters and orders the asset positions a mode emits.
func (e *Encoder) selectPositions(positions []int) []int {
	var out []int
	for _, pos := range positions {
		switch e.mode {
		case format.ModeRolled:
			if pos >= 1 && pos <= 14 {
				out = append(out, pos)
			}
		default: // ModeATF
			if format.IsSlapPosition(pos) {
				out = append(out, pos)
			}
		}
	}

	return out
}
