package eft

import (
	"context"
	"fmt"
	"strconv"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/record"
)

// Rebuild re-encodes the parsed file with the given Type-2 updates applied.
// Files are immutable once written; an edit is parse, mutate the field map,
// re-encode.
//
// Fingerprint records survive with their image bytes untouched; IDCs are
// reassigned sequentially, and CNT and every length field are recomputed.
// Update keys are "2.NNN" tags; values are written as provided.
func (f *File) Rebuild(ctx context.Context, updates map[string]string) ([]byte, error) {
	if len(f.Records) == 0 || f.Records[0].RecordType != format.TypeTransaction {
		return nil, fmt.Errorf("%w: no Type-1 record to rebuild from", errs.ErrParseFailure)
	}

	t1 := rebuildType1(f.Records[0])

	t2View := f.Type2()
	if t2View == nil {
		return nil, fmt.Errorf("%w: no Type-2 record to rebuild from", errs.ErrParseFailure)
	}

	merged := t2View.Fields.Clone()
	for key, value := range updates {
		tag, err := encoding.ParseTag(key)
		if err != nil || tag.Type != 2 {
			return nil, fmt.Errorf("%w: update key %q is not a Type-2 tag", errs.ErrInvalidInput, key)
		}
		merged.SetString(tag, value)
	}

	t2 := record.NewType2()
	t2.FromFields(merged)
	t1.AddChild(t2)

	idc := t2.IDC() + 1
	for _, view := range f.Records {
		switch view.RecordType {
		case format.TypeTransaction, format.TypeDescriptive:
			continue
		case format.TypeHighResGray:
			t4, err := rebuildType4(view, idc)
			if err != nil {
				return nil, err
			}
			t1.AddChild(t4)
		default:
			t1.AddChild(record.NewTagged(view.RecordType, idc, view.Fields))
		}
		idc++
	}

	return assembleFile(ctx, t1)
}

// rebuildType1 reconstructs the header record from its parsed fields,
// preserving the original transaction identity.
func rebuildType1(view *View) *record.Type1 {
	t1 := record.NewType1(view.GetString(5))

	if v := view.GetString(2); v != "" {
		t1.Version = v
	}
	if v := view.GetString(4); v != "" {
		t1.TOT = v
	}
	if v, err := strconv.Atoi(view.GetString(6)); err == nil {
		t1.Priority = v
	}
	if v := view.GetString(7); v != "" {
		t1.DAI = v
	}
	if v := view.GetString(8); v != "" {
		t1.ORI = v
	}
	if v := view.GetString(9); v != "" {
		t1.TCN = v
	}
	if v := view.GetString(11); v != "" {
		t1.NSR = v
	}
	if v := view.GetString(12); v != "" {
		t1.NTR = v
	}

	return t1
}

// rebuildType4 reconstitutes a binary record from the uniform tag view.
func rebuildType4(view *View, idc int) (*record.Type4, error) {
	position, err := strconv.Atoi(view.GetString(4))
	if err != nil {
		return nil, fmt.Errorf("%w: binary record lacks a finger position", errs.ErrParseFailure)
	}

	width, _ := strconv.Atoi(view.GetString(6))
	height, _ := strconv.Atoi(view.GetString(7))
	cgaCode, _ := strconv.Atoi(view.GetString(8))

	t4 := record.NewType4(idc, position, width, height, format.CompressionAlgorithm(cgaCode), view.Image)

	if imp, err := strconv.Atoi(view.GetString(3)); err == nil {
		t4.Impression = format.Impression(imp)
	}
	if isr, err := strconv.Atoi(view.GetString(5)); err == nil {
		t4.ScanRes = isr
	}

	return t4, nil
}
