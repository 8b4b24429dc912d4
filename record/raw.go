package record

import (
	"strconv"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/format"
)

// Tagged is a pass-through tagged record rebuilt from parsed fields. It is
// used when re-encoding an existing file (biographic edits) so fingerprint
// records survive byte-for-byte apart from the recomputed length and the
// reassigned IDC.
type Tagged struct {
	RecordType format.RecordType
	Idc        int
	Fields     *encoding.FieldMap

	// LengthIters overrides the length-solver budget; 0 means default.
	LengthIters int
}

// NewTagged wraps parsed fields as a serializable record. The stale 001
// length is dropped (it is re-solved on serialization) and the IDC field is
// rewritten from idc.
func NewTagged(recordType format.RecordType, idc int, fields *encoding.FieldMap) *Tagged {
	cloned := fields.Clone()
	cloned.Delete(encoding.NewTag(int(recordType), encoding.LengthField))

	return &Tagged{
		RecordType: recordType,
		Idc:        idc,
		Fields:     cloned,
	}
}

func (t *Tagged) Type() format.RecordType { return t.RecordType }

func (t *Tagged) IDC() int { return t.Idc }

func (t *Tagged) fieldMap(lengthValue string) *encoding.FieldMap {
	// Shallow: the image payload under 999 must not be copied per solver round.
	m := t.Fields.ShallowClone()
	m.SetString(encoding.NewTag(int(t.RecordType), encoding.LengthField), lengthValue)

	idcValue := strconv.Itoa(t.Idc)
	if t.RecordType == format.TypeDescriptive {
		idcValue = pad2(t.Idc)
	}
	m.SetString(encoding.NewTag(int(t.RecordType), 2), idcValue)

	return m
}

// Serialize produces the record bytes with the 001 length field resolved.
func (t *Tagged) Serialize() ([]byte, error) {
	data, _, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return data, err
}

// DeclaredLength returns the solved length value.
func (t *Tagged) DeclaredLength() (int, error) {
	_, size, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return size, err
}
