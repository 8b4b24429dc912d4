package record

import (
	"fmt"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
)

// Well-known Type-2 tags.
var (
	TagType2Len       = encoding.NewTag(2, 1)
	TagType2IDC       = encoding.NewTag(2, 2)
	TagType2Retention = encoding.NewTag(2, 5)
	TagType2SSN       = encoding.NewTag(2, 16)
	TagType2Name      = encoding.NewTag(2, 18)
	TagType2Alias     = encoding.NewTag(2, 19)
	TagType2POB       = encoding.NewTag(2, 20)
	TagType2CTZ       = encoding.NewTag(2, 21)
	TagType2DOB       = encoding.NewTag(2, 22)
	TagType2Sex       = encoding.NewTag(2, 24)
	TagType2Race      = encoding.NewTag(2, 25)
	TagType2Height    = encoding.NewTag(2, 27)
	TagType2Weight    = encoding.NewTag(2, 29)
	TagType2Eye       = encoding.NewTag(2, 31)
	TagType2Hair      = encoding.NewTag(2, 32)
	TagType2Reason    = encoding.NewTag(2, 37)
	TagType2DateFP    = encoding.NewTag(2, 38)
	TagType2Residence = encoding.NewTag(2, 41)
	TagType2ORI       = encoding.NewTag(2, 73)
	TagType2AMP       = encoding.NewTag(2, 84)
)

// Type2 is the descriptive biographic record, exactly one per file.
//
// Known fields are exposed as typed attributes; unknown tags encountered on
// parse round-trip unchanged through Extra. Empty fields are omitted from
// the serialization, never written as empty values.
type Type2 struct {
	Idc       int
	SSN       string // 9 digits or empty
	Name      string // canonical "Surname, First Middle"
	Alias     string
	POB       string
	CTZ       string
	DOB       string // YYYYMMDD or empty
	Sex       string
	Race      string
	Height    string // 3-digit FFI or "000"
	Weight    string // 3-digit pounds or "000"
	Eye       string
	Hair      string
	Reason    string
	DateFP    string // 2.038, date fingerprinted
	Residence string
	ORI       string
	AMP       string

	// Extra holds unknown-but-preserved tags from a parsed record. The
	// structural fields 2.001/2.002 are never stored here.
	Extra *encoding.FieldMap

	// LengthIters overrides the length-solver budget; 0 means default.
	LengthIters int
}

// NewType2 creates a biographic record with the conventional IDC of 1 and
// the standard originating agency.
func NewType2() *Type2 {
	return &Type2{
		Idc: 1,
		ORI: DefaultORI,
	}
}

func (t *Type2) Type() format.RecordType { return format.TypeDescriptive }

func (t *Type2) IDC() int { return t.Idc }

// Validate rejects inputs the encoder cannot normalize away.
func (t *Type2) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalidInput)
	}

	return nil
}

func (t *Type2) fieldMap(lengthValue string) *encoding.FieldMap {
	m := encoding.NewFieldMap()
	m.SetString(TagType2Len, lengthValue)
	m.SetString(TagType2IDC, pad2(t.Idc))
	m.SetString(TagType2Retention, "N")

	set := func(tag encoding.Tag, value string) {
		if value != "" {
			m.SetString(tag, value)
		}
	}
	set(TagType2SSN, t.SSN)
	set(TagType2Name, t.Name)
	set(TagType2Alias, t.Alias)
	set(TagType2POB, t.POB)
	set(TagType2CTZ, t.CTZ)
	set(TagType2DOB, t.DOB)
	set(TagType2Sex, t.Sex)
	set(TagType2Race, t.Race)
	set(TagType2Height, t.Height)
	set(TagType2Weight, t.Weight)
	set(TagType2Eye, t.Eye)
	set(TagType2Hair, t.Hair)
	set(TagType2Reason, t.Reason)
	set(TagType2DateFP, t.DateFP)
	set(TagType2Residence, t.Residence)
	set(TagType2ORI, t.ORI)
	set(TagType2AMP, t.AMP)

	if t.Extra != nil {
		for _, tag := range t.Extra.Tags() {
			if tag.Field == encoding.LengthField || tag.Field == 2 {
				continue
			}
			if value := t.Extra.Get(tag); len(value) > 0 {
				m.Set(tag, value)
			}
		}
	}

	return m
}

// Serialize produces the record bytes with the 001 length field resolved.
func (t *Type2) Serialize() ([]byte, error) {
	data, _, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return data, err
}

// DeclaredLength returns the solved 2.001 value.
func (t *Type2) DeclaredLength() (int, error) {
	_, size, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return size, err
}

// FromFields populates the typed attributes from a parsed tag map. Unknown
// tags land in Extra and serialize back unchanged.
func (t *Type2) FromFields(fields *encoding.FieldMap) {
	known := map[encoding.Tag]*string{
		TagType2SSN:       &t.SSN,
		TagType2Name:      &t.Name,
		TagType2Alias:     &t.Alias,
		TagType2POB:       &t.POB,
		TagType2CTZ:       &t.CTZ,
		TagType2DOB:       &t.DOB,
		TagType2Sex:       &t.Sex,
		TagType2Race:      &t.Race,
		TagType2Height:    &t.Height,
		TagType2Weight:    &t.Weight,
		TagType2Eye:       &t.Eye,
		TagType2Hair:      &t.Hair,
		TagType2Reason:    &t.Reason,
		TagType2DateFP:    &t.DateFP,
		TagType2Residence: &t.Residence,
		TagType2ORI:       &t.ORI,
		TagType2AMP:       &t.AMP,
	}

	for _, tag := range fields.Tags() {
		switch {
		case tag == TagType2Len || tag == TagType2IDC || tag == TagType2Retention:
			// structural, recomputed on serialization
		default:
			if dst, ok := known[tag]; ok {
				*dst = fields.GetString(tag)
				continue
			}
			if t.Extra == nil {
				t.Extra = encoding.NewFieldMap()
			}
			t.Extra.Set(tag, fields.Get(tag))
		}
	}
}
