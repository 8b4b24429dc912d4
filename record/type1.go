package record

import (
	"strconv"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/format"
)

// Type1 is the transaction header: one per file, always first. It owns the
// ordered list of child records; the 1.003 CNT directory is recomputed from
// that list on every serialization.
type Type1 struct {
	Version  string // 1.002 VER
	TOT      string // 1.004 transaction type
	Date     string // 1.005 DAT, YYYYMMDD
	Priority int    // 1.006 PRY, 1-9
	DAI      string // 1.007 destination agency
	ORI      string // 1.008 originating agency
	TCN      string // 1.009 transaction control number
	NSR      string // 1.011 native scan resolution
	NTR      string // 1.012 nominal transmit resolution

	// LengthIters overrides the length-solver budget; 0 means default.
	LengthIters int

	children []Record
}

// NewType1 creates a transaction header with the standard ATF defaults and
// the given transaction date (YYYYMMDD).
func NewType1(date string) *Type1 {
	return &Type1{
		Version:  DefaultVersion,
		TOT:      DefaultTOT,
		Date:     date,
		Priority: DefaultPriority,
		DAI:      DefaultDAI,
		ORI:      DefaultORI,
		NSR:      DefaultResolution,
		NTR:      DefaultResolution,
	}
}

func (t *Type1) Type() format.RecordType { return format.TypeTransaction }

// IDC returns 0; the header itself is not listed in the CNT directory.
func (t *Type1) IDC() int { return 0 }

// SetTCN overwrites the transaction control number.
func (t *Type1) SetTCN(tcn string) { t.TCN = tcn }

// AddChild appends a record to the transaction in emission order. The CNT
// directory reflects the insertion order exactly.
func (t *Type1) AddChild(r Record) { t.children = append(t.children, r) }

// Children returns the child records in emission order.
func (t *Type1) Children() []Record { return t.children }

// cntValue builds the 1.003 record directory:
// 1<US>N<RS>t2<US>idc2<RS>...<RS>tn<US>idcn
func (t *Type1) cntValue() []byte {
	var out []byte
	out = append(out, '1', encoding.US)
	out = append(out, strconv.Itoa(len(t.children))...)
	for _, child := range t.children {
		out = append(out, encoding.RS)
		out = append(out, strconv.Itoa(int(child.Type()))...)
		out = append(out, encoding.US)
		out = append(out, pad2(child.IDC())...)
	}

	return out
}

func (t *Type1) fieldMap(lengthValue string) *encoding.FieldMap {
	m := encoding.NewFieldMap()
	m.SetString(encoding.NewTag(1, 1), lengthValue)
	m.SetString(encoding.NewTag(1, 2), t.Version)
	m.Set(encoding.NewTag(1, 3), t.cntValue())
	m.SetString(encoding.NewTag(1, 4), t.TOT)
	m.SetString(encoding.NewTag(1, 5), t.Date)
	m.SetString(encoding.NewTag(1, 6), strconv.Itoa(t.Priority))
	m.SetString(encoding.NewTag(1, 7), t.DAI)
	m.SetString(encoding.NewTag(1, 8), t.ORI)
	m.SetString(encoding.NewTag(1, 9), t.TCN)
	m.SetString(encoding.NewTag(1, 11), t.NSR)
	m.SetString(encoding.NewTag(1, 12), t.NTR)

	return m
}

// Serialize produces the header bytes only; child records serialize
// separately and follow it in the file.
func (t *Type1) Serialize() ([]byte, error) {
	data, _, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return data, err
}

// DeclaredLength returns the solved 1.001 value.
func (t *Type1) DeclaredLength() (int, error) {
	_, size, err := SolveLength(func(lengthValue string) []byte {
		return t.fieldMap(lengthValue).Serialize()
	}, t.LengthIters)

	return size, err
}
