package eft

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/record"
)

// assembleTestFile serializes a Type-1 and its children into file bytes.
func assembleTestFile(t *testing.T, t1 *record.Type1) []byte {
	t.Helper()

	data, err := assembleFile(context.Background(), t1)
	require.NoError(t, err)

	return data
}

func minimalType1(children ...record.Record) *record.Type1 {
	t1 := record.NewType1("20250115")
	t1.SetTCN("250115-DJ-01")
	for _, child := range children {
		t1.AddChild(child)
	}

	return t1
}

func TestParse_ImageWithEmbeddedSeparators(t *testing.T) {
	payload := []byte{0x1D, 0x1C, 0x1E, 0x1F}

	t14 := record.NewType14(2, 13, "20250115")
	t14.Width = 2
	t14.Height = 2
	t14.Image = payload

	data := assembleTestFile(t, minimalType1(t14))

	file, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, file.Records, 2)
	require.Equal(t, payload, file.Records[1].Image)
	require.Equal(t, payload, file.Records[1].Fields.Get(encoding.NewTag(14, 999)))
}

func TestParse_BinaryPayloadWithSeparators(t *testing.T) {
	// Payload exercises every separator byte plus tag-shaped ASCII.
	payload := append([]byte{0x1C, 0x1D, 0x1E, 0x1F}, []byte("2.001:99")...)

	t4 := record.NewType4(2, 1, 800, 750, format.CGANone, payload)
	data := assembleTestFile(t, minimalType1(t4))

	file, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, file.Records, 2)
	require.Equal(t, format.TypeHighResGray, file.Records[1].RecordType)
	require.Equal(t, payload, file.Records[1].Image)
}

func TestParse_FirstRecordMustBeType1(t *testing.T) {
	t2 := record.NewType2()
	t2.Name = "Doe, Jane NMN"
	data, err := t2.Serialize()
	require.NoError(t, err)

	_, err = Parse(data)
	require.ErrorIs(t, err, errs.ErrParseFailure)
}

func TestParse_Type1WithFileLengthIn1001(t *testing.T) {
	// Some writers store the total file length in 1.001. Build such a file:
	// the Type-1 boundary must come from its first FS, not the field value.
	t2 := record.NewType2()
	t2.Name = "Doe, Jane NMN"
	t2Bytes, err := t2.Serialize()
	require.NoError(t, err)

	buildT1 := func(lengthValue string) []byte {
		m := encoding.NewFieldMap()
		m.SetString(encoding.NewTag(1, 1), lengthValue)
		m.SetString(encoding.NewTag(1, 2), "0200")
		m.SetString(encoding.NewTag(1, 9), "250115-DJ-01")
		return m.Serialize()
	}

	// Fix the total file length by iterating, the same way a legacy writer
	// converges on its self-referential value.
	candidate := "1"
	var t1Bytes []byte
	for range 5 {
		t1Bytes = buildT1(candidate)
		total := len(t1Bytes) + len(t2Bytes)
		if strconv.Itoa(total) == candidate {
			break
		}
		candidate = strconv.Itoa(total)
	}

	data := append(t1Bytes, t2Bytes...)

	file, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, file.Records, 2)
	require.Equal(t, format.TypeTransaction, file.Records[0].RecordType)
	require.Equal(t, format.TypeDescriptive, file.Records[1].RecordType)
}

func TestParse_TruncatedTaggedRecord(t *testing.T) {
	t14 := record.NewType14(2, 13, "20250115")
	t14.Width = 2
	t14.Height = 2
	t14.Image = []byte{1, 2, 3, 4}

	data := assembleTestFile(t, minimalType1(t14))

	_, err := Parse(data[:len(data)-3])
	require.ErrorIs(t, err, errs.ErrParseFailure)
}

func TestParse_GarbageRejected(t *testing.T) {
	_, err := Parse([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01})
	require.ErrorIs(t, err, errs.ErrParseFailure)

	_, err = Parse(nil)
	require.ErrorIs(t, err, errs.ErrParseFailure)
}

func TestParse_ImplausibleBinaryLength(t *testing.T) {
	t1 := minimalType1()
	data := assembleTestFile(t, t1)

	// Append a bogus binary record declaring fewer than 18 bytes.
	data = append(data, 0x00, 0x00, 0x00, 0x05, 0x01, 0x02)

	_, err := Parse(data)
	require.ErrorIs(t, err, errs.ErrParseFailure)
}

func TestParse_Cancelled(t *testing.T) {
	data := assembleTestFile(t, minimalType1())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	parser, err := NewParser()
	require.NoError(t, err)
	_, err = parser.Parse(ctx, data)
	require.ErrorIs(t, err, errs.ErrCancelled)
}

func TestParse_ViewAccessors(t *testing.T) {
	t14 := record.NewType14(2, 14, "20250115")
	t14.Width = 4
	t14.Height = 4
	t14.CGA = format.CGAWSQ
	t14.Image = []byte{0xFF, 0xA0, 0x01}

	file, err := Parse(assembleTestFile(t, minimalType1(t14)))
	require.NoError(t, err)

	view := file.Records[1]
	require.Equal(t, 2, view.Idc)
	require.Equal(t, 14, view.Position())
	require.Equal(t, "WSQ20", view.DeclaredCGA())
	require.Equal(t, format.ImageWSQ, view.ReconciledFormat())
	require.Len(t, file.ImageRecords(), 1)
	require.Nil(t, file.Type2())
}

func TestParse_RoundTripRecordCount(t *testing.T) {
	result, err := newTestEncoder(t).Encode(context.Background(), testBiographic(), slapAssets(64, 64))
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)
	require.Len(t, file.Records, 5)

	// CNT enumerates the children in serial order with matching IDCs.
	cnt := file.Records[0].GetString(3)
	for i, view := range file.Records[1:] {
		require.Equal(t, i+1, view.Idc)
		require.Contains(t, cnt, strconv.Itoa(int(view.RecordType))+string(encoding.US)+padTwo(view.Idc))
	}
}

func padTwo(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}

	return strconv.Itoa(n)
}
