package record

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/format"
)

func TestType1_Defaults(t *testing.T) {
	t1 := NewType1("20250115")

	require.Equal(t, format.TypeTransaction, t1.Type())
	require.Equal(t, DefaultVersion, t1.Version)
	require.Equal(t, DefaultTOT, t1.TOT)
	require.Equal(t, DefaultPriority, t1.Priority)
	require.Equal(t, DefaultResolution, t1.NSR)
	require.Equal(t, DefaultResolution, t1.NTR)
}

func TestType1_CNTDirectory(t *testing.T) {
	t1 := NewType1("20250115")
	t1.SetTCN("250115-DJ-01")

	t2 := NewType2()
	t2.Name = "Doe, Jane NMN"
	t1.AddChild(t2)
	t1.AddChild(NewType4(2, 1, 800, 750, format.CGANone, []byte{0}))
	t1.AddChild(NewType4(3, 2, 800, 750, format.CGANone, []byte{0}))

	cnt := string(t1.cntValue())
	want := strings.Join([]string{
		"1" + string(encoding.US) + "3",
		"2" + string(encoding.US) + "01",
		"4" + string(encoding.US) + "02",
		"4" + string(encoding.US) + "03",
	}, string(encoding.RS))
	require.Equal(t, want, cnt)
}

func TestType1_SerializeLengthFixedPoint(t *testing.T) {
	t1 := NewType1("20250115")
	t1.SetTCN("250115-DJ-07")

	data, err := t1.Serialize()
	require.NoError(t, err)

	// 1.001 carries the exact serialized size, and the record ends with FS.
	prefix := fmt.Sprintf("1.001:%d", len(data))
	require.True(t, strings.HasPrefix(string(data), prefix))
	require.Equal(t, encoding.FS, data[len(data)-1])

	declared, err := t1.DeclaredLength()
	require.NoError(t, err)
	require.Equal(t, len(data), declared)
}

func TestType1_FieldOrdering(t *testing.T) {
	t1 := NewType1("20250115")
	t1.SetTCN("250115-XXX-42")

	data, err := t1.Serialize()
	require.NoError(t, err)

	// Tags must appear in ascending field order.
	var lastField int
	for _, part := range strings.Split(string(data[:len(data)-1]), string(encoding.GS)) {
		tagStr, _, found := strings.Cut(part, ":")
		require.True(t, found)
		tag, err := encoding.ParseTag(tagStr)
		require.NoError(t, err)
		require.Equal(t, 1, tag.Type)
		require.Greater(t, tag.Field, lastField)
		lastField = tag.Field
	}
}

func TestType1_SerializeDeterministic(t *testing.T) {
	t1 := NewType1("20250115")
	t1.SetTCN("250115-DJ-01")
	t2 := NewType2()
	t2.Name = "Doe, Jane NMN"
	t1.AddChild(t2)

	first, err := t1.Serialize()
	require.NoError(t, err)
	second, err := t1.Serialize()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestType1_PriorityInRange(t *testing.T) {
	t1 := NewType1("20250115")
	require.GreaterOrEqual(t, t1.Priority, 1)
	require.LessOrEqual(t, t1.Priority, 9)

	data, err := t1.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(data), "1.006:"+strconv.Itoa(t1.Priority))
}
