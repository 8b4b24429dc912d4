package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldMap_SerializeOrderAndTerminators(t *testing.T) {
	m := NewFieldMap()
	m.SetString(NewTag(2, 18), "Doe, Jane NMN")
	m.SetString(NewTag(2, 1), "57")
	m.SetString(NewTag(2, 2), "01")
	m.SetString(NewTag(2, 5), "N")

	out := m.Serialize()

	want := []byte("2.001:57")
	want = append(want, GS)
	want = append(want, []byte("2.002:01")...)
	want = append(want, GS)
	want = append(want, []byte("2.005:N")...)
	want = append(want, GS)
	want = append(want, []byte("2.018:Doe, Jane NMN")...)
	want = append(want, FS)

	require.Equal(t, want, out)
}

func TestFieldMap_NumericTagOrdering(t *testing.T) {
	// 14.010 must sort after 14.002, not lexically between.
	m := NewFieldMap()
	m.SetString(NewTag(14, 10), "b")
	m.SetString(NewTag(14, 2), "a")
	m.SetString(NewTag(14, 1), "x")

	tags := m.Tags()
	require.Equal(t, []Tag{NewTag(14, 1), NewTag(14, 2), NewTag(14, 10)}, tags)
}

func TestFieldMap_ImageBytesVerbatim(t *testing.T) {
	payload := []byte{0x1D, 0x1C, 0x1E, 0x1F, 0x00, 0xFF}

	m := NewFieldMap()
	m.SetString(NewTag(14, 1), "40")
	m.Set(NewTag(14, 999), payload)

	out := m.Serialize()

	// The payload sits between "14.999:" and the final FS, unescaped.
	idx := bytes.Index(out, []byte("14.999:"))
	require.GreaterOrEqual(t, idx, 0)
	start := idx + len("14.999:")
	require.Equal(t, payload, out[start:len(out)-1])
	require.Equal(t, FS, out[len(out)-1])
}

func TestFieldMap_SingleFieldEndsWithFS(t *testing.T) {
	m := NewFieldMap()
	m.SetString(NewTag(1, 1), "9")

	out := m.Serialize()
	require.Equal(t, append([]byte("1.001:9"), FS), out)
	require.Equal(t, 1, bytes.Count(out, []byte{FS}))
	require.Zero(t, bytes.Count(out, []byte{GS}))
}

func TestFieldMap_CloneIndependence(t *testing.T) {
	m := NewFieldMap()
	m.Set(NewTag(2, 18), []byte("abc"))

	clone := m.Clone()
	clone.Get(NewTag(2, 18))[0] = 'X'
	clone.SetString(NewTag(2, 19), "alias")

	require.Equal(t, "abc", m.GetString(NewTag(2, 18)))
	require.False(t, m.Has(NewTag(2, 19)))
}

func TestFieldMap_ShallowCloneSharesValues(t *testing.T) {
	payload := []byte{1, 2, 3}
	m := NewFieldMap()
	m.Set(NewTag(14, 999), payload)

	clone := m.ShallowClone()
	require.Equal(t, &payload[0], &clone.Get(NewTag(14, 999))[0])

	clone.SetString(NewTag(14, 1), "10")
	require.False(t, m.Has(NewTag(14, 1)))
}
