package encoding

import (
	"sort"

	"github.com/veduco/EFTSuite-Public/internal/pool"
)

// FieldMap is an ordered mapping from tag to value bytes for one tagged
// record. Values are owned by the map; image payloads are stored verbatim.
//
// Iteration and serialization order is always ascending (type, field),
// which puts the 001 length field first.
type FieldMap struct {
	values map[Tag][]byte
}

// NewFieldMap creates an empty field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[Tag][]byte)}
}

// Set stores value under tag, replacing any previous value.
func (m *FieldMap) Set(tag Tag, value []byte) {
	m.values[tag] = value
}

// SetString stores a text value under tag.
func (m *FieldMap) SetString(tag Tag, value string) {
	m.values[tag] = []byte(value)
}

// Get returns the value bytes for tag, or nil when absent.
func (m *FieldMap) Get(tag Tag) []byte {
	return m.values[tag]
}

// GetString returns the value for tag as a string ("" when absent).
func (m *FieldMap) GetString(tag Tag) string {
	return string(m.values[tag])
}

// Has reports whether tag is present.
func (m *FieldMap) Has(tag Tag) bool {
	_, ok := m.values[tag]
	return ok
}

// Delete removes tag from the map.
func (m *FieldMap) Delete(tag Tag) {
	delete(m.values, tag)
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	return len(m.values)
}

// Tags returns all tags in ascending (type, field) order.
func (m *FieldMap) Tags() []Tag {
	tags := make([]Tag, 0, len(m.values))
	for tag := range m.values {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Compare(tags[j]) < 0
	})

	return tags
}

// Clone returns a deep copy of the map. Value slices are copied so the clone
// can be mutated independently.
func (m *FieldMap) Clone() *FieldMap {
	clone := &FieldMap{values: make(map[Tag][]byte, len(m.values))}
	for tag, value := range m.values {
		cp := make([]byte, len(value))
		copy(cp, value)
		clone.values[tag] = cp
	}

	return clone
}

// ShallowClone returns a copy of the map that shares value slices with the
// original. Use when the clone only adds or replaces whole entries; large
// image payloads are not duplicated.
func (m *FieldMap) ShallowClone() *FieldMap {
	clone := &FieldMap{values: make(map[Tag][]byte, len(m.values))}
	for tag, value := range m.values {
		clone.values[tag] = value
	}

	return clone
}

// SerializeTo writes the wire form of the field group into buf: each field as
// "T.FFF:" followed by its value bytes, non-last fields terminated by GS and
// the last field terminated by a single FS.
func (m *FieldMap) SerializeTo(buf *pool.ByteBuffer) {
	tags := m.Tags()
	for i, tag := range tags {
		buf.MustWrite([]byte(tag.String()))
		buf.MustWrite([]byte{':'})
		buf.MustWrite(m.values[tag])

		sep := GS
		if i == len(tags)-1 {
			sep = FS
		}
		buf.MustWrite([]byte{sep})
	}
}

// Serialize returns the wire form of the field group as a fresh slice.
func (m *FieldMap) Serialize() []byte {
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	m.SerializeTo(buf)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out
}
