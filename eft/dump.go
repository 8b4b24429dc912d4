package eft

import (
	"fmt"
	"strings"
)

// Dump renders the parsed file as text, one block per record with fields in
// tag order and binary payloads summarized by size.
func (f *File) Dump() string {
	var b strings.Builder
	for i, view := range f.Records {
		fmt.Fprintf(&b, "Record %d (%s, IDC %d)\n", i+1, view.RecordType, view.Idc)

		for _, tag := range view.Fields.Tags() {
			if tag.IsImage() {
				fmt.Fprintf(&b, "%s : <Binary Data: %d bytes>\n", tag, len(view.Fields.Get(tag)))
				continue
			}
			fmt.Fprintf(&b, "%s : %s\n", tag, view.Fields.GetString(tag))
		}

		b.WriteString(strings.Repeat("-", 20))
		b.WriteByte('\n')
	}

	return b.String()
}
