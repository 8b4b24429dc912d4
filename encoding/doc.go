// Package encoding implements the tagged-field framing primitives of the
// ANSI/NIST-ITL transmission format: the FS/GS/RS/US separator bytes, the
// "R.FFF" tag syntax, and the serializer that turns an ordered group of
// tag/value pairs into its exact wire form.
//
// A tagged record serializes as
//
//	R.001:<len><GS>R.FFF:<value><GS>...R.FFF:<value><FS>
//
// with fields in ascending (type, field) numeric order, field 001 first,
// every non-last field terminated by GS and the last field terminated by a
// single FS. Values are raw bytes: ASCII text fields are written as-is and
// image payloads (field 999) are written verbatim, separator bytes included.
package encoding
