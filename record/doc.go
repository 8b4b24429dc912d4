// Package record implements the typed record model of an EFT transaction:
// the Type-1 header, the Type-2 biographic record, the binary Type-4
// fingerprint record, and the tagged Type-14 fingerprint record.
//
// Every record serializes to the exact bytes that appear in the file.
// Tagged records resolve their self-referential 001 length field through a
// bounded fixed-point iteration (see SolveLength); Type-4 computes its
// length directly as 18 + len(data).
package record
