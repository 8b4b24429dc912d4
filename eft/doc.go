// Package eft assembles and parses Electronic Fingerprint Transmission
// files.
//
// The encoder composes a Type-1 header, one Type-2 biographic record, and a
// sequence of Type-4 or Type-14 fingerprint records into one byte-exact
// file, driving a size-adaptive compression ladder (no compression, then
// WSQ at descending bitrates) until the output fits the size ceiling.
//
// The parser walks the inverse direction: it disambiguates tagged records
// from length-prefixed binary records inline, tolerates separator bytes
// inside image payloads, and yields record views for extraction, text
// dumps, and biographic edit round-trips.
//
// Operations are single-threaded and share no mutable state; each owns a
// scratch directory released on every exit path.
package eft
