// Package endian provides byte order utilities for binary record encoding.
//
// The Type-4 record header is defined big-endian on the wire (4-byte LEN,
// 2-byte HLL/VLL). This package combines encoding/binary's ByteOrder and
// AppendByteOrder interfaces into a single EndianEngine so encoders can use
// the faster append-style operations with either byte order.
//
// All functions and methods are safe for concurrent use; the returned
// engines are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian, making it
// fully compatible with existing code while providing access to both
// read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. Binary fingerprint
// record headers always use this one.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
