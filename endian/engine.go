// Package endian provides byte order utilities for binary encoding and decoding.
//
// The container formats in this module are little-endian throughout; the
// packages that read and write wire bytes take an EndianEngine instead of
// hard-coding binary.LittleEndian so the byte-order seam stays in one place.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// The interface is satisfied by binary.LittleEndian, so it composes with
// any existing code built on the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. This is the wire
// order of every format in this module.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
