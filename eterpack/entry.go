package eterpack

import (
	"math/rand/v2"

	"github.com/lyketo/lyketo/endian"
	"github.com/lyketo/lyketo/format"
)

const (
	// EntrySize is the fixed width of one index record.
	EntrySize = 192

	// MaxFilenameLen is the longest storable name: the wire field is 161
	// bytes and always NUL-terminated.
	MaxFilenameLen = 160

	filenameField = 161
)

// File is one archive entry as recorded in the index.
//
// The wire record is 192 bytes: id, the NUL-terminated lower-case filename,
// the filename CRC, the three sizes, the body offset and the storage kind,
// with two 3-byte padding runs that legacy writers fill with random bytes.
type File struct {
	// ID is the sequential index in insertion order.
	//
	// Offset: 0, Size: 4 bytes
	ID uint32

	// Filename is the entry name: lower-case ASCII, at most 160 bytes.
	//
	// Offset: 4, Size: 161 bytes (NUL-terminated; 3 padding bytes follow)
	Filename string

	// FilenameCRC32 is the CRC-32 of Filename, and the index map key.
	//
	// Offset: 168, Size: 4 bytes
	FilenameCRC32 uint32

	// RealSize is the uncompressed entry size.
	//
	// Offset: 172, Size: 4 bytes
	RealSize uint32

	// Size is the byte count stored in the body file.
	//
	// Offset: 176, Size: 4 bytes
	Size uint32

	// CRC32 is the CRC-32 of the stored body bytes.
	//
	// Offset: 180, Size: 4 bytes
	CRC32 uint32

	// Position is the entry's byte offset in the body file.
	//
	// Offset: 184, Size: 4 bytes
	Position uint32

	// Type is the storage kind.
	//
	// Offset: 188, Size: 1 byte (3 padding bytes follow)
	Type format.StorageType
}

// parseFile decodes one index record. data must hold at least EntrySize
// bytes; padding regions are ignored.
func parseFile(data []byte, engine endian.EndianEngine) File {
	name := data[4 : 4+filenameField]
	end := 0
	for end < len(name) && name[end] != 0 {
		end++
	}

	return File{
		ID:            engine.Uint32(data[0:4]),
		Filename:      string(name[:end]),
		FilenameCRC32: engine.Uint32(data[168:172]),
		RealSize:      engine.Uint32(data[172:176]),
		Size:          engine.Uint32(data[176:180]),
		CRC32:         engine.Uint32(data[180:184]),
		Position:      engine.Uint32(data[184:188]),
		Type:          format.StorageType(data[188]),
	}
}

// writeToSlice encodes the record into data at offset and returns the next
// write position. The layout has unused bytes; originals contain random
// fill there, and readers ignore them.
func (f *File) writeToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	e := data[offset : offset+EntrySize]
	for i := range e {
		e[i] = 0
	}

	engine.PutUint32(e[0:4], f.ID)
	copy(e[4:4+filenameField-1], f.Filename)
	e[165] = byte(rand.Uint32())
	e[166] = byte(rand.Uint32())
	e[167] = byte(rand.Uint32())
	engine.PutUint32(e[168:172], f.FilenameCRC32)
	engine.PutUint32(e[172:176], f.RealSize)
	engine.PutUint32(e[176:180], f.Size)
	engine.PutUint32(e[180:184], f.CRC32)
	engine.PutUint32(e[184:188], f.Position)
	e[188] = byte(f.Type)
	e[189] = byte(rand.Uint32())
	e[190] = byte(rand.Uint32())
	e[191] = byte(rand.Uint32())

	return offset + EntrySize
}
