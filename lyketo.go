// Package lyketo reads and writes the binary container formats that shipped
// game-asset tables and archive indices in legacy MMORPG clients.
//
// # Formats
//
//   - CryptedObject: a compressed and optionally XTEA-enciphered payload
//     behind a self-verifying 16-byte header (package crypted)
//   - ItemProto / MobProto: tabular game-data wrappers around one
//     CryptedObject (package proto)
//   - EterPack: an archive pair of .eix index and .epk body, every entry
//     individually wrapped (package eterpack)
//
// Compression algorithms are pluggable and identified by FourCC tags
// (package compress); the legacy defaults are LZO1X (MCOZ) and Snappy
// (MCSP). The XTEA layer (package xtea) is obfuscation, not confidentiality.
//
// # Basic usage
//
//	registry := lyketo.NewDefaultRegistry()
//	algo, _ := registry.Find(format.FourCCSnappy)
//	key, _ := xtea.NewKey(lyketo.DefaultPackIndexKey)
//
//	obj := crypted.NewObject()
//	if err := obj.Decode(raw, algo, key); err != nil {
//	    return err
//	}
//	index := obj.Buffer()
//
// This package provides the defaults shipped with legacy clients and thin
// wrappers over the subpackages; advanced callers use the subpackages
// directly.
package lyketo

import (
	"github.com/lyketo/lyketo/compress"
	"github.com/lyketo/lyketo/crypted"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/xtea"
)

// Version is the library version.
const Version = "1.0.0"

// Default XTEA keys of the stock client, 16 raw bytes each (four
// little-endian words). Real deployments override them through the config
// surface.
var (
	DefaultItemProtoKey = []byte{
		0xA1, 0xA4, 0x02, 0x00, 0xAA, 0x15, 0x54, 0x04,
		0xE7, 0x8B, 0x5A, 0x18, 0xAB, 0xD6, 0xAA, 0x01,
	}
	DefaultMobProtoKey = []byte{
		0x46, 0x74, 0x49, 0x00, 0x0B, 0x4A, 0x00, 0x00,
		0xB7, 0x6E, 0x08, 0x00, 0x9D, 0x18, 0x68, 0x00,
	}
	DefaultPackContentKey = []byte{
		0xB9, 0x9E, 0xB0, 0x02, 0x6F, 0x69, 0x81, 0x05,
		0x63, 0x98, 0x9B, 0x28, 0x79, 0x18, 0x1A, 0x00,
	}
	DefaultPackIndexKey = []byte{
		0x22, 0xB8, 0xB4, 0x04, 0x64, 0xB2, 0x6E, 0x1F,
		0xAE, 0xEA, 0x18, 0x00, 0xA6, 0xF6, 0xFB, 0x1C,
	}
)

// NewDefaultRegistry builds the stock algorithm registry: LZO1X first (the
// legacy default encoder), then Snappy.
func NewDefaultRegistry() *compress.Registry {
	r := compress.NewRegistry()
	r.Register(format.FourCCLzo1x, compress.NewLzo1xCodec())
	r.Register(format.FourCCSnappy, compress.NewSnappyCodec())

	return r
}

// DecodeObject decodes one CryptedObject and returns its payload.
func DecodeObject(input []byte, algo compress.Codec, key xtea.Key) ([]byte, error) {
	obj := crypted.NewObject()
	if err := obj.Decode(input, algo, key); err != nil {
		return nil, err
	}

	return obj.Buffer(), nil
}

// EncodeObject wraps input into a CryptedObject and returns the wire bytes.
func EncodeObject(input []byte, algo compress.Codec, key xtea.Key, mode format.EncryptType) ([]byte, error) {
	obj := crypted.NewObject()
	if err := obj.Encode(input, algo, key, mode); err != nil {
		return nil, err
	}

	return obj.Buffer(), nil
}
