// Package proto implements the tabular game-data containers: ItemProto in
// its new (MIPX) and old (MIPT) layouts and MobProto (MMPT). Each is a small
// fixed header followed by one embedded CryptedObject holding the table.
package proto

import (
	"github.com/lyketo/lyketo/compress"
	"github.com/lyketo/lyketo/crypted"
	"github.com/lyketo/lyketo/endian"
	"github.com/lyketo/lyketo/errs"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/xtea"
)

// Type selects the container variant.
type Type uint8

const (
	TypeMob     Type = iota // MobProto (MMPT), 12-byte header
	TypeItem                // ItemProto new layout (MIPX), 20-byte header
	TypeItemOld             // ItemProto old layout (MIPT), 12-byte header
)

func (t Type) String() string {
	switch t {
	case TypeMob:
		return "MobProto"
	case TypeItem:
		return "ItemProto"
	case TypeItemOld:
		return "ItemProto_Old"
	default:
		return "Unknown"
	}
}

const (
	// HeaderSizeShort is the MIPT/MMPT wire header length: fourcc, elements,
	// crypted object size.
	HeaderSizeShort = 12

	// HeaderSizeItem is the MIPX wire header length: fourcc, version, stride,
	// elements, crypted object size.
	HeaderSizeItem = 20

	// DefaultItemVersion and DefaultItemStride are the values legacy clients
	// write into MIPX headers. Stride is the fixed element size of the
	// uncompressed table; metadata only, never validated here.
	DefaultItemVersion = 1
	DefaultItemStride  = 163
)

// Option overrides one of the configurable header parameters.
type Option func(*Proto)

// WithItemFourCC overrides the new-layout ItemProto tag.
func WithItemFourCC(fc format.FourCC) Option {
	return func(p *Proto) { p.itemFourCC = fc }
}

// WithItemOldFourCC overrides the old-layout ItemProto tag.
func WithItemOldFourCC(fc format.FourCC) Option {
	return func(p *Proto) { p.itemOldFourCC = fc }
}

// WithMobFourCC overrides the MobProto tag.
func WithMobFourCC(fc format.FourCC) Option {
	return func(p *Proto) { p.mobFourCC = fc }
}

// WithItemVersion overrides the MIPX version field.
func WithItemVersion(v uint32) Option {
	return func(p *Proto) { p.version = v }
}

// WithItemStride overrides the MIPX stride field.
func WithItemStride(s uint32) Option {
	return func(p *Proto) { p.stride = s }
}

// Proto packs and unpacks one proto container. Like crypted.Object it is a
// single-use codec: each Pack or Unpack replaces the previous state.
type Proto struct {
	itemFourCC    format.FourCC
	itemOldFourCC format.FourCC
	mobFourCC     format.FourCC

	typ      Type
	fourCC   format.FourCC
	version  uint32
	stride   uint32
	elements uint32

	object *crypted.Object
	buffer []byte
	engine endian.EndianEngine
}

// New creates a Proto codec with the legacy defaults, adjusted by opts.
func New(opts ...Option) *Proto {
	p := &Proto{
		itemFourCC:    format.FourCCItemProto,
		itemOldFourCC: format.FourCCItemProtoOld,
		mobFourCC:     format.FourCCMobProto,
		version:       DefaultItemVersion,
		stride:        DefaultItemStride,
		object:        crypted.NewObject(),
		engine:        endian.GetLittleEndianEngine(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Type returns the variant selected by the last Pack or Unpack.
func (p *Proto) Type() Type { return p.typ }

// Elements returns the table row count from the header.
func (p *Proto) Elements() uint32 { return p.elements }

// Version returns the MIPX version field (meaningful for TypeItem only).
func (p *Proto) Version() uint32 { return p.version }

// Stride returns the MIPX stride field (meaningful for TypeItem only).
func (p *Proto) Stride() uint32 { return p.stride }

// Object returns the embedded CryptedObject codec. After Unpack its Buffer
// holds the decoded table.
func (p *Proto) Object() *crypted.Object { return p.object }

// Buffer returns the decoded table after Unpack, or the full wire container
// after Pack.
func (p *Proto) Buffer() []byte { return p.buffer }

// Size returns the length of Buffer.
func (p *Proto) Size() int { return len(p.buffer) }

// Unpack parses a proto container and decodes the embedded CryptedObject
// with the given algorithm and key.
func (p *Proto) Unpack(input []byte, algo compress.Codec, key xtea.Key) error {
	p.buffer = nil

	if len(input) < HeaderSizeShort {
		return errs.ErrInvalidProtoHeader
	}

	fourCC := format.FourCC(p.engine.Uint32(input[0:4]))
	headerSize := HeaderSizeShort
	offset := 4

	switch fourCC {
	case p.itemFourCC:
		headerSize = HeaderSizeItem
		if len(input) < headerSize {
			return errs.ErrInvalidProtoHeader
		}

		p.typ = TypeItem
		p.version = p.engine.Uint32(input[offset : offset+4])
		p.stride = p.engine.Uint32(input[offset+4 : offset+8])
		offset += 8
	case p.itemOldFourCC:
		p.typ = TypeItemOld
	case p.mobFourCC:
		p.typ = TypeMob
	default:
		return errs.ErrInvalidProtoHeader
	}

	p.fourCC = fourCC
	p.elements = p.engine.Uint32(input[offset : offset+4])
	objectSize := p.engine.Uint32(input[offset+4 : offset+8])

	if uint64(len(input)) < uint64(headerSize)+uint64(objectSize) {
		return errs.ErrInvalidProtoHeader
	}

	if err := p.object.Decode(input[headerSize:], algo, key); err != nil {
		return err
	}

	p.buffer = p.object.Buffer()

	return nil
}

// Pack encodes input as the table of a new proto container of the given
// variant and element count.
func (p *Proto) Pack(input []byte, elements uint32, typ Type, algo compress.Codec, key xtea.Key, mode format.EncryptType) error {
	p.buffer = nil

	if len(input) == 0 || elements == 0 {
		return errs.ErrInvalidInput
	}

	headerSize := HeaderSizeShort

	switch typ {
	case TypeMob:
		p.fourCC = p.mobFourCC
	case TypeItemOld:
		p.fourCC = p.itemOldFourCC
	case TypeItem:
		p.fourCC = p.itemFourCC
		headerSize = HeaderSizeItem
	default:
		return errs.ErrInvalidProtoHeader
	}

	p.typ = typ
	p.elements = elements

	if err := p.object.Encode(input, algo, key, mode); err != nil {
		return err
	}

	object := p.object.Buffer()
	buf := make([]byte, headerSize+len(object))

	p.engine.PutUint32(buf[0:4], uint32(p.fourCC))
	offset := 4
	if typ == TypeItem {
		p.engine.PutUint32(buf[offset:offset+4], p.version)
		p.engine.PutUint32(buf[offset+4:offset+8], p.stride)
		offset += 8
	}
	p.engine.PutUint32(buf[offset:offset+4], p.elements)
	p.engine.PutUint32(buf[offset+4:offset+8], uint32(len(object)))
	copy(buf[headerSize:], object)

	p.buffer = buf

	return nil
}
