// Package eterpack implements the archive index/body pair: a directory of
// fixed 192-byte records (shipped inside a CryptedObject as the .eix file)
// and a body stream of individually wrapped blobs (the .epk file).
//
// The index is buffered and written last; the body streams through the
// attached file system as entries are added. Lookups are keyed by the
// CRC-32 of the lower-cased entry name.
package eterpack

import (
	"fmt"
	"hash/crc32"
	"io"
	"sort"
	"strings"

	"github.com/lyketo/lyketo/compress"
	"github.com/lyketo/lyketo/crypted"
	"github.com/lyketo/lyketo/endian"
	"github.com/lyketo/lyketo/errs"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/xtea"
)

// FileSystem is the byte-sequenced seek/read/write interface the archive
// consumes. It is exactly io.ReadWriteSeeker: "tell" is Seek(0,
// io.SeekCurrent), and after a write of n bytes it reports the pre-write
// position plus n. A read-only pack may be backed by anything that also
// fails writes.
type FileSystem = io.ReadWriteSeeker

const (
	headerSize = 12

	// DefaultVersion is the index version legacy clients read and write.
	DefaultVersion = 2
)

// Option adjusts a Pack's configuration.
type Option func(*Pack)

// WithRegistry replaces the compressor registry used for entry bodies.
func WithRegistry(r *compress.Registry) Option {
	return func(p *Pack) { p.registry = r }
}

// WithKey sets the XTEA key for encrypted entry bodies.
func WithKey(k xtea.Key) Option {
	return func(p *Pack) { p.key = k }
}

// WithFourCC overrides the expected index FourCC.
func WithFourCC(fc format.FourCC) Option {
	return func(p *Pack) { p.fourCC = fc }
}

// WithVersion overrides the expected index version.
func WithVersion(v uint32) Option {
	return func(p *Pack) { p.version = v }
}

// WithLzo1xFourCC overrides the tag used to look up the LZO1X codec.
func WithLzo1xFourCC(fc format.FourCC) Option {
	return func(p *Pack) { p.lzoFourCC = fc }
}

// WithSnappyFourCC overrides the tag used to look up the Snappy codec.
func WithSnappyFourCC(fc format.FourCC) Option {
	return func(p *Pack) { p.snappyFourCC = fc }
}

// Pack is one archive: the in-memory index plus the attached body stream.
// Not safe for concurrent use.
type Pack struct {
	registry     *compress.Registry
	key          xtea.Key
	fourCC       format.FourCC
	version      uint32
	lzoFourCC    format.FourCC
	snappyFourCC format.FourCC

	files map[uint32]File
	fs    FileSystem

	engine endian.EndianEngine
}

// New creates a Pack with the legacy defaults, adjusted by opts. The
// default registry carries LZO1X and Snappy under their stock tags.
func New(opts ...Option) *Pack {
	registry := compress.NewRegistry()
	registry.Register(format.FourCCLzo1x, compress.NewLzo1xCodec())
	registry.Register(format.FourCCSnappy, compress.NewSnappyCodec())

	p := &Pack{
		registry:     registry,
		fourCC:       format.FourCCEterPack,
		version:      DefaultVersion,
		lzoFourCC:    format.FourCCLzo1x,
		snappyFourCC: format.FourCCSnappy,
		files:        make(map[uint32]File),
		engine:       endian.GetLittleEndianEngine(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Load parses index bytes (the plaintext of a decoded .eix CryptedObject)
// and attaches fs as the body stream for later Get calls.
//
// Entries whose recorded filename CRC does not match the stored name are
// skipped silently: observed legacy archives contain stale padding rows,
// and the soft filter is how shipped clients handled them. Every other
// mismatch is a hard failure.
func (p *Pack) Load(index []byte, fs FileSystem) error {
	if len(index) < headerSize {
		return errs.ErrInvalidPackHeader
	}
	if format.FourCC(p.engine.Uint32(index[0:4])) != p.fourCC {
		return errs.ErrInvalidPackHeader
	}
	if p.engine.Uint32(index[4:8]) != p.version {
		return errs.ErrInvalidPackVersion
	}

	elements := p.engine.Uint32(index[8:12])
	if uint64(elements)*EntrySize != uint64(len(index)-headerSize) {
		return errs.ErrInvalidPackSize
	}

	p.files = make(map[uint32]File, elements)

	offset := headerSize
	for i := uint32(0); i < elements; i++ {
		f := parseFile(index[offset:offset+EntrySize], p.engine)
		offset += EntrySize

		if crc32.ChecksumIEEE([]byte(f.Filename)) != f.FilenameCRC32 {
			continue
		}

		p.files[f.FilenameCRC32] = f
	}

	p.fs = fs

	return nil
}

// Create resets the pack to empty and attaches fs as the body stream for
// subsequent Put calls.
func (p *Pack) Create(fs FileSystem) {
	p.files = make(map[uint32]File)
	p.fs = fs
}

// GetInfo returns the index record keyed by the given filename CRC.
func (p *Pack) GetInfo(crc uint32) (File, bool) {
	f, ok := p.files[crc]

	return f, ok
}

// Files returns the surviving index entries in insertion (id) order.
func (p *Pack) Files() []File {
	out := make([]File, 0, len(p.files))
	for _, f := range p.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Get reads and decodes one entry by name. The name is lower-cased before
// hashing, matching Put.
func (p *Pack) Get(name string) ([]byte, error) {
	if p.fs == nil {
		return nil, errs.ErrNoFileSystem
	}
	if name == "" {
		return nil, errs.ErrInvalidFilename
	}

	f, ok := p.GetInfo(crc32.ChecksumIEEE([]byte(strings.ToLower(name))))
	if !ok {
		return nil, errs.ErrFileNotFound
	}

	if _, err := p.fs.Seek(int64(f.Position), io.SeekStart); err != nil {
		return nil, fmt.Errorf("eterpack: seek entry %q: %w", f.Filename, err)
	}

	stored := make([]byte, f.Size)
	if _, err := io.ReadFull(p.fs, stored); err != nil {
		return nil, fmt.Errorf("eterpack: read entry %q: %w", f.Filename, err)
	}

	return p.decodeEntry(stored, f)
}

// Put encodes content under the given storage kind, appends it to the body
// stream and records the index entry. The returned record is the one that
// will be serialised by Save.
func (p *Pack) Put(name string, content []byte, typ format.StorageType) (*File, error) {
	if p.fs == nil {
		return nil, errs.ErrNoFileSystem
	}

	name = strings.ToLower(name)
	if name == "" || len(name) > MaxFilenameLen {
		return nil, errs.ErrInvalidFilename
	}

	stored, err := p.encodeEntry(content, typ)
	if err != nil {
		return nil, err
	}

	if _, err := p.fs.Write(stored); err != nil {
		return nil, fmt.Errorf("eterpack: write entry %q: %w", name, err)
	}

	// Position is derived from the post-write offset, not tracked locally:
	// the file system owns the cursor.
	pos, err := p.fs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("eterpack: tell after entry %q: %w", name, err)
	}

	f := File{
		ID:            uint32(len(p.files)),
		Filename:      name,
		FilenameCRC32: crc32.ChecksumIEEE([]byte(name)),
		RealSize:      uint32(len(content)),
		Size:          uint32(len(stored)),
		CRC32:         crc32.ChecksumIEEE(stored),
		Position:      uint32(pos) - uint32(len(stored)),
		Type:          typ,
	}

	p.files[f.FilenameCRC32] = f

	return &f, nil
}

// Save serialises the index: the 12-byte header followed by one 192-byte
// record per entry. The result is what callers wrap into the .eix
// CryptedObject.
func (p *Pack) Save() ([]byte, error) {
	buf := make([]byte, headerSize+len(p.files)*EntrySize)

	p.engine.PutUint32(buf[0:4], uint32(p.fourCC))
	p.engine.PutUint32(buf[4:8], p.version)
	p.engine.PutUint32(buf[8:12], uint32(len(p.files)))

	offset := headerSize
	for _, f := range p.files {
		offset = f.writeToSlice(buf, offset, p.engine)
	}

	return buf, nil
}

func (p *Pack) decodeEntry(stored []byte, f File) ([]byte, error) {
	switch f.Type {
	case format.StorageRaw:
		if f.Size != f.RealSize {
			return nil, errs.ErrInvalidRealLength
		}

		return append([]byte(nil), stored...), nil

	case format.StorageLzo1x, format.StorageLzo1xXtea, format.StorageSnappyXtea:
		algo, err := p.entryCodec(f.Type)
		if err != nil {
			return nil, err
		}

		obj := crypted.NewObject()
		if err := obj.Decode(stored, algo, p.key); err != nil {
			return nil, err
		}
		if obj.Size() != int(f.RealSize) {
			return nil, errs.ErrInvalidRealLength
		}

		return obj.Buffer(), nil

	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedStorageType, f.Type)
	}
}

func (p *Pack) encodeEntry(content []byte, typ format.StorageType) ([]byte, error) {
	switch typ {
	case format.StorageRaw:
		return append([]byte(nil), content...), nil

	case format.StorageLzo1x, format.StorageLzo1xXtea, format.StorageSnappyXtea:
		algo, err := p.entryCodec(typ)
		if err != nil {
			return nil, err
		}

		mode := format.EncryptCompressAndCrypt
		if typ == format.StorageLzo1x {
			mode = format.EncryptCompressOnly
		}

		obj := crypted.NewObject()
		if err := obj.Encode(content, algo, p.key, mode); err != nil {
			return nil, err
		}

		return obj.Buffer(), nil

	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedStorageType, typ)
	}
}

func (p *Pack) entryCodec(typ format.StorageType) (compress.Codec, error) {
	fc := p.lzoFourCC
	if typ == format.StorageSnappyXtea {
		fc = p.snappyFourCC
	}

	algo, ok := p.registry.Find(fc)
	if !ok {
		return nil, errs.ErrInvalidAlgorithm
	}

	return algo, nil
}
