package eterpack

import (
	"fmt"
	"hash/crc32"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lyketo/lyketo/endian"
	"github.com/lyketo/lyketo/errs"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/xtea"
)

var testKey = xtea.Key{0x02B09EB9, 0x0581696F, 0x289B9863, 0x001A1879}

// memFile is an in-memory FileSystem for tests.
type memFile struct {
	data []byte
	pos  int64
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	if need := m.pos + int64(len(p)); need > int64(len(m.data)) {
		grown := make([]byte, need)
		copy(grown, m.data)
		m.data = grown
	}

	copy(m.data[m.pos:], p)
	m.pos += int64(len(p))

	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.data)) + offset
	default:
		return 0, fmt.Errorf("bad whence %d", whence)
	}
	if m.pos < 0 {
		return 0, fmt.Errorf("negative position")
	}

	return m.pos, nil
}

func testContent(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = seed + byte(i%97)
	}

	return data
}

func TestPack_RoundTrip(t *testing.T) {
	body := &memFile{}

	w := New(WithKey(testKey))
	w.Create(body)

	entries := []struct {
		name string
		data []byte
		typ  format.StorageType
	}{
		{"icon.tga", testContent(2048, 1), format.StorageSnappyXtea},
		{"gui.sub", testContent(512, 2), format.StorageRaw},
		{"item_list.txt", testContent(4096, 3), format.StorageLzo1x},
		{"mob_names.txt", testContent(300, 4), format.StorageLzo1xXtea},
	}

	for _, e := range entries {
		info, err := w.Put(e.name, e.data, e.typ)
		require.NoError(t, err)
		require.Equal(t, uint32(len(e.data)), info.RealSize)
		require.Equal(t, e.typ, info.Type)
	}

	index, err := w.Save()
	require.NoError(t, err)
	require.Len(t, index, 12+len(entries)*EntrySize)

	// Fresh reader over the same body bytes.
	r := New(WithKey(testKey))
	require.NoError(t, r.Load(index, &memFile{data: body.data}))
	require.Len(t, r.Files(), len(entries))

	for _, e := range entries {
		got, err := r.Get(e.name)
		require.NoError(t, err)
		require.Equal(t, e.data, got, e.name)
	}
}

func TestPack_Put_RecordsStoredCRC(t *testing.T) {
	body := &memFile{}

	p := New(WithKey(testKey))
	p.Create(body)

	info, err := p.Put("icon.tga", testContent(1024, 9), format.StorageSnappyXtea)
	require.NoError(t, err)

	stored := body.data[info.Position : info.Position+info.Size]
	require.Equal(t, crc32.ChecksumIEEE(stored), info.CRC32)
	require.Equal(t, int64(info.Position)+int64(info.Size), int64(len(body.data)))

	// Lookup by filename CRC mirrors the map key.
	got, ok := p.GetInfo(crc32.ChecksumIEEE([]byte("icon.tga")))
	require.True(t, ok)
	require.Equal(t, info.CRC32, got.CRC32)
}

func TestPack_Put_LowercasesName(t *testing.T) {
	p := New(WithKey(testKey))
	p.Create(&memFile{})

	info, err := p.Put("ICON.TGA", testContent(64, 1), format.StorageRaw)
	require.NoError(t, err)
	require.Equal(t, "icon.tga", info.Filename)

	got, err := p.Get("Icon.Tga")
	require.NoError(t, err)
	require.Equal(t, testContent(64, 1), got)
}

func TestPack_Put_InvalidNames(t *testing.T) {
	p := New(WithKey(testKey))
	p.Create(&memFile{})

	_, err := p.Put("", []byte{1}, format.StorageRaw)
	require.ErrorIs(t, err, errs.ErrInvalidFilename)

	long := make([]byte, MaxFilenameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = p.Put(string(long), []byte{1}, format.StorageRaw)
	require.ErrorIs(t, err, errs.ErrInvalidFilename)
}

func TestPack_ReservedStorageTypes(t *testing.T) {
	p := New(WithKey(testKey))
	p.Create(&memFile{})

	for _, typ := range []format.StorageType{
		format.StorageParama,
		format.StorageHybridCrypt,
		format.StorageHybridCrypt2,
		format.StorageType(9),
	} {
		_, err := p.Put("x.bin", []byte{1, 2, 3}, typ)
		require.ErrorIs(t, err, errs.ErrUnsupportedStorageType, typ.String())
	}
}

func TestPack_Get_ReservedStorageType(t *testing.T) {
	// A handcrafted index entry with a reserved type must fail cleanly on
	// read even though load accepted the row.
	engine := endian.GetLittleEndianEngine()

	f := File{
		ID:            0,
		Filename:      "legacy.bin",
		FilenameCRC32: crc32.ChecksumIEEE([]byte("legacy.bin")),
		RealSize:      4,
		Size:          4,
		Type:          format.StorageParama,
	}

	index := make([]byte, 12+EntrySize)
	engine.PutUint32(index[0:4], uint32(format.FourCCEterPack))
	engine.PutUint32(index[4:8], DefaultVersion)
	engine.PutUint32(index[8:12], 1)
	f.writeToSlice(index, 12, engine)

	p := New(WithKey(testKey))
	require.NoError(t, p.Load(index, &memFile{data: []byte{1, 2, 3, 4}}))

	_, err := p.Get("legacy.bin")
	require.ErrorIs(t, err, errs.ErrUnsupportedStorageType)
}

func TestPack_Load_Invalid(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	valid := func() []byte {
		index := make([]byte, 12)
		engine.PutUint32(index[0:4], uint32(format.FourCCEterPack))
		engine.PutUint32(index[4:8], DefaultVersion)
		engine.PutUint32(index[8:12], 0)

		return index
	}

	t.Run("Empty index loads", func(t *testing.T) {
		p := New()
		require.NoError(t, p.Load(valid(), nil))
		require.Empty(t, p.Files())
	})

	t.Run("Too short", func(t *testing.T) {
		p := New()
		require.ErrorIs(t, p.Load(make([]byte, 11), nil), errs.ErrInvalidPackHeader)
	})

	t.Run("Wrong FourCC", func(t *testing.T) {
		index := valid()
		copy(index, "XXXX")

		p := New()
		require.ErrorIs(t, p.Load(index, nil), errs.ErrInvalidPackHeader)
	})

	t.Run("Wrong version", func(t *testing.T) {
		index := valid()
		engine.PutUint32(index[4:8], 3)

		p := New()
		require.ErrorIs(t, p.Load(index, nil), errs.ErrInvalidPackVersion)
	})

	t.Run("Element count mismatch", func(t *testing.T) {
		index := valid()
		engine.PutUint32(index[8:12], 2)
		index = append(index, make([]byte, EntrySize)...) // one entry, two declared

		p := New()
		require.ErrorIs(t, p.Load(index, nil), errs.ErrInvalidPackSize)
	})
}

func TestPack_Load_SkipsCorruptFilenameCRC(t *testing.T) {
	body := &memFile{}

	w := New(WithKey(testKey))
	w.Create(body)

	_, err := w.Put("keep.txt", testContent(100, 1), format.StorageRaw)
	require.NoError(t, err)
	second, err := w.Put("drop.txt", testContent(100, 2), format.StorageRaw)
	require.NoError(t, err)

	index, err := w.Save()
	require.NoError(t, err)

	// Corrupt the recorded filename CRC of the second entry, wherever map
	// iteration placed it.
	engine := endian.GetLittleEndianEngine()
	for off := 12; off < len(index); off += EntrySize {
		if engine.Uint32(index[off+168:off+172]) == second.FilenameCRC32 {
			engine.PutUint32(index[off+168:off+172], second.FilenameCRC32^0xFFFFFFFF)
		}
	}

	r := New(WithKey(testKey))
	require.NoError(t, r.Load(index, &memFile{data: body.data}))

	files := r.Files()
	require.Len(t, files, 1)
	require.Equal(t, "keep.txt", files[0].Filename)

	_, err = r.Get("drop.txt")
	require.ErrorIs(t, err, errs.ErrFileNotFound)
}

func TestPack_LastWriterWins(t *testing.T) {
	body := &memFile{}

	p := New(WithKey(testKey))
	p.Create(body)

	_, err := p.Put("same.txt", testContent(64, 1), format.StorageRaw)
	require.NoError(t, err)
	_, err = p.Put("same.txt", testContent(64, 2), format.StorageRaw)
	require.NoError(t, err)

	require.Len(t, p.Files(), 1)

	got, err := p.Get("same.txt")
	require.NoError(t, err)
	require.Equal(t, testContent(64, 2), got)
}

func TestPack_Get_Missing(t *testing.T) {
	p := New(WithKey(testKey))
	p.Create(&memFile{})

	_, err := p.Get("nope.txt")
	require.ErrorIs(t, err, errs.ErrFileNotFound)

	_, err = p.Get("")
	require.ErrorIs(t, err, errs.ErrInvalidFilename)
}

func TestPack_NoFileSystem(t *testing.T) {
	p := New(WithKey(testKey))

	_, err := p.Get("x")
	require.ErrorIs(t, err, errs.ErrNoFileSystem)

	_, err = p.Put("x", []byte{1}, format.StorageRaw)
	require.ErrorIs(t, err, errs.ErrNoFileSystem)
}

func TestPack_CustomFourCCAndVersion(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	custom := format.MakeFourCC("XPKD")

	w := New(WithFourCC(custom), WithVersion(7))
	w.Create(&memFile{})

	index, err := w.Save()
	require.NoError(t, err)
	require.Equal(t, uint32(custom), engine.Uint32(index[0:4]))
	require.Equal(t, uint32(7), engine.Uint32(index[4:8]))

	// Default-configured reader rejects it; matching reader accepts.
	require.ErrorIs(t, New().Load(index, nil), errs.ErrInvalidPackHeader)
	require.NoError(t, New(WithFourCC(custom), WithVersion(7)).Load(index, nil))
}
