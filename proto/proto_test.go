package proto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lyketo/lyketo/compress"
	"github.com/lyketo/lyketo/endian"
	"github.com/lyketo/lyketo/errs"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/xtea"
)

var testKey = xtea.Key{0x0002A4A1, 0x045415AA, 0x185A8BE7, 0x01AAD6AB}

func tableData(rows, stride int) []byte {
	data := make([]byte, rows*stride)
	for i := range data {
		data[i] = byte(i % 251)
	}

	return data
}

func TestProto_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
	}{
		{"MobProto", TypeMob},
		{"ItemProto", TypeItem},
		{"ItemProtoOld", TypeItemOld},
	}

	codec := compress.NewLzo1xCodec()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := tableData(10, 163)

			enc := New()
			require.NoError(t, enc.Pack(table, 10, tt.typ, codec, testKey, format.EncryptCompressAndCrypt))

			dec := New()
			require.NoError(t, dec.Unpack(enc.Buffer(), codec, testKey))
			require.Equal(t, tt.typ, dec.Type())
			require.Equal(t, uint32(10), dec.Elements())
			require.Equal(t, table, dec.Buffer())
		})
	}
}

func TestProto_ItemHeaderFields(t *testing.T) {
	table := tableData(4, 200)
	codec := compress.NewSnappyCodec()

	enc := New(WithItemVersion(7), WithItemStride(200))
	require.NoError(t, enc.Pack(table, 4, TypeItem, codec, testKey, format.EncryptCompressOnly))

	// MIPX layout: fourcc, version, stride, elements, object size.
	engine := endian.GetLittleEndianEngine()
	buf := enc.Buffer()
	require.Equal(t, uint32(format.FourCCItemProto), engine.Uint32(buf[0:4]))
	require.Equal(t, uint32(7), engine.Uint32(buf[4:8]))
	require.Equal(t, uint32(200), engine.Uint32(buf[8:12]))
	require.Equal(t, uint32(4), engine.Uint32(buf[12:16]))
	require.Equal(t, uint32(len(buf)-20), engine.Uint32(buf[16:20]))

	dec := New()
	require.NoError(t, dec.Unpack(buf, codec, testKey))
	require.Equal(t, uint32(7), dec.Version())
	require.Equal(t, uint32(200), dec.Stride())
}

func TestProto_ShortHeaderFields(t *testing.T) {
	table := tableData(3, 91)
	codec := compress.NewLzo1xCodec()

	enc := New()
	require.NoError(t, enc.Pack(table, 3, TypeMob, codec, testKey, format.EncryptCompressAndCrypt))

	engine := endian.GetLittleEndianEngine()
	buf := enc.Buffer()
	require.Equal(t, uint32(format.FourCCMobProto), engine.Uint32(buf[0:4]))
	require.Equal(t, uint32(3), engine.Uint32(buf[4:8]))
	require.Equal(t, uint32(len(buf)-12), engine.Uint32(buf[8:12]))
}

func TestProto_CustomFourCC(t *testing.T) {
	custom := format.MakeFourCC("XIPX")
	table := tableData(2, 50)
	codec := compress.NewLzo1xCodec()

	enc := New(WithItemFourCC(custom))
	require.NoError(t, enc.Pack(table, 2, TypeItem, codec, testKey, format.EncryptCompressOnly))

	// A default-configured reader must reject the custom tag.
	dec := New()
	require.ErrorIs(t, dec.Unpack(enc.Buffer(), codec, testKey), errs.ErrInvalidProtoHeader)

	dec = New(WithItemFourCC(custom))
	require.NoError(t, dec.Unpack(enc.Buffer(), codec, testKey))
	require.Equal(t, TypeItem, dec.Type())
}

func TestProto_Unpack_Invalid(t *testing.T) {
	codec := compress.NewLzo1xCodec()

	t.Run("Too short", func(t *testing.T) {
		p := New()
		require.ErrorIs(t, p.Unpack(make([]byte, 8), codec, testKey), errs.ErrInvalidProtoHeader)
	})

	t.Run("Unknown FourCC", func(t *testing.T) {
		input := make([]byte, 32)
		copy(input, "XXXX")

		p := New()
		require.ErrorIs(t, p.Unpack(input, codec, testKey), errs.ErrInvalidProtoHeader)
	})

	t.Run("Truncated item header", func(t *testing.T) {
		input := make([]byte, 16)
		copy(input, "MIPX")

		p := New()
		require.ErrorIs(t, p.Unpack(input, codec, testKey), errs.ErrInvalidProtoHeader)
	})

	t.Run("Object size beyond buffer", func(t *testing.T) {
		enc := New()
		require.NoError(t, enc.Pack(tableData(2, 16), 2, TypeMob, codec, testKey, format.EncryptCompressAndCrypt))

		truncated := enc.Buffer()[:enc.Size()-4]

		p := New()
		require.ErrorIs(t, p.Unpack(truncated, codec, testKey), errs.ErrInvalidProtoHeader)
	})
}

func TestProto_Pack_Invalid(t *testing.T) {
	codec := compress.NewLzo1xCodec()

	p := New()
	require.ErrorIs(t, p.Pack(nil, 1, TypeMob, codec, testKey, format.EncryptNone), errs.ErrInvalidInput)
	require.ErrorIs(t, p.Pack([]byte{1}, 0, TypeMob, codec, testKey, format.EncryptNone), errs.ErrInvalidInput)
}
