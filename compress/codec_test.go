package compress

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lyketo/lyketo/format"
)

func compressibleData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i / 16)
	}

	return data
}

func randomData(n int) []byte {
	rnd := rand.New(rand.NewPCG(42, 1337))
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rnd.Uint32())
	}

	return data
}

func TestCodec_RoundTrip(t *testing.T) {
	codecs := []Codec{
		NewLzo1xCodec(),
		NewSnappyCodec(),
		NewZstdCodec(),
	}

	for _, codec := range codecs {
		t.Run(codec.FourCC().String(), func(t *testing.T) {
			for _, n := range []int{1, 16, 100, 1024, 64 * 1024} {
				data := compressibleData(n)

				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				out, err := codec.Decompress(compressed, len(data))
				require.NoError(t, err)
				require.True(t, bytes.Equal(data, out), "size %d", n)
			}
		})
	}
}

func TestLZ4Codec_RoundTrip(t *testing.T) {
	// The LZ4 block compressor signals incompressible input with an empty
	// result, so the round-trip is only defined for data it can reduce.
	codec := NewLZ4Codec()
	data := compressibleData(4096)

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.NotEmpty(t, compressed)

	out, err := codec.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestCodec_WorstCaseBound(t *testing.T) {
	codecs := []Codec{
		NewLzo1xCodec(),
		NewSnappyCodec(),
		NewLZ4Codec(),
		NewZstdCodec(),
	}

	for _, codec := range codecs {
		t.Run(codec.FourCC().String(), func(t *testing.T) {
			for _, n := range []int{1, 7, 64, 1024, 8192} {
				for _, data := range [][]byte{compressibleData(n), randomData(n)} {
					compressed, err := codec.Compress(data)
					require.NoError(t, err)
					require.LessOrEqual(t, len(compressed), codec.MaxCompressedLen(n))
				}
			}
		})
	}
}

func TestCodec_DecompressMalformed(t *testing.T) {
	garbage := []byte{0xFF, 0xFE, 0xFD, 0xFC, 0xFB, 0xFA, 0xF9, 0xF8}

	for _, codec := range []Codec{NewLzo1xCodec(), NewSnappyCodec(), NewZstdCodec()} {
		t.Run(codec.FourCC().String(), func(t *testing.T) {
			_, err := codec.Decompress(garbage, 1024)
			require.Error(t, err)
		})
	}
}

func TestCodec_Defaults(t *testing.T) {
	require.Equal(t, format.FourCCLzo1x, NewLzo1xCodec().FourCC())
	require.Equal(t, format.FourCCSnappy, NewSnappyCodec().FourCC())
	require.Equal(t, format.FourCCLZ4, NewLZ4Codec().FourCC())
	require.Equal(t, format.FourCCZstd, NewZstdCodec().FourCC())

	for _, codec := range []Codec{NewLzo1xCodec(), NewSnappyCodec(), NewLZ4Codec(), NewZstdCodec()} {
		require.True(t, codec.SupportsEncryption())
	}
}
