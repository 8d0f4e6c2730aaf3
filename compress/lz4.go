package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/lyketo/lyketo/format"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec is an extra registerable algorithm (MCL4). No legacy archive
// carries it; it exists for caller-configured registries.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 block codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses the input data using LZ4 block compression.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block into realLen bytes. The container
// header gives the exact output size, so the buffer is allocated once.
func (c LZ4Codec) Decompress(data []byte, realLen int) ([]byte, error) {
	buf := make([]byte, realLen)

	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// MaxCompressedLen returns the LZ4 block worst-case bound.
func (c LZ4Codec) MaxCompressedLen(n int) int {
	return lz4.CompressBlockBound(n)
}

func (c LZ4Codec) FourCC() format.FourCC {
	return format.FourCCLZ4
}

func (c LZ4Codec) SupportsEncryption() bool {
	return true
}
