package compress

import "github.com/lyketo/lyketo/format"

// ZstdCodec is an extra registerable algorithm (MCZD). Like LZ4Codec it is
// not part of the legacy wire surface.
//
// Two backends implement Compress/Decompress: the default pure-Go backend
// (klauspost/compress/zstd) and a cgo backend (valyala/gozstd) selected with
// the cgo_zstd build tag.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstandard codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// MaxCompressedLen returns a conservative Zstandard frame bound: the input
// plus per-block and frame overhead.
func (c ZstdCodec) MaxCompressedLen(n int) int {
	return n + n/255 + 64
}

func (c ZstdCodec) FourCC() format.FourCC {
	return format.FourCCZstd
}

func (c ZstdCodec) SupportsEncryption() bool {
	return true
}
