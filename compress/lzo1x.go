package compress

import (
	"github.com/woozymasta/lzo"

	"github.com/lyketo/lyketo/format"
)

// Lzo1xCodec is the legacy default algorithm (MCOZ). Compression uses the
// LZO1X-999 matcher, whose output decodes with the plain LZO1X decoder; the
// legacy tooling did the same trade of encode time for ratio.
type Lzo1xCodec struct{}

var _ Codec = (*Lzo1xCodec)(nil)

// NewLzo1xCodec creates a new LZO1X codec.
func NewLzo1xCodec() Lzo1xCodec {
	return Lzo1xCodec{}
}

// Compress compresses the input data using LZO1X-999.
func (c Lzo1xCodec) Compress(data []byte) ([]byte, error) {
	return lzo.Compress1X999(data)
}

// Decompress decompresses an LZO1X stream into realLen bytes.
func (c Lzo1xCodec) Decompress(data []byte, realLen int) ([]byte, error) {
	return lzo.Decompress(data, &lzo.DecompressOptions{OutLen: realLen})
}

// MaxCompressedLen returns the LZO1X worst-case bound n + n/16 + 64 + 3.
func (c Lzo1xCodec) MaxCompressedLen(n int) int {
	return n + n/16 + 64 + 3
}

func (c Lzo1xCodec) FourCC() format.FourCC {
	return format.FourCCLzo1x
}

func (c Lzo1xCodec) SupportsEncryption() bool {
	return true
}
