package compress

import (
	"fmt"

	"github.com/klauspost/compress/snappy"

	"github.com/lyketo/lyketo/format"
)

// SnappyCodec implements the MCSP algorithm.
type SnappyCodec struct{}

var _ Codec = (*SnappyCodec)(nil)

// NewSnappyCodec creates a new Snappy codec.
func NewSnappyCodec() SnappyCodec {
	return SnappyCodec{}
}

// Compress compresses the input data using Snappy block encoding.
func (c SnappyCodec) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// Decompress decompresses a Snappy block into a buffer of realLen bytes.
// A stream that decodes to more than realLen bytes fails; a shorter result
// is returned as is and the container checks it against its header.
func (c SnappyCodec) Decompress(data []byte, realLen int) ([]byte, error) {
	buf := make([]byte, realLen)

	out, err := snappy.Decode(buf, data)
	if err != nil {
		return nil, err
	}
	if len(out) > realLen {
		return nil, fmt.Errorf("snappy: decoded %d bytes, expected at most %d", len(out), realLen)
	}

	return out, nil
}

// MaxCompressedLen returns the library's documented worst-case bound.
func (c SnappyCodec) MaxCompressedLen(n int) int {
	return snappy.MaxEncodedLen(n)
}

func (c SnappyCodec) FourCC() format.FourCC {
	return format.FourCCSnappy
}

func (c SnappyCodec) SupportsEncryption() bool {
	return true
}
