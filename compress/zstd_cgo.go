//go:build cgo_zstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress compresses the input data using Zstandard compression.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses a Zstandard frame into realLen bytes.
func (c ZstdCodec) Decompress(data []byte, realLen int) ([]byte, error) {
	buf := make([]byte, 0, realLen)

	out, err := gozstd.Decompress(buf, data)
	if err != nil {
		return nil, err
	}
	if len(out) > realLen {
		return nil, fmt.Errorf("zstd: decoded %d bytes, expected at most %d", len(out), realLen)
	}

	return out, nil
}
