package compress

import "github.com/lyketo/lyketo/format"

// Codec is a stateless compression strategy identified on the wire by a
// FourCC tag.
//
// Memory management follows one rule throughout: returned slices are newly
// allocated and owned by the caller, input slices are never modified.
type Codec interface {
	// Compress compresses data and returns the compressed result.
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data into a buffer of exactly realLen bytes,
	// the uncompressed size recorded in the container header. It fails on
	// malformed input and on output that does not fit realLen.
	Decompress(data []byte, realLen int) ([]byte, error)

	// MaxCompressedLen returns the worst-case compressed size for an input
	// of n bytes. Compress output never exceeds this bound.
	MaxCompressedLen(n int) int

	// FourCC returns the tag this codec writes into container headers.
	FourCC() format.FourCC

	// SupportsEncryption reports whether the codec may be paired with the
	// cryptation stage. Both legacy algorithms allow it.
	SupportsEncryption() bool
}
