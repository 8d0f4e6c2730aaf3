// Package compress provides the pluggable compression codecs used by the
// container formats, keyed on the wire by four-byte FourCC tags.
//
// # Architecture
//
// A Codec is a stateless strategy with five operations:
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte, realLen int) ([]byte, error)
//	    MaxCompressedLen(n int) int
//	    FourCC() format.FourCC
//	    SupportsEncryption() bool
//	}
//
// Decompress takes the uncompressed size the caller already knows from the
// container header and allocates exactly that. MaxCompressedLen is the
// per-algorithm worst-case output bound; Compress never exceeds it.
//
// # Supported algorithms
//
//   - Lzo1x (MCOZ): the legacy default, LZO1X via github.com/woozymasta/lzo
//   - Snappy (MCSP): via github.com/klauspost/compress/snappy
//   - LZ4 (MCL4): extra registerable codec, github.com/pierrec/lz4/v4
//   - Zstd (MCZD): extra registerable codec; pure-Go backend by default,
//     cgo backend behind the cgo_zstd build tag
//
// Only Lzo1x and Snappy appear in legacy archives; LZ4 and Zstd exist for
// caller-configured registries, since FourCCs are opaque and the registry
// accepts any tag.
//
// # Registry
//
// A Registry is an insertion-ordered FourCC-to-Codec mapping with an
// optional forced preference. Configure it once at startup and treat it as
// read-only afterwards; codecs themselves are safe for concurrent use.
package compress
