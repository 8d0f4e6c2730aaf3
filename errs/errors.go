// Package errs defines the sentinel errors shared by the codec packages.
//
// Callers discriminate terminal conditions with errors.Is; packages wrap
// these sentinels with fmt.Errorf("...: %w", ...) when extra context helps.
package errs

import "errors"

// CryptedObject codec errors.
var (
	// ErrNoMemory reports a header whose length fields imply an allocation
	// beyond the decoder's safety limit.
	ErrNoMemory = errors.New("allocation limit exceeded")

	// ErrInvalidInput reports an input buffer too short to carry the format,
	// or an empty encode payload.
	ErrInvalidInput = errors.New("invalid input buffer")

	// ErrInvalidAlgorithm reports a missing or unusable compression algorithm.
	ErrInvalidAlgorithm = errors.New("invalid algorithm")

	// ErrInvalidHeader reports a header whose FourCC or real length cannot
	// belong to the selected algorithm.
	ErrInvalidHeader = errors.New("invalid object header")

	// ErrInvalidCompressLength reports a compressed-stage length that does not
	// match the buffer.
	ErrInvalidCompressLength = errors.New("invalid compress length")

	// ErrInvalidRealLength reports a payload whose final size differs from the
	// header's real length.
	ErrInvalidRealLength = errors.New("invalid real length")

	// ErrInvalidCryptLength reports a cryptation-stage length that does not
	// match the buffer.
	ErrInvalidCryptLength = errors.New("invalid crypt length")

	// ErrCryptFail reports a decrypted block whose integrity tag did not
	// verify, usually a wrong key.
	ErrCryptFail = errors.New("cryptation failed")

	// ErrInvalidCryptAlgorithm reports an encrypted stream paired with an
	// algorithm that refuses cryptation.
	ErrInvalidCryptAlgorithm = errors.New("algorithm does not support cryptation")

	// ErrCompressFail reports the compression library rejecting the data.
	ErrCompressFail = errors.New("compression failed")

	// ErrInvalidFourCC reports an embedded magic tag that does not match the
	// header's FourCC.
	ErrInvalidFourCC = errors.New("invalid embedded fourcc")
)

// Proto errors.
var (
	// ErrInvalidProtoHeader reports an unknown proto FourCC or a header/body
	// size mismatch.
	ErrInvalidProtoHeader = errors.New("invalid proto header")
)

// EterPack errors.
var (
	// ErrInvalidPackHeader reports an index blob whose FourCC is wrong or
	// whose size cannot carry the header.
	ErrInvalidPackHeader = errors.New("invalid pack index header")

	// ErrInvalidPackVersion reports an index version other than the configured
	// one.
	ErrInvalidPackVersion = errors.New("unsupported pack index version")

	// ErrInvalidPackSize reports an index whose element count disagrees with
	// its byte length.
	ErrInvalidPackSize = errors.New("invalid pack index size")

	// ErrUnsupportedStorageType reports a reserved or unknown entry storage
	// kind.
	ErrUnsupportedStorageType = errors.New("unsupported storage type")

	// ErrFileNotFound reports a lookup for a name or CRC the index does not
	// contain.
	ErrFileNotFound = errors.New("file not found in pack")

	// ErrInvalidFilename reports an empty name or one exceeding the 160-byte
	// index field.
	ErrInvalidFilename = errors.New("invalid pack filename")

	// ErrNoFileSystem reports a Get or Put on a pack with no attached file
	// system.
	ErrNoFileSystem = errors.New("no file system attached")
)
