// Package crypted implements the CryptedObject container: a 16-byte header
// followed by a payload that is optionally compressed and optionally
// XTEA-encrypted, self-verified by an embedded magic tag at every stage.
package crypted

import (
	"fmt"

	"github.com/lyketo/lyketo/compress"
	"github.com/lyketo/lyketo/endian"
	"github.com/lyketo/lyketo/errs"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/xtea"
)

const (
	// HeaderSize is the fixed wire header length.
	HeaderSize = 16

	// MagicSize is the embedded FourCC tag length.
	MagicSize = 4

	// cryptPad is the slack the cryptation stage adds on top of the
	// compressed body: the 4-byte magic tag plus a 16-byte cushion.
	cryptPad = 20

	// maxAlloc caps every allocation driven by an untrusted header field.
	maxAlloc = 1 << 30
)

// Header is the fixed CryptedObject wire header, little-endian.
type Header struct {
	// FourCC is the compression algorithm tag.
	//
	// Offset: 0, Size: 4 bytes
	FourCC format.FourCC

	// AfterCryptLength is the size of the encrypted region, or 0 when the
	// cryptation stage was skipped. After an encode with cryptation it is
	// always AfterCompressLength + 20.
	//
	// Offset: 4, Size: 4 bytes
	AfterCryptLength uint32

	// AfterCompressLength is the compressor's output size, or 0 when the
	// payload is stored raw.
	//
	// Offset: 8, Size: 4 bytes
	AfterCompressLength uint32

	// RealLength is the uncompressed payload size. Never 0 for a valid
	// object.
	//
	// Offset: 12, Size: 4 bytes
	RealLength uint32
}

func parseHeader(data []byte, engine endian.EndianEngine) Header {
	return Header{
		FourCC:              format.FourCC(engine.Uint32(data[0:4])),
		AfterCryptLength:    engine.Uint32(data[4:8]),
		AfterCompressLength: engine.Uint32(data[8:12]),
		RealLength:          engine.Uint32(data[12:16]),
	}
}

func (h Header) writeTo(data []byte, engine endian.EndianEngine) {
	engine.PutUint32(data[0:4], uint32(h.FourCC))
	engine.PutUint32(data[4:8], h.AfterCryptLength)
	engine.PutUint32(data[8:12], h.AfterCompressLength)
	engine.PutUint32(data[12:16], h.RealLength)
}

// Object is a single-use CryptedObject codec. One Decode or Encode call
// replaces its internal buffer; the object is not reentrant and must not be
// shared between goroutines. Independent Objects may run in parallel.
type Object struct {
	header Header
	buffer []byte
	engine endian.EndianEngine
}

// NewObject creates an empty codec object.
func NewObject() *Object {
	return &Object{engine: endian.GetLittleEndianEngine()}
}

// Buffer returns the payload produced by the last successful call: the
// decoded plaintext after Decode, the full wire object after Encode.
func (o *Object) Buffer() []byte {
	return o.buffer
}

// Size returns the length of Buffer.
func (o *Object) Size() int {
	return len(o.buffer)
}

// Header returns the header of the last successful call.
func (o *Object) Header() Header {
	return o.header
}

// Decode parses and unwraps a CryptedObject. The algorithm must match the
// header's FourCC and the key must be the one the object was encrypted
// with; every stage boundary is verified before the next stage runs.
//
// On any error the object's buffer is empty; no partial payload is ever
// observable.
func (o *Object) Decode(input []byte, algo compress.Codec, key xtea.Key) error {
	o.buffer = nil
	o.header = Header{}

	if algo == nil {
		return errs.ErrInvalidAlgorithm
	}
	if len(input) < HeaderSize+MagicSize {
		return errs.ErrInvalidInput
	}

	h := parseHeader(input, o.engine)
	if h.RealLength == 0 || h.FourCC != algo.FourCC() {
		return errs.ErrInvalidHeader
	}
	if h.RealLength > maxAlloc || h.AfterCompressLength > maxAlloc || h.AfterCryptLength > maxAlloc {
		return errs.ErrNoMemory
	}
	o.header = h

	var inputData []byte

	if h.AfterCryptLength > 0 {
		// Historical check: one magic word of slack beyond the stated
		// encrypted-region length. Observed archives conform to it.
		if len(input)-HeaderSize != int(h.AfterCryptLength)+MagicSize {
			return errs.ErrInvalidCryptLength
		}

		plain := make([]byte, int(h.AfterCompressLength)+cryptPad)
		xtea.Decrypt(plain, input[HeaderSize:HeaderSize+int(h.AfterCryptLength)], key)

		if format.FourCC(o.engine.Uint32(plain[0:4])) != h.FourCC {
			return errs.ErrCryptFail
		}

		inputData = plain[MagicSize:]
	}

	if h.AfterCompressLength > 0 {
		if h.AfterCryptLength > 0 && !algo.SupportsEncryption() {
			return errs.ErrInvalidCryptAlgorithm
		}

		if h.AfterCryptLength == 0 {
			if len(input)-HeaderSize != int(h.AfterCompressLength)+MagicSize {
				return errs.ErrInvalidCompressLength
			}
			if format.FourCC(o.engine.Uint32(input[HeaderSize:HeaderSize+MagicSize])) != h.FourCC {
				return errs.ErrInvalidFourCC
			}

			inputData = input[HeaderSize+MagicSize:]
		}

		out, err := algo.Decompress(inputData[:h.AfterCompressLength], int(h.RealLength))
		if err != nil {
			return fmt.Errorf("%w: %s", errs.ErrCompressFail, err)
		}
		if len(out) != int(h.RealLength) {
			return errs.ErrInvalidRealLength
		}

		o.buffer = out

		return nil
	}

	// Compression disabled: the body is the raw payload.
	if len(input)-HeaderSize != int(h.RealLength) {
		return errs.ErrInvalidRealLength
	}

	o.buffer = append([]byte(nil), input[HeaderSize:]...)

	return nil
}

// Encode wraps input into a CryptedObject using the given algorithm, key
// and mode. The resulting wire bytes are available through Buffer.
//
// A CompressAndEncrypt request against an algorithm that refuses cryptation
// silently degrades to CompressOnly, matching the decode-side tolerance.
func (o *Object) Encode(input []byte, algo compress.Codec, key xtea.Key, mode format.EncryptType) error {
	o.buffer = nil
	o.header = Header{}

	if algo == nil {
		return errs.ErrInvalidAlgorithm
	}
	if len(input) == 0 {
		return errs.ErrInvalidInput
	}

	h := Header{
		FourCC:     algo.FourCC(),
		RealLength: uint32(len(input)),
	}

	if mode == format.EncryptNone {
		buf := make([]byte, HeaderSize+len(input))
		copy(buf[HeaderSize:], input)
		h.writeTo(buf, o.engine)

		o.header = h
		o.buffer = buf

		return nil
	}

	compressed, err := algo.Compress(input)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrCompressFail, err)
	}
	h.AfterCompressLength = uint32(len(compressed))

	if mode == format.EncryptCompressAndCrypt && algo.SupportsEncryption() {
		h.AfterCryptLength = h.AfterCompressLength + cryptPad

		// The encrypted region is magic + compressed + zero cushion; only
		// whole 64-bit blocks pass through the cipher, any spare tail bytes
		// stay plaintext zeros.
		plain := make([]byte, int(h.AfterCryptLength))
		o.engine.PutUint32(plain[0:MagicSize], uint32(h.FourCC))
		copy(plain[MagicSize:], compressed)

		buf := make([]byte, HeaderSize+int(h.AfterCryptLength))
		xtea.Encrypt(buf[HeaderSize:], plain, key)
		h.writeTo(buf, o.engine)

		o.header = h
		o.buffer = buf

		return nil
	}

	buf := make([]byte, HeaderSize+MagicSize+len(compressed))
	o.engine.PutUint32(buf[HeaderSize:HeaderSize+MagicSize], uint32(h.FourCC))
	copy(buf[HeaderSize+MagicSize:], compressed)
	h.writeTo(buf, o.engine)

	o.header = h
	o.buffer = buf

	return nil
}
