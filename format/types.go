package format

import "fmt"

// FourCC is a 32-bit tag formed by four ASCII bytes in little-endian order.
// On the wire it is an opaque integer; only equality is meaningful.
type FourCC uint32

// MakeFourCC packs four ASCII bytes into a FourCC ('M','C','O','Z' -> 0x5A4F434D).
func MakeFourCC(s string) FourCC {
	if len(s) != 4 {
		panic("format: FourCC requires exactly 4 bytes")
	}

	return FourCC(uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24)
}

func (f FourCC) String() string {
	b := [4]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08X", uint32(f))
		}
	}

	return string(b[:])
}

// Default tags of the container family. All of them are overridable at the
// codec level; these are the values legacy clients shipped with.
var (
	FourCCLzo1x        = MakeFourCC("MCOZ")
	FourCCSnappy       = MakeFourCC("MCSP")
	FourCCLZ4          = MakeFourCC("MCL4")
	FourCCZstd         = MakeFourCC("MCZD")
	FourCCItemProto    = MakeFourCC("MIPX")
	FourCCItemProtoOld = MakeFourCC("MIPT")
	FourCCMobProto     = MakeFourCC("MMPT")
	FourCCEterPack     = MakeFourCC("EPKD")
)

type (
	EncryptType uint8
	StorageType uint8
)

const (
	EncryptNone             EncryptType = 0 // EncryptNone stores the payload as-is after the header.
	EncryptCompressOnly     EncryptType = 1 // EncryptCompressOnly compresses but skips the cipher stage.
	EncryptCompressAndCrypt EncryptType = 2 // EncryptCompressAndCrypt compresses then XTEA-encrypts.
)

const (
	StorageRaw          StorageType = 0 // identity, size == real size
	StorageLzo1x        StorageType = 1 // CryptedObject, LZO1X, compression only
	StorageLzo1xXtea    StorageType = 2 // CryptedObject, LZO1X, compressed and encrypted
	StorageParama       StorageType = 3 // reserved legacy codepoint
	StorageHybridCrypt  StorageType = 4 // reserved legacy codepoint
	StorageHybridCrypt2 StorageType = 5 // reserved legacy codepoint
	StorageSnappyXtea   StorageType = 6 // CryptedObject, Snappy, compressed and encrypted
)

func (e EncryptType) String() string {
	switch e {
	case EncryptNone:
		return "None"
	case EncryptCompressOnly:
		return "CompressOnly"
	case EncryptCompressAndCrypt:
		return "CompressAndEncrypt"
	default:
		return "Unknown"
	}
}

func (s StorageType) String() string {
	switch s {
	case StorageRaw:
		return "Raw"
	case StorageLzo1x:
		return "Lzo1x"
	case StorageLzo1xXtea:
		return "Lzo1xXtea"
	case StorageParama:
		return "Parama"
	case StorageHybridCrypt:
		return "HybridCrypt"
	case StorageHybridCrypt2:
		return "HybridCrypt2"
	case StorageSnappyXtea:
		return "SnappyXtea"
	default:
		return "Unknown"
	}
}

// Supported reports whether a reader or writer may process entries of this
// storage kind. The reserved legacy codepoints (3, 4, 5) always fail.
func (s StorageType) Supported() bool {
	switch s {
	case StorageRaw, StorageLzo1x, StorageLzo1xXtea, StorageSnappyXtea:
		return true
	default:
		return false
	}
}
