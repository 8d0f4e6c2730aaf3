// Command lyketo inspects, extracts and builds the legacy game-asset
// containers: CryptedObject blobs, item/mob proto tables and EterPack
// archives.
//
// Usage:
//
//	lyketo [-c config.json] [-v] dump <file>
//	lyketo [-c config.json] [-v] decrypt [-key <hex>] <in> <out>
//	lyketo [-c config.json] [-v] encrypt [-algo lzo|snappy] [-mode none|compress|full]
//	       [-key <hex>] [-proto item|itemold|mob -elements <n>] <in> <out>
//	lyketo [-c config.json] [-v] unpack <archive> <outdir>
//	lyketo [-c config.json] [-v] pack [-store] <dir> <archive>
//
// decrypt detects the container by its leading FourCC: a proto tag (MIPX,
// MIPT, MMPT) unpacks the proto table with the matching item or mob key, a
// compression tag unwraps a bare CryptedObject with the index key. -key
// overrides the selected key with a 32-character hex value. encrypt builds
// a bare CryptedObject by default, or a proto container when -proto names a
// variant; -elements is the table row count recorded in the proto header.
// <archive> names the pair <archive>.eix / <archive>.epk.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lyketo/lyketo/compress"
	"github.com/lyketo/lyketo/crypted"
	"github.com/lyketo/lyketo/endian"
	"github.com/lyketo/lyketo/eterpack"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/proto"
	"github.com/lyketo/lyketo/xtea"
)

func main() {
	configPath := flag.String("c", "", "path to JSON config")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := defaultConfig()
	if *configPath != "" {
		if err := cfg.load(*configPath); err != nil {
			slog.Error("cannot load config", "error", err)
			os.Exit(1)
		}
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: lyketo [-c config.json] [-v] <dump|decrypt|encrypt|unpack|pack> ...")
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "dump":
		err = runDump(cfg, args[1:])
	case "decrypt":
		err = runDecrypt(cfg, args[1:])
	case "encrypt":
		err = runEncrypt(cfg, args[1:])
	case "unpack":
		err = runUnpack(cfg, args[1:])
	case "pack":
		err = runPack(cfg, args[1:])
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		slog.Error("command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func leadingFourCC(data []byte) (format.FourCC, bool) {
	if len(data) < 4 {
		return 0, false
	}

	return format.FourCC(endian.GetLittleEndianEngine().Uint32(data[0:4])), true
}

// objectCodec picks the codec matching the leading magic of a wrapped blob.
func objectCodec(cfg *config, data []byte) (compress.Codec, bool) {
	magic, ok := leadingFourCC(data)
	if !ok {
		return nil, false
	}
	if magic != cfg.lzoFourCC && magic != cfg.snappyFourCC {
		return nil, false
	}

	algo, ok := cfg.registry().Find(magic)

	return algo, ok
}

// isProtoFourCC reports whether magic names a configured proto container.
func isProtoFourCC(cfg *config, magic format.FourCC) bool {
	return magic == cfg.itemFourCC || magic == cfg.itemOldFourCC || magic == cfg.mobFourCC
}

// newProto builds a proto codec with the configured tags, version and
// stride applied.
func newProto(cfg *config) *proto.Proto {
	return proto.New(
		proto.WithItemFourCC(cfg.itemFourCC),
		proto.WithItemOldFourCC(cfg.itemOldFourCC),
		proto.WithMobFourCC(cfg.mobFourCC),
		proto.WithItemVersion(cfg.itemVersion),
		proto.WithItemStride(cfg.itemStride),
	)
}

// overrideKey returns the -key flag value when present, the selected
// default otherwise.
func overrideKey(def xtea.Key, keyHex string) (xtea.Key, error) {
	if keyHex == "" {
		return def, nil
	}

	return xtea.ParseKey(keyHex)
}

func runDump(cfg *config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: lyketo dump <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(args[0]), ".eix") {
		return dumpIndex(cfg, args[0], data)
	}

	if len(data) < crypted.HeaderSize {
		return fmt.Errorf("%s: too short for a CryptedObject header", args[0])
	}

	engine := endian.GetLittleEndianEngine()
	fmt.Printf("Dump of CryptedObject: %s\n", args[0])
	fmt.Printf("  File size:             %d\n", len(data))
	fmt.Printf("  FourCC:                %s\n", format.FourCC(engine.Uint32(data[0:4])))
	fmt.Printf("  After cryptation size: %d\n", engine.Uint32(data[4:8]))
	fmt.Printf("  After compress size:   %d\n", engine.Uint32(data[8:12]))
	fmt.Printf("  Real size:             %d\n", engine.Uint32(data[12:16]))

	return nil
}

func dumpIndex(cfg *config, path string, data []byte) error {
	index, err := loadIndexBytes(cfg, data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	pack := eterpack.New(
		eterpack.WithRegistry(cfg.registry()),
		eterpack.WithFourCC(cfg.packFourCC),
		eterpack.WithVersion(cfg.packVersion),
		eterpack.WithLzo1xFourCC(cfg.lzoFourCC),
		eterpack.WithSnappyFourCC(cfg.snappyFourCC),
	)
	if err := pack.Load(index, nil); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	files := pack.Files()
	fmt.Printf("Dump of EterPack index: %s\n", path)
	fmt.Printf("  Elements: %d\n", len(files))
	for _, f := range files {
		fmt.Printf("  %6d  %-40s  type=%-12s  real=%-8d stored=%-8d pos=%-8d crc=%08X\n",
			f.ID, f.Filename, f.Type, f.RealSize, f.Size, f.Position, f.CRC32)
	}

	return nil
}

// loadIndexBytes unwraps an .eix image: when the leading magic names a
// compression algorithm the index is a CryptedObject, otherwise it is
// already plain.
func loadIndexBytes(cfg *config, data []byte) ([]byte, error) {
	algo, ok := objectCodec(cfg, data)
	if !ok {
		return data, nil
	}

	slog.Debug("index is wrapped, decoding", "fourcc", algo.FourCC().String())

	obj := crypted.NewObject()
	if err := obj.Decode(data, algo, cfg.indexKey); err != nil {
		return nil, err
	}

	return obj.Buffer(), nil
}

func runDecrypt(cfg *config, args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ContinueOnError)
	keyHex := fs.String("key", "", "XTEA key override, 32 hex characters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: lyketo decrypt [-key <hex>] <in> <out>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	magic, ok := leadingFourCC(data)
	if !ok {
		return fmt.Errorf("%s: too short for a container", fs.Arg(0))
	}

	var out []byte
	if isProtoFourCC(cfg, magic) {
		out, err = decryptProto(cfg, data, magic, *keyHex)
	} else {
		out, err = decryptObject(cfg, data, *keyHex)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	slog.Info("decoded", "in", fs.Arg(0), "size", len(out))

	return os.WriteFile(fs.Arg(1), out, 0o644)
}

func decryptObject(cfg *config, data []byte, keyHex string) ([]byte, error) {
	algo, ok := objectCodec(cfg, data)
	if !ok {
		return nil, fmt.Errorf("leading magic is not a configured algorithm or proto tag")
	}

	key, err := overrideKey(cfg.indexKey, keyHex)
	if err != nil {
		return nil, err
	}

	obj := crypted.NewObject()
	if err := obj.Decode(data, algo, key); err != nil {
		return nil, err
	}

	return obj.Buffer(), nil
}

// decryptProto unpacks a proto container, selecting the embedded object's
// codec by the magic after the proto header and the key by the detected
// variant.
func decryptProto(cfg *config, data []byte, magic format.FourCC, keyHex string) ([]byte, error) {
	headerSize := proto.HeaderSizeShort
	defKey := cfg.mobKey
	if magic == cfg.itemFourCC || magic == cfg.itemOldFourCC {
		defKey = cfg.itemKey
	}
	if magic == cfg.itemFourCC {
		headerSize = proto.HeaderSizeItem
	}

	if len(data) < headerSize+crypted.HeaderSize {
		return nil, fmt.Errorf("proto file too short")
	}

	algo, ok := objectCodec(cfg, data[headerSize:])
	if !ok {
		return nil, fmt.Errorf("embedded object magic is not a configured algorithm")
	}

	key, err := overrideKey(defKey, keyHex)
	if err != nil {
		return nil, err
	}

	p := newProto(cfg)
	if err := p.Unpack(data, algo, key); err != nil {
		return nil, err
	}

	slog.Info("decoded proto", "type", p.Type().String(), "elements", p.Elements())

	return p.Buffer(), nil
}

func runEncrypt(cfg *config, args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	algoName := fs.String("algo", "snappy", "compression algorithm: lzo or snappy")
	modeName := fs.String("mode", "full", "encrypt mode: none, compress or full")
	keyHex := fs.String("key", "", "XTEA key override, 32 hex characters")
	protoName := fs.String("proto", "", "build a proto container: item, itemold or mob")
	elements := fs.Uint("elements", 0, "proto table row count (required with -proto)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: lyketo encrypt [-algo lzo|snappy] [-mode none|compress|full] [-key <hex>] [-proto item|itemold|mob -elements <n>] <in> <out>")
	}

	fc := cfg.snappyFourCC
	if *algoName == "lzo" {
		fc = cfg.lzoFourCC
	}
	algo, ok := cfg.registry().Find(fc)
	if !ok {
		return fmt.Errorf("algorithm %q is not registered", *algoName)
	}

	var mode format.EncryptType
	switch *modeName {
	case "none":
		mode = format.EncryptNone
	case "compress":
		mode = format.EncryptCompressOnly
	case "full":
		mode = format.EncryptCompressAndCrypt
	default:
		return fmt.Errorf("unknown mode %q", *modeName)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	var out []byte
	if *protoName != "" {
		out, err = encryptProto(cfg, data, *protoName, uint32(*elements), algo, *keyHex, mode)
	} else {
		var key xtea.Key
		key, err = overrideKey(cfg.indexKey, *keyHex)
		if err == nil {
			obj := crypted.NewObject()
			if err = obj.Encode(data, algo, key, mode); err == nil {
				out = obj.Buffer()
			}
		}
	}
	if err != nil {
		return err
	}

	slog.Info("encoded", "in", fs.Arg(0), "size", len(out), "mode", mode)

	return os.WriteFile(fs.Arg(1), out, 0o644)
}

// encryptProto packs a table into a proto container, selecting the key by
// variant unless -key overrides it.
func encryptProto(cfg *config, data []byte, variant string, elements uint32, algo compress.Codec, keyHex string, mode format.EncryptType) ([]byte, error) {
	var typ proto.Type
	defKey := cfg.itemKey
	switch variant {
	case "item":
		typ = proto.TypeItem
	case "itemold":
		typ = proto.TypeItemOld
	case "mob":
		typ = proto.TypeMob
		defKey = cfg.mobKey
	default:
		return nil, fmt.Errorf("unknown proto variant %q", variant)
	}

	if elements == 0 {
		return nil, fmt.Errorf("-proto requires -elements > 0")
	}

	key, err := overrideKey(defKey, keyHex)
	if err != nil {
		return nil, err
	}

	p := newProto(cfg)
	if err := p.Pack(data, elements, typ, algo, key, mode); err != nil {
		return nil, err
	}

	slog.Info("packed proto", "type", typ.String(), "elements", elements)

	return p.Buffer(), nil
}

func runUnpack(cfg *config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: lyketo unpack <archive> <outdir>")
	}
	archive, outDir := args[0], args[1]

	indexRaw, err := os.ReadFile(archive + ".eix")
	if err != nil {
		return err
	}
	index, err := loadIndexBytes(cfg, indexRaw)
	if err != nil {
		return fmt.Errorf("%s.eix: %w", archive, err)
	}

	body, err := os.Open(archive + ".epk")
	if err != nil {
		return err
	}
	defer body.Close()

	pack := eterpack.New(
		eterpack.WithRegistry(cfg.registry()),
		eterpack.WithKey(cfg.contentKey),
		eterpack.WithFourCC(cfg.packFourCC),
		eterpack.WithVersion(cfg.packVersion),
		eterpack.WithLzo1xFourCC(cfg.lzoFourCC),
		eterpack.WithSnappyFourCC(cfg.snappyFourCC),
	)
	if err := pack.Load(index, readOnly{body}); err != nil {
		return fmt.Errorf("%s.eix: %w", archive, err)
	}

	for _, f := range pack.Files() {
		content, err := pack.Get(f.Filename)
		if err != nil {
			return fmt.Errorf("extract %q: %w", f.Filename, err)
		}

		dst := filepath.Join(outDir, filepath.FromSlash(f.Filename))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return err
		}

		slog.Debug("extracted", "file", f.Filename, "size", len(content))
	}

	slog.Info("unpacked archive", "archive", archive, "files", len(pack.Files()))

	return nil
}

func runPack(cfg *config, args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	store := fs.Bool("store", false, "store entries raw instead of compressing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: lyketo pack [-store] <dir> <archive>")
	}
	srcDir, archive := fs.Arg(0), fs.Arg(1)

	body, err := os.Create(archive + ".epk")
	if err != nil {
		return err
	}
	defer body.Close()

	pack := eterpack.New(
		eterpack.WithRegistry(cfg.registry()),
		eterpack.WithKey(cfg.contentKey),
		eterpack.WithFourCC(cfg.packFourCC),
		eterpack.WithVersion(cfg.packVersion),
		eterpack.WithLzo1xFourCC(cfg.lzoFourCC),
		eterpack.WithSnappyFourCC(cfg.snappyFourCC),
	)
	pack.Create(body)

	storage := format.StorageSnappyXtea
	if *store {
		storage = format.StorageRaw
	}

	count := 0
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := strings.ToLower(filepath.ToSlash(rel))

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if _, err := pack.Put(name, content, storage); err != nil {
			return fmt.Errorf("pack %q: %w", name, err)
		}

		slog.Debug("packed", "file", name, "size", len(content))
		count++

		return nil
	})
	if err != nil {
		return err
	}

	index, err := pack.Save()
	if err != nil {
		return err
	}

	// The index itself ships wrapped: compressed and encrypted with the
	// index key.
	algo, ok := cfg.registry().Find(cfg.snappyFourCC)
	if !ok {
		return fmt.Errorf("snappy codec is not registered")
	}

	obj := crypted.NewObject()
	if err := obj.Encode(index, algo, cfg.indexKey, format.EncryptCompressAndCrypt); err != nil {
		return err
	}
	if err := os.WriteFile(archive+".eix", obj.Buffer(), 0o644); err != nil {
		return err
	}

	slog.Info("packed archive", "archive", archive, "files", count)

	return nil
}

// readOnly adapts a read-side file to the pack FileSystem; writes fail.
type readOnly struct {
	*os.File
}

func (r readOnly) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("archive body is read-only")
}
