package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/lyketo/lyketo"
	"github.com/lyketo/lyketo/compress"
	"github.com/lyketo/lyketo/eterpack"
	"github.com/lyketo/lyketo/format"
	"github.com/lyketo/lyketo/proto"
	"github.com/lyketo/lyketo/xtea"
)

// fileConfig is the JSON schema of the tool config. All sections and fields
// are optional; absent values keep the stock defaults.
type fileConfig struct {
	EterPack struct {
		Version *uint32 `json:"Version"`
	} `json:"EterPack"`
	ItemProto struct {
		Version *uint32 `json:"Version"`
		Stride  *uint32 `json:"Stride"`
	} `json:"ItemProto"`
	Keys struct {
		ItemProto       string `json:"ItemProto"`
		MobProto        string `json:"MobProto"`
		EterPackIndex   string `json:"EterPackIndex"`
		EterPackContent string `json:"EterPackContent"`
	} `json:"Keys"`
	FourCC struct {
		Lzo1x        string `json:"Lzo1x"`
		Snappy       string `json:"Snappy"`
		EterPack     string `json:"EterPack"`
		ItemProtoNew string `json:"ItemProtoNew"`
		ItemProtoOld string `json:"ItemProtoOld"`
		MobProto     string `json:"MobProto"`
	} `json:"FourCC"`
}

// config is the resolved tool configuration.
type config struct {
	lzoFourCC     format.FourCC
	snappyFourCC  format.FourCC
	packFourCC    format.FourCC
	itemFourCC    format.FourCC
	itemOldFourCC format.FourCC
	mobFourCC     format.FourCC

	packVersion uint32
	itemVersion uint32
	itemStride  uint32

	itemKey    xtea.Key
	mobKey     xtea.Key
	indexKey   xtea.Key
	contentKey xtea.Key
}

func defaultConfig() *config {
	itemKey, _ := xtea.NewKey(lyketo.DefaultItemProtoKey)
	mobKey, _ := xtea.NewKey(lyketo.DefaultMobProtoKey)
	indexKey, _ := xtea.NewKey(lyketo.DefaultPackIndexKey)
	contentKey, _ := xtea.NewKey(lyketo.DefaultPackContentKey)

	return &config{
		lzoFourCC:     format.FourCCLzo1x,
		snappyFourCC:  format.FourCCSnappy,
		packFourCC:    format.FourCCEterPack,
		itemFourCC:    format.FourCCItemProto,
		itemOldFourCC: format.FourCCItemProtoOld,
		mobFourCC:     format.FourCCMobProto,
		packVersion:   eterpack.DefaultVersion,
		itemVersion:   proto.DefaultItemVersion,
		itemStride:    proto.DefaultItemStride,
		itemKey:       itemKey,
		mobKey:        mobKey,
		indexKey:      indexKey,
		contentKey:    contentKey,
	}
}

// load merges a JSON config file into the defaults. Invalid values are
// logged and skipped, valid ones around them still apply.
func (c *config) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.EterPack.Version != nil {
		c.packVersion = *fc.EterPack.Version
		slog.Info("changed EterPack version", "version", c.packVersion)
	}
	if fc.ItemProto.Version != nil {
		c.itemVersion = *fc.ItemProto.Version
		slog.Info("changed ItemProto version", "version", c.itemVersion)
	}
	if fc.ItemProto.Stride != nil {
		c.itemStride = *fc.ItemProto.Stride
		slog.Info("changed ItemProto stride", "stride", c.itemStride)
	}

	c.applyKey("ItemProto", fc.Keys.ItemProto, &c.itemKey)
	c.applyKey("MobProto", fc.Keys.MobProto, &c.mobKey)
	c.applyKey("EterPackIndex", fc.Keys.EterPackIndex, &c.indexKey)
	c.applyKey("EterPackContent", fc.Keys.EterPackContent, &c.contentKey)

	c.applyFourCC("Lzo1x", fc.FourCC.Lzo1x, &c.lzoFourCC)
	c.applyFourCC("Snappy", fc.FourCC.Snappy, &c.snappyFourCC)
	c.applyFourCC("EterPack", fc.FourCC.EterPack, &c.packFourCC)
	c.applyFourCC("ItemProtoNew", fc.FourCC.ItemProtoNew, &c.itemFourCC)
	c.applyFourCC("ItemProtoOld", fc.FourCC.ItemProtoOld, &c.itemOldFourCC)
	c.applyFourCC("MobProto", fc.FourCC.MobProto, &c.mobFourCC)

	return nil
}

func (c *config) applyKey(name, value string, dst *xtea.Key) {
	if value == "" {
		return
	}

	key, err := xtea.ParseKey(value)
	if err != nil {
		slog.Error("invalid key in config", "name", name, "error", err)
		return
	}

	*dst = key
	slog.Info("changed key", "name", name)
}

func (c *config) applyFourCC(name, value string, dst *format.FourCC) {
	if value == "" {
		return
	}
	if len(value) != 4 {
		slog.Error("invalid FourCC in config", "name", name, "value", value)
		return
	}

	*dst = format.MakeFourCC(value)
	slog.Info("changed FourCC", "name", name, "fourcc", dst.String())
}

// registry builds the codec registry with the configured tags applied.
func (c *config) registry() *compress.Registry {
	r := lyketo.NewDefaultRegistry()
	r.Rekey(format.FourCCLzo1x, c.lzoFourCC)
	r.Rekey(format.FourCCSnappy, c.snappyFourCC)

	return r
}
