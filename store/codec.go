package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kjk/dirkv/u"
	"github.com/toon-format/toon-go"
)

// Codec encodes values stored in Record.Data
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(d []byte, v any) error
	Name() string
}

// JSONCodec encodes with encoding/json
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (JSONCodec) Unmarshal(d []byte, v any) error { return json.Unmarshal(d, v) }
func (JSONCodec) Name() string                    { return "json" }

// ToonCodec encodes with toon (https://github.com/toon-format/toon),
// more compact than JSON for uniform arrays of objects
type ToonCodec struct{}

func (ToonCodec) Marshal(v any) ([]byte, error)   { return toon.Marshal(v) }
func (ToonCodec) Unmarshal(d []byte, v any) error { return toon.Unmarshal(d, v) }
func (ToonCodec) Name() string                    { return "toon" }

type compression struct {
	name       string
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

var (
	zstdCompression = compression{
		name:       "zstd",
		compress:   u.ZstdCompressData,
		decompress: u.ZstdDecompressData,
	}
	brotliCompression = compression{
		name:       "br",
		compress:   u.BrCompressDataDefault,
		decompress: u.BrDecompressData,
	}
)

type compressedCodec struct {
	c    Codec
	comp compression
}

func (cc compressedCodec) Marshal(v any) ([]byte, error) {
	d, err := cc.c.Marshal(v)
	if err != nil {
		return nil, err
	}
	return cc.comp.compress(d)
}

func (cc compressedCodec) Unmarshal(d []byte, v any) error {
	d, err := cc.comp.decompress(d)
	if err != nil {
		return fmt.Errorf("%s: %w", cc.Name(), err)
	}
	return cc.c.Unmarshal(d, v)
}

func (cc compressedCodec) Name() string {
	return cc.c.Name() + "+" + cc.comp.name
}

// Zstd returns a codec that zstd-compresses output of c
func Zstd(c Codec) Codec {
	return compressedCodec{c: c, comp: zstdCompression}
}

// Brotli returns a codec that brotli-compresses output of c
func Brotli(c Codec) Codec {
	return compressedCodec{c: c, comp: brotliCompression}
}

// CodecByName returns a built-in codec: "json", "toon", optionally
// followed by "+zstd" or "+br" e.g. "json+zstd"
func CodecByName(name string) (Codec, bool) {
	base, comp, _ := strings.Cut(name, "+")
	var c Codec
	switch base {
	case "json":
		c = JSONCodec{}
	case "toon":
		c = ToonCodec{}
	default:
		return nil, false
	}
	switch comp {
	case "":
		return c, true
	case "zstd":
		return Zstd(c), true
	case "br":
		return Brotli(c), true
	}
	return nil, false
}
