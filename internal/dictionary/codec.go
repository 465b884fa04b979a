package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Real lexicons hold hundreds of thousands of entries, far above the CBOR
// decoder's default array limit.
const maxArrayElements = 2147483647

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dictionary: cbor enc mode: %v", err))
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{MaxArrayElements: maxArrayElements}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("dictionary: cbor dec mode: %v", err))
	}
	return dm
}

// Encode writes d as an uncompressed artifact.
func Encode(w io.Writer, d *Dictionary) error {
	if d == nil {
		return errors.New("dictionary is nil")
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validate dictionary: %w", err)
	}
	if err := encMode.NewEncoder(w).Encode(toDocument(d)); err != nil {
		return fmt.Errorf("encode dictionary: %w", err)
	}
	return nil
}

// EncodeCompressed writes d as a zstd-compressed artifact.
func EncodeCompressed(w io.Writer, d *Dictionary) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("open zstd writer: %w", err)
	}
	if err := Encode(zw, d); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd writer: %w", err)
	}
	return nil
}

// EncodeFormat writes d in the requested on-disk shape.
func EncodeFormat(w io.Writer, d *Dictionary, format Format) error {
	if format == FormatCompressed {
		return EncodeCompressed(w, d)
	}
	return Encode(w, d)
}

// parse decodes one document from r and validates it.
func parse(r io.Reader) (*Dictionary, error) {
	var doc document
	if err := decMode.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode cbor: %w", err)
	}
	return fromDocument(&doc)
}

// parseCompressed treats r as a zstd container. The returned error tells
// apart a container that could not be opened from a payload that did not
// parse.
func parseCompressed(r io.Reader) (*Dictionary, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("open zstd container: %w", err)
	}
	defer zr.Close()

	d, err := parse(zr)
	if err != nil {
		return nil, fmt.Errorf("parse compressed payload: %w", err)
	}
	return d, nil
}

// DecodeBytes decodes an in-memory artifact, compressed or raw, with the
// same attempt order as Loader.Load.
func DecodeBytes(data []byte) (*Dictionary, Format, error) {
	d, compErr := parseCompressed(bytes.NewReader(data))
	if compErr == nil {
		return d, FormatCompressed, nil
	}

	d, rawErr := parse(bytes.NewReader(data))
	if rawErr == nil {
		return d, FormatRaw, nil
	}

	return nil, FormatRaw, &LoadError{
		Kind: KindCorrupt,
		Path: "<memory>",
		Err:  errors.Join(compErr, fmt.Errorf("parse raw payload: %w", rawErr)),
	}
}
