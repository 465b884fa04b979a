package dictionary_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/example/go-readmaker/internal/dictionary"
	"github.com/example/go-readmaker/internal/testutil"
)

func TestLoad_CompressedAndRawYieldSameContent(t *testing.T) {
	raw := testutil.WriteSampleDictionary(t, dictionary.FormatRaw)
	comp := testutil.WriteSampleDictionary(t, dictionary.FormatCompressed)

	dRaw, fRaw, err := dictionary.Load(raw)
	if err != nil {
		t.Fatalf("Load raw: %v", err)
	}

	dComp, fComp, err := dictionary.Load(comp)
	if err != nil {
		t.Fatalf("Load compressed: %v", err)
	}

	if fRaw != dictionary.FormatRaw {
		t.Errorf("raw artifact decoded as %s", fRaw)
	}

	if fComp != dictionary.FormatCompressed {
		t.Errorf("compressed artifact decoded as %s", fComp)
	}

	if !reflect.DeepEqual(dRaw, dComp) {
		t.Fatal("raw and compressed artifacts decoded to different dictionaries")
	}

	if !reflect.DeepEqual(dRaw, testutil.SampleDictionary()) {
		t.Fatal("decoded dictionary differs from the encoded one")
	}
}

func TestLoad_IgnoresExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "looks-raw.dict")

	if err := dictionary.WriteFile(path, testutil.SampleDictionary(), dictionary.FormatCompressed); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, format, err := dictionary.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if format != dictionary.FormatCompressed {
		t.Fatalf("format = %s, want zstd", format)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, _, err := dictionary.Load(filepath.Join(t.TempDir(), "missing.dict"))
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}

	if !errors.Is(err, dictionary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if errors.Is(err, dictionary.ErrCorrupt) {
		t.Fatal("missing artifact must not classify as corrupt")
	}

	var le *dictionary.LoadError
	if !errors.As(err, &le) || le.Kind != dictionary.KindNotFound {
		t.Fatalf("expected LoadError{KindNotFound}, got %#v", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "garbage", data: []byte("not a dictionary at all")},
		{name: "truncated zstd magic", data: []byte{0x28, 0xb5, 0x2f, 0xfd}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := testutil.WriteFile(t, "bad.dict", tc.data)

			_, _, err := dictionary.Load(path)
			if !errors.Is(err, dictionary.ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

// resizedArtifact re-encodes the raw sample artifact with the given matrix
// dimensions and cost payload.
func resizedArtifact(t *testing.T, rows, cols uint64, matrix []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := dictionary.Encode(&buf, testutil.SampleDictionary()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var doc map[string]any
	if err := cbor.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("cbor.Unmarshal: %v", err)
	}
	doc["rows"] = rows
	doc["cols"] = cols
	doc["matrix"] = matrix

	data, err := cbor.Marshal(doc)
	if err != nil {
		t.Fatalf("cbor.Marshal: %v", err)
	}
	return data
}

func TestLoad_CorruptMatrixDimensions(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols uint64
		matrix     []byte
	}{
		{name: "product overflows to zero", rows: 1 << 32, cols: 1 << 32, matrix: []byte{}},
		{name: "rows beyond context ids", rows: 1 << 17, cols: 1, matrix: make([]byte, 2<<17)},
		{name: "zero cols", rows: 7, cols: 0, matrix: []byte{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := resizedArtifact(t, tc.rows, tc.cols, tc.matrix)

			if _, _, err := dictionary.DecodeBytes(data); !errors.Is(err, dictionary.ErrCorrupt) {
				t.Fatalf("DecodeBytes: expected ErrCorrupt, got %v", err)
			}

			path := testutil.WriteFile(t, "resized.dict", data)
			if _, _, err := dictionary.Load(path); !errors.Is(err, dictionary.ErrCorrupt) {
				t.Fatalf("Load: expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestLoad_CorruptCompressedPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := dictionary.EncodeCompressed(&buf, testutil.SampleDictionary()); err != nil {
		t.Fatalf("EncodeCompressed: %v", err)
	}

	data := buf.Bytes()
	data = data[:len(data)/2]
	path := testutil.WriteFile(t, "half.dict", data)

	_, _, err := dictionary.Load(path)
	if !errors.Is(err, dictionary.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for truncated artifact, got %v", err)
	}
}

// countingOpener records how many handles the loader asked for and whether
// every one of them was closed.
type countingOpener struct {
	opens  int
	closed int
}

type trackedFile struct {
	*os.File
	o *countingOpener
}

func (f trackedFile) Close() error {
	f.o.closed++
	return f.File.Close()
}

func (o *countingOpener) open(path string) (io.ReadCloser, error) {
	o.opens++
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return trackedFile{File: f, o: o}, nil
}

func TestLoader_ReopensPerAttempt(t *testing.T) {
	tests := []struct {
		name      string
		format    dictionary.Format
		wantOpens int
	}{
		{name: "compressed needs one handle", format: dictionary.FormatCompressed, wantOpens: 1},
		{name: "raw reopens after failed zstd attempt", format: dictionary.FormatRaw, wantOpens: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := testutil.WriteSampleDictionary(t, tc.format)

			o := &countingOpener{}
			l := dictionary.Loader{Open: o.open}

			_, format, err := l.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if format != tc.format {
				t.Fatalf("format = %s, want %s", format, tc.format)
			}

			if o.opens != tc.wantOpens {
				t.Fatalf("opens = %d, want %d", o.opens, tc.wantOpens)
			}

			if o.closed != o.opens {
				t.Fatalf("closed %d of %d handles", o.closed, o.opens)
			}
		})
	}
}

func TestLoader_ReopenFailure(t *testing.T) {
	path := testutil.WriteFile(t, "bad.dict", []byte("garbage"))

	calls := 0
	l := dictionary.Loader{Open: func(p string) (io.ReadCloser, error) {
		calls++
		if calls > 1 {
			return nil, os.ErrNotExist
		}
		return os.Open(p)
	}}

	_, _, err := l.Load(path)
	if !errors.Is(err, dictionary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when the file vanishes between attempts, got %v", err)
	}
}

func TestDecodeBytes(t *testing.T) {
	for _, format := range []dictionary.Format{dictionary.FormatRaw, dictionary.FormatCompressed} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := dictionary.EncodeFormat(&buf, testutil.SampleDictionary(), format); err != nil {
				t.Fatalf("EncodeFormat: %v", err)
			}

			d, got, err := dictionary.DecodeBytes(buf.Bytes())
			if err != nil {
				t.Fatalf("DecodeBytes: %v", err)
			}

			if got != format {
				t.Fatalf("format = %s, want %s", got, format)
			}

			if len(d.Entries) != len(testutil.SampleDictionary().Entries) {
				t.Fatalf("entries = %d", len(d.Entries))
			}
		})
	}

	_, _, err := dictionary.DecodeBytes([]byte{1, 2, 3})
	if !errors.Is(err, dictionary.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for junk bytes, got %v", err)
	}
}

func TestFormatAndKindStrings(t *testing.T) {
	if dictionary.FormatRaw.String() != "raw" || dictionary.FormatCompressed.String() != "zstd" {
		t.Fatal("unexpected format names")
	}

	if dictionary.KindNotFound.String() != "not found" || dictionary.KindCorrupt.String() != "corrupt" {
		t.Fatal("unexpected kind names")
	}
}
