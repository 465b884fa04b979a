package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Format is the on-disk shape an artifact was decoded from.
type Format int

const (
	FormatRaw Format = iota
	FormatCompressed
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatCompressed:
		return "zstd"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrorKind classifies a LoadError.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindCorrupt
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	// ErrNotFound matches a LoadError whose artifact could not be opened.
	ErrNotFound = errors.New("dictionary not found")
	// ErrCorrupt matches a LoadError whose artifact opened but did not decode.
	ErrCorrupt = errors.New("dictionary corrupt")
)

// LoadError reports why an artifact could not be loaded.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dictionary %q: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrNotFound and ErrCorrupt by kind.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrCorrupt:
		return e.Kind == KindCorrupt
	default:
		return false
	}
}

const readBufferSize = 64 * 1024

// Loader decodes artifacts from a file system.
type Loader struct {
	// Open returns a fresh handle for path. Each decode attempt calls it
	// again, so a stream consumed by a failed attempt is never reused.
	// Defaults to os.Open.
	Open func(path string) (io.ReadCloser, error)
}

// Load decodes the artifact at path with the default Loader.
func Load(path string) (*Dictionary, Format, error) {
	var l Loader
	return l.Load(path)
}

// Load decodes the artifact at path. It first treats the file as a zstd
// container; if the container does not open or its payload does not parse,
// the file is reopened and parsed as a raw artifact.
func (l *Loader) Load(path string) (*Dictionary, Format, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, FormatRaw, &LoadError{Kind: KindNotFound, Path: path, Err: err}
	}

	d, compErr := parseCompressed(bufio.NewReaderSize(f, readBufferSize))
	_ = f.Close()
	if compErr == nil {
		return d, FormatCompressed, nil
	}

	raw, err := l.open(path)
	if err != nil {
		kind := KindCorrupt
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return nil, FormatRaw, &LoadError{Kind: kind, Path: path, Err: errors.Join(compErr, fmt.Errorf("reopen: %w", err))}
	}
	defer raw.Close()

	d, rawErr := parse(bufio.NewReaderSize(raw, readBufferSize))
	if rawErr == nil {
		return d, FormatRaw, nil
	}

	return nil, FormatRaw, &LoadError{
		Kind: KindCorrupt,
		Path: path,
		Err:  errors.Join(compErr, fmt.Errorf("parse raw payload: %w", rawErr)),
	}
}

func (l *Loader) open(path string) (io.ReadCloser, error) {
	if l.Open != nil {
		return l.Open(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
