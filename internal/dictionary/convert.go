package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Summary describes a decoded artifact.
type Summary struct {
	Path       string `json:"path"`
	Name       string `json:"name,omitempty"`
	Format     string `json:"format"`
	Entries    int    `json:"entries"`
	Classes    int    `json:"classes"`
	Ranges     int    `json:"ranges"`
	Unknown    int    `json:"unknown"`
	MatrixRows int    `json:"matrix_rows"`
	MatrixCols int    `json:"matrix_cols"`
}

// Inspect loads the artifact at path and summarizes it.
func Inspect(path string) (Summary, error) {
	d, format, err := Load(path)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(path, d, format), nil
}

// Summarize describes an already decoded dictionary.
func Summarize(path string, d *Dictionary, format Format) Summary {
	return Summary{
		Path:       path,
		Name:       d.Name,
		Format:     format.String(),
		Entries:    len(d.Entries),
		Classes:    len(d.Classes),
		Ranges:     len(d.Ranges),
		Unknown:    len(d.Unknown),
		MatrixRows: d.Matrix.Rows,
		MatrixCols: d.Matrix.Cols,
	}
}

// Compress rewrites the artifact at src, in either shape, as a
// zstd-compressed artifact at dst. It returns the format src was stored in.
func Compress(src, dst string) (Format, error) {
	return convert(src, dst, FormatCompressed)
}

// Extract rewrites the artifact at src, in either shape, as a raw artifact
// at dst. It returns the format src was stored in.
func Extract(src, dst string) (Format, error) {
	return convert(src, dst, FormatRaw)
}

func convert(src, dst string, to Format) (Format, error) {
	d, from, err := Load(src)
	if err != nil {
		return from, err
	}
	if err := WriteFile(dst, d, to); err != nil {
		return from, err
	}
	return from, nil
}

// WriteFile encodes d to path in the given format. The artifact is written
// to a temporary file in the same directory and renamed into place, so a
// reader never observes a partial file.
func WriteFile(path string, d *Dictionary, format Format) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := EncodeFormat(w, d, format); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
