// Package testutil provides shared fixtures and skip helpers for tests.
//
// The sample dictionary is small enough to reason about by hand but exercises
// every part of the analyzer: multi-rune lexicon words that compete with
// shorter ones, unknown-word classes and connection costs.
//
// Typical usage:
//
//	func TestMyAnalysis(t *testing.T) {
//	    path := testutil.WriteSampleDictionary(t, dictionary.FormatCompressed)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-readmaker/internal/dictionary"
)

// RequireDictionary skips the test unless a real dictionary artifact is
// available at READMAKER_DIC_PATH, and returns its path.
func RequireDictionary(tb testing.TB) string {
	tb.Helper()

	p := os.Getenv(dictionary.EnvPath)
	if p == "" {
		tb.Skipf("no dictionary configured; set %s to run against a real artifact", dictionary.EnvPath)
		return ""
	}

	if _, err := os.Stat(p); err != nil {
		tb.Skipf("dictionary not found at %s=%q: %v", dictionary.EnvPath, p, err)
		return ""
	}

	return p
}

// WriteDictionary writes d in the given format to a file in a fresh temp
// directory and returns its path.
func WriteDictionary(tb testing.TB, d *dictionary.Dictionary, format dictionary.Format) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "sample."+format.String()+".dict")
	if err := dictionary.WriteFile(path, d, format); err != nil {
		tb.Fatalf("write %s dictionary: %v", format, err)
	}

	return path
}

// WriteSampleDictionary writes SampleDictionary in the given format and
// returns its path.
func WriteSampleDictionary(tb testing.TB, format dictionary.Format) string {
	tb.Helper()

	return WriteDictionary(tb, SampleDictionary(), format)
}

// WriteFile writes data to name inside a fresh temp directory.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}

	return path
}
