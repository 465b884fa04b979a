package testutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-readmaker/internal/dictionary"
	"github.com/example/go-readmaker/internal/testutil"
)

func TestSampleDictionary_Valid(t *testing.T) {
	d := testutil.SampleDictionary()
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if _, ok := d.Class(dictionary.DefaultClass); !ok {
		t.Fatal("sample dictionary has no DEFAULT class")
	}
}

func TestSampleDictionary_FreshCopies(t *testing.T) {
	a := testutil.SampleDictionary()
	b := testutil.SampleDictionary()
	a.Entries[0].Surface = "changed"

	if b.Entries[0].Surface == "changed" {
		t.Fatal("SampleDictionary returned shared state")
	}
}

func TestWriteSampleDictionary_BothFormats(t *testing.T) {
	for _, format := range []dictionary.Format{dictionary.FormatRaw, dictionary.FormatCompressed} {
		t.Run(format.String(), func(t *testing.T) {
			path := testutil.WriteSampleDictionary(t, format)

			_, got, err := dictionary.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if got != format {
				t.Fatalf("format = %s, want %s", got, format)
			}
		})
	}
}

func TestRequireDictionary_SkipsWhenUnset(t *testing.T) {
	t.Setenv(dictionary.EnvPath, "")

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	testutil.RequireDictionary(fakeT)
	if !skipped {
		t.Error("expected RequireDictionary to skip when the env var is empty")
	}
}

func TestRequireDictionary_SkipsWhenMissing(t *testing.T) {
	t.Setenv(dictionary.EnvPath, filepath.Join(t.TempDir(), "missing.dict"))

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	testutil.RequireDictionary(fakeT)
	if !skipped {
		t.Error("expected RequireDictionary to skip when the file is absent")
	}
}

func TestRequireDictionary_ReturnsPath(t *testing.T) {
	path := testutil.WriteFile(t, "present.dict", []byte("x"))
	t.Setenv(dictionary.EnvPath, path)

	if got := testutil.RequireDictionary(t); got != path {
		t.Fatalf("RequireDictionary = %q, want %q", got, path)
	}
}

func TestWriteFile(t *testing.T) {
	path := testutil.WriteFile(t, "data.bin", []byte("abc"))

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != "abc" {
		t.Fatalf("content = %q, want %q", got, "abc")
	}
}

// skipTracker is a minimal testing.TB implementation that intercepts Skip calls.
type skipTracker struct {
	testing.TB
	onSkip func()
}

func (s *skipTracker) Helper() {}

func (s *skipTracker) Skipf(_ string, _ ...any) {
	s.onSkip()
	// Do NOT call s.TB.Skip; that would actually skip the outer test.
}
