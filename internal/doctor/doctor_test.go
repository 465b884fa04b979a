package doctor_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-readmaker/internal/dictionary"
	"github.com/example/go-readmaker/internal/doctor"
	"github.com/example/go-readmaker/internal/testutil"
)

func passingConfig(t *testing.T) doctor.Config {
	t.Helper()

	return doctor.Config{
		DictionaryPath: testutil.WriteSampleDictionary(t, dictionary.FormatCompressed),
		Bridge:         func() (string, error) { return "ReadMaker Bridge - OK", nil },
		FallbackUnit:   "codepoint",
	}
}

// ---------------------------------------------------------------------------
// all-pass scenario
// ---------------------------------------------------------------------------

func TestRun_AllChecksPass(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(passingConfig(t), &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}

	for _, want := range []string{"dictionary file", "zstd", "ReadMaker Bridge - OK", "fallback unit: codepoint"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output should contain %q; got:\n%s", want, out.String())
		}
	}
}

func TestRun_RawArtifactPasses(t *testing.T) {
	cfg := passingConfig(t)
	cfg.DictionaryPath = testutil.WriteSampleDictionary(t, dictionary.FormatRaw)

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected pass; failures: %v", result.Failures())
	}

	if !strings.Contains(out.String(), "raw") {
		t.Errorf("output should report raw format; got:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// dictionary failures
// ---------------------------------------------------------------------------

func TestRun_DictionaryChecks(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(t *testing.T, cfg *doctor.Config)
		wantFail string
	}{
		{
			name:     "path not configured",
			mutate:   func(_ *testing.T, cfg *doctor.Config) { cfg.DictionaryPath = "" },
			wantFail: "dictionary path",
		},
		{
			name: "file missing",
			mutate: func(t *testing.T, cfg *doctor.Config) {
				cfg.DictionaryPath = filepath.Join(t.TempDir(), "missing.dict")
			},
			wantFail: "dictionary file",
		},
		{
			name: "corrupt artifact",
			mutate: func(t *testing.T, cfg *doctor.Config) {
				cfg.DictionaryPath = testutil.WriteFile(t, "corrupt.dict", []byte("not a dictionary"))
			},
			wantFail: "dictionary artifact",
		},
		{
			name: "empty artifact",
			mutate: func(_ *testing.T, cfg *doctor.Config) {
				cfg.Inspect = func(string) (dictionary.Summary, error) { return dictionary.Summary{}, nil }
			},
			wantFail: "no entries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := passingConfig(t)
			tt.mutate(t, &cfg)

			var out strings.Builder
			result := doctor.Run(cfg, &out)

			if !result.Failed() {
				t.Fatal("expected failure")
			}

			if !hasFailureContaining(result.Failures(), tt.wantFail) {
				t.Errorf("expected failure mentioning %q, got: %v", tt.wantFail, result.Failures())
			}
		})
	}
}

func TestRun_InspectCallback(t *testing.T) {
	cfg := passingConfig(t)

	called := ""
	cfg.Inspect = func(path string) (dictionary.Summary, error) {
		called = path
		return dictionary.Summary{Format: "zstd", Entries: 3, MatrixRows: 2, MatrixCols: 2}, nil
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected pass; failures: %v", result.Failures())
	}

	if called != cfg.DictionaryPath {
		t.Errorf("Inspect called with %q, want %q", called, cfg.DictionaryPath)
	}

	if !strings.Contains(out.String(), "3 entries, 2x2 matrix") {
		t.Errorf("output should contain the injected summary; got:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// bridge diagnostic
// ---------------------------------------------------------------------------

func TestRun_BridgeFailures(t *testing.T) {
	tests := []struct {
		name   string
		bridge doctor.VersionFunc
	}{
		{"error", func() (string, error) { return "", errBridgeDown }},
		{"empty message", func() (string, error) { return "", nil }},
		{"not configured", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := passingConfig(t)
			cfg.Bridge = tt.bridge

			var out strings.Builder
			result := doctor.Run(cfg, &out)

			if !hasFailureContaining(result.Failures(), "bridge") {
				t.Errorf("expected bridge failure, got: %v", result.Failures())
			}
		})
	}
}

func TestRun_SkipBridge(t *testing.T) {
	cfg := passingConfig(t)
	cfg.Bridge = nil
	cfg.SkipBridge = true

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected pass with bridge skipped; failures: %v", result.Failures())
	}

	if !strings.Contains(out.String(), "bridge diagnostic: skipped") {
		t.Errorf("output should report the skip; got:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// fallback unit
// ---------------------------------------------------------------------------

func TestRun_FallbackUnit(t *testing.T) {
	tests := []struct {
		unit     string
		wantFail bool
	}{
		{"", false},
		{"codepoint", false},
		{"grapheme", false},
		{"rune", false},
		{"char", false},
		{"cluster", false},
		{"word", true},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			cfg := passingConfig(t)
			cfg.FallbackUnit = tt.unit

			var out strings.Builder
			result := doctor.Run(cfg, &out)

			if got := hasFailureContaining(result.Failures(), "fallback unit"); got != tt.wantFail {
				t.Errorf("fallback unit %q: failed=%v, want %v (%v)", tt.unit, got, tt.wantFail, result.Failures())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// output markers
// ---------------------------------------------------------------------------

func TestRun_OutputContainsPassAndFailMarkers(t *testing.T) {
	cfg := passingConfig(t)
	cfg.FallbackUnit = "word"

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !strings.Contains(out.String(), doctor.PassMark) {
		t.Error("output should contain pass mark")
	}

	if !strings.Contains(out.String(), doctor.FailMark) {
		t.Error("output should contain fail mark")
	}

	result.AddFailure("extra")
	if got := len(result.Failures()); got != 2 {
		t.Errorf("want 2 failures after AddFailure, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

var errBridgeDown = sentinelError("bridge down")

func hasFailureContaining(failures []string, substr string) bool {
	substr = strings.ToLower(substr)
	for _, f := range failures {
		if strings.Contains(strings.ToLower(f), substr) {
			return true
		}
	}

	return false
}
