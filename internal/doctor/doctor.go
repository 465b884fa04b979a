// Package doctor provides environment preflight checks for readmaker.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/example/go-readmaker/internal/dictionary"
	"github.com/example/go-readmaker/internal/tokenizer"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// VersionFunc returns a version string or an error if the component is unavailable.
type VersionFunc func() (string, error)

// InspectFunc loads and summarizes a dictionary artifact.
type InspectFunc func(path string) (dictionary.Summary, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// DictionaryPath is the resolved dictionary artifact path.
	DictionaryPath string
	// Inspect decodes the artifact. Nil uses dictionary.Inspect.
	Inspect InspectFunc
	// Bridge returns the C boundary diagnostic message.
	Bridge VersionFunc
	// SkipBridge skips the diagnostic round trip.
	SkipBridge bool
	// FallbackUnit is the configured fallback segmentation unit.
	FallbackUnit string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- dictionary artifact ---------------------------------------------
	if cfg.DictionaryPath == "" {
		res.fail("dictionary path: not configured")
		fmt.Fprintf(w, "%s dictionary path: not configured\n", FailMark)
	} else if _, err := os.Stat(cfg.DictionaryPath); err != nil {
		res.fail(fmt.Sprintf("dictionary file %q: %v", cfg.DictionaryPath, err))
		fmt.Fprintf(w, "%s dictionary file %s: not found\n", FailMark, cfg.DictionaryPath)
	} else {
		fmt.Fprintf(w, "%s dictionary file: %s\n", PassMark, cfg.DictionaryPath)
		checkArtifact(cfg, w, &res)
	}

	// ---- bridge diagnostic -----------------------------------------------
	switch {
	case cfg.SkipBridge:
		fmt.Fprintf(w, "%s bridge diagnostic: skipped\n", PassMark)
	case cfg.Bridge == nil:
		res.fail("bridge diagnostic: not configured")
		fmt.Fprintf(w, "%s bridge diagnostic: not configured\n", FailMark)
	default:
		msg, err := cfg.Bridge()
		if err == nil && msg == "" {
			err = errors.New("empty diagnostic message")
		}
		if err != nil {
			res.fail(fmt.Sprintf("bridge diagnostic: %v", err))
			fmt.Fprintf(w, "%s bridge diagnostic: %v\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s bridge diagnostic: %s\n", PassMark, msg)
		}
	}

	// ---- fallback unit ---------------------------------------------------
	if unit, err := tokenizer.ParseUnit(cfg.FallbackUnit); err != nil {
		res.fail(fmt.Sprintf("fallback unit: %v", err))
		fmt.Fprintf(w, "%s fallback unit: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s fallback unit: %s\n", PassMark, unit)
	}

	return res
}

func checkArtifact(cfg Config, w io.Writer, res *Result) {
	inspect := cfg.Inspect
	if inspect == nil {
		inspect = dictionary.Inspect
	}

	sum, err := inspect(cfg.DictionaryPath)
	if err != nil {
		res.fail(fmt.Sprintf("dictionary artifact: %v", err))
		fmt.Fprintf(w, "%s dictionary artifact: %v\n", FailMark, err)
		return
	}
	if sum.Entries == 0 {
		res.fail("dictionary artifact: no entries")
		fmt.Fprintf(w, "%s dictionary artifact: no entries\n", FailMark)
		return
	}
	fmt.Fprintf(w, "%s dictionary artifact: %s, %d entries, %dx%d matrix\n",
		PassMark, sum.Format, sum.Entries, sum.MatrixRows, sum.MatrixCols)
}
