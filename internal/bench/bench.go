// Package bench provides benchmarking primitives for the readmaker bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Cases
// ---------------------------------------------------------------------------

// Case is one labelled benchmark input.
type Case struct {
	Label string
	Text  string
}

// DefaultCases covers short, medium and long everyday sentences.
var DefaultCases = []Case{
	{Label: "short", Text: "今日は良い天気ですね。"},
	{Label: "medium", Text: "昨日の夜、友人と一緒に新しくオープンしたレストランで美味しい料理を食べました。"},
	{Label: "long", Text: "人工知能技術の発展により、自然言語処理分野においても大きな進歩が見られます。" +
		"特に形態素解析や機械翻訳、文書要約などの技術は実用レベルに達しており、多くの企業や研究機関で活用されています。" +
		"今後もさらなる技術革新が期待されます。"},
}

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing of a single analysis run.
type RunResult struct {
	Index    int
	Cold     bool // true for the first run, which includes the dictionary load
	Duration time.Duration
	Words    int
	Runes    int
}

// RunesPerSecond returns the analysis throughput of r.
// Returns 0 for a zero duration to avoid division by zero.
func (r RunResult) RunesPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Runes) / r.Duration.Seconds()
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Durations extracts the duration of every run.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}
	return out
}

// Measure calls analyze runs times on text and records each call. analyze
// returns the number of words produced.
func Measure(text string, runs int, analyze func(string) int) []RunResult {
	n := utf8.RuneCountInString(text)
	results := make([]RunResult, 0, runs)
	for i := range runs {
		start := time.Now()
		words := analyze(text)
		results = append(results, RunResult{
			Index:    i,
			Cold:     i == 0,
			Duration: time.Since(start),
			Words:    words,
			Runes:    n,
		})
	}
	return results
}

// ---------------------------------------------------------------------------
// Latency threshold gate
// ---------------------------------------------------------------------------

// CheckLatencyThreshold returns an error if mean exceeds maxMS milliseconds.
// A threshold of 0 disables the gate.
func CheckLatencyThreshold(mean time.Duration, maxMS float64) error {
	if maxMS <= 0 {
		return nil
	}
	ms := float64(mean) / float64(time.Millisecond)
	if ms > maxMS {
		return fmt.Errorf("mean latency %.3fms exceeds threshold %.3fms", ms, maxMS)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %7s  %12s\n", "Run", "Cold", "MS", "Words", "Runes/s")
	fmt.Fprintln(sb, strings.Repeat("-", 46))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.3f  %7d  %12.0f\n",
			r.Index+1,
			cold,
			millis(r.Duration),
			r.Words,
			r.RunesPerSecond(),
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 46))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (min)\n", "", "", millis(stats.Min))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (mean)\n", "", "", millis(stats.Mean))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (max)\n", "", "", millis(stats.Max))

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index       int     `json:"index"`
	Cold        bool    `json:"cold"`
	DurationMS  float64 `json:"duration_ms"`
	Words       int     `json:"words"`
	Runes       int     `json:"runes"`
	RunesPerSec float64 `json:"runes_per_sec"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  millis(stats.Min),
			MeanMS: millis(stats.Mean),
			MaxMS:  millis(stats.Max),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:       r.Index,
			Cold:        r.Cold,
			DurationMS:  millis(r.Duration),
			Words:       r.Words,
			Runes:       r.Runes,
			RunesPerSec: r.RunesPerSecond(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(jr)
}
