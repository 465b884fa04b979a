package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-readmaker/internal/bench"
	"github.com/example/go-readmaker/internal/morph"
)

func newBenchCmd() *cobra.Command {
	var (
		text   string
		runs   int
		format string
		maxMS  float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark analysis latency",
		Long: "Benchmark analysis latency. Without --text the built-in short, medium and " +
			"long sentences are measured. The first run of the first case includes the dictionary load.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runs < 1 {
				return errors.New("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return errors.New("--format must be 'table' or 'json'")
			}

			b, err := newBridge()
			if err != nil {
				return err
			}
			svc := b.Service()

			cases := bench.DefaultCases
			if strings.TrimSpace(text) != "" {
				cases = []bench.Case{{Label: "custom", Text: text}}
			}

			out := cmd.OutOrStdout()
			var gateErr error
			for _, c := range cases {
				results := bench.Measure(c.Text, runs, func(s string) int {
					return len(svc.Words(s))
				})
				stats := bench.ComputeStats(bench.Durations(results))

				switch format {
				case "json":
					bench.FormatJSON(results, stats, out)
				default:
					fmt.Fprintf(out, "\n[%s] %d runes\n", c.Label, results[0].Runes)
					bench.FormatTable(results, stats, out)
				}

				if err := bench.CheckLatencyThreshold(stats.Mean, maxMS); err != nil {
					gateErr = errors.Join(gateErr, fmt.Errorf("%s: %w", c.Label, err))
				}
			}

			if st := b.State(); st != morph.Ready {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warn: dictionary %s, timings reflect fallback segmentation\n", st)
			}

			return gateErr
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to analyse for each run (default: built-in cases)")
	cmd.Flags().IntVar(&runs, "runs", 100, "Number of analysis runs per case")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&maxMS, "max-ms", 0, "Exit non-zero if mean latency exceeds this many milliseconds (0 = disabled)")

	return cmd
}
