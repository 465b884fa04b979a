package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-readmaker/internal/doctor"
	"github.com/example/go-readmaker/internal/morph"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run dictionary and bridge checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			b, err := newBridge()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "dictionary: %s\n", cfg.Paths.DictionaryPath)

			result := doctor.Run(doctor.Config{
				DictionaryPath: cfg.Paths.DictionaryPath,
				Bridge:         func() (string, error) { return b.Ping(), nil },
				FallbackUnit:   cfg.Analysis.FallbackUnit,
			}, out)

			if st := b.Reload(); st != morph.Ready {
				result.AddFailure(fmt.Sprintf("engine state: %s", st))
				_, _ = fmt.Fprintf(out, "%s engine state: %s\n", doctor.FailMark, st)
			} else {
				_, _ = fmt.Fprintf(out, "%s engine state: %s\n", doctor.PassMark, st)
			}

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	return cmd
}
