package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-readmaker/internal/text"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		rich  bool
		lines bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Segment text and print the JSON result",
		Long: "Segment text and print the JSON result. Arguments are joined with a space; " +
			"without arguments the text is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBridge()
			if err != nil {
				return err
			}

			input := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(raw)
			}
			input = text.CleanInput(input)

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()

			if lines {
				payloads, err := b.Service().AnalyzeBatch(cmd.Context(), strings.Split(input, "\n"), rich)
				if err != nil {
					return err
				}
				for _, p := range payloads {
					if _, err := fmt.Fprintln(w, p); err != nil {
						return err
					}
				}
				return nil
			}

			analyze := b.Analyze
			if rich {
				analyze = b.AnalyzeRich
			}
			payload, err := analyze(input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, payload)
			return err
		},
	}

	cmd.Flags().BoolVar(&rich, "rich", false, "Emit surface, reading, part of speech and features per token")
	cmd.Flags().BoolVar(&lines, "lines", false, "Analyse each input line separately and print one JSON array per line")

	return cmd
}
