package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-readmaker/internal/dictionary"
)

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Inspect and convert dictionary artifacts",
	}

	cmd.AddCommand(newDictInspectCmd())
	cmd.AddCommand(newDictConvertCmd("compress", "Rewrite an artifact as zstd-compressed CBOR", dictionary.Compress))
	cmd.AddCommand(newDictConvertCmd("extract", "Rewrite an artifact as raw CBOR", dictionary.Extract))

	return cmd
}

func newDictInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [path]",
		Short: "Print a JSON summary of a dictionary artifact",
		Long:  "Print a JSON summary of a dictionary artifact. Without a path the configured dictionary is inspected.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := activeCfg.Paths.DictionaryPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no dictionary path configured")
			}

			sum, err := dictionary.Inspect(path)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(sum)
		},
	}
}

func newDictConvertCmd(use, short string, convert func(src, dst string) (dictionary.Format, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <src> <dst>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := convert(args[0], args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) -> %s\n", args[0], from, args[1])
			return err
		},
	}
}
