package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Print the bridge diagnostic message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBridge()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), b.Ping())
			return err
		},
	}
}

func newStatusCmd() *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the dictionary load status as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBridge()
			if err != nil {
				return err
			}
			if load {
				b.Reload()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			return enc.Encode(b.Status())
		},
	}

	cmd.Flags().BoolVar(&load, "load", true, "Load the dictionary before reporting")

	return cmd
}
