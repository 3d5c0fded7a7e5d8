package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jprint"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Validate a JSON document and re-print it compactly",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readDocument(cmd, path)
			if err != nil {
				return err
			}
			v, err := jparse.Parse(data)
			if err != nil {
				return err
			}
			out, err := jprint.Print(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}
