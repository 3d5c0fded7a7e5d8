package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-substrate/jtree/jminify"
	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jprint"
)

func newPrintCmd() *cobra.Command {
	var format bool
	var compact bool
	var doMinify bool
	cmd := &cobra.Command{
		Use:   "print [file]",
		Short: "Print a JSON document, compact or indented",
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
			if doMinify {
				data, err = jminify.Minify(data)
				if err != nil {
					return err
				}
			}
			v, err := jparse.Parse(data)
			if err != nil {
				return err
			}
			out, err := jprint.PrintWithOptions(v, jprint.Options{Format: format && !compact})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&format, "format", false, "pretty-print with indentation")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compactly, overriding --format")
	cmd.Flags().BoolVar(&doMinify, "minify", false, "strip whitespace/comments from the input before printing")
	return cmd
}
