package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-substrate/jtree/jfile"
	"github.com/lattice-substrate/jtree/jmerge"
	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jprint"
)

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <patchfile> [file]",
		Short: "Apply an RFC 7386 JSON Merge Patch",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patchData, err := jfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			docPath := ""
			if len(args) == 2 {
				docPath = args[1]
			}
			docData, err := readDocument(cmd, docPath)
			if err != nil {
				return err
			}
			target, err := jparse.Parse(docData)
			if err != nil {
				return err
			}
			patch, err := jparse.Parse(patchData)
			if err != nil {
				return err
			}
			merged, err := jmerge.Apply(target, patch, true)
			if err != nil {
				return err
			}
			out, err := jprint.Print(merged)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}
