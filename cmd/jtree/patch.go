package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-substrate/jtree/jfile"
	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jpatch"
	"github.com/lattice-substrate/jtree/jprint"
)

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <patchfile> [file]",
		Short: "Apply an RFC 6902 JSON Patch document",
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
			doc, err := jparse.Parse(docData)
			if err != nil {
				return err
			}
			patch, err := jparse.Parse(patchData)
			if err != nil {
				return err
			}
			if err := jpatch.Apply(doc, patch, true); err != nil {
				return err
			}
			out, err := jprint.Print(doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}
