package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jpointer"
	"github.com/lattice-substrate/jtree/jprint"
)

func newPointerCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "pointer [file]",
		Short: "Resolve an RFC 6901 JSON Pointer against a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath := ""
			if len(args) == 1 {
				filePath = args[0]
			}
			data, err := readDocument(cmd, filePath)
			if err != nil {
				return err
			}
			v, err := jparse.Parse(data)
			if err != nil {
				return err
			}
			found, err := jpointer.Resolve(v, path, true)
			if err != nil {
				return err
			}
			out, err := jprint.Print(found)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "RFC 6901 pointer to resolve")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}
