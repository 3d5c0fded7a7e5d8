// Command jtree is a small multi-operation JSON CLI built on the jtree
// library: it parses, prints, resolves pointers, applies RFC 6902 patches,
// and applies RFC 7386 merge patches.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lattice-substrate/jtree/jerr"
	"github.com/lattice-substrate/jtree/jfile"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jtree",
		Short:         "jtree - a JSON parse/print/pointer/patch/merge-patch tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd())
	root.AddCommand(newPrintCmd())
	root.AddCommand(newPointerCmd())
	root.AddCommand(newPatchCmd())
	root.AddCommand(newMergeCmd())
	return root
}

// readDocument reads a JSON document from path, or from stdin when path is
// "-" or empty.
func readDocument(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), jfile.DefaultMaxInputSize+1))
		if err != nil {
			return nil, jerr.Wrap(jerr.ClassAlloc, -1, "jtree: read stdin", err)
		}
		if len(data) > jfile.DefaultMaxInputSize {
			return nil, jerr.New(jerr.ClassAlloc, "jtree: stdin exceeds maximum size")
		}
		return data, nil
	}
	return jfile.ReadFile(path)
}

// exitCodeFor derives a process exit code from err, falling back to 1 for
// errors that are not a *jerr.Error (e.g. cobra usage errors).
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var je *jerr.Error
	if e, ok := err.(*jerr.Error); ok {
		je = e
	}
	if je != nil {
		return je.ExitCode()
	}
	return 1
}

func main() {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCodeFor(err))
}
