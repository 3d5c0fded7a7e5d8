// Package jtree composes the value model, parser, printer, minifier, and
// the Pointer/Patch/Merge-Patch engines into a single ergonomic import for
// the common case, the way a single-header C library (the one this module
// is modeled on) exposes one API surface. Callers that need finer control
// — a custom Allocator, a no-alloc print buffer, case-insensitive pointer
// resolution — should import the underlying packages directly.
package jtree

import (
	"github.com/lattice-substrate/jtree/jmerge"
	"github.com/lattice-substrate/jtree/jminify"
	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jpatch"
	"github.com/lattice-substrate/jtree/jpointer"
	"github.com/lattice-substrate/jtree/jprint"
	"github.com/lattice-substrate/jtree/jvalue"
)

// Value is the JSON tree node type; re-exported so callers of this facade
// never need to import jvalue directly for the common case.
type Value = jvalue.Value

// Parse parses data as a complete JSON document.
func Parse(data []byte) (*Value, error) {
	return jparse.Parse(data)
}

// Print serializes v as compact JSON.
func Print(v *Value) ([]byte, error) {
	return jprint.Print(v)
}

// PrintIndent serializes v as indented ("pretty") JSON.
func PrintIndent(v *Value) ([]byte, error) {
	return jprint.PrintWithOptions(v, jprint.Options{Format: true})
}

// Minify strips insignificant whitespace and comments from raw JSON text.
func Minify(data []byte) ([]byte, error) {
	return jminify.Minify(data)
}

// Pointer resolves an RFC 6901 pointer string against root.
func Pointer(root *Value, pointer string) (*Value, error) {
	return jpointer.Resolve(root, pointer, true)
}

// ApplyPatch applies an RFC 6902 JSON Patch document to doc in place.
func ApplyPatch(doc, patch *Value) error {
	return jpatch.Apply(doc, patch, true)
}

// DiffPatch generates a minimal RFC 6902 patch turning from into to.
func DiffPatch(from, to *Value) *Value {
	return jpatch.Diff(from, to, true)
}

// ApplyMergePatch applies an RFC 7386 merge patch to target, returning the
// merged result (target is not mutated; see jmerge.Apply).
func ApplyMergePatch(target, patch *Value) (*Value, error) {
	return jmerge.Apply(target, patch, true)
}

// DiffMergePatch generates a minimal RFC 7386 merge patch turning from
// into to, where expressible (see jmerge.Diff).
func DiffMergePatch(from, to *Value) *Value {
	return jmerge.Diff(from, to, true)
}
