package jparse_test

import (
	"testing"

	"github.com/lattice-substrate/jtree/jminify"
	"github.com/lattice-substrate/jtree/jparse"
	"github.com/lattice-substrate/jtree/jprint"
)

// FuzzRoundTrip exercises the parse/print/minify pipeline end to end: the
// first 4 bytes of the corpus entry are ASCII '0'/'1' flags {minify, requireTerminated,
// formatted, buffered}; the remainder is candidate JSON. Inputs of 4 bytes
// or fewer, or that claim requireTerminated without ending in a NUL, are
// not valid corpus entries for this target and are skipped by returning
// early (f.Fuzz has no reject-and-continue signal).
func FuzzRoundTrip(f *testing.F) {
	seeds := [][]byte{
		append([]byte("0000"), []byte(`{"a":1,"b":[1,2,3]}`)...),
		append([]byte("1000"), []byte(`{"a" : 1 /* c */}`)...),
		append([]byte("0101"), []byte(`"𝄞"`)...),
		append([]byte("0010"), []byte(`[1,2,3]`)...),
		append([]byte("0001"), append([]byte(`{"a":1}`), 0x00)...),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in []byte) {
		if len(in) <= 4 {
			return
		}
		flags := in[:4]
		for _, b := range flags {
			if b != '0' && b != '1' {
				return
			}
		}
		minify := flags[0] == '1'
		requireTerminated := flags[1] == '1'
		formatted := flags[2] == '1'
		buffered := flags[3] == '1'

		body := in[4:]
		if requireTerminated && body[len(body)-1] != 0x00 {
			return
		}

		v, err := jparse.ParseWithOptions(body, jparse.Options{RequireNullTerminated: requireTerminated})
		if err != nil {
			return
		}

		opts := jprint.Options{Format: formatted}
		if buffered {
			opts.Buffer = make([]byte, 0, 256)
		}
		out, err := jprint.PrintWithOptions(v, opts)
		if err != nil {
			t.Fatalf("print parsed value: %v", err)
		}

		if minify {
			if _, err := jminify.Minify(append([]byte(nil), out...)); err != nil {
				t.Fatalf("minify printed output: %v", err)
			}
		}
	})
}
