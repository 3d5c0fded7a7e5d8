// Package jprint serializes a jvalue.Value tree to UTF-8 JSON text, either
// compact or indented, with a numeric round-trip discipline: integers
// print as decimal integers, other finite numbers print with the shortest
// of %.15g/%.17g that round-trips to the original bit pattern, and
// non-finite numbers (constructed programmatically; the parser never
// produces them) print as "null".
//
// String escaping short-escapes the common control characters and emits
// \u00XX for the rest. Object member order is whatever the tree's child
// list holds; keys are never sorted.
package jprint

import (
	"math"
	"strconv"

	"github.com/lattice-substrate/jtree/alloc"
	"github.com/lattice-substrate/jtree/jerr"
	"github.com/lattice-substrate/jtree/jvalue"
)

// MaxBufferSize caps the growable output buffer at just under 2 GiB.
const MaxBufferSize = (1 << 31) - 1

// Options controls Print's output.
type Options struct {
	// Format selects indented ("pretty") output: one tab per nesting
	// level, ":" plus a tab between key and value, and ",\n" between
	// object members; arrays separate elements with ", " rather than a
	// newline.
	Format bool
	// Preallocate sizes the initial buffer when Buffer is nil.
	Preallocate int
	// Buffer, if non-nil, is used as the initial output buffer (its
	// existing contents are preserved and appended to).
	Buffer []byte
	// NoAlloc forbids growing Buffer past its capacity; exhaustion
	// returns jerr.ClassPrintOverflow instead of reallocating.
	NoAlloc bool
	// Allocator is used for internal scratch buffers. nil means
	// alloc.Default().
	Allocator alloc.Allocator
}

// Print serializes v with default (compact) Options.
func Print(v *jvalue.Value) ([]byte, error) {
	return PrintWithOptions(v, Options{})
}

// PrintWithOptions serializes v per opts.
func PrintWithOptions(v *jvalue.Value, opts Options) ([]byte, error) {
	p := &printer{
		format:  opts.Format,
		noAlloc: opts.NoAlloc,
		alloc:   alloc.Or(opts.Allocator),
	}
	buf := opts.Buffer
	ownBuf := false
	if buf == nil {
		n := opts.Preallocate
		if n <= 0 {
			n = 256
		}
		buf = p.alloc.Get(n)
		ownBuf = true
	}
	p.ownBuf = ownBuf
	out, err := p.printValue(buf, v, 0)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type printer struct {
	format  bool
	noAlloc bool
	alloc   alloc.Allocator
	// ownBuf tracks whether the current output buffer was obtained from
	// alloc (true) or supplied by the caller via Options.Buffer (false);
	// only a buffer this printer obtained itself is eligible to be
	// returned to the allocator when grow replaces it.
	ownBuf bool
}

func (p *printer) grow(buf []byte, extra int) ([]byte, error) {
	need := len(buf) + extra
	if need <= cap(buf) {
		return buf, nil
	}
	if p.noAlloc {
		return nil, jerr.New(jerr.ClassPrintOverflow, "print: output buffer exhausted")
	}
	newCap := cap(buf)
	if newCap == 0 {
		newCap = 64
	}
	for newCap < need {
		if newCap >= MaxBufferSize/2 {
			newCap = MaxBufferSize
			break
		}
		newCap *= 2
	}
	if newCap < need {
		return nil, jerr.New(jerr.ClassPrintOverflow, "print: output would exceed maximum buffer size")
	}
	grown := p.alloc.Get(newCap)[:len(buf)]
	copy(grown, buf)
	if p.ownBuf {
		p.alloc.Put(buf)
	}
	p.ownBuf = true
	return grown, nil
}

func (p *printer) append(buf []byte, b ...byte) ([]byte, error) {
	buf, err := p.grow(buf, len(b))
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

func (p *printer) appendString(buf []byte, s string) ([]byte, error) {
	buf, err := p.grow(buf, len(s))
	if err != nil {
		return nil, err
	}
	return append(buf, s...), nil
}

func (p *printer) indent(buf []byte, depth int) ([]byte, error) {
	if !p.format {
		return buf, nil
	}
	buf, err := p.grow(buf, depth)
	if err != nil {
		return nil, err
	}
	for i := 0; i < depth; i++ {
		buf = append(buf, '\t')
	}
	return buf, nil
}

func (p *printer) printValue(buf []byte, v *jvalue.Value, depth int) ([]byte, error) {
	switch v.Kind() {
	case jvalue.Invalid:
		return p.appendString(buf, "null")
	case jvalue.Null:
		return p.appendString(buf, "null")
	case jvalue.True:
		return p.appendString(buf, "true")
	case jvalue.False:
		return p.appendString(buf, "false")
	case jvalue.Number:
		return p.printNumber(buf, v)
	case jvalue.String:
		return p.printString(buf, v.StringValue())
	case jvalue.Raw:
		return p.appendString(buf, v.StringValue())
	case jvalue.Array:
		return p.printArray(buf, v, depth)
	case jvalue.Object:
		return p.printObject(buf, v, depth)
	default:
		return nil, jerr.New(jerr.ClassAlloc, "print: unknown value kind")
	}
}

func (p *printer) printNumber(buf []byte, v *jvalue.Value) ([]byte, error) {
	f := v.NumberValue()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return p.appendString(buf, "null")
	}
	if f == 0 && math.Signbit(f) {
		return p.appendString(buf, "0")
	}
	if iv := v.IntValue(); float64(iv) == f {
		return p.appendString(buf, strconv.Itoa(iv))
	}
	return p.appendString(buf, formatFloatRoundTrip(f))
}

// formatFloatRoundTrip prints at precision 15 first; if re-parsing does
// not recover the exact original bit pattern, it reprints at precision 17.
func formatFloatRoundTrip(f float64) string {
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if roundTripsExactly(s, f) {
		return s
	}
	return strconv.FormatFloat(f, 'g', 17, 64)
}

func roundTripsExactly(s string, want float64) bool {
	got, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return math.Float64bits(got) == math.Float64bits(want)
}

func (p *printer) printArray(buf []byte, v *jvalue.Value, depth int) ([]byte, error) {
	var err error
	if buf, err = p.append(buf, '['); err != nil {
		return nil, err
	}
	first := true
	for c := v.Child(); c != nil; c = c.Next() {
		if !first {
			if p.format {
				if buf, err = p.appendString(buf, ", "); err != nil {
					return nil, err
				}
			} else {
				if buf, err = p.append(buf, ','); err != nil {
					return nil, err
				}
			}
		}
		first = false
		if buf, err = p.printValue(buf, c, depth+1); err != nil {
			return nil, err
		}
	}
	return p.append(buf, ']')
}

func (p *printer) printObject(buf []byte, v *jvalue.Value, depth int) ([]byte, error) {
	var err error
	if buf, err = p.append(buf, '{'); err != nil {
		return nil, err
	}
	first := true
	for c := v.Child(); c != nil; c = c.Next() {
		if !first {
			if buf, err = p.append(buf, ','); err != nil {
				return nil, err
			}
		}
		if p.format {
			if buf, err = p.appendString(buf, "\n"); err != nil {
				return nil, err
			}
			if buf, err = p.indent(buf, depth+1); err != nil {
				return nil, err
			}
		}
		first = false
		if buf, err = p.printString(buf, c.Key()); err != nil {
			return nil, err
		}
		if p.format {
			if buf, err = p.appendString(buf, ":\t"); err != nil {
				return nil, err
			}
		} else {
			if buf, err = p.append(buf, ':'); err != nil {
				return nil, err
			}
		}
		if buf, err = p.printValue(buf, c, depth+1); err != nil {
			return nil, err
		}
	}
	if v.Len() > 0 && p.format {
		if buf, err = p.appendString(buf, "\n"); err != nil {
			return nil, err
		}
		if buf, err = p.indent(buf, depth); err != nil {
			return nil, err
		}
	}
	return p.append(buf, '}')
}

func (p *printer) printString(buf []byte, s string) ([]byte, error) {
	var err error
	if buf, err = p.append(buf, '"'); err != nil {
		return nil, err
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case '"':
			buf, err = p.appendString(buf, `\"`)
		case '\\':
			buf, err = p.appendString(buf, `\\`)
		case '\b':
			buf, err = p.appendString(buf, `\b`)
		case '\f':
			buf, err = p.appendString(buf, `\f`)
		case '\n':
			buf, err = p.appendString(buf, `\n`)
		case '\r':
			buf, err = p.appendString(buf, `\r`)
		case '\t':
			buf, err = p.appendString(buf, `\t`)
		default:
			if b < 0x20 {
				buf, err = p.appendString(buf, `\u00`+hexPair(b))
			} else {
				buf, err = p.append(buf, b)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return p.append(buf, '"')
}

const hexDigits = "0123456789abcdef"

func hexPair(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}
