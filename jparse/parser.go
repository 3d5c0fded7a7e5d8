// Package jparse parses RFC 8259 JSON text into a jvalue.Value tree.
//
// It never scans past the provided slice, bounds nesting depth, and
// reports failures as a single byte offset plus message rather than an
// error taxonomy, matching the value model's own lifecycle contract:
// on failure the partially built tree is discarded, never returned.
package jparse

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/jtree/alloc"
	"github.com/lattice-substrate/jtree/jerr"
	"github.com/lattice-substrate/jtree/jvalue"
)

// Options controls parsing behavior.
type Options struct {
	// RequireNullTerminated requires a single 0x00 byte (after optional
	// trailing whitespace) immediately following the top-level value.
	RequireNullTerminated bool
	// MaxDepth bounds array/object nesting. 0 means jvalue.DefaultMaxDepth.
	MaxDepth int
	// MaxInputSize bounds the length of data the parser will accept.
	// 0 means DefaultMaxInputSize.
	MaxInputSize int
	// Allocator is used for scratch string-building buffers. nil means
	// alloc.Default().
	Allocator alloc.Allocator
}

// DefaultMaxInputSize caps parser input at 64 MiB.
const DefaultMaxInputSize = 64 * 1024 * 1024

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return jvalue.DefaultMaxDepth
}

func (o Options) maxInputSize() int {
	if o.MaxInputSize > 0 {
		return o.MaxInputSize
	}
	return DefaultMaxInputSize
}

// Parse is Parse with default Options.
func Parse(data []byte) (*jvalue.Value, error) {
	return ParseWithOptions(data, Options{})
}

// ParseWithOptions parses a complete JSON text. On failure it returns a
// nil tree and a *jerr.Error carrying the byte offset of the failure.
func ParseWithOptions(data []byte, opts Options) (*jvalue.Value, error) {
	if len(data) > opts.maxInputSize() {
		return nil, jerr.At(jerr.ClassParse, 0, fmt.Sprintf("input exceeds maximum size %d bytes", opts.maxInputSize()))
	}
	data = skipBOM(data)

	p := &parser{
		data:  data,
		alloc: alloc.Or(opts.Allocator),
		max:   opts.maxDepth(),
	}

	p.skipWhitespace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()

	if opts.RequireNullTerminated {
		if p.pos >= len(p.data) || p.data[p.pos] != 0x00 {
			return nil, p.errorf("expected NUL terminator after value")
		}
		p.pos++
	} else if p.pos != len(p.data) {
		return nil, p.errorf("unexpected trailing content after JSON value")
	}
	return v, nil
}

func skipBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

type parser struct {
	data  []byte
	pos   int
	depth int
	max   int
	alloc alloc.Allocator
}

func (p *parser) errorf(format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return jerr.At(jerr.ClassParse, p.pos, msg)
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) expect(b byte) error {
	c, ok := p.peek()
	if !ok || c != b {
		return p.errorf("expected %q", string(b))
	}
	p.pos++
	return nil
}

func isJSONWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) && isJSONWhitespace(p.data[p.pos]) {
		p.pos++
	}
}

func (p *parser) pushDepth() error {
	p.depth++
	if p.depth > p.max {
		return p.errorf("nesting depth exceeds maximum %d", p.max)
	}
	return nil
}

func (p *parser) popDepth() { p.depth-- }

func (p *parser) parseValue() (*jvalue.Value, error) {
	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}
	switch c {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		s, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return jvalue.NewString(s), nil
	case 't', 'f':
		return p.parseBool()
	case 'n':
		return p.parseNull()
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.parseNumber()
	default:
		return nil, p.errorf("unexpected character %q", string(c))
	}
}

func (p *parser) parseObject() (*jvalue.Value, error) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	if err := p.expect('{'); err != nil {
		return nil, err
	}
	obj := jvalue.NewObject()
	p.skipWhitespace()

	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return obj, nil
	}

	for {
		p.skipWhitespace()
		c, ok := p.peek()
		if !ok || c != '"' {
			return nil, p.errorf("expected string key in object")
		}
		key, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipWhitespace()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		jvalue.AddToObject(obj, key, val)

		p.skipWhitespace()
		c, ok = p.peek()
		if !ok {
			return nil, p.errorf("unexpected end of input in object")
		}
		if c == '}' {
			p.pos++
			return obj, nil
		}
		if c != ',' {
			return nil, p.errorf("expected ',' or '}' in object")
		}
		p.pos++
	}
}

func (p *parser) parseArray() (*jvalue.Value, error) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	if err := p.expect('['); err != nil {
		return nil, err
	}
	arr := jvalue.NewArray()
	p.skipWhitespace()

	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return arr, nil
	}

	for {
		p.skipWhitespace()
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		jvalue.AddToArray(arr, elem)

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unexpected end of input in array")
		}
		if c == ']' {
			p.pos++
			return arr, nil
		}
		if c != ',' {
			return nil, p.errorf("expected ',' or ']' in array")
		}
		p.pos++
	}
}

func (p *parser) parseBool() (*jvalue.Value, error) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "true" {
		p.pos += 4
		return jvalue.NewTrue(), nil
	}
	if p.pos+5 <= len(p.data) && string(p.data[p.pos:p.pos+5]) == "false" {
		p.pos += 5
		return jvalue.NewFalse(), nil
	}
	return nil, p.errorf("invalid literal")
}

func (p *parser) parseNull() (*jvalue.Value, error) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "null" {
		p.pos += 4
		return jvalue.NewNull(), nil
	}
	return nil, p.errorf("invalid literal")
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (p *parser) parseNumber() (*jvalue.Value, error) {
	start := p.pos

	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}
	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		return nil, p.errorf("invalid number")
	}
	if p.data[p.pos] == '0' {
		p.pos++
		if p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			return nil, p.errorf("leading zero in number")
		}
	} else {
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}

	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		p.pos++
		if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
			return nil, p.errorf("expected digit after decimal point")
		}
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}

	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
			return nil, p.errorf("expected digit in exponent")
		}
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}

	raw := string(p.data[start:p.pos])
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, p.errorf("invalid number literal")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, jerr.At(jerr.ClassParse, start, "number overflows IEEE 754 double")
	}
	return jvalue.NewNumber(f), nil
}

func (p *parser) parseStringLiteral() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	buf := p.alloc.Get(0)
	defer func() { p.alloc.Put(buf) }()

	for {
		if p.pos >= len(p.data) {
			return "", p.errorf("unterminated string")
		}
		b := p.data[p.pos]
		switch {
		case b == '"':
			p.pos++
			return string(buf), nil
		case b == '\\':
			p.pos++
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			var tmp [4]byte
			n := utf8.EncodeRune(tmp[:], r)
			buf = append(buf, tmp[:n]...)
		case b < 0x20:
			return "", p.errorf("unescaped control character in string")
		default:
			r, size := utf8.DecodeRune(p.data[p.pos:])
			if r == utf8.RuneError && size <= 1 {
				return "", p.errorf("invalid UTF-8 byte in string")
			}
			buf = append(buf, p.data[p.pos:p.pos+size]...)
			p.pos += size
		}
	}
}

func (p *parser) parseEscape() (rune, error) {
	if p.pos >= len(p.data) {
		return 0, p.errorf("unterminated escape sequence")
	}
	b := p.data[p.pos]
	p.pos++
	switch b {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return p.parseUnicodeEscape()
	default:
		return 0, p.errorf("invalid escape character %q", string(b))
	}
}

func (p *parser) parseUnicodeEscape() (rune, error) {
	r1, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if r1 >= 0xDC00 {
		return 0, p.errorf("lone low surrogate in string")
	}
	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return 0, p.errorf("lone high surrogate in string")
	}
	p.pos += 2
	r2, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	decoded := utf16.DecodeRune(r1, r2)
	if decoded == utf8.RuneError {
		return 0, p.errorf("invalid surrogate pair in string")
	}
	return decoded, nil
}

func (p *parser) readHex4() (rune, error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errorf("incomplete \\u escape")
	}
	val, err := strconv.ParseUint(string(p.data[p.pos:p.pos+4]), 16, 16)
	if err != nil {
		return 0, p.errorf("invalid hex digits in \\u escape")
	}
	p.pos += 4
	return rune(val), nil
}
