// Package jminify strips insignificant whitespace and, as a non-standard
// concession, line and block comments from a JSON text buffer. It operates
// on raw bytes, not a jvalue.Value tree: the Value model has already lost
// whitespace and comments by the time a document is parsed, so
// minification is a textual pass that runs before (or independently of)
// jparse.
package jminify

import "github.com/lattice-substrate/jtree/jerr"

// Minify returns a new byte slice with ASCII whitespace outside strings,
// "//" line comments, and "/* */" block comments removed. It does not
// validate that data is well-formed JSON beyond tracking string
// boundaries well enough to avoid stripping bytes inside a string.
func Minify(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == '"':
			start := i
			i++
			closed := false
			for i < len(data) {
				if data[i] == '\\' && i+1 < len(data) {
					i += 2
					continue
				}
				if data[i] == '"' {
					i++
					closed = true
					break
				}
				i++
			}
			if !closed {
				return nil, jerr.New(jerr.ClassParse, "minify: unterminated string")
			}
			out = append(out, data[start:i]...)
		case isMinifyWhitespace(b):
			i++
		case b == '/' && i+1 < len(data) && data[i+1] == '/':
			i += 2
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case b == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			if i+1 >= len(data) {
				return nil, jerr.New(jerr.ClassParse, "minify: unterminated block comment")
			}
			i += 2
		default:
			out = append(out, b)
			i++
		}
	}
	return out, nil
}

func isMinifyWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
