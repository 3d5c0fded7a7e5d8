// Package jpointer implements RFC 6901 JSON Pointer resolution over a
// jvalue.Value tree: forward traversal from a pointer string to the Value
// it addresses, and reverse synthesis of the pointer string that would
// address a given node.
package jpointer

import (
	"strconv"
	"strings"

	"github.com/lattice-substrate/jtree/jerr"
	"github.com/lattice-substrate/jtree/jvalue"
)

// Resolve walks root per the RFC 6901 pointer string and returns the
// addressed Value, or a *jerr.Error (ClassPointer) if any token fails to
// resolve. The empty pointer "" resolves to root itself.
func Resolve(root *jvalue.Value, pointer string, caseSensitive bool) (*jvalue.Value, error) {
	if pointer == "" {
		return root, nil
	}
	if pointer[0] != '/' {
		return nil, jerr.New(jerr.ClassPointer, "pointer: must be empty or start with '/'")
	}
	tokens, err := splitTokens(pointer)
	if err != nil {
		return nil, err
	}
	cur := root
	for _, tok := range tokens {
		cur, err = step(cur, tok, caseSensitive)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// splitTokens splits a non-empty pointer into decoded reference tokens.
func splitTokens(pointer string) ([]string, error) {
	raw := strings.Split(pointer[1:], "/")
	out := make([]string, len(raw))
	for i, tok := range raw {
		decoded, err := decodeToken(tok)
		if err != nil {
			return nil, err
		}
		out[i] = decoded
	}
	return out, nil
}

// decodeToken applies the ~1 -> '/' then ~0 -> '~' escape grammar; any '~'
// not followed by '0' or '1' is a decode error.
func decodeToken(tok string) (string, error) {
	if !strings.ContainsRune(tok, '~') {
		return tok, nil
	}
	var b strings.Builder
	b.Grow(len(tok))
	for i := 0; i < len(tok); i++ {
		if tok[i] != '~' {
			b.WriteByte(tok[i])
			continue
		}
		if i+1 >= len(tok) {
			return "", jerr.New(jerr.ClassPointer, "pointer: token ends with bare '~'")
		}
		switch tok[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", jerr.New(jerr.ClassPointer, "pointer: '~' not followed by '0' or '1'")
		}
		i++
	}
	return b.String(), nil
}

// encodeToken is the inverse of decodeToken, used by FindPointerFromObjectTo.
func encodeToken(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

func step(cur *jvalue.Value, tok string, caseSensitive bool) (*jvalue.Value, error) {
	switch cur.Kind() {
	case jvalue.Object:
		var item *jvalue.Value
		if caseSensitive {
			item = cur.Get(tok)
		} else {
			item = cur.GetCaseInsensitive(tok)
		}
		if item == nil {
			return nil, jerr.New(jerr.ClassPointer, "pointer: no member named "+strconv.Quote(tok))
		}
		return item, nil
	case jvalue.Array:
		if tok == "-" {
			return nil, jerr.New(jerr.ClassPointer, "pointer: '-' does not resolve to an existing element")
		}
		idx, err := decodeArrayIndex(tok)
		if err != nil {
			return nil, err
		}
		item := cur.ArrayItem(idx)
		if item == nil {
			return nil, jerr.New(jerr.ClassPointer, "pointer: array index out of range")
		}
		return item, nil
	default:
		return nil, jerr.New(jerr.ClassPointer, "pointer: cannot descend into a "+cur.Kind().String())
	}
}

// decodeArrayIndex parses a pointer token as a JSON-Pointer array index: a
// non-negative decimal integer with no leading zero, except the literal
// "0" itself.
func decodeArrayIndex(tok string) (int, error) {
	if tok == "" {
		return 0, jerr.New(jerr.ClassPointer, "pointer: empty array index")
	}
	if tok == "0" {
		return 0, nil
	}
	if tok[0] == '0' || tok[0] < '0' || tok[0] > '9' {
		return 0, jerr.New(jerr.ClassPointer, "pointer: malformed array index "+strconv.Quote(tok))
	}
	for i := 1; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, jerr.New(jerr.ClassPointer, "pointer: malformed array index "+strconv.Quote(tok))
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, jerr.New(jerr.ClassPointer, "pointer: array index overflow")
	}
	return n, nil
}

// FindPointerFromObjectTo performs a depth-first search from root for the
// first node that is target by identity, returning the pointer string
// that addresses it. Reports false if target is unreachable from root.
func FindPointerFromObjectTo(root, target *jvalue.Value) (string, bool) {
	if root == target {
		return "", true
	}
	switch root.Kind() {
	case jvalue.Array:
		i := 0
		for c := root.Child(); c != nil; c = c.Next() {
			if path, ok := FindPointerFromObjectTo(c, target); ok {
				return "/" + strconv.Itoa(i) + path, true
			}
			i++
		}
	case jvalue.Object:
		for c := root.Child(); c != nil; c = c.Next() {
			if path, ok := FindPointerFromObjectTo(c, target); ok {
				return "/" + encodeToken(c.Key()) + path, true
			}
		}
	}
	return "", false
}
