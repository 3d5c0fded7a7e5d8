package jpatch

import (
	"sort"
	"strings"

	"github.com/lattice-substrate/jtree/jvalue"
)

// Diff produces a minimal RFC 6902 patch array that, applied to from,
// produces a tree structurally equal to to. Arrays are diffed positionally
// (no LCS): a mismatched prefix element emits "replace",
// trailing elements only in from emit "remove" (tail first, so earlier
// indices stay valid), and trailing elements only in to emit "add /-".
// Object members are merged by a stable key sort; see diffObject. An
// object member named "-" that exists only in to is emitted as an "add"
// whose path ends in "/-", which Apply rejects on an Object parent.
func Diff(from, to *jvalue.Value, caseSensitive bool) *jvalue.Value {
	patch := jvalue.NewArray()
	diffAt(patch, "", from, to, caseSensitive)
	return patch
}

func diffAt(patch *jvalue.Value, path string, from, to *jvalue.Value, caseSensitive bool) {
	if jvalue.Compare(from, to, caseSensitive) {
		return
	}
	if from.Kind() != to.Kind() || (from.Kind() != jvalue.Array && from.Kind() != jvalue.Object) {
		emitReplace(patch, path, to)
		return
	}
	if from.Kind() == jvalue.Array {
		diffArray(patch, path, from, to, caseSensitive)
		return
	}
	diffObject(patch, path, from, to, caseSensitive)
}

func diffArray(patch *jvalue.Value, path string, from, to *jvalue.Value, caseSensitive bool) {
	fromItems := children(from)
	toItems := children(to)
	common := len(fromItems)
	if len(toItems) < common {
		common = len(toItems)
	}
	for i := 0; i < common; i++ {
		diffAt(patch, childPath(path, itoa(i)), fromItems[i], toItems[i], caseSensitive)
	}
	for i := len(fromItems) - 1; i >= common; i-- {
		emitRemove(patch, childPath(path, itoa(i)))
	}
	for i := common; i < len(toItems); i++ {
		emitAdd(patch, childPath(path, "-"), toItems[i])
	}
}

// diffObject merges from's and to's members by a stable sort over keys:
// keys only in from emit "remove", keys only in to emit "add", keys in
// both recurse at the member's path. Key ordering and key equality both
// honor caseSensitive, so a case-insensitive diff recurses into a
// case-variant key pair instead of emitting a spurious remove+add.
func diffObject(patch *jvalue.Value, path string, from, to *jvalue.Value, caseSensitive bool) {
	fromKeys := sortedKeys(from, caseSensitive)
	toKeys := sortedKeys(to, caseSensitive)
	i, j := 0, 0
	for i < len(fromKeys) && j < len(toKeys) {
		switch compareKeys(fromKeys[i].key, toKeys[j].key, caseSensitive) {
		case -1:
			emitRemove(patch, childPath(path, escapeToken(fromKeys[i].key)))
			i++
		case 1:
			emitAdd(patch, childPath(path, escapeToken(toKeys[j].key)), toKeys[j].value)
			j++
		default:
			diffAt(patch, childPath(path, escapeToken(fromKeys[i].key)), fromKeys[i].value, toKeys[j].value, caseSensitive)
			i++
			j++
		}
	}
	for ; i < len(fromKeys); i++ {
		emitRemove(patch, childPath(path, escapeToken(fromKeys[i].key)))
	}
	for ; j < len(toKeys); j++ {
		emitAdd(patch, childPath(path, escapeToken(toKeys[j].key)), toKeys[j].value)
	}
}

type keyedValue struct {
	key   string
	value *jvalue.Value
}

// compareKeys orders a and b the way caseSensitive says two pointer tokens
// should be compared: byte-wise when true, byte-wise after
// strings.ToLower (Unicode lower-casing) when false. Returns -1, 0, or 1.
func compareKeys(a, b string, caseSensitive bool) int {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// sortedKeys returns obj's members sorted stably by key, per caseSensitive
// (see compareKeys). Duplicate keys resolve the same way Get/
// GetCaseInsensitive do: only the first occurrence of a repeated key
// (folded per caseSensitive) is visible here, later ones are dropped from
// the comparison entirely.
func sortedKeys(obj *jvalue.Value, caseSensitive bool) []keyedValue {
	seen := make(map[string]bool)
	out := make([]keyedValue, 0, obj.Len())
	for c := obj.Child(); c != nil; c = c.Next() {
		dedupKey := c.Key()
		if !caseSensitive {
			dedupKey = strings.ToLower(dedupKey)
		}
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true
		out = append(out, keyedValue{key: c.Key(), value: c})
	}
	sort.SliceStable(out, func(i, j int) bool { return compareKeys(out[i].key, out[j].key, caseSensitive) < 0 })
	return out
}

func children(v *jvalue.Value) []*jvalue.Value {
	out := make([]*jvalue.Value, 0, v.Len())
	for c := v.Child(); c != nil; c = c.Next() {
		out = append(out, c)
	}
	return out
}

func childPath(parent, token string) string {
	return parent + "/" + token
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func emitOp(patch *jvalue.Value, op, path string, value *jvalue.Value) {
	entry := jvalue.NewObject()
	jvalue.AddToObject(entry, "op", jvalue.NewString(op))
	jvalue.AddToObject(entry, "path", jvalue.NewString(path))
	if value != nil {
		dup, err := jvalue.Duplicate(value, true)
		if err == nil {
			jvalue.AddToObject(entry, "value", dup)
		}
	}
	jvalue.AddToArray(patch, entry)
}

func emitAdd(patch *jvalue.Value, path string, value *jvalue.Value) {
	emitOp(patch, "add", path, value)
}

func emitRemove(patch *jvalue.Value, path string) {
	emitOp(patch, "remove", path, nil)
}

func emitReplace(patch *jvalue.Value, path string, value *jvalue.Value) {
	emitOp(patch, "replace", path, value)
}
