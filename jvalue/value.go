// Package jvalue implements the JSON value tree: a tagged node type
// connected by a doubly-linked sibling list, the constructors and
// mutation operations that build and reshape it, and the structural
// comparison used by the patch and merge-patch engines.
//
// Nodes are plain *Value pointers whose next/prev/child links are
// unexported: callers read them through Next, Prev and Child, and only
// this package's functions rewrite them, which keeps the sibling-list
// invariants (a head's prev points at the tail) intact.
package jvalue

import "math"

// Kind identifies the shape of a Value's payload.
type Kind int

// The eight JSON value kinds, plus Invalid for the zero Value.
const (
	Invalid Kind = iota
	Null
	False
	True
	Number
	String
	Raw
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Null:
		return "null"
	case False:
		return "false"
	case True:
		return "true"
	case Number:
		return "number"
	case String:
		return "string"
	case Raw:
		return "raw"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// DefaultCircularLimit bounds Duplicate's recursion depth, a defense
// against pathologically (or maliciously) deep input trees.
const DefaultCircularLimit = 10000

// DefaultMaxDepth bounds parser nesting; it lives here, next to
// DefaultCircularLimit (Duplicate's bound), and jparse imports it as its
// zero-value default.
const DefaultMaxDepth = 1000

// Value is one node of a JSON tree.
type Value struct {
	next, prev *Value
	child      *Value // head of the child list, nil for leaf kinds

	kind Kind

	// IsReference marks a node whose string/child payload is borrowed
	// from another (owning) node. Delete on a reference node never
	// recurses into the shared payload.
	IsReference bool
	// KeyIsConstant marks a borrowed (not independently held) key string.
	// In Go this is bookkeeping only: it documents intent for callers
	// porting cJSON semantics, since the GC does not care who "owns" a
	// string.
	KeyIsConstant bool

	key string

	str    string  // String / Raw payload
	num    float64 // Number payload
	numInt int     // saturated int view of num
}

// Kind returns the node's tag.
func (v *Value) Kind() Kind {
	if v == nil {
		return Invalid
	}
	return v.kind
}

// Key returns the node's object key, or "" if it has none.
func (v *Value) Key() string {
	if v == nil {
		return ""
	}
	return v.key
}

// Next returns the next sibling, or nil at the tail.
func (v *Value) Next() *Value { return v.next }

// Prev returns the previous sibling. At the head of a list this is the
// tail (invariant I-4), not nil.
func (v *Value) Prev() *Value { return v.prev }

// Child returns the head of the child list, or nil for non-container
// kinds and empty containers.
func (v *Value) Child() *Value { return v.child }

// StringValue returns the String/Raw payload.
func (v *Value) StringValue() string {
	if v == nil {
		return ""
	}
	return v.str
}

// NumberValue returns the float64 payload of a Number node.
func (v *Value) NumberValue() float64 {
	if v == nil {
		return 0
	}
	return v.num
}

// IntValue returns the saturated int view of a Number node.
func (v *Value) IntValue() int {
	if v == nil {
		return 0
	}
	return v.numInt
}

// BoolValue reports whether the node is True.
func (v *Value) BoolValue() bool {
	return v.Kind() == True
}

// IsNull reports whether the node is Null.
func (v *Value) IsNull() bool { return v.Kind() == Null }

// clampInt saturates f to the platform int range, matching cJSON's
// valueint clamp-on-overflow behavior instead of silently truncating.
func clampInt(f float64) int {
	const maxInt = int(^uint(0) >> 1)
	const minInt = -maxInt - 1
	if math.IsNaN(f) {
		return 0
	}
	if f >= float64(maxInt) {
		return maxInt
	}
	if f <= float64(minInt) {
		return minInt
	}
	return int(f)
}

// Len returns the number of children (0 for leaf kinds and empty
// containers). Size is derived by traversal, not cached, matching the
// spec's data model.
func (v *Value) Len() int {
	n := 0
	for c := v.Child(); c != nil; c = c.Next() {
		n++
	}
	return n
}
