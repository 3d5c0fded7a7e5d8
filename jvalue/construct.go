package jvalue

// NewNull creates an owning Null node.
func NewNull() *Value { return &Value{kind: Null} }

// NewBool creates an owning True/False node.
func NewBool(b bool) *Value {
	if b {
		return &Value{kind: True}
	}
	return &Value{kind: False}
}

// NewTrue creates an owning True node.
func NewTrue() *Value { return &Value{kind: True} }

// NewFalse creates an owning False node.
func NewFalse() *Value { return &Value{kind: False} }

// NewNumber creates an owning Number node. NaN/±Inf are accepted here
// (construction never fails); the Printer is responsible for emitting
// them as "null" per spec.
func NewNumber(f float64) *Value {
	return &Value{kind: Number, num: f, numInt: clampInt(f)}
}

// NewString creates an owning String node, copying the payload.
func NewString(s string) *Value {
	return &Value{kind: String, str: s}
}

// NewRaw creates an owning Raw node; the caller warrants raw is valid JSON.
func NewRaw(raw string) *Value {
	return &Value{kind: Raw, str: raw}
}

// NewArray creates an empty, owning Array node.
func NewArray() *Value { return &Value{kind: Array} }

// NewObject creates an empty, owning Object node.
func NewObject() *Value { return &Value{kind: Object} }

// NewStringReference creates a String node flagged IsReference; since Go
// strings are immutable value types there is no payload to actually
// alias, but the flag is preserved so Duplicate/Delete follow the same
// reference-aware code paths a ported cJSON caller expects.
func NewStringReference(s string) *Value {
	return &Value{kind: String, str: s, IsReference: true}
}

// NewArrayReference wraps child (the head of an existing child list,
// typically still attached to another live tree) as the child list of a
// new Array node that does not own it: Delete on the result will not
// recurse into child.
func NewArrayReference(child *Value) *Value {
	return &Value{kind: Array, child: child, IsReference: true}
}

// NewObjectReference is NewArrayReference for Object nodes.
func NewObjectReference(child *Value) *Value {
	return &Value{kind: Object, child: child, IsReference: true}
}

// NewIntArray builds an Array of owned Number children from ints.
func NewIntArray(nums []int) *Value {
	arr := NewArray()
	for _, n := range nums {
		_ = AddToArray(arr, NewNumber(float64(n)))
	}
	return arr
}

// NewFloatArray builds an Array of owned Number children from float32s.
func NewFloatArray(nums []float32) *Value {
	arr := NewArray()
	for _, n := range nums {
		_ = AddToArray(arr, NewNumber(float64(n)))
	}
	return arr
}

// NewDoubleArray builds an Array of owned Number children from float64s.
func NewDoubleArray(nums []float64) *Value {
	arr := NewArray()
	for _, n := range nums {
		_ = AddToArray(arr, NewNumber(n))
	}
	return arr
}

// NewStringArray builds an Array of owned String children.
func NewStringArray(strs []string) *Value {
	arr := NewArray()
	for _, s := range strs {
		_ = AddToArray(arr, NewString(s))
	}
	return arr
}
