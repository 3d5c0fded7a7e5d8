package jvalue

// Delete recursively discards v and, for owning (non-reference) Array and
// Object nodes, its entire child list. A reference node's child list is
// left untouched (it is owned by some other live node), matching cJSON's
// "a reference never frees the payload it shares" contract. Go's garbage
// collector reclaims memory either way; Delete exists so callers that
// ported cJSON call sites keep the same control flow, and so that
// deliberately severing a reference node's child pointer here makes
// dangling-reference bugs reproducible rather than silently "working" by
// accident of GC timing.
func Delete(v *Value) {
	for v != nil {
		next := v.next
		if !v.IsReference && v.child != nil {
			Delete(v.child)
		}
		v.child, v.next, v.prev = nil, nil, nil
		v = next
	}
}
