package jvalue

import "github.com/lattice-substrate/jtree/jerr"

// Duplicate deep-copies v (if recurse) or shallow-copies it (copying the
// scalar payload only, with no children), bounded by DefaultCircularLimit
// levels of recursion as a defense against pathological depth. Returns
// nil (via the error) if the limit is exceeded.
func Duplicate(v *Value, recurse bool) (*Value, error) {
	return duplicate(v, recurse, DefaultCircularLimit)
}

// DuplicateWithLimit is Duplicate with a caller-supplied recursion bound.
func DuplicateWithLimit(v *Value, recurse bool, limit int) (*Value, error) {
	return duplicate(v, recurse, limit)
}

func duplicate(v *Value, recurse bool, depth int) (*Value, error) {
	if v == nil {
		return nil, nil
	}
	if depth < 0 {
		return nil, jerr.New(jerr.ClassAlloc, "duplicate: circular limit exceeded")
	}

	out := &Value{
		kind:   v.kind,
		key:    v.key,
		str:    v.str,
		num:    v.num,
		numInt: v.numInt,
	}

	if !recurse || v.child == nil {
		return out, nil
	}

	var headCopy, tailCopy *Value
	for c := v.child; c != nil; c = c.next {
		cc, err := duplicate(c, true, depth-1)
		if err != nil {
			return nil, err
		}
		cc.next = nil
		if headCopy == nil {
			headCopy = cc
			cc.prev = cc
		} else {
			tailCopy.next = cc
			cc.prev = tailCopy
			headCopy.prev = cc
		}
		tailCopy = cc
	}
	out.child = headCopy
	return out, nil
}
