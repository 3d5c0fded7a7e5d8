// Package jmerge implements RFC 7386 JSON Merge Patch: applying a merge
// patch document onto a target tree, and generating a minimal merge patch
// from the structural difference of two trees.
package jmerge

import (
	"github.com/lattice-substrate/jtree/jvalue"
)

// Apply applies patch to target per RFC 7386 and returns the resulting
// tree. If patch is not an Object, the result is a deep duplicate of
// patch. Otherwise target becomes an Object (replacing it if it wasn't
// one already) and, for each patch member: a null value deletes the
// corresponding target key; any other value recursively merges into (or
// creates) that key. Target keys absent from patch are preserved.
//
// Apply does not mutate target in place (RFC 7386 merge can change a
// target's very kind, e.g. from Array to Object, which ReplaceContents
// could do but callers applying a merge patch generally want the returned
// value, matching encoding/json's json.Marshal-then-replace idiom more
// than jpatch's in-place contract).
func Apply(target, patch *jvalue.Value, caseSensitive bool) (*jvalue.Value, error) {
	if patch.Kind() != jvalue.Object {
		return jvalue.Duplicate(patch, true)
	}
	base := target
	if base.Kind() != jvalue.Object {
		base = jvalue.NewObject()
	} else {
		dup, err := jvalue.Duplicate(base, true)
		if err != nil {
			return nil, err
		}
		base = dup
	}

	for member := patch.Child(); member != nil; member = member.Next() {
		key := member.Key()
		existing := getByKey(base, key, caseSensitive)
		if member.IsNull() {
			if existing != nil {
				jvalue.Detach(base, existing)
			}
			continue
		}
		merged, err := Apply(existing, member, caseSensitive)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			jvalue.Replace(base, existing, merged)
		} else {
			jvalue.AddToObject(base, key, merged)
		}
	}
	return base, nil
}

func getByKey(obj *jvalue.Value, key string, caseSensitive bool) *jvalue.Value {
	if caseSensitive {
		return obj.Get(key)
	}
	return obj.GetCaseInsensitive(key)
}

// Diff produces a minimal RFC 7386 merge patch that, applied to from,
// produces a tree structurally equal to to (when the difference is
// expressible as a merge patch at all). If to is Null the
// result is a Null node. If either side is not an Object, the result is a
// deep duplicate of to (no merge-patch form can express a non-object
// replacement more precisely than "replace the whole thing"). Otherwise:
// keys only in from become "key": null; keys only in to become
// "key": deep-duplicate(to[key]); keys in both recurse when the values
// differ and are omitted when they are equal. An empty result object
// returns nil (no-op), matching RFC 7386's "no difference to express".
func Diff(from, to *jvalue.Value, caseSensitive bool) *jvalue.Value {
	if to.IsNull() {
		return jvalue.NewNull()
	}
	if from.Kind() != jvalue.Object || to.Kind() != jvalue.Object {
		dup, err := jvalue.Duplicate(to, true)
		if err != nil {
			return jvalue.NewNull()
		}
		return dup
	}

	out := jvalue.NewObject()
	for c := from.Child(); c != nil; c = c.Next() {
		if getByKey(to, c.Key(), caseSensitive) == nil {
			jvalue.AddToObject(out, c.Key(), jvalue.NewNull())
		}
	}
	for c := to.Child(); c != nil; c = c.Next() {
		fromVal := getByKey(from, c.Key(), caseSensitive)
		if fromVal == nil {
			dup, err := jvalue.Duplicate(c, true)
			if err != nil {
				continue
			}
			jvalue.AddToObject(out, c.Key(), dup)
			continue
		}
		if jvalue.Compare(fromVal, c, caseSensitive) {
			continue
		}
		jvalue.AddToObject(out, c.Key(), Diff(fromVal, c, caseSensitive))
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}
