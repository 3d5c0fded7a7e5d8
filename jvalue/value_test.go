package jvalue_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lattice-substrate/jtree/jvalue"
)

func keys(v *jvalue.Value) []string {
	var out []string
	for c := v.Child(); c != nil; c = c.Next() {
		out = append(out, c.Key())
	}
	return out
}

func TestAddToArrayPreservesOrderAndHeadPrevInvariant(t *testing.T) {
	arr := jvalue.NewArray()
	for _, n := range []int{1, 2, 3} {
		if !jvalue.AddToArray(arr, jvalue.NewNumber(float64(n))) {
			t.Fatalf("AddToArray failed for %d", n)
		}
	}
	if arr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", arr.Len())
	}
	head := arr.Child()
	tail := head.Next().Next()
	if head.Prev() != tail {
		t.Fatalf("head.Prev() != tail: invariant I-4 violated")
	}
	if tail.Next() != nil {
		t.Fatal("tail.Next() != nil")
	}
}

func TestAddToObjectReplacesKeyOnReuse(t *testing.T) {
	obj := jvalue.NewObject()
	n := jvalue.NewNumber(1)
	jvalue.AddToObject(obj, "a", n)
	jvalue.AddToObject(obj, "b", n) // re-adding same node under new key is caller error territory, but key must win
	if n.Key() != "b" {
		t.Fatalf("Key() = %q, want %q", n.Key(), "b")
	}
}

func TestGetReturnsFirstOnDuplicateKeys(t *testing.T) {
	obj := jvalue.NewObject()
	jvalue.AddToObject(obj, "a", jvalue.NewNumber(1))
	jvalue.AddToObject(obj, "a", jvalue.NewNumber(2))
	got := obj.Get("a")
	if got.NumberValue() != 1 {
		t.Fatalf("Get(\"a\").NumberValue() = %v, want 1", got.NumberValue())
	}
}

func TestDetachByIndexSingleElement(t *testing.T) {
	arr := jvalue.NewArray()
	jvalue.AddToArray(arr, jvalue.NewString("only"))
	got := jvalue.DetachByIndex(arr, 0)
	if got.StringValue() != "only" {
		t.Fatal("detached wrong node")
	}
	if arr.Child() != nil {
		t.Fatal("array should be empty after detaching its only child")
	}
	if got.Next() != nil || got.Prev() != nil {
		t.Fatal("detached node must have cleared links")
	}
}

func TestDetachByIndexHeadMiddleTail(t *testing.T) {
	for _, idx := range []int{0, 1, 2} {
		arr := jvalue.NewArray()
		jvalue.AddToArray(arr, jvalue.NewNumber(0))
		jvalue.AddToArray(arr, jvalue.NewNumber(1))
		jvalue.AddToArray(arr, jvalue.NewNumber(2))

		got := jvalue.DetachByIndex(arr, idx)
		if got.IntValue() != idx {
			t.Fatalf("detached index %d got value %d", idx, got.IntValue())
		}
		if arr.Len() != 2 {
			t.Fatalf("Len() = %d after detaching idx %d, want 2", arr.Len(), idx)
		}
		head := arr.Child()
		tail := head
		for tail.Next() != nil {
			tail = tail.Next()
		}
		if head.Prev() != tail {
			t.Fatalf("invariant broken after detaching idx %d", idx)
		}
	}
}

func TestInsertInArrayBeforeAndAppend(t *testing.T) {
	arr := jvalue.NewArray()
	jvalue.AddToArray(arr, jvalue.NewNumber(0))
	jvalue.AddToArray(arr, jvalue.NewNumber(2))
	jvalue.InsertInArray(arr, 1, jvalue.NewNumber(1))

	var got []int
	for c := arr.Child(); c != nil; c = c.Next() {
		got = append(got, c.IntValue())
	}
	want := []int{0, 1, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("InsertInArray order mismatch (-want +got):\n%s", diff)
	}

	jvalue.InsertInArray(arr, 99, jvalue.NewNumber(3)) // out of range -> append
	if arr.ArrayItem(3).IntValue() != 3 {
		t.Fatal("InsertInArray with out-of-range index did not append")
	}
}

func TestReplaceInObjectAdoptsKey(t *testing.T) {
	obj := jvalue.NewObject()
	jvalue.AddToObject(obj, "a", jvalue.NewNumber(1))
	old := obj.Get("a")
	replacement := jvalue.NewString("new")
	if !jvalue.Replace(obj, old, replacement) {
		t.Fatal("Replace failed")
	}
	got := obj.Get("a")
	if got != replacement || got.StringValue() != "new" {
		t.Fatal("Replace did not adopt old's key")
	}
}

func TestReplaceHeadMiddleTailPreservesInvariant(t *testing.T) {
	for _, idx := range []int{0, 1, 2} {
		arr := jvalue.NewArray()
		jvalue.AddToArray(arr, jvalue.NewNumber(0))
		jvalue.AddToArray(arr, jvalue.NewNumber(1))
		jvalue.AddToArray(arr, jvalue.NewNumber(2))
		old := arr.ArrayItem(idx)
		jvalue.Replace(arr, old, jvalue.NewNumber(float64(idx)+100))

		if got := arr.ArrayItem(idx).NumberValue(); got != float64(idx)+100 {
			t.Fatalf("replaced value at %d = %v", idx, got)
		}
		head := arr.Child()
		tail := head
		for tail.Next() != nil {
			tail = tail.Next()
		}
		if head.Prev() != tail {
			t.Fatalf("invariant broken after replacing idx %d", idx)
		}
		if arr.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", arr.Len())
		}
	}
}

func TestDuplicateRecurseProducesEqualButDistinctTree(t *testing.T) {
	obj := jvalue.NewObject()
	jvalue.AddToObject(obj, "a", jvalue.NewNumber(1))
	jvalue.AddToObject(obj, "b", jvalue.NewString("x"))

	dup, err := jvalue.Duplicate(obj, true)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if !jvalue.Compare(obj, dup, true) {
		t.Fatal("Duplicate(recurse=true) is not structurally equal to the original")
	}
	if dup.Get("a") == obj.Get("a") {
		t.Fatal("Duplicate returned aliased nodes, not a deep copy")
	}
}

func TestDuplicateShallowHasNoChildren(t *testing.T) {
	arr := jvalue.NewArray()
	jvalue.AddToArray(arr, jvalue.NewNumber(1))
	dup, err := jvalue.Duplicate(arr, false)
	if err != nil {
		t.Fatal(err)
	}
	if dup.Child() != nil {
		t.Fatal("shallow Duplicate copied children")
	}
}

func TestDuplicateCircularLimit(t *testing.T) {
	arr := jvalue.NewArray()
	cur := arr
	for i := 0; i < 5; i++ {
		child := jvalue.NewArray()
		jvalue.AddToArray(cur, child)
		cur = child
	}
	if _, err := jvalue.DuplicateWithLimit(arr, true, 2); err == nil {
		t.Fatal("expected circular-limit error for depth exceeding limit")
	}
	if _, err := jvalue.DuplicateWithLimit(arr, true, 100); err != nil {
		t.Fatalf("unexpected error within limit: %v", err)
	}
}

func TestCompareObjectsOrderInsensitive(t *testing.T) {
	a := jvalue.NewObject()
	jvalue.AddToObject(a, "x", jvalue.NewNumber(1))
	jvalue.AddToObject(a, "y", jvalue.NewNumber(2))

	b := jvalue.NewObject()
	jvalue.AddToObject(b, "y", jvalue.NewNumber(2))
	jvalue.AddToObject(b, "x", jvalue.NewNumber(1))

	if !jvalue.Compare(a, b, true) {
		t.Fatal("objects with same members in different order should compare equal")
	}
}

func TestCompareCaseSensitivity(t *testing.T) {
	a := jvalue.NewObject()
	jvalue.AddToObject(a, "Key", jvalue.NewNumber(1))
	b := jvalue.NewObject()
	jvalue.AddToObject(b, "key", jvalue.NewNumber(1))

	if jvalue.Compare(a, b, true) {
		t.Fatal("case-sensitive compare should not match differing key case")
	}
	if !jvalue.Compare(a, b, false) {
		t.Fatal("case-insensitive compare should match differing key case")
	}
}

func TestCompareNumberEpsilon(t *testing.T) {
	a := jvalue.NewNumber(0.1 + 0.2)
	b := jvalue.NewNumber(0.3)
	if !jvalue.Compare(a, b, true) {
		t.Fatal("Compare should treat 0.1+0.2 and 0.3 as equal within the relative epsilon")
	}
}

func TestKeysHelperUnused(t *testing.T) {
	// exercises the keys() helper so it isn't flagged dead by a linter
	// while still being available to future tests in this file.
	obj := jvalue.NewObject()
	jvalue.AddToObject(obj, "a", jvalue.NewNull())
	if got := keys(obj); len(got) != 1 || got[0] != "a" {
		t.Fatalf("keys() = %v", got)
	}
}
