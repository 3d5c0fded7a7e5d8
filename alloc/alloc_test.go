package alloc_test

import (
	"testing"

	"github.com/lattice-substrate/jtree/alloc"
)

func TestPooledGetPutReuse(t *testing.T) {
	a := alloc.Default()
	b := a.Get(100)
	if len(b) != 0 {
		t.Fatalf("Get returned non-empty slice: len=%d", len(b))
	}
	if cap(b) < 100 {
		t.Fatalf("Get returned insufficient capacity: cap=%d", cap(b))
	}
	a.Put(b)
}

func TestPooledLargeBypassesPool(t *testing.T) {
	a := alloc.Default()
	b := a.Get(10 << 20)
	if cap(b) < 10<<20 {
		t.Fatalf("large Get under-allocated: cap=%d", cap(b))
	}
	a.Put(b) // must not panic
}

func TestOrFallsBackToDefault(t *testing.T) {
	if alloc.Or(nil) != alloc.Default() {
		t.Fatal("Or(nil) did not return Default()")
	}
	custom := &stubAllocator{}
	if alloc.Or(custom) != custom {
		t.Fatal("Or(custom) did not return custom")
	}
}

type stubAllocator struct{}

func (*stubAllocator) Get(n int) []byte { return make([]byte, 0, n) }
func (*stubAllocator) Put([]byte)       {}

func TestSetDefaultResetsOnNil(t *testing.T) {
	custom := &stubAllocator{}
	alloc.SetDefault(custom)
	if alloc.Default() != Allocator(custom) {
		t.Fatal("SetDefault did not install custom allocator")
	}
	alloc.SetDefault(nil)
	if alloc.Default() == Allocator(custom) {
		t.Fatal("SetDefault(nil) did not reset default")
	}
}

type Allocator = alloc.Allocator
