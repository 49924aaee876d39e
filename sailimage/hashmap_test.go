package sailimage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHashMapSetGetErase(t *testing.T) {
	h := NewHashMap()
	h.Set("a", NewInt64(1))
	h.Set("b", NewString("two"))

	if v, ok := h.Get("a"); !ok || v.Int64() != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
	if !h.HasKey("b") {
		t.Fatal("expected HasKey(b) to be true")
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	h.Erase("a")
	if h.HasKey("a") {
		t.Fatal("expected a to be erased")
	}
	if h.Len() != 1 {
		t.Fatalf("Len() after Erase = %d, want 1", h.Len())
	}
}

func TestHashMapSetCopiesValue(t *testing.T) {
	h := NewHashMap()
	data := []byte{1, 2, 3}
	h.Set("k", NewData(data))
	data[0] = 99

	v, _ := h.Get("k")
	if v.Data()[0] == 99 {
		t.Fatal("Set should store a copy, not alias the caller's Data slice")
	}
}

func TestHashMapTraverseStopsEarly(t *testing.T) {
	h := NewHashMap()
	h.Set("a", NewInt64(1))
	h.Set("b", NewInt64(2))
	h.Set("c", NewInt64(3))

	seen := 0
	h.Traverse(func(key string, value Variant) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Fatalf("Traverse visited %d entries, want exactly 1 after returning false", seen)
	}
}

func TestHashMapCopyIsIndependent(t *testing.T) {
	h := NewHashMap()
	h.Set("a", NewInt64(1))
	cp := h.Copy()
	cp.Set("a", NewInt64(99))

	v, _ := h.Get("a")
	if v.Int64() != 1 {
		t.Fatal("Copy() should be independently mutable from the original")
	}
}

// TestHashMapCopyIsStructurallyEqual is P11: Copy() produces a map with the
// same key/value contents as the original at the moment of copying.
func TestHashMapCopyIsStructurallyEqual(t *testing.T) {
	h := NewHashMap()
	h.Set("a", NewInt64(1))
	h.Set("b", NewString("two"))
	h.Set("c", NewData([]byte{1, 2, 3}))

	cp := h.Copy()
	if diff := cmp.Diff(h.Snapshot(), cp.Snapshot()); diff != "" {
		t.Fatalf("Copy() snapshot differs from original (-want +got):\n%s", diff)
	}
}
