package bitset

import (
	"reflect"
	"testing"
)

func TestInsertAndIter(t *testing.T) {
	s := New(15)
	s.Insert(7)
	s.Insert(3)
	s.Insert(7)
	s.Insert(14)

	got := s.Iter()
	want := []int{3, 7, 14}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}
}

func TestContains(t *testing.T) {
	s := New(10)
	s.Insert(5)
	if !s.Contains(5) {
		t.Fatalf("Contains(5) = false, want true")
	}
	if s.Contains(6) {
		t.Fatalf("Contains(6) = true, want false")
	}
}

func TestUnionWithChangeDetection(t *testing.T) {
	a := New(64)
	a.Insert(1)
	b := New(64)
	b.Insert(1)
	b.Insert(2)

	if changed := a.UnionWith(b); !changed {
		t.Fatalf("UnionWith() = false, want true on first union")
	}
	if changed := a.UnionWith(b); changed {
		t.Fatalf("UnionWith() = true, want false once converged")
	}
	if !a.Contains(1) || !a.Contains(2) {
		t.Fatalf("a after union = %v, want {1,2}", a.Iter())
	}
}

func TestClearAndIsEmpty(t *testing.T) {
	s := New(20)
	s.Insert(4)
	if s.IsEmpty() {
		t.Fatalf("IsEmpty() = true after Insert")
	}
	s.Clear()
	if !s.IsEmpty() {
		t.Fatalf("IsEmpty() = false after Clear")
	}
}

func TestEqual(t *testing.T) {
	a := New(32)
	a.Insert(3)
	b := New(32)
	b.Insert(3)
	if !a.Equal(b) {
		t.Fatalf("Equal() = false, want true")
	}
	b.Insert(4)
	if a.Equal(b) {
		t.Fatalf("Equal() = true, want false")
	}
}

func TestRemove(t *testing.T) {
	s := New(10)
	s.Insert(3)
	s.Insert(4)
	s.Remove(3)
	if s.Contains(3) {
		t.Fatalf("Contains(3) = true after Remove")
	}
	if !s.Contains(4) {
		t.Fatalf("Contains(4) = false, want true (Remove must not disturb other bits)")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(16)
	a.Insert(1)
	b := a.Clone()
	b.Insert(2)
	if a.Contains(2) {
		t.Fatalf("mutating clone affected original")
	}
	if !b.Contains(1) || !b.Contains(2) {
		t.Fatalf("clone missing bits: %v", b.Iter())
	}
}
