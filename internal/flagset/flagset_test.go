package flagset

import "testing"

func TestHasSingleBit(t *testing.T) {
	s := LIB
	if !s.Has(LIB) {
		t.Errorf("LIB.Has(LIB) = false, want true")
	}
	if s.Has(EXE) {
		t.Errorf("LIB.Has(EXE) = true, want false")
	}
}

func TestWithCombines(t *testing.T) {
	s := EXE.With(UPX)
	if !s.Has(EXE) || !s.Has(UPX) {
		t.Fatalf("EXE.With(UPX) = %v, missing a member", s)
	}
	if s.Has(LIB) || s.Has(AddDeps) {
		t.Errorf("EXE.With(UPX) = %v, has unexpected member", s)
	}
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := EXE
	_ = base.With(UPX)
	if base.Has(UPX) {
		t.Errorf("With mutated its receiver: EXE gained UPX")
	}
}

func TestUnionOfEmptySets(t *testing.T) {
	s := Empty().Union(Empty())
	if !s.IsEmpty() {
		t.Errorf("Union(Empty, Empty) = %v, want empty", s)
	}
}

func TestHasAgainstEmptyIsAlwaysTrue(t *testing.T) {
	if !LIB.Has(Empty()) {
		t.Errorf("LIB.Has(Empty()) = false, want true (empty is a subset of everything)")
	}
}

func TestIsEmpty(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Errorf("Empty().IsEmpty() = false, want true")
	}
	if LIB.IsEmpty() {
		t.Errorf("LIB.IsEmpty() = true, want false")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		set  Set
		want string
	}{
		{Empty(), "none"},
		{LIB, "lib"},
		{EXE.With(UPX), "exe,upx"},
		{LIB.With(EXE).With(UPX).With(AddDeps), "lib,exe,upx,add_deps"},
	}
	for _, tt := range tests {
		if got := tt.set.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
