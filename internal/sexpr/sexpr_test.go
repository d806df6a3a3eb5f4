package sexpr

import "testing"

func TestPair_StringProperList(t *testing.T) {
	lst := FromSlice([]Value{NewSymbol("a"), NewAtom(int64(1)), NewSymbol("b")})
	got := lst.String()
	want := "(a 1 b)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPair_StringImproper(t *testing.T) {
	lst := ImproperFromSlice([]Value{NewSymbol("a")}, NewSymbol("b"))
	got := lst.String()
	want := "(a . b)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestToSlice(t *testing.T) {
	lst := FromSlice([]Value{NewAtom(int64(1)), NewAtom(int64(2))})
	elems, ok := ToSlice(lst)
	if !ok {
		t.Fatal("ToSlice should succeed on a proper list")
	}
	if len(elems) != 2 {
		t.Fatalf("len(elems) = %d, want 2", len(elems))
	}

	improper := ImproperFromSlice([]Value{NewAtom(int64(1))}, NewAtom(int64(2)))
	if _, ok := ToSlice(improper); ok {
		t.Error("ToSlice should report ok=false for an improper list")
	}
}

func TestLength(t *testing.T) {
	if got := Length(FromSlice(nil)); got != 0 {
		t.Errorf("Length(()) = %d, want 0", got)
	}
	if got := Length(FromSlice([]Value{NewAtom(int64(1)), NewAtom(int64(2))})); got != 2 {
		t.Errorf("Length = %d, want 2", got)
	}
	if got := Length(ImproperFromSlice([]Value{NewAtom(int64(1))}, NewAtom(int64(2)))); got != -1 {
		t.Errorf("Length of improper list = %d, want -1", got)
	}
}

func TestEqual(t *testing.T) {
	a := FromSlice([]Value{NewSymbol("x"), NewAtom(int64(1))})
	b := FromSlice([]Value{NewSymbol("x"), NewAtom(int64(1))})
	c := FromSlice([]Value{NewSymbol("x"), NewAtom(int64(2))})

	if !Equal(a, b) {
		t.Error("structurally identical lists should be Equal")
	}
	if Equal(a, c) {
		t.Error("structurally different lists should not be Equal")
	}
	if !Equal(Nil, FromSlice(nil)) {
		t.Error("Nil and an empty list should be Equal")
	}
}

func TestVector(t *testing.T) {
	v := NewVector([]Value{NewAtom(int64(1)), NewSymbol("x")})
	if v.String() != "#(1 x)" {
		t.Errorf("Vector.String() = %q, want %q", v.String(), "#(1 x)")
	}
}

func TestBindingEquiv_FreeIdentifiers(t *testing.T) {
	// An identifier and a bare symbol that both refer to the same unbound
	// (free) name in their respective environments are equivalent: this is
	// what lets a literal "else" from the literals list compare equal to an
	// "else" supplied by the macro use, as long as neither is locally
	// shadowed.
	env1 := fakeEnv{}
	env2 := fakeEnv{}
	id1 := NewIdentifier("else", env1)
	id2 := NewSymbol("else")
	if !BindingEquiv(id1, id2, env2) {
		t.Error("free identifier should be equivalent to an unbound symbol of the same name")
	}

	other := NewSymbol("foo")
	if BindingEquiv(id1, other, env2) {
		t.Error("identifiers with different names must not be equivalent")
	}
}

type fakeEnv struct{}

func (fakeEnv) Owner(name string) any { return nil }
