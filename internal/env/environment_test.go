package env

import "testing"

func TestFrame_DefineLookup(t *testing.T) {
	f := New()
	f.Define("x", 42)

	b, ok := f.Lookup("x")
	if !ok {
		t.Fatal("Lookup should find a name defined in this frame")
	}
	if b.Value != 42 {
		t.Errorf("Value = %v, want 42", b.Value)
	}

	if _, ok := f.Lookup("y"); ok {
		t.Error("Lookup should fail for an undefined name")
	}
}

func TestFrame_ChildSeesParent(t *testing.T) {
	parent := New()
	parent.Define("x", 1)
	child := parent.Child()

	b, ok := child.Lookup("x")
	if !ok || b.Value != 1 {
		t.Error("child frame should see bindings from its parent")
	}

	child.Define("y", 2)
	if _, ok := parent.Lookup("y"); ok {
		t.Error("parent frame should not see bindings introduced in a child")
	}
}

func TestFrame_OwnerIdentity(t *testing.T) {
	f := New()
	f.Define("x", 1)

	a := f.Owner("x")
	b := f.Owner("x")
	if a != b {
		t.Error("Owner should return the same binding identity across calls")
	}

	other := New()
	if f.Owner("z") != other.Owner("z") {
		t.Error("two distinct frames should agree that an unbound name is free (nil owner)")
	}
}
