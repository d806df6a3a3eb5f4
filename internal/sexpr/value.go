// Package sexpr is the form representation the macro core compiles,
// matches, and transcribes. It is a minimal stand-in for the "surrounding
// compiler front end" (reader, environment, identifier interning) that the
// macro core treats as an external collaborator: just enough structure to
// exercise the pattern compiler, matcher, and transcriber.
package sexpr

import "fmt"

// Value is any form the macro core can see: a symbol, an identifier, a
// pair, a vector, or a literal atom.
type Value interface {
	fmt.Stringer
	Type() string
}

// Atom is a literal value that matches and transcribes by itself:
// numbers, strings, booleans. Equality between atoms is structural
// (spec.md §6.1 equalValue), not identity.
type Atom struct {
	Val any
}

func NewAtom(v any) *Atom { return &Atom{Val: v} }

func (a *Atom) String() string { return fmt.Sprint(a.Val) }
func (a *Atom) Type() string   { return "atom" }

// Nil is the empty list, distinct from an empty Go slice or nil pointer so
// list walks have a canonical terminator.
type nilValue struct{}

func (nilValue) String() string { return "()" }
func (nilValue) Type() string   { return "nil" }

// Nil is the single canonical empty-list value.
var Nil Value = nilValue{}

// IsNil reports whether v is the empty list.
func IsNil(v Value) bool {
	_, ok := v.(nilValue)
	return ok
}
