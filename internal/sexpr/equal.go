package sexpr

// Equal implements spec.md §6.1's equalValue: structural equality, used by
// the matcher when a pattern position holds a literal atom rather than a
// pattern variable, identifier, or subpattern.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Atom:
		bv, ok := b.(*Atom)
		return ok && av.Val == bv.Val
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av.Name == bv.Name
	case nilValue:
		return IsNil(b)
	case *Pair:
		bv, ok := b.(*Pair)
		return ok && Equal(av.Car, bv.Car) && Equal(av.Cdr, bv.Cdr)
	case *Vector:
		bv, ok := b.(*Vector)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Identifier:
		bv, ok := b.(*Identifier)
		return ok && av.Name == bv.Name && av.Env == bv.Env
	default:
		return false
	}
}
