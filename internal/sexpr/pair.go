package sexpr

import "strings"

// Pair is a cons cell. Proper lists are chains of Pairs ending in Nil;
// improper lists end in some other Value.
type Pair struct {
	Car Value
	Cdr Value
}

func Cons(car, cdr Value) *Pair { return &Pair{Car: car, Cdr: cdr} }

func (p *Pair) String() string {
	var b strings.Builder
	b.WriteByte('(')
	cur := Value(p)
	first := true
	for {
		pp, ok := cur.(*Pair)
		if !ok {
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(pp.Car.String())
		cur = pp.Cdr
	}
	if !IsNil(cur) {
		b.WriteString(" . ")
		b.WriteString(cur.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (p *Pair) Type() string { return "pair" }

// FromSlice builds a proper list from vs, ending in Nil.
func FromSlice(vs []Value) Value {
	var result Value = Nil
	for i := len(vs) - 1; i >= 0; i-- {
		result = Cons(vs[i], result)
	}
	return result
}

// ImproperFromSlice builds a list from vs ending in tail instead of Nil.
func ImproperFromSlice(vs []Value, tail Value) Value {
	result := tail
	for i := len(vs) - 1; i >= 0; i-- {
		result = Cons(vs[i], result)
	}
	return result
}

// ToSlice walks a proper list into a slice. ok is false if the list is
// improper (a non-Pair, non-Nil cdr is eventually reached).
func ToSlice(v Value) (elems []Value, ok bool) {
	for {
		if IsNil(v) {
			return elems, true
		}
		p, isPair := v.(*Pair)
		if !isPair {
			return elems, false
		}
		elems = append(elems, p.Car)
		v = p.Cdr
	}
}

// Length mirrors spec.md §6.1's length(list): -1 for an improper list.
func Length(v Value) int {
	n := 0
	for {
		if IsNil(v) {
			return n
		}
		p, ok := v.(*Pair)
		if !ok {
			return -1
		}
		n++
		v = p.Cdr
	}
}
