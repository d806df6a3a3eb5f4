package sexpr

// Symbol is a bare, uninterned name as it appears in a use-site form or a
// freshly-read pattern/template before the pattern compiler processes it.
type Symbol struct {
	Name string
}

func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }

func (s *Symbol) String() string { return s.Name }
func (s *Symbol) Type() string   { return "symbol" }

// Ellipsis is the reserved symbol name the pattern compiler recognizes as
// the "..." marker (spec.md §4.1).
const Ellipsis = "..."

// IsEllipsis reports whether v is the symbol "...".
func IsEllipsis(v Value) bool {
	sym, ok := v.(*Symbol)
	return ok && sym.Name == Ellipsis
}
