package sexpr

// Environment is the contract the macro core needs from the host's
// compile-time environment representation (spec.md §6.1): given a name,
// identify which binding location owns it. Two identifiers are
// free-identifier=? when they share a name and the same owner, where "no
// owner" (nil) stands for a name free at top level — two free references
// to the same name are themselves equivalent, the same as Gauche's
// identifier-binding-equiv? for unbound symbols.
//
// internal/env provides the concrete implementation; this interface lives
// here (not there) so sexpr never has to import env.
type Environment interface {
	Owner(name string) any
}

// Identifier is a symbol paired with the environment captured at the
// point it was created (spec.md §3.1): either a literal from a
// syntax-rules literals list, or a free symbol a template inserts. It is
// the hygiene mechanism — identifiers compiled into a template always
// resolve against the macro's definition environment, never the use site.
type Identifier struct {
	Name string
	Env  Environment
}

func NewIdentifier(name string, env Environment) *Identifier {
	return &Identifier{Name: name, Env: env}
}

func (id *Identifier) String() string { return id.Name }
func (id *Identifier) Type() string   { return "identifier" }

// BindingEquiv implements spec.md §6.1's identifierBindingEquiv: true iff
// obj is a symbol or identifier with the same name as id, and obj's
// binding in useEnv is the same location id's binding is in id.Env.
func BindingEquiv(id *Identifier, obj Value, useEnv Environment) bool {
	var objName string
	switch o := obj.(type) {
	case *Symbol:
		objName = o.Name
	case *Identifier:
		// Two identifiers (a macro-produced pattern matching a form that
		// itself came from another macro's expansion) are equivalent iff
		// they carry the same name and the very same captured env.
		return id.Name == o.Name && id.Env == o.Env
	default:
		return false
	}
	if id.Name != objName {
		return false
	}
	var idOwner, useOwner any
	if id.Env != nil {
		idOwner = id.Env.Owner(id.Name)
	}
	if useEnv != nil {
		useOwner = useEnv.Owner(objName)
	}
	return idOwner == useOwner
}
