// Package macro is the hygienic syntax-rules core: the pattern compiler
// (C2), matcher (C3), transcriber (C4), and transformer facade (C5), plus
// the compiled IR they share (C1). See SPEC_FULL.md for the expanded
// specification this package implements.
package macro

// PVRef is the compiled representation of a pattern variable occurrence
// (spec.md §3.2). After compilation, pattern variables never appear as
// bare symbols — only as PVRefs threaded through the pattern/template IR.
//
// The source this spec is drawn from overloads a VM instruction encoding
// to pack level and index into one word (spec.md §9 "PVRef
// representation"); this reimplementation uses a dedicated struct per the
// spec's explicit redesign note, since there is no VM here to share an
// encoding with.
type PVRef struct {
	Level uint16
	Index uint16
}

// SyntaxPattern is a node representing either the top-level pattern of a
// rule or a "..."-repeated subform (spec.md §3.3).
type SyntaxPattern struct {
	Pattern any     // child IR: sexpr.Value wrapped nodes, PVRef, *SyntaxPattern, *PairNode (list), or *VectorPattern
	Vars    []PVRef // pattern variables occurring within this node
	Level   uint16  // ellipsis nesting depth (0 for the rule's top pattern)
	Repeat  bool    // true iff this node stands for a "..." repetition

	// Flatten marks a synthetic wrapper level introduced by a template
	// form followed by more than one "...": `x ... ...` lifts x two
	// ellipsis levels instead of the usual one, and the outer of the two
	// levels splices its children into the surrounding list rather than
	// nesting them one list deeper (spec.md §4.3's lockstep expansion,
	// generalized to the multi-ellipsis template shorthand). Pattern then
	// holds the next-inner *SyntaxPattern directly instead of compiled
	// form IR.
	Flatten bool
}

// VectorPattern is the compiled form of a vector pattern/template
// (spec.md §4.1 "Vector"). Elems holds the compiled elements; when the
// source vector's last element was followed by "...", Ellipsis holds the
// compiled repeating SyntaxPattern for it and Elems holds everything
// before it.
type VectorPattern struct {
	Elems    []any
	Ellipsis *SyntaxPattern // nil if this vector has no trailing ellipsis
}

// PairNode is a single compiled cons cell on a list spine: Car is the
// compiled element, Cdr is the rest of the compiled spine (another
// *PairNode, a *SyntaxPattern tail is never stored as Cdr — a repeating
// subpattern always fully replaces the remaining spine per spec.md
// §4.1's "rest' must be empty" rule — or any other compiled atom for an
// improper list tail).
type PairNode struct {
	Car any
	Cdr any
}

// SyntaxRule holds one compiled (pattern template) branch (spec.md §3.4).
type SyntaxRule struct {
	Pattern  any // compiled pattern IR, excludes the macro keyword
	Template any // compiled template IR
	NumPvars int // total PVRef slots this rule needs
	MaxLevel int // deepest ellipsis nesting reached
}

// SyntaxRules is a named, compiled set of rules (spec.md §3.4).
type SyntaxRules struct {
	Name        string
	Rules       []*SyntaxRule
	MaxNumPvars int // max(r.NumPvars) across Rules; pre-sizes the shared MatchVec
}

// addVar records pv as occurring within sp, skipping it if already
// present (a template subpattern may reference the same pattern
// variable more than once).
func (sp *SyntaxPattern) addVar(pv PVRef) {
	for _, existing := range sp.Vars {
		if existing == pv {
			return
		}
	}
	sp.Vars = append(sp.Vars, pv)
}

// DefaultMaxLevel is the stack-allocation threshold spec.md §8 calls out
// (heap-allocate the index vector beyond this depth). Go slices make the
// heap/stack distinction invisible to callers, but the constant is kept
// as the documented nesting depth this implementation is tuned for.
const DefaultMaxLevel = 10
