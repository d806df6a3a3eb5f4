package macro

import "github.com/fen-lang/synrules/internal/sexpr"

// MatchVar is the per-pattern-variable binding slot spec.md §3.5
// describes. Root is the final value once matching succeeds: for a
// level-0 variable, the matched subform itself; for a level-L variable,
// a []any tree nested L deep, each layer corresponding to one enclosing
// "...".
//
// The source (and spec.md §3.5) additionally track a "branch" accumulator
// and a "sprout" graft point, mutated in place as matching proceeds
// (grow_branch/enter_subpattern/exit_subpattern in macro.c). This
// implementation instead builds each ellipsis level's tree bottom-up as a
// single return value from matchSubpattern, which needs no graft point:
// spec.md §9's design note calls the mutable-cons approach "the densest
// but the least safe" and explicitly sanctions an equivalent alternative
// (here, option (b): "vector-of-vectors keyed by indices, serialized at
// lookup" — indices become plain Go slice nesting instead of an explicit
// index vector).
type MatchVar struct {
	Root any
}

// MatchVec is the binding table: one MatchVar per PVRef slot, sized to
// maxNumPvars and reset between rule attempts (spec.md §3.5 lifecycle).
type MatchVec struct {
	Vars []MatchVar
}

// NewMatchVec allocates a binding table sized for n pattern-variable
// slots.
func NewMatchVec(n int) *MatchVec {
	return &MatchVec{Vars: make([]MatchVar, n)}
}

// Reset reinitializes the first n slots to empty, for reuse across rule
// attempts (spec.md §3.5 "re-initialized to empty between rule attempts").
func (mv *MatchVec) Reset(n int) {
	for i := 0; i < n && i < len(mv.Vars); i++ {
		mv.Vars[i] = MatchVar{}
	}
}

// Match implements the matcher contract (C3, spec.md §4.2): does form
// unify with compiledPattern? On success every PVRef reachable in
// compiledPattern has a complete binding in mvec; on failure mvec is not
// written at all. Slots a successful match does not bind keep their old
// contents, so callers Reset between rule attempts.
func Match(form sexpr.Value, compiledPattern any, useEnv sexpr.Environment, mvec *MatchVec) bool {
	out := make(map[int]any)
	if !matchNode(form, compiledPattern, useEnv, out) {
		return false
	}
	for idx, v := range out {
		if idx < len(mvec.Vars) {
			mvec.Vars[idx].Root = v
		}
	}
	return true
}

// matchNode dispatches on the compiled pattern node type (spec.md §4.2
// "Dispatch on pattern node"). out accumulates bindings discovered by
// this call and its children, keyed by PVRef.Index.
func matchNode(form sexpr.Value, pat any, useEnv sexpr.Environment, out map[int]any) bool {
	switch p := pat.(type) {
	case PVRef:
		out[int(p.Index)] = form
		return true
	case *sexpr.Identifier:
		return sexpr.BindingEquiv(p, form, useEnv)
	case *PairNode:
		return matchPairSpine(form, p, useEnv, out)
	case *VectorPattern:
		return matchVector(form, p, useEnv, out)
	case sexpr.Value:
		// literal atom, or the empty list: match by structural equality
		// (spec.md §4.2 "Any other atom").
		return sexpr.Equal(p, form)
	default:
		return false
	}
}

// isNilIR reports whether an IR node is the canonical "end of proper
// list" marker (sexpr.Nil, wrapped as any).
func isNilIR(node any) bool {
	v, ok := node.(sexpr.Value)
	return ok && sexpr.IsNil(v)
}

// matchPairSpine walks a compiled list pattern against form, element by
// element, handing off to matchSubpattern as soon as a repeating
// SyntaxPattern is found (spec.md §4.2 "Pair").
func matchPairSpine(form sexpr.Value, node *PairNode, useEnv sexpr.Environment, out map[int]any) bool {
	var curPat any = node
	curForm := form
	for {
		pn, ok := curPat.(*PairNode)
		if !ok {
			break
		}
		if subpat, isRepeat := pn.Car.(*SyntaxPattern); isRepeat {
			return matchSubpattern(curForm, subpat, useEnv, out)
		}
		fp, ok := curForm.(*sexpr.Pair)
		if !ok {
			return false
		}
		if !matchNode(fp.Car, pn.Car, useEnv, out) {
			return false
		}
		curForm = fp.Cdr
		curPat = pn.Cdr
	}
	if isNilIR(curPat) {
		return sexpr.IsNil(curForm)
	}
	// improper-list tail: match whatever compiled node remains against
	// whatever form remains (spec.md "Improper-list pattern tails match
	// improper-list form tails element-wise").
	return matchNode(curForm, curPat, useEnv, out)
}

// matchSubpattern implements the "Subpattern protocol" of spec.md §4.2: a
// repeating SyntaxPattern matches a list of subforms, one match per
// element, with the improper tail required to be empty.
func matchSubpattern(formList sexpr.Value, subpat *SyntaxPattern, useEnv sexpr.Environment, out map[int]any) bool {
	elems, ok := sexpr.ToSlice(formList)
	if !ok {
		return false
	}
	perIter := make([]map[int]any, len(elems))
	for i, e := range elems {
		m := make(map[int]any)
		if !matchNode(e, subpat.Pattern, useEnv, m) {
			return false
		}
		perIter[i] = m
	}
	for _, pv := range subpat.Vars {
		values := make([]any, len(elems))
		for i, m := range perIter {
			values[i] = m[int(pv.Index)]
		}
		out[int(pv.Index)] = values
	}
	return true
}

// matchVector implements spec.md §4.2 "Vector": lengths must agree unless
// the pattern's last element is a repeating SyntaxPattern, in which case
// the form's tail from that index matches as a list against it.
func matchVector(form sexpr.Value, vp *VectorPattern, useEnv sexpr.Environment, out map[int]any) bool {
	fv, ok := form.(*sexpr.Vector)
	if !ok {
		return false
	}
	plen := len(vp.Elems)
	if vp.Ellipsis == nil {
		if len(fv.Elems) != plen {
			return false
		}
		for i := 0; i < plen; i++ {
			if !matchNode(fv.Elems[i], vp.Elems[i], useEnv, out) {
				return false
			}
		}
		return true
	}
	if len(fv.Elems) < plen {
		return false
	}
	for i := 0; i < plen; i++ {
		if !matchNode(fv.Elems[i], vp.Elems[i], useEnv, out) {
			return false
		}
	}
	rest := sexpr.FromSlice(fv.Elems[plen:])
	return matchSubpattern(rest, vp.Ellipsis, useEnv, out)
}
