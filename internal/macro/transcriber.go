package macro

import "github.com/fen-lang/synrules/internal/sexpr"

// realizeCtx carries the mutable index vector spec.md §3.6 describes:
// indices[k] is the current iteration count at ellipsis depth k, set
// just before descending into a repeating SyntaxPattern at that level
// and read back whenever a PVRef at or below that level is fetched.
type realizeCtx struct {
	mvec    *MatchVec
	indices []int
}

// Realize is the transcriber, C4. Given a compiled template and a
// binding table produced by a successful Match, it reconstitutes the
// output form (spec.md §4.3). maxLevel must be at least the rule's
// MaxLevel, sizing the index vector.
//
// The source this spec is drawn from has realize_template_rec return
// SCM_NIL unconditionally instead of the transcribed form (spec.md §9's
// first listed bug); this implementation returns the walk's actual
// result.
func Realize(template any, maxLevel int, mvec *MatchVec) sexpr.Value {
	if maxLevel < 0 {
		maxLevel = 0
	}
	rc := &realizeCtx{mvec: mvec, indices: make([]int, maxLevel+2)}
	return rc.realizeNode(template)
}

func (rc *realizeCtx) realizeNode(node any) sexpr.Value {
	switch n := node.(type) {
	case PVRef:
		v := rc.fetch(n.Index, int(n.Level))
		if sv, ok := v.(sexpr.Value); ok {
			return sv
		}
		return sexpr.Nil
	case *sexpr.Identifier:
		return n
	case *PairNode:
		return rc.realizePairSpine(n)
	case *VectorPattern:
		return rc.realizeVector(n)
	case sexpr.Value:
		return n
	default:
		return sexpr.Nil
	}
}

// realizePairSpine walks a compiled template list spine, splicing in the
// zero-or-more forms a repeating SyntaxPattern element expands to (spec.md
// §4.3 "Pair template").
func (rc *realizeCtx) realizePairSpine(node *PairNode) sexpr.Value {
	var elems []sexpr.Value
	var cur any = node
	for {
		pn, ok := cur.(*PairNode)
		if !ok {
			break
		}
		if subpat, isRepeat := pn.Car.(*SyntaxPattern); isRepeat {
			elems = append(elems, rc.realizeSubpattern(subpat)...)
			cur = pn.Cdr
			continue
		}
		elems = append(elems, rc.realizeNode(pn.Car))
		cur = pn.Cdr
	}
	if isNilIR(cur) {
		return sexpr.FromSlice(elems)
	}
	return sexpr.ImproperFromSlice(elems, rc.realizeNode(cur))
}

func (rc *realizeCtx) realizeVector(vp *VectorPattern) sexpr.Value {
	elems := make([]sexpr.Value, 0, len(vp.Elems)+4)
	for _, e := range vp.Elems {
		elems = append(elems, rc.realizeNode(e))
	}
	if vp.Ellipsis != nil {
		elems = append(elems, rc.realizeSubpattern(vp.Ellipsis)...)
	}
	return sexpr.NewVector(elems)
}

// realizeSubpattern expands a repeating SyntaxPattern: one realization of
// subpat.Pattern per iteration, iterating all of subpat.Vars in lockstep
// (spec.md §4.3 "All ellipsis PVRefs sharing that level thus advance in
// lockstep"). A Flatten node (built for a template form followed by more
// than one "...") splices its child's expansions in directly instead of
// nesting them one list layer deeper.
func (rc *realizeCtx) realizeSubpattern(subpat *SyntaxPattern) []sexpr.Value {
	n := rc.iterationCount(subpat)
	results := make([]sexpr.Value, 0, n)
	for i := 0; i < n; i++ {
		if int(subpat.Level) < len(rc.indices) {
			rc.indices[subpat.Level] = i
		}
		if subpat.Flatten {
			if inner, ok := subpat.Pattern.(*SyntaxPattern); ok {
				results = append(results, rc.realizeSubpattern(inner)...)
				continue
			}
		}
		results = append(results, rc.realizeNode(subpat.Pattern))
	}
	return results
}

// iterationCount determines how many times subpat's governing ellipsis
// repeats, by measuring the bound tree of any one of its pattern
// variables at the enclosing index context (spec.md's lockstep invariant
// guarantees every governing variable agrees).
func (rc *realizeCtx) iterationCount(subpat *SyntaxPattern) int {
	for _, pv := range subpat.Vars {
		v := rc.fetch(pv.Index, int(subpat.Level)-1)
		if slice, ok := v.([]any); ok {
			return len(slice)
		}
	}
	return 0
}

// fetch descends a pattern variable's bound tree from the root, one
// layer per ellipsis level already fixed by rc.indices, up to and
// including uptoLevel.
func (rc *realizeCtx) fetch(index uint16, uptoLevel int) any {
	if int(index) >= len(rc.mvec.Vars) {
		return nil
	}
	cur := rc.mvec.Vars[index].Root
	for k := 1; k <= uptoLevel; k++ {
		slice, ok := cur.([]any)
		if !ok || k >= len(rc.indices) {
			return nil
		}
		idx := rc.indices[k]
		if idx < 0 || idx >= len(slice) {
			return nil
		}
		cur = slice[idx]
	}
	return cur
}
