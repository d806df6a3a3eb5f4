package macro

import (
	"github.com/fen-lang/synrules/internal/diagnostics"
	"github.com/fen-lang/synrules/internal/sexpr"
)

// patternContext mirrors the teacher's per-compile state objects
// (macro.Registry's per-call bookkeeping) and Gauche's PatternContext in
// macro.c: one of these lives for the whole CompileSyntaxRules call, its
// per-rule fields reset before each rule.
type patternContext struct {
	name     string
	literals []*sexpr.Identifier
	defEnv   sexpr.Environment

	// per-rule state, reset at the top of CompileSyntaxRules's rule loop
	form   sexpr.Value // current rule's pattern or template, for errors
	pvars  []pvarBinding
	pvcnt  int
	maxlev int
	tvars  []*sexpr.Identifier // template-inserted free symbols, deduped by name

	err *diagnostics.Diagnostic // first compile error encountered, if any
}

type pvarBinding struct {
	name string
	ref  PVRef
}

// CompileSyntaxRules is the pattern compiler, C2. It implements spec.md
// §4.1 and entry point §6.2 compileSyntaxRules.
func CompileSyntaxRules(name string, literals []sexpr.Value, rules []sexpr.Value, defEnv sexpr.Environment) (*SyntaxRules, error) {
	if len(rules) < 1 {
		return nil, diagnostics.New(diagnostics.CodeMalformedMacro, name, "syntax-rules needs at least one rule")
	}

	lits, err := preprocessLiterals(literals, defEnv)
	if err != nil {
		return nil, err
	}

	ctx := &patternContext{name: name, literals: lits, defEnv: defEnv}
	sr := &SyntaxRules{Name: name, MaxNumPvars: 0}

	for i, ruleForm := range rules {
		rulePair, ok := ruleForm.(*sexpr.Pair)
		if !ok || sexpr.Length(rulePair) != 2 {
			return nil, diagnostics.New(diagnostics.CodeMalformedMacro, name,
				"rule %d is not a (pattern template) pair", i).WithParam("Form", ruleForm)
		}
		elems, _ := sexpr.ToSlice(rulePair)
		patternForm, templateForm := elems[0], elems[1]

		patHead, ok := patternForm.(*sexpr.Pair)
		if !ok {
			return nil, diagnostics.New(diagnostics.CodeMalformedMacro, name,
				"rule %d's pattern must be a list headed by the macro keyword", i).WithParam("Form", patternForm)
		}

		ctx.pvars = nil
		ctx.tvars = nil
		ctx.pvcnt = 0
		ctx.maxlev = 0

		pat := &SyntaxPattern{Level: 0, Repeat: false}
		ctx.form = patternForm
		// the pattern's own keyword position matches implicitly; compile
		// the cdr only (spec.md §4.1 "Per-rule compilation").
		pat.Pattern = ctx.compileRule1(patHead.Cdr, pat, true)

		tmpl := &SyntaxPattern{Level: 0, Repeat: false}
		ctx.form = templateForm
		tmpl.Pattern = ctx.compileRule1(templateForm, tmpl, false)

		rule := &SyntaxRule{
			Pattern:  pat.Pattern,
			Template: tmpl.Pattern,
			NumPvars: ctx.pvcnt,
			MaxLevel: ctx.maxlev,
		}
		sr.Rules = append(sr.Rules, rule)
		if rule.NumPvars > sr.MaxNumPvars {
			sr.MaxNumPvars = rule.NumPvars
		}
	}
	if ctx.err != nil {
		return nil, ctx.err
	}
	return sr, nil
}

// preprocessLiterals coerces each literals-list element to an identifier
// capturing defEnv (spec.md §4.1 "Literal preprocessing").
func preprocessLiterals(literals []sexpr.Value, defEnv sexpr.Environment) ([]*sexpr.Identifier, error) {
	out := make([]*sexpr.Identifier, 0, len(literals))
	for _, lit := range literals {
		switch l := lit.(type) {
		case *sexpr.Identifier:
			out = append(out, l)
		case *sexpr.Symbol:
			out = append(out, sexpr.NewIdentifier(l.Name, defEnv))
		default:
			return nil, diagnostics.New(diagnostics.CodeMalformedMacro, "",
				"literal list contains a non-symbol").WithParam("Offender", lit)
		}
	}
	return out, nil
}

func (ctx *patternContext) literalByName(name string) *sexpr.Identifier {
	for _, lit := range ctx.literals {
		if lit.Name == name {
			return lit
		}
	}
	return nil
}

func (ctx *patternContext) tvarByName(name string) *sexpr.Identifier {
	for _, id := range ctx.tvars {
		if id.Name == name {
			return id
		}
	}
	return nil
}

func (ctx *patternContext) pvarByName(name string) (PVRef, bool) {
	for _, pv := range ctx.pvars {
		if pv.name == name {
			return pv.ref, true
		}
	}
	return PVRef{}, false
}

// fail records the first compile error encountered; compileRule1 has no
// error return (it mirrors the source's recursive walk, which signals by
// raising), so errors are stashed on ctx and checked after the walk.
func (ctx *patternContext) fail(d *diagnostics.Diagnostic) any {
	if ctx.err == nil {
		ctx.err = d
	}
	return sexpr.Nil
}

// compileRule1 is the recursive walk shared by pattern and template
// compilation (spec.md §4.1 "Recursive walk"). patternp selects which
// side is being compiled.
func (ctx *patternContext) compileRule1(form sexpr.Value, enclosing *SyntaxPattern, patternp bool) any {
	if ctx.err != nil {
		return sexpr.Nil
	}

	switch f := form.(type) {
	case *sexpr.Pair:
		return ctx.compileList(f, enclosing, patternp)
	case *sexpr.Vector:
		return ctx.compileVector(f, enclosing, patternp)
	case *sexpr.Identifier:
		if patternp {
			// "this happens in a macro produced by another macro"
			// (spec.md §4.1): treat it as its underlying name.
			return ctx.compileRule1(sexpr.NewSymbol(f.Name), enclosing, patternp)
		}
		return f
	case *sexpr.Symbol:
		return ctx.compileSymbol(f, enclosing, patternp)
	default:
		if sexpr.IsNil(form) {
			return sexpr.Nil
		}
		// atoms (numbers, strings, booleans): returned unchanged
		// (spec.md §9 "the atom fall-through case... mandates
		// returning the form unchanged").
		return form
	}
}

func (ctx *patternContext) compileSymbol(sym *sexpr.Symbol, enclosing *SyntaxPattern, patternp bool) any {
	if sym.Name == sexpr.Ellipsis {
		return ctx.fail(diagnostics.New(diagnostics.CodeBadEllipsis, ctx.name,
			"\"...\" used as a symbol at top level").WithParam("Form", ctx.form))
	}
	if lit := ctx.literalByName(sym.Name); lit != nil {
		return lit
	}
	if patternp {
		if _, dup := ctx.pvarByName(sym.Name); dup {
			return ctx.fail(diagnostics.New(diagnostics.CodeDuplicatePvar, ctx.name,
				"pattern variable %q appears more than once", sym.Name).WithParam("Form", ctx.form))
		}
		pv := PVRef{Level: enclosing.Level, Index: uint16(ctx.pvcnt)}
		ctx.pvcnt++
		ctx.pvars = append(ctx.pvars, pvarBinding{name: sym.Name, ref: pv})
		enclosing.addVar(pv)
		return pv
	}

	pv, found := ctx.pvarByName(sym.Name)
	if found {
		if pv.Level != enclosing.Level {
			return ctx.fail(diagnostics.New(diagnostics.CodeLevelMismatch, ctx.name,
				"pattern variable %q used at the wrong ellipsis depth", sym.Name).WithParam("Form", ctx.form))
		}
		enclosing.addVar(pv)
		return pv
	}
	if id := ctx.tvarByName(sym.Name); id != nil {
		return id
	}
	id := sexpr.NewIdentifier(sym.Name, ctx.defEnv)
	ctx.tvars = append(ctx.tvars, id)
	return id
}

func (ctx *patternContext) compileList(form *sexpr.Pair, enclosing *SyntaxPattern, patternp bool) any {
	var head *PairNode
	var tail *PairNode
	appendNode := func(v any) {
		n := &PairNode{Car: v, Cdr: sexpr.Nil}
		if head == nil {
			head, tail = n, n
		} else {
			tail.Cdr = n
			tail = n
		}
	}

	cur := sexpr.Value(form)
	for {
		p, ok := cur.(*sexpr.Pair)
		if !ok {
			break
		}
		if nextPair, ok := p.Cdr.(*sexpr.Pair); ok && sexpr.IsEllipsis(nextPair.Car) {
			count := 1
			rest := nextPair.Cdr
			for {
				rp, ok := rest.(*sexpr.Pair)
				if !ok || !sexpr.IsEllipsis(rp.Car) {
					break
				}
				count++
				rest = rp.Cdr
			}
			if !sexpr.IsNil(rest) {
				return ctx.fail(diagnostics.New(diagnostics.CodeBadEllipsis, ctx.name,
					"form after \"...\" must be empty").WithParam("Form", ctx.form))
			}
			for i := 0; i < count; i++ {
				if ctx.maxlev <= int(enclosing.Level)+i {
					ctx.maxlev++
				}
			}
			nspat := ctx.buildEllipsisChain(p.Car, enclosing.Level, count, patternp)
			appendNode(nspat)
			for _, pv := range nspat.Vars {
				enclosing.addVar(pv)
			}
			if head == nil {
				return sexpr.Nil
			}
			return head
		}
		appendNode(ctx.compileRule1(p.Car, enclosing, patternp))
		cur = p.Cdr
	}
	if !sexpr.IsNil(cur) {
		// improper tail
		tailCompiled := ctx.compileRule1(cur, enclosing, patternp)
		if tail == nil {
			return tailCompiled
		}
		tail.Cdr = tailCompiled
	}
	if head == nil {
		return sexpr.Nil
	}
	return head
}

func (ctx *patternContext) compileVector(form *sexpr.Vector, enclosing *SyntaxPattern, patternp bool) any {
	n := len(form.Elems)
	vp := &VectorPattern{}
	for i := 0; i < n; i++ {
		if !sexpr.IsEllipsis(form.Elems[i]) && i+1 < n && sexpr.IsEllipsis(form.Elems[i+1]) {
			count := 0
			j := i + 1
			for j < n && sexpr.IsEllipsis(form.Elems[j]) {
				count++
				j++
			}
			if j != n {
				return ctx.fail(diagnostics.New(diagnostics.CodeBadEllipsis, ctx.name,
					"only a single trailing \"...\" is allowed in a vector pattern").WithParam("Form", ctx.form))
			}
			for k := 0; k < count; k++ {
				if ctx.maxlev <= int(enclosing.Level)+k {
					ctx.maxlev++
				}
			}
			nspat := ctx.buildEllipsisChain(form.Elems[i], enclosing.Level, count, patternp)
			vp.Ellipsis = nspat
			for _, pv := range nspat.Vars {
				enclosing.addVar(pv)
			}
			break
		}
		if sexpr.IsEllipsis(form.Elems[i]) {
			return ctx.fail(diagnostics.New(diagnostics.CodeBadEllipsis, ctx.name,
				"\"...\" must immediately follow the element it repeats").WithParam("Form", ctx.form))
		}
		vp.Elems = append(vp.Elems, ctx.compileRule1(form.Elems[i], enclosing, patternp))
	}
	return vp
}

// buildEllipsisChain compiles car, the form immediately preceding a run
// of count "..." markers, into a chain of count nested repeating
// SyntaxPatterns: the innermost wraps the compiled form at
// baseLevel+count (where its pattern variables must actually live); each
// enclosing level above it is marked Flatten, splicing its children
// together instead of nesting one list layer per level (spec.md §9's
// "vector-ellipsis templates... implemented symmetric to list vectors",
// generalized here to any form followed by more than one ellipsis).
func (ctx *patternContext) buildEllipsisChain(car sexpr.Value, baseLevel uint16, count int, patternp bool) *SyntaxPattern {
	inner := &SyntaxPattern{Level: baseLevel + uint16(count), Repeat: true}
	inner.Pattern = ctx.compileRule1(car, inner, patternp)
	node := inner
	for i := count - 1; i >= 1; i-- {
		wrapper := &SyntaxPattern{Level: baseLevel + uint16(i), Repeat: true, Flatten: true}
		wrapper.Pattern = node
		for _, pv := range node.Vars {
			wrapper.addVar(pv)
		}
		node = wrapper
	}
	return node
}
