package macro

import "github.com/fen-lang/synrules/internal/sexpr"

// ExpandOnce performs a single macro-expansion step without recursing
// into the result, the supplemental feature spec.md's distillation
// dropped from the original source's `%macro-expand` special form
// (original_source/src/macro.c's compile_macro_expand). It is meant for
// debugging and tooling (the expand subcommand in cmd/synexpand uses it
// to show one rewrite at a time), not for the compiler's own expansion
// loop, which calls Definitions.Expand directly and drives recursion
// itself.
//
// If form is not a pair, or its head doesn't name a registered macro,
// ExpandOnce returns form unchanged — exactly mirroring the source's
// "not a macro use" fallthrough, which returns the expression verbatim
// rather than erroring.
func ExpandOnce(d *Definitions, form sexpr.Value, useEnv sexpr.Environment) (sexpr.Value, error) {
	p, ok := form.(*sexpr.Pair)
	if !ok {
		return form, nil
	}
	keyword, ok := headName(p.Car)
	if !ok {
		return form, nil
	}
	if !d.Has(keyword) {
		return form, nil
	}
	return d.Expand(form, useEnv)
}
