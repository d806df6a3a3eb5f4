package macro

import (
	"testing"

	"github.com/fen-lang/synrules/internal/env"
	"github.com/fen-lang/synrules/internal/reader"
	"github.com/fen-lang/synrules/internal/sexpr"
)

func mustRead(t *testing.T, src string) sexpr.Value {
	t.Helper()
	v, err := reader.ReadOne(src)
	if err != nil {
		t.Fatalf("reader.ReadOne(%q): %v", src, err)
	}
	return v
}

// compile parses literalsSrc (a list form, e.g. "(else)" or "()") and
// rulesSrc (a list of (pattern template) pairs, e.g. "(((_ x) x))"),
// then compiles them against a fresh top-level definition environment.
func compile(t *testing.T, name, literalsSrc, rulesSrc string) *SyntaxRules {
	t.Helper()
	litForms, ok := sexpr.ToSlice(mustRead(t, literalsSrc))
	if !ok {
		t.Fatalf("literals %q did not parse as a proper list", literalsSrc)
	}
	ruleForms, ok := sexpr.ToSlice(mustRead(t, rulesSrc))
	if !ok {
		t.Fatalf("rules %q did not parse as a proper list", rulesSrc)
	}
	sr, err := CompileSyntaxRules(name, litForms, ruleForms, env.New())
	if err != nil {
		t.Fatalf("CompileSyntaxRules: %v", err)
	}
	return sr
}

// expand matches useSrc's cdr against each of sr's rules in order and
// realizes the first match's template.
func expand(t *testing.T, sr *SyntaxRules, useSrc string) sexpr.Value {
	t.Helper()
	use := mustRead(t, useSrc)
	p, ok := use.(*sexpr.Pair)
	if !ok {
		t.Fatalf("use form %q is not a list", useSrc)
	}
	mvec := NewMatchVec(sr.MaxNumPvars)
	for _, rule := range sr.Rules {
		mvec.Reset(sr.MaxNumPvars)
		if Match(p.Cdr, rule.Pattern, env.New(), mvec) {
			return Realize(rule.Template, rule.MaxLevel, mvec)
		}
	}
	t.Fatalf("no rule of %q matched %q", sr.Name, useSrc)
	return nil
}

func TestScenario_Identity(t *testing.T) {
	sr := compile(t, "m", "()", "(((_ x) x))")
	got := expand(t, sr, "(m 42)")
	if got.String() != "42" {
		t.Errorf("got %s, want 42", got.String())
	}
}

func TestScenario_Swap(t *testing.T) {
	sr := compile(t, "m", "()", "(((_ a b) (b a)))")
	got := expand(t, sr, "(m 1 2)")
	if got.String() != "(2 1)" {
		t.Errorf("got %s, want (2 1)", got.String())
	}
}

func TestScenario_FlatEllipsis(t *testing.T) {
	sr := compile(t, "m", "()", "(((_ x ...) (list x ...)))")

	if got := expand(t, sr, "(m 1 2 3)"); got.String() != "(list 1 2 3)" {
		t.Errorf("got %s, want (list 1 2 3)", got.String())
	}
	if got := expand(t, sr, "(m)"); got.String() != "(list)" {
		t.Errorf("got %s, want (list)", got.String())
	}
}

func TestScenario_NestedEllipsis(t *testing.T) {
	sr := compile(t, "m", "()", "(((_ (a b ...) ...) ((a ...) (b ... ...))))")
	got := expand(t, sr, "(m (1 2 3) (4 5) (6))")
	want := "((1 4 6) (2 3 5))"
	if got.String() != want {
		t.Errorf("got %s, want %s", got.String(), want)
	}
}

func TestScenario_LiteralCond(t *testing.T) {
	sr := compile(t, "cond2", "(else)",
		"(((_ else e) e) ((_ x e) (if x e)))")

	if got := expand(t, sr, "(cond2 else 9)"); got.String() != "9" {
		t.Errorf("got %s, want 9", got.String())
	}
	if got := expand(t, sr, "(cond2 p 9)"); got.String() != "(if p 9)" {
		t.Errorf("got %s, want (if p 9)", got.String())
	}
}

func TestScenario_Hygiene(t *testing.T) {
	defEnv := env.New()
	defEnv.Define("tmp", "the-definition-site-tmp")

	lit, _ := sexpr.ToSlice(mustRead(t, "()"))
	rules, _ := sexpr.ToSlice(mustRead(t, "(((_ e) (let ((tmp 1)) e)))"))
	sr, err := CompileSyntaxRules("m", lit, rules, defEnv)
	if err != nil {
		t.Fatalf("CompileSyntaxRules: %v", err)
	}

	useEnv := env.New()
	useEnv.Define("tmp", "the-use-site-tmp")
	use := mustRead(t, "(m y)")
	p := use.(*sexpr.Pair)
	mvec := NewMatchVec(sr.MaxNumPvars)
	if !Match(p.Cdr, sr.Rules[0].Pattern, useEnv, mvec) {
		t.Fatal("pattern should match (y)")
	}
	result := Realize(sr.Rules[0].Template, sr.Rules[0].MaxLevel, mvec)

	// (let ((tmp 1)) y): the inserted tmp must be an Identifier capturing
	// defEnv, never the bare symbol "tmp" resolved at the use site.
	elems, ok := sexpr.ToSlice(result)
	if !ok || len(elems) != 3 {
		t.Fatalf("unexpected shape: %s", result.String())
	}
	bindings, _ := sexpr.ToSlice(elems[1])
	binding, _ := sexpr.ToSlice(bindings[0])
	tmpID, ok := binding[0].(*sexpr.Identifier)
	if !ok {
		t.Fatalf("inserted tmp should compile to an Identifier, got %T", binding[0])
	}
	if tmpID.Env != sexpr.Environment(defEnv) {
		t.Error("inserted tmp's captured environment should be the macro's defEnv")
	}
	// the use-site argument y must pass through as-is, not as an Identifier.
	if _, isSym := elems[2].(*sexpr.Symbol); !isSym {
		t.Errorf("use-site argument should remain a bare symbol, got %T", elems[2])
	}
}

func TestBoundary_EmptyEllipsis(t *testing.T) {
	sr := compile(t, "m", "()", "(((_ x ...) (list x ...)))")
	got := expand(t, sr, "(m)")
	if got.String() != "(list)" {
		t.Errorf("got %s, want (list)", got.String())
	}
}

func TestBoundary_ImproperListPattern(t *testing.T) {
	sr := compile(t, "m", "()", "(((_ a . b) (list a b)))")
	got := expand(t, sr, "(m 1 . 2)")
	want := "(list 1 2)"
	if got.String() != want {
		t.Errorf("got %s, want %s", got.String(), want)
	}
}

func TestBoundary_VectorEllipsis(t *testing.T) {
	sr := compile(t, "m", "()", "(((_ #(x ...)) (list x ...)))")

	if got := expand(t, sr, "(m #(1 2 3))"); got.String() != "(list 1 2 3)" {
		t.Errorf("got %s, want (list 1 2 3)", got.String())
	}
	if got := expand(t, sr, "(m #())"); got.String() != "(list)" {
		t.Errorf("got %s, want (list)", got.String())
	}
}

func TestMatch_LiteralDoesNotBindPvar(t *testing.T) {
	sr := compile(t, "cond3", "(else)", "(((_ else) (quote matched-else)) ((_ x) (quote fallthrough)))")
	got := expand(t, sr, "(cond3 else)")
	if got.String() != "(quote matched-else)" {
		t.Errorf("got %s, want (quote matched-else)", got.String())
	}
	got2 := expand(t, sr, "(cond3 something)")
	if got2.String() != "(quote fallthrough)" {
		t.Errorf("got %s, want (quote fallthrough)", got2.String())
	}
}
