package macro

import (
	"github.com/fen-lang/synrules/internal/diagnostics"
	"github.com/fen-lang/synrules/internal/sexpr"
)

// Transformer is C5's facade: anything that can take a use-site form and
// produce its expansion (spec.md §5 "Transformer facade"). Both
// syntax-rules macros and host-registered procedural macros implement
// it, mirroring how the teacher's Registry treats every Macro
// uniformly regardless of how its body is produced.
type Transformer interface {
	Transform(use sexpr.Value, useEnv sexpr.Environment) (sexpr.Value, error)
}

// SyntaxRulesTransformer wraps a compiled SyntaxRules set (spec.md §5
// makeSyntaxRulesTransformer): it tries each rule's pattern against the
// use-site form in order and transcribes the template of the first
// match.
type SyntaxRulesTransformer struct {
	Rules  *SyntaxRules
	DefEnv sexpr.Environment
}

// MakeSyntaxRulesTransformer compiles a syntax-rules definition and
// wraps it as a Transformer, corresponding to spec.md §5's
// makeSyntaxRulesTransformer.
func MakeSyntaxRulesTransformer(name string, literals []sexpr.Value, rules []sexpr.Value, defEnv sexpr.Environment) (*SyntaxRulesTransformer, error) {
	compiled, err := CompileSyntaxRules(name, literals, rules, defEnv)
	if err != nil {
		return nil, err
	}
	return &SyntaxRulesTransformer{Rules: compiled, DefEnv: defEnv}, nil
}

// Transform tries every compiled rule against use in order, expanding
// the first one whose pattern matches (spec.md §5 "Rule selection").
func (t *SyntaxRulesTransformer) Transform(use sexpr.Value, useEnv sexpr.Environment) (sexpr.Value, error) {
	rest, ok := restOfUse(use)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeMalformedUse, t.Rules.Name,
			"macro use is not a list").WithParam("Form", use)
	}

	mvec := NewMatchVec(t.Rules.MaxNumPvars)
	for _, rule := range t.Rules.Rules {
		mvec.Reset(t.Rules.MaxNumPvars)
		if Match(rest, rule.Pattern, useEnv, mvec) {
			return Realize(rule.Template, rule.MaxLevel, mvec), nil
		}
	}
	return nil, diagnostics.New(diagnostics.CodeMalformedUse, t.Rules.Name,
		"no rule matches this use").WithParam("Form", use)
}

// restOfUse strips the macro keyword from a use-site form, mirroring
// CompileSyntaxRules's treatment of the pattern's own head.
func restOfUse(use sexpr.Value) (sexpr.Value, bool) {
	p, ok := use.(*sexpr.Pair)
	if !ok {
		return nil, false
	}
	return p.Cdr, true
}

// ProcTransformer adapts a host-supplied Go function as a Transformer,
// grounding the teacher's notion of macros whose body isn't itself
// compiled syntax-rules (spec.md §5 makeMacroTransformer — "traditional",
// i.e. procedural, macros).
type ProcTransformer struct {
	Proc func(use sexpr.Value, useEnv sexpr.Environment) (sexpr.Value, error)
}

// MakeMacroTransformer wraps a procedural expander as a Transformer
// (spec.md §5 makeMacroTransformer).
func MakeMacroTransformer(proc func(use sexpr.Value, useEnv sexpr.Environment) (sexpr.Value, error)) *ProcTransformer {
	return &ProcTransformer{Proc: proc}
}

func (t *ProcTransformer) Transform(use sexpr.Value, useEnv sexpr.Environment) (sexpr.Value, error) {
	return t.Proc(use, useEnv)
}

// reservedNames are identifiers a macro definition may not rebind,
// mirroring the teacher's Registry.validateMacro reserved-word list
// (internal/transpiler/macro/registry.go), adapted to this core's own
// special forms.
var reservedNames = map[string]bool{
	"define":       true,
	"lambda":       true,
	"if":           true,
	"set!":         true,
	"quote":        true,
	"syntax-rules": true,
	"...":          true,
	"_":            true,
}

// Config controls the Definitions registry's validation and tracing
// behavior, mirroring the teacher's macro.Config (CoreMacroPath /
// StdlibPath / EnableValidation) trimmed to what this core needs.
type Config struct {
	// EnableValidation gates reserved-word and redefinition checks on
	// Define (spec.md §6 "reserved-word/redefinition guards").
	EnableValidation bool

	// Trace gates the debug logging described in debug.go (spec.md §9
	// "debug traces... gated behind a flag").
	Trace bool
}

// Definitions is the macro registry: one Transformer per bound name,
// scoped the way the teacher's Registry scopes macros, generalized from
// its single flat map[string]*Macro to hold any Transformer (spec.md §6
// "Definitions").
type Definitions struct {
	transformers map[string]Transformer
	config       Config
}

// NewDefinitions constructs an empty registry.
func NewDefinitions(config Config) *Definitions {
	return &Definitions{transformers: make(map[string]Transformer), config: config}
}

// Define binds name to t, running the reserved-word and
// already-defined checks validateMacro performs when EnableValidation is
// set.
func (d *Definitions) Define(name string, t Transformer) error {
	if d.config.EnableValidation {
		if name == "" {
			return diagnostics.New(diagnostics.CodeMalformedMacro, name, "macro name cannot be empty")
		}
		if reservedNames[name] {
			return diagnostics.New(diagnostics.CodeMalformedMacro, name, "%q is a reserved name", name)
		}
		if _, exists := d.transformers[name]; exists {
			return diagnostics.New(diagnostics.CodeMalformedMacro, name, "macro %q is already defined", name)
		}
	}
	d.transformers[name] = t
	return nil
}

// Lookup returns the Transformer bound to name, if any.
func (d *Definitions) Lookup(name string) (Transformer, bool) {
	t, ok := d.transformers[name]
	return t, ok
}

// Has reports whether name is bound to a macro.
func (d *Definitions) Has(name string) bool {
	_, ok := d.transformers[name]
	return ok
}

// Expand looks up the macro named by use's head symbol and transforms
// use with it. A use that is not a list, has no symbol or identifier head,
// or names no defined macro yields a CodeMalformedUse diagnostic; a
// transformer's own error is returned as is.
func (d *Definitions) Expand(use sexpr.Value, useEnv sexpr.Environment) (sexpr.Value, error) {
	p, ok := use.(*sexpr.Pair)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeMalformedUse, "", "macro use is not a list").WithParam("Form", use)
	}
	keyword, ok := headName(p.Car)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeMalformedUse, "", "macro use's head is not an identifier").WithParam("Form", use)
	}
	t, ok := d.Lookup(keyword)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeMalformedUse, keyword, "no macro named %q is defined", keyword)
	}
	debugf(d.config.Trace, "expand %s: %s", keyword, use)
	return t.Transform(use, useEnv)
}

func headName(v sexpr.Value) (string, bool) {
	switch h := v.(type) {
	case *sexpr.Symbol:
		return h.Name, true
	case *sexpr.Identifier:
		return h.Name, true
	default:
		return "", false
	}
}
