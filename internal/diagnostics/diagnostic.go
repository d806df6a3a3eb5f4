// Package diagnostics is the single error-signalling channel spec.md §6.1
// asks the core's external collaborators to provide: a typed failure
// carrying one of the Code constants, rendered the way the teacher's own
// internal/transpiler/diagnostics package renders compiler errors.
package diagnostics

import (
	"fmt"
	"strings"
)

// param is one named detail attached to a Diagnostic, kept in a slice
// rather than a map so Error() renders deterministically.
type param struct {
	name  string
	value any
}

// Diagnostic is a structured macro-core error.
type Diagnostic struct {
	Code    Code
	Macro   string // macro name, for context (spec.md §4.1 "name")
	Message string
	params  []param
}

// New constructs a Diagnostic with a formatted message.
func New(code Code, macro, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Macro:   macro,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithParam attaches a named detail (e.g. "Form", "Pattern") rendered
// after the message, mirroring the teacher's Expected/Got/Offender
// convention.
func (d *Diagnostic) WithParam(name string, value any) *Diagnostic {
	d.params = append(d.params, param{name, value})
	return d
}

// Error implements error. Format: "[CODE] in macro NAME: message (Param:
// value) (Param: value) ...", one parenthesized group per param, matching
// the teacher's bracketed-code style.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(d.Code))
	b.WriteString("]")
	if d.Macro != "" {
		b.WriteString(" in macro ")
		b.WriteString(d.Macro)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	for _, p := range d.params {
		fmt.Fprintf(&b, " (%s: %v)", p.name, p.value)
	}
	return b.String()
}

// RenderBody renders the diagnostic without a location header: the
// bracketed code, the message, and then one "Name: value" line per
// attached param. Mirrors the teacher's
// internal/transpiler/diagnostics.Diagnostic.RenderBody (its fixed
// Expected/Got/Offender lines), generalized here to this package's
// free-form WithParam names since this Diagnostic has no Params map to
// special-case.
func (d *Diagnostic) RenderBody() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(d.Code))
	b.WriteString("]: ")
	b.WriteString(d.Message)
	for _, p := range d.params {
		fmt.Fprintf(&b, "\n%s: %v", p.name, p.value)
	}
	return b.String()
}

// RenderText renders the diagnostic the way the teacher's compiler
// reports errors to a terminal: a location-style header followed by the
// body. This package has no file/line/column to report (spec.md places
// source-location tracking out of scope), so the header is the macro
// name instead, mirroring the teacher's
// internal/transpiler/diagnostics.Diagnostic.RenderText shape with that
// one field substituted.
func (d *Diagnostic) RenderText() string {
	if d.Macro == "" {
		return d.RenderBody()
	}
	return "macro " + d.Macro + ": " + d.RenderBody()
}
