package diagnostics

// Code is a stable identifier for a diagnostic, following the same
// bracketed-code convention as the teacher's diagnostics package
// (e.g. "[MACRO-RESERVED]").
type Code string

// The five error kinds spec.md §7 names.
const (
	// CodeMalformedMacro: rules list empty, a rule isn't a 2-list, the
	// pattern's head isn't a pair, or the literals list is malformed.
	CodeMalformedMacro Code = "MALFORMED-MACRO"

	// CodeBadEllipsis: "..." appears other than after a single form,
	// with trailing garbage, or used as a symbol at top level.
	CodeBadEllipsis Code = "BAD-ELLIPSIS"

	// CodeDuplicatePvar: the same pattern variable name appears twice in
	// one pattern.
	CodeDuplicatePvar Code = "DUPLICATE-PVAR"

	// CodeLevelMismatch: a template references a pattern variable at the
	// wrong ellipsis depth.
	CodeLevelMismatch Code = "LEVEL-MISMATCH"

	// CodeMalformedUse: at expansion time, no rule matches the use.
	CodeMalformedUse Code = "MALFORMED-USE"
)
