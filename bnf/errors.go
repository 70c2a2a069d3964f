package bnf

import "fmt"

// InternalError reports a lowering failure that should be unreachable
// given a Grammar that has already passed Validate: an unresolved
// symbol name, or a start symbol that somehow resolved to a terminal.
// Kept distinct from grammar.ValidationError because it signals a bug
// in the lowering pass itself, not a malformed input grammar.
type InternalError struct {
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("bnf: internal error: %s", e.Detail)
}

func internalErrorf(format string, args ...interface{}) error {
	return &InternalError{Detail: fmt.Sprintf(format, args...)}
}
