// Package automaton builds the LR(0)/LALR(1) (and, as a supplementary
// alternative, SLR(1)) canonical collection over a lowered bnf.BNF,
// and constructs the resulting action/goto tables, resolving
// shift/reduce and reduce/reduce conflicts by production precedence
// and associativity where possible.
package automaton

import "fmt"

// InternalError reports an automaton-construction failure that should
// be unreachable given a BNF produced by bnf.Lower + bnf.Augment: a
// goto target that doesn't exist, an item that doesn't belong to the
// state it was looked up in, or a start nonterminal that was never
// augmented.
type InternalError struct {
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("automaton: internal error: %s", e.Detail)
}

func internalErrorf(format string, args ...interface{}) error {
	return &InternalError{Detail: fmt.Sprintf(format, args...)}
}
