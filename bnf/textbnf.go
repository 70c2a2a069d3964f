package bnf

import (
	"strings"
)

// ParseText builds a BNF directly from the compact textual format used
// by this package's and automaton's tests:
//
//	LHS -> SYM SYM SYM
//	LHS* -> SYM
//
// One production per line; a `*` suffix on a LHS marks it a start
// nonterminal (and is stripped from its name). Blank lines are ignored.
// A symbol is a nonterminal reference if some line defines it as an
// LHS, otherwise a terminal. Productions are grouped by LHS, in the
// order each LHS first appears, and terminals are numbered in the order
// they first appear in that grouped walk. This mirrors the original Rust test
// helper (bnf.rs's `Bnf::parse`, a `#[cfg(test)]`-only function) line
// for line: one pass collects every LHS name before any symbol is
// resolved, so a production may reference a nonterminal declared on a
// later line.
//
// ParseText never stamps precedence/associativity or synthesis actions
// — those are exercised directly through Lower's tests instead, where
// the grammar DSL produces them. It does not call Augment; tests that
// need an augmented automaton call that separately.
func ParseText(input string) *BNF {
	var lhsOrder []string
	startSet := map[string]bool{}
	rulesRHS := map[string][][]string{}

	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "->", 2)
		lhs := strings.TrimSpace(parts[0])
		rhsText := strings.TrimSpace(parts[1])

		if strings.HasSuffix(lhs, "*") {
			lhs = strings.TrimSuffix(lhs, "*")
			startSet[lhs] = true
		}

		if _, seen := rulesRHS[lhs]; !seen {
			lhsOrder = append(lhsOrder, lhs)
		}
		var symbols []string
		if rhsText != "" {
			symbols = strings.Fields(rhsText)
		}
		rulesRHS[lhs] = append(rulesRHS[lhs], symbols)
	}

	ntIndex := make(map[string]NontermId, len(lhsOrder))
	for i, name := range lhsOrder {
		ntIndex[name] = NontermId(i)
	}

	tokenIndex := map[string]TermId{}
	var tokenNames []string
	var nonterms []Nonterm
	var prods []Production

	for _, name := range lhsOrder {
		id := NontermId(len(nonterms))
		start := len(prods)
		for _, rhs := range rulesRHS[name] {
			symbols := make([]Symbol, len(rhs))
			for i, tok := range rhs {
				if ntID, ok := ntIndex[tok]; ok {
					symbols[i] = NontermSymbol(ntID)
					continue
				}
				tid, ok := tokenIndex[tok]
				if !ok {
					tid = TermId(len(tokenNames))
					tokenIndex[tok] = tid
					tokenNames = append(tokenNames, tok)
				}
				symbols[i] = TermSymbol(tid)
			}
			prods = append(prods, Production{NontermId: id, Symbols: symbols})
		}
		nonterms = append(nonterms, Nonterm{Name: name, ProdStart: start, ProdEnd: len(prods)})
	}

	var startNames []string
	starts := map[string]NontermId{}
	for _, name := range lhsOrder {
		if startSet[name] {
			startNames = append(startNames, name)
			starts[name] = ntIndex[name]
		}
	}

	return &BNF{
		TokenNames: tokenNames,
		StartNames: startNames,
		Nonterms:   nonterms,
		Prods:      prods,
		tokenIndex: tokenIndex,
		starts:     starts,
	}
}
