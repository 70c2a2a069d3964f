package bnf

import "github.com/nihei9/gentan/bitset"

// Nullable computes, for every nonterminal, whether it derives ε. It
// is a least fixpoint over the productions: a nonterminal is nullable
// as soon as some production of its has an RHS that is either empty
// or made entirely of already-nullable nonterminals. A bare terminal
// anywhere in a production's RHS rules that production out for every
// iteration, since terminals are never nullable.
func Nullable(b *BNF) []bool {
	nullable := make([]bool, len(b.Nonterms))
	for {
		changed := false
		for _, p := range b.Prods {
			if nullable[p.NontermId] {
				continue
			}
			if allNullable(nullable, p.Symbols) {
				nullable[p.NontermId] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return nullable
}

func allNullable(nullable []bool, symbols []Symbol) bool {
	for _, s := range symbols {
		if s.IsTerm() || !nullable[s.Nonterm()] {
			return false
		}
	}
	return true
}

// First computes the FIRST set of every nonterminal as a fixpoint:
// repeatedly union each production's RHS-derived FIRST contribution
// into its LHS's running set until nothing changes. nullable must be
// the result of Nullable(b).
func First(b *BNF, nullable []bool) []*bitset.Set {
	n := b.NumTerms()
	first := make([]*bitset.Set, len(b.Nonterms))
	for i := range first {
		first[i] = bitset.New(n)
	}

	buf := bitset.New(n)
	for {
		changed := false
		for _, p := range b.Prods {
			buf.Clear()
			firstOfSymbols(buf, first, nullable, p.Symbols, nil)
			if first[p.NontermId].UnionWith(buf) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return first
}

// FirstOf computes FIRST(symbols), falling back to lookaheads if every
// symbol in symbols is nullable (symbols itself derives ε, so whatever
// can follow it is also in FIRST of the larger context). Used by LALR
// closure construction to compute the lookahead set contributed by a
// dotted item's trailing symbols plus the item's own lookahead.
func FirstOf(b *BNF, first []*bitset.Set, nullable []bool, symbols []Symbol, lookaheads *bitset.Set) *bitset.Set {
	result := bitset.New(b.NumTerms())
	firstOfSymbols(result, first, nullable, symbols, lookaheads)
	return result
}

func firstOfSymbols(result *bitset.Set, first []*bitset.Set, nullable []bool, symbols []Symbol, lookaheads *bitset.Set) {
	for _, sym := range symbols {
		if sym.IsTerm() {
			result.Insert(int(sym.Term()))
			return
		}
		result.UnionWith(first[sym.Nonterm()])
		if !nullable[sym.Nonterm()] {
			return
		}
	}
	if lookaheads != nil {
		result.UnionWith(lookaheads)
	}
}
