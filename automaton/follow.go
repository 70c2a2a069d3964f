package automaton

import (
	"github.com/nihei9/gentan/bitset"
	"github.com/nihei9/gentan/bnf"
)

// BuildFollow computes FOLLOW(N) for every nonterminal N: the set of
// terminals (plus, for a start nonterminal, the end-of-input sentinel)
// that can appear immediately after N in some derivation. It is the
// supplementary fixpoint SLR(1) table construction needs in place of
// LALR(1)'s per-item propagated lookaheads, grounded on the teacher's
// genFollowSet.
//
// starts should be the BNF's *un-augmented* start nonterminals — the
// ones the end-of-input sentinel seeds directly — mirroring the
// teacher checking `ntsym.isStart()` against the grammar's own start
// symbols rather than the augmented `$start(S)` wrapper.
func BuildFollow(b *bnf.BNF, first []*bitset.Set, nullable []bool, starts []bnf.NontermId) []*bitset.Set {
	universe := b.NumTerms() + 1

	follow := make([]*bitset.Set, len(b.Nonterms))
	for i := range follow {
		follow[i] = bitset.New(universe)
	}
	for _, s := range starts {
		follow[s].Insert(eofBit(b))
	}

	for {
		changed := false
		for _, p := range b.Prods {
			for i, sym := range p.Symbols {
				if sym.IsTerm() {
					continue
				}
				nt := sym.Nonterm()
				rest := p.Symbols[i+1:]
				if contributeFirstOfRest(follow[nt], first, nullable, rest) {
					changed = true
				}
				if allSymbolsNullable(nullable, rest) {
					if follow[nt].UnionWith(follow[p.NontermId]) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return follow
}

// contributeFirstOfRest unions FIRST(rest) into dest, copying
// terminal IDs one at a time rather than via bitset.Set.UnionWith
// since first[...] and dest are sized over different universes (FIRST
// sets never carry the end-of-input bit FOLLOW sets reserve).
func contributeFirstOfRest(dest *bitset.Set, first []*bitset.Set, nullable []bool, rest []bnf.Symbol) bool {
	changed := false
	for _, sym := range rest {
		if sym.IsTerm() {
			if !dest.Contains(int(sym.Term())) {
				dest.Insert(int(sym.Term()))
				changed = true
			}
			return changed
		}
		for _, t := range first[sym.Nonterm()].Iter() {
			if !dest.Contains(t) {
				dest.Insert(t)
				changed = true
			}
		}
		if !nullable[sym.Nonterm()] {
			return changed
		}
	}
	return changed
}

func allSymbolsNullable(nullable []bool, symbols []bnf.Symbol) bool {
	for _, s := range symbols {
		if s.IsTerm() || !nullable[s.Nonterm()] {
			return false
		}
	}
	return true
}
