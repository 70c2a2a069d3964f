package automaton

import (
	"github.com/nihei9/gentan/bitset"
	"github.com/nihei9/gentan/bnf"
)

// edge is a propagate edge discovered while closing over a kernel item
// with the marker lookahead: lookaheads flow from src to dest during
// the fixpoint in propagateLookahead.
type edge struct {
	srcState, destState *State
	srcItem, destItem   Item
}

// BuildLALR1 computes LALR(1) lookahead sets over an already-built
// LR(0) automaton, mutating its states' lookahead maps in place. It
// implements the seed-then-propagate algorithm of spec.md §4.F:
//
//  1. Seed: the initial state's single kernel item gets the
//     end-of-input sentinel as its only lookahead.
//  2. Discover: for each kernel item I in each state S, close over I
//     using a reserved marker bit as a stand-in lookahead. Wherever the
//     marker survives first_of(β, L) into a derived item, that's a
//     propagate edge; wherever first_of(β, L) contributes real
//     terminals, those are added to the destination's lookahead
//     immediately (spontaneous).
//  3. Propagate: repeatedly union lookaheads along the recorded
//     propagate edges until nothing changes.
//
// This mirrors the teacher's genLALR1Automaton/genLALR1Closure/
// propagateLookAhead, with the teacher's per-item propagation boolean
// flag replaced by a literal reserved bit in the same bitset.Set that
// carries real lookahead terminals — spec.md §9 calls this sentinel
// value implementation-defined, and a dedicated bit just past the
// end-of-input bit (itself one past the real terminal range) is the
// natural encoding given bitset.Set already tracks a fixed universe size.
func BuildLALR1(b *bnf.BNF, a *Automaton, first []*bitset.Set, nullable []bool) error {
	n := lookaheadUniverse(b)
	markerBit := eofBit(b) + 1

	ensureLA := func(s *State, it Item) *bitset.Set {
		set, ok := s.lookahead[it]
		if !ok {
			set = bitset.New(n)
			s.lookahead[it] = set
		}
		return set
	}

	initial := a.States[a.InitialState]
	ensureLA(initial, initial.Kernel[0]).Insert(eofBit(b))

	var edges []edge
	for _, s := range a.byNum {
		for _, kItem := range s.Kernel {
			seed := bitset.New(n)
			seed.Insert(markerBit)
			closure := closeWithLookahead(b, first, nullable, kItem, seed, n)

			for item, la := range closure {
				if item == kItem && item.Reducible(b) {
					continue
				}
				hasMarker := la.Contains(markerBit)
				real := la.Clone()
				real.Remove(markerBit)

				var destState *State
				var destItem Item
				if item.Reducible(b) {
					if !item.IsEmptyProd(b) {
						return internalErrorf("non-seed reducible item %+v with non-empty production reached during LALR closure", item)
					}
					destState = s
					destItem = item
				} else {
					sym, _ := item.DottedSymbol(b)
					nextID, ok := s.Next[sym]
					if !ok {
						return internalErrorf("state %s has no transition on symbol reached while closing item %+v", s.ID, item)
					}
					destState = a.States[nextID]
					destItem = item.Advance()
				}

				if !real.IsEmpty() {
					ensureLA(destState, destItem).UnionWith(real)
				}
				if hasMarker {
					edges = append(edges, edge{srcState: s, srcItem: kItem, destState: destState, destItem: destItem})
				}
			}
		}
	}

	for {
		changed := false
		for _, e := range edges {
			src, ok := e.srcState.lookahead[e.srcItem]
			if !ok {
				continue
			}
			if ensureLA(e.destState, e.destItem).UnionWith(src) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return nil
}

// closeWithLookahead computes, for a single kernel item seeded with
// lookahead la, the full LR(0) closure paired with each reached item's
// accumulated lookahead contribution (including la itself on the seed
// item). It is a bitset-union fixpoint: an item is only re-expanded
// when its accumulated lookahead actually grows, which is both the
// termination condition and the dedup mechanism the teacher's
// knownItems/knownItemsProp maps provide separately.
func closeWithLookahead(b *bnf.BNF, first []*bitset.Set, nullable []bool, start Item, la *bitset.Set, universe int) map[Item]*bitset.Set {
	acc := map[Item]*bitset.Set{start: la.Clone()}
	queue := []Item{start}
	for len(queue) > 0 {
		var next []Item
		for _, it := range queue {
			sym, ok := it.DottedSymbol(b)
			if !ok || sym.IsTerm() {
				continue
			}
			rest := b.Prods[it.Prod].Symbols[it.Dot+1:]
			itLA := acc[it]
			nt := b.Nonterms[sym.Nonterm()]
			for pi := nt.ProdStart; pi < nt.ProdEnd; pi++ {
				ni := Item{Prod: pi, Dot: 0}
				contrib := firstOfSized(first, nullable, rest, itLA, universe)
				cur, exists := acc[ni]
				if !exists {
					cur = bitset.New(universe)
					acc[ni] = cur
				}
				if cur.UnionWith(contrib) || !exists {
					next = append(next, ni)
				}
			}
		}
		queue = dedupQueue(next)
	}
	return acc
}

// firstOfSized is bnf.FirstOf's rule — FIRST(symbols), falling back to
// lookaheads once symbols is exhausted while still nullable — built
// against an explicit universe rather than bnf.FirstOf's own
// NumTerms()-only sizing. lookaheads here carries the reserved EOF and
// marker bits bnf's FIRST sets never do, so the two can't share a
// bitset.Set size; copying FIRST's bits across by index keeps every
// union safe regardless of how NumTerms() happens to align to 64-bit
// block boundaries.
func firstOfSized(first []*bitset.Set, nullable []bool, symbols []bnf.Symbol, lookaheads *bitset.Set, universe int) *bitset.Set {
	result := bitset.New(universe)
	for _, sym := range symbols {
		if sym.IsTerm() {
			result.Insert(int(sym.Term()))
			return result
		}
		for _, t := range first[sym.Nonterm()].Iter() {
			result.Insert(t)
		}
		if !nullable[sym.Nonterm()] {
			return result
		}
	}
	if lookaheads != nil {
		result.UnionWith(lookaheads)
	}
	return result
}

func dedupQueue(items []Item) []Item {
	seen := make(map[Item]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// lookaheadUniverse returns the bitset size needed to hold every real
// terminal plus the end-of-input sentinel plus the marker bit.
func lookaheadUniverse(b *bnf.BNF) int {
	return b.NumTerms() + 2
}

// eofBit is the reserved bit for the end-of-input sentinel: one past
// the real terminal range, so it never collides with a declared token.
func eofBit(b *bnf.BNF) int {
	return b.NumTerms()
}
