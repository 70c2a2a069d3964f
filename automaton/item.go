package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nihei9/gentan/bitset"
	"github.com/nihei9/gentan/bnf"
)

// Item is an LR(0) item: a production index and a dot position. Unlike
// the teacher's lrItem, whose identity is a sha256 hash over a
// production's own hash-based id, an Item's identity is just its two
// dense integers — production and nonterm identity are already stable
// dense indices coming out of the bnf package, so there is nothing
// left to hash. Item is comparable and usable directly as a map key.
type Item struct {
	Prod int
	Dot  int
}

// DottedSymbol returns the symbol immediately after the dot, or
// (zero, false) if the dot is at the end of the production.
func (it Item) DottedSymbol(b *bnf.BNF) (bnf.Symbol, bool) {
	symbols := b.Prods[it.Prod].Symbols
	if it.Dot >= len(symbols) {
		return bnf.Symbol{}, false
	}
	return symbols[it.Dot], true
}

// Reducible reports whether the dot has reached the end of the
// production, i.e. the item looks like `A -> α·`.
func (it Item) Reducible(b *bnf.BNF) bool {
	return it.Dot == len(b.Prods[it.Prod].Symbols)
}

// IsEmptyProd reports whether it's production has an empty RHS.
func (it Item) IsEmptyProd(b *bnf.BNF) bool {
	return len(b.Prods[it.Prod].Symbols) == 0
}

// Advance returns the item with the dot moved one position to the
// right.
func (it Item) Advance() Item {
	return Item{Prod: it.Prod, Dot: it.Dot + 1}
}

// Initial reports whether it is `dot == 0` on the given production,
// i.e. the production has not been entered yet.
func (it Item) Initial() bool {
	return it.Dot == 0
}

func sortItems(items []Item) []Item {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Prod != items[j].Prod {
			return items[i].Prod < items[j].Prod
		}
		return items[i].Dot < items[j].Dot
	})
	return items
}

// dedupSorted sorts items by (Prod, Dot) and removes duplicates.
func dedupSorted(items []Item) []Item {
	items = sortItems(items)
	out := items[:0:0]
	for i, it := range items {
		if i > 0 && it == items[i-1] {
			continue
		}
		out = append(out, it)
	}
	return out
}

// kernelKey builds a canonical, order-independent string identity for
// a kernel item set: sort by (Prod, Dot), dedup, then join. Two kernel
// item sets with the same members (in any order, with any duplicates)
// always produce the same key, which is what lets the worklist in
// BuildLR0 recognize when it has reached an already-known state.
func kernelKey(items []Item) string {
	sorted := dedupSorted(append([]Item(nil), items...))
	var sb strings.Builder
	for _, it := range sorted {
		sb.WriteString(strconv.Itoa(it.Prod))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(it.Dot))
		sb.WriteByte(';')
	}
	return sb.String()
}

func symbolLess(a, b bnf.Symbol) bool {
	if a.IsTerm() != b.IsTerm() {
		return a.IsTerm()
	}
	if a.IsTerm() {
		return a.Term() < b.Term()
	}
	return a.Nonterm() < b.Nonterm()
}

// State is one node of the canonical LR(0)/LALR(1) collection: its
// kernel items, the closure-derived transition map to neighbour
// states, and (once BuildLALR1 has run) the lookahead bitset attached
// to every kernel item and every empty-production reducible item.
// BuildSLR1Table reads FOLLOW sets instead and leaves these unset.
//
// emptyProdItems exist because a closure like `s -> ·A | ·` produces
// a reducible item `s -> ·` that dot==0 puts outside the kernel, yet it
// still needs its own persisted lookahead set — the same situation the
// teacher's lrState.emptyProdItems documents.
type State struct {
	ID             string
	Num            int
	Kernel         []Item
	Next           map[bnf.Symbol]string
	EmptyProdItems []Item

	lookahead map[Item]*bitset.Set
}

// Automaton is the canonical collection: every reachable state, keyed
// by its kernel's canonical ID, plus the ID of the initial state.
type Automaton struct {
	InitialState string
	States       map[string]*State
	byNum        []*State
}

// StateByNum returns the state discovered at worklist position n (the
// initial state is always 0).
func (a *Automaton) StateByNum(n int) *State {
	return a.byNum[n]
}

// Lookahead returns the lookahead bitset attached to one of s's kernel
// or empty-production items, or nil if BuildLALR1 has not run yet (or
// it is neither a kernel nor an empty-production item).
func (s *State) Lookahead(it Item) *bitset.Set {
	return s.lookahead[it]
}

// ReducibleItems returns every item in s that can reduce: its kernel
// items with the dot at the end, plus its empty-production items.
func (s *State) ReducibleItems(b *bnf.BNF) []Item {
	var out []Item
	for _, it := range s.Kernel {
		if it.Reducible(b) {
			out = append(out, it)
		}
	}
	out = append(out, s.EmptyProdItems...)
	return out
}

// NumStates returns the number of reachable states.
func (a *Automaton) NumStates() int {
	return len(a.byNum)
}
