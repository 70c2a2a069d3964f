package automaton

import (
	"sort"
	"strings"

	"github.com/nihei9/gentan/bitset"
	"github.com/nihei9/gentan/bnf"
)

// BuildLR0 constructs the canonical LR(0) collection reachable from
// start's single augmented production (call bnf.Augment first; start
// must name a nonterminal with exactly one production, the synthetic
// `$start(S) -> S`).
//
// States are discovered breadth-first from the initial kernel and
// numbered in discovery order, the same worklist shape as the
// teacher's genLR0Automaton, adapted to key kernels by the dense
// Item-based kernelKey instead of a sha256 kernelID.
func BuildLR0(b *bnf.BNF, start bnf.NontermId) (*Automaton, error) {
	startNT := b.Nonterms[start]
	if startNT.ProdEnd-startNT.ProdStart != 1 {
		return nil, internalErrorf("nonterm %d has %d productions, want exactly 1 (call bnf.Augment first)", start, startNT.ProdEnd-startNT.ProdStart)
	}
	if !strings.HasPrefix(startNT.Name, "$start(") {
		return nil, internalErrorf("nonterm %d (%q) is not an augmented start (call bnf.Augment first)", start, startNT.Name)
	}

	initItems := []Item{{Prod: startNT.ProdStart, Dot: 0}}
	initID := kernelKey(initItems)

	a := &Automaton{
		InitialState: initID,
		States:       map[string]*State{},
	}

	known := map[string]bool{initID: true}
	queue := []kernelEntry{{id: initID, items: initItems}}

	for len(queue) > 0 {
		var nextQueue []kernelEntry
		for _, k := range queue {
			state, neighbours, err := genStateAndNeighbours(b, k)
			if err != nil {
				return nil, err
			}
			state.Num = len(a.byNum)
			a.byNum = append(a.byNum, state)
			a.States[k.id] = state

			for _, n := range neighbours {
				if known[n.id] {
					continue
				}
				known[n.id] = true
				nextQueue = append(nextQueue, n)
			}
		}
		queue = nextQueue
	}

	return a, nil
}

type kernelEntry struct {
	id    string
	items []Item
}

func genStateAndNeighbours(b *bnf.BNF, k kernelEntry) (*State, []kernelEntry, error) {
	closure := closureLR0(b, k.items)

	groups := map[bnf.Symbol][]Item{}
	var syms []bnf.Symbol
	for _, it := range closure {
		sym, ok := it.DottedSymbol(b)
		if !ok {
			continue
		}
		if _, seen := groups[sym]; !seen {
			syms = append(syms, sym)
		}
		groups[sym] = append(groups[sym], it.Advance())
	}
	sort.Slice(syms, func(i, j int) bool { return symbolLess(syms[i], syms[j]) })

	next := make(map[bnf.Symbol]string, len(syms))
	neighbours := make([]kernelEntry, 0, len(syms))
	for _, sym := range syms {
		items := dedupSorted(groups[sym])
		id := kernelKey(items)
		next[sym] = id
		neighbours = append(neighbours, kernelEntry{id: id, items: items})
	}

	var emptyProdItems []Item
	for _, it := range closure {
		if it.Reducible(b) && it.IsEmptyProd(b) {
			emptyProdItems = append(emptyProdItems, it)
		}
	}

	return &State{
		ID:             k.id,
		Kernel:         dedupSorted(append([]Item(nil), k.items...)),
		Next:           next,
		EmptyProdItems: emptyProdItems,
		lookahead:      map[Item]*bitset.Set{},
	}, neighbours, nil
}

// closureLR0 computes the LR(0) closure of a kernel item set: for
// every item whose dot sits before a nonterminal N, add `N -> ·γ` for
// every production of N, repeating until no new items appear.
func closureLR0(b *bnf.BNF, kernel []Item) []Item {
	seen := make(map[Item]bool, len(kernel)*2)
	result := make([]Item, 0, len(kernel)*2)
	queue := make([]Item, 0, len(kernel))
	for _, it := range kernel {
		if !seen[it] {
			seen[it] = true
			result = append(result, it)
			queue = append(queue, it)
		}
	}
	for len(queue) > 0 {
		var next []Item
		for _, it := range queue {
			sym, ok := it.DottedSymbol(b)
			if !ok || sym.IsTerm() {
				continue
			}
			nt := b.Nonterms[sym.Nonterm()]
			for pi := nt.ProdStart; pi < nt.ProdEnd; pi++ {
				ni := Item{Prod: pi, Dot: 0}
				if seen[ni] {
					continue
				}
				seen[ni] = true
				result = append(result, ni)
				next = append(next, ni)
			}
		}
		queue = next
	}
	return result
}
