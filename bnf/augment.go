package bnf

// Augment adds one synthetic start nonterminal `$start(S) -> S` per
// entry in b.StartNames and repoints b.Start(name) at it. An LALR(1)
// automaton seeds its initial kernel from these single-production
// augmented nonterminals rather than from the user's own start rules,
// so the accept state has a unique, non-recursive witness even when
// the user's start rule is recursive or has several productions.
//
// Augment mutates b in place and must only be called once; calling it
// twice re-augments the already-augmented nonterminal and is not
// guarded against, mirroring the original, which treats augmentation
// as a one-shot step between lowering and automaton construction.
func (b *BNF) Augment() {
	for _, name := range b.StartNames {
		old := b.starts[name]
		id := NontermId(len(b.Nonterms))
		start := len(b.Prods)
		b.Prods = append(b.Prods, Production{NontermId: id, Symbols: []Symbol{NontermSymbol(old)}})
		b.Nonterms = append(b.Nonterms, Nonterm{
			Name:      "$start(" + name + ")",
			ProdStart: start,
			ProdEnd:   start + 1,
		})
		b.starts[name] = id
	}
}
