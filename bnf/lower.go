package bnf

import (
	"fmt"
	"strings"

	"github.com/nihei9/gentan/grammar"
)

// Lower flattens g's rule tree into a BNF: every user-named rule
// receives a NontermId equal to its declaration index, and every
// compound subrule (Seq, Or, Many, Many1, Option, SepBy, SepBy1, and
// Prec wrapping one of those) is synthesized into its own nonterminal
// the first time it is reached. It does not call g.Validate(); callers
// should validate first.
//
// The lowering walk mirrors the original's From<Grammar> for Bnf impl:
// gen_nonterm dispatches on rule shape, gen_prod turns a rule into one
// production's RHS, and gen_sym resolves (or synthesizes) the Symbol a
// subrule reduces to. gen_rep_nonterm and insertNonterm implement the
// reserve-then-patch technique that lets a rule's synthesized
// productions reference the rule's own (possibly not yet known)
// NontermId, which self-recursive repetition rules need.
func Lower(g *grammar.Grammar) (*BNF, error) {
	tokenNames := append([]string(nil), g.Tokens...)
	tokenIndex := make(map[string]TermId, len(tokenNames))
	for i, name := range tokenNames {
		tokenIndex[name] = TermId(i)
	}

	ruleNames := g.RuleNames()
	lw := &lowerer{
		nonterms: make([]Nonterm, len(ruleNames)),
		symbols:  make(map[string]Symbol, len(tokenNames)+len(ruleNames)),
	}
	for i, name := range ruleNames {
		lw.symbols[name] = NontermSymbol(NontermId(i))
	}
	for name, id := range tokenIndex {
		lw.symbols[name] = TermSymbol(id)
	}

	for _, name := range ruleNames {
		rule, _ := g.Rule(name)
		if _, err := lw.genNonterm(name, rule); err != nil {
			return nil, err
		}
	}

	starts := make(map[string]NontermId, len(g.Starts))
	for _, s := range g.Starts {
		sym, ok := lw.symbols[s]
		if !ok || sym.IsTerm() {
			return nil, internalErrorf("start symbol %q did not resolve to a nonterminal", s)
		}
		starts[s] = sym.Nonterm()
	}

	return &BNF{
		TokenNames: tokenNames,
		StartNames: append([]string(nil), g.Starts...),
		Nonterms:   lw.nonterms,
		Prods:      lw.prods,
		tokenIndex: tokenIndex,
		starts:     starts,
	}, nil
}

// lowerer carries the in-progress nonterm/production vectors and the
// name -> Symbol table used both to resolve Sym references and to
// detect "this compound subrule shape was already synthesized under
// this name" reuse, the same way the Rust original keys everything by
// a single global symbols map.
type lowerer struct {
	nonterms []Nonterm
	prods    []Production
	symbols  map[string]Symbol
}

func (lw *lowerer) genNonterm(name string, rule grammar.Rule) (NontermId, error) {
	switch rule.Kind() {
	case grammar.KindSym, grammar.KindSeq:
		prod, err := lw.genProd(ActionNone, rule)
		if err != nil {
			return 0, err
		}
		start := len(lw.prods)
		lw.prods = append(lw.prods, prod)
		return lw.insertNonterm(name, Nonterm{Name: name, ProdStart: start, ProdEnd: start + 1}), nil

	case grammar.KindOr:
		// Lower every alternative before claiming a range: genProd may
		// append productions of nested synthesized nonterminals, which
		// must not land inside this nonterminal's range.
		subs := rule.Subrules()
		alts := make([]Production, 0, len(subs))
		for _, sub := range subs {
			p, err := lw.genProd(ActionNone, sub)
			if err != nil {
				return 0, err
			}
			alts = append(alts, p)
		}
		start := len(lw.prods)
		lw.prods = append(lw.prods, alts...)
		return lw.insertNonterm(name, Nonterm{Name: name, ProdStart: start, ProdEnd: len(lw.prods)}), nil

	case grammar.KindMany:
		sub := rule.Sub()
		return lw.genRepNonterm(name, func(id NontermId) (int, int, error) {
			sym, err := lw.genSym(sub)
			if err != nil {
				return 0, 0, err
			}
			start := len(lw.prods)
			lw.prods = append(lw.prods,
				Production{NontermId: id, Action: ActionStartMany},
				Production{NontermId: id, Action: ActionContinueMany, Symbols: []Symbol{NontermSymbol(id), sym}},
			)
			return start, len(lw.prods), nil
		})

	case grammar.KindMany1:
		sub := rule.Sub()
		return lw.genRepNonterm(name, func(id NontermId) (int, int, error) {
			sym, err := lw.genSym(sub)
			if err != nil {
				return 0, 0, err
			}
			start := len(lw.prods)
			lw.prods = append(lw.prods,
				Production{NontermId: id, Action: ActionStartMany1, Symbols: []Symbol{sym}},
				Production{NontermId: id, Action: ActionContinueMany1, Symbols: []Symbol{NontermSymbol(id), sym}},
			)
			return start, len(lw.prods), nil
		})

	case grammar.KindOption:
		sub := rule.Sub()
		return lw.genRepNonterm(name, func(id NontermId) (int, int, error) {
			prod, err := lw.genProd(ActionNonemptyOption, sub)
			if err != nil {
				return 0, 0, err
			}
			start := len(lw.prods)
			lw.prods = append(lw.prods, Production{NontermId: id, Action: ActionEmptyOption})
			prod.NontermId = id
			lw.prods = append(lw.prods, prod)
			return start, len(lw.prods), nil
		})

	case grammar.KindSepBy:
		sep, sub := rule.Sep(), rule.Sub()
		// gen_prod for the nonempty alternative lowers a fresh
		// SepBy1(sep, sub) through gen_sym, which synthesizes (or
		// reuses) the sepBy1 nonterminal as a side effect before we
		// read len(lw.prods) below.
		nonempty, err := lw.genProd(ActionNonemptySepBy, grammar.SepBy1(sep, sub))
		if err != nil {
			return 0, err
		}
		start := len(lw.prods)
		nt := Nonterm{Name: name, ProdStart: start, ProdEnd: start + 2}
		lw.prods = append(lw.prods, Production{Action: ActionEmptySepBy})
		lw.prods = append(lw.prods, nonempty)
		return lw.insertNonterm(name, nt), nil

	case grammar.KindSepBy1:
		sep, sub := rule.Sep(), rule.Sub()
		return lw.genRepNonterm(name, func(id NontermId) (int, int, error) {
			sepSym, err := lw.genSym(sep)
			if err != nil {
				return 0, 0, err
			}
			sym, err := lw.genSym(sub)
			if err != nil {
				return 0, 0, err
			}
			start := len(lw.prods)
			lw.prods = append(lw.prods,
				Production{NontermId: id, Action: ActionStartSepBy1, Symbols: []Symbol{sym}},
				Production{NontermId: id, Action: ActionContinueSepBy1, Symbols: []Symbol{NontermSymbol(id), sepSym, sym}},
			)
			return start, len(lw.prods), nil
		})

	case grammar.KindPrec:
		sub := rule.Sub()
		id, err := lw.genNonterm(name, sub)
		if err != nil {
			return 0, err
		}
		lw.stampPrec(id, rule.PrecLevel(), rule.Associativity())
		return id, nil

	default:
		return 0, internalErrorf("genNonterm: unhandled rule kind %v", rule.Kind())
	}
}

// genProd lowers rule into one production's RHS under action. Seq
// lowers each member through genSym; Prec lowers its subrule then
// stamps precedence onto just that one production; everything else
// (a bare Sym or any compound shape) becomes a single-symbol RHS
// referencing whatever genSym resolves or synthesizes.
func (lw *lowerer) genProd(action ProdAction, rule grammar.Rule) (Production, error) {
	switch rule.Kind() {
	case grammar.KindSeq:
		subs := rule.Subrules()
		syms := make([]Symbol, len(subs))
		for i, sub := range subs {
			sym, err := lw.genSym(sub)
			if err != nil {
				return Production{}, err
			}
			syms[i] = sym
		}
		return Production{Action: action, Symbols: syms}, nil

	case grammar.KindPrec:
		prod, err := lw.genProd(action, rule.Sub())
		if err != nil {
			return Production{}, err
		}
		p := rule.PrecLevel()
		prod.Prec = &p
		prod.Assoc = rule.Associativity()
		return prod, nil

	default:
		sym, err := lw.genSym(rule)
		if err != nil {
			return Production{}, err
		}
		return Production{Action: action, Symbols: []Symbol{sym}}, nil
	}
}

// genSym resolves rule to the single Symbol it stands for as a
// subrule: a bare Sym resolves directly against the symbol table;
// every compound shape synthesizes (or reuses) a nonterminal via
// genNonterm and returns a reference to it.
//
// Prec is special-cased. Per the decided resolution of the precedence-
// aliasing open question, Prec wrapping a bare Sym always promotes to
// a brand new, unshared nonterminal — never registered in lw.symbols
// — so two separate Prec(Sym(...)) occurrences never alias and stamp
// each other's precedence. Prec wrapping anything else lowers the
// inner rule normally (synthesizing/reusing by name, same as any other
// compound shape) and stamps precedence onto every production of the
// resulting nonterminal.
func (lw *lowerer) genSym(rule grammar.Rule) (Symbol, error) {
	switch rule.Kind() {
	case grammar.KindSym:
		sym, ok := lw.symbols[rule.Name()]
		if !ok {
			return Symbol{}, internalErrorf("undefined symbol %q reached lowering", rule.Name())
		}
		return sym, nil

	case grammar.KindPrec:
		inner := rule.Sub()
		var id NontermId
		var err error
		if inner.Kind() == grammar.KindSym {
			id, err = lw.genUnsharedSymNonterm(displayName(inner), inner)
		} else {
			id, err = lw.genNonterm(displayName(inner), inner)
		}
		if err != nil {
			return Symbol{}, err
		}
		lw.stampPrec(id, rule.PrecLevel(), rule.Associativity())
		return NontermSymbol(id), nil

	default:
		name := displayName(rule)
		if sym, ok := lw.symbols[name]; ok {
			return sym, nil
		}
		id, err := lw.genNonterm(name, rule)
		if err != nil {
			return Symbol{}, err
		}
		return NontermSymbol(id), nil
	}
}

// genUnsharedSymNonterm wraps a bare Sym reference in its own fresh,
// single-production nonterminal that is never registered by name, so
// repeated Prec(Sym(...)) occurrences can never collide.
func (lw *lowerer) genUnsharedSymNonterm(name string, symRule grammar.Rule) (NontermId, error) {
	sym, err := lw.genSym(symRule)
	if err != nil {
		return 0, err
	}
	id := NontermId(len(lw.nonterms))
	start := len(lw.prods)
	lw.prods = append(lw.prods, Production{NontermId: id, Symbols: []Symbol{sym}})
	lw.nonterms = append(lw.nonterms, Nonterm{Name: name, ProdStart: start, ProdEnd: start + 1})
	return id, nil
}

func (lw *lowerer) stampPrec(id NontermId, prec int, assoc grammar.Assoc) {
	nt := lw.nonterms[id]
	for i := nt.ProdStart; i < nt.ProdEnd; i++ {
		p := prec
		lw.prods[i].Prec = &p
		lw.prods[i].Assoc = assoc
	}
}

// insertNonterm registers nt under name, reusing the NontermId already
// reserved for name if one exists (true for every top-level user rule,
// which is pre-reserved before lowering starts). It patches the
// NontermId field of every production nt claims, since those
// productions may have been built before the final id was known.
func (lw *lowerer) insertNonterm(name string, nt Nonterm) NontermId {
	var id NontermId
	if sym, ok := lw.symbols[name]; ok && !sym.IsTerm() {
		id = sym.Nonterm()
	} else {
		id = NontermId(len(lw.nonterms))
		lw.symbols[name] = NontermSymbol(id)
		lw.nonterms = append(lw.nonterms, Nonterm{})
	}
	for i := nt.ProdStart; i < nt.ProdEnd; i++ {
		lw.prods[i].NontermId = id
	}
	lw.nonterms[id] = nt
	return id
}

// genRepNonterm implements the reserve-or-reuse-by-name then patch
// technique genNonterm's self-recursive cases (Many, Many1, SepBy1)
// need: body is handed the nonterminal's own id before its productions
// exist, so it can build productions that refer back to id (e.g.
// ContinueMany's `A* -> A* A`), and returns the production range those
// productions ended up at.
func (lw *lowerer) genRepNonterm(name string, body func(id NontermId) (start, end int, err error)) (NontermId, error) {
	var id NontermId
	if sym, ok := lw.symbols[name]; ok && !sym.IsTerm() {
		id = sym.Nonterm()
	} else {
		id = NontermId(len(lw.nonterms))
		lw.symbols[name] = NontermSymbol(id)
		lw.nonterms = append(lw.nonterms, Nonterm{})
	}
	start, end, err := body(id)
	if err != nil {
		return 0, err
	}
	lw.nonterms[id] = Nonterm{Name: name, ProdStart: start, ProdEnd: end}
	return id, nil
}

// displayName builds a deterministic, shape-derived name for a
// compound subrule, used both as a human-readable nonterminal label
// and as the reuse key passed to genNonterm/genRepNonterm/insertNonterm.
func displayName(r grammar.Rule) string {
	switch r.Kind() {
	case grammar.KindSym:
		return r.Name()
	case grammar.KindSeq:
		return "(" + joinNames(r.Subrules(), " ") + ")"
	case grammar.KindOr:
		return "(" + joinNames(r.Subrules(), "|") + ")"
	case grammar.KindMany:
		return displayName(r.Sub()) + "*"
	case grammar.KindMany1:
		return displayName(r.Sub()) + "+"
	case grammar.KindOption:
		return displayName(r.Sub()) + "?"
	case grammar.KindSepBy:
		return fmt.Sprintf("sepBy(%s,%s)", displayName(r.Sep()), displayName(r.Sub()))
	case grammar.KindSepBy1:
		return fmt.Sprintf("sepBy1(%s,%s)", displayName(r.Sep()), displayName(r.Sub()))
	case grammar.KindPrec:
		return displayName(r.Sub())
	default:
		return "?"
	}
}

func joinNames(rules []grammar.Rule, sep string) string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = displayName(r)
	}
	return strings.Join(names, sep)
}
