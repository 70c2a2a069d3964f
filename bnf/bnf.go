// Package bnf lowers an extended grammar.Grammar into a flat BNF:
// numbered terminals and nonterminals, a flat production list tagged
// with synthesis actions, and the nullable/FIRST fixpoints over it.
package bnf

import "github.com/nihei9/gentan/grammar"

// TermId is a dense, declaration-ordered terminal index.
type TermId uint32

// NontermId is a dense nonterminal index. User-named rules receive IDs
// in declaration order; synthesized nonterminals receive IDs in the
// order they are first reached during lowering.
type NontermId uint32

// symbolKind tags which half of the Symbol union is populated.
type symbolKind uint8

const (
	symTerm symbolKind = iota
	symNonterm
)

// Symbol is a tagged union of a terminal or a nonterminal reference.
type Symbol struct {
	kind    symbolKind
	term    TermId
	nonterm NontermId
}

// TermSymbol wraps a terminal ID as a Symbol.
func TermSymbol(id TermId) Symbol {
	return Symbol{kind: symTerm, term: id}
}

// NontermSymbol wraps a nonterminal ID as a Symbol.
func NontermSymbol(id NontermId) Symbol {
	return Symbol{kind: symNonterm, nonterm: id}
}

// IsTerm reports whether the symbol is a terminal.
func (s Symbol) IsTerm() bool {
	return s.kind == symTerm
}

// Term returns the terminal ID. Only valid when IsTerm() is true.
func (s Symbol) Term() TermId {
	return s.term
}

// Nonterm returns the nonterminal ID. Only valid when IsTerm() is false.
func (s Symbol) Nonterm() NontermId {
	return s.nonterm
}

// ProdAction tags a synthesized production with the role it plays so
// a front end can reconstruct lists/options from a parse.
type ProdAction int

const (
	// ActionNone marks a production the user wrote literally.
	ActionNone ProdAction = iota
	ActionStartMany      // A* -> ε
	ActionContinueMany   // A* -> A* A
	ActionStartMany1     // A+ -> A
	ActionContinueMany1  // A+ -> A+ A
	ActionEmptyOption    // A? -> ε
	ActionNonemptyOption // A? -> A
	ActionEmptySepBy     // sepBy(s,A) -> ε
	ActionNonemptySepBy  // sepBy(s,A) -> sepBy1(s,A)
	ActionStartSepBy1    // sepBy1(s,A) -> A
	ActionContinueSepBy1 // sepBy1(s,A) -> sepBy1(s,A) s A
)

func (a ProdAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionStartMany:
		return "start-many"
	case ActionContinueMany:
		return "continue-many"
	case ActionStartMany1:
		return "start-many1"
	case ActionContinueMany1:
		return "continue-many1"
	case ActionEmptyOption:
		return "empty-option"
	case ActionNonemptyOption:
		return "nonempty-option"
	case ActionEmptySepBy:
		return "empty-sepby"
	case ActionNonemptySepBy:
		return "nonempty-sepby"
	case ActionStartSepBy1:
		return "start-sepby1"
	case ActionContinueSepBy1:
		return "continue-sepby1"
	default:
		return "unknown"
	}
}

// Production is one flat rewrite rule N -> σ.
type Production struct {
	NontermId NontermId
	Symbols   []Symbol
	Prec      *int // nil means unset; 0 is a valid precedence level
	Assoc     grammar.Assoc
	Action    ProdAction
}

// IsEmpty reports whether the production's RHS is ε.
func (p *Production) IsEmpty() bool {
	return len(p.Symbols) == 0
}

// Nonterm is a named nonterminal together with the (non-empty) range
// of productions in BNF.Prods whose LHS it is.
type Nonterm struct {
	Name      string
	ProdStart int
	ProdEnd   int
}

// Productions returns n's slice of b.Prods.
func (n Nonterm) Productions(b *BNF) []Production {
	return b.Prods[n.ProdStart:n.ProdEnd]
}

// BNF is the lowered, flat grammar: ordered token/start name tables
// plus the flat nonterminal and production vectors.
type BNF struct {
	TokenNames []string
	StartNames []string

	Nonterms []Nonterm
	Prods    []Production

	tokenIndex map[string]TermId
	starts     map[string]NontermId
}

// Token looks up a terminal by name.
func (b *BNF) Token(name string) (TermId, bool) {
	id, ok := b.tokenIndex[name]
	return id, ok
}

// Start looks up the (possibly augmented) nonterminal for a start
// symbol name.
func (b *BNF) Start(name string) (NontermId, bool) {
	id, ok := b.starts[name]
	return id, ok
}

// NumTerms returns the number of declared terminals.
func (b *BNF) NumTerms() int {
	return len(b.TokenNames)
}

// NumNonterms returns the number of nonterminals, including synthesized ones.
func (b *BNF) NumNonterms() int {
	return len(b.Nonterms)
}
