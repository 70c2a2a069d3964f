package bnf

import (
	"reflect"
	"testing"
)

// simpleFixture builds the textbook
//
//	Z -> d
//	Z -> X Y Z
//	Y ->
//	Y -> c
//	X -> Y
//	X -> a
//
// grammar directly as a BNF, bypassing Lower, the same way the
// original exercises gen_nullable/gen_first against a hand-built Bnf
// rather than lowering it from a Grammar.
func simpleFixture() *BNF {
	return &BNF{
		TokenNames: []string{"d", "c", "a"},
		tokenIndex: map[string]TermId{"d": 0, "c": 1, "a": 2},
		Nonterms: []Nonterm{
			{Name: "Z", ProdStart: 0, ProdEnd: 2},
			{Name: "Y", ProdStart: 2, ProdEnd: 4},
			{Name: "X", ProdStart: 4, ProdEnd: 6},
		},
		Prods: []Production{
			{NontermId: 0, Symbols: []Symbol{TermSymbol(0)}},                                     // Z -> d
			{NontermId: 0, Symbols: []Symbol{NontermSymbol(2), NontermSymbol(1), NontermSymbol(0)}}, // Z -> X Y Z
			{NontermId: 1},                                     // Y -> ε
			{NontermId: 1, Symbols: []Symbol{TermSymbol(1)}},   // Y -> c
			{NontermId: 2, Symbols: []Symbol{NontermSymbol(1)}}, // X -> Y
			{NontermId: 2, Symbols: []Symbol{TermSymbol(2)}},   // X -> a
		},
	}
}

// llExprFixture builds the classic left-recursion-eliminated
// expression grammar:
//
//	E  -> T E'
//	E' -> + T E'
//	E' ->
//	T  -> F T'
//	T' -> * F T'
//	T' ->
//	F  -> num
//	F  -> ( E )
func llExprFixture() *BNF {
	tokens := []string{"num", "(", ")", "+", "*"}
	idx := make(map[string]TermId, len(tokens))
	for i, t := range tokens {
		idx[t] = TermId(i)
	}
	tok := func(name string) Symbol { return TermSymbol(idx[name]) }
	return &BNF{
		TokenNames: tokens,
		tokenIndex: idx,
		Nonterms: []Nonterm{
			{Name: "E", ProdStart: 0, ProdEnd: 1},
			{Name: "E'", ProdStart: 1, ProdEnd: 3},
			{Name: "T", ProdStart: 3, ProdEnd: 4},
			{Name: "T'", ProdStart: 4, ProdEnd: 6},
			{Name: "F", ProdStart: 6, ProdEnd: 8},
		},
		Prods: []Production{
			{NontermId: 0, Symbols: []Symbol{NontermSymbol(2), NontermSymbol(1)}},           // E -> T E'
			{NontermId: 1, Symbols: []Symbol{tok("+"), NontermSymbol(2), NontermSymbol(1)}}, // E' -> + T E'
			{NontermId: 1},                                                                  // E' -> ε
			{NontermId: 2, Symbols: []Symbol{NontermSymbol(4), NontermSymbol(3)}},           // T -> F T'
			{NontermId: 3, Symbols: []Symbol{tok("*"), NontermSymbol(4), NontermSymbol(3)}}, // T' -> * F T'
			{NontermId: 3},                                                                  // T' -> ε
			{NontermId: 4, Symbols: []Symbol{tok("num")}},                                   // F -> num
			{NontermId: 4, Symbols: []Symbol{tok("("), NontermSymbol(0), tok(")")}},          // F -> ( E )
		},
	}
}

func tokenSetNames(b *BNF, s interface{ Iter() []int }) []string {
	names := make([]string, 0)
	for _, id := range s.Iter() {
		names = append(names, b.TokenNames[id])
	}
	return names
}

func TestNullableSimple(t *testing.T) {
	got := Nullable(simpleFixture())
	want := []bool{false, true, true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Nullable() = %v, want %v", got, want)
	}
}

func TestNullableLLExpr(t *testing.T) {
	got := Nullable(llExprFixture())
	want := []bool{false, true, false, true, false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Nullable() = %v, want %v", got, want)
	}
}

func TestFirstSimple(t *testing.T) {
	b := simpleFixture()
	nullable := Nullable(b)
	first := First(b, nullable)

	want := [][]string{
		{"d", "c", "a"},
		{"c"},
		{"c", "a"},
	}
	for i, w := range want {
		got := tokenSetNames(b, first[i])
		if !reflect.DeepEqual(got, w) {
			t.Fatalf("FIRST(%s) = %v, want %v", b.Nonterms[i].Name, got, w)
		}
	}
}

func TestFirstLLExpr(t *testing.T) {
	b := llExprFixture()
	nullable := Nullable(b)
	first := First(b, nullable)

	want := [][]string{
		{"num", "("},
		{"+"},
		{"num", "("},
		{"*"},
		{"num", "("},
	}
	for i, w := range want {
		got := tokenSetNames(b, first[i])
		if !reflect.DeepEqual(got, w) {
			t.Fatalf("FIRST(%s) = %v, want %v", b.Nonterms[i].Name, got, w)
		}
	}
}
