package automaton

import (
	"testing"

	"github.com/nihei9/gentan/bnf"
)



// TestBuildFollowLLExprGrammar is the textbook LL(1) expression grammar
// (E -> T E'; E' -> + T E' | ε; T -> F T'; T' -> * F T' | ε; F -> ( E ) | num)
// whose FOLLOW sets are a standard worked example: FOLLOW(E) = FOLLOW(E')
// = {$, )}; FOLLOW(T) = FOLLOW(T') = {+, $, )}; FOLLOW(F) = {*, +, $, )}.
func TestBuildFollowLLExprGrammar(t *testing.T) {
	b := bnf.ParseText(`
E* -> T E'
E' -> + T E'
E' ->
T -> F T'
T' -> * F T'
T' ->
F -> ( E )
F -> num
`)
	nullable := bnf.Nullable(b)
	first := bnf.First(b, nullable)
	start, _ := b.Start("E")
	follow := BuildFollow(b, first, nullable, []bnf.NontermId{start})

	eof := b.NumTerms()
	plus, _ := b.Token("+")
	star, _ := b.Token("*")
	closeParen, _ := b.Token(")")

	cases := []struct {
		name string
		want []int
	}{
		{"E", sortInts([]int{eof, int(closeParen)})},
		{"E'", sortInts([]int{eof, int(closeParen)})},
		{"T", sortInts([]int{int(plus), eof, int(closeParen)})},
		{"T'", sortInts([]int{int(plus), eof, int(closeParen)})},
		{"F", sortInts([]int{int(star), int(plus), eof, int(closeParen)})},
	}
	nameToID := map[string]bnf.NontermId{}
	for i, nt := range b.Nonterms {
		nameToID[nt.Name] = bnf.NontermId(i)
	}

	for _, c := range cases {
		id, ok := nameToID[c.name]
		if !ok {
			t.Fatalf("nonterm %q not found", c.name)
		}
		got := follow[id].Iter()
		if !intsEqual(got, c.want) {
			t.Errorf("FOLLOW(%s) = %v, want %v", c.name, got, c.want)
		}
	}
}

func sortInts(xs []int) []int {
	out := append([]int(nil), xs...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
