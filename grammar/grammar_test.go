package grammar

import (
	"errors"
	"testing"
)

func mustGrammar(t *testing.T, tokens, starts []string, rules []RuleDef) *Grammar {
	t.Helper()
	g, err := NewGrammar(tokens, starts, rules)
	if err != nil {
		t.Fatalf("NewGrammar() error = %v", err)
	}
	return g
}

func TestValidateOK(t *testing.T) {
	g := mustGrammar(t,
		[]string{"a", "b"},
		[]string{"S"},
		[]RuleDef{
			{Name: "S", Rule: Or(Sym("a"), Seq(Sym("S"), Sym("b")))},
		},
	)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateEmptyTokens(t *testing.T) {
	g := mustGrammar(t, nil, []string{"S"}, []RuleDef{{Name: "S", Rule: Sym("S")}})
	err := g.Validate()
	if !errors.Is(err, ErrEmptyTokenList) {
		t.Fatalf("Validate() error = %v, want ErrEmptyTokenList", err)
	}
}

func TestValidateDuplicateToken(t *testing.T) {
	g := mustGrammar(t, []string{"a", "a"}, []string{"S"}, []RuleDef{{Name: "S", Rule: Sym("a")}})
	if err := g.Validate(); !errors.Is(err, ErrDuplicateToken) {
		t.Fatalf("Validate() error = %v, want ErrDuplicateToken", err)
	}
}

func TestValidateEmptyStarts(t *testing.T) {
	g := mustGrammar(t, []string{"a"}, nil, []RuleDef{{Name: "S", Rule: Sym("a")}})
	if err := g.Validate(); !errors.Is(err, ErrEmptyStartList) {
		t.Fatalf("Validate() error = %v, want ErrEmptyStartList", err)
	}
}

func TestValidateDuplicateStart(t *testing.T) {
	g := mustGrammar(t, []string{"a"}, []string{"S", "S"}, []RuleDef{{Name: "S", Rule: Sym("a")}})
	if err := g.Validate(); !errors.Is(err, ErrDuplicateStart) {
		t.Fatalf("Validate() error = %v, want ErrDuplicateStart", err)
	}
}

func TestValidateUndefinedStart(t *testing.T) {
	g := mustGrammar(t, []string{"a"}, []string{"T"}, []RuleDef{{Name: "S", Rule: Sym("a")}})
	if err := g.Validate(); !errors.Is(err, ErrUndefinedStart) {
		t.Fatalf("Validate() error = %v, want ErrUndefinedStart", err)
	}
}

func TestValidateNameCollision(t *testing.T) {
	g := mustGrammar(t, []string{"a", "S"}, []string{"S"}, []RuleDef{{Name: "S", Rule: Sym("a")}})
	if err := g.Validate(); !errors.Is(err, ErrNameCollision) {
		t.Fatalf("Validate() error = %v, want ErrNameCollision", err)
	}
}

func TestValidateUndefinedSymbol(t *testing.T) {
	g := mustGrammar(t, []string{"a"}, []string{"S"}, []RuleDef{{Name: "S", Rule: Sym("nope")}})
	if err := g.Validate(); !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("Validate() error = %v, want ErrUndefinedSymbol", err)
	}
}

func TestValidateDuplicateRuleName(t *testing.T) {
	_, err := NewGrammar(
		[]string{"a"},
		[]string{"S"},
		[]RuleDef{
			{Name: "S", Rule: Sym("a")},
			{Name: "S", Rule: Sym("a")},
		},
	)
	if !errors.Is(err, ErrDuplicateRuleName) {
		t.Fatalf("NewGrammar() error = %v, want ErrDuplicateRuleName", err)
	}
}

func TestOrFlattensAssociatively(t *testing.T) {
	// (a | b) | c and a | (b | c) should both produce the same
	// three-alternative flat Or, preserving authoring order.
	left := Or(Or(Sym("a"), Sym("b")), Sym("c"))
	right := Or(Sym("a"), Or(Sym("b"), Sym("c")))

	wantNames := []string{"a", "b", "c"}
	for _, or := range []Rule{left, right} {
		if len(or.rules) != len(wantNames) {
			t.Fatalf("Or flattened to %d alternatives, want %d", len(or.rules), len(wantNames))
		}
		for i, want := range wantNames {
			if or.rules[i].name != want {
				t.Fatalf("alternative %d = %q, want %q", i, or.rules[i].name, want)
			}
		}
	}
}
