package automaton

import (
	"testing"

	"github.com/nihei9/gentan/bnf"
)

func buildLR0(t *testing.T, text string, startName string) (*bnf.BNF, *Automaton) {
	t.Helper()
	b := bnf.ParseText(text)
	b.Augment()
	start, ok := b.Start(startName)
	if !ok {
		t.Fatalf("start %q not found after augmentation", startName)
	}
	a, err := BuildLR0(b, start)
	if err != nil {
		t.Fatalf("BuildLR0() error = %v", err)
	}
	return b, a
}

func TestBuildLR0InitialKernelIsAugmentedStartItem(t *testing.T) {
	b, a := buildLR0(t, `
S* -> A
A -> a
`, "S")

	start, _ := b.Start("S")
	startNT := b.Nonterms[start]

	initial := a.States[a.InitialState]
	want := []Item{{Prod: startNT.ProdStart, Dot: 0}}
	got := dedupSorted(append([]Item(nil), initial.Kernel...))
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("initial kernel = %v, want %v", got, want)
	}
	if initial.Num != 0 {
		t.Fatalf("initial.Num = %d, want 0", initial.Num)
	}
}

func TestBuildLR0SimpleRightRecursiveGrammar(t *testing.T) {
	// S* -> A; A -> a A | b. Six reachable states: the initial state,
	// goto(S) (accept), goto(A) (reduce S->A), goto(a) (which loops to
	// itself on further 'a's and whose 'b' transition reuses goto(b)),
	// goto(b) (reduce A->b), and goto(a,A) (reduce A->aA).
	_, a := buildLR0(t, `
S* -> A
A -> a A
A -> b
`, "S")

	if a.NumStates() != 6 {
		t.Fatalf("NumStates() = %d, want 6", a.NumStates())
	}

	initial := a.States[a.InitialState]
	if len(initial.Next) != 4 {
		t.Fatalf("initial.Next has %d entries, want 4 (on S, A, a, b)", len(initial.Next))
	}
}

func TestBuildLR0RejectsUnaugmentedStart(t *testing.T) {
	b := bnf.ParseText(`
S* -> A
A -> a
`)
	start, _ := b.Start("S")
	if _, err := BuildLR0(b, start); err == nil {
		t.Fatalf("BuildLR0() on an un-augmented start: got nil error, want internal error")
	}
}
