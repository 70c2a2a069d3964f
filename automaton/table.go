package automaton

import (
	"fmt"

	"github.com/nihei9/gentan/bitset"
	"github.com/nihei9/gentan/bnf"
	"github.com/nihei9/gentan/grammar"
)

// ActionType tags the variant held by an Action entry.
type ActionType int

const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one action-table cell: shift to Next, reduce by Prod, accept,
// or (the zero value) error.
type Action struct {
	Type ActionType
	Next int // state number, valid when Type == ActionShift
	Prod int // production index, valid when Type == ActionReduce
}

// ParsingTable is the per-state shift/reduce/goto table spec.md §6 asks
// for: a stateCount*termCount action array and a stateCount*nontermCount
// goto array, grounded on the teacher's ParsingTable (parsing_table.go).
// The terminal dimension reserves one extra column, at index NumTerms(),
// for the end-of-input sentinel — the same index eofBit uses in a
// lookahead bitset.Set, so a lookahead index and an action-table column
// index are always the same number.
type ParsingTable struct {
	InitialState int

	stateCount   int
	termCount    int // NumTerms() + 1, the extra column is EOF
	nontermCount int

	actions []Action
	gotos   []int // -1 means no entry
}

func newParsingTable(b *bnf.BNF, stateCount int, initial int) *ParsingTable {
	termCount := b.NumTerms() + 1
	nontermCount := b.NumNonterms()
	gotos := make([]int, stateCount*nontermCount)
	for i := range gotos {
		gotos[i] = -1
	}
	return &ParsingTable{
		InitialState: initial,
		stateCount:   stateCount,
		termCount:    termCount,
		nontermCount: nontermCount,
		actions:      make([]Action, stateCount*termCount),
		gotos:        gotos,
	}
}

// EOFColumn is the reserved terminal-dimension column for end-of-input.
func (t *ParsingTable) EOFColumn() int {
	return t.termCount - 1
}

// Action returns the action-table cell for state on term (use
// EOFColumn() for the end-of-input column).
func (t *ParsingTable) Action(state, term int) Action {
	return t.actions[state*t.termCount+term]
}

func (t *ParsingTable) setAction(state, term int, a Action) {
	t.actions[state*t.termCount+term] = a
}

// GoTo returns the successor state for state on nt, or (0, false) if
// there is no entry.
func (t *ParsingTable) GoTo(state int, nt bnf.NontermId) (int, bool) {
	v := t.gotos[state*t.nontermCount+int(nt)]
	if v < 0 {
		return 0, false
	}
	return v, true
}

func (t *ParsingTable) setGoTo(state int, nt bnf.NontermId, next int) {
	t.gotos[state*t.nontermCount+int(nt)] = next
}

// Conflict is an unresolved shift/reduce or reduce/reduce conflict,
// implemented by ShiftReduceConflict and ReduceReduceConflict. Mirrors
// the teacher's conflict interface in parsing_table_builder.go.
type Conflict interface {
	conflict()
}

// ShiftReduceConflict records a shift/reduce conflict on Term in State
// that precedence/associativity could not resolve.
type ShiftReduceConflict struct {
	State      int
	Term       bnf.TermId
	ShiftState int
	ReduceProd int
}

func (c *ShiftReduceConflict) conflict() {}

func (c *ShiftReduceConflict) Error() string {
	return fmt.Sprintf("shift/reduce conflict in state %d on terminal %d (shift %d, reduce production %d)", c.State, c.Term, c.ShiftState, c.ReduceProd)
}

// ReduceReduceConflict records a reduce/reduce conflict on Term in
// State between Prod1 and Prod2 that precedence could not resolve.
type ReduceReduceConflict struct {
	State int
	Term  bnf.TermId
	Prod1 int
	Prod2 int
}

func (c *ReduceReduceConflict) conflict() {}

func (c *ReduceReduceConflict) Error() string {
	return fmt.Sprintf("reduce/reduce conflict in state %d on terminal %d (production %d and %d)", c.State, c.Term, c.Prod1, c.Prod2)
}

var (
	_ Conflict = (*ShiftReduceConflict)(nil)
	_ Conflict = (*ReduceReduceConflict)(nil)
)

// lookaheadSource supplies the reduce-lookahead terminals for a
// reducible item, letting BuildLALR1Table and BuildSLR1Table share one
// table-construction core while differing only in where lookaheads come
// from — per-item propagated sets for LALR(1), FOLLOW(lhs) for SLR(1).
type lookaheadSource func(s *State, item Item) *bitset.Set

// BuildLALR1Table builds the action/goto table from an automaton whose
// lookaheads BuildLALR1 has already computed, resolving conflicts with
// each production's precedence and associativity per spec.md §4.F. This
// generalizes the teacher's lalrTableBuilder.build, which recorded every
// conflict unconditionally; that file never consulted Prec/Assoc, so
// real precedence grammars needed hand resolution afterward. We resolve
// before recording.
func BuildLALR1Table(b *bnf.BNF, a *Automaton, start bnf.NontermId) (*ParsingTable, []Conflict, error) {
	return buildTable(b, a, start, func(s *State, item Item) *bitset.Set {
		return s.Lookahead(item)
	})
}

// BuildSLR1Table builds the action/goto table from an LR(0) automaton
// using FOLLOW(lhs) as every reducible item's lookahead (plus
// end-of-input for the augmented start's item, which yields the accept
// action), the simpler (and strictly coarser) alternative strategy
// spec.md's expansion adds alongside BuildLALR1Table, grounded on the
// teacher's slrTableBuilder.
func BuildSLR1Table(b *bnf.BNF, a *Automaton, start bnf.NontermId, follow []*bitset.Set) (*ParsingTable, []Conflict, error) {
	return buildTable(b, a, start, func(s *State, item Item) *bitset.Set {
		lhs := b.Prods[item.Prod].NontermId
		if lhs == start {
			la := follow[lhs].Clone()
			la.Insert(eofBit(b))
			return la
		}
		return follow[lhs]
	})
}

func buildTable(b *bnf.BNF, a *Automaton, start bnf.NontermId, lookaheadOf lookaheadSource) (*ParsingTable, []Conflict, error) {
	initial := a.States[a.InitialState]
	pt := newParsingTable(b, a.NumStates(), initial.Num)

	var conflicts []Conflict
	for _, s := range a.byNum {
		for sym, nextID := range s.Next {
			next := a.States[nextID]
			if !sym.IsTerm() {
				pt.setGoTo(s.Num, sym.Nonterm(), next.Num)
				continue
			}
			if c := writeShift(b, pt, s, sym.Term(), next.Num); c != nil {
				conflicts = append(conflicts, c)
			}
		}

		for _, item := range s.ReducibleItems(b) {
			la := lookaheadOf(s, item)
			if la == nil {
				return nil, nil, internalErrorf("reducible item %+v in state %s has no lookahead", item, s.ID)
			}
			prod := &b.Prods[item.Prod]
			for _, t := range la.Iter() {
				if t == pt.EOFColumn() && prod.NontermId == start {
					pt.setAction(s.Num, t, Action{Type: ActionAccept})
					continue
				}
				if c := writeReduce(b, pt, s, t, item.Prod); c != nil {
					conflicts = append(conflicts, c)
				}
			}
		}
	}

	if len(conflicts) > 0 {
		return nil, conflicts, fmt.Errorf("%d unresolved conflict(s)", len(conflicts))
	}
	return pt, nil, nil
}

func writeShift(b *bnf.BNF, pt *ParsingTable, s *State, term bnf.TermId, nextStateNum int) Conflict {
	termIdx := int(term)
	cur := pt.Action(s.Num, termIdx)
	switch cur.Type {
	case ActionError:
		pt.setAction(s.Num, termIdx, Action{Type: ActionShift, Next: nextStateNum})
		return nil
	case ActionReduce:
		shiftProd, ok := shiftGoverningProd(b, s, term)
		if !ok {
			return &ShiftReduceConflict{State: s.Num, Term: term, ShiftState: nextStateNum, ReduceProd: cur.Prod}
		}
		useShift, resolved := resolveShiftReduce(&b.Prods[shiftProd], &b.Prods[cur.Prod])
		if !resolved {
			return &ShiftReduceConflict{State: s.Num, Term: term, ShiftState: nextStateNum, ReduceProd: cur.Prod}
		}
		if useShift {
			pt.setAction(s.Num, termIdx, Action{Type: ActionShift, Next: nextStateNum})
		}
		return nil
	default:
		// Already shift (reached via two items agreeing on the same
		// successor) or accept; nothing to resolve.
		return nil
	}
}

func writeReduce(b *bnf.BNF, pt *ParsingTable, s *State, termIdx, prod int) Conflict {
	term := bnf.TermId(termIdx)
	cur := pt.Action(s.Num, termIdx)
	switch cur.Type {
	case ActionError:
		pt.setAction(s.Num, termIdx, Action{Type: ActionReduce, Prod: prod})
		return nil
	case ActionShift:
		shiftProd, ok := shiftGoverningProd(b, s, term)
		if !ok {
			return &ShiftReduceConflict{State: s.Num, Term: term, ShiftState: cur.Next, ReduceProd: prod}
		}
		useShift, resolved := resolveShiftReduce(&b.Prods[shiftProd], &b.Prods[prod])
		if !resolved {
			return &ShiftReduceConflict{State: s.Num, Term: term, ShiftState: cur.Next, ReduceProd: prod}
		}
		if !useShift {
			pt.setAction(s.Num, termIdx, Action{Type: ActionReduce, Prod: prod})
		}
		return nil
	case ActionReduce:
		if cur.Prod == prod {
			return nil
		}
		winner, resolved := resolveReduceReduce(&b.Prods[cur.Prod], &b.Prods[prod], cur.Prod, prod)
		if !resolved {
			return &ReduceReduceConflict{State: s.Num, Term: term, Prod1: cur.Prod, Prod2: prod}
		}
		pt.setAction(s.Num, termIdx, Action{Type: ActionReduce, Prod: winner})
		return nil
	default:
		// ActionAccept already recorded here; augmentation guarantees
		// the accept item's lookahead is exclusively EOF, so this would
		// indicate a bug in augmentation, not a user-resolvable conflict.
		return nil
	}
}

// shiftGoverningProd finds the production of the closure item in s that
// shifts on term, preferring one with an explicit precedence stamp —
// the item spec.md's scenario 6 expects to carry the conflict-resolving
// prec/assoc.
func shiftGoverningProd(b *bnf.BNF, s *State, term bnf.TermId) (int, bool) {
	closure := closureLR0(b, s.Kernel)
	best := -1
	for _, it := range closure {
		sym, ok := it.DottedSymbol(b)
		if !ok || !sym.IsTerm() || sym.Term() != term {
			continue
		}
		if best == -1 {
			best = it.Prod
		}
		if b.Prods[it.Prod].Prec != nil {
			best = it.Prod
			break
		}
	}
	return best, best != -1
}

// resolveShiftReduce implements spec.md §4.F's resolution table: higher
// precedence wins; equal precedence defers to associativity (Left
// reduces, Right shifts); either side missing a precedence, or equal
// precedence with AssocNone, is unresolved.
func resolveShiftReduce(shiftProd, reduceProd *bnf.Production) (useShift bool, resolved bool) {
	if shiftProd.Prec == nil || reduceProd.Prec == nil {
		return false, false
	}
	switch {
	case *shiftProd.Prec > *reduceProd.Prec:
		return true, true
	case *shiftProd.Prec < *reduceProd.Prec:
		return false, true
	}
	switch reduceProd.Assoc {
	case grammar.AssocLeft:
		return false, true
	case grammar.AssocRight:
		return true, true
	default:
		return false, false
	}
}

// resolveReduceReduce applies only the "higher precedence wins" half of
// spec.md §4.F's rule — associativity has no meaning between two
// reductions, so equal (or absent) precedence is unresolved.
func resolveReduceReduce(prod1, prod2 *bnf.Production, idx1, idx2 int) (winner int, resolved bool) {
	if prod1.Prec == nil || prod2.Prec == nil {
		return -1, false
	}
	switch {
	case *prod1.Prec > *prod2.Prec:
		return idx1, true
	case *prod2.Prec > *prod1.Prec:
		return idx2, true
	default:
		return -1, false
	}
}
