// Package parsetable assembles a dense [state x symbol] parse table from a
// DFA, recording rather than resolving conflicts.
package parsetable

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/dekarrin/lrgen/internal/automaton"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/trace"
)

// ActionKind distinguishes the four parse-action shapes.
type ActionKind int

const (
	Shift ActionKind = iota
	Goto
	Reduce
	Accept
)

// Action is one parse-table cell entry.
type Action struct {
	Kind   ActionKind
	Target int // state id for Shift/Goto, production id for Reduce, unused for Accept
}

// String renders an action the way the assembler's dump does: sN for
// shift, rN for reduce, bare N for goto, acc for accept.
func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("s%d", a.Target)
	case Goto:
		return fmt.Sprintf("%d", a.Target)
	case Reduce:
		return fmt.Sprintf("r%d", a.Target)
	case Accept:
		return "acc"
	default:
		return "?"
	}
}

func (a Action) equal(b Action) bool { return a.Kind == b.Kind && a.Target == b.Target }

// Conflict records a cell that received more than one distinct action.
type Conflict struct {
	State, Symbol int
	Actions       []Action
}

func conflictComparator(a, b interface{}) int {
	ca, cb := a.(Conflict), b.(Conflict)
	if ca.State != cb.State {
		return ca.State - cb.State
	}
	return ca.Symbol - cb.Symbol
}

type cellKey struct{ state, symbol int }

// Table is the assembled [state x symbol] parse table.
type Table struct {
	g         *grammar.Grammar
	cells     map[cellKey][]Action
	conflicts []Conflict
}

// Cell returns the actions recorded for (state, symbol), which may be
// empty (error), a single action, or (if conflicted) more than one.
func (t *Table) Cell(state, symbol int) []Action {
	return t.cells[cellKey{state, symbol}]
}

// Conflicts returns every recorded conflict, ordered by (state, symbol).
func (t *Table) Conflicts() []Conflict {
	return t.conflicts
}

// ExpectedTerminals returns, in id order, every terminal symbol for which
// state has at least one action (shift, reduce, or accept). Used to build
// "expected X, Y, and Z" recognizer error messages.
func (t *Table) ExpectedTerminals(state int) []int {
	var out []int
	for sym := 0; sym < t.g.NumSymbols(); sym++ {
		if !t.g.IsTerminal(sym) {
			continue
		}
		if len(t.Cell(state, sym)) > 0 {
			out = append(out, sym)
		}
	}
	return out
}

func (t *Table) add(state, symbol int, a Action, sink trace.Sink) {
	key := cellKey{state, symbol}
	existing := t.cells[key]
	for _, e := range existing {
		if e.equal(a) {
			return
		}
	}
	t.cells[key] = append(existing, a)
	sink.AddTableEntry(state, symbol, a.String())
}

// Build assembles the parse table for dfa: shift/goto entries from every
// DFA transition, reduce entries from every reduce item's lookahead
// constraint (already variant-correct: the generic builder's NFA
// constraints and the LALR builder's merged constraints both already hold
// exactly the terminals this specification calls for per variant), and an
// accept entry at the state containing the augmented accept kernel.
//
// No conflict is ever resolved here; a cell that accumulates more than one
// distinct action is recorded in Conflicts and left as-is.
func Build(g *grammar.Grammar, dfa *automaton.DFA, sink trace.Sink) *Table {
	t := &Table{g: g, cells: make(map[cellKey][]Action)}
	augID := g.AugmentedProductionID()

	for s := 0; s < dfa.NumStates(); s++ {
		for _, tr := range dfa.Transitions(s) {
			if g.IsTerminal(tr.Action) {
				t.add(s, tr.Action, Action{Kind: Shift, Target: tr.To}, sink)
			} else {
				t.add(s, tr.Action, Action{Kind: Goto, Target: tr.To}, sink)
			}
		}

		for _, inst := range dfa.Items(s) {
			if inst.Item.Production == augID {
				if inst.Item.IsReduce(g) {
					t.add(s, g.EndOfInputID(), Action{Kind: Accept}, sink)
				}
				continue
			}
			if !inst.Item.IsReduce(g) {
				continue
			}
			for _, term := range inst.Lookahead.Elements() {
				t.add(s, term, Action{Kind: Reduce, Target: inst.Item.Production}, sink)
			}
		}
	}

	t.collectConflicts(sink)
	return t
}

func (t *Table) collectConflicts(sink trace.Sink) {
	set := treeset.NewWith(conflictComparator)
	for key, actions := range t.cells {
		if len(actions) > 1 {
			set.Add(Conflict{State: key.state, Symbol: key.symbol, Actions: append([]Action(nil), actions...)})
		}
	}
	for _, v := range set.Values() {
		t.conflicts = append(t.conflicts, v.(Conflict))
	}
}
