package parsetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/lrgen/internal/automaton"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/trace"
	"github.com/dekarrin/lrgen/internal/variant"
)

// buildTableGrammar is end-to-end scenario S1's grammar:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func buildTableGrammar(t *testing.T) (*grammar.Grammar, map[string]int) {
	t.Helper()
	g := grammar.New(trace.Nop{})
	ids := map[string]int{}
	ids["E"] = g.PutSymbol(trace.Nop{}, "E", grammar.Nonterminal, 1)
	ids["+"] = g.PutSymbol(trace.Nop{}, "+", grammar.Terminal, 1)
	ids["T"] = g.PutSymbol(trace.Nop{}, "T", grammar.Nonterminal, 1)
	ids["*"] = g.PutSymbol(trace.Nop{}, "*", grammar.Terminal, 2)
	ids["F"] = g.PutSymbol(trace.Nop{}, "F", grammar.Nonterminal, 2)
	ids["("] = g.PutSymbol(trace.Nop{}, "(", grammar.Terminal, 3)
	ids[")"] = g.PutSymbol(trace.Nop{}, ")", grammar.Terminal, 3)
	ids["id"] = g.PutSymbol(trace.Nop{}, "id", grammar.Terminal, 3)

	g.AddProduction(trace.Nop{}, ids["E"], []int{ids["E"], ids["+"], ids["T"]})
	g.AddProduction(trace.Nop{}, ids["E"], []int{ids["T"]})
	g.AddProduction(trace.Nop{}, ids["T"], []int{ids["T"], ids["*"], ids["F"]})
	g.AddProduction(trace.Nop{}, ids["T"], []int{ids["F"]})
	g.AddProduction(trace.Nop{}, ids["F"], []int{ids["("], ids["E"], ids[")"]})
	g.AddProduction(trace.Nop{}, ids["F"], []int{ids["id"]})

	require.NoError(t, g.SetStart(trace.Nop{}, "E", 1))
	require.NoError(t, g.Validate())
	grammar.SolveAttributes(g, trace.Nop{})
	return g, ids
}

func buildSLRTable(t *testing.T, g *grammar.Grammar) (*Table, *automaton.DFA) {
	t.Helper()
	policy := automaton.PolicyFor(variant.SLR, g)
	nfa := automaton.BuildNFA(g, policy, trace.Nop{})
	dfa := automaton.BuildDFA(nfa, trace.Nop{})
	return Build(g, dfa, trace.Nop{}), dfa
}

// Test_S1_SLRTable_NoConflicts exercises scenario S1: the classic
// expression grammar is SLR(1), so the assembled table must record no
// conflicts at all.
func Test_S1_SLRTable_NoConflicts(t *testing.T) {
	g, _ := buildTableGrammar(t)
	table, _ := buildSLRTable(t, g)
	assert.Empty(t, table.Conflicts())
}

// Test_S3_DanglingElse_SLRConflict exercises scenario S3: the classic
// dangling-else grammar has exactly one shift/reduce conflict under SLR(1),
// at the state containing "S -> i E t S ." on lookahead "e".
//
//	S -> i E t S | i E t S e S | a
//	E -> b
func Test_S3_DanglingElse_SLRConflict(t *testing.T) {
	g := grammar.New(trace.Nop{})
	s := g.PutSymbol(trace.Nop{}, "S", grammar.Nonterminal, 1)
	i := g.PutSymbol(trace.Nop{}, "i", grammar.Terminal, 1)
	e := g.PutSymbol(trace.Nop{}, "E", grammar.Nonterminal, 1)
	tt := g.PutSymbol(trace.Nop{}, "t", grammar.Terminal, 1)
	elseTok := g.PutSymbol(trace.Nop{}, "e", grammar.Terminal, 2)
	a := g.PutSymbol(trace.Nop{}, "a", grammar.Terminal, 2)
	b := g.PutSymbol(trace.Nop{}, "b", grammar.Terminal, 3)

	g.AddProduction(trace.Nop{}, s, []int{i, e, tt, s})
	g.AddProduction(trace.Nop{}, s, []int{i, e, tt, s, elseTok, s})
	g.AddProduction(trace.Nop{}, s, []int{a})
	g.AddProduction(trace.Nop{}, e, []int{b})

	require.NoError(t, g.SetStart(trace.Nop{}, "S", 1))
	require.NoError(t, g.Validate())
	grammar.SolveAttributes(g, trace.Nop{})

	table, _ := buildSLRTable(t, g)
	conflicts := table.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, elseTok, conflicts[0].Symbol)

	var kinds []ActionKind
	for _, act := range conflicts[0].Actions {
		kinds = append(kinds, act.Kind)
	}
	assert.Contains(t, kinds, Shift)
	assert.Contains(t, kinds, Reduce)
}

// Test_S5_AmbiguousExpr_SLRConflict exercises scenario S5: a naive,
// unfactored expression grammar is ambiguous, producing a shift/reduce
// conflict on "+" under SLR(1).
//
//	E -> E + E | id
func Test_S5_AmbiguousExpr_SLRConflict(t *testing.T) {
	g := grammar.New(trace.Nop{})
	e := g.PutSymbol(trace.Nop{}, "E", grammar.Nonterminal, 1)
	plus := g.PutSymbol(trace.Nop{}, "+", grammar.Terminal, 1)
	id := g.PutSymbol(trace.Nop{}, "id", grammar.Terminal, 1)

	g.AddProduction(trace.Nop{}, e, []int{e, plus, e})
	g.AddProduction(trace.Nop{}, e, []int{id})

	require.NoError(t, g.SetStart(trace.Nop{}, "E", 1))
	require.NoError(t, g.Validate())
	grammar.SolveAttributes(g, trace.Nop{})

	table, _ := buildSLRTable(t, g)
	conflicts := table.Conflicts()
	require.NotEmpty(t, conflicts)

	found := false
	for _, c := range conflicts {
		if c.Symbol == plus {
			var kinds []ActionKind
			for _, act := range c.Actions {
				kinds = append(kinds, act.Kind)
			}
			if contains(kinds, Shift) && contains(kinds, Reduce) {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a shift/reduce conflict on + , got %+v", conflicts)
}

func contains(kinds []ActionKind, k ActionKind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// Test_S1_Render_ProducesNonEmptyDump is a smoke test confirming table
// dumping does not panic on a non-trivial table.
func Test_S1_Render_ProducesNonEmptyDump(t *testing.T) {
	g, _ := buildTableGrammar(t)
	table, dfa := buildSLRTable(t, g)
	assert.NotEmpty(t, Render(g, table, dfa))
}
