package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/lrgen/internal/arena"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/trace"
	"github.com/dekarrin/lrgen/internal/variant"
)

// buildExprGrammar is end-to-end scenario S1's grammar:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func buildExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New(trace.Nop{})
	e := g.PutSymbol(trace.Nop{}, "E", grammar.Nonterminal, 1)
	plus := g.PutSymbol(trace.Nop{}, "+", grammar.Terminal, 1)
	tt := g.PutSymbol(trace.Nop{}, "T", grammar.Nonterminal, 1)
	star := g.PutSymbol(trace.Nop{}, "*", grammar.Terminal, 2)
	f := g.PutSymbol(trace.Nop{}, "F", grammar.Nonterminal, 2)
	lp := g.PutSymbol(trace.Nop{}, "(", grammar.Terminal, 3)
	rp := g.PutSymbol(trace.Nop{}, ")", grammar.Terminal, 3)
	id := g.PutSymbol(trace.Nop{}, "id", grammar.Terminal, 3)

	g.AddProduction(trace.Nop{}, e, []int{e, plus, tt})
	g.AddProduction(trace.Nop{}, e, []int{tt})
	g.AddProduction(trace.Nop{}, tt, []int{tt, star, f})
	g.AddProduction(trace.Nop{}, tt, []int{f})
	g.AddProduction(trace.Nop{}, f, []int{lp, e, rp})
	g.AddProduction(trace.Nop{}, f, []int{id})

	require.NoError(t, g.SetStart(trace.Nop{}, "E", 1))
	require.NoError(t, g.Validate())
	grammar.SolveAttributes(g, trace.Nop{})
	return g
}

func Test_BuildDFA_IsDeterministic(t *testing.T) {
	g := buildExprGrammar(t)
	policy := PolicyFor(variant.SLR, g)
	nfa := BuildNFA(g, policy, trace.Nop{})
	dfa := BuildDFA(nfa, trace.Nop{})

	assert.True(t, deterministic(dfa))
	assert.Greater(t, dfa.NumStates(), 1)
}

// Test_EpsilonGrammar_LR0 mirrors scenario S4.
func Test_EpsilonGrammar_LR0(t *testing.T) {
	g := grammar.New(trace.Nop{})
	s := g.PutSymbol(trace.Nop{}, "S", grammar.Nonterminal, 1)
	a := g.PutSymbol(trace.Nop{}, "A", grammar.Nonterminal, 1)
	g.AddProduction(trace.Nop{}, s, []int{a})
	g.AddProduction(trace.Nop{}, a, []int{})
	require.NoError(t, g.SetStart(trace.Nop{}, "S", 1))
	require.NoError(t, g.Validate())
	grammar.SolveAttributes(g, trace.Nop{})

	policy := PolicyFor(variant.LR0, g)
	nfa := BuildNFA(g, policy, trace.Nop{})
	dfa := BuildDFA(nfa, trace.Nop{})

	// the start state holds the reduce item A -> epsilon and must have a
	// GOTO on A (to the state holding S -> A •).
	foundGotoOnA := false
	for _, tr := range dfa.Transitions(dfa.Start()) {
		if tr.Action == a {
			foundGotoOnA = true
		}
	}
	assert.True(t, foundGotoOnA)
}

func Test_LALR_ProducesNoMoreStatesThanLR1(t *testing.T) {
	// S -> C C ; C -> c C | d   (scenario S2)
	g := grammar.New(trace.Nop{})
	s := g.PutSymbol(trace.Nop{}, "S", grammar.Nonterminal, 1)
	c := g.PutSymbol(trace.Nop{}, "C", grammar.Nonterminal, 1)
	cTerm := g.PutSymbol(trace.Nop{}, "c", grammar.Terminal, 2)
	d := g.PutSymbol(trace.Nop{}, "d", grammar.Terminal, 2)
	g.AddProduction(trace.Nop{}, s, []int{c, c})
	g.AddProduction(trace.Nop{}, c, []int{cTerm, c})
	g.AddProduction(trace.Nop{}, c, []int{d})
	require.NoError(t, g.SetStart(trace.Nop{}, "S", 1))
	require.NoError(t, g.Validate())
	grammar.SolveAttributes(g, trace.Nop{})

	lr1Policy := PolicyFor(variant.LR1, g)
	lr1NFA := BuildNFA(g, lr1Policy, trace.Nop{})
	lr1DFA := BuildDFA(lr1NFA, trace.Nop{})

	lr0Policy := PolicyFor(variant.LR0, g)
	lr0NFA := BuildNFA(g, lr0Policy, trace.Nop{})
	pool := arena.NewConstraintPool()
	lalrDFA, err := BuildLALRDFA(g, lr0NFA, pool, trace.Nop{})
	require.NoError(t, err)

	assert.LessOrEqual(t, lalrDFA.NumStates(), lr1DFA.NumStates())
}
