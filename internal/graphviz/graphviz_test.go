package graphviz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/lrgen/internal/automaton"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/trace"
	"github.com/dekarrin/lrgen/internal/variant"
)

func buildGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New(trace.Nop{})
	e := g.PutSymbol(trace.Nop{}, "E", grammar.Nonterminal, 1)
	plus := g.PutSymbol(trace.Nop{}, "+", grammar.Terminal, 1)
	id := g.PutSymbol(trace.Nop{}, "id", grammar.Terminal, 1)
	g.AddProduction(trace.Nop{}, e, []int{e, plus, id})
	g.AddProduction(trace.Nop{}, e, []int{id})
	require.NoError(t, g.SetStart(trace.Nop{}, "E", 1))
	require.NoError(t, g.Validate())
	grammar.SolveAttributes(g, trace.Nop{})
	return g
}

func Test_WriteDFA_ProducesValidDigraphShape(t *testing.T) {
	g := buildGrammar(t)
	labeler := grammar.NewLabeler(g)
	policy := automaton.PolicyFor(variant.SLR, g)
	nfa := automaton.BuildNFA(g, policy, trace.Nop{})
	dfa := automaton.BuildDFA(nfa, trace.Nop{})

	var buf strings.Builder
	require.NoError(t, WriteDFA(&buf, g, labeler, dfa, Options{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph {"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "start ->")
	assert.Contains(t, out, "peripheries=2")
}

func Test_WriteNFA_NoLabelOmitsItemText(t *testing.T) {
	g := buildGrammar(t)
	labeler := grammar.NewLabeler(g)
	policy := automaton.PolicyFor(variant.SLR, g)
	nfa := automaton.BuildNFA(g, policy, trace.Nop{})

	var buf strings.Builder
	require.NoError(t, WriteNFA(&buf, g, labeler, nfa, Options{NoLabel: true}))
	out := buf.String()

	assert.Contains(t, out, "digraph {")
	assert.NotContains(t, out, grammar.Dot)
}
