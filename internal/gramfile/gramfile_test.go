package gramfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/lrgen/internal/trace"
)

func Test_Parse_SimpleGrammar(t *testing.T) {
	text := `E -> E + T
	| T

T -> T * F
	| F

F -> ( E )
	| id
`
	g, err := Parse(text, DefaultOptions(), trace.Nop{})
	require.NoError(t, err)

	eID, ok := g.Lookup("E")
	require.True(t, ok)
	assert.Equal(t, g.StartID(), eID)
	assert.True(t, g.IsNonterminal(eID))

	idID, ok := g.Lookup("id")
	require.True(t, ok)
	assert.True(t, g.IsTerminal(idID))

	assert.Equal(t, 6, g.NumProductions())
}

func Test_Parse_EpsilonProduction(t *testing.T) {
	text := `S -> A

A -> epsilon
`
	g, err := Parse(text, DefaultOptions(), trace.Nop{})
	require.NoError(t, err)

	aID, ok := g.Lookup("A")
	require.True(t, ok)
	var found bool
	for _, p := range g.AllProductions() {
		if p.Head == aID && len(p.Body) == 0 {
			found = true
		}
	}
	assert.True(t, found)
}

func Test_Parse_EpsilonWithOtherSymbolsIsError(t *testing.T) {
	text := `S -> epsilon A
`
	_, err := Parse(text, DefaultOptions(), trace.Nop{})
	assert.Error(t, err)
}

func Test_Parse_EndOfInputSymbolInBodyIsError(t *testing.T) {
	text := "S -> a $\n"
	_, err := Parse(text, DefaultOptions(), trace.Nop{})
	assert.Error(t, err)
}

func Test_Parse_CustomSeparator(t *testing.T) {
	text := `S ::= a
`
	g, err := Parse(text, Options{Sep: "::="}, trace.Nop{})
	require.NoError(t, err)
	_, ok := g.Lookup("S")
	assert.True(t, ok)
}

func Test_Parse_MissingSeparatorIsError(t *testing.T) {
	text := `S a
`
	_, err := Parse(text, DefaultOptions(), trace.Nop{})
	assert.Error(t, err)
}
