package lrerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_UnresolvedSymbol(t *testing.T) {
	err := UnresolvedSymbol("X", 12)
	assert.Contains(t, err.Error(), "X")
	assert.Contains(t, err.Error(), "12")
	assert.True(t, As(err, KindUnresolvedSymbol))
	assert.False(t, As(err, KindRecognizer))
}

func Test_WrapGrammarSyntax_Unwraps(t *testing.T) {
	inner := errors.New("boom")
	err := WrapGrammarSyntax(inner, "bad token")
	assert.Equal(t, inner, errors.Unwrap(err))
	assert.True(t, As(err, KindGrammarSyntax))
}

func Test_HumanMessage(t *testing.T) {
	err := Recognizerf("empty cell at state %d on %q", 3, "+")
	assert.Equal(t, "empty cell at state 3 on \"+\"", HumanMessage(err))

	plain := errors.New("plain")
	assert.Equal(t, "plain", HumanMessage(plain))
}
