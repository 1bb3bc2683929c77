package automaton

import (
	"strconv"

	"github.com/dekarrin/lrgen/internal/bitset"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/variant"
)

// PolicyFor returns the Policy implementing the lookahead-resolution and
// seed-canonicalization rules for v.
func PolicyFor(v variant.Variant, g *grammar.Grammar) Policy {
	switch v {
	case variant.LR0:
		return lr0Policy{all: g.AllTerminalsConstraint()}
	case variant.SLR:
		return slrPolicy{g: g}
	case variant.LR1:
		return lr1Policy{g: g}
	case variant.LALR:
		// LALR's NFA is structurally the LR(0) NFA; true lookaheads are
		// computed separately by the LALR kernel-merge builder (see
		// lalr.go), not during NFA construction.
		return lr0Policy{all: g.AllTerminalsConstraint()}
	default:
		panic("automaton: unknown variant")
	}
}

type lr0Policy struct{ all *bitset.Set }

func (p lr0Policy) ResolveLocalConstraints(_ *bitset.Set, _ *grammar.Grammar, _ grammar.Production, _ int) *bitset.Set {
	return p.all
}

func (lr0Policy) SeedKey(symbol int, _ *bitset.Set) string {
	return strconv.Itoa(symbol)
}

type slrPolicy struct{ g *grammar.Grammar }

func (p slrPolicy) ResolveLocalConstraints(_ *bitset.Set, g *grammar.Grammar, prod grammar.Production, rhsIndex int) *bitset.Set {
	return g.Symbol(prod.Body[rhsIndex]).Follow
}

func (slrPolicy) SeedKey(symbol int, _ *bitset.Set) string {
	return strconv.Itoa(symbol)
}

type lr1Policy struct{ g *grammar.Grammar }

func (p lr1Policy) ResolveLocalConstraints(parent *bitset.Set, g *grammar.Grammar, prod grammar.Production, rhsIndex int) *bitset.Set {
	rest, allNullable := grammar.FirstOfSequence(g, prod.Body, rhsIndex+1)
	if allNullable {
		rest.Union(parent)
	}
	return rest
}

func (lr1Policy) SeedKey(symbol int, constraint *bitset.Set) string {
	return strconv.Itoa(symbol) + "|" + constraint.Key()
}
