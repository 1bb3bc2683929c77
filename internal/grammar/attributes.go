package grammar

import (
	"github.com/dekarrin/lrgen/internal/bitset"
	"github.com/dekarrin/lrgen/internal/trace"
)

// SolveAttributes runs the nullable/FIRST/FOLLOW fixed-point computations
// in the order the rest of the generator depends on: nullable must be
// known before FIRST, and FIRST before FOLLOW. It mutates g's symbol table
// in place and is idempotent: calling it again on an already-solved
// grammar changes nothing. Every settled attribute value is reported to
// sink as it is discovered.
func SolveAttributes(g *Grammar, sink trace.Sink) {
	solveNullable(g, sink)
	solveFirst(g, sink)
	solveFollow(g, sink)
}

func solveNullable(g *Grammar, sink trace.Sink) {
	for i := range g.symbols {
		g.symbols[i].Nullable = false
	}
	g.symbols[g.epsilonID].Nullable = true

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			if g.symbols[p.Head].Nullable {
				continue
			}
			allNullable := true
			for _, s := range p.Body {
				if !g.symbols[s].Nullable {
					allNullable = false
					break
				}
			}
			if len(p.Body) == 0 {
				allNullable = true
			}
			if allNullable {
				g.symbols[p.Head].Nullable = true
				sink.SymbolNullable(p.Head, true)
				changed = true
			}
		}
	}
}

func solveFirst(g *Grammar, sink trace.Sink) {
	for i := range g.symbols {
		sym := &g.symbols[i]
		sym.First = bitset.New(g.NumSymbols())
		if sym.Kind == Terminal {
			sym.First.Add(sym.ID)
			sink.SymbolFirstAdd(sym.ID, sym.ID)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			head := &g.symbols[p.Head]
			if len(p.Body) == 0 {
				if head.First.Add(g.epsilonID) {
					sink.SymbolFirstAdd(p.Head, g.epsilonID)
					changed = true
				}
				continue
			}
			for _, s := range p.Body {
				if head.First.Union(g.symbols[s].First) {
					sink.SymbolFirstUpdate(p.Head, s)
					changed = true
				}
				if !g.symbols[s].Nullable {
					break
				}
			}
		}
	}
}

// FirstOfSequence computes FIRST of syms[from:] (e.g. a production's rhs
// tail) the same way the FIRST fixed point does: union in FIRST of each
// symbol in turn, stopping at the first non-nullable one. It reports
// whether the whole suffix is nullable (in which case the caller should
// also union in whatever follows, e.g. a parent lookahead constraint).
func FirstOfSequence(g *Grammar, syms []int, from int) (*bitset.Set, bool) {
	result := bitset.New(g.NumSymbols())
	allNullable := true
	for i := from; i < len(syms); i++ {
		s := syms[i]
		result.Union(g.symbols[s].First)
		if !g.symbols[s].Nullable {
			allNullable = false
			break
		}
	}
	result.Remove(g.epsilonID)
	return result, allNullable
}

func solveFollow(g *Grammar, sink trace.Sink) {
	for i := range g.symbols {
		g.symbols[i].Follow = bitset.New(g.NumSymbols())
	}
	if g.symbols[g.startID].Follow.Add(g.eoiID) {
		sink.SymbolFollowAdd(g.startID, g.eoiID)
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			for i, s := range p.Body {
				if g.symbols[s].Kind != Nonterminal {
					continue
				}
				// FOLLOW(s) gains FIRST(rest-of-body-after-s), walking one
				// adjacent symbol at a time; if the whole remainder is
				// nullable, FOLLOW(s) also gains FOLLOW(head).
				allNullable := true
				for j := i + 1; j < len(p.Body); j++ {
					next := p.Body[j]
					firstNext := g.symbols[next].First.Clone()
					if g.symbols[s].Follow.Union(firstNext) {
						sink.SymbolFollowUpdateFromFirst(s, next)
						changed = true
					}
					if !g.symbols[next].Nullable {
						allNullable = false
						break
					}
				}
				if allNullable {
					if g.symbols[s].Follow.Union(g.symbols[p.Head].Follow) {
						sink.SymbolFollowUpdate(s, p.Head)
						changed = true
					}
				}
			}
		}
	}

	for i := range g.symbols {
		if g.symbols[i].Follow.Has(g.epsilonID) {
			g.symbols[i].Follow.Remove(g.epsilonID)
			sink.SymbolFollowDiscard(i, g.epsilonID)
		}
	}
}
