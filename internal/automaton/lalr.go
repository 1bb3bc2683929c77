package automaton

import (
	"sort"

	"github.com/dekarrin/lrgen/internal/arena"
	"github.com/dekarrin/lrgen/internal/bitset"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/lrerrors"
	"github.com/dekarrin/lrgen/internal/trace"
)

// lalrClosure maps an LR(0) item (identified by its NFA state id in the
// shared LR(0) item automaton) to the lookahead constraint merged onto it
// so far. Two closures are the same LALR state iff their key sets match;
// lookaheads are merged on collision, never used for identity.
type lalrClosure map[int]*bitset.Set

func kernelKey(c lalrClosure) string {
	keys := make([]int, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return bitset.FromSlice(keys).Key()
}

type lalrEdge struct {
	from, to, action int
}

// BuildLALRDFA builds the canonical LALR(1) automaton by merging LR(0)
// kernels and propagating lookahead constraints to a fixed point, rather
// than running generic subset construction with a lookahead-aware seed
// (see component design notes on the LALR builder). lr0NFA must have been
// built with the LR(0) policy (PolicyFor(variant.LR0, g) or the LALR
// placeholder policy, which is identical).
//
// It returns an error if the merges it performed are inconsistent with a
// deterministic automaton, i.e. the grammar is not actually LALR(1).
func BuildLALRDFA(g *grammar.Grammar, lr0NFA *NFA, pool *arena.ConstraintPool, sink trace.Sink) (*DFA, error) {
	lr1 := lr1Policy{g: g}

	closeState := func(c lalrClosure) {
		stack := make([]int, 0, len(c))
		for k := range c {
			stack = append(stack, k)
		}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			constraint := c[s]
			it := lr0NFA.Item(s)
			prod := g.Production(it.Production)

			for _, tr := range lr0NFA.Transitions(s) {
				if tr.Action != lr0NFA.EpsilonAction() {
					continue
				}
				resolved := lr1.ResolveLocalConstraints(constraint, g, prod, it.Dot)
				if existing, ok := c[tr.To]; ok {
					if existing.Union(resolved) {
						stack = append(stack, tr.To)
					}
				} else {
					c[tr.To] = resolved.Clone()
					stack = append(stack, tr.To)
				}
			}
		}
	}

	eoiOnly := bitset.New(g.NumSymbols())
	eoiOnly.Add(g.EndOfInputID())
	start := lalrClosure{lr0NFA.Start(): eoiOnly}
	closeState(start)

	closures := []lalrClosure{start}
	index := map[string]int{kernelKey(start): 0}
	var edges []lalrEdge

	sink.AddState(0, "start")
	sink.SetStart(0)

	actions := make([]int, 0, g.NumSymbols())
	for a := 0; a < g.NumSymbols(); a++ {
		if a != lr0NFA.EpsilonAction() {
			actions = append(actions, a)
		}
	}

	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curClosure := closures[cur]

		for _, a := range actions {
			next := lalrClosure{}
			for nfaState, constraint := range curClosure {
				for _, tr := range lr0NFA.Transitions(nfaState) {
					if tr.Action != a {
						continue
					}
					if existing, ok := next[tr.To]; ok {
						existing.Union(constraint)
					} else {
						next[tr.To] = constraint.Clone()
					}
				}
			}
			if len(next) == 0 {
				continue
			}
			closeState(next)
			key := kernelKey(next)

			if idx, ok := index[key]; ok {
				changed := false
				for k, v := range next {
					if closures[idx][k].Union(v) {
						changed = true
					}
				}
				edges = append(edges, lalrEdge{cur, idx, a})
				sink.AddEdge(cur, idx, g.Symbol(a).Name)
				if changed {
					queue = append(queue, idx)
				}
			} else {
				idx := len(closures)
				closures = append(closures, next)
				index[key] = idx
				edges = append(edges, lalrEdge{cur, idx, a})
				sink.AddState(idx, "")
				sink.AddEdge(cur, idx, g.Symbol(a).Name)
				queue = append(queue, idx)
			}
		}
	}

	d := newDFA(g)
	for _, c := range closures {
		keys := make([]int, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Ints(keys)

		items := make([]ItemInstance, 0, len(keys))
		for _, k := range keys {
			interned := pool.Get(pool.Intern(c[k]))
			items = append(items, ItemInstance{
				Item:       lr0NFA.Item(k),
				Lookahead:  interned,
				nfaStateID: k,
			})
		}
		d.addState(items)
	}
	d.start = 0

	for _, e := range edges {
		d.addTransition(e.from, e.to, e.action)
	}

	for s := range d.states {
		if isAcceptState(lr0NFA, d.states[s]) {
			sink.SetFinal(s)
		}
	}

	if !deterministic(d) {
		return nil, lrerrors.GrammarSyntax("grammar is not LALR(1): state merges produced inconsistent transitions")
	}

	return d, nil
}

func deterministic(d *DFA) bool {
	for s := 0; s < d.NumStates(); s++ {
		seen := map[int]int{}
		for _, tr := range d.Transitions(s) {
			if to, ok := seen[tr.Action]; ok && to != tr.To {
				return false
			}
			seen[tr.Action] = tr.To
		}
	}
	return true
}
