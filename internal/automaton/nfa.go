// Package automaton builds the NFA item automaton, the subset-construction
// DFA, and the specialized LALR kernel-merge DFA, and drives them all
// through one shared Policy per parser variant.
package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/lrgen/internal/bitset"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/trace"
)

// Transition is one edge of the NFA or DFA: from state, to state, labeled
// by an action id (a grammar symbol id, or EpsilonAction for an NFA-only
// predict edge).
type Transition struct {
	From, To, Action int
}

// Policy is the only per-variant code in the automaton pipeline: how a
// lookahead constraint is computed for a new seed, and how seeds of the
// same symbol are told apart (or collapsed) for canonicalization.
type Policy interface {
	// ResolveLocalConstraints computes the lookahead constraint for the
	// nonterminal at prod.Body[rhsIndex], given the constraint in force at
	// the item that predicted it.
	ResolveLocalConstraints(parent *bitset.Set, g *grammar.Grammar, prod grammar.Production, rhsIndex int) *bitset.Set

	// SeedKey returns the canonicalization key for a (symbol, constraint)
	// seed. LR(0)/SLR/LALR ignore constraint; LR(1) folds it in.
	SeedKey(symbol int, constraint *bitset.Set) string
}

// NFA is the item automaton: one state per (production, dot, lookahead)
// seed, with epsilon edges from predicting states to the predicted
// nonterminal's entry states.
type NFA struct {
	g             *grammar.Grammar
	items         []grammar.Item
	constraints   []*bitset.Set
	adj           [][]Transition
	start         int
	accept        int
	epsilonAction int
}

// NumStates returns the number of NFA states.
func (n *NFA) NumStates() int { return len(n.items) }

// Item returns the item a state represents.
func (n *NFA) Item(state int) grammar.Item { return n.items[state] }

// Constraint returns the lookahead constraint in force at a state.
func (n *NFA) Constraint(state int) *bitset.Set { return n.constraints[state] }

// Start returns the NFA's start state (S' -> . S).
func (n *NFA) Start() int { return n.start }

// Accept returns the NFA's unique accept state (S' -> S .).
func (n *NFA) Accept() int { return n.accept }

// EpsilonAction is the distinguished action id used for predict edges.
func (n *NFA) EpsilonAction() int { return n.epsilonAction }

// Transitions returns the outgoing edges of a state, sorted by action id.
func (n *NFA) Transitions(state int) []Transition { return n.adj[state] }

func (n *NFA) newState(it grammar.Item, constraint *bitset.Set) int {
	id := len(n.items)
	n.items = append(n.items, it)
	n.constraints = append(n.constraints, constraint)
	n.adj = append(n.adj, nil)
	return id
}

func (n *NFA) addTransition(from, to, action int) {
	n.adj[from] = append(n.adj[from], Transition{From: from, To: to, Action: action})
}

func (n *NFA) sortTransitions() {
	for s := range n.adj {
		sort.Slice(n.adj[s], func(i, j int) bool { return n.adj[s][i].Action < n.adj[s][j].Action })
	}
}

type seedRecord struct {
	entryState map[int]int // production id -> dot-0 state id
}

type pendingSeed struct {
	symbol     int
	constraint *bitset.Set
}

type pendingEpsilon struct {
	from     int
	targetKy string
}

// BuildNFA implements the NFA construction algorithm: the augmented
// S' -> S states, a breadth-first sweep over (nonterminal, lookahead)
// seeds building each seed's item chains, and a final pass wiring
// predict (epsilon) edges once every seed's entry states are known.
func BuildNFA(g *grammar.Grammar, policy Policy, sink trace.Sink) *NFA {
	n := &NFA{g: g, epsilonAction: g.EpsilonID()}

	aug := g.AugmentedProductionID()
	q0 := n.newState(grammar.Item{Production: aug, Dot: 0}, bitset.New(g.NumSymbols()))
	eoiOnly := bitset.New(g.NumSymbols())
	eoiOnly.Add(g.EndOfInputID())
	qAccept := n.newState(grammar.Item{Production: aug, Dot: 1}, eoiOnly)
	n.start = q0
	n.accept = qAccept
	n.addTransition(q0, qAccept, g.StartID())
	sink.AddState(q0, "S' -> . S")
	sink.SetStart(q0)
	sink.AddState(qAccept, "S' -> S .")
	sink.SetFinal(qAccept)

	startConstraint := policy.ResolveLocalConstraints(eoiOnly, g, g.Production(aug), 0)

	seeds := map[string]*seedRecord{}
	queued := map[string]bool{}
	queue := []pendingSeed{{g.StartID(), startConstraint}}
	queued[policy.SeedKey(g.StartID(), startConstraint)] = true

	epsilons := []pendingEpsilon{{from: q0, targetKy: policy.SeedKey(g.StartID(), startConstraint)}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		key := policy.SeedKey(cur.symbol, cur.constraint)
		if _, done := seeds[key]; done {
			continue
		}
		rec := &seedRecord{entryState: map[int]int{}}

		for _, pid := range g.Symbol(cur.symbol).Productions {
			prod := g.Production(pid)
			body := prod.Body
			states := make([]int, len(body)+1)
			for dot := 0; dot <= len(body); dot++ {
				states[dot] = n.newState(grammar.Item{Production: pid, Dot: dot}, cur.constraint)
				sink.AddState(states[dot], fmt.Sprintf("item(%d,%d)", pid, dot))
			}
			rec.entryState[pid] = states[0]

			for dot := 0; dot < len(body); dot++ {
				sym := body[dot]
				n.addTransition(states[dot], states[dot+1], sym)
				sink.AddEdge(states[dot], states[dot+1], g.Symbol(sym).Name)

				if g.IsNonterminal(sym) {
					local := policy.ResolveLocalConstraints(cur.constraint, g, prod, dot)
					tkey := policy.SeedKey(sym, local)
					epsilons = append(epsilons, pendingEpsilon{from: states[dot], targetKy: tkey})
					if !queued[tkey] {
						queued[tkey] = true
						queue = append(queue, pendingSeed{sym, local})
					}
				}
			}
		}

		seeds[key] = rec
	}

	for _, pe := range epsilons {
		rec, ok := seeds[pe.targetKy]
		if !ok {
			continue
		}
		targets := make([]int, 0, len(rec.entryState))
		for _, s := range rec.entryState {
			targets = append(targets, s)
		}
		sort.Ints(targets)
		for _, t := range targets {
			n.addTransition(pe.from, t, n.epsilonAction)
			sink.AddEdge(pe.from, t, "ε")
		}
	}

	n.sortTransitions()
	return n
}
