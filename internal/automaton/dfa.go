package automaton

import (
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/dekarrin/lrgen/internal/bitset"
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/trace"
)

// ItemInstance is one NFA-derived item living inside a DFA state's closure,
// together with the lookahead constraint in force for it.
type ItemInstance struct {
	Item       grammar.Item
	Lookahead  *bitset.Set
	nfaStateID int // retained for diagnostics/labels; -1 if synthesized
}

// DFA is the deterministic automaton produced either by generic subset
// construction (LR(0)/SLR/LR(1)) or by the specialized LALR kernel-merge
// builder. Both populate the same shape so the parse-table assembler and
// recognizer never need to know which one built it.
type DFA struct {
	g      *grammar.Grammar
	states [][]ItemInstance
	edges  *arraylist.List // all Transitions between every pair of states
	start  int
}

func (d *DFA) NumStates() int                 { return len(d.states) }
func (d *DFA) Items(state int) []ItemInstance { return d.states[state] }

// Transitions returns every edge leading out of state, in the order they
// were added.
func (d *DFA) Transitions(state int) []Transition {
	var out []Transition
	d.edges.Each(func(_ int, v interface{}) {
		tr := v.(Transition)
		if tr.From == state {
			out = append(out, tr)
		}
	})
	return out
}
func (d *DFA) Start() int { return d.start }

// Grammar returns the grammar this DFA was built from.
func (d *DFA) Grammar() *grammar.Grammar { return d.g }

// newDFA is the shared constructor both builders append to.
func newDFA(g *grammar.Grammar) *DFA {
	return &DFA{g: g, edges: arraylist.New()}
}

func (d *DFA) addState(items []ItemInstance) int {
	id := len(d.states)
	d.states = append(d.states, items)
	return id
}

func (d *DFA) addTransition(from, to, action int) {
	d.edges.Add(Transition{From: from, To: to, Action: action})
}

func closeEpsilon(nfa *NFA, seed []int) *bitset.Set {
	closure := bitset.New(nfa.NumStates())
	var stack []int
	for _, s := range seed {
		if closure.Add(s) {
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, tr := range nfa.Transitions(s) {
			if tr.Action != nfa.EpsilonAction() {
				continue
			}
			if closure.Add(tr.To) {
				stack = append(stack, tr.To)
			}
		}
	}
	return closure
}

func buildReceivers(nfa *NFA) map[int]*bitset.Set {
	receivers := make(map[int]*bitset.Set)
	for s := 0; s < nfa.NumStates(); s++ {
		for _, tr := range nfa.Transitions(s) {
			if tr.Action == nfa.EpsilonAction() {
				continue
			}
			r, ok := receivers[tr.Action]
			if !ok {
				r = bitset.New(nfa.NumStates())
				receivers[tr.Action] = r
			}
			r.Add(s)
		}
	}
	return receivers
}

// BuildDFA performs subset construction (Algorithm 3.20-style): the start
// state is the epsilon-closure of the NFA's start state, and each BFS wave
// computes, for every action in action-id order, the closure of the set of
// destinations reachable under that action, creating a new DFA state only
// when that closure has not been seen before.
func BuildDFA(nfa *NFA, sink trace.Sink) *DFA {
	d := newDFA(nfa.g)
	receivers := buildReceivers(nfa)

	actions := make([]int, 0, len(receivers))
	for a := range receivers {
		actions = append(actions, a)
	}
	sort.Ints(actions)

	startClosure := closeEpsilon(nfa, []int{nfa.Start()})
	startID := d.addState(itemsOf(nfa, startClosure))
	d.start = startID
	byKey := map[string]int{startClosure.Key(): startID}
	sink.AddState(startID, "start")
	sink.SetStart(startID)

	queue := []struct {
		id      int
		closure *bitset.Set
	}{{startID, startClosure}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, a := range actions {
			candidates := cur.closure.Clone()
			candidates.Intersect(receivers[a])
			if candidates.Empty() {
				continue
			}
			var dests []int
			for _, s := range candidates.Elements() {
				for _, tr := range nfa.Transitions(s) {
					if tr.Action == a {
						dests = append(dests, tr.To)
					}
				}
			}
			next := closeEpsilon(nfa, dests)
			key := next.Key()
			if id, ok := byKey[key]; ok {
				d.addTransition(cur.id, id, a)
				continue
			}
			id := d.addState(itemsOf(nfa, next))
			byKey[key] = id
			d.addTransition(cur.id, id, a)
			sink.AddState(id, "")
			sink.AddEdge(cur.id, id, nfa.g.Symbol(a).Name)
			queue = append(queue, struct {
				id      int
				closure *bitset.Set
			}{id, next})
		}
	}

	for s := range d.states {
		if isAcceptState(nfa, d.states[s]) {
			sink.SetFinal(s)
		}
	}

	return d
}

func itemsOf(nfa *NFA, closure *bitset.Set) []ItemInstance {
	ids := closure.Elements()
	out := make([]ItemInstance, 0, len(ids))
	for _, id := range ids {
		out = append(out, ItemInstance{
			Item:       nfa.Item(id),
			Lookahead:  nfa.Constraint(id),
			nfaStateID: id,
		})
	}
	return out
}

func isAcceptState(nfa *NFA, items []ItemInstance) bool {
	for _, it := range items {
		if it.nfaStateID == nfa.Accept() {
			return true
		}
	}
	return false
}
