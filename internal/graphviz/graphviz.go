// Package graphviz renders an item automaton as a Graphviz digraph, one
// node per state and one edge per transition, matching the NFA.gv/DFA.gv
// output the CLI writes alongside a run's trace.
package graphviz

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/lrgen/internal/automaton"
	"github.com/dekarrin/lrgen/internal/grammar"
)

// Options controls node labeling.
type Options struct {
	// NoLabel suppresses item text in node labels, showing only the state
	// number (for --no-label, where large automata produce unreadable
	// item dumps).
	NoLabel bool
}

// WriteDFA writes dfa as a digraph to w. Accept states are drawn with a
// double border.
func WriteDFA(w io.Writer, g *grammar.Grammar, labeler *grammar.Labeler, dfa *automaton.DFA, opts Options) error {
	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("rankdir=LR;\n")
	b.WriteString("node [shape=box, fontname=monospace, fontsize=10];\n")
	b.WriteString("edge [fontname=monospace, fontsize=10];\n\n")
	b.WriteString("start [shape=point];\n")
	fmt.Fprintf(&b, "start -> s%d;\n\n", dfa.Start())

	for s := 0; s < dfa.NumStates(); s++ {
		peripheries := 1
		if isAccept(g, dfa, s) {
			peripheries = 2
		}
		fmt.Fprintf(&b, "s%d [peripheries=%d, label=%s];\n", s, peripheries, nodeLabel(g, labeler, dfa, s, opts))
	}
	b.WriteString("\n")
	for s := 0; s < dfa.NumStates(); s++ {
		for _, tr := range dfa.Transitions(s) {
			fmt.Fprintf(&b, "s%d -> s%d [label=%q];\n", s, tr.To, g.Symbol(tr.Action).Name)
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteNFA writes nfa as a digraph to w. Epsilon transitions are drawn
// with a dashed style and an empty label.
func WriteNFA(w io.Writer, g *grammar.Grammar, labeler *grammar.Labeler, nfa *automaton.NFA, opts Options) error {
	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("rankdir=LR;\n")
	b.WriteString("node [shape=box, fontname=monospace, fontsize=10];\n")
	b.WriteString("edge [fontname=monospace, fontsize=10];\n\n")
	b.WriteString("start [shape=point];\n")
	fmt.Fprintf(&b, "start -> n%d;\n\n", nfa.Start())

	for s := 0; s < nfa.NumStates(); s++ {
		peripheries := 1
		if s == nfa.Accept() {
			peripheries = 2
		}
		label := fmt.Sprintf("%q", fmt.Sprintf("%d", s))
		if !opts.NoLabel {
			label = fmt.Sprintf("%q", fmt.Sprintf("%d\\n%s", s, labeler.Label(nfa.Item(s))))
		}
		fmt.Fprintf(&b, "n%d [peripheries=%d, label=%s];\n", s, peripheries, label)
	}
	b.WriteString("\n")
	for s := 0; s < nfa.NumStates(); s++ {
		for _, tr := range nfa.Transitions(s) {
			if tr.Action == nfa.EpsilonAction() {
				fmt.Fprintf(&b, "n%d -> n%d [style=dashed, label=\"\"];\n", s, tr.To)
				continue
			}
			fmt.Fprintf(&b, "n%d -> n%d [label=%q];\n", s, tr.To, g.Symbol(tr.Action).Name)
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func isAccept(g *grammar.Grammar, dfa *automaton.DFA, s int) bool {
	aug := g.AugmentedProductionID()
	for _, inst := range dfa.Items(s) {
		if inst.Item.Production == aug && inst.Item.IsReduce(g) {
			return true
		}
	}
	return false
}

func nodeLabel(g *grammar.Grammar, labeler *grammar.Labeler, dfa *automaton.DFA, s int, opts Options) string {
	if opts.NoLabel {
		return fmt.Sprintf("%q", fmt.Sprintf("%d", s))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d", s)
	for _, inst := range dfa.Items(s) {
		b.WriteString("\\n")
		b.WriteString(labeler.Label(inst.Item))
	}
	return fmt.Sprintf("%q", b.String())
}
