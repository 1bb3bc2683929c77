package parsetable

import (
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/lrgen/internal/automaton"
	"github.com/dekarrin/lrgen/internal/grammar"
)

// Render produces a human-readable dump of the table, one row per state,
// terminal columns (ACTION) then nonterminal columns (GOTO) separated by a
// bar, matching the layout the generator's table-dump CLI output uses.
func Render(g *grammar.Grammar, t *Table, dfa *automaton.DFA) string {
	var terms, nonterms []int
	for id := 0; id < g.NumSymbols(); id++ {
		if id == g.EpsilonID() {
			continue
		}
		if g.IsTerminal(id) {
			terms = append(terms, id)
		} else if g.IsNonterminal(id) {
			nonterms = append(nonterms, id)
		}
	}

	header := []string{"state"}
	for _, term := range terms {
		header = append(header, g.Symbol(term).Name)
	}
	header = append(header, "|")
	for _, nt := range nonterms {
		header = append(header, g.Symbol(nt).Name)
	}

	data := [][]string{header}
	for s := 0; s < dfa.NumStates(); s++ {
		row := []string{strconv.Itoa(s)}
		for _, term := range terms {
			row = append(row, cellText(t.Cell(s, term)))
		}
		row = append(row, "|")
		for _, nt := range nonterms {
			row = append(row, cellText(t.Cell(s, nt)))
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func cellText(actions []Action) string {
	if len(actions) == 0 {
		return ""
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
