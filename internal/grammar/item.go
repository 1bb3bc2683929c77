package grammar

import "strings"

// Dot is the glyph used to mark an item's position within its production's
// body, matching the original generator's display convention.
const Dot = "•"

// Item is a production with a distinguished dot position: how much of the
// production has been recognized so far. An Item with Dot == len(rhs) is a
// reduce item.
type Item struct {
	Production int
	Dot        int
}

// IsReduce reports whether the item's dot is at the end of its production's
// body, i.e. whether it denotes "ready to reduce".
func (it Item) IsReduce(g *Grammar) bool {
	return it.Dot == len(g.Production(it.Production).Body)
}

// Labeler holds a precomputed, stable display label for every (production,
// dot) item in the grammar, including the synthetic augmented production.
// Labels are the source of the graphviz node text; the steps.py trace does
// not use them.
type Labeler struct {
	// labels[production][dot] is that item's label.
	labels [][]string
}

// NewLabeler builds labels for every item of every production, plus the
// synthetic augmented rule S' -> S.
func NewLabeler(g *Grammar) *Labeler {
	l := &Labeler{labels: make([][]string, g.NumProductions()+1)}
	for pid := 0; pid <= g.NumProductions(); pid++ {
		p := g.Production(pid)
		headName := "S'"
		if pid != g.AugmentedProductionID() {
			headName = g.Symbol(p.Head).Name
		}
		n := len(p.Body)
		row := make([]string, n+1)
		for dot := 0; dot <= n; dot++ {
			row[dot] = label(g, headName, p.Body, dot)
		}
		l.labels[pid] = row
	}
	return l
}

func label(g *Grammar, headName string, body []int, dot int) string {
	var sb strings.Builder
	sb.WriteString(headName)
	sb.WriteString(" -> ")
	if len(body) == 0 {
		sb.WriteString(Dot)
		sb.WriteString(" ")
		sb.WriteString(g.Symbol(g.epsilonID).Name)
		return sb.String()
	}
	for i, s := range body {
		if i == dot {
			sb.WriteString(Dot)
			sb.WriteString(" ")
		}
		sb.WriteString(g.Symbol(s).Name)
		if i != len(body)-1 {
			sb.WriteString(" ")
		}
	}
	if dot == len(body) {
		sb.WriteString(" ")
		sb.WriteString(Dot)
	}
	return sb.String()
}

// Label returns the precomputed display label for the given item.
func (l *Labeler) Label(it Item) string {
	return l.labels[it.Production][it.Dot]
}
