// Package recognizer drives a shift/reduce recognizer from an assembled
// parse table: a state stack, a symbol stack, and an input queue, stepped
// either one transition at a time (for --step) or to completion (Run).
package recognizer

import (
	"github.com/dekarrin/lrgen/internal/grammar"
	"github.com/dekarrin/lrgen/internal/lrerrors"
	"github.com/dekarrin/lrgen/internal/parsetable"
	"github.com/dekarrin/lrgen/internal/trace"
	"github.com/dekarrin/lrgen/internal/util"
)

// Driver is a stack-based shift/reduce recognizer. The zero value is not
// usable; construct with New.
type Driver struct {
	g     *grammar.Grammar
	table *parsetable.Table
	sink  trace.Sink

	states  []int
	symbols []int
	nodes   []int
	nextID  int

	input []int
	pos   int

	done     bool
	accepted bool
}

// New builds a Driver starting at start (the DFA's start state id) that
// will consume input in order. input must end with the grammar's
// end-of-input symbol.
func New(g *grammar.Grammar, table *parsetable.Table, start int, input []int, sink trace.Sink) *Driver {
	return &Driver{
		g:      g,
		table:  table,
		sink:   sink,
		states: []int{start},
		input:  input,
	}
}

// Done reports whether the driver has halted (accepted or errored).
func (d *Driver) Done() bool { return d.done }

// Accepted reports whether the driver halted in the accept state. Only
// meaningful once Done() is true.
func (d *Driver) Accepted() bool { return d.accepted }

func (d *Driver) top() int { return d.states[len(d.states)-1] }

func (d *Driver) peekInput() (int, bool) {
	if d.pos >= len(d.input) {
		return 0, false
	}
	return d.input[d.pos], true
}

// Step performs exactly one shift, reduce, or accept transition and
// returns a human-readable description of what happened. It is an error
// to call Step again once Done() is true.
func (d *Driver) Step() (string, error) {
	if d.done {
		return "", lrerrors.Recognizer("recognizer has already halted")
	}

	a, ok := d.peekInput()
	if !ok {
		return "", lrerrors.Recognizer("input exhausted without reaching accept")
	}
	if a == d.g.EpsilonID() || d.g.IsNonterminal(a) {
		return "", lrerrors.Recognizerf("input symbol %q is not a valid terminal", d.g.Symbol(a).Name)
	}

	s := d.top()
	actions := d.table.Cell(s, a)
	switch len(actions) {
	case 0:
		return "", lrerrors.Recognizerf("unexpected %q; expected %s", d.g.Symbol(a).Name, d.expectedList(s))
	default:
		if len(actions) > 1 {
			return "", lrerrors.Recognizerf("conflicted cell at state %d on %q", s, d.g.Symbol(a).Name)
		}
	}

	action := actions[0]
	switch action.Kind {
	case parsetable.Shift:
		d.states = append(d.states, action.Target)
		d.symbols = append(d.symbols, a)
		d.nodes = append(d.nodes, d.newNode(d.g.Symbol(a).Name))
		d.pos++
		return shiftDesc(d.g, a, action.Target), nil

	case parsetable.Reduce:
		prod := d.g.Production(action.Target)
		k := len(prod.Body)
		if k > 0 {
			if !d.topMatches(prod.Body) {
				return "", lrerrors.Recognizerf("reduce by production %d: stack does not match production body", action.Target)
			}
			d.states = d.states[:len(d.states)-k]
			d.symbols = d.symbols[:len(d.symbols)-k]
		}
		parent := d.newNode(d.g.Symbol(prod.Head).Name)
		childNodes := d.nodes[len(d.nodes)-k:]
		for _, c := range childNodes {
			d.sink.ASTSetParent(c, parent)
		}
		if k > 0 {
			d.nodes = d.nodes[:len(d.nodes)-k]
		}
		d.nodes = append(d.nodes, parent)

		newTop := d.top()
		gotoActions := d.table.Cell(newTop, prod.Head)
		if len(gotoActions) != 1 || gotoActions[0].Kind != parsetable.Goto {
			return "", lrerrors.Recognizerf("missing or ambiguous goto for state %d on %q after reducing", newTop, d.g.Symbol(prod.Head).Name)
		}
		d.states = append(d.states, gotoActions[0].Target)
		d.symbols = append(d.symbols, prod.Head)
		return reduceDesc(d.g, action.Target, prod), nil

	case parsetable.Accept:
		d.done = true
		d.accepted = true
		return "accept", nil

	default:
		return "", lrerrors.Recognizerf("unknown action kind at state %d on %q", s, d.g.Symbol(a).Name)
	}
}

func (d *Driver) expectedList(state int) string {
	expected := d.table.ExpectedTerminals(state)
	if len(expected) == 0 {
		return "nothing (state has no valid continuation)"
	}
	names := make([]string, len(expected))
	for i, sym := range expected {
		names[i] = d.g.Symbol(sym).Name
	}
	return util.MakeTextList(names)
}

func (d *Driver) topMatches(body []int) bool {
	n := len(body)
	if len(d.symbols) < n {
		return false
	}
	top := d.symbols[len(d.symbols)-n:]
	for i := range body {
		if top[i] != body[i] {
			return false
		}
	}
	return true
}

func (d *Driver) newNode(label string) int {
	id := d.nextID
	d.nextID++
	d.sink.ASTAddNode(id, label)
	return id
}

// Run drives the recognizer to completion, stopping at ACCEPT or the
// first error.
func (d *Driver) Run() (bool, error) {
	for !d.done {
		if _, err := d.Step(); err != nil {
			d.done = true
			return false, err
		}
	}
	return d.accepted, nil
}

func shiftDesc(g *grammar.Grammar, symbol, toState int) string {
	return "shift " + g.Symbol(symbol).Name + " -> state " + itoa(toState)
}

func reduceDesc(g *grammar.Grammar, prodID int, prod grammar.Production) string {
	return "reduce by " + g.StringifyProduction(prod) + " (production " + itoa(prodID) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
