// Package grammar implements the integer-id symbol table, production
// table, and augmented-start machinery the rest of the generator builds
// on. Every symbol and production is addressed by a dense non-negative id
// assigned in declaration order; there are no string-keyed lookups once a
// Grammar has been built and validated.
package grammar

import (
	"github.com/dekarrin/lrgen/internal/bitset"
	"github.com/dekarrin/lrgen/internal/lrerrors"
	"github.com/dekarrin/lrgen/internal/trace"
)

// Kind is the role a Symbol plays in the grammar.
type Kind int

const (
	// Unchecked is a placeholder kind used only while the grammar reader is
	// still parsing a file; every symbol must be upgraded to Terminal or
	// Nonterminal before attribute computation.
	Unchecked Kind = iota
	Terminal
	Nonterminal
)

func (k Kind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Nonterminal:
		return "nonterminal"
	default:
		return "unchecked"
	}
}

// Symbol is one entry of the grammar's symbol table.
type Symbol struct {
	ID   int
	Name string
	Kind Kind

	// Productions lists the ids of productions with this symbol as head.
	// Empty for terminals.
	Productions []int

	Nullable bool
	First    *bitset.Set
	Follow   *bitset.Set

	// line is the source line the symbol was first mentioned on, used for
	// unresolved-symbol error reporting. Zero if not set by a reader.
	line int
}

// Production is a single grammar rule: Head -> Body (an empty Body is an
// epsilon production).
type Production struct {
	ID   int
	Head int
	Body []int
}

// Grammar is the symbol table, production table, and bookkeeping needed to
// augment the grammar and validate it before attribute computation.
type Grammar struct {
	symbols     []Symbol
	byName      map[string]int
	productions []Production

	epsilonID int
	eoiID     int
	startID   int
	started   bool
}

// New returns an empty Grammar with the two distinguished symbols
// (epsilon and end-of-input) already installed. Every construction event,
// including these two built-ins, is reported to sink.
func New(sink trace.Sink) *Grammar {
	g := &Grammar{byName: make(map[string]int), startID: -1}
	g.epsilonID = g.putSymbol(sink, "epsilon", Terminal, 0)
	g.symbols[g.epsilonID].Nullable = true
	g.eoiID = g.putSymbol(sink, "$", Terminal, 0)
	return g
}

// EpsilonID returns the id of the designated epsilon symbol.
func (g *Grammar) EpsilonID() int { return g.epsilonID }

// EndOfInputID returns the id of the designated end-of-input symbol.
func (g *Grammar) EndOfInputID() int { return g.eoiID }

// StartID returns the id of the user-declared start symbol, or -1 if
// SetStart has not been called yet.
func (g *Grammar) StartID() int { return g.startID }

// NumSymbols returns the number of symbols in the table, including the two
// built-in ones.
func (g *Grammar) NumSymbols() int { return len(g.symbols) }

// NumProductions returns the number of user-declared productions (not
// counting the synthetic augmented rule).
func (g *Grammar) NumProductions() int { return len(g.productions) }

// AugmentedProductionID returns the id of the synthetic S' -> S rule,
// which is always NumProductions().
func (g *Grammar) AugmentedProductionID() int { return len(g.productions) }

// Symbol returns the symbol with the given id.
func (g *Grammar) Symbol(id int) *Symbol { return &g.symbols[id] }

// Production returns the production with the given id, or the synthetic
// augmented rule if id == AugmentedProductionID().
func (g *Grammar) Production(id int) Production {
	if id == g.AugmentedProductionID() {
		return Production{ID: id, Head: -1, Body: []int{g.startID}}
	}
	return g.productions[id]
}

// AllProductions returns every user-declared production in declaration
// order (not including the synthetic augmented rule).
func (g *Grammar) AllProductions() []Production {
	return g.productions
}

func (g *Grammar) putSymbol(sink trace.Sink, name string, kind Kind, line int) int {
	if id, ok := g.byName[name]; ok {
		if g.upgradeKind(id, kind) {
			sink.SymbolIsTerm(id, g.symbols[id].Kind == Terminal)
		}
		if g.symbols[id].line == 0 {
			g.symbols[id].line = line
		}
		return id
	}
	id := len(g.symbols)
	g.symbols = append(g.symbols, Symbol{ID: id, Name: name, Kind: kind, line: line})
	g.byName[name] = id
	sink.SymbolName(id, name)
	sink.SymbolIsTerm(id, kind == Terminal)
	return id
}

// upgradeKind enforces Unchecked -> Terminal|Nonterminal -> Nonterminal;
// never downgrades and never allows Nonterminal -> Terminal. It reports
// whether the symbol's kind actually changed.
func (g *Grammar) upgradeKind(id int, kind Kind) bool {
	cur := g.symbols[id].Kind
	if cur == Nonterminal || kind == Unchecked || cur == kind {
		return false
	}
	g.symbols[id].Kind = kind
	return true
}

// PutSymbol inserts (or looks up) a symbol by name. Insertion is idempotent
// on name: the first insertion fixes the id, and later calls may upgrade
// the symbol's kind from Unchecked toward Terminal/Nonterminal, or from
// Terminal to Nonterminal, but never downgrade it. line is the 1-based
// source line to remember for unresolved-symbol reporting (0 if unknown).
// Every name/kind event is reported to sink.
func (g *Grammar) PutSymbol(sink trace.Sink, name string, kind Kind, line int) int {
	return g.putSymbol(sink, name, kind, line)
}

// AddProduction appends a new production with the given head symbol id and
// body (ordered rhs symbol ids; an empty body denotes an epsilon
// production), and records it against the head symbol. It returns the new
// production's id. sink is reported the new production's head and body and
// its appearance in the head symbol's production list.
func (g *Grammar) AddProduction(sink trace.Sink, head int, body []int) int {
	id := len(g.productions)
	g.productions = append(g.productions, Production{ID: id, Head: head, Body: body})
	g.symbols[head].Productions = append(g.symbols[head].Productions, id)
	sink.ProductionHead(id, head)
	sink.ProductionBody(id, body)
	sink.SymbolProductionAppend(head, id)
	return id
}

// SetStart names the grammar's start symbol. It may be called at most
// once; the named symbol may still be Unchecked at this point and is
// verified by Validate.
func (g *Grammar) SetStart(sink trace.Sink, name string, line int) error {
	if g.started {
		return lrerrors.GrammarSyntaxf("start symbol already set")
	}
	g.started = true
	g.startID = g.putSymbol(sink, name, Unchecked, line)
	sink.SymbolIsStart(g.startID, true)
	return nil
}

// Alias makes an additional name resolve to the same symbol id as an
// existing one. The grammar reader does not call it; a quoted literal
// under --strict is entered under its unquoted text.
func (g *Grammar) Alias(name string, id int) {
	g.byName[name] = id
}

// Lookup returns the id of the symbol with the given name, if any.
func (g *Grammar) Lookup(name string) (int, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Validate checks that every symbol has been resolved to Terminal or
// Nonterminal, that a start symbol was set, and that no rule refers to
// end-of-input or uses epsilon alongside other symbols in the same body.
func (g *Grammar) Validate() error {
	if g.startID < 0 {
		return lrerrors.GrammarSyntax("no rules declared; grammar has no start symbol")
	}
	for _, s := range g.symbols {
		if s.Kind == Unchecked {
			return lrerrors.UnresolvedSymbol(s.Name, s.line)
		}
	}
	for _, p := range g.productions {
		for _, s := range p.Body {
			if s == g.eoiID {
				return lrerrors.GrammarSyntaxf("production %d: end-of-input symbol $ may not appear in a rule body", p.ID)
			}
		}
		if len(p.Body) > 1 {
			for _, s := range p.Body {
				if s == g.epsilonID {
					return lrerrors.GrammarSyntaxf("production %d: epsilon cannot be used alongside other symbols", p.ID)
				}
			}
		}
	}
	return nil
}

// IsTerminal reports whether id names a terminal symbol.
func (g *Grammar) IsTerminal(id int) bool { return g.symbols[id].Kind == Terminal }

// IsNonterminal reports whether id names a nonterminal symbol.
func (g *Grammar) IsNonterminal(id int) bool { return g.symbols[id].Kind == Nonterminal }

// Terminals returns the ids of every terminal symbol, in id order,
// including epsilon and end-of-input.
func (g *Grammar) Terminals() []int {
	var out []int
	for _, s := range g.symbols {
		if s.Kind == Terminal {
			out = append(out, s.ID)
		}
	}
	return out
}

// AllTerminalsConstraint returns the set of every terminal except epsilon,
// shared by LR(0)/SLR seeds that do not track lookahead.
func (g *Grammar) AllTerminalsConstraint() *bitset.Set {
	s := bitset.New(g.NumSymbols())
	for _, t := range g.Terminals() {
		if t != g.epsilonID {
			s.Add(t)
		}
	}
	return s
}

// StringifyProduction renders a production for diagnostics, e.g. "E -> E + T".
func (g *Grammar) StringifyProduction(p Production) string {
	out := g.symbols[p.Head].Name + " ->"
	if len(p.Body) == 0 {
		return out + " " + g.symbols[g.epsilonID].Name
	}
	for _, s := range p.Body {
		out += " " + g.symbols[s].Name
	}
	return out
}
