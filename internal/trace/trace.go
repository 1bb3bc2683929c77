// Package trace models builder-event emission as a small interface so the
// core pipeline can run against a no-op sink in tests and a file-writer
// sink in production, isolating the algorithms from the visualizer format.
package trace

// Sink receives one call per builder event. Implementations must not
// mutate or retain slices passed to them beyond the call.
type Sink interface {
	Section(name string)
	Show(message string)

	SymbolName(id int, name string)
	SymbolIsTerm(id int, isTerm bool)
	SymbolIsStart(id int, isStart bool)
	SymbolNullable(id int, nullable bool)
	SymbolFirstAdd(id, terminal int)
	SymbolFirstUpdate(id, fromID int)
	SymbolFollowAdd(id, terminal int)
	SymbolFollowUpdate(id, fromID int)
	SymbolFollowUpdateFromFirst(id, fromID int)
	SymbolFollowDiscard(id, terminal int)

	ProductionHead(id, head int)
	ProductionBody(id int, body []int)
	SymbolProductionAppend(symbolID, productionID int)

	AddState(id int, label string)
	UpdateState(id int, label string)
	AddEdge(from, to int, label string)
	SetStart(id int)
	SetFinal(id int)

	AddTableEntry(state, symbol int, entry string)

	ASTAddNode(id int, label string)
	ASTSetParent(child, parent int)
}

// Nop is a Sink that discards every event; used by tests and for builds
// whose events are not traced (such as the LR(0) automaton the CLI builds
// as input to the LALR builder).
type Nop struct{}

var _ Sink = Nop{}

func (Nop) Section(string)                       {}
func (Nop) Show(string)                          {}
func (Nop) SymbolName(int, string)                {}
func (Nop) SymbolIsTerm(int, bool)                {}
func (Nop) SymbolIsStart(int, bool)                {}
func (Nop) SymbolNullable(int, bool)               {}
func (Nop) SymbolFirstAdd(int, int)                {}
func (Nop) SymbolFirstUpdate(int, int)             {}
func (Nop) SymbolFollowAdd(int, int)               {}
func (Nop) SymbolFollowUpdate(int, int)            {}
func (Nop) SymbolFollowUpdateFromFirst(int, int)   {}
func (Nop) SymbolFollowDiscard(int, int)           {}
func (Nop) ProductionHead(int, int)                {}
func (Nop) ProductionBody(int, []int)              {}
func (Nop) SymbolProductionAppend(int, int)         {}
func (Nop) AddState(int, string)                   {}
func (Nop) UpdateState(int, string)                {}
func (Nop) AddEdge(int, int, string)               {}
func (Nop) SetStart(int)                           {}
func (Nop) SetFinal(int)                           {}
func (Nop) AddTableEntry(int, int, string)         {}
func (Nop) ASTAddNode(int, string)                 {}
func (Nop) ASTSetParent(int, int)                  {}
