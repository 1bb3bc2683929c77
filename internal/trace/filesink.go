package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FileSink writes one line per event in the steps.py format the original
// generator's visualizer consumes: a line-oriented log of function calls
// with escaped string arguments.
type FileSink struct {
	w *bufio.Writer
}

var _ Sink = (*FileSink)(nil)

// NewFileSink wraps w as a FileSink. Callers must call Flush when done.
func NewFileSink(w io.Writer) *FileSink {
	return &FileSink{w: bufio.NewWriter(w)}
}

// Flush writes any buffered output to the underlying writer.
func (f *FileSink) Flush() error {
	return f.w.Flush()
}

func (f *FileSink) line(format string, a ...interface{}) {
	fmt.Fprintf(f.w, format+"\n", a...)
}

func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func boolStr(b bool) string {
	return strconv.FormatBool(b)
}

func (f *FileSink) Section(name string) { f.line(`section("%s")`, escape(name)) }
func (f *FileSink) Show(message string) { f.line(`show("%s")`, escape(message)) }

func (f *FileSink) SymbolName(id int, name string) {
	f.line(`symbol[%d].name="%s"`, id, escape(name))
}
func (f *FileSink) SymbolIsTerm(id int, isTerm bool) {
	f.line("symbol[%d].is_term=%s", id, boolStr(isTerm))
}
func (f *FileSink) SymbolIsStart(id int, isStart bool) {
	f.line("symbol[%d].is_start=%s", id, boolStr(isStart))
}
func (f *FileSink) SymbolNullable(id int, nullable bool) {
	f.line("symbol[%d].nullable = %s", id, boolStr(nullable))
}
func (f *FileSink) SymbolFirstAdd(id, terminal int) {
	f.line("symbol[%d].first.add(%d)", id, terminal)
}
func (f *FileSink) SymbolFirstUpdate(id, fromID int) {
	f.line("symbol[%d].first.update(symbol[%d].first)", id, fromID)
}
func (f *FileSink) SymbolFollowAdd(id, terminal int) {
	f.line("symbol[%d].follow.add(%d)", id, terminal)
}
func (f *FileSink) SymbolFollowUpdate(id, fromID int) {
	f.line("symbol[%d].follow.update(symbol[%d].follow)", id, fromID)
}
func (f *FileSink) SymbolFollowUpdateFromFirst(id, fromID int) {
	f.line("symbol[%d].follow.update(symbol[%d].first)", id, fromID)
}
func (f *FileSink) SymbolFollowDiscard(id, terminal int) {
	f.line("symbol[%d].follow.discard(%d)", id, terminal)
}
func (f *FileSink) ProductionHead(id, head int) {
	f.line("production[%d].head = %d", id, head)
}
func (f *FileSink) ProductionBody(id int, body []int) {
	parts := make([]string, len(body))
	for i, s := range body {
		parts[i] = strconv.Itoa(s)
	}
	f.line("production[%d].body = [%s]", id, strings.Join(parts, ", "))
}
func (f *FileSink) SymbolProductionAppend(symbolID, productionID int) {
	f.line("symbol[%d].productions.append(%d)", symbolID, productionID)
}
func (f *FileSink) AddState(id int, label string) {
	f.line(`addState(%d, "%s")`, id, escape(label))
}
func (f *FileSink) UpdateState(id int, label string) {
	f.line(`updateState(%d, "%s")`, id, escape(label))
}
func (f *FileSink) AddEdge(from, to int, label string) {
	f.line(`addEdge(%d, %d, "%s")`, from, to, escape(label))
}
func (f *FileSink) SetStart(id int) { f.line("setStart(%d)", id) }
func (f *FileSink) SetFinal(id int) { f.line("setFinal(%d)", id) }
func (f *FileSink) AddTableEntry(state, symbol int, entry string) {
	f.line("table[%d][%d].add('%s')", state, symbol, escape(entry))
}
func (f *FileSink) ASTAddNode(id int, label string) {
	f.line(`astAddNode(%d, "%s")`, id, escape(label))
}
func (f *FileSink) ASTSetParent(child, parent int) {
	f.line("astSetParent(%d, %d)", child, parent)
}
