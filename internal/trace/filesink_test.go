package trace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FileSink_EscapesAndFormats(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFileSink(&buf)

	sink.AddState(3, `E -> E "+" T`)
	sink.AddEdge(1, 2, "id")
	sink.Show(`line with "quotes" and \backslash`)
	assert.NoError(t, sink.Flush())

	out := buf.String()
	assert.Contains(t, out, `addState(3, "E -> E \"+\" T")`)
	assert.Contains(t, out, `addEdge(1, 2, "id")`)
	assert.Contains(t, out, `show("line with \"quotes\" and \\backslash")`)
}

func Test_FileSink_ProductionBody(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFileSink(&buf)
	sink.ProductionBody(2, []int{1, 4, 7})
	assert.NoError(t, sink.Flush())
	assert.Contains(t, buf.String(), "production[2].body = [1, 4, 7]")
}

func Test_Nop_DoesNotPanic(t *testing.T) {
	var sink Sink = Nop{}
	sink.AddState(1, "x")
	sink.Section("s")
	assert.True(t, true)
}
