package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/stresslayout/pkg/graph"
)

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 10, 10))
	assert.Equal(t, "", bar(5, 0, 10))
	assert.Equal(t, strings.Repeat("█", 10), bar(10, 10, 10))
	assert.Equal(t, strings.Repeat("█", 5), bar(5, 10, 10))
	assert.Equal(t, "█", bar(0.0001, 10, 10))
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "-50.0%", formatChange(4, 2))
	assert.Equal(t, "+100.0%", formatChange(1, 2))
	assert.Equal(t, "", formatChange(0, 2))
}

func traceLayout(n int) graph.Layout {
	tr := make([]float64, n)
	for i := range tr {
		tr[i] = float64(n - i)
	}
	return graph.Layout{
		Nodes:       []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Trace:       tr,
		Iterations:  n,
		Converged:   true,
		Algorithm:   "generic",
		Weight:      "inverse-squared",
		Termination: "epsilon",
	}
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ = m.Update(msg)
	return m
}

func TestTraceModelNavigation(t *testing.T) {
	var m tea.Model = NewTraceModel(traceLayout(40))

	m = press(m, "up")
	assert.Equal(t, 0, m.(TraceModel).Cursor)

	m = press(m, "down")
	m = press(m, "down")
	assert.Equal(t, 2, m.(TraceModel).Cursor)

	m = press(m, "G")
	tm := m.(TraceModel)
	assert.Equal(t, 39, tm.Cursor)
	assert.Equal(t, 39-tm.Height+1, tm.Offset)

	m = press(m, "g")
	tm = m.(TraceModel)
	assert.Equal(t, 0, tm.Cursor)
	assert.Equal(t, 0, tm.Offset)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	assert.Equal(t, 5, m.(TraceModel).Height)
}

func TestTraceModelQuit(t *testing.T) {
	m := NewTraceModel(traceLayout(3))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
}

func TestTraceModelView(t *testing.T) {
	view := NewTraceModel(traceLayout(3)).View()
	assert.Contains(t, view, "Convergence Trace")
	assert.Contains(t, view, "[1/3]")

	empty := traceLayout(0)
	m := NewTraceModel(empty)
	m = press(m, "down").(TraceModel)
	assert.Equal(t, 0, m.Cursor)
	assert.Contains(t, m.View(), "(empty trace)")
}
