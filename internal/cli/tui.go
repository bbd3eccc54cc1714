package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stresslayout/pkg/core/majorize"
	"github.com/matzehuels/stresslayout/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	barStyle          = lipgloss.NewStyle().Foreground(colorCyan)
)

const barWidth = 30

// =============================================================================
// TraceModel - Interactive convergence trace browser
// =============================================================================

// TraceModel is the bubbletea model for browsing a layout's convergence trace.
type TraceModel struct {
	Layout graph.Layout
	Cursor int
	Height int
	Offset int

	trace majorize.Trace
	peak  float64
}

// NewTraceModel creates a new trace browser for l.
func NewTraceModel(l graph.Layout) TraceModel {
	tr := majorize.Trace(l.Trace)
	return TraceModel{
		Layout: l,
		Height: 15,
		trace:  tr,
		peak:   tr.Peak(),
	}
}

func (m TraceModel) Init() tea.Cmd {
	return nil
}

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup", "b":
			m.move(-m.Height)
		case "pgdown", "f", " ":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.trace))
		case "end", "G":
			m.move(len(m.trace))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta rows and keeps it inside the viewport.
func (m *TraceModel) move(delta int) {
	if len(m.trace) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.trace)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TraceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Convergence Trace"))
	b.WriteString("\n")
	b.WriteString(traceSummary(m.Layout))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.trace) == 0 {
		b.WriteString(listDimStyle.Render("  (empty trace)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.trace))
	b.WriteString(traceTable(m.trace, m.peak, m.Offset, end, m.Cursor).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.trace))))

	return b.String()
}

// =============================================================================
// Rendering Helpers
// =============================================================================

// traceSummary renders the solver settings and outcome on one line.
func traceSummary(l graph.Layout) string {
	tr := majorize.Trace(l.Trace)
	status := StyleSuccess.Render("converged")
	if !l.Converged {
		status = StyleWarning.Render("iteration cap reached")
	}
	parts := []string{
		fmt.Sprintf("%d nodes", len(l.Nodes)),
		fmt.Sprintf("%s/%s", l.Algorithm, l.Termination),
		"weight " + l.Weight,
		fmt.Sprintf("%d iterations", l.Iterations),
		"final " + formatMeasure(tr.Last()),
		status,
	}
	return StyleDim.Render(strings.Join(parts, " · "))
}

// traceTable renders rows [from, to) of the trace. cursor < 0 highlights nothing.
func traceTable(tr majorize.Trace, peak float64, from, to, cursor int) *table.Table {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		change := ""
		if i > 0 {
			change = formatChange(tr[i-1], tr[i])
		}
		rows = append(rows, []string{marker, strconv.Itoa(i + 1), formatMeasure(tr[i]), change, bar(tr[i], peak, barWidth)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Iter", "Measure", "Change", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if from+row == cursor {
				return listSelectedStyle
			}
			if col == 4 {
				return barStyle
			}
			return lipgloss.NewStyle()
		})
}

// bar draws v as a horizontal bar scaled against peak. Any positive value
// gets at least one cell.
func bar(v, peak float64, width int) string {
	if peak <= 0 || v <= 0 || math.IsNaN(v) {
		return ""
	}
	n := int(math.Round(v / peak * float64(width)))
	return strings.Repeat("█", min(max(n, 1), width))
}

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// formatChange renders the relative change from prev to cur as a percentage.
func formatChange(prev, cur float64) string {
	if prev == 0 || math.IsNaN(prev) || math.IsNaN(cur) {
		return ""
	}
	return fmt.Sprintf("%+.1f%%", (cur-prev)/prev*100)
}
