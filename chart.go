package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/muesli/reflow/truncate"

	"github.com/andareed/siftly-labeler/samples"
	"github.com/andareed/siftly-labeler/views"
)

func (m *model) resizeChart(w, h int) {
	p := plot.NewCanvas(w, h)
	p.ShowAxis = false
	m.chart = &p
}

func (m *model) chartWidth() int {
	if m.terminalWidth == 0 {
		return 80
	}
	return max(10, m.terminalWidth-8)
}

// chartView draws every channel with the highlighted one on top, then the
// brush strip and the tick labels under it.
func (m *model) chartView() string {
	w := m.chartWidth()
	title := titleStyle.Render(m.data.layout.Title)
	if len(m.data.series) == 0 || len(m.data.series[0].X) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, dimStyle.Render("no samples"))
	}

	highlight, dim := plot.Red, plot.DimGray
	if !lipgloss.HasDarkBackground() {
		highlight, dim = plot.Black, plot.LightGray
	}

	projected := views.ProjectSecondary(m.data.series)
	focus := m.ui.channel % len(projected)
	data := make([][]float64, 0, len(projected))
	colors := make([]plot.Color, 0, len(projected))
	for i, ys := range projected {
		if i == focus {
			continue
		}
		data = append(data, ys)
		colors = append(colors, dim)
	}
	data = append(data, projected[focus])
	colors = append(colors, highlight)

	m.chart.NumDataPoints = len(m.data.series[0].X)
	m.chart.LineColors = colors
	m.chart.Fill(data)

	return lipgloss.JoinVertical(lipgloss.Left,
		title+"  "+m.legend(focus),
		m.chart.String(),
		m.brushStrip(w),
		m.tickLine(w),
	)
}

func (m *model) legend(focus int) string {
	names := make([]string, len(m.data.series))
	for i, s := range m.data.series {
		name := s.Name
		if s.Secondary {
			name += " (" + m.data.layout.Y2Title + ", rescaled)"
		}
		if i == focus {
			name = brushStyle.Render(name)
		} else {
			name = dimStyle.Render(name)
		}
		names[i] = name
	}
	return strings.Join(names, " ")
}

// column maps position i of n samples onto a strip of width w.
func column(i, n, w int) int {
	if n <= 1 {
		return 0
	}
	return i * (w - 1) / (n - 1)
}

func (m *model) brushStrip(w int) string {
	n := len(m.data.series[0].X)
	strip := []rune(strings.Repeat("─", w))
	if m.ui.brush.Active {
		lo, hi := m.ui.brush.Span()
		for c := column(lo, n, w); c <= column(hi, n, w) && c < w; c++ {
			strip[c] = '━'
		}
	}
	if m.ui.focus == paneChart {
		strip[column(m.ui.brush.Cursor, n, w)] = '┃'
	}
	return brushStyle.Render(string(strip))
}

// tickLine prints the first and last tick labels and what the cursor sits on.
func (m *model) tickLine(w int) string {
	l := m.data.layout
	if len(l.TickText) == 0 {
		return ""
	}
	left := l.TickText[0]
	right := l.TickText[len(l.TickText)-1]

	mid := ""
	s := m.data.series[0]
	if c := m.ui.brush.Cursor; c >= 0 && c < len(s.X) {
		focus := m.data.series[m.ui.channel%len(m.data.series)]
		mid = fmt.Sprintf("id %d  %s  %s=%g", s.X[c], s.Text[c], samples.Channels[m.ui.channel%len(samples.Channels)], focus.Y[c])
		if m.ui.brush.Active {
			lo, hi := m.ui.brush.Span()
			mid += fmt.Sprintf("  region %d-%d", s.X[lo], s.X[hi])
		}
	}

	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < lipgloss.Width(mid)+2 {
		return dimStyle.Render(truncate.String(mid, uint(w)))
	}
	pad := gap - lipgloss.Width(mid)
	line := left + strings.Repeat(" ", pad/2) + mid + strings.Repeat(" ", pad-pad/2) + right
	return dimStyle.Render(line)
}
