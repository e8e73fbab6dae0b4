package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/andareed/siftly-labeler/views"
)

// renderCells lays cells out at the widths in cols. Text that does not
// fit is cut with an ellipsis so every row stays one line high.
func renderCells(cells []string, style lipgloss.Style, cols []ColumnMeta) string {
	var b strings.Builder
	for i, text := range cells {
		if i >= len(cols) {
			break
		}
		w := cols[i].Width
		if w <= 0 {
			continue
		}
		inner := max(1, w-style.GetHorizontalPadding())
		b.WriteString(style.Width(w).MaxHeight(1).Render(truncate.StringWithTail(text, uint(inner), "…")))
	}
	return b.String()
}

func headerCells() []string {
	out := make([]string, len(views.Columns))
	for i, c := range views.Columns {
		out[i] = c.Title()
	}
	return out
}
