package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/andareed/siftly-labeler/logging"
)

const gutterWidth = 2 // selection marker + anchor marker

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.activeDialog != nil && m.activeDialog.IsVisible() {
		w, h := m.terminalWidth, m.terminalHeight
		return lipgloss.Place(
			w, h,
			lipgloss.Center, lipgloss.Center,
			m.activeDialog.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceBackground(lipgloss.Color("236")),
		)
	}

	chart := focused(chartStyle, m.ui.focus == paneChart).Render(m.chartView())
	table := focused(tableStyle, m.ui.focus == paneTable).Render(m.viewport.View())
	contentW := lipgloss.Width(table)

	parts := []string{chart, m.headerView(), table, m.footerView(contentW)}
	return appstyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// footerView renders the two footer lines at the table width.
func (m *model) footerView(width int) string {
	status := m.data.orch.State().String()
	if m.data.loading {
		status = "loading"
	}
	st := FooterState{
		Pane:      m.ui.focus,
		Server:    m.server,
		Order:     m.data.order.String(),
		Selected:  m.data.sel.Len(),
		Limit:     m.data.store.Limit(),
		Status:    status,
		Row:       m.cursor + 1,
		TotalRows: len(m.data.rows),
		Legend:    "(? help · tab pane · space toggle · J/K extend · : jump · 1/0 commit · L size · r reload)",
	}
	if len(m.data.rows) == 0 {
		st.Row = 0
	}
	if m.inCommandMode() {
		st.StatusMessage = m.activeCommandLine()
	} else if m.ui.noticeMsg != "" {
		st.StatusMessage = noticeText(m.ui.noticeMsg, m.ui.noticeType)
	} else if err := m.data.orch.LastError(); err != nil {
		st.StatusMessage = noticeText(err.Error(), noticeError)
	}

	if logging.IsDebugMode() {
		st.Legend += fmt.Sprintf(" | dbg term=%dx%d vp=%dx%d cur=%d vis=%d-%d gen=%d",
			m.terminalWidth, m.terminalHeight, m.viewport.Width, m.viewport.Height,
			m.cursor, m.ui.visibleStart, m.ui.visibleEnd, m.data.store.Generation())
	}
	return RenderFooter(width, st, DefaultFooterStyles())
}

func (m *model) columns() []ColumnMeta {
	return layoutColumns(defaultColumns(), m.viewport.Width-gutterWidth)
}

func (m *model) headerView() string {
	titles := headerCells()
	for i, c := range defaultColumns() {
		if c.Column == m.data.order.Key {
			if m.data.order.Desc {
				titles[i] += " ▼"
			} else {
				titles[i] += " ▲"
			}
		}
	}
	return headerStyle.Render(strings.Repeat(" ", gutterWidth) + renderCells(titles, cellStyle, m.columns()))
}

func (m *model) renderRowAt(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.data.rows) {
		return "", false
	}
	row := m.data.rows[idx]

	fg, bg := lipgloss.Color(rowTextFGColor), lipgloss.Color("")
	switch {
	case row.Selected:
		fg, bg = lipgloss.Color(rowSelectedTextFGColor), lipgloss.Color(rowSelectedBGColor)
	case idx == m.cursor:
		fg, bg = lipgloss.Color(rowCursorTextFGColor), lipgloss.Color(rowCursorBGColor)
	}
	rowPrefix := bgSeq(bg) + fgSeq(fg)
	rowSuffix := termenv.CSI + "0m"

	marker := defaultMarker
	if row.Selected {
		marker = selectMarker
	}
	anchor := " "
	if a, ok := m.data.sel.Anchor(); ok && a == row.ID {
		anchor = "◆"
	}
	if idx == m.cursor {
		anchor = "›"
	}

	content := renderCells(row.Cells, cellStyle, m.columns())
	content = restoreRowStyleAfterReset(content, rowPrefix)
	return marker + anchor + rowPrefix + content + rowSuffix, true
}

// restoreRowStyleAfterReset re-applies the row colours after each inner
// reset so the background runs across the whole line.
func restoreRowStyleAfterReset(s string, rowPrefix string) string {
	if rowPrefix == "" {
		return s
	}
	reset := termenv.CSI + "0m"
	if !strings.Contains(s, reset) {
		return s
	}
	return strings.ReplaceAll(s, reset, reset+rowPrefix)
}

func fgSeq(c lipgloss.Color) string {
	return colorSeq(c, false)
}

func bgSeq(c lipgloss.Color) string {
	return colorSeq(c, true)
}

func colorSeq(c lipgloss.Color, bg bool) string {
	value := string(c)
	if value == "" {
		if bg {
			return termenv.CSI + "49m"
		}
		return termenv.CSI + "39m"
	}
	profile := lipgloss.ColorProfile()
	tc := profile.Color(value)
	if tc == nil {
		return ""
	}
	return termenv.CSI + tc.Sequence(bg) + "m"
}

func (m *model) renderViewport() string {
	if len(m.data.rows) == 0 {
		store := m.data.store
		if err := store.LastError(); err != nil {
			return dimStyle.Render("  load failed, press r to retry or L to pick a size")
		}
		if !store.Loaded() {
			return dimStyle.Render("  loading…")
		}
		if m.data.loading {
			return dimStyle.Render("  reloading…")
		}
		return dimStyle.Render("  no unlabeled samples")
	}
	m.clampCursor()

	rendered, start, end := m.computeVisibleRows(m.cursor, m.viewport.Height)
	m.ui.visibleStart = start
	m.ui.visibleEnd = end
	m.pageRowSize = len(rendered)
	logging.Debugf("renderViewport: rows %d-%d of %d", start, end, len(m.data.rows))

	return strings.Join(rendered, "\n")
}

// computeVisibleRows keeps the cursor roughly centred: half the free
// height above it, the rest below, then backfills above at the end.
func (m *model) computeVisibleRows(cursor int, height int) ([]string, int, int) {
	cursorRow, ok := m.renderRowAt(cursor)
	if !ok {
		return nil, 0, 0
	}

	free := height - 1
	wantAbove := max(0, free/2)
	up, down := cursor-1, cursor+1

	var above, below []string
	for free > 0 && (up >= 0 || down < len(m.data.rows)) {
		if up >= 0 && len(above) < wantAbove {
			r, _ := m.renderRowAt(up)
			above = append(above, r)
			up--
			free--
			continue
		}
		if down < len(m.data.rows) {
			r, _ := m.renderRowAt(down)
			below = append(below, r)
			down++
			free--
			continue
		}
		if up >= 0 {
			r, _ := m.renderRowAt(up)
			above = append(above, r)
			up--
			free--
			continue
		}
		break
	}

	out := make([]string, 0, len(above)+1+len(below))
	for i := len(above) - 1; i >= 0; i-- {
		out = append(out, above[i])
	}
	out = append(out, cursorRow)
	out = append(out, below...)
	return out, cursor - len(above), cursor + len(below)
}
