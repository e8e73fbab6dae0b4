package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andareed/siftly-labeler/samples"
)

func (m *model) handleChartKey(msg tea.KeyMsg) tea.Cmd {
	n := 0
	if len(m.data.series) > 0 {
		n = len(m.data.series[0].X)
	}
	switch {
	case key.Matches(msg, m.keys.BrushLeft):
		m.ui.brush = m.ui.brush.Move(-1, n)
	case key.Matches(msg, m.keys.BrushRight):
		m.ui.brush = m.ui.brush.Move(1, n)
	case key.Matches(msg, m.keys.PageUp):
		m.ui.brush = m.ui.brush.Move(-max(1, n/10), n)
	case key.Matches(msg, m.keys.PageDown):
		m.ui.brush = m.ui.brush.Move(max(1, n/10), n)
	case key.Matches(msg, m.keys.BrushBegin):
		m.ui.brush = m.ui.brush.Begin()
	case key.Matches(msg, m.keys.BrushCancel):
		m.ui.brush.Active = false
	case key.Matches(msg, m.keys.BrushApply):
		return m.applyBrush()
	case key.Matches(msg, m.keys.Channel):
		m.ui.channel = (m.ui.channel + 1) % len(samples.Channels)
	}
	return nil
}

// applyBrush hands the brushed region to the plot bridge, which replaces
// the selection with the distinct ids inside it.
func (m *model) applyBrush() tea.Cmd {
	if m.committing() {
		return m.lockedWhileCommitting()
	}
	ev := m.ui.brush.Region(m.data.series)
	if ev == nil {
		return m.startNotice("Press b to start a region first", noticeWarn, noticeDuration)
	}
	m.data.bridge.ApplyRegion(ev)
	m.ui.brush.Active = false
	return m.startNotice(fmt.Sprintf("%d samples selected from chart", m.data.sel.Len()), noticeSuccess, noticeDuration)
}
