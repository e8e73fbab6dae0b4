package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andareed/siftly-labeler/logging"
)

func (m *model) jumpToStart() {
	m.cursor = 0
	m.clampCursor()
}

func (m *model) jumpToEnd() {
	m.cursor = len(m.data.display) - 1
	m.clampCursor()
}

// jumpToID moves the cursor onto the sample with id in the current order.
func (m *model) jumpToID(id int64) tea.Cmd {
	for i, d := range m.data.display {
		if d == id {
			logging.Debugf("jump: id %d at row %d", id, i)
			m.cursor = i
			return nil
		}
	}
	return m.startNotice(fmt.Sprintf("Sample %d is not in the loaded window", id), noticeWarn, noticeDuration)
}
