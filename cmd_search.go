package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// findTimestamp moves to the next row after the cursor whose timestamp
// contains query, wrapping once.
func (m *model) findTimestamp(query string) tea.Cmd {
	if query == "" || len(m.data.display) == 0 {
		return nil
	}
	c := m.data.store.Collection()
	n := len(m.data.display)
	for step := 1; step <= n; step++ {
		i := (m.cursor + step) % n
		s, ok := c.Get(m.data.display[i])
		if ok && strings.Contains(s.Timestamp, query) {
			m.cursor = i
			return nil
		}
	}
	return m.startNotice(fmt.Sprintf("No timestamp matches %q", query), noticeWarn, noticeDuration)
}
