package main

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *model) enterCommandMode(cmd Command) {
	m.ui.command = CommandInput{cmd: cmd}
}

func (m *model) exitCommandMode() {
	m.ui.command = CommandInput{}
}

func (m *model) inCommandMode() bool { return m.ui.command.cmd != CmdNone }

func (m *model) runCommand() tea.Cmd {
	buf := strings.TrimSpace(m.ui.command.buf)
	switch m.ui.command.cmd {
	case CmdJump:
		id, err := strconv.ParseInt(buf, 10, 64)
		if err != nil {
			return m.startNotice("Invalid sample id", noticeWarn, noticeDuration)
		}
		return m.jumpToID(id)
	case CmdSearch:
		return m.findTimestamp(buf)
	}
	return nil
}

func (m *model) handleCommandKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.exitCommandMode()
		return nil
	case tea.KeyEnter:
		cmd := m.runCommand()
		m.exitCommandMode()
		m.refreshViewport()
		return cmd
	case tea.KeyBackspace:
		if n := len(m.ui.command.buf); n > 0 {
			m.ui.command.buf = m.ui.command.buf[:n-1]
		}
		return nil
	case tea.KeySpace:
		m.ui.command.buf += " "
	case tea.KeyRunes:
		m.ui.command.buf += string(msg.Runes)
	}
	return nil
}
