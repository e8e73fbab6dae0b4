package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type clearNoticeMsg struct{ id int }

type noticeKind string

const (
	noticePlain   noticeKind = ""
	noticeInfo    noticeKind = "info"
	noticeSuccess noticeKind = "success"
	noticeWarn    noticeKind = "warn"
	noticeError   noticeKind = "error"
)

const (
	noticeDuration = 2 * time.Second
	// errors stay up long enough to read the partial-label message
	errorNoticeDuration = 8 * time.Second
)

func noticeText(msg string, kind noticeKind) string {
	if msg == "" {
		return ""
	}
	icon := ""
	switch kind {
	case noticeInfo:
		icon = "ℹ"
	case noticeSuccess:
		icon = "✓"
	case noticeWarn:
		icon = "!"
	case noticeError:
		icon = "×"
	}
	if icon == "" {
		return msg
	}
	return icon + " " + msg
}

func (m *model) startNotice(msg string, kind noticeKind, d time.Duration) tea.Cmd {
	m.ui.noticeMsg = msg
	m.ui.noticeType = kind

	// bump sequence to invalidate older timers
	m.ui.noticeSeq++
	id := m.ui.noticeSeq

	return tea.Tick(d, func(time.Time) tea.Msg { return clearNoticeMsg{id: id} })
}

func (m *model) clearNotice(msg clearNoticeMsg) {
	if msg.id == m.ui.noticeSeq {
		m.ui.noticeMsg = ""
		m.ui.noticeType = noticePlain
	}
}
