package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andareed/siftly-labeler/logging"
	"github.com/andareed/siftly-labeler/views"
)

func (m *model) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	if m.committing() && m.isSelectionEdit(msg) {
		return m.lockedWhileCommitting()
	}
	switch {
	case key.Matches(msg, m.keys.RowDown):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.RowUp):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(max(1, m.pageRowSize))
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-max(1, m.pageRowSize))
	case key.Matches(msg, m.keys.JumpStart):
		m.jumpToStart()
	case key.Matches(msg, m.keys.JumpEnd):
		m.jumpToEnd()
	case key.Matches(msg, m.keys.JumpID):
		m.enterCommandMode(CmdJump)
	case key.Matches(msg, m.keys.Find):
		m.enterCommandMode(CmdSearch)
	case key.Matches(msg, m.keys.Toggle):
		m.pickCursor(false)
	case key.Matches(msg, m.keys.ExtendPick):
		m.pickCursor(true)
	case key.Matches(msg, m.keys.ExtendDown):
		m.moveCursor(1)
		m.pickCursor(true)
	case key.Matches(msg, m.keys.ExtendUp):
		m.moveCursor(-1)
		m.pickCursor(true)
	case key.Matches(msg, m.keys.SortNext):
		m.setOrder(m.data.order.NextKey())
	case key.Matches(msg, m.keys.SortFlip):
		m.setOrder(m.data.order.Flip())
	default:
		return nil
	}
	m.refreshViewport()
	return nil
}

func (m *model) isSelectionEdit(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.keys.Toggle, m.keys.ExtendPick, m.keys.ExtendDown, m.keys.ExtendUp)
}

func (m *model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// pickCursor toggles the row under the cursor, or with extend unions the
// range from the anchor to it in the current display order.
func (m *model) pickCursor(extend bool) {
	id, ok := m.cursorID()
	if !ok {
		return
	}
	m.data.sel.Pick(id, extend, m.data.display)
}

// setOrder re-sorts the table and keeps the cursor on the same sample.
func (m *model) setOrder(o views.TableOrder) {
	id, hadCursor := m.cursorID()
	m.data.order = o
	m.data.rebuildOrder()
	if hadCursor {
		for i, d := range m.data.display {
			if d == id {
				m.cursor = i
				break
			}
		}
	}
	logging.Debugf("table: order %s", o)
}
