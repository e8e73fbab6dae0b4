package main

import (
	"github.com/charmbracelet/bubbles/key"
)

type Keymap struct {
	Quit        key.Binding
	OpenHelp    key.Binding
	SwitchPane  key.Binding
	RowDown     key.Binding
	RowUp       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Toggle      key.Binding
	ExtendDown  key.Binding
	ExtendUp    key.Binding
	ExtendPick  key.Binding
	SelectAll   key.Binding
	ClearAll    key.Binding
	SortNext    key.Binding
	SortFlip    key.Binding
	Positive    key.Binding
	Negative    key.Binding
	LoadSize    key.Binding
	Reload      key.Binding
	BrushLeft   key.Binding
	BrushRight  key.Binding
	BrushBegin  key.Binding
	BrushApply  key.Binding
	BrushCancel key.Binding
	Channel     key.Binding
	CopyIDs     key.Binding
	Export      key.Binding
	JumpStart   key.Binding
	JumpEnd     key.Binding
	JumpID      key.Binding
	Find        key.Binding
}

var Keys = Keymap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	OpenHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help / keys"),
	),
	SwitchPane: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch table / chart"),
	),
	RowDown: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	RowUp: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("u", "pgup"),
		key.WithHelp("u/pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("d", "pgdown"),
		key.WithHelp("d/pgdown", "page down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space/x", "toggle row"),
	),
	ExtendDown: key.NewBinding(
		key.WithKeys("shift+down", "J"),
		key.WithHelp("J/⇧↓", "move down and extend from anchor"),
	),
	ExtendUp: key.NewBinding(
		key.WithKeys("shift+up", "K"),
		key.WithHelp("K/⇧↑", "move up and extend from anchor"),
	),
	ExtendPick: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "extend from anchor to row"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "clear selection"),
	),
	SortNext: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort by next column"),
	),
	SortFlip: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "flip sort direction"),
	),
	Positive: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "label selected 1, rest 0"),
	),
	Negative: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "label selected 0, rest 1"),
	),
	LoadSize: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "choose load size"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	BrushLeft: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "chart cursor left"),
	),
	BrushRight: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "chart cursor right"),
	),
	BrushBegin: key.NewBinding(
		key.WithKeys("b", "v"),
		key.WithHelp("b", "start region at cursor"),
	),
	BrushApply: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select region"),
	),
	BrushCancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel region"),
	),
	Channel: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "highlight next channel"),
	),
	CopyIDs: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy selected ids"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export window to csv"),
	),
	JumpStart: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first row"),
	),
	JumpEnd: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last row"),
	),
	JumpID: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "jump to sample id"),
	),
	Find: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find timestamp"),
	),
}

func (k Keymap) Legend() []key.Binding {
	return []key.Binding{
		k.Quit,
		k.SwitchPane,
		k.RowDown,
		k.RowUp,
		k.PageUp,
		k.PageDown,
		k.JumpStart,
		k.JumpEnd,
		k.JumpID,
		k.Find,
		k.Toggle,
		k.ExtendDown,
		k.ExtendUp,
		k.ExtendPick,
		k.SelectAll,
		k.ClearAll,
		k.SortNext,
		k.SortFlip,
		k.Positive,
		k.Negative,
		k.LoadSize,
		k.Reload,
		k.BrushLeft,
		k.BrushRight,
		k.BrushBegin,
		k.BrushApply,
		k.Channel,
		k.CopyIDs,
		k.Export,
	}
}
