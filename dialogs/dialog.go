// Package dialogs holds the modal overlays: help, commit confirmation,
// load size and CSV export.
package dialogs

import tea "github.com/charmbracelet/bubbletea"

// Dialog is what the main model routes keys to while a modal is open.
type Dialog interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Dialog, tea.Cmd)
	View() string

	Focus() tea.Cmd
	Blur()
	IsVisible() bool
	Show()
	Hide()
}
