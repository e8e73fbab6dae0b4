package dialogs

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andareed/siftly-labeler/logging"
)

type (
	// ConfirmAcceptedMsg carries the payload the dialog was opened with.
	ConfirmAcceptedMsg struct{ Payload any }
	ConfirmCanceledMsg struct{}
)

// Confirm is a yes/no modal. The payload is handed back untouched so the
// caller knows what was confirmed.
type Confirm struct {
	title   string
	prompt  string
	payload any
	visible bool
}

func NewConfirmDialog(title, prompt string, payload any) *Confirm {
	return &Confirm{title: title, prompt: prompt, payload: payload, visible: true}
}

func (d Confirm) Init() tea.Cmd { return nil }

func (d *Confirm) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch km.String() {
	case "y", "Y", "enter":
		logging.Debugf("ConfirmDialog: accepted %q", d.title)
		d.visible = false
		payload := d.payload
		return d, func() tea.Msg { return ConfirmAcceptedMsg{Payload: payload} }
	case "n", "N", "esc":
		d.visible = false
		return d, func() tea.Msg { return ConfirmCanceledMsg{} }
	}
	return d, nil
}

func (d Confirm) View() string {
	if !d.visible {
		return ""
	}
	box := modalBox(60)

	title := lipgloss.NewStyle().Bold(true).Render(d.title)
	help := lipgloss.NewStyle().
		Faint(true).
		Render("y/enter to confirm • n/esc to cancel")

	return box.Render(fmt.Sprintf("%s\n\n%s\n\n%s", title, d.prompt, help))
}

func (d *Confirm) Show()          { d.visible = true }
func (d *Confirm) Hide()          { d.visible = false }
func (d *Confirm) Focus() tea.Cmd { return nil }
func (d *Confirm) Blur()          {}
func (d Confirm) IsVisible() bool { return d.visible }
