package dialogs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Help lists key bindings in two columns.
type Help struct {
	visible  bool
	bindings []key.Binding
}

func (d Help) Init() tea.Cmd { return nil }

func NewHelpDialog(bindings []key.Binding) *Help {
	return &Help{
		visible:  true,
		bindings: bindings,
	}
}

func (d *Help) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter", "esc", "?", "q":
			d.visible = false
		}
	}
	return d, nil
}

func (d Help) lines() []string {
	var lines []string
	for _, b := range d.bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		lines = append(lines, fmt.Sprintf("%-9s %s", h.Key, h.Desc))
	}
	return lines
}

func (d Help) View() string {
	if !d.visible {
		return ""
	}

	box := modalBox(90)

	lines := d.lines()
	half := (len(lines) + 1) / 2
	colStyle := lipgloss.NewStyle().Width(42)
	left := colStyle.Render(strings.Join(lines[:half], "\n"))
	right := colStyle.Render(strings.Join(lines[half:], "\n"))

	hint := lipgloss.NewStyle().
		Faint(true).
		Render("enter/esc to return")

	content := fmt.Sprintf("%s\n\n%s", lipgloss.JoinHorizontal(lipgloss.Top, left, right), hint)
	return box.Render(content)
}

func (d *Help) Show()          { d.visible = true }
func (d *Help) Hide()          { d.visible = false }
func (d *Help) Focus() tea.Cmd { return nil }
func (d *Help) Blur()          {}
func (d Help) IsVisible() bool { return d.visible }
