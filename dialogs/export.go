package dialogs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andareed/siftly-labeler/logging"
)

type (
	ExportConfirmedMsg struct{ Path string }
	ExportCanceledMsg  struct{}
	ExportErrorMsg     struct{ Err error }
	ExportOKMsg        struct{ Path string }
)

// Export asks for the CSV path the loaded window is written to.
type Export struct {
	input   textinput.Model
	visible bool
	lastDir string
}

func (d Export) Init() tea.Cmd { return d.input.Focus() }

func NewExportDialog(defaultName, lastDir string) *Export {
	ti := textinput.New()
	ti.Placeholder = defaultName
	ti.Prompt = "Export window as: "
	ti.CharLimit = 256
	ti.Width = 50
	if defaultName != "" {
		ti.SetValue(defaultName)
	}
	ti.Focus()
	return &Export{input: ti, visible: true, lastDir: lastDir}
}

// resolve falls back to the placeholder and places bare names in lastDir.
func (d *Export) resolve() string {
	path := strings.TrimSpace(d.input.Value())
	if path == "" {
		path = d.input.Placeholder
	}
	if path == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		path += ".csv"
	}
	if d.lastDir != "" && !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(d.lastDir, filepath.Base(path))
	}
	return path
}

func (d *Export) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			path := d.resolve()
			if path == "" {
				return d, nil
			}
			logging.Debugf("ExportDialog: exporting to %s", path)
			d.Hide()
			return d, func() tea.Msg { return ExportConfirmedMsg{Path: path} }
		case "esc":
			d.Hide()
			return d, func() tea.Msg { return ExportCanceledMsg{} }
		}
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d Export) View() string {
	if !d.visible {
		return ""
	}
	box := modalBox(60)

	help := lipgloss.NewStyle().
		Faint(true).
		Render("enter to export • esc to cancel")

	content := fmt.Sprintf("%s\n\n%s", d.input.View(), help)
	return box.Render(content)
}

func (d *Export) Show() {
	d.visible = true
	d.input.Focus()
}

func (d *Export) Hide() {
	d.visible = false
	d.input.Blur()
}

func (d *Export) Focus() tea.Cmd { return d.input.Focus() }
func (d *Export) Blur()          { d.input.Blur() }
func (d Export) IsVisible() bool { return d.visible }
