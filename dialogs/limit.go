package dialogs

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andareed/siftly-labeler/logging"
)

type (
	LimitChosenMsg   struct{ Limit int }
	LimitCanceledMsg struct{}
)

// Limit picks how many of the most recent samples to load.
type Limit struct {
	sizes   []int
	idx     int
	visible bool
}

func NewLimitDialog(sizes []int, current int) *Limit {
	d := &Limit{sizes: append([]int(nil), sizes...), visible: true}
	for i, s := range d.sizes {
		if s == current {
			d.idx = i
		}
	}
	return d
}

func (d Limit) Init() tea.Cmd { return nil }

// Selected is the size under the cursor.
func (d Limit) Selected() int {
	if len(d.sizes) == 0 {
		return 0
	}
	return d.sizes[d.idx]
}

func (d *Limit) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch km.String() {
	case "left", "h", "up", "k":
		if d.idx > 0 {
			d.idx--
		}
	case "right", "l", "down", "j":
		if d.idx < len(d.sizes)-1 {
			d.idx++
		}
	case "enter":
		n := d.Selected()
		logging.Debugf("LimitDialog: chose %d", n)
		d.visible = false
		return d, func() tea.Msg { return LimitChosenMsg{Limit: n} }
	case "esc":
		d.visible = false
		return d, func() tea.Msg { return LimitCanceledMsg{} }
	}
	return d, nil
}

func (d Limit) View() string {
	if !d.visible {
		return ""
	}
	box := modalBox(60)

	picked := lipgloss.NewStyle().Reverse(true)
	opts := make([]string, len(d.sizes))
	for i, s := range d.sizes {
		label := fmt.Sprintf(" %d ", s)
		if i == d.idx {
			label = picked.Render(label)
		}
		opts[i] = label
	}

	help := lipgloss.NewStyle().
		Faint(true).
		Render("←/→ to choose • enter to load • esc to cancel")

	content := fmt.Sprintf("Load last N samples\n\n%s\n\n%s", center(strings.Join(opts, "  "), 54, 1), help)
	return box.Render(content)
}

func (d *Limit) Show()          { d.visible = true }
func (d *Limit) Hide()          { d.visible = false }
func (d *Limit) Focus() tea.Cmd { return nil }
func (d *Limit) Blur()          {}
func (d Limit) IsVisible() bool { return d.visible }
