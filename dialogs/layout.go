package dialogs

import "github.com/charmbracelet/lipgloss"

// overlayBG matches the whitespace the main view places dialogs on.
const overlayBG = lipgloss.Color("236")

func modalBox(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("252")).
		BorderBackground(overlayBG).
		Padding(1, 2).
		Width(width)
}

func center(s string, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center)
	return box.Render(s)
}
