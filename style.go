package main

import "github.com/charmbracelet/lipgloss"

const (
	rowTextFGColor         = "#c0c0c0"
	rowCursorTextFGColor   = "#e0e0e0"
	rowCursorBGColor       = "#3a3a3a"
	rowSelectedTextFGColor = "#ffffff"
	rowSelectedBGColor     = "#1f4e79"
	focusBorderColor       = "#ff9f1c"
	blurBorderColor        = "240"
)

var (
	appstyle    = lipgloss.NewStyle().Margin(1, 2)
	headerStyle = lipgloss.NewStyle().BorderStyle(lipgloss.Border{
		Left:  " ",
		Right: " ",
	}).BorderLeft(true).BorderRight(true).Bold(true)

	rowStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color(rowTextFGColor))
	rowCursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color(rowCursorBGColor)).Foreground(lipgloss.Color(rowCursorTextFGColor))
	rowSelectedStyle = lipgloss.NewStyle().Background(lipgloss.Color(rowSelectedBGColor)).Foreground(lipgloss.Color(rowSelectedTextFGColor))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	tableStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(blurBorderColor))
	chartStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(blurBorderColor))

	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	brushStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(focusBorderColor))
	selectMarker  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("▐")
	defaultMarker = " "
)

// focused swaps the border colour of s when its pane has focus.
func focused(s lipgloss.Style, on bool) lipgloss.Style {
	if on {
		return s.BorderForeground(lipgloss.Color(focusBorderColor))
	}
	return s
}
