package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterState is everything the two footer lines show.
type FooterState struct {
	Pane   pane
	Server string

	Order    string
	Selected int
	Limit    int
	Status   string // orchestrator / load state

	Row       int
	TotalRows int

	StatusMessage string
	Legend        string
}

type FooterStyles struct {
	BarBG      lipgloss.Color
	StatusBG   lipgloss.Color
	ModePillBG lipgloss.Color
	ModePillFG lipgloss.Color
	FileNameFG lipgloss.Color
	TextFG     lipgloss.Color
	DimFG      lipgloss.Color
	StatusFG   lipgloss.Color
	LegendFG   lipgloss.Color
}

func DefaultFooterStyles() FooterStyles {
	return FooterStyles{
		BarBG:      lipgloss.Color("#2b2b2b"),
		StatusBG:   lipgloss.Color("#000000"),
		ModePillBG: lipgloss.Color("#ff9f1c"),
		ModePillFG: lipgloss.Color("#000000"),
		FileNameFG: lipgloss.Color("#e0e0e0"),
		TextFG:     lipgloss.Color("#cfcfcf"),
		DimFG:      lipgloss.Color("#a0a0a0"),
		StatusFG:   lipgloss.Color("#9a9a9a"),
		LegendFG:   lipgloss.Color("#b0b0b0"),
	}
}

func RenderFooter(width int, st FooterState, styles FooterStyles) string {
	if width <= 0 {
		return ""
	}
	if st.Legend == "" {
		st.Legend = "(? help)"
	}
	st.Row = max(0, st.Row)
	st.TotalRows = max(0, st.TotalRows)

	line1 := renderControlBar(width, st, styles)
	line2 := renderStatusBar(width, st, styles)
	return line1 + "\n" + line2
}

func renderControlBar(width int, st FooterState, styles FooterStyles) string {
	const gapW = 1

	rightPlain := truncatePlain(fmt.Sprintf(" Rows %d/%d", st.Row, st.TotalRows), width)
	leftW := max(0, width-runeWidth(rightPlain))

	modeText := st.Pane.String()
	modeColW := min(leftW, runeWidth(modeText)+2)
	statsPlain := fmt.Sprintf("[SEL: %d] · [SORT: %s] · [LAST: %d] · [%s]", st.Selected, st.Order, st.Limit, st.Status)
	statsColW := min(runeWidth(statsPlain), max(0, leftW-modeColW-gapW))
	serverColW := max(0, leftW-modeColW-statsColW-2*gapW)

	modeSeg := renderModeSegment(modeColW, modeText, styles)
	serverSeg := renderServerSegment(serverColW, st.Server, styles)
	statsSeg := applyFG(padRightPlain(truncatePlain(statsPlain, statsColW), statsColW), styles.DimFG, styles.TextFG)

	left := modeSeg + strings.Repeat(" ", gapW) + serverSeg + strings.Repeat(" ", gapW) + statsSeg
	used := modeColW + serverColW + statsColW + 2*gapW
	if used < leftW {
		left += strings.Repeat(" ", leftW-used)
	}
	return applyBar(left+rightPlain, styles.BarBG, styles.TextFG)
}

func renderStatusBar(width int, st FooterState, styles FooterStyles) string {
	legendPlain := truncatePlain(st.Legend, width)
	legendW := runeWidth(legendPlain)

	leftW := width - legendW
	if leftW < 0 {
		leftW = 0
	}

	msgPlain := truncatePlain(st.StatusMessage, leftW)
	msgPlain = padRightPlain(msgPlain, leftW)

	linePlain := applyFG(msgPlain, styles.StatusFG, styles.StatusFG) + applyFG(legendPlain, styles.LegendFG, styles.StatusFG)
	return applyBar(linePlain, styles.StatusBG, styles.StatusFG)
}

func renderModeSegment(colW int, label string, styles FooterStyles) string {
	if colW <= 0 {
		return ""
	}
	pillPlain := truncatePlain(" "+label+" ", colW)
	pad := strings.Repeat(" ", colW-runeWidth(pillPlain))
	return ansiBg(styles.ModePillBG) + ansiFg(styles.ModePillFG) + pillPlain +
		ansiBg(styles.BarBG) + ansiFg(styles.TextFG) + pad
}

func renderServerSegment(colW int, server string, styles FooterStyles) string {
	if colW <= 0 {
		return ""
	}
	name := strings.TrimSpace(server)
	if name == "" {
		name = "(no server)"
	}
	plain := padRightPlain(truncatePlain("▸ "+name, colW), colW)
	return applyFG(plain, styles.FileNameFG, styles.TextFG)
}

func applyBar(s string, bg lipgloss.Color, baseFG lipgloss.Color) string {
	return ansiBg(bg) + ansiFg(baseFG) + s + "\x1b[0m"
}

func applyFG(s string, fg lipgloss.Color, resetFG lipgloss.Color) string {
	return ansiFg(fg) + s + ansiFg(resetFG)
}

func ansiFg(c lipgloss.Color) string {
	return ansiColor(false, c)
}

func ansiBg(c lipgloss.Color) string {
	return ansiColor(true, c)
}

func ansiColor(isBg bool, c lipgloss.Color) string {
	s := string(c)
	if s == "" {
		if isBg {
			return "\x1b[49m"
		}
		return "\x1b[39m"
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		r, _ := strconv.ParseInt(s[1:3], 16, 0)
		g, _ := strconv.ParseInt(s[3:5], 16, 0)
		b, _ := strconv.ParseInt(s[5:7], 16, 0)
		code := 38
		if isBg {
			code = 48
		}
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", code, r, g, b)
	}
	return ""
}

func padRightPlain(s string, w int) string {
	if w <= 0 {
		return ""
	}
	cur := runeWidth(s)
	if cur >= w {
		return s
	}
	return s + strings.Repeat(" ", w-cur)
}

func truncatePlain(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w])
}

func runeWidth(s string) int {
	return len([]rune(s))
}
