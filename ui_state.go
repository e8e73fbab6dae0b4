package main

import "github.com/andareed/siftly-labeler/views"

type pane int

const (
	paneTable pane = iota
	paneChart
)

func (p pane) String() string {
	if p == paneChart {
		return "CHART"
	}
	return "TABLE"
}

type uiState struct {
	focus        pane
	noticeMsg    string
	noticeType   noticeKind
	noticeSeq    int
	brush        views.Brush
	channel      int // index into samples.Channels highlighted on the chart
	visibleStart int
	visibleEnd   int
	command      CommandInput
}
