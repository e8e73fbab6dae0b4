package selection

import "github.com/andareed/siftly-labeler/logging"

// Point is one chart point hit by a region selection. X is the sample id.
type Point struct {
	X     int64
	Trace string
}

// RegionEvent is what the chart reports after a drag/brush selection.
type RegionEvent struct {
	Points []Point
}

// PlotBridge turns chart region selections into selection replacements.
type PlotBridge struct {
	model *Model
}

func NewPlotBridge(m *Model) *PlotBridge {
	return &PlotBridge{model: m}
}

// ApplyRegion replaces the selection with the distinct x values of ev. A nil
// or empty event clears the selection.
func (b *PlotBridge) ApplyRegion(ev *RegionEvent) {
	ids := UniqueX(ev)
	logging.Debugf("plot: region with %d ids", len(ids))
	b.model.ReplaceWith(ids)
}

// UniqueX returns the x values of ev in first-seen order without repeats.
func UniqueX(ev *RegionEvent) []int64 {
	if ev == nil || len(ev.Points) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ev.Points))
	out := make([]int64, 0, len(ev.Points))
	for _, p := range ev.Points {
		if _, ok := seen[p.X]; ok {
			continue
		}
		seen[p.X] = struct{}{}
		out = append(out, p.X)
	}
	return out
}
