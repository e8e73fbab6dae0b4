package views

import (
	"fmt"
	"math"
	"sort"

	"github.com/andareed/siftly-labeler/samples"
	"github.com/andareed/siftly-labeler/selection"
)

// tickInterval spaces x-axis labels by sample id.
const tickInterval = 20

// Series is one channel trace. X is the sample id.
type Series struct {
	Channel   samples.Channel
	Name      string
	X         []int64
	Y         []float64
	Text      []string // timestamps, for hover/legend
	Secondary bool
}

// Layout is the declarative description handed to the chart renderer.
type Layout struct {
	Title           string
	DragMode        string
	SelectDirection string
	TickVals        []int64
	TickText        []string
	YTitle          string
	Y2Title         string
}

// BuildSeries returns one series per channel in id order, with pulse on the
// secondary axis.
func BuildSeries(c samples.Collection) []Series {
	rows := c.Samples()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	out := make([]Series, 0, len(samples.Channels))
	for _, ch := range samples.Channels {
		s := Series{
			Channel:   ch,
			Name:      ch.String(),
			X:         make([]int64, len(rows)),
			Y:         make([]float64, len(rows)),
			Text:      make([]string, len(rows)),
			Secondary: ch == samples.ChannelPulse,
		}
		for i, r := range rows {
			s.X[i] = r.ID
			s.Y[i] = ch.Value(r)
			s.Text[i] = r.Timestamp
		}
		out = append(out, s)
	}
	return out
}

// BuildLayout labels every tickInterval-th id, and the last one, with its
// timestamp.
func BuildLayout(c samples.Collection, limit int) Layout {
	l := Layout{
		Title:           fmt.Sprintf("Last %d sensor samples", limit),
		DragMode:        "select",
		SelectDirection: "h",
		YTitle:          "Sensor values",
		Y2Title:         "Pulse",
	}
	n := c.Len()
	for i := 0; i < n; i++ {
		s := c.At(i)
		if s.ID%tickInterval == 0 || i == n-1 {
			l.TickVals = append(l.TickVals, s.ID)
			l.TickText = append(l.TickText, s.Timestamp)
		}
	}
	return l
}

func bounds(ys []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		if math.IsNaN(y) {
			continue
		}
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	return lo, hi, !math.IsInf(lo, 1)
}

// ProjectSecondary maps secondary-axis series linearly onto the value range
// of the primary series so both can share one canvas. Primary series are
// returned unchanged.
func ProjectSecondary(series []Series) [][]float64 {
	pLo, pHi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if s.Secondary {
			continue
		}
		if lo, hi, ok := bounds(s.Y); ok {
			pLo = math.Min(pLo, lo)
			pHi = math.Max(pHi, hi)
		}
	}
	hasPrimary := !math.IsInf(pLo, 1)

	out := make([][]float64, len(series))
	for i, s := range series {
		ys := make([]float64, len(s.Y))
		copy(ys, s.Y)
		if s.Secondary && hasPrimary {
			sLo, sHi, ok := bounds(s.Y)
			if ok {
				for j, y := range ys {
					if sHi == sLo {
						ys[j] = (pLo + pHi) / 2
						continue
					}
					ys[j] = pLo + (y-sLo)/(sHi-sLo)*(pHi-pLo)
				}
			}
		}
		out[i] = ys
	}
	return out
}

// Brush is a keyboard stand-in for a horizontal drag selection on the
// chart. Positions index the shared x values of the series.
type Brush struct {
	Cursor int
	Start  int
	Active bool
}

// Move shifts the cursor by delta, clamped to [0, n).
func (b Brush) Move(delta, n int) Brush {
	if n <= 0 {
		b.Cursor = 0
		return b
	}
	b.Cursor = max(0, min(n-1, b.Cursor+delta))
	return b
}

// Begin anchors the brush at the cursor.
func (b Brush) Begin() Brush {
	b.Start = b.Cursor
	b.Active = true
	return b
}

// Span returns the inclusive position range covered by an active brush.
func (b Brush) Span() (lo, hi int) {
	return min(b.Start, b.Cursor), max(b.Start, b.Cursor)
}

// Region converts the brush into the event the chart would report: one
// point per trace for every x inside the span. An inactive brush yields nil.
func (b Brush) Region(series []Series) *selection.RegionEvent {
	if !b.Active || len(series) == 0 || len(series[0].X) == 0 {
		return nil
	}
	xs := series[0].X
	lo, hi := b.Span()
	lo = max(0, lo)
	hi = min(len(xs)-1, hi)
	if lo > hi {
		return &selection.RegionEvent{}
	}
	xLo, xHi := xs[lo], xs[hi]

	ev := &selection.RegionEvent{}
	for _, s := range series {
		for _, x := range s.X {
			if x >= xLo && x <= xHi {
				ev.Points = append(ev.Points, selection.Point{X: x, Trace: s.Name})
			}
		}
	}
	return ev
}
