// Package views derives what the table and the chart show from the loaded
// samples and the selection. Nothing here owns state beyond display
// concerns.
package views

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/andareed/siftly-labeler/samples"
)

// Column identifies a table column. ColumnID and ColumnTimestamp are the
// row key and time, the rest are channels.
type Column int

const (
	ColumnID Column = iota
	ColumnTimestamp
	ColumnAX
	ColumnAY
	ColumnAZ
	ColumnGX
	ColumnGY
	ColumnGZ
	ColumnPulse
)

// Columns is the table layout, left to right.
var Columns = []Column{ColumnID, ColumnTimestamp, ColumnAX, ColumnAY, ColumnAZ, ColumnGX, ColumnGY, ColumnGZ, ColumnPulse}

func (c Column) Title() string {
	switch c {
	case ColumnID:
		return "ID"
	case ColumnTimestamp:
		return "Timestamp"
	case ColumnPulse:
		return "Pulse"
	}
	if ch, ok := c.channel(); ok {
		return ch.String()
	}
	return fmt.Sprintf("col%d", int(c))
}

func (c Column) channel() (samples.Channel, bool) {
	if c < ColumnAX || c > ColumnPulse {
		return 0, false
	}
	return samples.Channel(c - ColumnAX), true
}

// Cell formats the value of c for s.
func (c Column) Cell(s samples.Sample) string {
	switch c {
	case ColumnID:
		return strconv.FormatInt(s.ID, 10)
	case ColumnTimestamp:
		return s.Timestamp
	}
	if ch, ok := c.channel(); ok {
		return strconv.FormatFloat(ch.Value(s), 'f', -1, 64)
	}
	return ""
}

func (c Column) less(a, b samples.Sample) bool {
	switch c {
	case ColumnID:
		return a.ID < b.ID
	case ColumnTimestamp:
		return a.Timestamp < b.Timestamp
	}
	if ch, ok := c.channel(); ok {
		return ch.Value(a) < ch.Value(b)
	}
	return false
}

// TableOrder is the current sort key and direction of the table. The zero
// value sorts by id ascending.
type TableOrder struct {
	Key  Column
	Desc bool
}

// Apply returns the Display Order: the collection's ids sorted by Key.
// Ties keep load order.
func (o TableOrder) Apply(c samples.Collection) []int64 {
	rows := c.Samples()
	sort.SliceStable(rows, func(i, j int) bool {
		if o.Desc {
			return o.Key.less(rows[j], rows[i])
		}
		return o.Key.less(rows[i], rows[j])
	})
	ids := make([]int64, len(rows))
	for i, s := range rows {
		ids[i] = s.ID
	}
	return ids
}

// NextKey cycles the sort key to the following column.
func (o TableOrder) NextKey() TableOrder {
	o.Key = Column((int(o.Key) + 1) % len(Columns))
	return o
}

// Flip reverses the direction.
func (o TableOrder) Flip() TableOrder {
	o.Desc = !o.Desc
	return o
}

func (o TableOrder) String() string {
	dir := "asc"
	if o.Desc {
		dir = "desc"
	}
	return o.Key.Title() + " " + dir
}

// Row is one table line keyed by id.
type Row struct {
	ID       int64
	Cells    []string
	Selected bool
}

// Selector is the part of the selection the table needs.
type Selector interface {
	IsSelected(id int64) bool
}

// BuildRows renders rows in display order.
func BuildRows(c samples.Collection, order []int64, sel Selector) []Row {
	rows := make([]Row, 0, len(order))
	for _, id := range order {
		s, ok := c.Get(id)
		if !ok {
			continue
		}
		cells := make([]string, len(Columns))
		for i, col := range Columns {
			cells[i] = col.Cell(s)
		}
		rows = append(rows, Row{ID: id, Cells: cells, Selected: sel.IsSelected(id)})
	}
	return rows
}
