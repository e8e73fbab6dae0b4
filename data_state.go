package main

import (
	"github.com/andareed/siftly-labeler/labeling"
	"github.com/andareed/siftly-labeler/samples"
	"github.com/andareed/siftly-labeler/selection"
	"github.com/andareed/siftly-labeler/views"
)

// dataState holds the core collaborators and the views derived from them.
type dataState struct {
	store  *samples.Store
	sel    *selection.Model
	orch   *labeling.Orchestrator
	bridge *selection.PlotBridge

	order   views.TableOrder
	display []int64 // current display order, drives range picks and select all
	rows    []views.Row
	series  []views.Series
	layout  views.Layout

	loading bool
}

// rebuildOrder re-derives display order, rows and chart series from the
// store. Call after a load or a sort change.
func (d *dataState) rebuildOrder() {
	c := d.store.Collection()
	d.display = d.order.Apply(c)
	d.series = views.BuildSeries(c)
	d.layout = views.BuildLayout(c, d.store.Limit())
	d.rebuildRows()
}

// rebuildRows refreshes the selected flags only.
func (d *dataState) rebuildRows() {
	d.rows = views.BuildRows(d.store.Collection(), d.display, d.sel)
}
