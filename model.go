package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	plot "github.com/chriskim06/drawille-go"

	"github.com/andareed/siftly-labeler/dialogs"
	"github.com/andareed/siftly-labeler/labeling"
	"github.com/andareed/siftly-labeler/logging"
	"github.com/andareed/siftly-labeler/samples"
	"github.com/andareed/siftly-labeler/selection"
)

type loadResultMsg struct {
	ticket samples.Ticket
	coll   samples.Collection
	err    error
}

type commitResultMsg struct {
	outcome labeling.Outcome
}

type model struct {
	ctx  context.Context
	data dataState
	ui   uiState
	keys Keymap

	viewport       viewport.Model
	chart          *plot.Canvas
	ready          bool
	cursor         int // index into data.display
	pageRowSize    int
	terminalWidth  int
	terminalHeight int
	chartHeight    int

	server       string
	activeDialog dialogs.Dialog
}

func newModel(ctx context.Context, fetcher samples.Fetcher, labeler labeling.Labeler, limit int) *model {
	store := samples.NewStore(fetcher, limit)
	sel := selection.NewModel()

	m := &model{
		ctx:  ctx,
		keys: Keys,
		data: dataState{
			store:  store,
			sel:    sel,
			orch:   labeling.NewOrchestrator(store, sel, labeler),
			bridge: selection.NewPlotBridge(sel),
		},
	}
	// selection never survives a reload
	store.OnReplace(func(samples.Collection) { sel.Reset() })
	sel.Subscribe(func(c selection.Change) {
		logging.Debugf("selection: %v now %d selected", c.Kind, c.Selected)
		m.data.rebuildRows()
		m.refreshViewport()
	})
	m.resizeChart(80, 12)
	m.data.rebuildOrder()
	return m
}

func (m *model) Init() tea.Cmd {
	logging.Infof("sflabel: initialised, limit %d", m.data.store.Limit())
	return m.startLoad()
}

// startLoad issues a new load ticket; any load still in flight becomes stale.
func (m *model) startLoad() tea.Cmd {
	store := m.data.store
	t := store.Begin()
	m.data.loading = true
	ctx := m.ctx
	return func() tea.Msg {
		c, err := store.Fetch(ctx, t)
		return loadResultMsg{ticket: t, coll: c, err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case clearNoticeMsg:
		m.clearNotice(msg)
		return m, nil

	case loadResultMsg:
		return m, m.handleLoadResult(msg)

	case commitResultMsg:
		return m, m.handleCommitResult(msg)

	case dialogs.ConfirmAcceptedMsg:
		m.activeDialog = nil
		if target, ok := msg.Payload.(labeling.Label); ok {
			return m, m.startCommit(target)
		}
		return m, nil

	case dialogs.ConfirmCanceledMsg:
		m.activeDialog = nil
		return m, m.startNotice("Labeling cancelled", noticeInfo, noticeDuration)

	case dialogs.LimitChosenMsg:
		m.activeDialog = nil
		if m.committing() {
			return m, m.lockedWhileCommitting()
		}
		return m, m.changeLimit(msg.Limit)

	case dialogs.LimitCanceledMsg:
		m.activeDialog = nil
		return m, nil

	case dialogs.ExportConfirmedMsg:
		m.activeDialog = nil
		return m, m.exportWindow(msg.Path)

	case dialogs.ExportCanceledMsg:
		m.activeDialog = nil
		return m, nil

	case dialogs.ExportOKMsg:
		return m, m.startNotice(fmt.Sprintf("Exported to %s", msg.Path), noticeSuccess, noticeDuration)

	case dialogs.ExportErrorMsg:
		return m, m.startNotice(fmt.Sprintf("Export failed: %v", msg.Err), noticeError, errorNoticeDuration)

	case tea.KeyMsg:
		if m.activeDialog != nil && m.activeDialog.IsVisible() {
			var cmd tea.Cmd
			m.activeDialog, cmd = m.activeDialog.Update(msg)
			if !m.activeDialog.IsVisible() {
				m.activeDialog = nil
			}
			return m, cmd
		}
		if m.inCommandMode() {
			return m, m.handleCommandKey(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.OpenHelp):
		m.activeDialog = dialogs.NewHelpDialog(m.keys.Legend())
		return m, nil
	case key.Matches(msg, m.keys.SwitchPane):
		if m.ui.focus == paneTable {
			m.ui.focus = paneChart
		} else {
			m.ui.focus = paneTable
		}
		return m, nil
	case key.Matches(msg, m.keys.Positive):
		return m, m.requestCommit(labeling.Positive)
	case key.Matches(msg, m.keys.Negative):
		return m, m.requestCommit(labeling.Negative)
	case key.Matches(msg, m.keys.LoadSize):
		if m.committing() {
			return m, m.lockedWhileCommitting()
		}
		m.activeDialog = dialogs.NewLimitDialog(samples.LoadSizes, m.data.store.Limit())
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.committing() {
			return m, m.lockedWhileCommitting()
		}
		// reloading is how the operator dismisses a failed commit
		m.data.orch.Acknowledge()
		return m, tea.Batch(m.startLoad(), m.startNotice("Reloading…", noticeInfo, noticeDuration))
	case key.Matches(msg, m.keys.SelectAll):
		if m.committing() {
			return m, m.lockedWhileCommitting()
		}
		m.data.sel.SelectAll(m.data.display)
		return m, nil
	case key.Matches(msg, m.keys.ClearAll):
		if m.committing() {
			return m, m.lockedWhileCommitting()
		}
		m.data.sel.ClearAll()
		return m, nil
	case key.Matches(msg, m.keys.CopyIDs):
		return m, m.copySelectedIDs()
	case key.Matches(msg, m.keys.Export):
		m.activeDialog = dialogs.NewExportDialog(defaultExportName(m.data.store.Limit()), "")
		return m, nil
	}

	if m.ui.focus == paneChart {
		return m, m.handleChartKey(msg)
	}
	return m, m.handleTableKey(msg)
}

func (m *model) handleLoadResult(msg loadResultMsg) tea.Cmd {
	err := m.data.store.Apply(msg.ticket, msg.coll, msg.err)
	if errors.Is(err, samples.ErrSuperseded) {
		return nil
	}
	m.data.loading = false
	if err != nil {
		m.refreshViewport()
		return m.startNotice(fmt.Sprintf("Load failed: %v (r to retry)", err), noticeError, errorNoticeDuration)
	}

	m.data.rebuildOrder()
	m.ui.brush = m.ui.brush.Move(0, len(m.data.display))
	m.ui.brush.Active = false
	m.clampCursor()
	m.refreshViewport()

	n := m.data.store.Collection().Len()
	if n == 0 {
		return m.startNotice("No unlabeled samples", noticeInfo, noticeDuration)
	}
	return m.startNotice(fmt.Sprintf("Loaded %d samples", n), noticeSuccess, noticeDuration)
}

func (m *model) changeLimit(n int) tea.Cmd {
	if !m.data.store.SetLimit(n) {
		return nil
	}
	logging.Infof("sflabel: load size now %d", n)
	return tea.Batch(m.startLoad(), m.startNotice(fmt.Sprintf("Loading last %d", n), noticeInfo, noticeDuration))
}

func (m *model) resize(w, h int) {
	m.terminalWidth, m.terminalHeight = w, h
	m.chartHeight = max(6, h/3)

	// margins, borders, table header, chart axis lines and footer
	tableH := h - m.chartHeight - 12
	m.viewport = viewport.New(max(10, w-6), max(3, tableH))
	m.resizeChart(max(10, w-8), m.chartHeight)
	m.ready = true
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderViewport())
}

func (m *model) clampCursor() {
	n := len(m.data.display)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// cursorID is the sample under the table cursor.
func (m *model) cursorID() (int64, bool) {
	if m.cursor < 0 || m.cursor >= len(m.data.display) {
		return 0, false
	}
	return m.data.display[m.cursor], true
}
