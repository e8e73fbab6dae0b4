package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andareed/siftly-labeler/dialogs"
	"github.com/andareed/siftly-labeler/labeling"
	"github.com/andareed/siftly-labeler/samples"
	"github.com/andareed/siftly-labeler/views"
)

type stubFetcher struct {
	windows [][]samples.Sample
	calls   int
	err     error
}

func (f *stubFetcher) FetchUnlabeled(context.Context, int) ([]samples.Sample, error) {
	if f.err != nil {
		return nil, f.err
	}
	i := min(f.calls, len(f.windows)-1)
	f.calls++
	return f.windows[i], nil
}

type labelCall struct {
	ids   []int64
	label labeling.Label
}

type stubLabeler struct {
	calls  []labelCall
	failOn int
}

func (l *stubLabeler) BatchLabel(_ context.Context, ids []int64, label labeling.Label) error {
	l.calls = append(l.calls, labelCall{ids: append([]int64(nil), ids...), label: label})
	if l.failOn == len(l.calls) {
		return errors.New("500 Internal Server Error")
	}
	return nil
}

func window(from, to int64) []samples.Sample {
	var out []samples.Sample
	for id := from; id <= to; id++ {
		out = append(out, samples.Sample{
			ID:        id,
			Timestamp: fmt.Sprintf("2024-12-07 12:00:%02d", id),
			AX:        float64(id),
			Pulse:     70,
		})
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel returns a sized model with the first window applied.
func loadedModel(t *testing.T, f *stubFetcher, l *stubLabeler) *model {
	t.Helper()
	m := newModel(context.Background(), f, l, 200)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 48})
	msg := m.Init()()
	m.Update(msg)
	require.False(t, m.data.loading)
	return m
}

func TestLoadAppliesWindow(t *testing.T) {
	m := loadedModel(t, &stubFetcher{windows: [][]samples.Sample{window(1, 10)}}, &stubLabeler{})

	assert.Equal(t, 10, m.data.store.Collection().Len())
	assert.Len(t, m.data.rows, 10)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, m.data.display)
	assert.Equal(t, "Loaded 10 samples", m.ui.noticeMsg)
	assert.NotEmpty(t, m.View())
}

func TestStaleLoadIgnored(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 5), window(11, 13)}}
	m := newModel(context.Background(), f, &stubLabeler{}, 200)

	first := m.startLoad()
	second := m.startLoad()
	oldMsg := first()
	newMsg := second()

	m.Update(newMsg)
	m.Update(oldMsg)

	assert.Equal(t, []int64{11, 12, 13}, m.data.store.Collection().IDs())
	assert.False(t, m.data.loading)
}

func TestLoadFailureKeepsWindow(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 3)}}
	m := loadedModel(t, f, &stubLabeler{})

	f.err = errors.New("connection refused")
	m.Update(m.startLoad()())

	assert.Equal(t, 3, m.data.store.Collection().Len())
	assert.Contains(t, m.ui.noticeMsg, "connection refused")
	assert.Equal(t, noticeError, m.ui.noticeType)
}

func TestToggleAndExtend(t *testing.T) {
	m := loadedModel(t, &stubFetcher{windows: [][]samples.Sample{window(1, 10)}}, &stubLabeler{})

	m.Update(runes("j"))
	m.Update(runes("x"))
	assert.True(t, m.data.sel.IsSelected(2))
	anchor, ok := m.data.sel.Anchor()
	require.True(t, ok)
	assert.Equal(t, int64(2), anchor)

	m.Update(runes("J"))
	m.Update(runes("J"))
	assert.Equal(t, []int64{2, 3, 4}, m.data.sel.Selected())
	assert.True(t, m.data.rows[3].Selected)

	m.Update(runes("A"))
	assert.Zero(t, m.data.sel.Len())
	m.Update(runes("a"))
	assert.Equal(t, 10, m.data.sel.Len())
}

func TestSelectionResetOnReload(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 4), window(1, 4)}}
	m := loadedModel(t, f, &stubLabeler{})

	m.Update(runes("a"))
	require.Equal(t, 4, m.data.sel.Len())

	m.Update(m.startLoad()())
	assert.Zero(t, m.data.sel.Len())
	for _, r := range m.data.rows {
		assert.False(t, r.Selected)
	}
}

func TestSortKeepsCursorOnSample(t *testing.T) {
	m := loadedModel(t, &stubFetcher{windows: [][]samples.Sample{window(1, 5)}}, &stubLabeler{})

	m.Update(runes("j"))
	id, _ := m.cursorID()
	require.Equal(t, int64(2), id)

	m.Update(runes("S"))
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, m.data.display)
	id, _ = m.cursorID()
	assert.Equal(t, int64(2), id)
}

func TestCommitFlow(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 4), window(5, 6)}}
	l := &stubLabeler{}
	m := loadedModel(t, f, l)

	m.Update(runes("x"))
	m.Update(runes("1"))
	require.NotNil(t, m.activeDialog)
	assert.Equal(t, labeling.Idle, m.data.orch.State())

	// confirmation moves the orchestrator into Committing
	m.Update(dialogs.ConfirmAcceptedMsg{Payload: labeling.Positive})
	assert.Nil(t, m.activeDialog)
	assert.Equal(t, labeling.Committing, m.data.orch.State())

	m.Update(runes("0"))
	assert.Equal(t, "Labeling already in progress", m.ui.noticeMsg)
}

func TestCommitResultSuccess(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 4), window(5, 6)}}
	l := &stubLabeler{}
	m := loadedModel(t, f, l)
	m.data.sel.Toggle(2, true)
	m.data.sel.Toggle(3, true)

	a, err := m.data.orch.Begin(labeling.Positive)
	require.NoError(t, err)
	out := a.Run(context.Background())
	_, cmd := m.Update(commitResultMsg{outcome: out})
	require.NotNil(t, cmd)

	require.Len(t, l.calls, 2)
	assert.Equal(t, labelCall{ids: []int64{2, 3}, label: labeling.Positive}, l.calls[0])
	assert.Equal(t, labelCall{ids: []int64{1, 4}, label: labeling.Negative}, l.calls[1])
	assert.Equal(t, labeling.Idle, m.data.orch.State())
	assert.Equal(t, "Labeled 2 as positive(1), 2 as negative(0)", m.ui.noticeMsg)
	assert.True(t, m.data.loading)
}

func TestCommitResultPartialFailure(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 4)}}
	l := &stubLabeler{failOn: 2}
	m := loadedModel(t, f, l)
	m.data.sel.Toggle(1, true)

	a, err := m.data.orch.Begin(labeling.Positive)
	require.NoError(t, err)
	m.Update(commitResultMsg{outcome: a.Run(context.Background())})

	assert.Equal(t, labeling.Failed, m.data.orch.State())
	assert.Equal(t, noticeError, m.ui.noticeType)
	assert.Contains(t, m.ui.noticeMsg, "partial labeling")
	assert.Contains(t, m.ui.noticeMsg, "press 1 with nothing selected to label the rest negative(0)")
	assert.False(t, m.data.loading)
}

func TestJumpCommands(t *testing.T) {
	m := loadedModel(t, &stubFetcher{windows: [][]samples.Sample{window(1, 10)}}, &stubLabeler{})

	m.Update(runes("G"))
	assert.Equal(t, 9, m.cursor)
	m.Update(runes("g"))
	assert.Equal(t, 0, m.cursor)

	m.Update(runes(":"))
	require.True(t, m.inCommandMode())
	m.Update(runes("7"))
	assert.Contains(t, m.activeCommandLine(), "sample id: 7")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.inCommandMode())
	id, _ := m.cursorID()
	assert.Equal(t, int64(7), id)
	assert.Nil(t, m.activeDialog, "digits typed at the prompt must not commit")

	m.Update(runes(":"))
	m.Update(runes("99"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.ui.noticeMsg, "Sample 99 is not in the loaded window")

	m.Update(runes("/"))
	for _, r := range "12:00:03" {
		m.Update(runes(string(r)))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	id, _ = m.cursorID()
	assert.Equal(t, int64(3), id)

	m.Update(runes(":"))
	m.Update(runes("5"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.inCommandMode())
	id, _ = m.cursorID()
	assert.Equal(t, int64(3), id)
}

func TestBrushSelectsRegion(t *testing.T) {
	m := loadedModel(t, &stubFetcher{windows: [][]samples.Sample{window(1, 10)}}, &stubLabeler{})

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, paneChart, m.ui.focus)

	m.Update(runes("l"))
	m.Update(runes("b"))
	m.Update(runes("l"))
	m.Update(runes("l"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []int64{2, 3, 4}, m.data.sel.Selected())
}

func TestWriteWindowCSV(t *testing.T) {
	c, err := samples.NewCollection(window(1, 2))
	require.NoError(t, err)
	rows := views.BuildRows(c, []int64{2, 1}, selectedSet{2: true})

	var buf bytes.Buffer
	require.NoError(t, writeWindowCSV(&buf, rows))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "id", recs[0][0])
	assert.Equal(t, "timestamp", recs[0][1])
	assert.Equal(t, "selected", recs[0][len(recs[0])-1])
	assert.Equal(t, "2", recs[1][0])
	assert.Equal(t, "true", recs[1][len(recs[1])-1])
	assert.Equal(t, "false", recs[2][len(recs[2])-1])
}

type selectedSet map[int64]bool

func (s selectedSet) IsSelected(id int64) bool { return s[id] }

func TestLayoutColumns(t *testing.T) {
	cols := layoutColumns(defaultColumns(), 140)
	total := 0
	for _, c := range cols {
		assert.GreaterOrEqual(t, c.Width, c.MinWidth)
		total += c.Width
	}
	assert.LessOrEqual(t, total, 140)

	narrow := layoutColumns(defaultColumns(), 30)
	for _, c := range narrow {
		assert.Equal(t, c.MinWidth, c.Width)
	}
}

func TestFooterRender(t *testing.T) {
	st := FooterState{
		Pane:      paneTable,
		Server:    "http://localhost:5000",
		Order:     "ID asc",
		Selected:  3,
		Limit:     200,
		Status:    "idle",
		Row:       1,
		TotalRows: 10,
		Legend:    "(? help)",
	}
	out := RenderFooter(120, st, DefaultFooterStyles())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out, "TABLE")
	assert.Contains(t, out, "localhost:5000")
}

func TestSelectionAndReloadLockedWhileCommitting(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 4), window(5, 6)}}
	m := loadedModel(t, f, &stubLabeler{})
	m.data.sel.Toggle(1, true)
	m.data.sel.Toggle(2, true)
	calls := f.calls

	m.Update(dialogs.ConfirmAcceptedMsg{Payload: labeling.Positive})
	require.Equal(t, labeling.Committing, m.data.orch.State())

	m.Update(runes("j"))
	for _, k := range []string{"x", "X", "J", "a", "A"} {
		_, cmd := m.Update(runes(k))
		assert.NotNil(t, cmd, "key %q", k)
		assert.Equal(t, []int64{1, 2}, m.data.sel.Selected(), "key %q", k)
	}
	assert.Equal(t, "Labeling in progress, selection and reload are locked", m.ui.noticeMsg)

	m.Update(runes("r"))
	m.Update(dialogs.LimitChosenMsg{Limit: 500})
	m.Update(runes("L"))
	assert.Nil(t, m.activeDialog)
	assert.False(t, m.data.loading)
	assert.Equal(t, calls, f.calls)
	assert.Equal(t, 200, m.data.store.Limit())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("b"))
	m.Update(runes("l"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []int64{1, 2}, m.data.sel.Selected())

	out := labeling.Outcome{
		Target:    labeling.Positive,
		Partition: labeling.Partition{Selected: []int64{1, 2}, Unselected: []int64{3, 4}},
		Err: &labeling.CommitError{
			Stage:   labeling.StageSelected,
			Label:   labeling.Positive,
			Pending: 4,
			Err:     errors.New("500 Internal Server Error"),
		},
	}
	m.Update(commitResultMsg{outcome: out})

	assert.Equal(t, labeling.Failed, m.data.orch.State())
	assert.Contains(t, m.ui.noticeMsg, "nothing was changed")
	assert.Equal(t, []int64{1, 2}, m.data.sel.Selected())
	assert.Equal(t, []int64{1, 2, 3, 4}, m.data.store.Collection().IDs())
}

func TestReloadAcknowledgesFailedCommit(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{window(1, 4)}}
	m := loadedModel(t, f, &stubLabeler{failOn: 1})
	m.data.sel.Toggle(1, true)

	a, err := m.data.orch.Begin(labeling.Positive)
	require.NoError(t, err)
	m.Update(commitResultMsg{outcome: a.Run(context.Background())})
	require.Equal(t, labeling.Failed, m.data.orch.State())
	require.Error(t, m.data.orch.LastError())

	m.Update(runes("r"))
	assert.Equal(t, labeling.Idle, m.data.orch.State())
	assert.NoError(t, m.data.orch.LastError())
	assert.True(t, m.data.loading)
}

func TestCommitWaitsForLoad(t *testing.T) {
	m := loadedModel(t, &stubFetcher{windows: [][]samples.Sample{window(1, 4)}}, &stubLabeler{})

	m.startLoad()
	m.Update(runes("1"))
	assert.Nil(t, m.activeDialog)
	assert.Equal(t, "Wait for the load to finish", m.ui.noticeMsg)
	assert.Equal(t, labeling.Idle, m.data.orch.State())
}

func TestCommitOnEmptyWindowReloads(t *testing.T) {
	f := &stubFetcher{windows: [][]samples.Sample{nil}}
	l := &stubLabeler{}
	m := loadedModel(t, f, l)
	require.True(t, m.data.store.Collection().Empty())

	_, cmd := m.Update(runes("1"))
	require.NotNil(t, cmd)
	assert.Nil(t, m.activeDialog, "nothing to confirm on an empty window")
	assert.Equal(t, labeling.Committing, m.data.orch.State())

	m.Update(commitResultMsg{outcome: labeling.Outcome{Target: labeling.Positive}})
	assert.Equal(t, labeling.Idle, m.data.orch.State())
	assert.Equal(t, "Nothing to label, reloading", m.ui.noticeMsg)
	assert.True(t, m.data.loading)
	assert.Empty(t, l.calls)
}

func TestBrushApplyWithoutRegionKeepsSelection(t *testing.T) {
	m := loadedModel(t, &stubFetcher{windows: [][]samples.Sample{window(1, 10)}}, &stubLabeler{})
	m.data.sel.Toggle(3, true)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []int64{3}, m.data.sel.Selected())
	assert.Equal(t, "Press b to start a region first", m.ui.noticeMsg)

	m.Update(runes("b"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []int64{3}, m.data.sel.Selected())
}
