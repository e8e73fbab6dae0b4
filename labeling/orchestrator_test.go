package labeling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andareed/siftly-labeler/samples"
	"github.com/andareed/siftly-labeler/selection"
)

type batchCall struct {
	ids   []int64
	label Label
}

type recordingLabeler struct {
	calls  []batchCall
	failOn int // 1-based call number to fail, 0 never
}

func (r *recordingLabeler) BatchLabel(_ context.Context, ids []int64, label Label) error {
	r.calls = append(r.calls, batchCall{ids: append([]int64(nil), ids...), label: label})
	if r.failOn == len(r.calls) {
		return errors.New("500 internal server error")
	}
	return nil
}

type windowFetcher struct {
	windows [][]samples.Sample
	calls   int
	err     error
}

func (w *windowFetcher) FetchUnlabeled(context.Context, int) ([]samples.Sample, error) {
	if w.err != nil {
		return nil, w.err
	}
	i := min(w.calls, len(w.windows)-1)
	w.calls++
	return w.windows[i], nil
}

func ids(from, to int64) []samples.Sample {
	var out []samples.Sample
	for id := from; id <= to; id++ {
		out = append(out, samples.Sample{ID: id})
	}
	return out
}

type fixture struct {
	store   *samples.Store
	sel     *selection.Model
	labeler *recordingLabeler
	fetcher *windowFetcher
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sel:     selection.NewModel(),
		labeler: &recordingLabeler{},
		fetcher: &windowFetcher{windows: [][]samples.Sample{ids(1, 10), ids(11, 20)}},
	}
	f.store = samples.NewStore(f.fetcher, 10)
	f.store.OnReplace(func(samples.Collection) { f.sel.Reset() })
	require.NoError(t, f.store.Load(context.Background()))
	f.orch = NewOrchestrator(f.store, f.sel, f.labeler)
	return f
}

func TestCommitOrdering(t *testing.T) {
	f := newFixture(t)
	for _, id := range []int64{2, 4, 6, 8} {
		f.sel.Toggle(id, true)
	}

	res, err := f.orch.Commit(context.Background(), Positive)
	require.NoError(t, err)
	require.NoError(t, res.ReloadErr)

	require.Len(t, f.labeler.calls, 2)
	assert.Equal(t, batchCall{ids: []int64{2, 4, 6, 8}, label: Positive}, f.labeler.calls[0])
	assert.Equal(t, batchCall{ids: []int64{1, 3, 5, 7, 9, 10}, label: Negative}, f.labeler.calls[1])

	assert.Equal(t, Idle, f.orch.State())
	assert.Equal(t, 0, f.sel.Len())
	_, hasAnchor := f.sel.Anchor()
	assert.False(t, hasAnchor)
	assert.Equal(t, ids(11, 20)[0].ID, f.store.Collection().IDs()[0], "store reloaded")
}

func TestPartitionCompleteness(t *testing.T) {
	f := newFixture(t)
	f.sel.Toggle(3, true)
	f.sel.Toggle(999, false) // stale, not loaded

	p := Plan(f.store.Collection(), f.sel)
	assert.Equal(t, []int64{3}, p.Selected)

	all := append(append([]int64{}, p.Selected...), p.Unselected...)
	assert.ElementsMatch(t, f.store.Collection().IDs(), all)
	for _, id := range p.Selected {
		assert.NotContains(t, p.Unselected, id)
	}
}

func TestCommitSkipsEmptyGroups(t *testing.T) {
	t.Run("nothing selected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.orch.Commit(context.Background(), Positive)
		require.NoError(t, err)
		require.Len(t, f.labeler.calls, 1)
		assert.Equal(t, Negative, f.labeler.calls[0].label)
		assert.Len(t, f.labeler.calls[0].ids, 10)
	})

	t.Run("everything selected", func(t *testing.T) {
		f := newFixture(t)
		f.sel.SelectAll(f.store.Collection().IDs())
		_, err := f.orch.Commit(context.Background(), Negative)
		require.NoError(t, err)
		require.Len(t, f.labeler.calls, 1)
		assert.Equal(t, Negative, f.labeler.calls[0].label)
	})
}

func TestFirstBatchFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.labeler.failOn = 1
	f.sel.Toggle(4, true)
	f.sel.Toggle(5, true)
	before := f.store.Collection().IDs()

	_, err := f.orch.Commit(context.Background(), Positive)
	require.Error(t, err)

	var ce *CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, StageSelected, ce.Stage)
	assert.False(t, IsPartial(err))
	assert.Len(t, f.labeler.calls, 1, "second batch must not be attempted")

	assert.Equal(t, Failed, f.orch.State())
	assert.Equal(t, []int64{4, 5}, f.sel.Selected())
	anchor, _ := f.sel.Anchor()
	assert.Equal(t, int64(5), anchor)
	assert.Equal(t, before, f.store.Collection().IDs())
	assert.Equal(t, 1, f.fetcher.calls, "no reload after failure")
}

func TestSecondBatchFailureIsPartial(t *testing.T) {
	f := newFixture(t)
	f.labeler.failOn = 2
	f.sel.Toggle(1, true)

	_, err := f.orch.Commit(context.Background(), Positive)
	require.Error(t, err)
	assert.True(t, IsPartial(err))
	assert.Len(t, f.labeler.calls, 2)

	partialMsg := err.Error()

	g := newFixture(t)
	g.labeler.failOn = 1
	g.sel.Toggle(1, true)
	_, firstErr := g.orch.Commit(context.Background(), Positive)
	require.Error(t, firstErr)
	assert.NotEqual(t, firstErr.Error(), partialMsg)
	assert.Contains(t, partialMsg, "partial")

	assert.Equal(t, []int64{1}, f.sel.Selected())
	assert.Equal(t, Failed, f.orch.State())
}

func TestRetryAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.labeler.failOn = 1
	f.sel.Toggle(2, true)
	_, err := f.orch.Commit(context.Background(), Negative)
	require.Error(t, err)
	assert.Equal(t, Failed, f.orch.State())

	f.labeler.failOn = 0
	_, err = f.orch.Commit(context.Background(), Negative)
	require.NoError(t, err)
	assert.Equal(t, Idle, f.orch.State())
	assert.Equal(t, batchCall{ids: []int64{2}, label: Negative}, f.labeler.calls[1])
}

func TestCommitGuards(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Commit(context.Background(), Label(2))
	assert.ErrorIs(t, err, ErrInvalidLabel)

	a, err := f.orch.Begin(Positive)
	require.NoError(t, err)
	_, err = f.orch.Begin(Positive)
	assert.ErrorIs(t, err, ErrCommitInProgress)
	require.NoError(t, f.orch.Finish(a.Run(context.Background())))

	empty := samples.NewStore(&windowFetcher{windows: [][]samples.Sample{nil}}, 10)
	require.NoError(t, empty.Load(context.Background()))
	calls := len(f.labeler.calls)
	res, err := NewOrchestrator(empty, selection.NewModel(), f.labeler).Commit(context.Background(), Positive)
	require.NoError(t, err)
	assert.Empty(t, res.Partition.Selected)
	assert.Empty(t, res.Partition.Unselected)
	assert.Len(t, f.labeler.calls, calls, "empty window issues no batch calls")
}

func TestReloadFailureAfterCommit(t *testing.T) {
	f := newFixture(t)
	f.sel.Toggle(1, true)
	f.fetcher.err = errors.New("connection reset")

	res, err := f.orch.Commit(context.Background(), Positive)
	require.NoError(t, err)
	assert.Error(t, res.ReloadErr)
	assert.Equal(t, 0, f.sel.Len())
	assert.Equal(t, Idle, f.orch.State())
}

func TestStalenessInvariant(t *testing.T) {
	f := newFixture(t)
	f.sel.SelectAll(f.store.Collection().IDs())
	f.sel.Toggle(3, true)

	require.NoError(t, f.store.Load(context.Background()))
	assert.Equal(t, 0, f.sel.Len())
	for _, id := range f.sel.Selected() {
		assert.True(t, f.store.Collection().Contains(id))
	}
}

func TestLabelOpposite(t *testing.T) {
	assert.Equal(t, Negative, Positive.Opposite())
	assert.Equal(t, Positive, Negative.Opposite())
	assert.False(t, Label(3).Valid())
}
