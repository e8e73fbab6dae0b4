package samples

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls  []int
	result map[int][]Sample
	err    error
}

func (f *fakeFetcher) FetchUnlabeled(_ context.Context, limit int) ([]Sample, error) {
	f.calls = append(f.calls, limit)
	if f.err != nil {
		return nil, f.err
	}
	return f.result[limit], nil
}

func window(ids ...int64) []Sample {
	out := make([]Sample, len(ids))
	for i, id := range ids {
		out[i] = Sample{ID: id, Timestamp: "2024-12-07 12:55:09", AX: float64(id)}
	}
	return out
}

func TestNewCollectionRejectsDuplicates(t *testing.T) {
	_, err := NewCollection(window(1, 2, 1))
	assert.ErrorIs(t, err, ErrDuplicateID)

	c, err := NewCollection(window(3, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, c.IDs())
	assert.True(t, c.Contains(1))
	assert.False(t, c.Contains(4))
	s, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, 2.0, s.AX)
}

func TestLoadUsesLimit(t *testing.T) {
	f := &fakeFetcher{result: map[int][]Sample{200: window(1, 2), 500: window(1, 2, 3)}}
	s := NewStore(f, 200)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 2, s.Collection().Len())

	assert.True(t, s.SetLimit(500))
	assert.False(t, s.SetLimit(500))
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 3, s.Collection().Len())
	assert.Equal(t, []int{200, 500}, f.calls)
}

func TestEmptyLoadIsValid(t *testing.T) {
	s := NewStore(&fakeFetcher{result: map[int][]Sample{}}, 200)
	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Loaded())
	assert.True(t, s.Collection().Empty())
}

func TestLoadFailureKeepsPriorCollection(t *testing.T) {
	f := &fakeFetcher{result: map[int][]Sample{200: window(1, 2)}}
	s := NewStore(f, 200)
	require.NoError(t, s.Load(context.Background()))

	f.err = errors.New("connection refused")
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, []int64{1, 2}, s.Collection().IDs())
	assert.Error(t, s.LastError())
}

func TestLatestLoadWins(t *testing.T) {
	s := NewStore(&fakeFetcher{}, 200)
	var applied [][]int64
	s.OnReplace(func(c Collection) { applied = append(applied, c.IDs()) })

	a := s.Begin()
	b := s.Begin()

	cb, err := NewCollection(window(20, 21))
	require.NoError(t, err)
	require.NoError(t, s.Apply(b, cb, nil))

	ca, err := NewCollection(window(10, 11))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Apply(a, ca, nil), ErrSuperseded)

	assert.Equal(t, []int64{20, 21}, s.Collection().IDs())
	assert.Equal(t, [][]int64{{20, 21}}, applied)
}

func TestSupersededFailureIsIgnored(t *testing.T) {
	s := NewStore(&fakeFetcher{}, 200)
	a := s.Begin()
	b := s.Begin()
	require.NoError(t, s.Apply(b, Collection{}, nil))
	assert.ErrorIs(t, s.Apply(a, Collection{}, errors.New("timeout")), ErrSuperseded)
	assert.NoError(t, s.LastError())
}

func TestChannelValue(t *testing.T) {
	smp := Sample{AX: 1, AY: 2, AZ: 3, GX: 4, GY: 5, GZ: 6, Pulse: 72}
	want := []float64{1, 2, 3, 4, 5, 6, 72}
	for i, ch := range Channels {
		assert.Equal(t, want[i], ch.Value(smp), ch.String())
	}
	assert.Equal(t, "pulse", ChannelPulse.String())
}
