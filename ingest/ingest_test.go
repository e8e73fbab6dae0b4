package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andareed/siftly-labeler/labelapi"
)

func TestParseLine(t *testing.T) {
	r, err := ParseLine("2024-12-07 12:00:00;-14112;120;16004;-210;33;7;72.5\n")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-07 12:00:00", r.Timestamp)
	assert.Equal(t, -14112.0, r.AX)
	assert.Equal(t, 7.0, r.GZ)
	assert.Equal(t, 72.5, r.Pulse)

	_, err = ParseLine("2024-12-07 12:00:00;1;2;3")
	assert.ErrorIs(t, err, ErrFieldCount)

	_, err = ParseLine("yesterday;1;2;3;4;5;6;7")
	assert.Error(t, err)

	_, err = ParseLine("2024-12-07 12:00:00;1;x;3;4;5;6;7")
	assert.Error(t, err)
}

type fakeIngester struct {
	fails map[string]int // timestamp -> remaining failures
	perm  map[string]bool
	got   []labelapi.Reading
}

func (f *fakeIngester) Ingest(_ context.Context, r labelapi.Reading) error {
	if f.perm[r.Timestamp] {
		return &labelapi.APIError{Status: http.StatusBadRequest, Message: "nope"}
	}
	if f.fails[r.Timestamp] > 0 {
		f.fails[r.Timestamp]--
		return errors.New("connection refused")
	}
	f.got = append(f.got, r)
	return nil
}

func quietReplayer(dst Ingester) *Replayer {
	r := NewReplayer(dst, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return r
}

func TestReplayRetriesAndSkips(t *testing.T) {
	dst := &fakeIngester{
		fails: map[string]int{"2024-12-07 12:00:01": 2},
		perm:  map[string]bool{"2024-12-07 12:00:03": true},
	}
	in := strings.Join([]string{
		"2024-12-07 12:00:00;1;2;3;4;5;6;70",
		"garbage",
		"2024-12-07 12:00:01;1;2;3;4;5;6;71",
		"",
		"2024-12-07 12:00:02;99999;2;3;4;5;6;71",
		"2024-12-07 12:00:03;1;2;3;4;5;6;72",
	}, "\n")

	st, err := quietReplayer(dst).Replay(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 5, Sent: 2, Skipped: 2, Rejected: 1}, st)
	require.Len(t, dst.got, 2)
	assert.Equal(t, "2024-12-07 12:00:01", dst.got[1].Timestamp)
}

func TestReplayGivesUp(t *testing.T) {
	dst := &fakeIngester{fails: map[string]int{"2024-12-07 12:00:00": 100}}
	r := quietReplayer(dst)
	r.MaxAttempts = 3

	st, err := r.Replay(context.Background(), strings.NewReader("2024-12-07 12:00:00;1;2;3;4;5;6;70\n"))
	require.Error(t, err)
	assert.Equal(t, 0, st.Sent)
	assert.Equal(t, 97, dst.fails["2024-12-07 12:00:00"])
}
