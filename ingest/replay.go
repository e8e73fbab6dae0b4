package ingest

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/andareed/siftly-labeler/labelapi"
)

// Ingester stores one reading. *labelapi.Client satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, r labelapi.Reading) error
}

// Stats summarises a replay.
type Stats struct {
	Lines    int
	Sent     int
	Skipped  int
	Rejected int
}

type Replayer struct {
	dst         Ingester
	log         *slog.Logger
	MaxAttempts int
	newBackOff  func() backoff.BackOff
}

func NewReplayer(dst Ingester, log *slog.Logger) *Replayer {
	if log == nil {
		log = slog.Default()
	}
	return &Replayer{
		dst:         dst,
		log:         log,
		MaxAttempts: 6,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
}

// permanent reports errors a retry cannot fix.
func permanent(err error) bool {
	var apiErr *labelapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests
	}
	return false
}

func (r *Replayer) send(ctx context.Context, rd labelapi.Reading) error {
	b := r.newBackOff()
	var err error
	for attempt := 1; ; attempt++ {
		err = r.dst.Ingest(ctx, rd)
		if err == nil || permanent(err) || attempt >= r.MaxAttempts {
			return err
		}
		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return err
		}
		r.log.Warn("ingest failed, retrying", "err", err, "attempt", attempt, "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Replay sends every parseable line from in. Malformed lines and
// readings the service rejects are counted and skipped; a reading that
// still fails after retries stops the replay.
func (r *Replayer) Replay(ctx context.Context, in io.Reader) (Stats, error) {
	var st Stats
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		st.Lines++
		rd, err := ParseLine(line)
		if err != nil {
			st.Skipped++
			r.log.Debug("skipping line", "line", st.Lines, "err", err)
			continue
		}
		if !rd.Validate() {
			st.Skipped++
			r.log.Debug("reading out of range", "line", st.Lines)
			continue
		}
		if err := r.send(ctx, rd); err != nil {
			if permanent(err) {
				st.Rejected++
				r.log.Warn("reading rejected", "line", st.Lines, "err", err)
				continue
			}
			return st, err
		}
		st.Sent++
	}
	return st, sc.Err()
}
