package samples

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andareed/siftly-labeler/logging"
)

// LoadSizes are the window sizes offered to the operator.
var LoadSizes = []int{200, 500, 1000, 2000}

const DefaultLimit = 1000

// ErrSuperseded is returned by Apply when a newer load was started after the
// ticket was issued. The result is discarded.
var ErrSuperseded = errors.New("load superseded by a newer request")

// Fetcher retrieves up to limit of the most recent unlabeled samples.
type Fetcher interface {
	FetchUnlabeled(ctx context.Context, limit int) ([]Sample, error)
}

// Ticket identifies one initiated load.
type Ticket struct {
	Generation uint64
	Limit      int
}

// Store owns the current Collection and decides which load result may
// replace it: only the most recently initiated load is ever applied.
type Store struct {
	mu        sync.Mutex
	fetcher   Fetcher
	limit     int
	gen       uint64
	current   Collection
	loaded    bool
	lastErr   error
	listeners []func(Collection)
}

func NewStore(fetcher Fetcher, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{fetcher: fetcher, limit: limit}
}

func (s *Store) Limit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit
}

// SetLimit changes the load size and reports whether it changed. The caller
// is expected to start a new load when it did.
func (s *Store) SetLimit(n int) bool {
	if n <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == s.limit {
		return false
	}
	s.limit = n
	return true
}

// Collection returns the currently applied window.
func (s *Store) Collection() Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Loaded reports whether any load has been applied yet.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// LastError is the error of the most recent applied load, if it failed.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// OnReplace registers fn to run synchronously whenever a new collection is
// applied.
func (s *Store) OnReplace(fn func(Collection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Begin initiates a load. Any ticket issued earlier becomes stale.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	logging.Debugf("store: begin load gen=%d limit=%d", s.gen, s.limit)
	return Ticket{Generation: s.gen, Limit: s.limit}
}

// Fetch performs the remote call for t. It does not touch store state and
// is safe to run off the event loop.
func (s *Store) Fetch(ctx context.Context, t Ticket) (Collection, error) {
	if s.fetcher == nil {
		return Collection{}, errors.New("store has no fetcher")
	}
	raw, err := s.fetcher.FetchUnlabeled(ctx, t.Limit)
	if err != nil {
		return Collection{}, fmt.Errorf("fetch unlabeled: %w", err)
	}
	return NewCollection(raw)
}

// Apply installs the result of t if t is still the latest load. A failed
// load leaves the prior collection in place.
func (s *Store) Apply(t Ticket, c Collection, loadErr error) error {
	s.mu.Lock()
	if t.Generation != s.gen {
		latest := s.gen
		s.mu.Unlock()
		logging.Debugf("store: discarding gen=%d, latest is %d", t.Generation, latest)
		return ErrSuperseded
	}
	if loadErr != nil {
		s.lastErr = loadErr
		s.mu.Unlock()
		logging.Warnf("store: load gen=%d failed: %v", t.Generation, loadErr)
		return loadErr
	}
	s.current = c
	s.loaded = true
	s.lastErr = nil
	listeners := append([]func(Collection){}, s.listeners...)
	s.mu.Unlock()

	logging.Infof("store: applied gen=%d with %d samples", t.Generation, c.Len())
	for _, fn := range listeners {
		fn(c)
	}
	return nil
}

// Load runs a complete load with the current limit.
func (s *Store) Load(ctx context.Context) error {
	t := s.Begin()
	c, err := s.Fetch(ctx, t)
	return s.Apply(t, c, err)
}
