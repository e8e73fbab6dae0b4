// Package selection tracks which samples the operator has picked, and the
// anchor used for range extension.
package selection

import (
	"slices"
	"sync"
)

// Kind describes what kind of mutation produced a Change.
type Kind int

const (
	KindToggle Kind = iota
	KindRange
	KindSelectAll
	KindClearAll
	KindReplace
	KindReset
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind     Kind
	Selected int
}

// Model is the Selection Set plus the Anchor. It is independent of display
// order; callers pass the order in where an operation needs it.
type Model struct {
	mu        sync.Mutex
	set       map[int64]struct{}
	anchor    int64
	hasAnchor bool
	subs      []func(Change)
}

func NewModel() *Model {
	return &Model{set: make(map[int64]struct{})}
}

// Subscribe registers fn to be called synchronously after each mutation.
func (m *Model) Subscribe(fn func(Change)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Toggle flips membership of id. An explicit toggle moves the anchor to id.
func (m *Model) Toggle(id int64, explicit bool) {
	m.mu.Lock()
	if _, ok := m.set[id]; ok {
		delete(m.set, id)
	} else {
		m.set[id] = struct{}{}
	}
	if explicit {
		m.anchor = id
		m.hasAnchor = true
	}
	m.unlockAndNotify(KindToggle)
}

// SelectAll selects every id in order. The anchor is left alone.
func (m *Model) SelectAll(order []int64) {
	m.mu.Lock()
	m.set = make(map[int64]struct{}, len(order))
	for _, id := range order {
		m.set[id] = struct{}{}
	}
	m.unlockAndNotify(KindSelectAll)
}

// ClearAll empties the set. The anchor is left alone.
func (m *Model) ClearAll() {
	m.mu.Lock()
	m.set = make(map[int64]struct{})
	m.unlockAndNotify(KindClearAll)
}

// ReplaceWith installs ids verbatim and drops the anchor.
func (m *Model) ReplaceWith(ids []int64) {
	m.mu.Lock()
	m.set = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m.set[id] = struct{}{}
	}
	m.anchor = 0
	m.hasAnchor = false
	m.unlockAndNotify(KindReplace)
}

// Reset empties both the set and the anchor.
func (m *Model) Reset() {
	m.mu.Lock()
	m.set = make(map[int64]struct{})
	m.anchor = 0
	m.hasAnchor = false
	m.unlockAndNotify(KindReset)
}

func (m *Model) IsSelected(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.set[id]
	return ok
}

func (m *Model) Anchor() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anchor, m.hasAnchor
}

func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.set)
}

// Selected returns the set as a sorted slice.
func (m *Model) Selected() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, 0, len(m.set))
	for id := range m.set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// add unions ids into the set without touching the anchor.
func (m *Model) add(ids []int64) {
	m.mu.Lock()
	for _, id := range ids {
		m.set[id] = struct{}{}
	}
	m.unlockAndNotify(KindRange)
}

// unlockAndNotify releases m.mu and then runs subscribers, so a subscriber
// may read the model.
func (m *Model) unlockAndNotify(kind Kind) {
	ch := Change{Kind: kind, Selected: len(m.set)}
	subs := append([]func(Change){}, m.subs...)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(ch)
	}
}
