package labeling

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andareed/siftly-labeler/logging"
	"github.com/andareed/siftly-labeler/samples"
	"github.com/andareed/siftly-labeler/selection"
)

type State int

const (
	Idle State = iota
	Committing
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Committing:
		return "committing"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrCommitInProgress = errors.New("a labeling commit is already in progress")
	ErrInvalidLabel     = errors.New("label must be 0 or 1")
)

// Stage names the batch command a commit failed on.
type Stage int

const (
	// StageSelected is the first batch. Nothing was applied remotely.
	StageSelected Stage = iota
	// StageUnselected is the second batch. The selected group is already
	// labeled; the rest is not.
	StageUnselected
)

func (s Stage) String() string {
	if s == StageUnselected {
		return "unselected"
	}
	return "selected"
}

// CommitError reports which batch failed.
type CommitError struct {
	Stage   Stage
	Label   Label
	Applied int
	Pending int
	Err     error
}

func (e *CommitError) Error() string {
	if e.Stage == StageUnselected {
		return fmt.Sprintf("partial labeling: %d selected samples were labeled %s, but labeling the remaining %d as %s failed: %v",
			e.Applied, e.Label.Opposite(), e.Pending, e.Label, e.Err)
	}
	return fmt.Sprintf("labeling failed, nothing was changed: %v", e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// IsPartial reports whether err is a failure of the second batch after the
// first one was applied.
func IsPartial(err error) bool {
	var ce *CommitError
	return errors.As(err, &ce) && ce.Stage == StageUnselected
}

// Partition splits the loaded window into two complementary groups.
type Partition struct {
	Selected   []int64
	Unselected []int64
}

// Plan intersects the selection with the collection and puts every other
// loaded id into Unselected. Both lists follow load order. Selected ids that
// are not loaded are dropped.
func Plan(all samples.Collection, sel *selection.Model) Partition {
	var p Partition
	for _, id := range all.IDs() {
		if sel.IsSelected(id) {
			p.Selected = append(p.Selected, id)
		} else {
			p.Unselected = append(p.Unselected, id)
		}
	}
	return p
}

// StepResult is the typed outcome of one batch command.
type StepResult struct {
	Stage Stage
	Label Label
	Count int
	OK    bool
	Err   error
}

// Attempt is a commit whose partition has been snapshotted and which owns
// the Committing state until Finish is called.
type Attempt struct {
	Target    Label
	Partition Partition

	labeler Labeler
}

// Outcome is what Run produced.
type Outcome struct {
	Target    Label
	Partition Partition
	Steps     []StepResult
	Err       error
}

func (o Outcome) OK() bool { return o.Err == nil }

func (a *Attempt) runStep(ctx context.Context, stage Stage, ids []int64, label Label) StepResult {
	res := StepResult{Stage: stage, Label: label, Count: len(ids)}
	if len(ids) == 0 {
		res.OK = true
		return res
	}
	if err := a.labeler.BatchLabel(ctx, ids, label); err != nil {
		res.Err = err
		return res
	}
	logging.Infof("labeling: %s group of %d labeled %s", stage, len(ids), label)
	res.OK = true
	return res
}

// Run issues the selected-group batch and, only if it succeeded, the
// unselected-group batch. It touches no shared state.
func (a *Attempt) Run(ctx context.Context) Outcome {
	out := Outcome{Target: a.Target, Partition: a.Partition}

	first := a.runStep(ctx, StageSelected, a.Partition.Selected, a.Target)
	out.Steps = append(out.Steps, first)
	if !first.OK {
		out.Err = &CommitError{
			Stage:   StageSelected,
			Label:   a.Target,
			Pending: len(a.Partition.Selected) + len(a.Partition.Unselected),
			Err:     first.Err,
		}
		return out
	}

	second := a.runStep(ctx, StageUnselected, a.Partition.Unselected, a.Target.Opposite())
	out.Steps = append(out.Steps, second)
	if !second.OK {
		out.Err = &CommitError{
			Stage:   StageUnselected,
			Label:   a.Target.Opposite(),
			Applied: len(a.Partition.Selected),
			Pending: len(a.Partition.Unselected),
			Err:     second.Err,
		}
	}
	return out
}

// Orchestrator drives Idle -> Committing -> Idle|Failed.
type Orchestrator struct {
	mu      sync.Mutex
	state   State
	lastErr error

	store   *samples.Store
	sel     *selection.Model
	labeler Labeler
}

func NewOrchestrator(store *samples.Store, sel *selection.Model, labeler Labeler) *Orchestrator {
	return &Orchestrator{store: store, sel: sel, labeler: labeler}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError is the error that put the orchestrator into Failed.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Acknowledge moves Failed back to Idle.
func (o *Orchestrator) Acknowledge() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == Failed {
		o.state = Idle
		o.lastErr = nil
	}
}

// Begin snapshots the partition for target and enters Committing.
func (o *Orchestrator) Begin(target Label) (*Attempt, error) {
	if !target.Valid() {
		return nil, ErrInvalidLabel
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == Committing {
		return nil, ErrCommitInProgress
	}
	// an empty window still commits: both batches are skipped and the
	// caller reloads
	all := o.store.Collection()
	o.state = Committing
	o.lastErr = nil
	p := Plan(all, o.sel)
	logging.Infof("labeling: commit %s with %d selected, %d unselected", target, len(p.Selected), len(p.Unselected))
	return &Attempt{Target: target, Partition: p, labeler: o.labeler}, nil
}

// Finish records the outcome. On success the selection is cleared and the
// orchestrator is Idle; the caller reloads the store. On failure the
// orchestrator is Failed and the selection is left as it was.
func (o *Orchestrator) Finish(out Outcome) error {
	o.mu.Lock()
	if out.Err != nil {
		o.state = Failed
		o.lastErr = out.Err
		o.mu.Unlock()
		if IsPartial(out.Err) {
			logging.Errorf("labeling: partial commit: %v", out.Err)
		} else {
			logging.Warnf("labeling: commit failed: %v", out.Err)
		}
		return out.Err
	}
	o.state = Idle
	o.mu.Unlock()
	o.sel.Reset()
	return nil
}

// Result summarises a synchronous Commit.
type Result struct {
	Target    Label
	Partition Partition
	// ReloadErr is set when both batches were applied but the reload
	// afterwards failed; the labels are in place, the view is stale.
	ReloadErr error
}

// Commit runs the whole protocol: snapshot, both batches, reset, reload.
func (o *Orchestrator) Commit(ctx context.Context, target Label) (Result, error) {
	a, err := o.Begin(target)
	if err != nil {
		return Result{Target: target}, err
	}
	out := a.Run(ctx)
	res := Result{Target: target, Partition: out.Partition}
	if err := o.Finish(out); err != nil {
		return res, err
	}
	if err := o.store.Load(ctx); err != nil {
		logging.Warnf("labeling: reload after commit failed: %v", err)
		res.ReloadErr = err
	}
	return res, nil
}
