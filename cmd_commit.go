package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andareed/siftly-labeler/dialogs"
	"github.com/andareed/siftly-labeler/labeling"
	"github.com/andareed/siftly-labeler/logging"
)

func (m *model) committing() bool {
	return m.data.orch.State() == labeling.Committing
}

// lockedWhileCommitting reports the refusal of an action that would change
// the selection or the window under a running commit.
func (m *model) lockedWhileCommitting() tea.Cmd {
	return m.startNotice("Labeling in progress, selection and reload are locked", noticeWarn, noticeDuration)
}

// requestCommit asks for confirmation before labeling the whole window. An
// empty window skips the dialog: there is nothing to label and the commit
// only reloads.
func (m *model) requestCommit(target labeling.Label) tea.Cmd {
	if m.committing() {
		return m.startNotice("Labeling already in progress", noticeWarn, noticeDuration)
	}
	if m.data.loading {
		return m.startNotice("Wait for the load to finish", noticeWarn, noticeDuration)
	}
	all := m.data.store.Collection()
	if all.Empty() {
		return m.startCommit(target)
	}
	p := labeling.Plan(all, m.data.sel)
	prompt := fmt.Sprintf("Label %d selected as %s and %d unselected as %s?",
		len(p.Selected), target, len(p.Unselected), target.Opposite())
	m.activeDialog = dialogs.NewConfirmDialog("Commit labels", prompt, target)
	return nil
}

// startCommit snapshots the partition and runs both batches off the event
// loop.
func (m *model) startCommit(target labeling.Label) tea.Cmd {
	if m.data.loading {
		return m.startNotice("Wait for the load to finish", noticeWarn, noticeDuration)
	}
	attempt, err := m.data.orch.Begin(target)
	if err != nil {
		return m.startNotice(err.Error(), noticeWarn, noticeDuration)
	}
	ctx := m.ctx
	run := func() tea.Msg {
		return commitResultMsg{outcome: attempt.Run(ctx)}
	}
	return tea.Batch(run, m.startNotice("Labeling…", noticeInfo, errorNoticeDuration))
}

func (m *model) handleCommitResult(msg commitResultMsg) tea.Cmd {
	out := msg.outcome
	if err := m.data.orch.Finish(out); err != nil {
		m.refreshViewport()
		var ce *labeling.CommitError
		if errors.As(err, &ce) && ce.Stage == labeling.StageUnselected {
			hint := fmt.Sprintf(" (r to reload, then press %d with nothing selected to label the rest %s)", int(out.Target), ce.Label)
			return m.startNotice(err.Error()+hint, noticeError, errorNoticeDuration)
		}
		return m.startNotice(err.Error(), noticeError, errorNoticeDuration)
	}

	if len(out.Partition.Selected)+len(out.Partition.Unselected) == 0 {
		return tea.Batch(m.startLoad(), m.startNotice("Nothing to label, reloading", noticeInfo, noticeDuration))
	}

	logging.Infof("sflabel: committed %d as %s, %d as %s",
		len(out.Partition.Selected), out.Target, len(out.Partition.Unselected), out.Target.Opposite())
	note := m.startNotice(fmt.Sprintf("Labeled %d as %s, %d as %s",
		len(out.Partition.Selected), out.Target, len(out.Partition.Unselected), out.Target.Opposite()),
		noticeSuccess, noticeDuration)
	return tea.Batch(m.startLoad(), note)
}
