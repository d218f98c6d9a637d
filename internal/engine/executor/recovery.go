package executor

import (
	"context"
	"fmt"

	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/zerr"
)

// Recover reconciles an interrupted transaction. The pending marker's plan
// is re-validated against what is actually on disk: state entries whose
// files vanished are dropped, files that landed without a state entry are
// reverted, and staging/trash leftovers are swept. Because the state file is
// persisted per component, disk and state can disagree for at most one
// component per interrupted run.
//
// After recovery the installation is consistent; re-running the original
// command completes whatever the interrupted run left undone.
func (e *Executor) Recover(ctx context.Context) error {
	pending := e.state.Pending()
	if pending == nil {
		return nil
	}
	e.logger.Warn(fmt.Sprintf("recovering interrupted transaction %s from %s",
		pending.ID, pending.StartedAt.Format("2006-01-02 15:04:05 MST")))

	installed := e.state.Installed()
	touched := make([]string, 0, len(pending.Plan.ToInstall)+len(pending.Plan.ToUpdate)+len(pending.Plan.ToRemove))
	touched = append(touched, pending.Plan.ToInstall...)
	touched = append(touched, pending.Plan.ToUpdate...)
	touched = append(touched, pending.Plan.ToRemove...)

	for _, id := range touched {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "recovery cancelled")
		}
		present, err := e.workspace.HasComponent(id)
		if err != nil {
			return e.unrecoverable(id, err)
		}
		_, inState := installed[id]
		switch {
		case inState && !present:
			// The files are gone but the record survived: the removal's
			// state commit, or an update's swap, was interrupted.
			if err := e.state.CommitRemove(id); err != nil {
				return e.unrecoverable(id, err)
			}
			e.logger.Warn(fmt.Sprintf("dropped stale record for %s: files are missing", id))
		case !inState && present:
			// The files landed but the record never did: revert the files
			// so state remains the source of truth.
			if err := e.workspace.Remove(id); err != nil {
				return e.unrecoverable(id, err)
			}
			e.logger.Warn(fmt.Sprintf("reverted uncommitted files for %s", id))
		}
	}

	if err := e.workspace.Sweep(); err != nil {
		return zerr.Wrap(err, "failed to sweep workspace leftovers")
	}
	if err := e.state.Finalize(); err != nil {
		return zerr.Wrap(err, "failed to clear transaction marker")
	}
	e.logger.Info("interrupted transaction reconciled; re-run the original command to finish it")
	return nil
}

func (e *Executor) unrecoverable(id string, cause error) error {
	err := zerr.With(domain.ErrInterruptedTransaction, "component", id)
	return zerr.With(err, "cause", cause.Error())
}
