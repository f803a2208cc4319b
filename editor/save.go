package editor

import (
	"context"
	"fmt"
	"time"

	"careermatrix/errs"
)

// SaveResult reports the outcome of an asynchronous save.
type SaveResult struct {
	TemplateID string
	Revision   int
	Err        error
	At         time.Time

	state uint64 // History entry id of the saved snapshot
	seq   uint64
}

// Save persists the live state without blocking. The snapshot is copied
// before Save returns, so further edits do not affect what is written. The
// outcome is delivered to Options.OnSave; a failure never touches the
// in-memory state.
func (e *MatrixEditor) Save(ctx context.Context) {
	if e.saver == nil {
		e.status = "no store configured"
		return
	}

	id := e.info.ID
	axes := e.grid.Axes()
	snap := e.Snapshot()
	state := e.history.CurrentID()
	e.saveSeq++
	seq := e.saveSeq
	e.status = "saving..."

	e.saves.Add(1)
	go func() {
		defer e.saves.Done()

		rev, err := e.saver.Save(ctx, id, axes, snap)
		if err != nil && !errs.Is(err, errs.KindPersistenceFailure) && !errs.Is(err, errs.KindNotFound) {
			err = errs.Persistence("editor.Save", err)
		}
		res := SaveResult{TemplateID: id, Revision: rev, Err: err, At: time.Now(), state: state, seq: seq}
		if err != nil {
			e.log.Error("save failed", "error", err)
		} else {
			e.log.Info("saved", "revision", rev, "cells", len(snap.Cells), "arrows", len(snap.Arrows))
		}
		if e.onSave != nil {
			e.onSave(res)
		}
	}()
}

// ApplySaveResult updates dirty tracking and the status line. It must run on
// the goroutine that drives the editor.
func (e *MatrixEditor) ApplySaveResult(res SaveResult) {
	if res.Err != nil {
		e.status = fmt.Sprintf("save failed: %v", res.Err)
		return
	}
	if res.Revision > e.revision {
		e.revision = res.Revision
	}
	// A slower, older save must not mark a newer one's state as clean.
	if res.seq > e.appliedSeq {
		e.appliedSeq = res.seq
		e.savedState = res.state
	}
	e.status = fmt.Sprintf("saved (revision %d)", res.Revision)
}

// Revision returns the last revision known to be persisted.
func (e *MatrixEditor) Revision() int { return e.revision }
