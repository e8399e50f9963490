package engine

import (
	"context"
	"errors"
	"time"

	"diffpane/logger"
	"diffpane/pane"
	"diffpane/text"
	"diffpane/types"
)

// handleSessionOpen resets the session over a new document pair and asks
// the backend for an initial alignment.
func (e *Engine) handleSessionOpen(d *SessionOpenData) {
	e.panes[types.SideSource] = pane.New(d.SourceID, types.SideSource, d.SourceText)
	e.panes[types.SideTarget] = pane.New(d.TargetID, types.SideTarget, d.TargetText)
	e.diff = nil

	for _, side := range []types.Side{types.SideSource, types.SideTarget} {
		e.resolvers[side].Clear()
		e.navigators[side].Clear()
		e.host.ClearPairHighlight(side)
	}

	e.requestDiff()
}

// requestDiff asks the backend for a fresh alignment. Guarded by diffSeq:
// only the newest request's response is applied.
func (e *Engine) requestDiff() {
	if e.stopped || e.panes[types.SideSource] == nil {
		return
	}

	e.diffSeq++
	seq := e.diffSeq
	sourceID := e.panes[types.SideSource].DocumentID
	targetID := e.panes[types.SideTarget].DocumentID

	ctx, cancel := context.WithTimeout(e.mainCtx, e.config.RequestTimeout)

	go func() {
		defer cancel()

		payload, err := e.service.ComputeLineDiff(ctx, sourceID, targetID)
		if err != nil {
			e.post(Event{Type: EventDiffError, Data: &diffErrorData{Seq: seq, Err: err}})
			return
		}
		e.post(Event{Type: EventDiffReady, Data: &diffReadyData{Seq: seq, Payload: payload}})
	}()
}

func (e *Engine) handleDiffReady(d *diffReadyData) {
	if d.Seq != e.diffSeq {
		e.tracker.StaleDropped()
		return
	}

	e.diff = text.Normalize(d.Payload)
	e.tracker.DiffRefreshed()

	// A fresh alignment invalidates both sides' search matches; re-issue
	// any active queries against the new row grid.
	for _, side := range []types.Side{types.SideSource, types.SideTarget} {
		e.reissueSearch(side)
	}

	e.host.DocumentChanged(e.panes[types.SideSource].DocumentID)
	e.host.DocumentChanged(e.panes[types.SideTarget].DocumentID)
}

func (e *Engine) handleDiffError(d *diffErrorData) {
	if d.Seq != e.diffSeq {
		return
	}
	if errors.Is(d.Err, context.Canceled) {
		logger.Debug("diff request canceled: %v", d.Err)
		return
	}
	logger.Error("diff request failed: %v", d.Err)
}

// handleTextEdited reconciles one side after a local edit: presence is
// re-inferred from the new row array without a backend round trip, the
// pane's document text follows, and a debounced patch flush is scheduled.
func (e *Engine) handleTextEdited(d *TextEditedData) {
	if e.diff == nil || e.panes[d.Side] == nil {
		return
	}

	e.diff.ReconcileSide(d.Side, d.Lines)

	actual := text.ExtractActualLines(e.diff.Lines(d.Side), e.diff.Present(d.Side))
	e.panes[d.Side].ApplyEdit(actual)

	e.reissueSearch(d.Side)
	e.schedulePatchFlush(d.Side)
}

// schedulePatchFlush (re)arms the side's debounce timer. Rapid typing
// keeps pushing the flush out; the patch covers the whole burst.
func (e *Engine) schedulePatchFlush(side types.Side) {
	if e.patchTimers[side] != nil {
		e.patchTimers[side].Stop()
	}
	e.patchTimers[side] = time.AfterFunc(e.config.PatchDebounce, func() {
		e.Dispatch(Event{Type: EventPatchFlush, Data: &PatchFlushData{Side: side}})
	})
}

// flushPatch computes the side's minimal pending patch and forwards it to
// the document store.
func (e *Engine) flushPatch(side types.Side) {
	p := e.panes[side]
	if p == nil {
		return
	}

	patch := p.PendingPatch()
	if patch.IsNoop() {
		return
	}

	version := p.Version()
	docID := p.DocumentID

	ctx, cancel := context.WithTimeout(e.mainCtx, e.config.RequestTimeout)

	go func() {
		defer cancel()

		count, err := e.service.ApplyTextPatch(ctx, docID, patch)
		if err != nil {
			e.post(Event{Type: EventPatchError, Data: &patchErrorData{Side: side, Err: err}})
			return
		}
		e.post(Event{Type: EventPatchDone, Data: &patchDoneData{Side: side, Version: version, NewLineCount: count}})
	}()
}

func (e *Engine) handlePatchDone(d *patchDoneData) {
	p := e.panes[d.Side]
	if p == nil {
		return
	}

	// The pane moved on while the patch was in flight; commit would lose
	// the newer edits. Flush again against the store's new state.
	if p.Version() != d.Version {
		e.schedulePatchFlush(d.Side)
		return
	}

	p.Commit()
	e.tracker.PatchApplied()
	e.host.DocumentChanged(p.DocumentID)
	logger.Debug("patch applied to %s (%d lines)", p.DocumentID, d.NewLineCount)
}

// handlePatchError surfaces a rejected edit. Unlike pair/search failures
// this is a data-loss risk and must reach the user.
func (e *Engine) handlePatchError(d *patchErrorData) {
	p := e.panes[d.Side]
	if p == nil {
		return
	}

	e.tracker.PatchFailed()
	logger.Error("patch rejected for %s: %v", p.DocumentID, d.Err)
	e.host.PatchFailed(p.DocumentID, d.Err)
}
