package engine

import (
	"context"

	"diffpane/highlight"
	"diffpane/logger"
	"diffpane/pane"
	"diffpane/types"
)

// handleCaretMoved starts a pair lookup at the new caret position. Only a
// collapsed selection highlights pairs; a range selection clears them.
func (e *Engine) handleCaretMoved(d *CaretMovedData) {
	p := e.panes[d.Side]
	if p == nil {
		return
	}

	p.SetCaret(d.Row, d.Col)
	if !p.Selection().Collapsed() {
		e.clearHighlight(d.Side)
		return
	}

	offset := p.CaretOffset()
	seq := e.resolvers[d.Side].Begin(offset)
	e.requestPair(d.Side, seq, p.Text(), offset)
}

func (e *Engine) handleSelectionChanged(d *SelectionChangedData) {
	p := e.panes[d.Side]
	if p == nil {
		return
	}

	p.SetSelection(pane.Selection{Start: d.Start, End: d.End})
	if d.Start != d.End {
		e.clearHighlight(d.Side)
	}
}

func (e *Engine) clearHighlight(side types.Side) {
	e.resolvers[side].Clear()
	e.host.ClearPairHighlight(side)
}

func (e *Engine) requestPair(side types.Side, seq int, content string, offset int) {
	ctx, cancel := context.WithTimeout(e.mainCtx, e.config.RequestTimeout)

	go func() {
		defer cancel()

		match, err := e.service.FindMatchingPair(ctx, content, offset)
		if err != nil {
			e.post(Event{Type: EventPairError, Data: &pairErrorData{Side: side, Seq: seq, Err: err}})
			return
		}
		e.post(Event{Type: EventPairReady, Data: &pairReadyData{
			Side: side, Seq: seq, Text: content, Match: match,
		}})
	}()
}

func (e *Engine) handlePairReady(d *pairReadyData) {
	res := e.resolvers[d.Side].Complete(d.Seq, d.Text, d.Match)

	switch res.Outcome {
	case highlight.OutcomeStale:
		e.tracker.StaleDropped()
	case highlight.OutcomeCleared:
		e.host.ClearPairHighlight(d.Side)
	case highlight.OutcomeRetry:
		seq := e.resolvers[d.Side].Retry()
		e.requestPair(d.Side, seq, d.Text, res.RetryOffset)
	case highlight.OutcomeResolved:
		e.tracker.PairResolved()
		e.host.ShowPairHighlight(d.Side, res.Positions)
	}
}

// handlePairError clears the side's highlight. Pair matching is advisory,
// so the failure is logged and swallowed.
func (e *Engine) handlePairError(d *pairErrorData) {
	res := e.resolvers[d.Side].Complete(d.Seq, "", nil)
	if res.Outcome == highlight.OutcomeStale {
		e.tracker.StaleDropped()
		return
	}

	logger.Debug("pair lookup failed on %s: %v", d.Side, d.Err)
	e.host.ClearPairHighlight(d.Side)
}
