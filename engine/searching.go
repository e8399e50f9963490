package engine

import (
	"context"

	"diffpane/logger"
	"diffpane/search"
	"diffpane/types"
)

// handleSearchQuery records a side's new keyword and queries the backend.
func (e *Engine) handleSearchQuery(d *SearchQueryData) {
	seq := e.navigators[d.Side].SetQuery(search.Query{
		Keyword:       d.Keyword,
		CaseSensitive: d.CaseSensitive,
	})
	if seq == 0 {
		return
	}
	e.requestSearch(d.Side, seq, d.Keyword)
}

// reissueSearch re-runs a side's active query after its rows changed
// (local edit or diff refresh). Stale match indices would otherwise point
// at the wrong rows.
func (e *Engine) reissueSearch(side types.Side) {
	q := e.navigators[side].ActiveQuery()
	if q.Keyword == "" {
		return
	}

	e.navigators[side].Invalidate(nil)
	seq := e.navigators[side].SetQuery(q)
	if seq == 0 {
		return
	}
	e.requestSearch(side, seq, q.Keyword)
}

func (e *Engine) requestSearch(side types.Side, seq int, keyword string) {
	if e.diff == nil || e.panes[side] == nil {
		return
	}

	docID := e.panes[side].DocumentID
	present := append([]bool(nil), e.diff.Present(side)...)
	e.tracker.SearchIssued()

	ctx, cancel := context.WithTimeout(e.mainCtx, e.config.RequestTimeout)

	go func() {
		defer cancel()

		rows, err := e.service.SearchAlignedRows(ctx, docID, keyword, present)
		if err != nil {
			e.post(Event{Type: EventSearchError, Data: &searchErrorData{Side: side, Seq: seq, Err: err}})
			return
		}
		e.post(Event{Type: EventSearchReady, Data: &searchReadyData{Side: side, Seq: seq, Rows: rows}})
	}()
}

func (e *Engine) handleSearchReady(d *searchReadyData) {
	if !e.navigators[d.Side].Complete(d.Seq, d.Rows) {
		e.tracker.StaleDropped()
	}
}

// handleSearchError drops the side's matches. Search is advisory; the
// failure is logged and swallowed. A stale failure must not touch the
// matches a newer query installed.
func (e *Engine) handleSearchError(d *searchErrorData) {
	if !e.navigators[d.Side].Fail(d.Seq) {
		e.tracker.StaleDropped()
		return
	}
	logger.Debug("search failed on %s: %v", d.Side, d.Err)
}

// handleSearchStep advances the side's current match and asks the host to
// navigate to the matched line.
func (e *Engine) handleSearchStep(side types.Side, forward bool) {
	nav := e.navigators[side]

	var row int
	if forward {
		row = nav.Next()
	} else {
		row = nav.Prev()
	}
	if row < 0 || e.diff == nil || e.panes[side] == nil {
		return
	}

	lineNumber := e.diff.LineNumberAt(side, row)
	if lineNumber <= 0 {
		return
	}

	e.host.NavigateTo(&types.NavigateTarget{
		DocumentID: e.panes[side].DocumentID,
		Line:       lineNumber,
		Column:     1,
		Length:     len([]rune(nav.ActiveQuery().Keyword)),
	})
}
