// Package search tracks per-side search matches over aligned rows. Each
// side owns a Navigator; backend responses are guarded by a sequence
// number so a slow reply for an old keyword cannot overwrite the matches
// of a newer one.
package search

import (
	"sort"

	"diffpane/types"
)

// Query identifies what a match set was computed for. A change in any
// field invalidates the current matches and the current pointer.
type Query struct {
	Keyword       string
	CaseSensitive bool
}

// Navigator is the per-side search state. Not safe for concurrent use;
// the engine serializes access through its event loop.
type Navigator struct {
	side    types.Side
	query   Query
	seq     int
	rows    []int
	current int // index into rows, -1 when none
}

// NewNavigator creates an empty navigator for one side.
func NewNavigator(side types.Side) *Navigator {
	return &Navigator{side: side, current: -1}
}

// Side returns the side this navigator serves.
func (n *Navigator) Side() types.Side { return n.side }

// ActiveQuery returns the query the matches were computed for.
func (n *Navigator) ActiveQuery() Query { return n.query }

// Matches returns the sorted matched row indices.
func (n *Navigator) Matches() []int { return n.rows }

// SetQuery records a new query and returns the sequence number its backend
// response must carry. An empty keyword clears the matches and returns 0;
// no request should be issued for it.
func (n *Navigator) SetQuery(q Query) int {
	if q == n.query && len(n.rows) > 0 {
		return 0
	}

	n.query = q
	n.rows = nil
	n.current = -1

	if q.Keyword == "" {
		n.seq++
		return 0
	}

	n.seq++
	return n.seq
}

// Complete installs a backend match set. Returns false when the response
// is stale and was dropped.
func (n *Navigator) Complete(seq int, rows []int) bool {
	if seq != n.seq {
		return false
	}

	sorted := append([]int(nil), rows...)
	sort.Ints(sorted)
	n.rows = sorted
	n.current = -1
	return true
}

// Fail records a failed backend request. A stale failure is dropped and
// returns false; a failure of the latest request drops the matches, the
// same ordering guard Complete applies to successes.
func (n *Navigator) Fail(seq int) bool {
	if seq != n.seq {
		return false
	}

	n.rows = nil
	n.current = -1
	return true
}

// Invalidate replaces the match rows after a local edit. The current
// pointer survives only if its row is still matched.
func (n *Navigator) Invalidate(rows []int) {
	currentRow := n.CurrentRow()

	sorted := append([]int(nil), rows...)
	sort.Ints(sorted)
	n.rows = sorted

	n.current = -1
	if currentRow < 0 {
		return
	}
	for i, row := range n.rows {
		if row == currentRow {
			n.current = i
			return
		}
	}
}

// CurrentRow returns the row of the current match, or -1 when none.
func (n *Navigator) CurrentRow() int {
	if n.current < 0 || n.current >= len(n.rows) {
		return -1
	}
	return n.rows[n.current]
}

// Next advances to the next match, wrapping to the first past the end.
// From no current match it starts at the first. Returns the new current
// row, or -1 when there are no matches.
func (n *Navigator) Next() int {
	if len(n.rows) == 0 {
		return -1
	}
	if n.current < 0 {
		n.current = 0
	} else {
		n.current = (n.current + 1) % len(n.rows)
	}
	return n.rows[n.current]
}

// Prev moves to the previous match, wrapping to the last before the
// start. From no current match it starts at the last.
func (n *Navigator) Prev() int {
	if len(n.rows) == 0 {
		return -1
	}
	if n.current < 0 {
		n.current = len(n.rows) - 1
	} else {
		n.current = (n.current - 1 + len(n.rows)) % len(n.rows)
	}
	return n.rows[n.current]
}

// Clear drops the query, matches, and pointer, and invalidates any
// in-flight request.
func (n *Navigator) Clear() {
	n.query = Query{}
	n.rows = nil
	n.current = -1
	n.seq++
}
