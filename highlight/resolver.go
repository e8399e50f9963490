// Package highlight tracks bracket and quote pair highlights for one side
// of the diff view. Each side owns an independent Resolver; responses from
// the backend are matched against a per-side sequence number so a slow
// reply can never overwrite a newer one.
package highlight

import (
	"strings"

	"diffpane/types"
)

// State is the resolver's lifecycle for the current caret position.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateResolved
	StateCleared
)

// String returns a human-readable name for the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateResolving:
		return "Resolving"
	case StateResolved:
		return "Resolved"
	case StateCleared:
		return "Cleared"
	default:
		return "Unknown"
	}
}

// Outcome classifies what Complete decided about a backend response.
type Outcome int

const (
	// OutcomeStale means a newer request superseded this response; the
	// caller drops it without touching the view.
	OutcomeStale Outcome = iota
	// OutcomeCleared means no pair exists at the caret; highlights for
	// this side go away.
	OutcomeCleared
	// OutcomeRetry means the caret sits on a pair character but the
	// backend matched the previous offset; the caller should re-issue at
	// Result.RetryOffset.
	OutcomeRetry
	// OutcomeResolved carries two positions to highlight.
	OutcomeResolved
)

// Result is the decision for one backend response.
type Result struct {
	Outcome     Outcome
	Positions   []types.Position
	RetryOffset int
}

// pairRunes are the characters a caret can sit on for the correction step.
const pairRunes = "()[]{}<>\"'`"

// Resolver is the per-side pair-highlight state machine. Not safe for
// concurrent use; the engine serializes access through its event loop.
type Resolver struct {
	side      types.Side
	seq       int
	offset    int
	state     State
	positions []types.Position
	retried   bool
}

// NewResolver creates an idle resolver for one side.
func NewResolver(side types.Side) *Resolver {
	return &Resolver{side: side}
}

// Side returns the side this resolver serves.
func (r *Resolver) Side() types.Side { return r.side }

// State returns the current lifecycle state.
func (r *Resolver) State() State { return r.state }

// Positions returns the currently highlighted pair, or nil.
func (r *Resolver) Positions() []types.Position { return r.positions }

// Begin starts a new resolution at the given caret offset and returns the
// sequence number the eventual response must carry. Any in-flight response
// with an older sequence becomes stale. The offset is recorded so Complete
// can evaluate the response against the request that produced it.
func (r *Resolver) Begin(offset int) int {
	r.seq++
	r.offset = offset
	r.state = StateResolving
	r.retried = false
	return r.seq
}

// beginRetry issues the corrected follow-up one past the recorded offset,
// keeping the retried flag set so a second correction cannot loop.
func (r *Resolver) beginRetry() int {
	r.seq++
	r.offset++
	r.state = StateResolving
	r.retried = true
	return r.seq
}

// Clear drops any highlight for this side. Used on blur, on a non-collapsed
// selection, and on backend failure.
func (r *Resolver) Clear() {
	r.seq++
	r.state = StateCleared
	r.positions = nil
}

// Complete applies a backend response for the request identified by seq.
// text is the flat document text the request was issued against; the caret
// offset was recorded when the request began.
func (r *Resolver) Complete(seq int, text string, match *types.PairMatch) Result {
	if seq != r.seq {
		return Result{Outcome: OutcomeStale}
	}
	offset := r.offset

	if match == nil {
		r.state = StateCleared
		r.positions = nil
		return Result{Outcome: OutcomeCleared}
	}

	// The backend anchors a pair to the character before the caret when
	// the caret is between two candidates. If the caret itself sits on a
	// pair character and neither end is the caret, ask again one past it.
	if !r.retried && caretOnPairRune(text, offset) &&
		match.LeftOffset != offset && match.RightOffset != offset &&
		(match.LeftOffset == offset-1 || match.RightOffset == offset-1) {
		return Result{Outcome: OutcomeRetry, RetryOffset: offset + 1}
	}

	left := matchPosition(text, match.LeftOffset, match.LeftLine, match.LeftColumn)
	right := matchPosition(text, match.RightOffset, match.RightLine, match.RightColumn)
	if match.RightOffset < match.LeftOffset {
		left, right = right, left
	}

	r.state = StateResolved
	r.positions = []types.Position{left, right}
	return Result{Outcome: OutcomeResolved, Positions: r.positions}
}

// Retry issues the corrected request after an OutcomeRetry and returns its
// sequence number.
func (r *Resolver) Retry() int {
	return r.beginRetry()
}

func caretOnPairRune(text string, offset int) bool {
	runes := []rune(text)
	if offset < 0 || offset >= len(runes) {
		return false
	}
	return strings.ContainsRune(pairRunes, runes[offset])
}

// matchPosition prefers backend-supplied line/column and falls back to
// deriving them from the text.
func matchPosition(text string, offset, line, column int) types.Position {
	if line > 0 && column > 0 {
		return types.Position{Line: line, Column: column}
	}
	return PositionForOffset(text, offset)
}

// PositionForOffset converts a rune offset into a 1-based line and column.
// Offsets past the end clamp to the last position.
func PositionForOffset(text string, offset int) types.Position {
	runes := []rune(text)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}

	line, column := 1, 1
	for i := 0; i < offset; i++ {
		if runes[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return types.Position{Line: line, Column: column}
}
