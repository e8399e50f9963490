package pane

import (
	"testing"

	"diffpane/assert"
	"diffpane/types"
)

func TestNewSplitsContent(t *testing.T) {
	p := New("doc-1", types.SideSource, "a\nb\n")

	assert.Equal(t, []string{"a", "b", ""}, p.Lines(), "content split on newlines")
	assert.Equal(t, "a\nb\n", p.Text(), "serialization round-trips")
	assert.Equal(t, 0, p.Version(), "fresh pane at version zero")
}

func TestApplyEditBumpsVersion(t *testing.T) {
	p := New("doc-1", types.SideSource, "a\nb")

	p.ApplyEdit([]string{"a", "x", "b"})

	assert.Equal(t, 1, p.Version(), "version bumped")
	assert.Equal(t, "a\nx\nb", p.Text(), "new content visible")
	assert.Equal(t, "a\nb", p.CommittedText(), "committed snapshot unchanged until commit")
}

func TestApplyEditEmptyNeverEmpty(t *testing.T) {
	p := New("doc-1", types.SideSource, "a")
	p.ApplyEdit(nil)
	assert.Equal(t, []string{""}, p.Lines(), "a pane always has one line")
}

func TestPendingPatchAndCommit(t *testing.T) {
	p := New("doc-1", types.SideTarget, "abc123xyz")
	p.ApplyEdit([]string{"abcZZxyz"})

	patch := p.PendingPatch()
	assert.Equal(t, types.TextPatch{StartChar: 3, EndChar: 6, NewText: "ZZ"}, patch, "minimal patch against committed text")

	p.Commit()
	assert.True(t, p.PendingPatch().IsNoop(), "no pending changes after commit")
}

func TestCaretClamping(t *testing.T) {
	p := New("doc-1", types.SideSource, "ab\ncdef")

	p.SetCaret(99, 99)
	row, col := p.Caret()
	assert.Equal(t, 2, row, "row clamped to last line")
	assert.Equal(t, 4, col, "column clamped to line width")

	p.SetCaret(-1, -1)
	row, col = p.Caret()
	assert.Equal(t, 1, row, "row clamped to first line")
	assert.Equal(t, 0, col, "column clamped to zero")
}

func TestCaretOffset(t *testing.T) {
	p := New("doc-1", types.SideSource, "ab\ncdef")

	p.SetCaret(2, 1)
	assert.Equal(t, 4, p.CaretOffset(), "offset counts prior lines plus newline")

	p.SetCaret(1, 0)
	assert.Equal(t, 0, p.CaretOffset(), "document start")
}

func TestSelectionNormalized(t *testing.T) {
	sel := Selection{Start: 9, End: 2}
	assert.Equal(t, Selection{Start: 2, End: 9}, sel.Normalized(), "reversed drag normalized")
	assert.False(t, sel.Collapsed(), "non-empty selection")
	assert.True(t, Selection{Start: 4, End: 4}.Collapsed(), "empty selection collapsed")
}
