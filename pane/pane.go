// Package pane holds the per-side document state of a diff session: the
// flat line array the user edits, caret and selection, and the snapshot of
// the previous text used to compute minimal patches. No RPC types live
// here; the daemon translates editor events into these setters.
package pane

import (
	"diffpane/text"
	"diffpane/types"
)

// Selection is a rune-offset range into the pane's flat text. Start may
// exceed End while the user drags backwards; Normalize sorts them.
type Selection struct {
	Start int
	End   int
}

// Collapsed reports whether the selection is empty.
func (s Selection) Collapsed() bool { return s.Start == s.End }

// Normalized returns the selection with Start <= End.
func (s Selection) Normalized() Selection {
	if s.Start > s.End {
		return Selection{Start: s.End, End: s.Start}
	}
	return s
}

// Pane is one side of the diff session.
type Pane struct {
	DocumentID string
	Side       types.Side

	lines           []string
	trailingNewline bool
	committedText   string
	version         int

	caretRow  int // 1-indexed
	caretCol  int // 0-indexed, rune offset within the line
	selection Selection

	viewportTop    int
	viewportHeight int
}

// New creates a pane over the given document content.
func New(docID string, side types.Side, content string) *Pane {
	lines := text.SplitNormalizedLines(content)
	return &Pane{
		DocumentID:      docID,
		Side:            side,
		lines:           lines,
		trailingNewline: text.InferTrailingNewline(lines),
		committedText:   content,
		caretRow:        1,
	}
}

// Lines returns the pane's current flat line array.
func (p *Pane) Lines() []string { return p.lines }

// Version increments on every applied edit.
func (p *Pane) Version() int { return p.version }

// Text serializes the pane's current content.
func (p *Pane) Text() string {
	return text.SerializeLines(p.lines, p.trailingNewline)
}

// CommittedText is the content last acknowledged by the document store;
// patches are computed against it.
func (p *Pane) CommittedText() string { return p.committedText }

// ApplyEdit replaces the pane's lines after a user edit and bumps the
// version. The committed snapshot is kept until Commit.
func (p *Pane) ApplyEdit(newLines []string) {
	if len(newLines) == 0 {
		newLines = []string{""}
	}
	p.lines = append([]string(nil), newLines...)
	p.trailingNewline = text.InferTrailingNewline(p.lines)
	p.version++
	p.clampCaret()
}

// Commit acknowledges that the document store accepted the pane's current
// content; future patches diff against it.
func (p *Pane) Commit() {
	p.committedText = p.Text()
}

// PendingPatch computes the minimal patch from the committed snapshot to
// the current content.
func (p *Pane) PendingPatch() types.TextPatch {
	return text.ComputeTextPatch(p.committedText, p.Text())
}

// SetCaret moves the caret, clamping into the document.
func (p *Pane) SetCaret(row, col int) {
	p.caretRow = row
	p.caretCol = col
	p.clampCaret()
}

// Caret returns the caret position (1-indexed row, 0-indexed rune column).
func (p *Pane) Caret() (row, col int) { return p.caretRow, p.caretCol }

// CaretOffset returns the caret as a rune offset into the flat text.
func (p *Pane) CaretOffset() int {
	offset := 0
	for i := 0; i < p.caretRow-1 && i < len(p.lines); i++ {
		offset += len([]rune(p.lines[i])) + 1
	}
	if p.caretRow >= 1 && p.caretRow <= len(p.lines) {
		offset += min(p.caretCol, len([]rune(p.lines[p.caretRow-1])))
	}
	return offset
}

// SetSelection records the active selection in rune offsets.
func (p *Pane) SetSelection(sel Selection) {
	p.selection = sel
}

// Selection returns the active selection.
func (p *Pane) Selection() Selection { return p.selection }

// SetViewport records the visible line range reported by the host.
func (p *Pane) SetViewport(top, height int) {
	p.viewportTop = max(top, 0)
	p.viewportHeight = max(height, 0)
}

// Viewport returns the visible top line and height.
func (p *Pane) Viewport() (top, height int) {
	return p.viewportTop, p.viewportHeight
}

func (p *Pane) clampCaret() {
	if p.caretRow < 1 {
		p.caretRow = 1
	}
	if p.caretRow > len(p.lines) {
		p.caretRow = len(p.lines)
	}
	if p.caretCol < 0 {
		p.caretCol = 0
	}
	if width := len([]rune(p.lines[p.caretRow-1])); p.caretCol > width {
		p.caretCol = width
	}
}
