package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"

	"diffpane/text"
	"diffpane/types"
)

// Local is an offline DiffService backed by an in-memory document store.
// It computes line alignment, pair matching, and search itself, so the
// editor works without the hosted service (and so the engine is testable
// without a network).
type Local struct {
	mu   sync.Mutex
	docs map[string]string
}

// NewLocal creates an empty local backend.
func NewLocal() *Local {
	return &Local{docs: make(map[string]string)}
}

// RegisterDocument stores a document's full text under its id.
func (l *Local) RegisterDocument(docID, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[docID] = content
}

// DocumentText returns a stored document's text.
func (l *Local) DocumentText(docID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	content, ok := l.docs[docID]
	return content, ok
}

// ComputeLineDiff aligns two stored documents line by line. Runs of
// removed and added lines are paired row-wise into modify rows; the
// overhang becomes delete-only or insert-only rows with a virtual
// placeholder on the other side.
func (l *Local) ComputeLineDiff(ctx context.Context, sourceID, targetID string) (*types.AlignedDiffPayload, error) {
	source, ok := l.DocumentText(sourceID)
	if !ok {
		return nil, fmt.Errorf("unknown document %q", sourceID)
	}
	target, ok := l.DocumentText(targetID)
	if !ok {
		return nil, fmt.Errorf("unknown document %q", targetID)
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(source, target)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var srcLines, tgtLines []string
	var srcPresent, tgtPresent []bool

	appendRow := func(src, tgt string, srcOK, tgtOK bool) {
		srcLines = append(srcLines, src)
		tgtLines = append(tgtLines, tgt)
		srcPresent = append(srcPresent, srcOK)
		tgtPresent = append(tgtPresent, tgtOK)
	}

	var pendingDeleted []string
	flushDeleted := func() {
		for _, line := range pendingDeleted {
			appendRow(line, "", true, false)
		}
		pendingDeleted = nil
	}

	for _, diff := range diffs {
		lines := splitDiffLines(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			pendingDeleted = append(pendingDeleted, lines...)
		case diffmatchpatch.DiffInsert:
			for _, line := range lines {
				if len(pendingDeleted) > 0 {
					appendRow(pendingDeleted[0], line, true, true)
					pendingDeleted = pendingDeleted[1:]
				} else {
					appendRow("", line, false, true)
				}
			}
			flushDeleted()
		case diffmatchpatch.DiffEqual:
			flushDeleted()
			for _, line := range lines {
				appendRow(line, line, true, true)
			}
		}
	}
	flushDeleted()

	return &types.AlignedDiffPayload{
		AlignedLineCount:     len(srcLines),
		AlignedSourceLines:   srcLines,
		AlignedTargetLines:   tgtLines,
		AlignedSourcePresent: srcPresent,
		AlignedTargetPresent: tgtPresent,
	}, nil
}

// splitDiffLines breaks a diff segment into its lines, dropping the final
// empty fragment a trailing newline produces.
func splitDiffLines(s string) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

var bracketPairs = map[rune]rune{'(': ')', '[': ']', '{': '}', '<': '>'}
var bracketPairsReverse = map[rune]rune{')': '(', ']': '[', '}': '{', '>': '<'}

// FindMatchingPair locates the bracket or quote pair anchored at offset.
// Like the hosted service it prefers the character before the caret, so a
// caret sitting just past a closing bracket still gets its pair. Returns
// (nil, nil) when neither neighbor is a pair character or no partner
// exists.
func (l *Local) FindMatchingPair(ctx context.Context, content string, offset int) (*types.PairMatch, error) {
	runes := []rune(content)

	for _, anchor := range []int{offset - 1, offset} {
		if anchor < 0 || anchor >= len(runes) {
			continue
		}
		if match := matchAt(runes, anchor); match != nil {
			return match, nil
		}
	}
	return nil, nil
}

func matchAt(runes []rune, anchor int) *types.PairMatch {
	r := runes[anchor]

	if closing, ok := bracketPairs[r]; ok {
		if partner := scanForward(runes, anchor, r, closing); partner >= 0 {
			return pairMatch(runes, anchor, partner)
		}
		return nil
	}
	if opening, ok := bracketPairsReverse[r]; ok {
		if partner := scanBackward(runes, anchor, opening, r); partner >= 0 {
			return pairMatch(runes, partner, anchor)
		}
		return nil
	}
	if r == '"' || r == '\'' || r == '`' {
		if partner := scanQuoteForward(runes, anchor, r); partner >= 0 {
			return pairMatch(runes, anchor, partner)
		}
		if partner := scanQuoteBackward(runes, anchor, r); partner >= 0 {
			return pairMatch(runes, partner, anchor)
		}
		return nil
	}
	return nil
}

func scanForward(runes []rune, from int, opening, closing rune) int {
	depth := 0
	for i := from + 1; i < len(runes); i++ {
		switch runes[i] {
		case opening:
			depth++
		case closing:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func scanBackward(runes []rune, from int, opening, closing rune) int {
	depth := 0
	for i := from - 1; i >= 0; i-- {
		switch runes[i] {
		case closing:
			depth++
		case opening:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// scanQuoteForward finds the next identical quote on the same line.
func scanQuoteForward(runes []rune, from int, quote rune) int {
	for i := from + 1; i < len(runes) && runes[i] != '\n'; i++ {
		if runes[i] == quote {
			return i
		}
	}
	return -1
}

func scanQuoteBackward(runes []rune, from int, quote rune) int {
	for i := from - 1; i >= 0 && runes[i] != '\n'; i-- {
		if runes[i] == quote {
			return i
		}
	}
	return -1
}

func pairMatch(runes []rune, left, right int) *types.PairMatch {
	leftPos := positionAt(runes, left)
	rightPos := positionAt(runes, right)
	return &types.PairMatch{
		LeftOffset:  left,
		RightOffset: right,
		LeftLine:    leftPos.Line,
		LeftColumn:  leftPos.Column,
		RightLine:   rightPos.Line,
		RightColumn: rightPos.Column,
	}
}

func positionAt(runes []rune, offset int) types.Position {
	line, column := 1, 1
	for i := 0; i < offset && i < len(runes); i++ {
		if runes[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return types.Position{Line: line, Column: column}
}

// SearchAlignedRows scans a stored document for rows containing keyword.
// present maps aligned rows to the document's own lines: a row is matched
// against the concrete line it carries and virtual rows never match.
func (l *Local) SearchAlignedRows(ctx context.Context, docID, keyword string, present []bool) ([]int, error) {
	if keyword == "" {
		return nil, nil
	}

	content, ok := l.DocumentText(docID)
	if !ok {
		return nil, fmt.Errorf("unknown document %q", docID)
	}
	lines := text.SplitNormalizedLines(content)

	rows := []int{}
	lineIdx := 0
	for row := 0; row < len(present); row++ {
		if !present[row] {
			continue
		}
		if lineIdx < len(lines) && strings.Contains(lines[lineIdx], keyword) {
			rows = append(rows, row)
		}
		lineIdx++
	}
	return rows, nil
}

// ApplyTextPatch applies a rune-offset edit to a stored document and
// returns its new line count.
func (l *Local) ApplyTextPatch(ctx context.Context, docID string, patch types.TextPatch) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	content, ok := l.docs[docID]
	if !ok {
		return 0, fmt.Errorf("unknown document %q", docID)
	}

	runes := []rune(content)
	start := patch.StartChar
	end := patch.EndChar
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		return 0, fmt.Errorf("invalid patch range [%d, %d)", patch.StartChar, patch.EndChar)
	}

	updated := string(runes[:start]) + patch.NewText + string(runes[end:])
	l.docs[docID] = updated
	return len(text.SplitNormalizedLines(updated)), nil
}
