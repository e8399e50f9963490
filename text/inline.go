package text

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// InlineKind describes how a modified row changed at the character level.
type InlineKind int

const (
	// InlineWhole marks a change too scattered for a single span; the UI
	// highlights the whole row.
	InlineWhole InlineKind = iota
	InlineAppend
	InlineDelete
	InlineReplace
)

// String returns the string representation of an InlineKind.
func (k InlineKind) String() string {
	switch k {
	case InlineAppend:
		return "append"
	case InlineDelete:
		return "delete"
	case InlineReplace:
		return "replace"
	case InlineWhole:
		return "whole"
	default:
		return "unknown"
	}
}

// InlineSpan is the character range of an intra-row change. Columns are
// 0-based rune offsets into the new line (old line for InlineDelete).
type InlineSpan struct {
	Kind     InlineKind
	ColStart int
	ColEnd   int
}

// ResolveInlineSpan locates the changed span within a modified row so the
// renderer can highlight characters instead of the whole line. Falls back
// to InlineWhole when the change has multiple disjoint regions.
func ResolveInlineSpan(oldLine, newLine string) InlineSpan {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldLine, newLine, false))

	var insertions, deletions int
	var hasEqual bool
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			insertions++
		case diffmatchpatch.DiffDelete:
			deletions++
		case diffmatchpatch.DiffEqual:
			hasEqual = true
		}
	}

	// Without any surviving equal segment the rewrite has no anchor; a
	// span would cover the whole row anyway.
	if !hasEqual {
		return InlineSpan{Kind: InlineWhole}
	}

	switch {
	case deletions == 0 && insertions == 1:
		if strings.HasPrefix(newLine, oldLine) {
			return InlineSpan{InlineAppend, len([]rune(oldLine)), len([]rune(newLine))}
		}
		return singleSpan(diffs, diffmatchpatch.DiffInsert, InlineReplace)
	case insertions == 0 && deletions == 1:
		return singleSpan(diffs, diffmatchpatch.DiffDelete, InlineDelete)
	case insertions == 1 && deletions == 1:
		return singleSpan(diffs, diffmatchpatch.DiffInsert, InlineReplace)
	default:
		return InlineSpan{Kind: InlineWhole}
	}
}

// singleSpan finds the only diff of the wanted type and returns its rune
// range, positioned by the equal text preceding it.
func singleSpan(diffs []diffmatchpatch.Diff, want diffmatchpatch.Operation, kind InlineKind) InlineSpan {
	pos := 0
	for _, diff := range diffs {
		switch diff.Type {
		case want:
			width := len([]rune(diff.Text))
			return InlineSpan{kind, pos, pos + width}
		case diffmatchpatch.DiffEqual:
			pos += len([]rune(diff.Text))
		}
	}
	return InlineSpan{Kind: InlineWhole}
}

// LineSimilarity scores two lines from 0 (unrelated) to 1 (identical) using
// the Levenshtein ratio. Empty lines only match other empty lines.
func LineSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	distance := dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))

	longest := max(len([]rune(a)), len([]rune(b)))
	return 1.0 - float64(distance)/float64(longest)
}
