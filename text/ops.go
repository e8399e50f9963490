package text

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"diffpane/types"
)

// ExtractActualLines filters an aligned line array down to the lines that
// exist on that side: present rows, plus virtual rows carrying non-empty
// transient text (insert previews typed into a placeholder). The result is
// never empty; downstream serialization assumes at least one line.
func ExtractActualLines(alignedLines []string, present []bool) []string {
	var actual []string
	for row, line := range alignedLines {
		if presentAt(present, row) || line != "" {
			actual = append(actual, line)
		}
	}
	if len(actual) == 0 {
		return []string{""}
	}
	return actual
}

// LineSelectionRange computes the flat rune offsets [start, end) of one row
// within the joined text, counting len(line)+1 per preceding row for the
// newline. rowIndex is clamped into range.
func LineSelectionRange(lines []string, rowIndex int) (start, end int) {
	if len(lines) == 0 {
		return 0, 0
	}
	rowIndex = min(max(rowIndex, 0), len(lines)-1)

	for row := 0; row < rowIndex; row++ {
		start += len([]rune(lines[row])) + 1
	}
	return start, start + len([]rune(lines[rowIndex]))
}

// CopyTextWithoutVirtualRows slices the selection [selStart, selEnd) out of
// the aligned text while dropping the content of virtual rows: a virtual row
// renders as a spacer and its text is not real content. Partial first and
// last rows are sliced by rune offset. Returns ("", false) for a collapsed
// selection.
func CopyTextWithoutVirtualRows(text string, selStart, selEnd int, present []bool) (string, bool) {
	if selStart > selEnd {
		selStart, selEnd = selEnd, selStart
	}
	if selStart == selEnd {
		return "", false
	}

	runes := []rune(text)
	selStart = min(max(selStart, 0), len(runes))
	selEnd = min(max(selEnd, 0), len(runes))
	if selStart == selEnd {
		return "", false
	}

	var kept []string
	rowStart := 0
	for row, line := range strings.Split(text, "\n") {
		lineLen := len([]rune(line))
		rowEnd := rowStart + lineLen

		from := max(selStart, rowStart)
		to := min(selEnd, rowEnd)
		if from < to || (from == to && rowStart >= selStart && rowEnd <= selEnd) {
			if presentAt(present, row) {
				kept = append(kept, string(runes[from:to]))
			}
		}

		rowStart = rowEnd + 1 // skip the newline
		if rowStart > selEnd {
			break
		}
	}

	return strings.Join(kept, "\n"), true
}

// ComputeTextPatch finds the minimal changed span between two versions of a
// document by trimming the common prefix and suffix, so edits travel to the
// document store as incremental patches instead of full-text replaces.
// Offsets are rune-based. Pure insertions yield StartChar == EndChar; pure
// deletions yield an empty NewText.
func ComputeTextPatch(oldText, newText string) types.TextPatch {
	dmp := diffmatchpatch.New()

	prefix := dmp.DiffCommonPrefix(oldText, newText)
	suffix := dmp.DiffCommonSuffix(oldText, newText)

	oldRunes := []rune(oldText)
	newRunes := []rune(newText)

	// Prefix and suffix may overlap when one text nearly contains the
	// other; the prefix wins and the suffix shrinks.
	if limit := min(len(oldRunes), len(newRunes)) - prefix; suffix > limit {
		suffix = limit
	}

	return types.TextPatch{
		StartChar: prefix,
		EndChar:   len(oldRunes) - suffix,
		NewText:   string(newRunes[prefix : len(newRunes)-suffix]),
	}
}
