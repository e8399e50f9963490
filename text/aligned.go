package text

import (
	"diffpane/types"
)

// AlignedDiff is the canonical dual-pane view model: two parallel line
// arrays with per-row presence flags, diff classification and row/line
// mappings. All aligned arrays share LineCount entries.
//
// The model is replaced wholesale on a backend refresh and patched locally
// (presence only) when the user edits a pane.
type AlignedDiff struct {
	LineCount int

	SourceLines   []string
	TargetLines   []string
	SourcePresent []bool
	TargetPresent []bool

	DiffLineNumbers       []int
	SourceDiffLineNumbers []int
	TargetDiffLineNumbers []int

	Kinds []types.DiffKind

	// 1-based concrete line number per aligned row, 0 where virtual.
	SourceLineNumbers []int
	TargetLineNumbers []int

	// Concrete line totals per side, always >= 1.
	SourceLineCount int
	TargetLineCount int
}

// Normalize repairs a possibly-partial backend payload into a structurally
// valid AlignedDiff. Shorter arrays are right-padded (empty text, concrete
// presence), missing kinds and row maps are derived, and legacy payloads
// that carry only flat contents fall back to a positional line diff.
func Normalize(p *types.AlignedDiffPayload) *AlignedDiff {
	if p == nil {
		p = &types.AlignedDiffPayload{}
	}

	if len(p.AlignedSourceLines) == 0 && len(p.AlignedTargetLines) == 0 &&
		(p.SourceContent != "" || p.TargetContent != "") {
		return normalizeLegacy(p)
	}

	count := max(p.AlignedLineCount, len(p.AlignedSourceLines), len(p.AlignedTargetLines), 1)

	d := &AlignedDiff{
		LineCount:             count,
		SourceLines:           padLines(p.AlignedSourceLines, count),
		TargetLines:           padLines(p.AlignedTargetLines, count),
		SourcePresent:         padPresence(p.AlignedSourcePresent, count),
		TargetPresent:         padPresence(p.AlignedTargetPresent, count),
		DiffLineNumbers:       append([]int(nil), p.DiffLineNumbers...),
		SourceDiffLineNumbers: append([]int(nil), p.SourceDiffLineNumbers...),
		TargetDiffLineNumbers: append([]int(nil), p.TargetDiffLineNumbers...),
	}

	// A row virtual on both sides is meaningless; repair it to concrete so
	// the row stays editable.
	for row := 0; row < count; row++ {
		if !d.SourcePresent[row] && !d.TargetPresent[row] {
			d.SourcePresent[row] = true
			d.TargetPresent[row] = true
		}
	}

	if len(p.AlignedDiffKinds) == count {
		d.Kinds = append([]types.DiffKind(nil), p.AlignedDiffKinds...)
	} else {
		d.Kinds = ComputeKinds(count, d.SourceLines, d.TargetLines, d.SourcePresent, d.TargetPresent)
	}

	if len(p.SourceLineNumbers) == count {
		d.SourceLineNumbers = append([]int(nil), p.SourceLineNumbers...)
	} else {
		d.SourceLineNumbers = LineNumbersByRow(d.SourcePresent)
	}
	if len(p.TargetLineNumbers) == count {
		d.TargetLineNumbers = append([]int(nil), p.TargetLineNumbers...)
	} else {
		d.TargetLineNumbers = LineNumbersByRow(d.TargetPresent)
	}

	d.SourceLineCount = CountPresent(d.SourcePresent)
	d.TargetLineCount = CountPresent(d.TargetPresent)

	return d
}

// normalizeLegacy handles payloads that predate alignment: flat contents,
// every row concrete on both sides, differing line numbers found by direct
// positional comparison. Degraded but deterministic.
func normalizeLegacy(p *types.AlignedDiffPayload) *AlignedDiff {
	sourceLines := SplitNormalizedLines(p.SourceContent)
	targetLines := SplitNormalizedLines(p.TargetContent)
	count := max(len(sourceLines), len(targetLines), 1)

	diffLines := BuildFallbackDiffLineNumbers(sourceLines, targetLines)

	d := &AlignedDiff{
		LineCount:             count,
		SourceLines:           padLines(sourceLines, count),
		TargetLines:           padLines(targetLines, count),
		SourcePresent:         padPresence(nil, count),
		TargetPresent:         padPresence(nil, count),
		DiffLineNumbers:       diffLines,
		SourceDiffLineNumbers: append([]int(nil), diffLines...),
		TargetDiffLineNumbers: append([]int(nil), diffLines...),
	}

	d.Kinds = ComputeKinds(count, d.SourceLines, d.TargetLines, d.SourcePresent, d.TargetPresent)
	d.SourceLineNumbers = LineNumbersByRow(d.SourcePresent)
	d.TargetLineNumbers = LineNumbersByRow(d.TargetPresent)
	d.SourceLineCount = CountPresent(d.SourcePresent)
	d.TargetLineCount = CountPresent(d.TargetPresent)

	return d
}

// BuildFallbackDiffLineNumbers compares two line arrays positionally and
// returns the 1-based numbers of lines that differ, including every line of
// the longer tail. O(n), no alignment.
func BuildFallbackDiffLineNumbers(sourceLines, targetLines []string) []int {
	longest := max(len(sourceLines), len(targetLines))
	var numbers []int
	for i := 0; i < longest; i++ {
		if lineAt(sourceLines, i) != lineAt(targetLines, i) || i >= len(sourceLines) || i >= len(targetLines) {
			numbers = append(numbers, i+1)
		}
	}
	return numbers
}

// ReconcileSide applies a local edit on one side of the model: presence is
// re-inferred from the edit, the side's line array, row map, concrete count
// and the kind cache are rebuilt. The other side is untouched.
func (d *AlignedDiff) ReconcileSide(side types.Side, newLines []string) {
	switch side {
	case types.SideSource:
		d.SourcePresent = ReconcilePresence(d.SourceLines, d.SourcePresent, newLines)
		d.SourceLines = append([]string(nil), newLines...)
		d.SourceLineNumbers = LineNumbersByRow(d.SourcePresent)
		d.SourceLineCount = CountPresent(d.SourcePresent)
	case types.SideTarget:
		d.TargetPresent = ReconcilePresence(d.TargetLines, d.TargetPresent, newLines)
		d.TargetLines = append([]string(nil), newLines...)
		d.TargetLineNumbers = LineNumbersByRow(d.TargetPresent)
		d.TargetLineCount = CountPresent(d.TargetPresent)
	}

	// An edit may change the row count on one side only; re-pad so the
	// aligned arrays stay parallel. Rows a side does not have are virtual,
	// so padding here uses absent presence (unlike the normalizer, which
	// defaults declared-but-unknown rows to concrete).
	d.LineCount = max(len(d.SourceLines), len(d.TargetLines), 1)
	d.SourceLines = padLines(d.SourceLines, d.LineCount)
	d.TargetLines = padLines(d.TargetLines, d.LineCount)
	d.SourcePresent = padAbsent(d.SourcePresent, d.LineCount)
	d.TargetPresent = padAbsent(d.TargetPresent, d.LineCount)
	d.SourceLineNumbers = LineNumbersByRow(d.SourcePresent)
	d.TargetLineNumbers = LineNumbersByRow(d.TargetPresent)
	d.SourceLineCount = CountPresent(d.SourcePresent)
	d.TargetLineCount = CountPresent(d.TargetPresent)

	d.Kinds = ComputeKinds(d.LineCount, d.SourceLines, d.TargetLines, d.SourcePresent, d.TargetPresent)
}

// Lines returns the aligned line array for a side.
func (d *AlignedDiff) Lines(side types.Side) []string {
	if side == types.SideSource {
		return d.SourceLines
	}
	return d.TargetLines
}

// Present returns the presence array for a side.
func (d *AlignedDiff) Present(side types.Side) []bool {
	if side == types.SideSource {
		return d.SourcePresent
	}
	return d.TargetPresent
}

// LineNumberAt returns the concrete line number a side shows at an aligned
// row, or 0 when the row is virtual or out of range.
func (d *AlignedDiff) LineNumberAt(side types.Side, row int) int {
	numbers := d.SourceLineNumbers
	if side == types.SideTarget {
		numbers = d.TargetLineNumbers
	}
	if row < 0 || row >= len(numbers) {
		return 0
	}
	return numbers[row]
}

func padLines(lines []string, count int) []string {
	padded := make([]string, count)
	copy(padded, lines)
	return padded
}

func padPresence(present []bool, count int) []bool {
	padded := make([]bool, count)
	copy(padded, present)
	// Undeclared rows default to concrete, not phantom.
	for i := len(present); i < count; i++ {
		padded[i] = true
	}
	return padded
}

func padAbsent(present []bool, count int) []bool {
	if len(present) >= count {
		return present[:count]
	}
	padded := make([]bool, count)
	copy(padded, present)
	return padded
}
