package text

import (
	"testing"

	"diffpane/assert"
	"diffpane/types"
)

func TestNormalizePadsShortArrays(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		AlignedLineCount:     4,
		AlignedSourceLines:   []string{"a", "b"},
		AlignedTargetLines:   []string{"a"},
		AlignedSourcePresent: []bool{true},
		AlignedTargetPresent: []bool{true, false},
	})

	assert.Equal(t, 4, d.LineCount, "declared count wins when larger")
	assert.Equal(t, 4, len(d.SourceLines), "source lines padded")
	assert.Equal(t, 4, len(d.TargetLines), "target lines padded")
	assert.Equal(t, 4, len(d.SourcePresent), "source presence padded")
	assert.Equal(t, 4, len(d.TargetPresent), "target presence padded")
	assert.Equal(t, "", d.SourceLines[3], "padded lines are empty")
	assert.True(t, d.SourcePresent[3], "undeclared rows default concrete")
}

func TestNormalizeCountDerivedFromArrays(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		AlignedLineCount:   1,
		AlignedSourceLines: []string{"a", "b", "c"},
		AlignedTargetLines: []string{"a", "b"},
	})

	assert.Equal(t, 3, d.LineCount, "count grows to the longest array")
}

func TestNormalizeEmptyPayload(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{})

	assert.Equal(t, 1, d.LineCount, "at least one row")
	assert.Equal(t, 1, d.SourceLineCount, "at least one source line")
	assert.Equal(t, 1, d.TargetLineCount, "at least one target line")
}

func TestNormalizeDerivesKindsAndRowMaps(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		AlignedSourceLines:   []string{"a", "", "c"},
		AlignedTargetLines:   []string{"a", "b", "x"},
		AlignedSourcePresent: []bool{true, false, true},
		AlignedTargetPresent: []bool{true, true, true},
	})

	assert.Equal(t, []types.DiffKind{types.KindNone, types.KindInsert, types.KindModify}, d.Kinds, "kinds derived")
	assert.Equal(t, []int{1, 0, 2}, d.SourceLineNumbers, "source rows numbered")
	assert.Equal(t, []int{1, 2, 3}, d.TargetLineNumbers, "target rows numbered")
	assert.Equal(t, 2, d.SourceLineCount, "source concrete count")
	assert.Equal(t, 3, d.TargetLineCount, "target concrete count")
}

func TestNormalizeKeepsProvidedKinds(t *testing.T) {
	kinds := []types.DiffKind{types.KindModify}
	d := Normalize(&types.AlignedDiffPayload{
		AlignedSourceLines: []string{"a"},
		AlignedTargetLines: []string{"a"},
		AlignedDiffKinds:   kinds,
	})

	assert.Equal(t, types.KindModify, d.Kinds[0], "backend-provided kinds trusted when sized right")
}

func TestNormalizeRepairsDoublyVirtualRows(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		AlignedSourceLines:   []string{"a", ""},
		AlignedTargetLines:   []string{"a", ""},
		AlignedSourcePresent: []bool{true, false},
		AlignedTargetPresent: []bool{true, false},
	})

	assert.True(t, d.SourcePresent[1], "row absent on both sides becomes concrete")
	assert.True(t, d.TargetPresent[1], "row absent on both sides becomes concrete")
}

func TestNormalizeInvariantEqualLengths(t *testing.T) {
	payloads := []*types.AlignedDiffPayload{
		{},
		{AlignedSourceLines: []string{"a"}},
		{AlignedLineCount: 7, AlignedTargetPresent: []bool{false}},
		{SourceContent: "a\nb", TargetContent: "a"},
	}

	for _, p := range payloads {
		d := Normalize(p)
		assert.True(t, d.LineCount >= 1, "count at least one")
		assert.Equal(t, d.LineCount, len(d.SourceLines), "source lines length")
		assert.Equal(t, d.LineCount, len(d.TargetLines), "target lines length")
		assert.Equal(t, d.LineCount, len(d.SourcePresent), "source presence length")
		assert.Equal(t, d.LineCount, len(d.TargetPresent), "target presence length")
		assert.Equal(t, d.LineCount, len(d.Kinds), "kinds length")
	}
}

func TestNormalizeLegacyPayload(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		SourceContent: "a\r\nb",
		TargetContent: "a\nx\ny",
	})

	assert.Equal(t, 3, d.LineCount, "legacy rows from the longer side")
	assert.Equal(t, []int{2, 3}, d.DiffLineNumbers, "positional comparison finds differing lines")
	assert.True(t, d.SourcePresent[2], "legacy rows are all concrete")
	assert.Equal(t, types.KindModify, d.Kinds[1], "legacy rows classify positionally")
}

func TestBuildFallbackDiffLineNumbers(t *testing.T) {
	got := BuildFallbackDiffLineNumbers([]string{"a", "b"}, []string{"a", "x", "y"})
	assert.Equal(t, []int{2, 3}, got, "differing and overhanging lines")

	got = BuildFallbackDiffLineNumbers([]string{"a"}, []string{"a"})
	assert.Equal(t, 0, len(got), "identical arrays have no diff lines")
}

func TestReconcileSideLeavesOtherSideAlone(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		AlignedSourceLines:   []string{"A", "B", "C", "D"},
		AlignedTargetLines:   []string{"A", "B2", "C", "D"},
		AlignedSourcePresent: []bool{true, false, true, false},
		AlignedTargetPresent: []bool{true, true, true, true},
	})
	targetBefore := append([]bool(nil), d.TargetPresent...)

	d.ReconcileSide(types.SideSource, []string{"A", "X", "C", "D"})

	assert.Equal(t, []bool{true, true, true, false}, d.SourcePresent, "source presence reconciled")
	assert.Equal(t, targetBefore, d.TargetPresent, "target presence untouched")
	assert.Equal(t, []string{"A", "X", "C", "D"}, d.SourceLines, "source lines replaced")
	assert.Equal(t, types.KindModify, d.Kinds[1], "kinds recomputed after the edit")
}

func TestReconcileSideShrinkingEdit(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		AlignedSourceLines: []string{"a", "b", "c"},
		AlignedTargetLines: []string{"a", "b", "c"},
	})

	d.ReconcileSide(types.SideSource, []string{"a", "c"})

	assert.Equal(t, 3, d.LineCount, "row count follows the longer side")
	assert.Equal(t, 3, len(d.SourcePresent), "source presence re-padded")
	assert.False(t, d.SourcePresent[2], "rows the side no longer has are virtual")
	assert.Equal(t, 2, d.SourceLineCount, "source concrete count follows the edit")
}

func TestLineNumberAt(t *testing.T) {
	d := Normalize(&types.AlignedDiffPayload{
		AlignedSourceLines:   []string{"a", "", "b"},
		AlignedTargetLines:   []string{"a", "x", "b"},
		AlignedSourcePresent: []bool{true, false, true},
		AlignedTargetPresent: []bool{true, true, true},
	})

	assert.Equal(t, 2, d.LineNumberAt(types.SideSource, 2), "concrete row number")
	assert.Equal(t, 0, d.LineNumberAt(types.SideSource, 1), "virtual row maps to zero")
	assert.Equal(t, 0, d.LineNumberAt(types.SideTarget, 9), "out of range maps to zero")
}
