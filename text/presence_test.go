package text

import (
	"testing"

	"diffpane/assert"
)

func TestReconcilePresenceEditedRowForcedConcrete(t *testing.T) {
	oldLines := []string{"A", "B", "C", "D"}
	oldPresent := []bool{true, false, true, false}
	newLines := []string{"A", "X", "C", "D"}

	got := ReconcilePresence(oldLines, oldPresent, newLines)

	assert.Equal(t, []bool{true, true, true, false}, got, "edited row concrete, prefix and suffix preserved")
}

func TestReconcilePresenceIdempotent(t *testing.T) {
	oldLines := []string{"one", "two", "three"}
	oldPresent := []bool{true, false, true}

	got := ReconcilePresence(oldLines, oldPresent, []string{"one", "two", "three"})

	assert.Equal(t, oldPresent, got, "unchanged lines keep their presence")
}

func TestReconcilePresenceInsertedLines(t *testing.T) {
	oldLines := []string{"a", "b"}
	oldPresent := []bool{true, false}
	newLines := []string{"a", "new1", "new2", "b"}

	got := ReconcilePresence(oldLines, oldPresent, newLines)

	assert.Equal(t, []bool{true, true, true, false}, got, "inserted lines concrete, suffix keeps old flag")
}

func TestReconcilePresenceDeletedLines(t *testing.T) {
	oldLines := []string{"a", "b", "c", "d"}
	oldPresent := []bool{true, false, true, true}
	newLines := []string{"a", "d"}

	got := ReconcilePresence(oldLines, oldPresent, newLines)

	assert.Equal(t, []bool{true, true}, got, "suffix row keeps its old flag")
}

func TestReconcilePresenceSuffixBoundedByPrefix(t *testing.T) {
	// newLines shorter than prefix+suffix would overlap: the suffix scan
	// must stop at the prefix boundary instead of going negative.
	oldLines := []string{"x", "x", "x"}
	oldPresent := []bool{false, true, false}
	newLines := []string{"x"}

	got := ReconcilePresence(oldLines, oldPresent, newLines)

	assert.Equal(t, 1, len(got), "result matches new length")
	assert.Equal(t, []bool{false}, got, "prefix row keeps its old flag")
}

func TestReconcilePresenceAllNew(t *testing.T) {
	got := ReconcilePresence([]string{"a", "b"}, []bool{false, false}, []string{"p", "q", "r"})
	assert.Equal(t, []bool{true, true, true}, got, "fully rewritten text is all concrete")
}

func TestReconcilePresenceEmptyNew(t *testing.T) {
	got := ReconcilePresence([]string{"a"}, []bool{true}, nil)
	assert.Equal(t, 0, len(got), "no rows for no lines")
}

func TestReconcilePresenceShortOldPresent(t *testing.T) {
	// A stale presence array shorter than the lines defaults missing rows
	// to concrete.
	got := ReconcilePresence([]string{"a", "b"}, []bool{false}, []string{"a", "b"})
	assert.Equal(t, []bool{false, true}, got, "missing old flags default concrete")
}
