package text

import (
	"testing"

	"diffpane/assert"
	"diffpane/types"
)

func TestResolveKindInsert(t *testing.T) {
	kind := ResolveKind(0, []string{""}, []string{"hello"}, []bool{false}, []bool{true})
	assert.Equal(t, types.KindInsert, kind, "target-only row is an insert")
}

func TestResolveKindDelete(t *testing.T) {
	kind := ResolveKind(0, []string{"hello"}, []string{""}, []bool{true}, []bool{false})
	assert.Equal(t, types.KindDelete, kind, "source-only row is a delete")
}

func TestResolveKindModify(t *testing.T) {
	kind := ResolveKind(0, []string{"old"}, []string{"new"}, []bool{true}, []bool{true})
	assert.Equal(t, types.KindModify, kind, "differing present rows are a modify")
}

func TestResolveKindUnchanged(t *testing.T) {
	kind := ResolveKind(0, []string{"same"}, []string{"same"}, []bool{true}, []bool{true})
	assert.Equal(t, types.KindNone, kind, "equal present rows are unchanged")
}

func TestResolveKindExactCompare(t *testing.T) {
	// Whitespace differences count: the compare is exact, not normalized.
	kind := ResolveKind(0, []string{"a "}, []string{"a"}, []bool{true}, []bool{true})
	assert.Equal(t, types.KindModify, kind, "trailing space is a modify")
}

func TestResolveKindOutOfRange(t *testing.T) {
	kind := ResolveKind(5, []string{"a"}, []string{"a"}, []bool{true}, []bool{true})
	assert.Equal(t, types.KindNone, kind, "out-of-range row is unchanged")

	kind = ResolveKind(-1, []string{"a"}, []string{"b"}, []bool{true}, []bool{true})
	assert.Equal(t, types.KindNone, kind, "negative row is unchanged")
}

func TestComputeKindsTotality(t *testing.T) {
	sourceLines := []string{"a", "b", "", "d"}
	targetLines := []string{"a", "x", "c", ""}
	sourcePresent := []bool{true, true, false, true}
	targetPresent := []bool{true, true, true, false}

	kinds := ComputeKinds(4, sourceLines, targetLines, sourcePresent, targetPresent)

	assert.Equal(t, 4, len(kinds), "one kind per row")
	assert.Equal(t, types.KindNone, kinds[0], "row 0 unchanged")
	assert.Equal(t, types.KindModify, kinds[1], "row 1 modified")
	assert.Equal(t, types.KindInsert, kinds[2], "row 2 inserted")
	assert.Equal(t, types.KindDelete, kinds[3], "row 3 deleted")
}
