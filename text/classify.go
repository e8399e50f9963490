package text

import "diffpane/types"

// ResolveKind classifies a single aligned row:
//
//   - target present, source absent  -> KindInsert
//   - source present, target absent  -> KindDelete
//   - both present, texts differ     -> KindModify (exact compare)
//   - otherwise                      -> KindNone
//
// Pure and total: any row index yields exactly one kind. Out-of-range rows
// read as empty text with concrete presence, so they classify as KindNone.
func ResolveKind(row int, sourceLines, targetLines []string, sourcePresent, targetPresent []bool) types.DiffKind {
	srcPresent := presentAt(sourcePresent, row)
	tgtPresent := presentAt(targetPresent, row)

	switch {
	case tgtPresent && !srcPresent:
		return types.KindInsert
	case srcPresent && !tgtPresent:
		return types.KindDelete
	case srcPresent && tgtPresent && lineAt(sourceLines, row) != lineAt(targetLines, row):
		return types.KindModify
	default:
		return types.KindNone
	}
}

// ComputeKinds classifies every row of an aligned pair.
func ComputeKinds(count int, sourceLines, targetLines []string, sourcePresent, targetPresent []bool) []types.DiffKind {
	kinds := make([]types.DiffKind, count)
	for row := range kinds {
		kinds[row] = ResolveKind(row, sourceLines, targetLines, sourcePresent, targetPresent)
	}
	return kinds
}
