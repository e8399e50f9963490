package text

// ReconcilePresence re-infers one side's presence flags after a local edit,
// without re-running line alignment. The longest common prefix and suffix of
// the old and new line arrays keep their previous flags; every row in the
// edited span between them is forced concrete: a line the user has typed
// into is real content, never a placeholder.
//
// The suffix scan is bounded by the prefix so the two regions cannot overlap
// when newLines is shorter than the old array. O(n), no backend involvement.
func ReconcilePresence(oldLines []string, oldPresent []bool, newLines []string) []bool {
	newPresent := make([]bool, len(newLines))

	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		newPresent[prefix] = presentAt(oldPresent, prefix)
		prefix++
	}

	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix {
		oldRow := len(oldLines) - 1 - suffix
		newRow := len(newLines) - 1 - suffix
		if oldLines[oldRow] != newLines[newRow] {
			break
		}
		newPresent[newRow] = presentAt(oldPresent, oldRow)
		suffix++
	}

	for row := prefix; row < len(newLines)-suffix; row++ {
		newPresent[row] = true
	}

	return newPresent
}
