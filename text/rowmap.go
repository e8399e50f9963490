package text

// LineNumbersByRow maps every aligned row to that side's 1-based concrete
// line number, or 0 for virtual rows. A running counter increments only on
// present rows, so the cumulative present count up to a row equals its line
// number.
func LineNumbersByRow(present []bool) []int {
	numbers := make([]int, len(present))
	lineNumber := 0
	for row, ok := range present {
		if ok {
			lineNumber++
			numbers[row] = lineNumber
		}
	}
	return numbers
}

// RowByLineNumber finds the aligned row showing the given 1-based concrete
// line number on the side described by present. Returns -1 for non-positive
// or out-of-range line numbers.
func RowByLineNumber(present []bool, lineNumber int) int {
	if lineNumber <= 0 {
		return -1
	}
	seen := 0
	for row, ok := range present {
		if !ok {
			continue
		}
		seen++
		if seen == lineNumber {
			return row
		}
	}
	return -1
}

// CountPresent returns the number of concrete rows, never below one: a side
// always has at least one line even when every row is virtual.
func CountPresent(present []bool) int {
	count := 0
	for _, ok := range present {
		if ok {
			count++
		}
	}
	return max(count, 1)
}
