package text

import "strings"

// SplitNormalizedLines splits text into lines, treating CR, CRLF and LF all
// as line breaks. The result always has at least one element.
func SplitNormalizedLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// InferTrailingNewline reports whether a line array round-trips to text that
// ends with a newline: more than one line and an empty last line.
func InferTrailingNewline(lines []string) bool {
	return len(lines) > 1 && lines[len(lines)-1] == ""
}

// SerializeLines joins lines with \n, appending one more when the document
// carries a trailing newline. The empty-last-line convention of
// InferTrailingNewline is already part of lines in that case, so joining is
// enough; trailingNewline only matters for arrays that dropped it.
func SerializeLines(lines []string, trailingNewline bool) string {
	joined := strings.Join(lines, "\n")
	if trailingNewline && !strings.HasSuffix(joined, "\n") {
		joined += "\n"
	}
	return joined
}

// lineAt returns lines[row] or "" when row is out of range.
func lineAt(lines []string, row int) string {
	if row < 0 || row >= len(lines) {
		return ""
	}
	return lines[row]
}

// presentAt returns present[row], defaulting to true out of range. Unknown
// rows are assumed concrete so they stay editable rather than phantom.
func presentAt(present []bool, row int) bool {
	if row < 0 || row >= len(present) {
		return true
	}
	return present[row]
}
