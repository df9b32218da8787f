package diffalign

// NextHunk returns the index of the first hunk starting after row in the
// source space, wrapping to the first hunk. It returns -1 for no hunks.
func NextHunk(hunks []Hunk, row int) int {
	if len(hunks) == 0 {
		return -1
	}
	for i, h := range hunks {
		if h.SourceRows.Start > row {
			return i
		}
	}
	return 0
}

// PrevHunk returns the index of the last hunk starting before row in the
// source space, wrapping to the last hunk. It returns -1 for no hunks.
func PrevHunk(hunks []Hunk, row int) int {
	if len(hunks) == 0 {
		return -1
	}
	for i := len(hunks) - 1; i >= 0; i-- {
		if hunks[i].SourceRows.Start < row {
			return i
		}
	}
	return len(hunks) - 1
}
