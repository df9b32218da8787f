package diffalign

import "slices"

// ApplyHunk writes h into the base buffer: its base rows are replaced by its
// lines, so a Deleted hunk removes them and an Added hunk inserts before its
// base row. The edit is all-or-nothing. On success h becomes Accepted.
func ApplyHunk(buf Buffer, h *Hunk) error {
	if err := h.BaseRows.Validate("ApplyHunk"); err != nil {
		return err
	}
	if err := h.SourceRows.Validate("ApplyHunk"); err != nil {
		return err
	}
	if h.Status != Pending {
		return &ApplyError{Hunk: *h, Err: ErrNotPending}
	}
	if n := buf.LineCount(); n != h.BaseLineCount || h.BaseRows.End > n {
		return &ApplyError{Hunk: *h, Err: ErrStale}
	}
	if err := buf.ReplaceLines(h.BaseRows, slices.Clone(h.Lines)); err != nil {
		return &ApplyError{Hunk: *h, Err: err}
	}
	h.Status = Accepted
	return nil
}

// ApplyHunks replays hunks of one pass onto a copy of base in source order
// and returns the result. Applying every hunk of ComputeTwoWay(old, new) to
// old yields new.
func ApplyHunks(base []string, hunks []Hunk) ([]string, error) {
	out := slices.Clone(base)
	shift := 0
	for _, h := range hunks {
		if err := h.BaseRows.Validate("ApplyHunks"); err != nil {
			return nil, err
		}
		if h.BaseRows.End > len(base) {
			return nil, &InputError{Op: "ApplyHunks", Range: h.BaseRows, Reason: "past end of base"}
		}
		start, end := h.BaseRows.Start+shift, h.BaseRows.End+shift
		if start < 0 || end > len(out) {
			return nil, &InputError{Op: "ApplyHunks", Range: h.BaseRows, Reason: "hunks out of order"}
		}
		out = slices.Replace(out, start, end, h.Lines...)
		shift += len(h.Lines) - h.BaseRows.Len()
	}
	return out, nil
}
