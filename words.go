package diffalign

import "github.com/sergi/go-diff/diffmatchpatch"

// WordHighlight is a changed byte span [Start, End) within one row.
type WordHighlight struct {
	Target Target
	Row    int
	Start  int
	End    int
}

// WordHighlights finds the changed spans inside a Modified hunk. Base and
// source lines are paired by position; rows without a partner are wholly
// changed and get a line highlight instead, so they yield no spans here.
// base is the text h was computed against.
func WordHighlights(h Hunk, base []string) ([]WordHighlight, error) {
	if h.Kind != Modified {
		return nil, nil
	}
	if err := h.BaseRows.Validate("WordHighlights"); err != nil {
		return nil, err
	}
	if h.BaseRows.End > len(base) {
		return nil, &InputError{Op: "WordHighlights", Range: h.BaseRows, Reason: "past end of base"}
	}

	baseTarget, sourceTarget := TargetBase, sideTarget(h.Side)
	if h.Side == SideNone {
		baseTarget, sourceTarget = TargetOld, TargetNew
	}

	dmp := diffmatchpatch.New()
	var out []WordHighlight
	n := min(h.BaseRows.Len(), len(h.Lines))
	for i := range n {
		oldLine := base[h.BaseRows.Start+i]
		newLine := h.Lines[i]
		if oldLine == newLine {
			continue
		}
		diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldLine, newLine, false))

		oldCol, newCol := 0, 0
		for _, d := range diffs {
			w := len(d.Text)
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldCol += w
				newCol += w
			case diffmatchpatch.DiffDelete:
				out = append(out, WordHighlight{Target: baseTarget, Row: h.BaseRows.Start + i, Start: oldCol, End: oldCol + w})
				oldCol += w
			case diffmatchpatch.DiffInsert:
				out = append(out, WordHighlight{Target: sourceTarget, Row: h.SourceRows.Start + i, Start: newCol, End: newCol + w})
				newCol += w
			}
		}
	}
	return out, nil
}
