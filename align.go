package diffalign

import (
	"cmp"
	"slices"
)

// Target names a coordinate space a padding instruction or highlight
// applies to.
type Target int

const (
	// TargetOld is the old text of a two-way view.
	TargetOld Target = iota
	// TargetNew is the new text of a two-way view.
	TargetNew
	// TargetTheirs is the theirs column of a three-way view.
	TargetTheirs
	// TargetBase is the base column of a three-way view.
	TargetBase
	// TargetOurs is the ours column of a three-way view.
	TargetOurs
)

func (t Target) String() string {
	switch t {
	case TargetOld:
		return "old"
	case TargetNew:
		return "new"
	case TargetTheirs:
		return "theirs"
	case TargetBase:
		return "base"
	case TargetOurs:
		return "ours"
	default:
		return "unknown"
	}
}

func sideTarget(s Side) Target {
	if s == SideOurs {
		return TargetOurs
	}
	return TargetTheirs
}

// PaddingInstruction asks the renderer to insert Lines filler rows before
// Row in the Target space. Origin tags base-space padding with the side
// whose change caused it and is SideNone elsewhere.
type PaddingInstruction struct {
	Target Target
	Row    int
	Lines  int
	Origin Side
}

// Highlight is a row range of one hunk to colorize.
type Highlight struct {
	Target Target
	Rows   Range
	Kind   Kind
	Side   Side
	Status Status
}

// Plan is the advisory output of alignment planning.
type Plan struct {
	Padding    []PaddingInstruction
	Highlights []Highlight
}

// PaddingFor returns the padding of one target ordered by row.
func (p Plan) PaddingFor(t Target) []PaddingInstruction {
	var out []PaddingInstruction
	for _, pad := range p.Padding {
		if pad.Target == t {
			out = append(out, pad)
		}
	}
	slices.SortStableFunc(out, func(a, b PaddingInstruction) int {
		return cmp.Compare(a.Row, b.Row)
	})
	return out
}

// PaddingLines returns the number of filler rows planned for a target.
func (p Plan) PaddingLines(t Target) int {
	n := 0
	for _, pad := range p.Padding {
		if pad.Target == t {
			n += pad.Lines
		}
	}
	return n
}

// sideSpace is one derived space as seen by the planner.
type sideSpace struct {
	hunks  []Hunk
	mapper *CoordinateMapper
	lines  int
}

func newSideSpace(hunks []Hunk, baseLineCount int) (*sideSpace, error) {
	m, err := NewCoordinateMapper(hunks)
	if err != nil {
		return nil, err
	}
	return &sideSpace{hunks: hunks, mapper: m, lines: m.Map(baseLineCount)}, nil
}

// count returns the number of rows the space shows for region base rows
// [start,end). Base rows its hunks do not cover mirror base.
func (s *sideSpace) count(idx []int, start, end int) int {
	n := end - start
	for _, i := range idx {
		n += s.hunks[i].Delta()
	}
	return n
}

// insertRow is the row of the space that corresponds to the end of the
// region.
func (s *sideSpace) insertRow(idx []int, baseEnd int) int {
	row := s.mapper.Map(baseEnd)
	if len(idx) > 0 {
		last := s.hunks[idx[len(idx)-1]]
		row = last.SourceRows.End + (baseEnd - last.BaseRows.End)
	}
	return clampRow(row, s.lines)
}

func clampRow(row, lines int) int {
	return max(0, min(row, lines))
}

// PlanAlignment computes padding that gives every region the same height in
// the theirs, base and ours spaces, plus a highlight per hunk. Rows of the
// derived spaces are projected with a CoordinateMapper over each side's
// hunks of the current pass. Regions whose spaces are all empty are skipped.
func PlanAlignment(regions []ConflictRegion, theirs, ours []Hunk, baseLineCount int) (Plan, error) {
	var plan Plan
	ts, err := newSideSpace(theirs, baseLineCount)
	if err != nil {
		return plan, err
	}
	ous, err := newSideSpace(ours, baseLineCount)
	if err != nil {
		return plan, err
	}

	for _, r := range regions {
		if err := r.BaseRange().Validate("PlanAlignment"); err != nil {
			return Plan{}, err
		}
		if err := checkHunkIndexes(r.TheirsHunks, theirs); err != nil {
			return Plan{}, err
		}
		if err := checkHunkIndexes(r.OursHunks, ours); err != nil {
			return Plan{}, err
		}

		baseCount := r.BaseEnd - r.BaseStart
		theirsCount := ts.count(r.TheirsHunks, r.BaseStart, r.BaseEnd)
		oursCount := ous.count(r.OursHunks, r.BaseStart, r.BaseEnd)
		maxLines := max(baseCount, theirsCount, oursCount)
		if maxLines == 0 {
			continue
		}

		if theirsCount < maxLines {
			plan.Padding = append(plan.Padding, PaddingInstruction{
				Target: TargetTheirs,
				Row:    ts.insertRow(r.TheirsHunks, r.BaseEnd),
				Lines:  maxLines - theirsCount,
			})
		}
		if baseCount < maxLines {
			origin := SideTheirs
			if theirsCount < oursCount {
				origin = SideOurs
			}
			plan.Padding = append(plan.Padding, PaddingInstruction{
				Target: TargetBase,
				Row:    clampRow(r.BaseEnd, baseLineCount),
				Lines:  maxLines - baseCount,
				Origin: origin,
			})
		}
		if oursCount < maxLines {
			plan.Padding = append(plan.Padding, PaddingInstruction{
				Target: TargetOurs,
				Row:    ous.insertRow(r.OursHunks, r.BaseEnd),
				Lines:  maxLines - oursCount,
			})
		}
	}

	plan.Highlights = append(highlightsFor(theirs), highlightsFor(ours)...)
	return plan, nil
}

func checkHunkIndexes(idx []int, hunks []Hunk) error {
	for _, i := range idx {
		if i < 0 || i >= len(hunks) {
			return ErrNoSuchHunk
		}
	}
	return nil
}

func highlightsFor(hunks []Hunk) []Highlight {
	var out []Highlight
	for _, h := range hunks {
		if !h.SourceRows.Empty() {
			out = append(out, Highlight{Target: sideTarget(h.Side), Rows: h.SourceRows, Kind: h.Kind, Side: h.Side, Status: h.Status})
		}
		if !h.BaseRows.Empty() {
			out = append(out, Highlight{Target: TargetBase, Rows: h.BaseRows, Kind: h.Kind, Side: h.Side, Status: h.Status})
		}
	}
	return out
}

// PlanTwoWay plans an old/new view. Each hunk is aligned on its own: the
// shorter side of the hunk is padded at the end of its rows.
func PlanTwoWay(hunks []Hunk, oldCount, newCount int) (Plan, error) {
	var plan Plan
	for _, h := range hunks {
		if err := h.BaseRows.Validate("PlanTwoWay"); err != nil {
			return Plan{}, err
		}
		if err := h.SourceRows.Validate("PlanTwoWay"); err != nil {
			return Plan{}, err
		}
		oldLen, newLen := h.BaseRows.Len(), h.SourceRows.Len()
		if oldLen > 0 {
			plan.Highlights = append(plan.Highlights, Highlight{Target: TargetOld, Rows: h.BaseRows, Kind: h.Kind, Side: h.Side, Status: h.Status})
		}
		if newLen > 0 {
			plan.Highlights = append(plan.Highlights, Highlight{Target: TargetNew, Rows: h.SourceRows, Kind: h.Kind, Side: h.Side, Status: h.Status})
		}
		switch {
		case oldLen < newLen:
			plan.Padding = append(plan.Padding, PaddingInstruction{
				Target: TargetOld,
				Row:    clampRow(h.BaseRows.End, oldCount),
				Lines:  newLen - oldLen,
			})
		case newLen < oldLen:
			plan.Padding = append(plan.Padding, PaddingInstruction{
				Target: TargetNew,
				Row:    clampRow(h.SourceRows.End, newCount),
				Lines:  oldLen - newLen,
			})
		}
	}
	return plan, nil
}
