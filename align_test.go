package diffalign

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planThreeWay(t *testing.T, base, theirs, ours []string) ([]Hunk, []Hunk, []ConflictRegion, Plan) {
	t.Helper()
	th, oh, err := ComputeThreeWay(base, theirs, ours)
	require.NoError(t, err)
	regions, err := MergeRegions(th, oh)
	require.NoError(t, err)
	plan, err := PlanAlignment(regions, th, oh, len(base))
	require.NoError(t, err)
	return th, oh, regions, plan
}

// padded inserts a marker row for every planned filler line.
func padded(lines []string, pads []PaddingInstruction) []string {
	var out []string
	p := 0
	for row := 0; row <= len(lines); row++ {
		for p < len(pads) && pads[p].Row == row {
			for i := 0; i < pads[p].Lines; i++ {
				out = append(out, "~")
			}
			p++
		}
		if row < len(lines) {
			out = append(out, lines[row])
		}
	}
	return out
}

func TestPlanAlignment_TrailingAddition(t *testing.T) {
	base := SplitLines("1\n2\n3")
	theirs := SplitLines("1\nT\n3")
	ours := SplitLines("1\n2\n3\nO")

	_, _, regions, plan := planThreeWay(t, base, theirs, ours)
	require.Len(t, regions, 2)

	assert.Equal(t, []PaddingInstruction{
		{Target: TargetTheirs, Row: 3, Lines: 1},
		{Target: TargetBase, Row: 3, Lines: 1, Origin: SideOurs},
	}, plan.Padding)

	assert.Equal(t, []string{"1", "T", "3", "~"}, padded(theirs, plan.PaddingFor(TargetTheirs)))
	assert.Equal(t, []string{"1", "2", "3", "~"}, padded(base, plan.PaddingFor(TargetBase)))
	assert.Equal(t, []string{"1", "2", "3", "O"}, padded(ours, plan.PaddingFor(TargetOurs)))

	assert.ElementsMatch(t, []Highlight{
		{Target: TargetTheirs, Rows: Range{1, 2}, Kind: Modified, Side: SideTheirs},
		{Target: TargetBase, Rows: Range{1, 2}, Kind: Modified, Side: SideTheirs},
		{Target: TargetOurs, Rows: Range{3, 4}, Kind: Added, Side: SideOurs},
	}, plan.Highlights)
}

func TestPlanAlignment_ConflictingRegion(t *testing.T) {
	base := SplitLines("a\nb\nc\nd")
	theirs := SplitLines("a\nT1\nT2\nT3\nd")
	ours := SplitLines("a\nO\nd")

	_, _, regions, plan := planThreeWay(t, base, theirs, ours)
	require.Len(t, regions, 1)
	assert.Equal(t, Range{1, 3}, regions[0].BaseRange())

	// theirs shows 3 rows, base 2, ours 1
	assert.Equal(t, []PaddingInstruction{
		{Target: TargetBase, Row: 3, Lines: 1, Origin: SideTheirs},
		{Target: TargetOurs, Row: 2, Lines: 2},
	}, plan.Padding)

	assert.Equal(t, []string{"a", "b", "c", "~", "d"}, padded(base, plan.PaddingFor(TargetBase)))
	assert.Equal(t, []string{"a", "O", "~", "~", "d"}, padded(ours, plan.PaddingFor(TargetOurs)))
}

func TestPlanAlignment_PartialCoverage(t *testing.T) {
	// ours changes the first row of a region that theirs widens: the rows
	// ours leaves alone still count for ours.
	theirs := []Hunk{hunkAt(SideTheirs, Modified, Range{1, 4}, Range{1, 2})}
	ours := []Hunk{hunkAt(SideOurs, Modified, Range{1, 2}, Range{1, 3})}
	regions, err := MergeRegions(theirs, ours)
	require.NoError(t, err)

	plan, err := PlanAlignment(regions, theirs, ours, 6)
	require.NoError(t, err)

	// base 3, theirs 1, ours 2 + 2 uncovered rows = 4
	assert.Equal(t, []PaddingInstruction{
		{Target: TargetTheirs, Row: 2, Lines: 3},
		{Target: TargetBase, Row: 4, Lines: 1, Origin: SideOurs},
	}, plan.Padding)
}

func TestPlanAlignment_DegenerateRegionSkipped(t *testing.T) {
	regions := []ConflictRegion{{BaseStart: 2, BaseEnd: 2}}
	plan, err := PlanAlignment(regions, nil, nil, 4)
	require.NoError(t, err)
	assert.Empty(t, plan.Padding)
}

func TestPlanAlignment_ClampsRows(t *testing.T) {
	regions := []ConflictRegion{{BaseStart: 5, BaseEnd: 9}}
	plan, err := PlanAlignment(regions, nil, []Hunk{}, 3)
	require.NoError(t, err)
	// Both sides mirror base, nothing to pad
	assert.Empty(t, plan.Padding)

	ours := []Hunk{hunkAt(SideOurs, Added, Range{3, 3}, Range{3, 5})}
	regions = []ConflictRegion{{BaseStart: 3, BaseEnd: 3, OursRanges: []Range{{3, 5}}, OursHunks: []int{0}}}
	plan, err = PlanAlignment(regions, nil, ours, 2)
	require.NoError(t, err)
	for _, p := range plan.Padding {
		assert.LessOrEqual(t, p.Row, 2, "row of %v clamped to the space", p.Target)
	}
}

func TestPlanAlignment_InputErrors(t *testing.T) {
	_, err := PlanAlignment([]ConflictRegion{{BaseStart: 3, BaseEnd: 1}}, nil, nil, 4)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = PlanAlignment([]ConflictRegion{{BaseStart: 0, BaseEnd: 1, TheirsHunks: []int{2}}}, nil, nil, 4)
	require.ErrorIs(t, err, ErrNoSuchHunk)
}

func TestPlanAlignment_Invariant(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for iter := 0; iter < 300; iter++ {
		base := randomText(r, 15)
		theirs := randomText(r, 15)
		ours := randomText(r, 15)

		_, _, _, plan := planThreeWay(t, base, theirs, ours)

		// With every hunk pending the padded spaces have the same height
		tLen := len(ours) + plan.PaddingLines(TargetOurs)
		require.Equal(t, tLen, len(theirs)+plan.PaddingLines(TargetTheirs),
			"base=%q theirs=%q ours=%q plan=%+v", base, theirs, ours, plan)
		require.Equal(t, tLen, len(base)+plan.PaddingLines(TargetBase),
			"base=%q theirs=%q ours=%q plan=%+v", base, theirs, ours, plan)

		for _, p := range plan.Padding {
			require.Positive(t, p.Lines)
			require.GreaterOrEqual(t, p.Row, 0)
		}
	}
}

func TestPlanTwoWay(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		padding  []PaddingInstruction
		targets  []Target
	}{
		{
			name:    "modified same size",
			old:     "a\nb\nc",
			new:     "a\nX\nc",
			targets: []Target{TargetOld, TargetNew},
		},
		{
			name:    "added",
			old:     "a\nb",
			new:     "a\nb\nc",
			padding: []PaddingInstruction{{Target: TargetOld, Row: 2, Lines: 1}},
			targets: []Target{TargetNew},
		},
		{
			name:    "deleted",
			old:     "a\nb\nc",
			new:     "a\nc",
			padding: []PaddingInstruction{{Target: TargetNew, Row: 1, Lines: 1}},
			targets: []Target{TargetOld},
		},
		{
			name:    "modified grows",
			old:     "a\nb\nc",
			new:     "a\nX\nY\nZ\nc",
			padding: []PaddingInstruction{{Target: TargetOld, Row: 2, Lines: 2}},
			targets: []Target{TargetOld, TargetNew},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old, updated := SplitLines(tt.old), SplitLines(tt.new)
			hunks, err := ComputeTwoWay(old, updated)
			require.NoError(t, err)

			plan, err := PlanTwoWay(hunks, len(old), len(updated))
			require.NoError(t, err)
			assert.Equal(t, tt.padding, plan.Padding)

			var targets []Target
			for _, h := range plan.Highlights {
				targets = append(targets, h.Target)
			}
			assert.Equal(t, tt.targets, targets)

			left := padded(old, plan.PaddingFor(TargetOld))
			right := padded(updated, plan.PaddingFor(TargetNew))
			assert.Len(t, left, len(right))
		})
	}
}

func TestPlanTwoWay_Invariant(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for iter := 0; iter < 300; iter++ {
		old := randomText(r, 20)
		updated := randomText(r, 20)
		hunks, err := ComputeTwoWay(old, updated)
		require.NoError(t, err)

		plan, err := PlanTwoWay(hunks, len(old), len(updated))
		require.NoError(t, err)

		left := padded(old, plan.PaddingFor(TargetOld))
		right := padded(updated, plan.PaddingFor(TargetNew))
		require.Len(t, left, len(right), "old=%q new=%q", old, updated)

		// Unchanged lines sit on the same visual row
		for _, op := range Diff(old, updated) {
			if op.Type != Equal {
				continue
			}
			for k := 0; k < op.AEnd-op.AStart; k++ {
				lrow := visualRow(op.AStart+k, plan.PaddingFor(TargetOld))
				rrow := visualRow(op.BStart+k, plan.PaddingFor(TargetNew))
				require.Equal(t, lrow, rrow, "old=%q new=%q", old, updated)
			}
		}
	}
}

func visualRow(row int, pads []PaddingInstruction) int {
	v := row
	for _, p := range pads {
		if p.Row <= row {
			v += p.Lines
		}
	}
	return v
}

func TestPlan_PaddingFor(t *testing.T) {
	plan := Plan{Padding: []PaddingInstruction{
		{Target: TargetOurs, Row: 5, Lines: 1},
		{Target: TargetBase, Row: 1, Lines: 2},
		{Target: TargetOurs, Row: 2, Lines: 3},
	}}
	assert.Equal(t, []PaddingInstruction{
		{Target: TargetOurs, Row: 2, Lines: 3},
		{Target: TargetOurs, Row: 5, Lines: 1},
	}, plan.PaddingFor(TargetOurs))
	assert.Equal(t, 4, plan.PaddingLines(TargetOurs))
	assert.Equal(t, 0, plan.PaddingLines(TargetTheirs))
	assert.Equal(t, "base", TargetBase.String())
}
