package diffalign

import "math"

// minCostLimit is the smallest automatic cost limit. Below it the search
// gives up too early on ordinary files.
const minCostLimit = 256

// partition holds the result from findMiddleSnake().
// It represents the midpoint where the edit path can be split.
type partition struct {
	xmid, ymid int  // midpoint coordinates in the edit graph
	loMinimal  bool // whether lower half needs minimal search
	hiMinimal  bool // whether upper half needs minimal search
}

// diffContext holds algorithm state during comparison.
type diffContext struct {
	xvec, yvec   []Element // sequences being compared
	fdiag, bdiag []int     // forward/backward furthest-reaching x per diagonal
	xchanges     []bool    // marks changed elements in xvec
	ychanges     []bool    // marks changed elements in yvec
	useHeuristic bool      // enable speed heuristics
	costLimit    int       // max cost before early termination
}

// newDiffContext creates a new context for comparing two sequences.
func newDiffContext(a, b []Element, opts *options) *diffContext {
	n := len(a)
	m := len(b)

	// The bisection search for any subproblem explores at most
	// (n+m+1)/2 diagonals on each side of its origin, plus one guard slot
	// at each end.
	diagSize := 2*((n+m+1)/2) + 3

	ctx := &diffContext{
		xvec:         a,
		yvec:         b,
		fdiag:        make([]int, diagSize),
		bdiag:        make([]int, diagSize),
		xchanges:     make([]bool, n),
		ychanges:     make([]bool, m),
		useHeuristic: opts.useHeuristic && !opts.forceMinimal,
		costLimit:    opts.costLimit,
	}

	// Unset cost limit: sqrt(n) * sqrt(m) / 4, floored at minCostLimit.
	if ctx.costLimit == 0 && ctx.useHeuristic {
		ctx.costLimit = max(int(math.Sqrt(float64(n))*math.Sqrt(float64(m))/4), minCostLimit)
	}

	return ctx
}

// markDeleted marks elements in xvec[xoff:xlim] as deleted.
func (ctx *diffContext) markDeleted(xoff, xlim int) {
	for i := xoff; i < xlim; i++ {
		ctx.xchanges[i] = true
	}
}

// markInserted marks elements in yvec[yoff:ylim] as inserted.
func (ctx *diffContext) markInserted(yoff, ylim int) {
	for i := yoff; i < ylim; i++ {
		ctx.ychanges[i] = true
	}
}

// equal reports whether xvec[i] equals yvec[j].
func (ctx *diffContext) equal(i, j int) bool {
	return ctx.xvec[i].Equal(ctx.yvec[j])
}
