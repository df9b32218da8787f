package diffalign

// findMiddleSnake implements the bidirectional search from Myers 1986
// Section 4b: a forward search from (0,0) and a backward search from (n,m)
// advance one edit at a time until their furthest-reaching paths overlap.
// The overlap is the split point for divide-and-conquer.
//
// Algorithm source: Myers 1986, "An O(ND) Difference Algorithm and Its Variations"
// http://www.xmailserver.org/diff2.pdf
//
// Diagonal bookkeeping follows the bisection in Neil Fraser's
// "Diff Strategies": diagonals that run off the edit graph shrink the
// explored band instead of being clamped, and the backward search works in
// reversed coordinates so both arrays share one layout.
//
// Parameters:
//   - xoff, xlim: bounds in xvec [xoff, xlim)
//   - yoff, ylim: bounds in yvec [yoff, ylim)
//   - findMinimal: if true, ignore the cost limit
//
// Callers must have trimmed the common prefix and suffix, and both ranges
// must be non-empty. The returned split is never (xoff,yoff) or (xlim,ylim).
func (ctx *diffContext) findMiddleSnake(xoff, xlim, yoff, ylim int, findMinimal bool) partition {
	n := xlim - xoff
	m := ylim - yoff

	maxD := (n + m + 1) / 2
	voff := maxD + 1
	vlen := 2*maxD + 3

	fdiag := ctx.fdiag[:vlen]
	bdiag := ctx.bdiag[:vlen]
	for i := range fdiag {
		fdiag[i] = -1
		bdiag[i] = -1
	}
	fdiag[voff+1] = 0
	bdiag[voff+1] = 0

	// Delta is the difference in sequence lengths. When it is odd the
	// paths can only meet on a forward step, otherwise on a backward one.
	delta := n - m
	front := delta&1 != 0

	// Band trimming for diagonals that left the graph.
	var fkStart, fkEnd, bkStart, bkEnd int

	costLimit := maxD
	if ctx.useHeuristic && !findMinimal && ctx.costLimit > 0 && ctx.costLimit < costLimit {
		costLimit = ctx.costLimit
	}

	for d := 0; d <= maxD; d++ {
		if d > costLimit {
			return ctx.bestForwardPartition(fdiag, voff, d-1, xoff, yoff, n, m)
		}

		// Forward search
		for k := -d + fkStart; k <= d-fkEnd; k += 2 {
			ki := voff + k

			var x int
			if k == -d || (k != d && fdiag[ki-1] < fdiag[ki+1]) {
				x = fdiag[ki+1] // From k+1, moving down (insertion)
			} else {
				x = fdiag[ki-1] + 1 // From k-1, moving right (deletion)
			}
			y := x - k

			// Follow diagonal (matching elements)
			for x < n && y < m && ctx.equal(xoff+x, yoff+y) {
				x++
				y++
			}
			fdiag[ki] = x

			switch {
			case x > n:
				fkEnd += 2
			case y > m:
				fkStart += 2
			case front:
				bi := voff + delta - k
				if bi >= 0 && bi < vlen && bdiag[bi] != -1 && x >= n-bdiag[bi] {
					return partition{xmid: xoff + x, ymid: yoff + y, loMinimal: findMinimal, hiMinimal: findMinimal}
				}
			}
		}

		// Backward search, in coordinates measured from (n,m)
		for k := -d + bkStart; k <= d-bkEnd; k += 2 {
			ki := voff + k

			var x int
			if k == -d || (k != d && bdiag[ki-1] < bdiag[ki+1]) {
				x = bdiag[ki+1]
			} else {
				x = bdiag[ki-1] + 1
			}
			y := x - k

			// Follow diagonal backward
			for x < n && y < m && ctx.equal(xoff+n-x-1, yoff+m-y-1) {
				x++
				y++
			}
			bdiag[ki] = x

			switch {
			case x > n:
				bkEnd += 2
			case y > m:
				bkStart += 2
			case !front:
				fi := voff + delta - k
				if fi >= 0 && fi < vlen && fdiag[fi] != -1 {
					fx := fdiag[fi]
					fy := fx - (fi - voff)
					if fx <= n && fy >= 0 && fy <= m && fx >= n-x {
						return partition{xmid: xoff + fx, ymid: yoff + fy, loMinimal: findMinimal, hiMinimal: findMinimal}
					}
				}
			}
		}
	}

	// No overlap: nothing in common, delete everything then insert everything.
	return partition{xmid: xlim, ymid: yoff, loMinimal: findMinimal, hiMinimal: findMinimal}
}

// bestForwardPartition picks the forward point of step d that got furthest
// along the edit graph. Used when the cost limit cuts the search short; the
// halves are then searched again under the same limit.
func (ctx *diffContext) bestForwardPartition(fdiag []int, voff, d, xoff, yoff, n, m int) partition {
	bestX, bestY := -1, -1
	for k := -d; k <= d; k += 2 {
		x := fdiag[voff+k]
		if x < 0 {
			continue
		}
		y := x - k
		if x > n || y < 0 || y > m {
			continue
		}
		if x+y > bestX+bestY {
			bestX, bestY = x, y
		}
	}

	if bestX < 0 || (bestX == 0 && bestY == 0) || (bestX == n && bestY == m) {
		return greedyPartition(xoff, yoff, n)
	}
	return partition{xmid: xoff + bestX, ymid: yoff + bestY}
}

// greedyPartition provides a split that guarantees progress: one deletion.
func greedyPartition(xoff, yoff, n int) partition {
	if n > 0 {
		return partition{xmid: xoff + 1, ymid: yoff}
	}
	return partition{xmid: xoff, ymid: yoff + 1}
}
