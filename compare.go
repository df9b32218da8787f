package diffalign

import "fmt"

// compareSeq is the divide-and-conquer core of the Myers diff algorithm.
// It compares xvec[xoff:xlim] with yvec[yoff:ylim] and marks changes
// in xchanges and ychanges.
//
// Parameters:
//   - xoff, xlim: bounds in xvec [xoff, xlim)
//   - yoff, ylim: bounds in yvec [yoff, ylim)
//   - findMinimal: if true, find the truly minimal edit script
func (ctx *diffContext) compareSeq(xoff, xlim, yoff, ylim int, findMinimal bool) {
	// 1. Trim matching elements from the start
	for xoff < xlim && yoff < ylim && ctx.equal(xoff, yoff) {
		xoff++
		yoff++
	}

	// 2. Trim matching elements from the end
	for xoff < xlim && yoff < ylim && ctx.equal(xlim-1, ylim-1) {
		xlim--
		ylim--
	}

	// 3. Base cases: one sequence is empty
	if xoff == xlim {
		ctx.markInserted(yoff, ylim)
		return
	}
	if yoff == ylim {
		ctx.markDeleted(xoff, xlim)
		return
	}

	// 4. Find the middle snake (split point)
	part := ctx.findMiddleSnake(xoff, xlim, yoff, ylim, findMinimal)
	if !part.splits(xoff, xlim, yoff, ylim) {
		part = greedyPartition(xoff, yoff, xlim-xoff)
	}

	// 5. Recurse on both halves
	ctx.compareSeq(xoff, part.xmid, yoff, part.ymid, part.loMinimal)
	ctx.compareSeq(part.xmid, xlim, part.ymid, ylim, part.hiMinimal)
}

// changeRegion is a stretch of marks between two aligned unchanged
// elements: xvec[xs:xe] is replaced by yvec[ys:ye].
type changeRegion struct {
	xs, xe, ys, ye int
}

// changeRegions lists the regions the current marks describe, in order.
func (ctx *diffContext) changeRegions() []changeRegion {
	var regions []changeRegion
	n, m := len(ctx.xvec), len(ctx.yvec)
	i, j := 0, 0
	for i < n || j < m {
		for i < n && j < m && !ctx.xchanges[i] && !ctx.ychanges[j] {
			i++
			j++
		}
		r := changeRegion{xs: i, ys: j}
		for i < n && ctx.xchanges[i] {
			i++
		}
		for j < m && ctx.ychanges[j] {
			j++
		}
		if i == r.xs && j == r.ys {
			break
		}
		r.xe, r.ye = i, j
		regions = append(regions, r)
	}
	return regions
}

// refine searches each change region again. The filter marks every
// discarded element as changed, so a region can still hold elements that
// match the other side.
func (ctx *diffContext) refine(findMinimal bool) {
	for _, r := range ctx.changeRegions() {
		if r.xs == r.xe || r.ys == r.ye {
			continue
		}
		clear(ctx.xchanges[r.xs:r.xe])
		clear(ctx.ychanges[r.ys:r.ye])
		ctx.compareSeq(r.xs, r.xe, r.ys, r.ye, findMinimal)
	}
}

// trimRegions unmarks equal elements at both ends of every change region,
// so no Replace starts or ends with a line that did not change.
func (ctx *diffContext) trimRegions() {
	for _, r := range ctx.changeRegions() {
		for r.xs < r.xe && r.ys < r.ye && ctx.equal(r.xs, r.ys) {
			ctx.xchanges[r.xs], ctx.ychanges[r.ys] = false, false
			r.xs++
			r.ys++
		}
		for r.xs < r.xe && r.ys < r.ye && ctx.equal(r.xe-1, r.ye-1) {
			ctx.xchanges[r.xe-1], ctx.ychanges[r.ye-1] = false, false
			r.xe--
			r.ye--
		}
	}
}

// buildOps converts the change marks into a sequence of DiffOp.
// It walks through both sequences and groups consecutive changes; a run of
// deletions immediately followed by a run of insertions becomes a Replace.
func (ctx *diffContext) buildOps() []DiffOp {
	var ops []DiffOp
	n := len(ctx.xvec)
	m := len(ctx.yvec)
	i, j := 0, 0

	for i < n || j < m {
		// Find equal prefix
		eqStart := i
		eqJStart := j
		for i < n && j < m && !ctx.xchanges[i] && !ctx.ychanges[j] {
			i++
			j++
		}
		if i > eqStart {
			ops = append(ops, DiffOp{
				Type:   Equal,
				AStart: eqStart,
				AEnd:   i,
				BStart: eqJStart,
				BEnd:   j,
			})
		}

		// Find deletions (changed in x)
		delStart := i
		for i < n && ctx.xchanges[i] {
			i++
		}

		// Find insertions (changed in y)
		insStart := j
		for j < m && ctx.ychanges[j] {
			j++
		}

		switch {
		case i > delStart && j > insStart:
			ops = append(ops, DiffOp{Type: Replace, AStart: delStart, AEnd: i, BStart: insStart, BEnd: j})
		case i > delStart:
			ops = append(ops, DiffOp{Type: Delete, AStart: delStart, AEnd: i, BStart: j, BEnd: j})
		case j > insStart:
			ops = append(ops, DiffOp{Type: Insert, AStart: i, AEnd: i, BStart: insStart, BEnd: j})
		case i == eqStart && j == eqJStart:
			// Unmatched unmarked elements on one side only; the marks are
			// inconsistent and looping would never terminate.
			panic(fmt.Errorf("buildOps: stuck at a=%d b=%d", i, j))
		}
	}

	return ops
}

// validateOps checks that ops partition [0,n) and [0,m) in order and that
// every op's ranges agree with its type.
func validateOps(ops []DiffOp, n, m int) error {
	a, b := 0, 0
	for idx, op := range ops {
		if op.AStart != a || op.BStart != b {
			return fmt.Errorf("validateOps: op %d (%v) starts at a=%d b=%d, want a=%d b=%d", idx, op.Type, op.AStart, op.BStart, a, b)
		}
		la, lb := op.AEnd-op.AStart, op.BEnd-op.BStart
		if la < 0 || lb < 0 {
			return fmt.Errorf("validateOps: op %d has negative length", idx)
		}
		var ok bool
		switch op.Type {
		case Equal:
			ok = la == lb && la > 0
		case Delete:
			ok = la > 0 && lb == 0
		case Insert:
			ok = la == 0 && lb > 0
		case Replace:
			ok = la > 0 && lb > 0
		}
		if !ok {
			return fmt.Errorf("validateOps: op %d (%v) has lengths a=%d b=%d", idx, op.Type, la, lb)
		}
		a, b = op.AEnd, op.BEnd
	}
	if a != n || b != m {
		return fmt.Errorf("validateOps: ops end at a=%d b=%d, want a=%d b=%d", a, b, n, m)
	}
	return nil
}

// splits reports whether p lies inside the rectangle and is not one of its
// corners, so both recursive halves are strictly smaller.
func (p partition) splits(xoff, xlim, yoff, ylim int) bool {
	if p.xmid < xoff || p.xmid > xlim || p.ymid < yoff || p.ymid > ylim {
		return false
	}
	if p.xmid == xoff && p.ymid == yoff {
		return false
	}
	return p.xmid != xlim || p.ymid != ylim
}
