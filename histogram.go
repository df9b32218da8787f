package diffalign

import "strings"

// Histogram-style diff algorithm.
//
// This implements an approach similar to Git's histogram diff:
// 1. Count element frequencies in the A range
// 2. Find the lowest-frequency element that appears in both (the best anchor)
// 3. Extend the anchor to the full matching run and mark around it
// 4. Recursively apply to both sides of the run
// 5. Fall back to Myers when no good anchor exists
//
// This naturally avoids matching high-frequency lines such as blank lines or
// lone closing braces because they're never chosen as anchor points.
//
// References:
// - JGit HistogramDiff (Eclipse License)
// - raygard/hdiff (0BSD License)
// - Bram Cohen's patience diff concept

// maxChainLength is the maximum frequency for an element to be considered
// as an anchor. Elements appearing more than this are ignored.
const maxChainLength = 64

// isWeakAnchor reports whether a line carries too little content to anchor
// an alignment: blank lines and lines made only of brackets or punctuation.
// The Myers fallback still matches them.
func isWeakAnchor(e Element) bool {
	s, ok := lineText(e)
	if !ok {
		return false
	}
	return strings.Trim(s, "{}()[];,.") == ""
}

// histogram compares xvec[xoff:xlim] with yvec[yoff:ylim] by recursive
// anchoring and marks changes. Stretches with no anchor are compared with
// compareSeq.
func (ctx *diffContext) histogram(xoff, xlim, yoff, ylim int) {
	// Trim common prefix and suffix
	for xoff < xlim && yoff < ylim && ctx.equal(xoff, yoff) {
		xoff++
		yoff++
	}
	for xoff < xlim && yoff < ylim && ctx.equal(xlim-1, ylim-1) {
		xlim--
		ylim--
	}

	if xoff == xlim {
		ctx.markInserted(yoff, ylim)
		return
	}
	if yoff == ylim {
		ctx.markDeleted(xoff, xlim)
		return
	}

	ax, by, ok := ctx.findAnchor(xoff, xlim, yoff, ylim)
	if !ok {
		ctx.compareSeq(xoff, xlim, yoff, ylim, false)
		return
	}

	// Extend the match to the full matching region
	startX, startY := ax, by
	for startX > xoff && startY > yoff && ctx.equal(startX-1, startY-1) {
		startX--
		startY--
	}
	endX, endY := ax+1, by+1
	for endX < xlim && endY < ylim && ctx.equal(endX, endY) {
		endX++
		endY++
	}

	ctx.histogram(xoff, startX, yoff, startY)
	ctx.histogram(endX, xlim, endY, ylim)
}

// findAnchor picks the anchor pair for a range. Both frequency and position
// balance count: score = frequency * (1 + 2*positionImbalance), lower is
// better. Ties keep the earliest element of B, which keeps results
// deterministic.
func (ctx *diffContext) findAnchor(xoff, xlim, yoff, ylim int) (int, int, bool) {
	n := xlim - xoff
	m := ylim - yoff

	// hash -> indices in A
	aIndices := make(map[uint64][]int)
	for i := xoff; i < xlim; i++ {
		h := ctx.xvec[i].Hash()
		aIndices[h] = append(aIndices[h], i)
	}

	bestX, bestY := -1, -1
	bestScore := float64(maxChainLength+1) * 3 // Initialize to impossible value

	for j := yoff; j < ylim; j++ {
		e := ctx.yvec[j]
		if isWeakAnchor(e) {
			continue
		}
		candidates := aIndices[e.Hash()]
		freq := len(candidates)
		if freq == 0 || freq > maxChainLength {
			continue
		}

		// Pick the occurrence in A whose relative position is closest
		bRatio := float64(j-yoff) / float64(m)
		matchX := -1
		bestImbalance := 2.0
		for _, i := range candidates {
			// Verify hash collision
			if !ctx.equal(i, j) {
				continue
			}
			imbalance := float64(i-xoff)/float64(n) - bRatio
			if imbalance < 0 {
				imbalance = -imbalance
			}
			if imbalance < bestImbalance {
				bestImbalance = imbalance
				matchX = i
			}
		}
		if matchX < 0 {
			continue
		}

		score := float64(freq) * (1.0 + bestImbalance*2)
		if score < bestScore {
			bestScore = score
			bestX, bestY = matchX, j
		}
	}

	return bestX, bestY, bestX >= 0
}
