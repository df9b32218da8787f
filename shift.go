package diffalign

import "strings"

// Boundary shifting preferences (higher = more preferred)
const (
	// blankLineBonus is the score bonus for keeping a blank line as a separator
	blankLineBonus = 10
	// startOfLineBonus is added when a change starts at the beginning of content
	startOfLineBonus = 3
	// endOfLineBonus is added when a change ends at the end of content
	endOfLineBonus = 3
	// punctuationBonus is added when boundary is at punctuation
	punctuationBonus = 2
)

// shiftBoundaries slides runs of changed elements for readability. A run
// [s,e) can move up by one when elems[s-1] equals elems[e-1], and down by
// one when elems[s] equals elems[e]; either move keeps the unchanged
// elements pairwise equal, so the diff stays valid. Among the reachable
// placements the one with the best boundary score wins, ties keep the
// original placement. Runs never slide into a neighboring run.
func (ctx *diffContext) shiftBoundaries() {
	shiftRuns(ctx.xvec, ctx.xchanges)
	shiftRuns(ctx.yvec, ctx.ychanges)
}

func shiftRuns(elems []Element, changed []bool) {
	n := len(elems)
	i := 0
	for i < n {
		if !changed[i] {
			i++
			continue
		}
		start := i
		for i < n && changed[i] {
			i++
		}
		end := i

		// How far the run can slide without touching another run
		up := 0
		for s, e := start-up, end-up; s-1 >= 0 && !changed[s-1] && (s-2 < 0 || !changed[s-2]) && elems[s-1].Equal(elems[e-1]); s, e = s-1, e-1 {
			up++
		}
		down := 0
		for s, e := start+down, end+down; e < n && !changed[e] && (e+1 >= n || !changed[e+1]) && elems[s].Equal(elems[e]); s, e = s+1, e+1 {
			down++
		}
		if up == 0 && down == 0 {
			continue
		}

		bestShift := 0
		bestScore := scoreBoundary(start, end, elems)
		for shift := -up; shift <= down; shift++ {
			if shift == 0 {
				continue
			}
			if score := scoreBoundary(start+shift, end+shift, elems); score > bestScore {
				bestScore = score
				bestShift = shift
			}
		}
		if bestShift == 0 {
			continue
		}

		for k := start; k < end; k++ {
			changed[k] = false
		}
		for k := start + bestShift; k < end+bestShift; k++ {
			changed[k] = true
		}
		// Resume after the moved run; a downward move never reaches the next run.
		if bestShift > 0 {
			i = end + bestShift
		}
	}
}

// scoreBoundary scores a boundary position based on readability heuristics.
// Higher scores indicate better boundary positions.
func scoreBoundary(start, end int, elems []Element) int {
	score := 0

	// Bonus for blank line before the change region
	if start > 0 && isBlank(elems[start-1]) {
		score += blankLineBonus
	}

	// Bonus for blank line after the change region
	if end < len(elems) && isBlank(elems[end]) {
		score += blankLineBonus
	}

	// Bonus for starting at beginning of sequence
	if start == 0 {
		score += startOfLineBonus
	}

	// Bonus for ending at end of sequence
	if end == len(elems) {
		score += endOfLineBonus
	}

	// Check for punctuation boundaries
	if start > 0 && endsWithPunctuation(elems[start-1]) {
		score += punctuationBonus
	}
	if end < len(elems) && startsWithPunctuation(elems[end]) {
		score += punctuationBonus
	}

	return score
}

func lineText(e Element) (string, bool) {
	l, ok := e.(Line)
	return strings.TrimSpace(string(l)), ok
}

// isBlank checks if an element represents blank/whitespace content.
func isBlank(e Element) bool {
	s, ok := lineText(e)
	return ok && s == ""
}

// endsWithPunctuation checks if an element ends with sentence punctuation
// or a block opener.
func endsWithPunctuation(e Element) bool {
	s, ok := lineText(e)
	if !ok || s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ':', ';', '{':
		return true
	}
	return false
}

// startsWithPunctuation checks if an element starts with a list, heading,
// quote or block-closing marker.
func startsWithPunctuation(e Element) bool {
	s, ok := lineText(e)
	if !ok || s == "" {
		return false
	}
	switch s[0] {
	case '-', '*', '#', '>', '}':
		return true
	}
	return false
}
