package diffalign

// Preprocessing implementation based on concepts from:
// - Neil Fraser's "Diff Strategies" (https://neil.fraser.name/writing/diff/)
//   Describes filtering high-frequency elements that make poor alignment anchors.
// - GNU diff's discard_confusing_lines: discarded lines are marked changed
//   before the search, so the search result never has to be remapped.

// filteredInput holds the sequences left after filtering and the original
// index of every surviving element.
type filteredInput struct {
	a, b    []Element
	aToOrig []int // filtered A index -> original A index
	bToOrig []int // filtered B index -> original B index
}

// transferMarks copies the change marks computed on the filtered sequences
// back to the full context. Every discarded element is a change.
func (f *filteredInput) transferMarks(sub, full *diffContext) {
	for i := range full.xchanges {
		full.xchanges[i] = true
	}
	for i := range full.ychanges {
		full.ychanges[i] = true
	}
	for fi, oi := range f.aToOrig {
		full.xchanges[oi] = sub.xchanges[fi]
	}
	for fi, oi := range f.bToOrig {
		full.ychanges[oi] = sub.ychanges[fi]
	}
}

// elementClass indicates how an element should be treated during filtering.
type elementClass int

const (
	// keep: useful as anchor (reasonable frequency in both sequences)
	keep elementClass = iota
	// discard: definitely changed (no matches in other sequence)
	discard
	// provisional: high frequency, poor anchor but keep at boundaries
	provisional
)

// filterConfusingElements removes elements that cannot or should not anchor
// the alignment. It returns nil when filtering would not help.
//
// The algorithm:
// 1. Count element frequencies in both sequences
// 2. Classify elements as keep/discard/provisional
// 3. Drop discards, and provisionals that do not touch a kept element
func filterConfusingElements(a, b []Element) *filteredInput {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	aFreq := make(map[uint64]int)
	bFreq := make(map[uint64]int)
	for _, e := range a {
		aFreq[e.Hash()]++
	}
	for _, e := range b {
		bFreq[e.Hash()]++
	}

	// Elements appearing more than this are poor anchors
	threshold := 5 + (len(a)+len(b))/64
	if threshold < 8 {
		threshold = 8
	}

	aClass := classify(a, aFreq, bFreq, threshold)
	bClass := classify(b, bFreq, aFreq, threshold)

	// If most elements would be kept, skip filtering
	keepCount := countClass(aClass, keep) + countClass(bClass, keep)
	if keepCount > (len(a)+len(b))*3/4 {
		return nil
	}

	filteredA, aToOrig := filterSequence(a, aClass)
	filteredB, bToOrig := filterSequence(b, bClass)

	if len(filteredA) == len(a) && len(filteredB) == len(b) {
		return nil
	}

	return &filteredInput{a: filteredA, b: filteredB, aToOrig: aToOrig, bToOrig: bToOrig}
}

// classify assigns a class to each element of seq. Hash collisions can only
// make an element look matchable; they never discard a real match.
func classify(seq []Element, own, other map[uint64]int, threshold int) []elementClass {
	classes := make([]elementClass, len(seq))
	for i, e := range seq {
		h := e.Hash()
		switch {
		case other[h] == 0:
			classes[i] = discard
		case own[h]+other[h] > threshold:
			classes[i] = provisional
		default:
			classes[i] = keep
		}
	}
	return classes
}

func countClass(classes []elementClass, c elementClass) int {
	n := 0
	for _, got := range classes {
		if got == c {
			n++
		}
	}
	return n
}

// filterSequence filters a sequence based on element classes.
// Provisional elements are kept only next to a kept element.
func filterSequence(elems []Element, classes []elementClass) ([]Element, []int) {
	result := make([]Element, 0, len(elems))
	toOrig := make([]int, 0, len(elems))

	for i, class := range classes {
		switch class {
		case keep:
			result = append(result, elems[i])
			toOrig = append(toOrig, i)
		case provisional:
			prevKeep := i > 0 && classes[i-1] == keep
			nextKeep := i < len(classes)-1 && classes[i+1] == keep
			if prevKeep || nextKeep {
				result = append(result, elems[i])
				toOrig = append(toOrig, i)
			}
		}
	}

	return result, toOrig
}
