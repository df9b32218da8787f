package diffalign

import "hash/fnv"

// Element is a comparable unit of a diff input. Lines are the common case;
// other units may be diffed with DiffElements.
type Element interface {
	// Equal reports whether this element is equal to another.
	Equal(other Element) bool
	// Hash returns a hash value for this element.
	// Equal elements must have equal hashes.
	Hash() uint64
}

// Line is a single line of text without its terminator.
type Line string

// Equal reports whether l equals other.
// Returns false if other is not a Line.
func (l Line) Equal(other Element) bool {
	o, ok := other.(Line)
	return ok && l == o
}

// Hash returns a FNV-1a hash of the line.
func (l Line) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(l))
	return h.Sum64()
}

// toElements converts a slice of strings to a slice of Elements.
func toElements(lines []string) []Element {
	elems := make([]Element, len(lines))
	for i, s := range lines {
		elems[i] = Line(s)
	}
	return elems
}
