package diffalign

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// ChangeOffset records that the edit starting at BaseRow changes the line
// count of a derived space by Delta.
type ChangeOffset struct {
	BaseRow uint32
	Delta   int32
}

// CoordinateMapper projects base rows into one derived space.
type CoordinateMapper struct {
	offsets []ChangeOffset
}

// NewCoordinateMapper builds a mapper from the hunks of one side of the
// current pass. Every hunk contributes, whatever its status: the derived
// text still holds ignored changes.
func NewCoordinateMapper(hunks []Hunk) (*CoordinateMapper, error) {
	offsets := make([]ChangeOffset, 0, len(hunks))
	for _, h := range hunks {
		if err := h.BaseRows.Validate("NewCoordinateMapper"); err != nil {
			return nil, err
		}
		row, err := safecast.Conv[uint32](h.BaseRows.Start)
		if err != nil {
			return nil, &InputError{Op: "NewCoordinateMapper", Range: h.BaseRows, Reason: err.Error()}
		}
		delta, err := safecast.Conv[int32](h.Delta())
		if err != nil {
			return nil, &InputError{Op: "NewCoordinateMapper", Range: h.BaseRows, Reason: fmt.Sprintf("delta: %v", err)}
		}
		offsets = append(offsets, ChangeOffset{BaseRow: row, Delta: delta})
	}
	slices.SortStableFunc(offsets, func(a, b ChangeOffset) int {
		switch {
		case a.BaseRow < b.BaseRow:
			return -1
		case a.BaseRow > b.BaseRow:
			return 1
		}
		return 0
	})
	return &CoordinateMapper{offsets: offsets}, nil
}

// Offsets returns a copy of the sorted offsets.
func (m *CoordinateMapper) Offsets() []ChangeOffset {
	return slices.Clone(m.offsets)
}

// Map returns the derived-space row for a base row: the row plus the deltas
// of every edit starting at or before it. A row inside a shrinking edit maps
// no earlier than that edit's projected start, so Map never decreases.
func (m *CoordinateMapper) Map(baseRow int) int {
	shift := 0
	floor := 0
	for _, off := range m.offsets {
		start := int(off.BaseRow)
		if start > baseRow {
			break
		}
		if off.Delta < 0 {
			floor = start + shift
		}
		shift += int(off.Delta)
	}
	return max(baseRow+shift, floor, 0)
}
