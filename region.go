package diffalign

import (
	"cmp"
	"slices"
)

// ConflictRegion is a base row range touched by pending hunks of one or both
// sides. TheirsHunks and OursHunks index the hunk lists the region was built
// from and are parallel to TheirsRanges and OursRanges.
type ConflictRegion struct {
	BaseStart    int
	BaseEnd      int
	TheirsRanges []Range
	OursRanges   []Range
	TheirsHunks  []int
	OursHunks    []int
}

// BaseRange returns the region's base rows.
func (r ConflictRegion) BaseRange() Range {
	return Range{r.BaseStart, r.BaseEnd}
}

// Conflicting reports whether both sides changed the region.
func (r ConflictRegion) Conflicting() bool {
	return len(r.TheirsHunks) > 0 && len(r.OursHunks) > 0
}

func (r *ConflictRegion) add(ev regionEvent) {
	switch ev.side {
	case SideTheirs:
		r.TheirsRanges = append(r.TheirsRanges, ev.source)
		r.TheirsHunks = append(r.TheirsHunks, ev.index)
	default:
		r.OursRanges = append(r.OursRanges, ev.source)
		r.OursHunks = append(r.OursHunks, ev.index)
	}
}

type regionEvent struct {
	base   Range
	source Range
	side   Side
	index  int
}

// MergeRegions groups the pending hunks of both sides into regions. Hunks
// whose base ranges overlap or touch end up in the same region, whichever
// side they come from. Events are ordered by base start, then base end, then
// theirs before ours, so the result does not depend on input interleaving.
func MergeRegions(theirs, ours []Hunk) ([]ConflictRegion, error) {
	var events []regionEvent
	collect := func(hunks []Hunk, side Side) error {
		for i, h := range hunks {
			if h.Status != Pending {
				continue
			}
			if err := h.BaseRows.Validate("MergeRegions"); err != nil {
				return err
			}
			if err := h.SourceRows.Validate("MergeRegions"); err != nil {
				return err
			}
			events = append(events, regionEvent{base: h.BaseRows, source: h.SourceRows, side: side, index: i})
		}
		return nil
	}
	if err := collect(theirs, SideTheirs); err != nil {
		return nil, err
	}
	if err := collect(ours, SideOurs); err != nil {
		return nil, err
	}

	slices.SortStableFunc(events, func(a, b regionEvent) int {
		return cmp.Or(
			cmp.Compare(a.base.Start, b.base.Start),
			cmp.Compare(a.base.End, b.base.End),
			cmp.Compare(a.side, b.side),
		)
	})

	var regions []ConflictRegion
	for _, ev := range events {
		if n := len(regions); n > 0 && ev.base.Start <= regions[n-1].BaseEnd {
			cur := &regions[n-1]
			cur.BaseEnd = max(cur.BaseEnd, ev.base.End)
			cur.add(ev)
			continue
		}
		r := ConflictRegion{BaseStart: ev.base.Start, BaseEnd: ev.base.End}
		r.add(ev)
		regions = append(regions, r)
	}
	return regions, nil
}
