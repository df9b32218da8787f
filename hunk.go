package diffalign

import (
	"fmt"
	"slices"
	"strings"
)

// Side tags which comparison a hunk came from.
type Side int

const (
	// SideNone marks hunks of a plain two-way comparison.
	SideNone Side = iota
	// SideTheirs marks hunks of the theirs-vs-base comparison.
	SideTheirs
	// SideOurs marks hunks of the ours-vs-base comparison.
	SideOurs
)

func (s Side) String() string {
	switch s {
	case SideNone:
		return "none"
	case SideTheirs:
		return "theirs"
	case SideOurs:
		return "ours"
	default:
		return "unknown"
	}
}

// Kind is the change kind of a hunk.
type Kind int

const (
	// Added lines exist only in the source text.
	Added Kind = iota
	// Deleted lines exist only in the base text.
	Deleted
	// Modified lines of the base were replaced.
	Modified
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Status is the resolution state of a hunk within one pass.
type Status int

const (
	// Pending hunks are awaiting a decision.
	Pending Status = iota
	// Accepted hunks have been written into the base.
	Accepted
	// Ignored hunks are kept for display but never applied.
	Ignored
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Accepted:
		return "accepted"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Range is a half-open row range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in r.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether r has no rows.
func (r Range) Empty() bool { return r.End == r.Start }

// Validate fails with an InputError when r is malformed.
func (r Range) Validate(op string) error {
	switch {
	case r.Start < 0:
		return &InputError{Op: op, Range: r, Reason: "negative start"}
	case r.Start > r.End:
		return &InputError{Op: op, Range: r, Reason: "start after end"}
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Hunk is one classified change between a base text and a source text.
// Hunks are recreated on every pass; indices into a hunk list are only
// meaningful within the pass that produced it.
type Hunk struct {
	Side       Side
	Kind       Kind
	SourceRows Range // rows in the non-base text
	BaseRows   Range // rows in the base text
	Text       string
	Lines      []string // replacement lines; Text is their "\n" join
	Status     Status
	// BaseLineCount is the base length the hunk was computed against.
	BaseLineCount int
}

// Delta is the net line count change the hunk makes to the base.
func (h Hunk) Delta() int {
	return h.SourceRows.Len() - h.BaseRows.Len()
}

// Classify turns diff operations into Pending hunks. newLines is the
// non-base input the ops were computed against; the replacement lines are
// copied out of it.
func Classify(ops []DiffOp, newLines []string, side Side, baseLineCount int) []Hunk {
	var hunks []Hunk
	for _, op := range ops {
		var h Hunk
		switch op.Type {
		case Equal:
			continue
		case Delete:
			h = Hunk{
				Kind:       Deleted,
				SourceRows: Range{op.BStart, op.BStart},
				BaseRows:   Range{op.AStart, op.AEnd},
			}
		case Insert:
			h = Hunk{
				Kind:       Added,
				SourceRows: Range{op.BStart, op.BEnd},
				BaseRows:   Range{op.AStart, op.AStart},
			}
		case Replace:
			h = Hunk{
				Kind:       Modified,
				SourceRows: Range{op.BStart, op.BEnd},
				BaseRows:   Range{op.AStart, op.AEnd},
			}
		}
		h.Side = side
		h.Status = Pending
		h.BaseLineCount = baseLineCount
		if !h.SourceRows.Empty() {
			h.Lines = slices.Clone(newLines[h.SourceRows.Start:h.SourceRows.End])
		}
		h.Text = strings.Join(h.Lines, "\n")
		hunks = append(hunks, h)
	}
	return hunks
}

func checkSize(o *options, inputs ...[]string) error {
	if o.maxLines <= 0 {
		return nil
	}
	for _, in := range inputs {
		if len(in) > o.maxLines {
			return fmt.Errorf("%d lines, limit %d: %w", len(in), o.maxLines, ErrInputTooLarge)
		}
	}
	return nil
}

// ComputeTwoWay diffs oldLines against newLines and returns the hunks
// untagged. Identical inputs yield no hunks.
func ComputeTwoWay(oldLines, newLines []string, opts ...Option) ([]Hunk, error) {
	o := buildOptions(opts)
	if err := checkSize(o, oldLines, newLines); err != nil {
		return nil, err
	}
	return computeSide(oldLines, newLines, SideNone, o), nil
}

// ComputeThreeWay diffs theirs and ours independently against base.
func ComputeThreeWay(base, theirs, ours []string, opts ...Option) ([]Hunk, []Hunk, error) {
	o := buildOptions(opts)
	if err := checkSize(o, base, theirs, ours); err != nil {
		return nil, nil, err
	}
	return computeSide(base, theirs, SideTheirs, o), computeSide(base, ours, SideOurs, o), nil
}

func computeSide(base, source []string, side Side, o *options) []Hunk {
	ops := diffElements(toElements(base), toElements(source), o)
	return Classify(ops, source, side, len(base))
}
