package diffalign

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
)

// Session is the merge state of one document. It owns the mutable base
// buffer and recomputes hunks, regions and the plan from scratch after every
// mutation. Hunk and region indices are only valid until the next mutation.
//
// A Session is not safe for concurrent use. A mutation issued while another
// is still running fails with ErrBusy.
type Session struct {
	base     Buffer
	sides    []*sideState
	threeWay bool
	opts     *options
	logger   *slog.Logger

	revision uint64
	pass     int
	regions  []ConflictRegion
	plan     Plan
	mappers  map[Side]*CoordinateMapper
	ignored  map[ignoreKey]struct{}

	busy atomic.Bool
}

type sideState struct {
	side  Side
	lines []string
	hunks []Hunk
}

// ignoreKey identifies a change by content so an ignore decision survives
// recomputation. Base rows are left out because earlier accepted edits move
// them.
type ignoreKey struct {
	side      Side
	source    Range
	lines     string
	lineCount int
	base      string
	baseSpan  int
}

func keyOf(h Hunk, baseLines []string) ignoreKey {
	covered := baseLines[h.BaseRows.Start:h.BaseRows.End]
	return ignoreKey{
		side:      h.Side,
		source:    h.SourceRows,
		lines:     strings.Join(h.Lines, "\n"),
		lineCount: len(h.Lines),
		base:      strings.Join(covered, "\n"),
		baseSpan:  len(covered),
	}
}

// NewThreeWaySession starts a merge of theirs and ours into base.
func NewThreeWaySession(base Buffer, theirs, ours []string, opts ...Option) (*Session, error) {
	s := newSession(base, opts)
	s.threeWay = true
	s.sides = []*sideState{
		{side: SideTheirs, lines: slices.Clone(theirs)},
		{side: SideOurs, lines: slices.Clone(ours)},
	}
	if err := s.recompute(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewTwoWaySession compares the mutable old buffer against newLines.
// Accepting a hunk copies the new side's change into old.
func NewTwoWaySession(old Buffer, newLines []string, opts ...Option) (*Session, error) {
	s := newSession(old, opts)
	s.sides = []*sideState{{side: SideNone, lines: slices.Clone(newLines)}}
	if err := s.recompute(); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(base Buffer, opts []Option) *Session {
	o := buildOptions(opts)
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		base:    base,
		opts:    o,
		logger:  logger,
		ignored: make(map[ignoreKey]struct{}),
	}
}

// Hunks returns a copy of the current hunks of side. Two-way sessions use
// SideNone.
func (s *Session) Hunks(side Side) []Hunk {
	st, err := s.state(side)
	if err != nil {
		return nil
	}
	return slices.Clone(st.hunks)
}

// Regions returns the conflict regions of the current pass. Two-way
// sessions have none.
func (s *Session) Regions() []ConflictRegion { return slices.Clone(s.regions) }

// Plan returns the alignment plan of the current pass.
func (s *Session) Plan() Plan { return s.plan }

// Pass counts recomputations, starting at 1 for the initial one.
func (s *Session) Pass() int { return s.pass }

// BaseLines returns the current base contents.
func (s *Session) BaseLines() []string { return ReadSnapshot(s.base) }

// SourceLines returns the immutable text of a side.
func (s *Session) SourceLines(side Side) []string {
	st, err := s.state(side)
	if err != nil {
		return nil
	}
	return slices.Clone(st.lines)
}

// Map projects a base row into the space of side for the current pass.
func (s *Session) Map(side Side, baseRow int) int {
	m, ok := s.mappers[side]
	if !ok {
		return baseRow
	}
	return m.Map(baseRow)
}

func (s *Session) state(side Side) (*sideState, error) {
	for _, st := range s.sides {
		if st.side == side {
			return st, nil
		}
	}
	return nil, fmt.Errorf("side %v: %w", side, ErrNoSuchHunk)
}

func (s *Session) hunk(side Side, i int) (*Hunk, error) {
	st, err := s.state(side)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(st.hunks) {
		return nil, fmt.Errorf("%v hunk %d of %d: %w", side, i, len(st.hunks), ErrNoSuchHunk)
	}
	return &st.hunks[i], nil
}

func (s *Session) region(r int) (ConflictRegion, error) {
	if r < 0 || r >= len(s.regions) {
		return ConflictRegion{}, fmt.Errorf("region %d of %d: %w", r, len(s.regions), ErrNoSuchRegion)
	}
	reg := s.regions[r]
	if s.base.Revision() != s.revision {
		return ConflictRegion{}, fmt.Errorf("region %v: %w", reg.BaseRange(), ErrStale)
	}
	return reg, nil
}

func (s *Session) begin() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (s *Session) end() { s.busy.Store(false) }

// checkFresh fails when the base buffer was edited outside the session
// since the last pass. Refresh recovers.
func (s *Session) checkFresh(h Hunk) error {
	if s.base.Revision() != s.revision {
		return &ApplyError{Hunk: h, Err: ErrStale}
	}
	return nil
}

// Refresh recomputes everything against the current base buffer. Use it
// after the buffer was edited outside the session.
func (s *Session) Refresh() error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	return s.recompute()
}

// Accept applies hunk i of side to the base buffer and recomputes.
func (s *Session) Accept(side Side, i int) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	h, err := s.hunk(side, i)
	if err != nil {
		return err
	}
	if err := s.checkFresh(*h); err != nil {
		return err
	}
	old := s.rows(h.BaseRows)
	if err := ApplyHunk(s.base, h); err != nil {
		return err
	}
	if err := s.recomputeOrRestore(h.BaseRows, old, len(h.Lines)); err != nil {
		h.Status = Pending
		return err
	}
	s.logger.Info("accepted hunk", "side", side, "kind", h.Kind, "base", h.BaseRows, "source", h.SourceRows)
	return nil
}

// Ignore marks hunk i of side as ignored and recomputes. The base buffer is
// not touched. The decision sticks to the change's content in later passes.
func (s *Session) Ignore(side Side, i int) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	h, err := s.hunk(side, i)
	if err != nil {
		return err
	}
	if h.Status != Pending {
		return &ApplyError{Hunk: *h, Err: ErrNotPending}
	}
	if err := s.checkFresh(*h); err != nil {
		return err
	}
	key := keyOf(*h, ReadSnapshot(s.base))
	_, known := s.ignored[key]
	h.Status = Ignored
	s.ignored[key] = struct{}{}
	if err := s.recompute(); err != nil {
		h.Status = Pending
		if !known {
			delete(s.ignored, key)
		}
		return err
	}
	s.logger.Info("ignored hunk", "side", side, "kind", h.Kind, "base", h.BaseRows, "source", h.SourceRows)
	return nil
}

// AcceptRegion replaces the base rows of region r with side's version of
// them.
func (s *Session) AcceptRegion(r int, side Side) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	reg, err := s.region(r)
	if err != nil {
		return err
	}
	lines, err := s.sideVersion(reg, side)
	if err != nil {
		return err
	}
	if err := s.replaceRegion(reg, lines); err != nil {
		return err
	}
	s.logger.Info("accepted region", "side", side, "base", reg.BaseRange())
	return nil
}

// AcceptBoth replaces the base rows of region r with ours' version followed
// by theirs'.
func (s *Session) AcceptBoth(r int) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	reg, err := s.region(r)
	if err != nil {
		return err
	}
	oursLines, err := s.sideVersion(reg, SideOurs)
	if err != nil {
		return err
	}
	theirsLines, err := s.sideVersion(reg, SideTheirs)
	if err != nil {
		return err
	}
	if err := s.replaceRegion(reg, append(oursLines, theirsLines...)); err != nil {
		return err
	}
	s.logger.Info("accepted both sides", "base", reg.BaseRange())
	return nil
}

// replaceRegion writes lines over the region's base rows and recomputes.
func (s *Session) replaceRegion(reg ConflictRegion, lines []string) error {
	r := reg.BaseRange()
	old := s.rows(r)
	if err := s.base.ReplaceLines(r, lines); err != nil {
		return err
	}
	return s.recomputeOrRestore(r, old, len(lines))
}

// rows copies the base rows in r, or returns nil when r does not fit the
// buffer.
func (s *Session) rows(r Range) []string {
	if r.Start < 0 || r.Start > r.End || r.End > s.base.LineCount() {
		return nil
	}
	out := make([]string, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		out = append(out, s.base.Line(i))
	}
	return out
}

// recomputeOrRestore finishes an edit that replaced r with written lines.
// When the recompute fails the old rows are put back and the previous pass
// stays current, so a failed mutation leaves no edit behind.
func (s *Session) recomputeOrRestore(r Range, old []string, written int) error {
	err := s.recompute()
	if err == nil {
		return nil
	}
	if rerr := s.base.ReplaceLines(Range{r.Start, r.Start + written}, old); rerr != nil {
		return errors.Join(err, fmt.Errorf("restoring base %v: %w", r, rerr))
	}
	s.revision = s.base.Revision()
	return err
}

// RegionLines returns the lines side shows for region r: the region's base
// rows with the side's hunks substituted.
func (s *Session) RegionLines(r int, side Side) ([]string, error) {
	reg, err := s.region(r)
	if err != nil {
		return nil, err
	}
	return s.sideVersion(reg, side)
}

func (s *Session) sideVersion(reg ConflictRegion, side Side) ([]string, error) {
	st, err := s.state(side)
	if err != nil {
		return nil, err
	}
	idx := reg.TheirsHunks
	if side == SideOurs {
		idx = reg.OursHunks
	}
	base := ReadSnapshot(s.base)
	var out []string
	cursor := reg.BaseStart
	for _, i := range idx {
		h := st.hunks[i]
		out = append(out, base[cursor:h.BaseRows.Start]...)
		out = append(out, h.Lines...)
		cursor = h.BaseRows.End
	}
	out = append(out, base[cursor:reg.BaseEnd]...)
	return out, nil
}

// Resolved fails with ErrUnresolved while any hunk is pending.
func (s *Session) Resolved() error {
	pending := 0
	for _, st := range s.sides {
		for _, h := range st.hunks {
			if h.Status == Pending {
				pending++
			}
		}
	}
	if pending > 0 {
		return fmt.Errorf("%d pending hunks: %w", pending, ErrUnresolved)
	}
	return nil
}

// recompute rebuilds every derived structure from the current buffers.
// Results are committed only once every step succeeded.
func (s *Session) recompute() error {
	base := ReadSnapshot(s.base)
	inputs := [][]string{base}
	for _, st := range s.sides {
		inputs = append(inputs, st.lines)
	}
	if err := checkSize(s.opts, inputs...); err != nil {
		return err
	}

	hunks := make([][]Hunk, len(s.sides))
	mappers := make(map[Side]*CoordinateMapper, len(s.sides))
	for i, st := range s.sides {
		hs := computeSide(base, st.lines, st.side, s.opts)
		for j := range hs {
			if _, ok := s.ignored[keyOf(hs[j], base)]; ok {
				hs[j].Status = Ignored
			}
		}
		m, err := NewCoordinateMapper(hs)
		if err != nil {
			return err
		}
		hunks[i] = hs
		mappers[st.side] = m
	}

	var (
		regions []ConflictRegion
		plan    Plan
		err     error
	)
	if s.threeWay {
		if regions, err = MergeRegions(hunks[0], hunks[1]); err != nil {
			return err
		}
		if plan, err = PlanAlignment(regions, hunks[0], hunks[1], len(base)); err != nil {
			return err
		}
	} else if plan, err = PlanTwoWay(hunks[0], len(base), len(s.sides[0].lines)); err != nil {
		return err
	}

	for i, st := range s.sides {
		st.hunks = hunks[i]
	}
	s.regions = regions
	s.plan = plan
	s.mappers = mappers
	s.revision = s.base.Revision()
	s.pass++
	s.logger.Debug("recomputed",
		"pass", s.pass,
		"hunks", s.hunkCount(),
		"regions", len(s.regions),
		"padding", len(s.plan.Padding),
	)
	return nil
}

func (s *Session) hunkCount() int {
	n := 0
	for _, st := range s.sides {
		n += len(st.hunks)
	}
	return n
}
