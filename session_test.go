package diffalign

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThreeWay(t *testing.T, base, theirs, ours string, opts ...Option) (*Session, *LineBuffer) {
	t.Helper()
	buf := NewLineBuffer(SplitLines(base))
	s, err := NewThreeWaySession(buf, SplitLines(theirs), SplitLines(ours), opts...)
	require.NoError(t, err)
	return s, buf
}

func TestSession_AcceptBothSides(t *testing.T) {
	s, buf := newThreeWay(t, "1\n2\n3", "1\nT\n3", "1\n2\n3\nO")
	assert.Equal(t, 1, s.Pass())
	require.Len(t, s.Regions(), 2)
	assert.Equal(t, 4, s.Map(SideOurs, 3))
	assert.Equal(t, 2, s.Map(SideNone, 2))

	require.NoError(t, s.Accept(SideOurs, 0))
	assert.Equal(t, []string{"1", "2", "3", "O"}, buf.Lines())
	assert.Empty(t, s.Hunks(SideOurs))

	// theirs now also lacks ours' trailing line
	th := s.Hunks(SideTheirs)
	require.Len(t, th, 2)
	assert.Equal(t, Modified, th[0].Kind)
	assert.Equal(t, Deleted, th[1].Kind)

	require.NoError(t, s.Accept(SideTheirs, 0))
	assert.Equal(t, []string{"1", "T", "3", "O"}, s.BaseLines())
	assert.Equal(t, 3, s.Pass())
	require.ErrorIs(t, s.Resolved(), ErrUnresolved)

	assert.Equal(t, []string{"1", "T", "3"}, s.SourceLines(SideTheirs))
	assert.Nil(t, s.SourceLines(SideNone))
}

func TestSession_IgnoreSurvivesAccept(t *testing.T) {
	s, buf := newThreeWay(t, "a\nb\nc\nd\ne", "a\nX\nb\nc\nd\ne", "a\nb\nc\nD\ne")

	require.NoError(t, s.Ignore(SideOurs, 0))
	assert.Equal(t, Ignored, s.Hunks(SideOurs)[0].Status)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, buf.Lines())

	err := s.Ignore(SideOurs, 0)
	require.ErrorIs(t, err, ErrNotPending)
	require.ErrorIs(t, s.Accept(SideOurs, 0), ErrNotPending)

	// Accepting theirs moves ours' change down a row
	require.NoError(t, s.Accept(SideTheirs, 0))
	ours := s.Hunks(SideOurs)
	require.Len(t, ours, 2)
	assert.Equal(t, Deleted, ours[0].Kind)
	assert.Equal(t, Pending, ours[0].Status)
	assert.Equal(t, Range{4, 5}, ours[1].BaseRows)
	assert.Equal(t, Ignored, ours[1].Status)

	// Ignored hunks never open a region
	for _, r := range s.Regions() {
		assert.NotContains(t, r.OursHunks, 1)
	}

	require.NoError(t, s.Ignore(SideOurs, 0))
	require.NoError(t, s.Resolved())
}

func TestSession_AcceptRegion(t *testing.T) {
	const base, theirs, ours = "a\nb\nc\nd", "a\nT1\nT2\nT3\nd", "a\nO\nd"

	t.Run("theirs", func(t *testing.T) {
		s, buf := newThreeWay(t, base, theirs, ours)
		require.Len(t, s.Regions(), 1)
		require.NoError(t, s.AcceptRegion(0, SideTheirs))
		assert.Equal(t, SplitLines(theirs), buf.Lines())
		assert.Empty(t, s.Hunks(SideTheirs))
		require.Len(t, s.Hunks(SideOurs), 1)
		assert.Equal(t, Range{1, 4}, s.Hunks(SideOurs)[0].BaseRows)
	})
	t.Run("ours", func(t *testing.T) {
		s, buf := newThreeWay(t, base, theirs, ours)
		require.NoError(t, s.AcceptRegion(0, SideOurs))
		assert.Equal(t, SplitLines(ours), buf.Lines())
	})
	t.Run("both", func(t *testing.T) {
		s, buf := newThreeWay(t, base, theirs, ours)
		require.NoError(t, s.AcceptBoth(0))
		assert.Equal(t, []string{"a", "O", "T1", "T2", "T3", "d"}, buf.Lines())
	})
	t.Run("partial", func(t *testing.T) {
		// ours only touches the first row of a region theirs widens
		s, buf := newThreeWay(t, "a\nb\nc\nd\ne", "a\nX\ne", "a\nB\nc\nd\ne")
		require.Len(t, s.Regions(), 1)
		require.NoError(t, s.AcceptRegion(0, SideOurs))
		assert.Equal(t, []string{"a", "B", "c", "d", "e"}, buf.Lines())
	})
}

func TestSession_Errors(t *testing.T) {
	s, _ := newThreeWay(t, "1\n2\n3", "1\nT\n3", "1\n2\n3\nO")

	require.ErrorIs(t, s.Accept(SideTheirs, 5), ErrNoSuchHunk)
	require.ErrorIs(t, s.Accept(SideTheirs, -1), ErrNoSuchHunk)
	require.ErrorIs(t, s.Accept(SideNone, 0), ErrNoSuchHunk)
	require.ErrorIs(t, s.Ignore(SideOurs, 3), ErrNoSuchHunk)
	require.ErrorIs(t, s.AcceptRegion(9, SideOurs), ErrNoSuchRegion)
	require.ErrorIs(t, s.AcceptBoth(-1), ErrNoSuchRegion)
	assert.Nil(t, s.Hunks(SideNone))

	// Nothing changed
	assert.Equal(t, 1, s.Pass())
	assert.Equal(t, []string{"1", "2", "3"}, s.BaseLines())
}

func TestSession_StaleBase(t *testing.T) {
	s, buf := newThreeWay(t, "1\n2\n3", "1\nT\n3", "1\n2\n3\nO")

	require.NoError(t, buf.ReplaceLines(Range{0, 0}, []string{"0"}))

	err := s.Accept(SideTheirs, 0)
	require.ErrorIs(t, err, ErrStale)
	var ae *ApplyError
	require.ErrorAs(t, err, &ae)
	require.ErrorIs(t, s.Ignore(SideTheirs, 0), ErrStale)
	require.ErrorIs(t, s.AcceptRegion(0, SideTheirs), ErrStale)
	assert.Equal(t, []string{"0", "1", "2", "3"}, buf.Lines())

	require.NoError(t, s.Refresh())
	assert.Equal(t, 2, s.Pass())
	th := s.Hunks(SideTheirs)
	require.Len(t, th, 2)
	assert.Equal(t, Deleted, th[0].Kind)

	require.NoError(t, s.Accept(SideTheirs, 1))
	assert.Equal(t, []string{"0", "1", "T", "3"}, buf.Lines())
}

func TestSession_Busy(t *testing.T) {
	s, _ := newThreeWay(t, "1\n2", "1\nT", "1\n2")

	s.busy.Store(true)
	require.ErrorIs(t, s.Accept(SideTheirs, 0), ErrBusy)
	require.ErrorIs(t, s.Ignore(SideTheirs, 0), ErrBusy)
	require.ErrorIs(t, s.AcceptRegion(0, SideTheirs), ErrBusy)
	require.ErrorIs(t, s.AcceptBoth(0), ErrBusy)
	require.ErrorIs(t, s.Refresh(), ErrBusy)
	s.busy.Store(false)

	require.NoError(t, s.Accept(SideTheirs, 0))
	assert.False(t, s.busy.Load())
}

func TestSession_TwoWay(t *testing.T) {
	buf := NewLineBuffer(SplitLines("a\nb\nc"))
	s, err := NewTwoWaySession(buf, SplitLines("a\nX\nc\nd"))
	require.NoError(t, err)

	hunks := s.Hunks(SideNone)
	require.Len(t, hunks, 2)
	assert.Nil(t, s.Regions())
	assert.Equal(t, []PaddingInstruction{{Target: TargetOld, Row: 3, Lines: 1}}, s.Plan().Padding)

	require.NoError(t, s.Ignore(SideNone, 1))
	require.NoError(t, s.Accept(SideNone, 0))
	assert.Equal(t, []string{"a", "X", "c"}, buf.Lines())

	hunks = s.Hunks(SideNone)
	require.Len(t, hunks, 1)
	assert.Equal(t, Ignored, hunks[0].Status)
	require.NoError(t, s.Resolved())
}

func TestSession_MaxLines(t *testing.T) {
	buf := NewLineBuffer([]string{"a"})
	_, err := NewThreeWaySession(buf, []string{"a", "b"}, []string{"a"}, WithMaxLines(1))
	require.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSession_Logging(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, _ := newThreeWay(t, "1\n2\n3", "1\nT\n3", "1\n2\n3", WithLogger(logger))
	assert.Contains(t, out.String(), "msg=recomputed pass=1")

	out.Reset()
	require.NoError(t, s.Accept(SideTheirs, 0))
	logs := out.String()
	assert.Contains(t, logs, `msg="accepted hunk" side=theirs kind=modified`)
	assert.Contains(t, logs, "pass=2")
}

func TestSession_FailedEditLeavesBaseAlone(t *testing.T) {
	t.Run("accept both", func(t *testing.T) {
		s, buf := newThreeWay(t, "a\nb\nc", "a\nT\nc", "a\nO\nc", WithMaxLines(3))
		require.Len(t, s.Regions(), 1)

		require.ErrorIs(t, s.AcceptBoth(0), ErrInputTooLarge)
		assert.Equal(t, []string{"a", "b", "c"}, buf.Lines())
		assert.Equal(t, 1, s.Pass())

		// The session is still current: nothing is stale.
		require.NoError(t, s.Refresh())
		require.NoError(t, s.Ignore(SideTheirs, 0))
		require.NoError(t, s.AcceptRegion(0, SideOurs))
		assert.Equal(t, []string{"a", "O", "c"}, buf.Lines())
	})
	t.Run("accept hunk", func(t *testing.T) {
		s, buf := newThreeWay(t, "a\nb\nc", "X\na\nb", "a\nb\nc", WithMaxLines(3))
		th := s.Hunks(SideTheirs)
		require.Len(t, th, 2)
		require.Equal(t, Added, th[0].Kind)

		require.ErrorIs(t, s.Accept(SideTheirs, 0), ErrInputTooLarge)
		assert.Equal(t, []string{"a", "b", "c"}, buf.Lines())
		assert.Equal(t, Pending, s.Hunks(SideTheirs)[0].Status)

		require.NoError(t, s.Accept(SideTheirs, 1))
		require.NoError(t, s.Accept(SideTheirs, 0))
		assert.Equal(t, []string{"X", "a", "b"}, buf.Lines())
	})
}

func TestSession_AcceptUntilResolved(t *testing.T) {
	tests := []struct {
		name         string
		base, theirs string
	}{
		{"blank lines", "\n\na1\n\n\na2\n\n\na3", "\n\nb1\n\n\nb2\n\n\nb3"},
		{"braces", "func a() {\n}\n\nfunc b() {\n}\n\nfunc c() {\n}", "func a() {\n\treturn\n}\n\nfunc c() {\n}\n}\n\nfunc d() {\n}"},
		{"digits", "2\n2\n1\n5\n3\n2\n2\n0\n1\n1\n2\n5\n2\n2\n3\n0\n2\n1", "2\n2\n1\n0\n2\n2\n5\n1\n2\n2\n0\n3\n2\n1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Both sides agree, so taking every theirs hunk resolves the merge.
			s, buf := newThreeWay(t, tt.base, tt.theirs, tt.theirs)
			for range 50 {
				hunks := s.Hunks(SideTheirs)
				if len(hunks) == 0 {
					break
				}
				before := buf.Lines()
				require.NoError(t, s.Accept(SideTheirs, 0))
				require.NotEqual(t, before, buf.Lines(), "accepting %+v changed nothing", hunks[0])
			}
			assert.Empty(t, s.Hunks(SideTheirs))
			assert.Equal(t, SplitLines(tt.theirs), s.BaseLines())
			require.NoError(t, s.Resolved())
		})
	}
}

func TestSession_RegionLines(t *testing.T) {
	s, _ := newThreeWay(t, "a\nb\nc\nd", "a\nT1\nT2\nT3\nd", "a\nO\nd")
	theirs, err := s.RegionLines(0, SideTheirs)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, theirs)
	ours, err := s.RegionLines(0, SideOurs)
	require.NoError(t, err)
	assert.Equal(t, []string{"O"}, ours)

	_, err = s.RegionLines(1, SideOurs)
	require.ErrorIs(t, err, ErrNoSuchRegion)
}
