package diffalign

import (
	"slices"
	"strings"
)

// Snapshot is a read-only view of a buffer at one revision.
type Snapshot interface {
	LineCount() int
	Line(row int) string
	Revision() uint64
}

// Buffer is a mutable line buffer. ReplaceLines replaces the rows in r with
// lines; an empty r inserts before r.Start.
type Buffer interface {
	Snapshot
	ReplaceLines(r Range, lines []string) error
}

// ReadSnapshot copies every line out of s.
func ReadSnapshot(s Snapshot) []string {
	n := s.LineCount()
	if n == 0 {
		return nil
	}
	lines := make([]string, n)
	for i := range n {
		lines[i] = s.Line(i)
	}
	return lines
}

// SplitLines splits text on "\n". A single trailing newline terminates the
// last line instead of starting an empty one, and "" has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// JoinLines is the inverse of SplitLines for text without a trailing newline.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// LineBuffer is an in-memory Buffer. Every successful edit bumps the
// revision.
type LineBuffer struct {
	lines    []string
	revision uint64
}

// NewLineBuffer returns a buffer holding a copy of lines.
func NewLineBuffer(lines []string) *LineBuffer {
	return &LineBuffer{lines: slices.Clone(lines)}
}

func (b *LineBuffer) LineCount() int { return len(b.lines) }

func (b *LineBuffer) Line(row int) string { return b.lines[row] }

func (b *LineBuffer) Revision() uint64 { return b.revision }

// Lines returns a copy of the current contents.
func (b *LineBuffer) Lines() []string { return slices.Clone(b.lines) }

// ReplaceLines implements Buffer.
func (b *LineBuffer) ReplaceLines(r Range, lines []string) error {
	if err := r.Validate("ReplaceLines"); err != nil {
		return err
	}
	if r.End > len(b.lines) {
		return &InputError{Op: "ReplaceLines", Range: r, Reason: "past end of buffer"}
	}
	b.lines = slices.Replace(b.lines, r.Start, r.End, lines...)
	b.revision++
	return nil
}
