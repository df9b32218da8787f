// Package render draws aligned two-way and three-way views of a diffalign
// plan as plain or colored terminal text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dacharyc/diffalign"
)

const (
	separator    = " │ "
	defaultWidth = 120
	minTextWidth = 8
)

// Options configures a Renderer.
type Options struct {
	// Width is the total output width in cells. Zero means 120.
	Width       int
	Color       bool
	LineNumbers bool
	TabWidth    int
}

// Pane is one column of output.
type Pane struct {
	Title string
	Rows  []Row
}

// Source is the text of one coordinate space.
type Source struct {
	Title string
	Lines []string
}

// Renderer writes panes side by side.
type Renderer struct {
	opts Options

	added    *color.Color
	deleted  *color.Color
	modified *color.Color
	ignored  *color.Color
	filler   *color.Color
	gutter   *color.Color
	title    *color.Color
}

// New returns a Renderer. Colors are forced on or off by opts.Color so the
// output does not depend on whether stdout is a terminal.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	r := &Renderer{
		opts:     opts,
		added:    color.New(color.FgGreen),
		deleted:  color.New(color.FgRed),
		modified: color.New(color.FgYellow),
		ignored:  color.New(color.Faint),
		filler:   color.New(color.Faint),
		gutter:   color.New(color.FgHiBlack),
		title:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.added, r.deleted, r.modified, r.ignored, r.filler, r.gutter, r.title} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// TwoWay renders old and new next to each other.
func (r *Renderer) TwoWay(w io.Writer, old, updated Source, plan diffalign.Plan, words []diffalign.WordHighlight) error {
	return r.Render(w,
		Pane{Title: old.Title, Rows: Layout(old.Lines, plan, diffalign.TargetOld, words)},
		Pane{Title: updated.Title, Rows: Layout(updated.Lines, plan, diffalign.TargetNew, words)},
	)
}

// ThreeWay renders theirs, base and ours in that order.
func (r *Renderer) ThreeWay(w io.Writer, theirs, base, ours Source, plan diffalign.Plan, words []diffalign.WordHighlight) error {
	return r.Render(w,
		Pane{Title: theirs.Title, Rows: Layout(theirs.Lines, plan, diffalign.TargetTheirs, words)},
		Pane{Title: base.Title, Rows: Layout(base.Lines, plan, diffalign.TargetBase, words)},
		Pane{Title: ours.Title, Rows: Layout(ours.Lines, plan, diffalign.TargetOurs, words)},
	)
}

// Render writes the panes as columns. Panes shorter than the tallest one are
// filled with blank rows.
func (r *Renderer) Render(w io.Writer, panes ...Pane) error {
	if len(panes) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)

	numWidth := 0
	height := 0
	hasTitle := false
	for _, p := range panes {
		height = max(height, len(p.Rows))
		hasTitle = hasTitle || p.Title != ""
		for _, row := range p.Rows {
			numWidth = max(numWidth, len(strconv.Itoa(row.Line+1)))
		}
	}
	gutter := r.gutterWidth(numWidth)
	paneWidth := (r.opts.Width - runewidth.StringWidth(separator)*(len(panes)-1)) / len(panes)
	textWidth := max(paneWidth-gutter, minTextWidth)

	if hasTitle {
		cells := make([]string, len(panes))
		for i, p := range panes {
			t, _ := fit(p.Title, gutter+textWidth)
			cells[i] = r.pad(r.title.Sprint(t), t, gutter+textWidth, i == len(panes)-1)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(cells, separator)); err != nil {
			return err
		}
	}

	cells := make([]string, len(panes))
	for i := range height {
		for j, p := range panes {
			row := Row{Line: -1}
			if i < len(p.Rows) {
				row = p.Rows[i]
			}
			cells[j] = r.cell(row, numWidth, textWidth, j == len(panes)-1)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(cells, separator)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (r *Renderer) gutterWidth(numWidth int) int {
	if r.opts.LineNumbers {
		return 2 + numWidth + 1
	}
	return 2
}

func (r *Renderer) cell(row Row, numWidth, width int, last bool) string {
	var b strings.Builder
	b.WriteRune(marker(row))
	b.WriteByte(' ')
	if r.opts.LineNumbers {
		num := ""
		if !row.Filler && row.Line >= 0 {
			num = strconv.Itoa(row.Line + 1)
		}
		b.WriteString(r.gutter.Sprintf("%*s", numWidth, num))
		b.WriteByte(' ')
	}
	gutter := b.String()

	if row.Filler {
		if last {
			return strings.TrimRight(gutter, " ")
		}
		return gutter + r.filler.Sprint(strings.Repeat(" ", width))
	}

	text, spans := expandTabs(row.Text, r.opts.TabWidth, row.Spans)
	visible, kept := fit(text, width)
	return gutter + r.pad(r.paint(row, visible, clipSpans(spans, kept)), visible, width, last)
}

// pad fills a painted cell to width using the width of its plain text.
func (r *Renderer) pad(painted, plain string, width int, last bool) string {
	if last {
		return painted
	}
	return painted + strings.Repeat(" ", max(0, width-runewidth.StringWidth(plain)))
}

func (r *Renderer) lineColor(row Row) *color.Color {
	if !row.Changed {
		return nil
	}
	if row.Status == diffalign.Ignored {
		return r.ignored
	}
	switch row.Kind {
	case diffalign.Added:
		return r.added
	case diffalign.Deleted:
		return r.deleted
	default:
		return r.modified
	}
}

// paint colors a row's text and emphasizes its word spans.
func (r *Renderer) paint(row Row, text string, spans []Span) string {
	line := r.lineColor(row)
	if line == nil {
		return text
	}
	if len(spans) == 0 {
		return line.Sprint(text)
	}
	word := color.New(color.ReverseVideo)
	if r.opts.Color {
		word.EnableColor()
	} else {
		word.DisableColor()
	}
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			b.WriteString(line.Sprint(text[pos:s.Start]))
		}
		b.WriteString(word.Sprint(line.Sprint(text[s.Start:s.End])))
		pos = s.End
	}
	if pos < len(text) {
		b.WriteString(line.Sprint(text[pos:]))
	}
	return b.String()
}

func marker(row Row) rune {
	if !row.Changed || row.Filler {
		return ' '
	}
	if row.Status == diffalign.Ignored {
		return '.'
	}
	switch row.Kind {
	case diffalign.Added:
		return '+'
	case diffalign.Deleted:
		return '-'
	default:
		return '~'
	}
}

// fit truncates text to width cells and returns it with the number of bytes
// of the original text it still shows.
func fit(text string, width int) (string, int) {
	if runewidth.StringWidth(text) <= width {
		return text, len(text)
	}
	if width <= 3 {
		t := runewidth.Truncate(text, width, "")
		return t, len(t)
	}
	t := runewidth.Truncate(text, width-3, "")
	return t + "...", len(t)
}

// expandTabs replaces tabs with spaces and moves spans along.
func expandTabs(text string, tabWidth int, spans []Span) (string, []Span) {
	if !strings.Contains(text, "\t") {
		return text, spans
	}
	offsets := make([]int, len(text)+1)
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		offsets[i] = b.Len()
		if text[i] == '\t' {
			b.WriteString(strings.Repeat(" ", tabWidth))
		} else {
			b.WriteByte(text[i])
		}
	}
	offsets[len(text)] = b.Len()

	moved := make([]Span, 0, len(spans))
	for _, s := range spans {
		start, end := min(max(s.Start, 0), len(text)), min(max(s.End, 0), len(text))
		moved = append(moved, Span{Start: offsets[start], End: offsets[end]})
	}
	return b.String(), moved
}

// clipSpans drops the parts of spans at or past limit.
func clipSpans(spans []Span, limit int) []Span {
	var out []Span
	pos := 0
	for _, s := range spans {
		start, end := max(s.Start, pos), min(s.End, limit)
		if start >= end {
			continue
		}
		out = append(out, Span{Start: start, End: end})
		pos = end
	}
	return out
}
