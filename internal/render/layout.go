package render

import (
	"cmp"
	"slices"

	"github.com/dacharyc/diffalign"
)

// Span is a changed byte range [Start, End) of a row's text.
type Span struct {
	Start, End int
}

// Row is one visual row of a pane.
type Row struct {
	// Line is the row in the source space, or -1 for filler.
	Line   int
	Text   string
	Filler bool
	// Origin is the side that caused a filler row in the base pane.
	Origin diffalign.Side

	Changed bool
	Kind    diffalign.Kind
	Side    diffalign.Side
	Status  diffalign.Status
	Spans   []Span
}

// Layout turns the lines of one target space into visual rows: filler rows
// are inserted where the plan pads the target, and rows covered by a
// highlight are marked changed. Word highlights of the target become spans.
func Layout(lines []string, plan diffalign.Plan, target diffalign.Target, words []diffalign.WordHighlight) []Row {
	pads := plan.PaddingFor(target)
	rows := make([]Row, 0, len(lines)+plan.PaddingLines(target))

	var highlights []diffalign.Highlight
	for _, h := range plan.Highlights {
		if h.Target == target {
			highlights = append(highlights, h)
		}
	}
	spans := make(map[int][]Span)
	for _, w := range words {
		if w.Target == target && w.End > w.Start {
			spans[w.Row] = append(spans[w.Row], Span{Start: w.Start, End: w.End})
		}
	}
	for row := range spans {
		slices.SortFunc(spans[row], func(a, b Span) int { return cmp.Compare(a.Start, b.Start) })
	}

	p := 0
	for line := 0; line <= len(lines); line++ {
		for p < len(pads) && pads[p].Row <= line {
			for range pads[p].Lines {
				rows = append(rows, Row{Line: -1, Filler: true, Origin: pads[p].Origin})
			}
			p++
		}
		if line == len(lines) {
			break
		}
		row := Row{Line: line, Text: lines[line], Spans: spans[line]}
		if h, ok := highlightAt(highlights, line); ok {
			row.Changed = true
			row.Kind = h.Kind
			row.Side = h.Side
			row.Status = h.Status
		}
		rows = append(rows, row)
	}
	// Padding past the end of the space
	for ; p < len(pads); p++ {
		for range pads[p].Lines {
			rows = append(rows, Row{Line: -1, Filler: true, Origin: pads[p].Origin})
		}
	}
	return rows
}

// highlightAt prefers a pending highlight when both sides cover a base row.
func highlightAt(highlights []diffalign.Highlight, line int) (diffalign.Highlight, bool) {
	var found diffalign.Highlight
	ok := false
	for _, h := range highlights {
		if line < h.Rows.Start || line >= h.Rows.End {
			continue
		}
		if !ok || (found.Status != diffalign.Pending && h.Status == diffalign.Pending) {
			found, ok = h, true
		}
	}
	return found, ok
}
