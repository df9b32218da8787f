package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	godiff "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/dacharyc/diffalign"
)

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [OLD NEW]",
		Short: "Compare the line differ against go-diff's line mode",
		Long: `compare diffs two files with the line differ and with go-diff in line
mode and reports operation counts, change regions and timing for both.
Without arguments a built-in set of samples is used.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("compare: want 0 or 2 files, got %d", len(args))
			}
			return nil
		},
		RunE: runCompare,
	}
}

type compareCase struct {
	name string
	a, b []string
}

func runCompare(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	cases := sampleCases()
	if len(args) == 2 {
		a, err := readLines(args[0])
		if err != nil {
			return err
		}
		b, err := readLines(args[1])
		if err != nil {
			return err
		}
		cases = []compareCase{{name: args[0] + " vs " + args[1], a: a, b: b}}
	}

	out := cmd.OutOrStdout()
	for _, tc := range cases {
		if err := compareOne(out, tc, e.opts); err != nil {
			return err
		}
	}
	return nil
}

func compareOne(w io.Writer, tc compareCase, opts []diffalign.Option) error {
	fmt.Fprintf(w, "\n=== %s ===\n", tc.name)
	fmt.Fprintf(w, "A: %d lines, B: %d lines\n", len(tc.a), len(tc.b))

	start := time.Now()
	hunks, err := diffalign.ComputeTwoWay(tc.a, tc.b, opts...)
	if err != nil {
		return err
	}
	ours := time.Since(start)

	start = time.Now()
	diffs := lineModeDiff(tc.a, tc.b)
	theirs := time.Since(start)

	hs := analyzeHunks(hunks)
	gs := analyzeGoDiff(diffs)

	fmt.Fprintf(w, "\ndiffalign: %v\n", ours)
	fmt.Fprintf(w, "  Hunks: %d (Added: %d, Deleted: %d, Modified: %d)\n",
		hs.total, hs.added, hs.deleted, hs.modified)
	fmt.Fprintf(w, "  Changed lines: -%d +%d\n", hs.removed, hs.inserted)

	fmt.Fprintf(w, "\ngo-diff:   %v\n", theirs)
	fmt.Fprintf(w, "  Operations: %d (Equal: %d, Delete: %d, Insert: %d)\n",
		gs.total, gs.equal, gs.delete, gs.insert)
	fmt.Fprintf(w, "  Change regions: %d\n", gs.changeRegions)
	fmt.Fprintf(w, "  Changed lines: -%d +%d\n", gs.removed, gs.inserted)

	if len(tc.a) <= 20 {
		fmt.Fprintln(w, "\ndiffalign output:")
		for _, h := range hunks {
			switch h.Kind {
			case diffalign.Deleted:
				fmt.Fprintf(w, "  - %v\n", tc.a[h.BaseRows.Start:h.BaseRows.End])
			case diffalign.Added:
				fmt.Fprintf(w, "  + %v\n", h.Lines)
			case diffalign.Modified:
				fmt.Fprintf(w, "  ~ %v -> %v\n", tc.a[h.BaseRows.Start:h.BaseRows.End], h.Lines)
			}
		}
	}
	return nil
}

// lineModeDiff runs go-diff over whole lines: each distinct line is mapped
// to one rune, diffed, and mapped back.
func lineModeDiff(a, b []string) []godiff.Diff {
	dmp := godiff.New()
	aText, bText := joinTerminated(a), joinTerminated(b)
	ca, cb, lines := dmp.DiffLinesToRunes(aText, bText)
	diffs := dmp.DiffMainRunes(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func joinTerminated(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

type hunkStats struct {
	total, added, deleted, modified int
	removed, inserted               int
}

func analyzeHunks(hunks []diffalign.Hunk) hunkStats {
	var s hunkStats
	s.total = len(hunks)
	for _, h := range hunks {
		switch h.Kind {
		case diffalign.Added:
			s.added++
		case diffalign.Deleted:
			s.deleted++
		case diffalign.Modified:
			s.modified++
		}
		s.removed += h.BaseRows.Len()
		s.inserted += h.SourceRows.Len()
	}
	return s
}

type diffStats struct {
	total, equal, delete, insert int
	changeRegions                int
	removed, inserted            int
}

func analyzeGoDiff(diffs []godiff.Diff) diffStats {
	var s diffStats
	s.total = len(diffs)
	inChange := false
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case godiff.DiffEqual:
			s.equal++
			inChange = false
		case godiff.DiffDelete:
			s.delete++
			s.removed += n
			if !inChange {
				s.changeRegions++
				inChange = true
			}
		case godiff.DiffInsert:
			s.insert++
			s.inserted += n
			if !inChange {
				s.changeRegions++
				inChange = true
			}
		}
	}
	return s
}

func sampleCases() []compareCase {
	cases := []compareCase{
		{
			name: "Single modified line",
			a:    []string{"a", "b", "c"},
			b:    []string{"a", "X", "c"},
		},
		{
			name: "Moved block with common anchor",
			a:    []string{"func a() {", "}", "", "func b() {", "\treturn 1", "}"},
			b:    []string{"func b() {", "\treturn 2", "}", "", "func a() {", "}"},
		},
		{
			name: "Prose with common words",
			a:    strings.Split("The quick brown fox jumps over the lazy dog in the park", " "),
			b:    strings.Split("A slow red fox leaps over the sleeping cat in the garden", " "),
		},
	}
	cases = append(cases, compareCase{
		name: "Large file (500 lines, scattered changes)",
		a:    generateLargeText(500, 0),
		b:    generateLargeText(500, 42),
	})
	return cases
}

func generateLargeText(lines int, seed int) []string {
	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"func", "main", "return", "if", "else", "for", "range", "var", "const",
		"import", "package", "type", "struct", "interface", "map", "slice"}

	result := make([]string, lines)
	for i := range lines {
		lineWords := make([]string, 5+i%3)
		for j := range lineWords {
			idx := (i*7 + j*13 + seed) % len(words)
			lineWords[j] = words[idx]
		}
		result[i] = strings.Join(lineWords, " ")
	}

	for i := seed % 10; i < lines; i += 10 + seed%5 {
		result[i] = "CHANGED LINE " + fmt.Sprint(i)
	}
	return result
}
