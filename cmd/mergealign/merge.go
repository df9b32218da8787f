package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dacharyc/diffalign"
	"github.com/dacharyc/diffalign/internal/render"
)

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge BASE THEIRS OURS",
		Short: "Show an aligned three-column view of a merge",
		Long: `merge diffs THEIRS and OURS against BASE, groups overlapping changes
into regions and shows the three versions with matching rows.

--take applies one side to every region before rendering, so the base column
shows the merged result. Conflicting regions are left alone unless --take is
"both", which writes ours followed by theirs.`,
		Args: cobra.ExactArgs(3),
		RunE: runMerge,
	}
	cmd.Flags().String("take", "", "apply a side to every region before rendering (theirs|ours|both)")
	cmd.Flags().Bool("regions", true, "print a region summary after the view")
	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	take, err := cmd.Flags().GetString("take")
	if err != nil {
		return err
	}
	summary, err := cmd.Flags().GetBool("regions")
	if err != nil {
		return err
	}

	var texts [3][]string
	for i, path := range args {
		if texts[i], err = readLines(path); err != nil {
			return err
		}
	}
	base := diffalign.NewLineBuffer(texts[0])
	s, err := diffalign.NewThreeWaySession(base, texts[1], texts[2], e.opts...)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if err := takeAll(s, take); err != nil {
		return err
	}

	baseLines := s.BaseLines()
	theirs, ours := s.Hunks(diffalign.SideTheirs), s.Hunks(diffalign.SideOurs)
	var words []diffalign.WordHighlight
	if e.cfg.Display.WordDiff {
		if words, err = wordHighlights(baseLines, theirs, ours); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	err = e.renderer(cmd).ThreeWay(out,
		render.Source{Title: args[1], Lines: texts[1]},
		render.Source{Title: args[0], Lines: baseLines},
		render.Source{Title: args[2], Lines: texts[2]},
		s.Plan(), words)
	if err != nil {
		return err
	}
	if summary {
		printRegions(out, s.Regions())
	}
	return nil
}

// takeAll resolves regions one at a time. Every accept recomputes the
// session, so the region list is re-read after each step. An accepted
// region normally stays in place, now showing the other side's version as
// a change, and the walk moves on. When the accept made the region list
// shrink (both sides agreed, or the region merged into a neighbor) the
// same index is looked at again.
func takeAll(s *diffalign.Session, take string) error {
	var side diffalign.Side
	switch take {
	case "":
		return nil
	case "theirs":
		side = diffalign.SideTheirs
	case "ours":
		side = diffalign.SideOurs
	case "both":
	default:
		return fmt.Errorf("--take: unknown side %q (want theirs, ours or both)", take)
	}

	// Each step advances or shrinks the list; the limit only guards
	// against regions that keep reappearing.
	limit := 4*len(s.Regions()) + 4
	for i, steps := 0, 0; i < len(s.Regions()) && steps < limit; steps++ {
		before := len(s.Regions())
		accepted, err := takeRegion(s, i, take, side)
		if err != nil {
			return err
		}
		if accepted && len(s.Regions()) < before {
			continue
		}
		i++
	}
	return nil
}

// takeRegion applies the --take choice to region i and reports whether the
// base changed.
func takeRegion(s *diffalign.Session, i int, take string, side diffalign.Side) (bool, error) {
	reg := s.Regions()[i]
	if take == "both" {
		switch {
		case !reg.Conflicting() && len(reg.TheirsHunks) > 0:
			return true, s.AcceptRegion(i, diffalign.SideTheirs)
		case !reg.Conflicting():
			return true, s.AcceptRegion(i, diffalign.SideOurs)
		}
		theirs, err := s.RegionLines(i, diffalign.SideTheirs)
		if err != nil {
			return false, err
		}
		ours, err := s.RegionLines(i, diffalign.SideOurs)
		if err != nil {
			return false, err
		}
		if slices.Equal(theirs, ours) {
			return true, s.AcceptRegion(i, diffalign.SideTheirs)
		}
		return true, s.AcceptBoth(i)
	}

	if reg.Conflicting() ||
		side == diffalign.SideTheirs && len(reg.TheirsHunks) == 0 ||
		side == diffalign.SideOurs && len(reg.OursHunks) == 0 {
		return false, nil
	}
	return true, s.AcceptRegion(i, side)
}

func printRegions(w io.Writer, regions []diffalign.ConflictRegion) {
	conflicts := 0
	for i, r := range regions {
		state := "clean"
		if r.Conflicting() {
			state = "conflict"
			conflicts++
		}
		fmt.Fprintf(w, "region %d: base %v theirs %v ours %v %s\n",
			i+1, r.BaseRange(), r.TheirsRanges, r.OursRanges, state)
	}
	fmt.Fprintf(w, "%d regions, %d conflicting\n", len(regions), conflicts)
}
