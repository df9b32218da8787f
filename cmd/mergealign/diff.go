package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dacharyc/diffalign"
	"github.com/dacharyc/diffalign/internal/render"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show an aligned side-by-side diff of two files",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}
	cmd.Flags().Bool("stat", false, "print a hunk summary instead of the aligned view")
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	stat, err := cmd.Flags().GetBool("stat")
	if err != nil {
		return err
	}

	oldLines, err := readLines(args[0])
	if err != nil {
		return err
	}
	newLines, err := readLines(args[1])
	if err != nil {
		return err
	}

	hunks, err := diffalign.ComputeTwoWay(oldLines, newLines, e.opts...)
	if err != nil {
		return fmt.Errorf("diff %s %s: %w", args[0], args[1], err)
	}
	e.logger.Debug("computed two-way diff", "old", args[0], "new", args[1], "hunks", len(hunks))

	out := cmd.OutOrStdout()
	if stat {
		for _, h := range hunks {
			fmt.Fprintf(out, "%-8s old %v new %v\n", h.Kind, h.BaseRows, h.SourceRows)
		}
		fmt.Fprintf(out, "%d hunks\n", len(hunks))
		return nil
	}

	plan, err := diffalign.PlanTwoWay(hunks, len(oldLines), len(newLines))
	if err != nil {
		return err
	}
	var words []diffalign.WordHighlight
	if e.cfg.Display.WordDiff {
		if words, err = wordHighlights(oldLines, hunks); err != nil {
			return err
		}
	}
	return e.renderer(cmd).TwoWay(out,
		render.Source{Title: args[0], Lines: oldLines},
		render.Source{Title: args[1], Lines: newLines},
		plan, words)
}
