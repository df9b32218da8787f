package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/dacharyc/diffalign"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan BASE:THEIRS:OURS [BASE:THEIRS:OURS...]",
		Short: "Print alignment plans as YAML",
		Long: `plan computes regions, padding and highlights for one or more
documents. Each argument names the base, theirs and ours files of one
document separated by colons. Documents are independent and are computed
concurrently; output keeps argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPlan,
	}
	cmd.Flags().IntP("jobs", "j", runtime.GOMAXPROCS(0), "maximum documents computed at once")
	return cmd
}

type planDoc struct {
	Base    string         `yaml:"base"`
	Theirs  string         `yaml:"theirs"`
	Ours    string         `yaml:"ours"`
	Regions []regionDoc    `yaml:"regions"`
	Padding []paddingDoc   `yaml:"padding"`
	Hunks   []highlightDoc `yaml:"highlights"`
}

type regionDoc struct {
	Base     string   `yaml:"base"`
	Theirs   []string `yaml:"theirs,omitempty"`
	Ours     []string `yaml:"ours,omitempty"`
	Conflict bool     `yaml:"conflict"`
}

type paddingDoc struct {
	Target string `yaml:"target"`
	Row    int    `yaml:"row"`
	Lines  int    `yaml:"lines"`
	Origin string `yaml:"origin,omitempty"`
}

type highlightDoc struct {
	Target string `yaml:"target"`
	Rows   string `yaml:"rows"`
	Kind   string `yaml:"kind"`
	Side   string `yaml:"side"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	triples := make([][3]string, len(args))
	for i, arg := range args {
		if triples[i], err = parseTriple(arg); err != nil {
			return err
		}
	}

	docs, err := planAll(cmd.Context(), triples, max(jobs, 1), e.opts)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}

func parseTriple(arg string) ([3]string, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return [3]string{}, fmt.Errorf("plan: %q is not BASE:THEIRS:OURS", arg)
	}
	return [3]string{parts[0], parts[1], parts[2]}, nil
}

// planAll computes one plan per document. Documents share nothing, so each
// runs in its own goroutine; results land at their argument index.
func planAll(ctx context.Context, triples [][3]string, jobs int, opts []diffalign.Option) ([]planDoc, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	docs := make([]planDoc, len(triples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(triples)))

	for i, paths := range triples {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			doc, err := planOne(paths, opts)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func planOne(paths [3]string, opts []diffalign.Option) (planDoc, error) {
	var texts [3][]string
	for i, path := range paths {
		lines, err := readLines(path)
		if err != nil {
			return planDoc{}, err
		}
		texts[i] = lines
	}

	theirs, ours, err := diffalign.ComputeThreeWay(texts[0], texts[1], texts[2], opts...)
	if err != nil {
		return planDoc{}, fmt.Errorf("%s: %w", paths[0], err)
	}
	regions, err := diffalign.MergeRegions(theirs, ours)
	if err != nil {
		return planDoc{}, fmt.Errorf("%s: %w", paths[0], err)
	}
	plan, err := diffalign.PlanAlignment(regions, theirs, ours, len(texts[0]))
	if err != nil {
		return planDoc{}, fmt.Errorf("%s: %w", paths[0], err)
	}

	doc := planDoc{Base: paths[0], Theirs: paths[1], Ours: paths[2]}
	for _, r := range regions {
		doc.Regions = append(doc.Regions, regionDoc{
			Base:     r.BaseRange().String(),
			Theirs:   rangeStrings(r.TheirsRanges),
			Ours:     rangeStrings(r.OursRanges),
			Conflict: r.Conflicting(),
		})
	}
	for _, p := range plan.Padding {
		pd := paddingDoc{Target: p.Target.String(), Row: p.Row, Lines: p.Lines}
		if p.Origin != diffalign.SideNone {
			pd.Origin = p.Origin.String()
		}
		doc.Padding = append(doc.Padding, pd)
	}
	for _, h := range plan.Highlights {
		doc.Hunks = append(doc.Hunks, highlightDoc{
			Target: h.Target.String(),
			Rows:   h.Rows.String(),
			Kind:   h.Kind.String(),
			Side:   h.Side.String(),
		})
	}
	return doc, nil
}

func rangeStrings(ranges []diffalign.Range) []string {
	out := make([]string, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, r.String())
	}
	return out
}
