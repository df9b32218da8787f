// Package diffalign aligns and classifies line-level differences between two
// versions (old/new) or three versions (theirs/base/ours) of a text document
// so corresponding content can be shown at matching rows and acted upon.
//
// The pipeline is:
//   - Diff: a deterministic Myers O(ND) line diff producing Equal, Delete,
//     Insert and Replace operations that partition both inputs
//   - Classify: operations become typed Hunks (Added, Deleted, Modified)
//   - MergeRegions: hunks from two sides that overlap or touch on the base
//     become ConflictRegions
//   - PlanAlignment: padding per coordinate space plus highlight ranges
//   - Session: accept/ignore mutations followed by full recomputation
package diffalign

import "log/slog"

// OpType identifies the type of edit operation.
type OpType int

const (
	// Equal means the lines are unchanged.
	Equal OpType = iota
	// Insert means lines were added to B that are not in A.
	Insert
	// Delete means lines were removed from A that are not in B.
	Delete
	// Replace means lines of A were replaced by different lines of B.
	Replace
)

// String returns a string representation of the OpType.
func (t OpType) String() string {
	switch t {
	case Equal:
		return "Equal"
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	case Replace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// DiffOp represents a single edit operation with index ranges.
type DiffOp struct {
	Type   OpType
	AStart int // start index in sequence A (inclusive)
	AEnd   int // end index in sequence A (exclusive)
	BStart int // start index in sequence B (inclusive)
	BEnd   int // end index in sequence B (exclusive)
}

// Algorithm selects the core diff strategy.
type Algorithm int

const (
	// Myers is the classic O(ND) shortest edit script search.
	Myers Algorithm = iota
	// Histogram anchors on low-frequency lines and falls back to Myers.
	Histogram
)

// options holds configuration for the diff algorithm and the layers above it.
type options struct {
	algorithm      Algorithm
	useHeuristic   bool
	forceMinimal   bool
	costLimit      int
	preprocessing  bool
	postprocessing bool
	maxLines       int
	logger         *slog.Logger
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() *options {
	return &options{
		algorithm:      Myers,
		useHeuristic:   true,
		forceMinimal:   false,
		costLimit:      0, // auto-calculated
		preprocessing:  true,
		postprocessing: true,
		maxLines:       0, // unlimited
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures diff behavior.
type Option func(*options)

// WithAlgorithm selects the core diff algorithm.
// Default: Myers.
func WithAlgorithm(a Algorithm) Option {
	return func(o *options) {
		o.algorithm = a
	}
}

// WithHeuristic enables or disables speed heuristics.
// Default: true.
func WithHeuristic(enabled bool) Option {
	return func(o *options) {
		o.useHeuristic = enabled
	}
}

// WithMinimal forces minimal edit script even if slow.
// Default: false.
func WithMinimal(minimal bool) Option {
	return func(o *options) {
		o.forceMinimal = minimal
		if minimal {
			o.useHeuristic = false
		}
	}
}

// WithCostLimit sets custom early termination threshold.
// 0 means auto-calculate based on input size.
// Default: 0.
func WithCostLimit(n int) Option {
	return func(o *options) {
		o.costLimit = n
	}
}

// WithPreprocessing enables or disables confusing line filtering.
// Default: true.
func WithPreprocessing(enabled bool) Option {
	return func(o *options) {
		o.preprocessing = enabled
	}
}

// WithPostprocessing enables or disables boundary shifting.
// Default: true.
func WithPostprocessing(enabled bool) Option {
	return func(o *options) {
		o.postprocessing = enabled
	}
}

// WithMaxLines rejects inputs with more than n lines on either side with
// ErrInputTooLarge. 0 disables the limit.
// Default: 0.
func WithMaxLines(n int) Option {
	return func(o *options) {
		o.maxLines = n
	}
}

// WithLogger installs a structured logger. A nil logger disables logging.
// Default: nil.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Diff compares two string slices and returns edit operations.
func Diff(a, b []string, opts ...Option) []DiffOp {
	return DiffElements(toElements(a), toElements(b), opts...)
}

// DiffHistogram performs histogram-style diff on string slices.
func DiffHistogram(a, b []string, opts ...Option) []DiffOp {
	return DiffElements(toElements(a), toElements(b), append(opts, WithAlgorithm(Histogram))...)
}

// DiffElements compares arbitrary Element slices.
func DiffElements(a, b []Element, opts ...Option) []DiffOp {
	o := buildOptions(opts)
	return diffElements(a, b, o)
}

func diffElements(a, b []Element, o *options) []DiffOp {
	// Handle trivial cases
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	if len(a) == 0 {
		return []DiffOp{{Type: Insert, AStart: 0, AEnd: 0, BStart: 0, BEnd: len(b)}}
	}
	if len(b) == 0 {
		return []DiffOp{{Type: Delete, AStart: 0, AEnd: len(a), BStart: 0, BEnd: 0}}
	}

	ctx := newDiffContext(a, b, o)

	// Preprocessing: lines that cannot match are marked up front and the
	// search runs on what is left.
	if o.preprocessing {
		if f := filterConfusingElements(a, b); f != nil {
			sub := newDiffContext(f.a, f.b, o)
			sub.run(o)
			f.transferMarks(sub, ctx)
			ctx.refine(o.forceMinimal)
		} else {
			ctx.run(o)
		}
	} else {
		ctx.run(o)
	}

	// Postprocessing: slide change runs for readability
	if o.postprocessing {
		ctx.shiftBoundaries()
	}
	ctx.trimRegions()

	ops := ctx.buildOps()
	if err := validateOps(ops, len(a), len(b)); err != nil {
		panic(err)
	}
	return ops
}

// run executes the configured core algorithm over the whole context.
func (ctx *diffContext) run(o *options) {
	switch o.algorithm {
	case Histogram:
		ctx.histogram(0, len(ctx.xvec), 0, len(ctx.yvec))
	default:
		ctx.compareSeq(0, len(ctx.xvec), 0, len(ctx.yvec), o.forceMinimal)
	}
}
