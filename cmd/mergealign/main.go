// Command mergealign shows aligned two-way and three-way line diffs and
// prints alignment plans.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dacharyc/diffalign"
	"github.com/dacharyc/diffalign/internal/config"
	"github.com/dacharyc/diffalign/internal/render"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mergealign:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mergealign",
		Short: "Aligned line diffs for two-way and three-way comparisons",
		Long: `mergealign compares two versions (old/new) or three versions
(theirs/base/ours) of a text file and lines up corresponding content.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default: search the working directory)")
	root.PersistentFlags().String("color", "", "colorize output (auto|on|off)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log recomputation details to stderr")

	root.AddCommand(newDiffCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newCompareCmd())
	return root
}

// env is what every subcommand needs from the global flags and the config
// file.
type env struct {
	cfg    *config.Config
	opts   []diffalign.Option
	logger *slog.Logger
}

func setup(cmd *cobra.Command) (*env, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if mode, _ := flags.GetString("color"); mode != "" {
		cfg.Display.Color = mode
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--color: %w", err)
		}
	}

	level := slog.LevelWarn
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, diffalign.WithLogger(logger))
	return &env{cfg: cfg, opts: opts, logger: logger}, nil
}

// renderer builds a renderer for the command's stdout. Color and width fall
// back to what the terminal reports when the config leaves them on auto.
func (e *env) renderer(cmd *cobra.Command) *render.Renderer {
	fd := -1
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		fd = int(f.Fd())
	}
	tty := fd >= 0 && term.IsTerminal(fd)

	useColor := e.cfg.Display.Color == "on" || (e.cfg.Display.Color == "auto" && tty)
	width := e.cfg.Display.Width
	if width == 0 && tty {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}
	return render.New(render.Options{
		Width:       width,
		Color:       useColor,
		LineNumbers: e.cfg.Display.LineNumbers,
		TabWidth:    e.cfg.Display.TabWidth,
	})
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return diffalign.SplitLines(string(data)), nil
}

// wordHighlights collects the intra-line spans of every modified hunk.
func wordHighlights(base []string, hunks ...[]diffalign.Hunk) ([]diffalign.WordHighlight, error) {
	var out []diffalign.WordHighlight
	for _, list := range hunks {
		for _, h := range list {
			words, err := diffalign.WordHighlights(h, base)
			if err != nil {
				return nil, err
			}
			out = append(out, words...)
		}
	}
	return out, nil
}
