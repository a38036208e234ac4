package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	ski "ski-go"
)

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse EXPR",
		Short: "Print the canonical form of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ski.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s nodes)\n", t, humanize.Comma(int64(t.Size(t.Root))))
			return nil
		},
	}
}

func newStepCmd(opts *options) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "step EXPR",
		Short: "Perform single reduction steps, printing the term after each",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ski.Parse(args[0])
			if err != nil {
				return err
			}
			r, err := opts.cfg.Reducer()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				if !r.Step(t) {
					fmt.Fprintln(out, "normal form")
					return nil
				}
				fmt.Fprintln(out, colorize(t.String()))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of steps to perform")
	return cmd
}

func newReduceCmd(opts *options) *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "reduce EXPR",
		Short: "Reduce an expression to normal form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ski.Parse(args[0])
			if err != nil {
				return err
			}
			r, err := opts.cfg.Reducer()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if trace {
				r.Trace = func(ev ski.StepEvent) {
					fmt.Fprintf(out, "%5d  %s  %s\n", ev.Step, colorize(ev.Rule), colorize(ev.After))
				}
			}
			steps, err := r.Normalize(cmd.Context(), t, opts.cfg.MaxSteps)
			if errors.Is(err, ski.ErrStepLimit) {
				fmt.Fprintf(out, "%s\n", colorize(t.String()))
				return errors.Wrapf(err, "term may diverge")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t(%s steps)\n", colorize(t.String()), humanize.Comma(int64(steps)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the term after every step")
	return cmd
}

func newLayoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "layout EXPR",
		Short: "Print node coordinates as computed for drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ski.Parse(args[0])
			if err != nil {
				return err
			}
			p := ski.Layout(t, opts.cfg.LevelHeight, opts.cfg.Spacing)
			return writeLayout(cmd.OutOrStdout(), t, p)
		},
	}
}

func writeLayout(w io.Writer, t *ski.Tree, p *ski.Placements) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tX\tY\tLEFT\tRIGHT\tHEIGHT")
	t.Walk(t.Root, func(id ski.NodeID) bool {
		pl, _ := p.At(id)
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%g\t%g\n",
			t.Expression(id), pl.X, pl.Y, pl.LeftExtent, pl.RightExtent, pl.Height)
		return true
	})
	return tw.Flush()
}

func newRenderCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render EXPR",
		Short: "Draw an expression's tree as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ski.Parse(args[0])
			if err != nil {
				return err
			}
			p := ski.Layout(t, opts.cfg.LevelHeight, opts.cfg.Spacing)

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(err, "creating output")
				}
				defer f.Close()
				w = f
			}
			return ski.RenderSVG(w, t, p, ski.DefaultRenderOptions())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the SVG to a file instead of stdout")
	return cmd
}

var combinatorColors = map[rune]*color.Color{
	'S': color.New(color.FgYellow),
	'K': color.New(color.FgMagenta),
	'I': color.New(color.FgBlue),
}

// colorize highlights the combinators of an expression.
func colorize(expr string) string {
	if color.NoColor {
		return expr
	}
	var sb strings.Builder
	for _, r := range expr {
		if c, ok := combinatorColors[r]; ok {
			sb.WriteString(c.Sprint(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
