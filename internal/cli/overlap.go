package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pipeline"
)

// overlapCommand creates the overlap command for rectangle overlap removal.
func (c *CLI) overlapCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "overlap [rects]",
		Short: "Move rectangles apart until none overlap",
		Long: `Move rectangles apart until none overlap.

Reads a list of rectangles (id, centre x and y, width, height) from a JSON,
YAML or TOML file. Each rectangle is displaced as little as possible,
first horizontally and then vertically. TOML input lists rectangles under
a "rects" key.

The result is written in the input format to --output, or to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOverlap(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// runOverlap reads rectangles, removes their overlaps and writes them back.
func (c *CLI) runOverlap(ctx context.Context, input, output string) error {
	rects, err := graph.ReadRectsFile(input)
	if err != nil {
		return fmt.Errorf("load rectangles %s: %w", input, err)
	}
	format, _ := graph.FormatFromPath(input)

	prog := newProgress(c.Logger)
	moved := pipeline.RemoveOverlaps(ctx, rects)
	prog.done(fmt.Sprintf("Separated %d rectangles", len(moved)))

	var w io.Writer = os.Stdout
	if output != "" {
		if f, err := graph.FormatFromPath(output); err == nil {
			format = f
		}
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer file.Close()
		w = file
	}
	if err := graph.WriteRects(w, moved, format); err != nil {
		return fmt.Errorf("write rectangles: %w", err)
	}

	if output != "" {
		printSuccess("Overlaps removed")
		printFile(output)
		printDetail("%d rectangles, largest move %s", len(moved), fmtCoord(maxDisplacement(rects, moved)))
	}
	return nil
}

// maxDisplacement returns the largest centre movement between before and after.
func maxDisplacement(before, after []graph.Rect) float64 {
	m := 0.0
	for i := range before {
		dx := after[i].X - before[i].X
		dy := after[i].Y - before[i].Y
		if d := dx*dx + dy*dy; d > m {
			m = d
		}
	}
	return math.Sqrt(m)
}
