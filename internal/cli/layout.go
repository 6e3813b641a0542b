package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pipeline"
)

// layoutFlags holds layout command flags that are not pipeline options.
type layoutFlags struct {
	output  string
	formats string
	config  string
	noCache bool
	table   bool
}

// layoutCommand creates the layout command for computing constrained layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph]",
		Short: "Compute a constrained layout of a graph",
		Long: `Compute a constrained layout of a graph.

The graph is read from a JSON, YAML or TOML file with nodes, links, groups
and constraints. The layout runs unconstrained, user-constraint and
all-constraint phases, then optionally ticks until it settles (--converge).

Options may be read from a TOML file with --config; flags given on the
command line override the file.

Outputs are written next to the input as <name>.layout.<format> unless
--output is set. Use --output - to write a single format to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.config != "" {
				if err := applyConfigFile(cmd.Flags(), flags.config, &opts); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(flags.formats)
			}
			opts.Input = args[0]
			return c.runLayout(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path prefix, or - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatJSON, "output formats: json, yaml, toml, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "TOML file with layout options")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.table, "table", false, "print node positions as a table")

	bindLayoutFlags(cmd.Flags(), &opts)
	cmd.Flags().BoolVar(&opts.Converge, "converge", false, "tick until the layout settles")
	cmd.Flags().IntVar(&opts.MaxTicks, "max-ticks", pipeline.DefaultMaxTicks, "upper bound on convergence ticks")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label DOT and SVG nodes with their positions")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 1, "scale factor for DOT and SVG output")

	return cmd
}

// runLayout runs the pipeline and writes one file per format.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, flags layoutFlags) error {
	toStdout := flags.output == "-"
	if toStdout && len(opts.Formats) != 1 {
		return fmt.Errorf("--output - needs exactly one format, got %d", len(opts.Formats))
	}

	runner := c.newRunner(flags.noCache)
	defer runner.Close()

	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, "Computing layout...")
		spinner.Start()
	}
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, nil, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Layout failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return fmt.Errorf("layout %s: %w", opts.Input, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", result.Stats.NodeCount))

	if toStdout {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	base := outputBase(opts.Input, flags.output)
	printSuccess("Layout complete")
	for _, format := range sortedFormats(result.Artifacts) {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.GroupCount, result.CacheInfo.LayoutHit)
	printDetail("stress %s · %d ticks", strconv.FormatFloat(result.Layout.Stress, 'g', 6, 64), result.Layout.Ticks)

	if flags.table {
		printNewline()
		printPositions(result.Layout)
	}
	return nil
}

// printPositions prints the node centres of r as a table.
func printPositions(r *graph.Result) {
	rows := make([][]string, len(r.Nodes))
	for i, p := range r.Nodes {
		rows[i] = []string{p.ID, fmtCoord(p.X), fmtCoord(p.Y), fmtCoord(p.Width), fmtCoord(p.Height)}
	}
	printTable([]string{"Node", "X", "Y", "Width", "Height"}, rows)
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
