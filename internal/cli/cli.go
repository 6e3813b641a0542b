// Package cli implements the clustermap command-line interface.
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/buildinfo"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/cache"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/observability"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "clustermap"

	// cacheScope prefixes every cache key written by the CLI.
	cacheScope = "cli:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	metricsFile string
	metrics     *metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Clustermap lays out clustered graphs under geometric constraints",
		Long: `Clustermap computes 2D layouts of node-link graphs with nested groups,
separation and alignment constraints, and overlap avoidance. Layouts are
written as JSON, YAML, TOML, Graphviz DOT or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.metricsFile == "" {
				return nil
			}
			c.metrics = newMetrics()
			observability.SetLayoutHooks(c.metrics)
			observability.SetCacheHooks(c.metrics)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.metrics == nil {
				return nil
			}
			defer observability.Reset()
			if err := c.metrics.WriteFile(c.metricsFile); err != nil {
				return fmt.Errorf("write metrics %s: %w", c.metricsFile, err)
			}
			c.Logger.Debug("metrics written", "path", c.metricsFile)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on success")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.overlapCommand())
	root.AddCommand(c.pathsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The cache lives for the
// duration of one command.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	var store cache.Cache = cache.NewMemoryCache()
	if noCache {
		store = cache.NewNullCache()
	}
	return pipeline.NewRunner(store, cache.NewScopedKeyer(nil, cacheScope), c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// bindLayoutFlags registers the layout options shared by layout and watch.
func bindLayoutFlags(fs *pflag.FlagSet, opts *pipeline.Options) {
	fs.Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "canvas width")
	fs.Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "canvas height")
	fs.Float64Var(&opts.LinkDistance, "link-distance", pipeline.DefaultLinkDistance, "ideal link length")
	fs.Float64Var(&opts.NodeSize, "node-size", 0, "size of nodes without width or height")
	fs.BoolVar(&opts.AvoidOverlaps, "avoid-overlaps", false, "keep node rectangles from overlapping")
	fs.BoolVar(&opts.SkipDisconnected, "skip-disconnected", false, "do not pack disconnected components")
	fs.BoolVar(&opts.NoCenter, "no-center", false, "do not centre packed components on the canvas")
	fs.Float64Var(&opts.Threshold, "threshold", 0, "alpha below which ticking stops")
	fs.Float64Var(&opts.GroupCompactness, "group-compactness", 0, "strength of the group compactness term")
	fs.StringVar(&opts.LinkLengths, "link-lengths", "", "link length heuristic: symmetric, jaccard")
	fs.Float64Var(&opts.LinkLengthWeight, "link-length-weight", 0, "weight of the link length heuristic")
	fs.StringVar(&opts.FlowAxis, "flow", "", "direct links along an axis: x, y")
	fs.Float64Var(&opts.FlowSeparation, "flow-separation", 0, "minimum separation of directed links")
	fs.IntVar(&opts.Iterations.Unconstrained, "unconstrained", pipeline.DefaultIterations.Unconstrained, "iterations without constraints")
	fs.IntVar(&opts.Iterations.UserConstraints, "user-constraints", pipeline.DefaultIterations.UserConstraints, "iterations with user constraints")
	fs.IntVar(&opts.Iterations.AllConstraints, "all-constraints", pipeline.DefaultIterations.AllConstraints, "iterations with all constraints")
	fs.IntVar(&opts.Iterations.GridSnap, "grid-snap", 0, "iterations of grid snapping")
}

// applyConfigFile replaces opts with the TOML file at path and then re-applies
// every flag given on the command line, so flags win over the file.
func applyConfigFile(fs *pflag.FlagSet, path string, opts *pipeline.Options) error {
	changed := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	loaded, err := pipeline.LoadOptionsFile(path)
	if err != nil {
		return err
	}
	*opts = loaded

	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, strings.ToLower(f))
		}
	}
	return formats
}

// outputBase derives the artifact path prefix. An explicit output keeps its
// directory and drops a known format extension.
func outputBase(input, output string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout"
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[strings.ToLower(ext)] {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}
