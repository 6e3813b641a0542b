package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/shortestpath"
)

// pathsFlags holds paths command flags.
type pathsFlags struct {
	from string
	to   string
	bend float64
}

// pathsCommand creates the paths command for shortest path queries.
func (c *CLI) pathsCommand() *cobra.Command {
	var flags pathsFlags

	cmd := &cobra.Command{
		Use:   "paths [graph]",
		Short: "Query shortest paths over a graph's links",
		Long: `Query shortest paths over a graph's links.

Links are undirected and weighted by their length, or 1 when no length is
set. With only --from, prints the distance to every node. With --to as
well, prints the cheapest path.

--bend adds a turn penalty to the path search: each step pays bend times
(1 - cos θ), where θ is the turn angle at the intermediate node. Turns are
measured from the node positions in the graph file; nodes without a
position never pay the penalty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			return runPaths(g, flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "source node id (required)")
	cmd.Flags().StringVar(&flags.to, "to", "", "target node id")
	cmd.Flags().Float64Var(&flags.bend, "bend", 0, "turn penalty weight")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

// pathGraph indexes a graph for the shortest path calculator.
type pathGraph struct {
	g     *graph.Graph
	index map[string]int
	calc  *shortestpath.Calculator
}

func newPathGraph(g *graph.Graph) *pathGraph {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
	}
	calc := shortestpath.New(len(g.Nodes), g.Links,
		func(l graph.Link) int { return index[l.Source] },
		func(l graph.Link) int { return index[l.Target] },
		func(l graph.Link) float64 {
			if l.Length > 0 {
				return l.Length
			}
			return 1
		})
	return &pathGraph{g: g, index: index, calc: calc}
}

func (p *pathGraph) lookup(id string) (int, error) {
	i, ok := p.index[id]
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	return i, nil
}

// distances returns one row per node: id and distance from source.
func (p *pathGraph) distances(source int) [][]string {
	d := p.calc.DistancesFromNode(source)
	rows := make([][]string, len(d))
	for i, v := range d {
		dist := "unreachable"
		if !math.IsInf(v, 1) {
			dist = strconv.FormatFloat(v, 'g', -1, 64)
		}
		rows[i] = []string{p.g.Nodes[i].ID, dist}
	}
	return rows
}

// path returns the node ids of the cheapest path and its link length, or
// nil when target is unreachable.
func (p *pathGraph) path(source, target int, bend float64) ([]string, float64) {
	var idx []int
	if bend > 0 {
		idx = p.calc.PathFromNodeToNodeWithPrevCost(source, target, func(prev, u, v int) float64 {
			return bend * p.turn(prev, u, v)
		})
	} else {
		idx = p.calc.PathFromNodeToNode(source, target)
	}
	if idx == nil {
		return nil, math.Inf(1)
	}
	ids := make([]string, len(idx))
	length := 0.0
	for i, v := range idx {
		ids[i] = p.g.Nodes[v].ID
		if i > 0 {
			length += p.linkLength(idx[i-1], v)
		}
	}
	return ids, length
}

// turn returns 1 - cos of the angle between prev→u and u→v, in [0, 2].
func (p *pathGraph) turn(prev, u, v int) float64 {
	a, b, c := p.g.Nodes[prev], p.g.Nodes[u], p.g.Nodes[v]
	if a.X == nil || a.Y == nil || b.X == nil || b.Y == nil || c.X == nil || c.Y == nil {
		return 0
	}
	ux, uy := *b.X-*a.X, *b.Y-*a.Y
	vx, vy := *c.X-*b.X, *c.Y-*b.Y
	lu, lv := math.Hypot(ux, uy), math.Hypot(vx, vy)
	if lu == 0 || lv == 0 {
		return 0
	}
	return 1 - (ux*vx+uy*vy)/(lu*lv)
}

// linkLength returns the shortest direct link between u and v.
func (p *pathGraph) linkLength(u, v int) float64 {
	best := math.Inf(1)
	for _, l := range p.g.Links {
		s, t := p.index[l.Source], p.index[l.Target]
		if (s == u && t == v) || (s == v && t == u) {
			length := l.Length
			if length <= 0 {
				length = 1
			}
			best = math.Min(best, length)
		}
	}
	return best
}

func runPaths(g *graph.Graph, flags pathsFlags) error {
	p := newPathGraph(g)
	source, err := p.lookup(flags.from)
	if err != nil {
		return err
	}

	if flags.to == "" {
		printInfo("Distances from %s", StyleHighlight.Render(flags.from))
		printTable([]string{"Node", "Distance"}, p.distances(source))
		return nil
	}

	target, err := p.lookup(flags.to)
	if err != nil {
		return err
	}
	ids, length := p.path(source, target, flags.bend)
	if ids == nil {
		printWarning("%s is unreachable from %s", flags.to, flags.from)
		return nil
	}
	printSuccess("Path found")
	printKeyValue("Path", strings.Join(ids, " "+iconArrow+" "))
	printKeyValue("Hops", strconv.Itoa(len(ids)-1))
	printKeyValue("Length", strconv.FormatFloat(length, 'g', -1, 64))
	return nil
}
