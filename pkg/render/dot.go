package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
)

// pointsPerInch converts layout units to Graphviz sizes.
const pointsPerInch = 72

// minSize keeps zero-sized nodes drawable.
const minSize = 1

// Options configures DOT output.
type Options struct {
	// Detailed adds the position to every node label.
	Detailed bool

	// Scale multiplies every coordinate and size. Zero means 1.
	Scale float64
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// ToDOT converts a layout result to DOT with pinned positions. g supplies
// links, labels and group membership; it must be the graph r was computed
// from.
func ToDOT(r *graph.Result, g *graph.Graph, opts Options) string {
	s := opts.scale()
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=10];\n")
	buf.WriteString("\n")

	for _, b := range r.Groups {
		w, h := (b.MaxX-b.MinX)*s, (b.MaxY-b.MinY)*s
		fmt.Fprintf(&buf, "  %q [label=\"\", shape=box, style=dashed, color=grey, %s, %s];\n",
			"group:"+b.ID, fmtPos((b.MinX+b.MaxX)/2*s, (b.MinY+b.MaxY)/2*s), fmtSize(w, h))
	}

	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.ID] = n.DisplayLabel()
	}
	for _, p := range r.Nodes {
		label := labels[p.ID]
		if label == "" {
			label = p.ID
		}
		if opts.Detailed {
			label = fmt.Sprintf("%s\n(%.1f, %.1f)", label, p.X, p.Y)
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s, %s];\n", p.ID, label, fmtPos(p.X*s, p.Y*s), fmtSize(p.Width*s, p.Height*s))
	}

	if len(g.Groups) > 0 {
		buf.WriteString("\n")
		writeClusters(&buf, g.Groups)
	}

	if len(g.Links) > 0 {
		buf.WriteString("\n")
	}
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %q -- %q;\n", l.Source, l.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeClusters(buf *bytes.Buffer, groups []graph.Group) {
	byID := make(map[string]graph.Group, len(groups))
	child := make(map[string]bool)
	for _, gr := range groups {
		byID[gr.ID] = gr
		for _, c := range gr.Groups {
			child[c] = true
		}
	}
	var write func(gr graph.Group, depth int)
	write = func(gr graph.Group, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+gr.ID)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, gr.ID)
		for _, id := range gr.Leaves {
			fmt.Fprintf(buf, "%s  %q;\n", indent, id)
		}
		for _, c := range gr.Groups {
			write(byID[c], depth+1)
		}
		fmt.Fprintf(buf, "%s}\n", indent)
	}
	for _, gr := range groups {
		if !child[gr.ID] {
			write(gr, 1)
		}
	}
}

// fmtPos pins a node; y is flipped into Graphviz's upward axis.
func fmtPos(x, y float64) string {
	return fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(-y))
}

func fmtSize(w, h float64) string {
	w = math.Max(w, minSize)
	h = math.Max(h, minSize)
	return fmt.Sprintf("width=%s, height=%s", fmtFloat(w/pointsPerInch), fmtFloat(h/pointsPerInch))
}

func fmtFloat(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
