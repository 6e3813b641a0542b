// Package render draws finished layouts.
//
// [ToDOT] converts a [graph.Result] into an undirected Graphviz DOT graph in
// which every node is pinned at its computed position, and [RenderSVG] turns
// that DOT into SVG with the neato engine. Because all positions are pinned,
// Graphviz only draws; it does not move anything.
//
//	dot := render.ToDOT(result, g, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Coordinates are taken as points. The y axis is flipped so the picture
// matches screen coordinates, where y grows downward.
//
// Groups are emitted twice: as nested cluster subgraphs holding their
// members, which keeps the DOT readable, and as dashed background boxes at
// their final bounds, which is what neato actually draws.
package render
