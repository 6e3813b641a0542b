// Package graph provides the file formats of clustermap.
//
// The layout engine in pkg/layout addresses nodes, groups and constraints by
// index. This package defines the on-disk form, where everything is
// addressed by string id, and converts between the two:
//
//   - [Graph]: nodes, links, groups and constraints read from JSON, YAML or
//     TOML
//   - [Result]: final node positions and group bounds
//   - [Rect]: plain rectangles for overlap removal
//
// # Reading
//
//	g, err := graph.ReadGraphFile("network.yaml")
//	lg, err := g.ToLayout(800, 600)
//
// The format is chosen from the file extension: .json, .yaml or .yml, and
// .toml. [Decode] reads from any io.Reader when the format is known.
//
// # Positions
//
// Node positions are centres. A node without x or y starts at the centre of
// the canvas passed to [Graph.ToLayout]. Group bounds in a [Result] are
// given by their corners.
package graph
