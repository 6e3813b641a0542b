// Package pack finds disconnected components of a graph and arranges their
// bounding boxes on the canvas.
//
// [SeparateGraphs] splits nodes into connected components. [ApplyPacking]
// then places the component boxes in shelves, choosing the shelf width by
// golden section search so that the overall aspect ratio approaches the
// desired one, and translates every node with its component.
package pack
