// Package overlap turns rectangle layouts into separation constraints.
//
// # Overview
//
// [GenerateXConstraints] and [GenerateYConstraints] sweep a scan line across
// the rectangles and emit one [vpsc.Constraint] per pair of rectangles that
// must be pushed apart on that axis. The sweep keeps the active rectangles in
// an [rbtree.Tree] ordered by centre, so only near neighbours are compared
// and the constraint count stays close to linear for typical layouts.
//
// Hierarchical groups add two boundary variables per group; the generated
// constraints keep every member between them, as in
// [GenerateXGroupConstraints].
//
// [Projection] bundles node variables, group boundaries, user constraints
// and alignment into the per-axis projection functions consumed by the
// stress optimizer. [RemoveOverlaps] is a standalone one-shot cleanup.
package overlap
