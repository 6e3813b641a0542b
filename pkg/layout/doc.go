// Package layout computes 2D positions for a graph by stress majorization
// under separation, alignment, flow, non-overlap and group containment
// constraints.
//
// # Phases
//
// [Layout.Start] runs a fixed schedule:
//
//  1. Ideal distances from shortest paths over the links (or a supplied
//     distance matrix), with attraction between the two boundary dummies of
//     every group.
//  2. Unconstrained descent. With groups, a flat helper layout in which each
//     group is a dummy node linked to its members seeds the positions.
//  3. Descent projected onto the user and flow constraints.
//  4. Packing of disconnected components.
//  5. Descent with non-overlap and group containment when AvoidOverlaps is
//     set, now with unlinked pairs only repelling.
//  6. Optional grid snapping.
//  7. Packing again.
//
// With keepRunning the layout then resumes at alpha 0.1 and the caller
// advances it with [Layout.Tick] or [Layout.Converge].
//
// # Events
//
// Handlers registered with [Layout.On] receive EventStart when the layout
// starts running, EventTick after every tick and EventEnd once alpha drops
// below the convergence threshold.
//
// A Layout is not safe for concurrent use.
package layout
