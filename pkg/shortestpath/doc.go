// Package shortestpath computes ideal node distances for stress layout.
//
// [Calculator] runs Dijkstra's algorithm over an undirected link graph using
// a [PairingHeap] priority queue. It produces either the full n x n distance
// matrix consumed by [descent] or a single-source distance vector.
// Unreachable pairs are +Inf, which the optimizer treats as "no interaction".
//
// [Calculator.PathFromNodeToNodeWithPrevCost] is a variant for path-shaped
// output that charges an extra cost for every turn, as computed by a caller
// function of the previous, current and next node.
//
// [descent]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/descent
package shortestpath
