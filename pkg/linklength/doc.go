// Package linklength derives per-link ideal lengths and flow constraints
// from graph structure.
//
// Link length heuristics lengthen links between nodes whose neighbourhoods
// differ, which spreads dense clusters apart. [SymmetricDiffLinkLengths] uses
// the size of the symmetric difference of the two neighbourhoods and
// [JaccardLinkLengths] the Jaccard similarity.
//
// [GenerateDirectedEdgeConstraints] turns a directed graph into separation
// constraints that make links flow along one axis. Links inside a strongly
// connected component are skipped, since a cycle cannot flow.
package linklength
