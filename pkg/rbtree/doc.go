// Package rbtree provides a generic red-black tree with ordered cursors.
//
// # Overview
//
// The tree keeps its elements sorted by a caller-supplied comparator and
// guarantees O(log n) insertion, removal and lookup. Storage is a
// left-leaning red-black tree from github.com/biogo/store/llrb; this package
// adds unique keys, typed elements and bidirectional cursors on top of it. It exists to back the
// scan-line of the non-overlap constraint generator in [overlap], where every
// open rectangle must find its immediate neighbours along the separating axis
// quickly.
//
// # Basic Usage
//
// Create a tree with [New] and a three-way comparator:
//
//	t := rbtree.New(func(a, b int) int { return a - b })
//	t.Insert(3)
//	t.Insert(1)
//	t.Insert(2)
//
//	it := t.FindIter(2)
//	prev, _ := it.Prev() // 1
//
// Keys are unique: [Tree.Insert] reports false when an equal element is
// already present. Comparators used with the scan-line break ties on a stable
// secondary key so that distinct elements never compare equal.
//
// # Cursors
//
// An [Iterator] is a cursor over the tree. A cursor that has walked off either
// end is "null"; calling [Iterator.Next] on a null cursor moves it to the
// minimum and [Iterator.Prev] moves it to the maximum. Each step is a
// floor or ceiling query on the held element, so cursors survive mutation.
//
// # Invariants
//
// Red-black violations do not crash; they silently corrupt later neighbour
// queries. [Tree.Check] verifies the full set of invariants (black root, no
// red-red edge, red links lean left, uniform black height, search order and
// size) and is intended for tests.
//
// [overlap]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap
package rbtree
