package shortestpath

import "errors"

// ErrInvariant is returned by [PairingHeap.Check].
var ErrInvariant = errors.New("shortestpath: heap invariant violated")

// HeapNode is a handle to an element stored in a [PairingHeap].
type HeapNode[T any] struct {
	Value T

	child   *HeapNode[T]
	sibling *HeapNode[T]
	// prev is the parent for a first child, otherwise the previous sibling.
	prev *HeapNode[T]
}

// PairingHeap is a min-heap with O(1) insert and amortized O(log n)
// delete-min and decrease-key.
type PairingHeap[T any] struct {
	root *HeapNode[T]
	size int
	less func(a, b T) bool
}

// NewPairingHeap creates an empty heap ordered by less.
func NewPairingHeap[T any](less func(a, b T) bool) *PairingHeap[T] {
	return &PairingHeap[T]{less: less}
}

// Len returns the number of elements.
func (h *PairingHeap[T]) Len() int { return h.size }

// Empty reports whether the heap holds no elements.
func (h *PairingHeap[T]) Empty() bool { return h.root == nil }

// Top returns the minimum element without removing it.
func (h *PairingHeap[T]) Top() (v T, ok bool) {
	if h.root == nil {
		return v, false
	}
	return h.root.Value, true
}

// Push inserts v and returns its handle for later DecreaseKey calls.
func (h *PairingHeap[T]) Push(v T) *HeapNode[T] {
	n := &HeapNode[T]{Value: v}
	h.root = h.meld(h.root, n)
	h.size++
	return n
}

// Pop removes and returns the minimum element.
func (h *PairingHeap[T]) Pop() (v T, ok bool) {
	if h.root == nil {
		return v, false
	}
	top := h.root
	h.root = h.mergePairs(top.child)
	if h.root != nil {
		h.root.prev = nil
	}
	top.child = nil
	h.size--
	return top.Value, true
}

// DecreaseKey replaces the value of n with v, which must not sort after the
// current value.
func (h *PairingHeap[T]) DecreaseKey(n *HeapNode[T], v T) {
	n.Value = v
	if n == h.root {
		return
	}
	h.cut(n)
	h.root = h.meld(h.root, n)
}

// cut detaches the subtree rooted at n from its parent.
func (h *PairingHeap[T]) cut(n *HeapNode[T]) {
	if n.prev.child == n {
		n.prev.child = n.sibling
	} else {
		n.prev.sibling = n.sibling
	}
	if n.sibling != nil {
		n.sibling.prev = n.prev
	}
	n.sibling = nil
	n.prev = nil
}

func (h *PairingHeap[T]) meld(a, b *HeapNode[T]) *HeapNode[T] {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	if h.less(b.Value, a.Value) {
		a, b = b, a
	}
	// b becomes the first child of a
	b.prev = a
	b.sibling = a.child
	if a.child != nil {
		a.child.prev = b
	}
	a.child = b
	a.sibling = nil
	a.prev = nil
	return a
}

// mergePairs performs the standard two-pass pairing of a sibling list.
func (h *PairingHeap[T]) mergePairs(first *HeapNode[T]) *HeapNode[T] {
	if first == nil {
		return nil
	}
	var pairs []*HeapNode[T]
	for n := first; n != nil; {
		a := n
		b := a.sibling
		if b == nil {
			a.sibling, a.prev = nil, nil
			pairs = append(pairs, a)
			break
		}
		n = b.sibling
		a.sibling, a.prev = nil, nil
		b.sibling, b.prev = nil, nil
		pairs = append(pairs, h.meld(a, b))
	}
	root := pairs[len(pairs)-1]
	for i := len(pairs) - 2; i >= 0; i-- {
		root = h.meld(pairs[i], root)
	}
	return root
}

// IsHeap reports whether every child sorts no earlier than its parent.
func (h *PairingHeap[T]) IsHeap() bool {
	var check func(n *HeapNode[T]) bool
	check = func(parent *HeapNode[T]) bool {
		for c := parent.child; c != nil; c = c.sibling {
			if h.less(c.Value, parent.Value) || !check(c) {
				return false
			}
		}
		return true
	}
	return h.root == nil || check(h.root)
}

// Check returns ErrInvariant when the heap property does not hold.
func (h *PairingHeap[T]) Check() error {
	if !h.IsHeap() {
		return ErrInvariant
	}
	return nil
}
