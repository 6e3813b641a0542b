package rbtree

// Iterator is a bidirectional cursor over a [Tree]. It holds an element
// rather than a tree node, so it stays usable across mutations: Next and
// Prev step relative to the held element's key even after it is removed.
type Iterator[T any] struct {
	tree  *Tree[T]
	cur   T
	valid bool
}

// Data returns the element under the cursor. ok is false for a null cursor.
func (it *Iterator[T]) Data() (v T, ok bool) {
	if !it.valid {
		return v, false
	}
	return it.cur, true
}

// Next advances the cursor and returns the new element.
// From a null cursor it moves to the minimum.
func (it *Iterator[T]) Next() (v T, ok bool) {
	if it.valid {
		it.cur, it.valid = it.tree.successor(it.cur)
	} else {
		it.cur, it.valid = it.tree.Min()
	}
	return it.Data()
}

// Prev moves the cursor back and returns the new element.
// From a null cursor it moves to the maximum.
func (it *Iterator[T]) Prev() (v T, ok bool) {
	if it.valid {
		it.cur, it.valid = it.tree.predecessor(it.cur)
	} else {
		it.cur, it.valid = it.tree.Max()
	}
	return it.Data()
}
